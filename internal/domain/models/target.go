package models

// TargetInfo is catalog metadata for an observed target.
type TargetInfo struct {
	Target    string  `json:"target"`
	RA        float64 `json:"ra"`
	Dec       float64 `json:"dec"`
	Magnitude float64 `json:"magnitude"`
	Known     bool    `json:"known"`
}
