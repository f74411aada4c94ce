package models

// PhotometryPoint is a single calibrated brightness measurement of a target.
// Flux is normalized so the out-of-transit baseline sits near 1.0.
type PhotometryPoint struct {
	Target    string
	Timestamp int64 // unix seconds of mid-exposure
	Flux      float64
	Sigma     float64 // per-point measurement uncertainty
}
