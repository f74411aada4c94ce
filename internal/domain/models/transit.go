package models

import "time"

// TransitParams is a candidate box-transit parameter triple.
type TransitParams struct {
	Duration float64 // T, days
	Depth    float64 // d, fractional flux drop
	Start    float64 // t1, days; transit ends at t1 + T
}

// TransitFit is the outcome of a grid search over one light curve.
// Found is false when no candidate triple fit inside the observed window;
// in that case Chi2 is +Inf, Model is nil and Evaluated is 0.
type TransitFit struct {
	Target    string
	Timestamp time.Time
	Found     bool
	Params    TransitParams
	Chi2      float64
	Model     []float64
	Evaluated int64 // total (T, d, t1) triples scored
}

// FitJob tracks an asynchronous fit submission.
type FitJob struct {
	ID        string
	Target    string
	State     string // "queued", "running", "done", "failed"
	Submitted time.Time
	Finished  time.Time
	Error     string
	Result    *TransitFit
}
