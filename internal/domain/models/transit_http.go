package models

// Requests for transit HTTP endpoints. Defined in domain for consistency and reuse.

// FitRequest carries an inline light curve plus explicit search grids.
// Sigma is either a single positive scalar or one value per sample.
type FitRequest struct {
	Time   []float64 `json:"time" validate:"required,min=2"`
	Flux   []float64 `json:"flux" validate:"required,min=2"`
	Sigma  []float64 `json:"sigma" validate:"required,min=1"`
	DGrid  []float64 `json:"d_grid" validate:"required,min=1"`
	TGrid  []float64 `json:"t_grid" validate:"required,min=1"`
	T1Step float64   `json:"t1_step" validate:"required,gt=0"`
}

// TargetFitRequest fits a stored target over a time range using grid specs.
type TargetFitRequest struct {
	Target   string  `query:"target" json:"target" validate:"required"`
	From     string  `query:"from" json:"from"`
	To       string  `query:"to" json:"to"`
	N        int     `query:"n" json:"n" default:"2000" validate:"gte=2,lte=100000"`
	Cadence  string  `query:"cadence" json:"cadence" default:"1m" validate:"oneof=1s 1m 5m"`
	DMin     float64 `query:"d_min" json:"d_min" default:"0" validate:"gte=0"`
	DMax     float64 `query:"d_max" json:"d_max" default:"0.03" validate:"gt=0"`
	DSteps   int     `query:"d_steps" json:"d_steps" default:"61" validate:"gte=2,lte=1000"`
	TMin     float64 `query:"t_min" json:"t_min" default:"0.01" validate:"gt=0"`
	TMax     float64 `query:"t_max" json:"t_max" default:"0.20" validate:"gt=0"`
	TSteps   int     `query:"t_steps" json:"t_steps" default:"61" validate:"gte=2,lte=1000"`
	T1Step   float64 `query:"t1_step" json:"t1_step" default:"0.01" validate:"gt=0"`
	Parallel bool    `query:"parallel" json:"parallel"`
}

// LightCurveRequest fetches stored photometry for a target.
type LightCurveRequest struct {
	Target  string `query:"target" json:"target" validate:"required"`
	From    string `query:"from" json:"from"`
	To      string `query:"to" json:"to"`
	Cadence string `query:"cadence" json:"cadence" default:"1m" validate:"oneof=1s 1m 5m"`
	Limit   int    `query:"limit" json:"limit" default:"10000" validate:"gte=1,lte=100000"`
}

// SyntheticFitRequest generates a noisy synthetic transit and fits it back.
type SyntheticFitRequest struct {
	DTrue  float64 `json:"d_true" default:"0.01" validate:"gte=0"`
	TTrue  float64 `json:"t_true" default:"0.12" validate:"gt=0"`
	T1True float64 `json:"t1_true" default:"-0.06"`
	Sigma  float64 `json:"sigma" default:"0.0005" validate:"gt=0"`
	Seed   int64   `json:"seed"`
	TimeLo float64 `json:"time_lo" default:"-0.5"`
	TimeHi float64 `json:"time_hi" default:"0.5"`
	DT     float64 `json:"dt" default:"0.01" validate:"gt=0"`
	DMax   float64 `json:"d_max" default:"0.03" validate:"gt=0"`
	DSteps int     `json:"d_steps" default:"61" validate:"gte=2,lte=1000"`
	TMin   float64 `json:"t_min" default:"0.01" validate:"gt=0"`
	TMax   float64 `json:"t_max" default:"0.20" validate:"gt=0"`
	TSteps int     `json:"t_steps" default:"61" validate:"gte=2,lte=1000"`
}

// FitJobStatusRequest looks up an asynchronous fit job.
type FitJobStatusRequest struct {
	ID string `param:"id" json:"id" validate:"required"`
}
