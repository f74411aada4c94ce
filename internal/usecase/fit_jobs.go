package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TransitScan/internal/domain/models"
	domrepo "TransitScan/internal/domain/repository"
	"TransitScan/internal/services/transit"
	applogger "TransitScan/pkg/logger"
	"TransitScan/pkg/queue"
)

// FitJobType is the queue message type for asynchronous fit requests.
const FitJobType = "fit.requested"

// FitJobPayload is the queued description of one fit request.
type FitJobPayload struct {
	ID       string  `json:"id"`
	Target   string  `json:"target"`
	N        int     `json:"n"`
	Cadence  string  `json:"cadence"`
	DMin     float64 `json:"d_min"`
	DMax     float64 `json:"d_max"`
	DSteps   int     `json:"d_steps"`
	TMin     float64 `json:"t_min"`
	TMax     float64 `json:"t_max"`
	TSteps   int     `json:"t_steps"`
	T1Step   float64 `json:"t1_step"`
	Parallel bool    `json:"parallel"`
}

// FitJobRegistry tracks the status of submitted fit jobs in memory.
type FitJobRegistry struct {
	mu sync.RWMutex
	m  map[string]*models.FitJob
}

func NewFitJobRegistry() *FitJobRegistry {
	return &FitJobRegistry{m: make(map[string]*models.FitJob)}
}

func (r *FitJobRegistry) Create(id, target string) *models.FitJob {
	job := &models.FitJob{ID: id, Target: target, State: "queued", Submitted: time.Now()}
	r.mu.Lock()
	r.m[id] = job
	r.mu.Unlock()
	return job
}

func (r *FitJobRegistry) Get(id string) (*models.FitJob, bool) {
	r.mu.RLock()
	job, ok := r.m[id]
	r.mu.RUnlock()
	return job, ok
}

func (r *FitJobRegistry) setState(id, state, errMsg string, result *models.TransitFit) {
	r.mu.Lock()
	if job, ok := r.m[id]; ok {
		job.State = state
		job.Error = errMsg
		job.Result = result
		if state == "done" || state == "failed" {
			job.Finished = time.Now()
		}
	}
	r.mu.Unlock()
}

// TransitFitJob executes queued fit requests through TransitSearch.
type TransitFitJob struct {
	search *TransitSearch
	reg    *FitJobRegistry
	l      *applogger.Logger
}

func NewTransitFitJob(search *TransitSearch, reg *FitJobRegistry, l *applogger.Logger) *TransitFitJob {
	return &TransitFitJob{search: search, reg: reg, l: l}
}

func (j *TransitFitJob) Name() string { return "transit_fit" }
func (j *TransitFitJob) Type() string { return FitJobType }

func (j *TransitFitJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[FitJobPayload](payload)
	if err != nil {
		return fmt.Errorf("fit job payload: %w", err)
	}

	j.reg.setState(p.ID, "running", "", nil)

	res, err := j.search.FitStored(ctx, FitStoredParams{
		Target:   p.Target,
		N:        p.N,
		Cadence:  domrepo.NormalizeCadence(p.Cadence),
		DGrid:    transit.Linspace(p.DMin, p.DMax, p.DSteps),
		TGrid:    transit.Linspace(p.TMin, p.TMax, p.TSteps),
		T1Step:   p.T1Step,
		Parallel: p.Parallel,
	})
	if err != nil {
		j.reg.setState(p.ID, "failed", err.Error(), nil)
		if j.l != nil {
			j.l.Error("fit job failed", applogger.String("job_id", p.ID), applogger.Error(err))
		}
		return err
	}

	j.reg.setState(p.ID, "done", "", res.Fit)
	if j.l != nil {
		j.l.Info("fit job done",
			applogger.String("job_id", p.ID),
			applogger.String("target", p.Target),
			applogger.Bool("found", res.Fit.Found),
			applogger.Int64("evaluated", res.Fit.Evaluated),
		)
	}
	return nil
}

var _ queue.Job = (*TransitFitJob)(nil)
