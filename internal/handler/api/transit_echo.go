package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	models "TransitScan/internal/domain/models"
	domrepo "TransitScan/internal/domain/repository"
	icache "TransitScan/internal/service/cache"
	fitmetrics "TransitScan/internal/service/metrics"
	"TransitScan/internal/service/ratelimit"
	"TransitScan/internal/services/transit"
	"TransitScan/internal/usecase"
	pkgcache "TransitScan/pkg/cache"
	xhttp "TransitScan/pkg/http"
	xlogger "TransitScan/pkg/logger"
	"TransitScan/pkg/queue"

	"github.com/labstack/echo/v4"
)

// TransitEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type TransitEchoHandler struct {
	logger *xlogger.Logger
	search *usecase.TransitSearch
	curves *usecase.LightCurveUseCase
	cache  icache.BytesCache
	rl     *ratelimit.Limiter
	jobs   *usecase.FitJobRegistry
	q      queue.QueueService
	ttl    time.Duration
}

func NewTransitEchoHandler(logger *xlogger.Logger, search *usecase.TransitSearch, curves *usecase.LightCurveUseCase) *TransitEchoHandler {
	fitmetrics.Register()
	return &TransitEchoHandler{
		logger: logger,
		search: search,
		curves: curves,
		rl:     ratelimit.New(),
		ttl:    30 * time.Second,
	}
}

// SetCache injects a fit-result cache.
func (h *TransitEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetJobQueue injects the async fit job queue and registry.
func (h *TransitEchoHandler) SetJobQueue(q queue.QueueService, jobs *usecase.FitJobRegistry) {
	h.q = q
	h.jobs = jobs
}

func (h *TransitEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/lightcurve", h.LightCurve)
	g.GET("/fit", h.FitTarget)
	g.POST("/fit", h.FitInline)
	g.POST("/synthetic/fit", h.FitSynthetic)
	g.POST("/fit/async", h.SubmitFitJob)
	g.GET("/fit/jobs/:id", h.FitJobStatus)
}

func (h *TransitEchoHandler) LightCurve(c echo.Context) error {
	req := &models.LightCurveRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now()
	res, err := h.curves.GetLightCurve(c.Request().Context(), usecase.GetLightCurveParams{
		Target:  req.Target,
		From:    xhttp.ParseTimeDefault(req.From, now.Add(-24*time.Hour)),
		To:      xhttp.ParseTimeDefault(req.To, now),
		Cadence: domrepo.NormalizeCadence(req.Cadence),
		Limit:   req.Limit,
	})
	if err != nil {
		h.logger.Error("lightcurve usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *TransitEchoHandler) FitTarget(c echo.Context) error {
	start := time.Now()
	endpoint := "fit_target"
	defer func() {
		fitmetrics.FitLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.TargetFitRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":fit", 5, 2) {
		h.logger.Warn("fit rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	cacheKey := fitCacheKey(req)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("fit cache_get_error", xlogger.Error(err))
		} else if ok {
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	p := usecase.FitStoredParams{
		Target:   req.Target,
		N:        req.N,
		Cadence:  domrepo.NormalizeCadence(req.Cadence),
		DGrid:    transit.Linspace(req.DMin, req.DMax, req.DSteps),
		TGrid:    transit.Linspace(req.TMin, req.TMax, req.TSteps),
		T1Step:   req.T1Step,
		Parallel: req.Parallel,
	}
	if t, ok := xhttp.ParseTime(req.From); ok {
		p.From = t
	}
	if t, ok := xhttp.ParseTime(req.To); ok {
		p.To = t
	}

	res, err := h.search.FitStored(c.Request().Context(), p)
	if err != nil {
		fitmetrics.FitErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("fit usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if h.cache != nil {
		if b, err := json.Marshal(xhttp.APIResponse{
			Status:  http.StatusOK,
			Message: http.StatusText(http.StatusOK),
			Data:    res,
		}); err == nil {
			_ = h.cache.SetBytes(cacheKey, b, h.ttl)
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *TransitEchoHandler) FitInline(c echo.Context) error {
	start := time.Now()
	endpoint := "fit_inline"
	defer func() {
		fitmetrics.FitLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.FitRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	fit, err := h.search.FitInline(c.Request().Context(), req)
	if err != nil {
		fitmetrics.FitErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("fit inline usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, fit)
}

func (h *TransitEchoHandler) FitSynthetic(c echo.Context) error {
	req := &models.SyntheticFitRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.search.SyntheticTrial(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("synthetic trial error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *TransitEchoHandler) SubmitFitJob(c echo.Context) error {
	if h.q == nil || h.jobs == nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalError("job queue not configured"))
	}

	req := &models.TargetFitRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	id := fmt.Sprintf("%d", time.Now().UnixNano())
	payload := usecase.FitJobPayload{
		ID:       id,
		Target:   req.Target,
		N:        req.N,
		Cadence:  req.Cadence,
		DMin:     req.DMin,
		DMax:     req.DMax,
		DSteps:   req.DSteps,
		TMin:     req.TMin,
		TMax:     req.TMax,
		TSteps:   req.TSteps,
		T1Step:   req.T1Step,
		Parallel: req.Parallel,
	}

	job := h.jobs.Create(id, req.Target)
	if err := h.q.PublishMessage(c.Request().Context(), usecase.FitJobType, payload); err != nil {
		h.logger.Error("fit job enqueue error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, job)
}

func (h *TransitEchoHandler) FitJobStatus(c echo.Context) error {
	req := &models.FitJobStatusRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.jobs == nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalError("job queue not configured"))
	}
	job, ok := h.jobs.Get(req.ID)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("job %s not found", req.ID))
	}
	return xhttp.SuccessResponse(c, job)
}

func fitCacheKey(req *models.TargetFitRequest) string {
	return pkgcache.GenerateKeyWithParams("fit",
		req.Target, req.From, req.To, req.N, req.Cadence,
		req.DMin, req.DMax, req.DSteps, req.TMin, req.TMax, req.TSteps, req.T1Step)
}
