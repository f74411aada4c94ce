package usecase

import (
	"context"
	"encoding/json"
	"time"

	"TransitScan/internal/domain/models"
	domrepo "TransitScan/internal/domain/repository"
	pkgkafka "TransitScan/pkg/kafka"
)

// KafkaPointsHandler consumes photometry messages and writes to storage.
type KafkaPointsHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
}

func NewKafkaPointsHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics) *KafkaPointsHandler {
	return &KafkaPointsHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaPointsHandler) Topic() string { return h.topic }

// incoming message schema: {target, t, f, e}
func (h *KafkaPointsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Target string  `json:"target"`
		T      int64   `json:"t"`
		F      float64 `json:"f"`
		E      float64 `json:"e"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	// E2E latency from exposure time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &models.PhotometryPoint{
		Target:    m.Target,
		Timestamp: m.T,
		Flux:      m.F,
		Sigma:     m.E,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordPointStored("clickhouse", m.Target)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaPointsHandler)(nil)
