package usecase

import (
	"context"
	"testing"
)

func TestKafkaPointsHandlerStoresPoint(t *testing.T) {
	store := &stubStorage{}
	h := NewKafkaPointsHandler("photometry.points", store, nopMetrics{})

	if h.Topic() != "photometry.points" {
		t.Fatalf("topic = %q", h.Topic())
	}

	msg := []byte(`{"target":"KIC-1","t":1700000000,"f":0.9987,"e":0.0005}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("stored %d points, want 1", len(store.stored))
	}
	p := store.stored[0]
	if p.Target != "KIC-1" || p.Timestamp != 1700000000 || p.Flux != 0.9987 || p.Sigma != 0.0005 {
		t.Fatalf("point mismatch: %+v", p)
	}
}

func TestKafkaPointsHandlerMillisecondTimestamps(t *testing.T) {
	store := &stubStorage{}
	h := NewKafkaPointsHandler("photometry.points", store, nopMetrics{})

	msg := []byte(`{"target":"KIC-1","t":1700000000123,"f":1.0,"e":0.0005}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := store.stored[0].Timestamp; got != 1700000000 {
		t.Fatalf("timestamp = %d, want seconds", got)
	}
}

func TestKafkaPointsHandlerBadJSON(t *testing.T) {
	store := &stubStorage{}
	h := NewKafkaPointsHandler("photometry.points", store, nopMetrics{})

	if err := h.Handle(context.Background(), []byte("{not json")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if len(store.stored) != 0 {
		t.Fatalf("stored %d points, want 0", len(store.stored))
	}
}
