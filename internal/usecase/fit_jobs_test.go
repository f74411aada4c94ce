package usecase

import (
	"context"
	"encoding/json"
	"testing"
)

func TestFitJobRegistryLifecycle(t *testing.T) {
	reg := NewFitJobRegistry()

	job := reg.Create("j1", "KIC-1")
	if job.State != "queued" {
		t.Fatalf("state = %q, want queued", job.State)
	}
	if _, ok := reg.Get("j1"); !ok {
		t.Fatalf("job not found after create")
	}
	if _, ok := reg.Get("missing"); ok {
		t.Fatalf("unexpected job for unknown id")
	}

	reg.setState("j1", "running", "", nil)
	got, _ := reg.Get("j1")
	if got.State != "running" {
		t.Fatalf("state = %q, want running", got.State)
	}
	if !got.Finished.IsZero() {
		t.Fatalf("finished set while running")
	}

	reg.setState("j1", "failed", "boom", nil)
	got, _ = reg.Get("j1")
	if got.State != "failed" || got.Error != "boom" {
		t.Fatalf("failed state wrong: %+v", got)
	}
	if got.Finished.IsZero() {
		t.Fatalf("finished not set on failure")
	}
}

func TestTransitFitJobHandle(t *testing.T) {
	store := &memStore{curve: testCurve(9)}
	search := newTestSearch(store)
	reg := NewFitJobRegistry()
	job := NewTransitFitJob(search, reg, nil)

	if job.Type() != FitJobType {
		t.Fatalf("type = %q, want %q", job.Type(), FitJobType)
	}

	reg.Create("j2", "KIC-1")
	payload := FitJobPayload{
		ID: "j2", Target: "KIC-1", N: 2000, Cadence: "1m",
		DMin: 0, DMax: 0.03, DSteps: 61,
		TMin: 0.01, TMax: 0.20, TSteps: 61,
		T1Step: 0.01,
	}
	if err := job.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}

	got, _ := reg.Get("j2")
	if got.State != "done" {
		t.Fatalf("state = %q, want done", got.State)
	}
	if got.Result == nil || !got.Result.Found {
		t.Fatalf("expected found result, got %+v", got.Result)
	}
}

func TestTransitFitJobHandleJSONPayload(t *testing.T) {
	// Payloads arrive from Redis as decoded JSON maps.
	store := &memStore{curve: testCurve(10)}
	search := newTestSearch(store)
	reg := NewFitJobRegistry()
	job := NewTransitFitJob(search, reg, nil)

	reg.Create("j3", "KIC-1")
	b, err := json.Marshal(FitJobPayload{
		ID: "j3", Target: "KIC-1", N: 2000, Cadence: "1m",
		DMin: 0, DMax: 0.03, DSteps: 61,
		TMin: 0.01, TMax: 0.20, TSteps: 61,
		T1Step: 0.01,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if err := job.Handle(context.Background(), m); err != nil {
		t.Fatalf("handle: %v", err)
	}
	got, _ := reg.Get("j3")
	if got.State != "done" {
		t.Fatalf("state = %q, want done", got.State)
	}
}

func TestTransitFitJobHandleFailure(t *testing.T) {
	store := &memStore{curve: testCurve(11)}
	search := newTestSearch(store)
	reg := NewFitJobRegistry()
	job := NewTransitFitJob(search, reg, nil)

	reg.Create("j4", "")
	payload := FitJobPayload{ID: "j4", T1Step: 0.01}
	if err := job.Handle(context.Background(), payload); err == nil {
		t.Fatalf("expected error for empty target")
	}
	got, _ := reg.Get("j4")
	if got.State != "failed" {
		t.Fatalf("state = %q, want failed", got.State)
	}
}
