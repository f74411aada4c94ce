package transit

import (
	"math"
	"testing"
)

func TestArangeHalfOpen(t *testing.T) {
	got := Arange(0, 1, 0.25)
	want := []float64{0, 0.25, 0.5, 0.75}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestArangeHalfStepPaddingKeepsUpperBound(t *testing.T) {
	// The fitter pads stop by half a step so the last grid value survives
	// floating-point rounding.
	got := Arange(0, 0.5+0.125, 0.25)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (%v)", len(got), got)
	}
	if math.Abs(got[2]-0.5) > 1e-12 {
		t.Fatalf("last = %v, want 0.5", got[2])
	}
}

func TestArangeDegenerate(t *testing.T) {
	if got := Arange(0, 1, 0); got != nil {
		t.Fatalf("zero step: got %v, want nil", got)
	}
	if got := Arange(0, 1, -0.1); got != nil {
		t.Fatalf("negative step: got %v, want nil", got)
	}
	if got := Arange(1, 1, 0.1); got != nil {
		t.Fatalf("empty range: got %v, want nil", got)
	}
	if got := Arange(2, 1, 0.1); got != nil {
		t.Fatalf("inverted range: got %v, want nil", got)
	}
}

func TestLinspaceEndpoints(t *testing.T) {
	got := Linspace(0.01, 0.20, 61)
	if len(got) != 61 {
		t.Fatalf("len = %d, want 61", len(got))
	}
	if got[0] != 0.01 {
		t.Fatalf("first = %v, want 0.01", got[0])
	}
	if got[60] != 0.20 {
		t.Fatalf("last = %v, want 0.20", got[60])
	}
}

func TestLinspaceSmallN(t *testing.T) {
	if got := Linspace(1, 2, 0); got != nil {
		t.Fatalf("n=0: got %v, want nil", got)
	}
	got := Linspace(3, 9, 1)
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("n=1: got %v, want [3]", got)
	}
}
