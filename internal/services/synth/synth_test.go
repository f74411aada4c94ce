package synth

import (
	"math"
	"testing"
)

func TestTimeGridInclusive(t *testing.T) {
	grid := TimeGrid(-0.5, 0.5, 0.01)
	if len(grid) != 101 {
		t.Fatalf("len = %d, want 101", len(grid))
	}
	if grid[0] != -0.5 {
		t.Fatalf("first = %v, want -0.5", grid[0])
	}
	if math.Abs(grid[100]-0.5) > 1e-9 {
		t.Fatalf("last = %v, want 0.5", grid[100])
	}
}

func TestInjectDropsFluxInWindow(t *testing.T) {
	grid := TimeGrid(-0.5, 0.5, 0.01)
	flux := Inject(grid, 0.12, 0.01, -0.06)

	var inWindow int
	for i, tt := range grid {
		if tt >= -0.06 && tt <= 0.06 {
			inWindow++
			if flux[i] != 0.99 {
				t.Fatalf("flux at %v = %v, want 0.99", tt, flux[i])
			}
		} else if flux[i] != 1.0 {
			t.Fatalf("flux at %v = %v, want 1.0", tt, flux[i])
		}
	}
	if inWindow == 0 {
		t.Fatalf("no samples inside window")
	}
}

func TestAddNoiseSeeded(t *testing.T) {
	base := make([]float64, 50)
	for i := range base {
		base[i] = 1
	}

	a := AddNoise(base, 5e-4, 42)
	b := AddNoise(base, 5e-4, 42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, a[i], b[i])
		}
	}

	c := AddNoise(base, 5e-4, 43)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced identical noise")
	}

	for i := range base {
		if base[i] != 1 {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestFlatNoiseBaseline(t *testing.T) {
	grid, flux := FlatNoise(-0.5, 0.5, 0.01, 5e-4, 1)
	if len(grid) != len(flux) {
		t.Fatalf("grid/flux length mismatch: %d vs %d", len(grid), len(flux))
	}
	for i, f := range flux {
		if math.Abs(f-1.0) > 5e-3 {
			t.Fatalf("flux[%d] = %v, too far from baseline", i, f)
		}
	}
}
