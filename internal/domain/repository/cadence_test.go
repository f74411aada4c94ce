package repository

import "testing"

func TestIsValidCadence(t *testing.T) {
	for _, c := range []Cadence{Cad1s, Cad1m, Cad5m} {
		if !IsValidCadence(c) {
			t.Fatalf("%s should be valid", c)
		}
	}
	if IsValidCadence(Cadence("2h")) {
		t.Fatalf("2h should be invalid")
	}
}

func TestNormalizeCadence(t *testing.T) {
	if got := NormalizeCadence(""); got != DefaultCadence() {
		t.Fatalf("empty: got %s", got)
	}
	if got := NormalizeCadence("1s"); got != Cad1s {
		t.Fatalf("1s: got %s", got)
	}
	if got := NormalizeCadence("bogus"); got != DefaultCadence() {
		t.Fatalf("bogus: got %s", got)
	}
}
