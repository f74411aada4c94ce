package repository

// IsValidCadence returns true if c is a supported sampling cadence.
func IsValidCadence(c Cadence) bool {
	switch c {
	case Cad1s, Cad1m, Cad5m:
		return true
	default:
		return false
	}
}

// DefaultCadence returns the default sampling cadence.
func DefaultCadence() Cadence { return Cad1m }

// NormalizeCadence converts raw string to a valid cadence (or default).
func NormalizeCadence(s string) Cadence {
	if s == "" {
		return DefaultCadence()
	}
	c := Cadence(s)
	if IsValidCadence(c) {
		return c
	}
	return DefaultCadence()
}
