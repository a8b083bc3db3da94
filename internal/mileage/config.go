package mileage

import (
	"os"
	"strconv"
)

// Config holds the tunable thresholds of the mileage engine. All values are
// kilometers.
type Config struct {
	// LargeJumpKm is the start-vs-previous-end jump above which a trip is
	// accepted with a warning instead of silently.
	LargeJumpKm float64
	// MaxTripKm is the largest plausible single-trip distance. Live checks
	// warn above it; the strict pre-create check rejects.
	MaxTripKm float64
	// MediumGapKm and HighGapKm are the severity boundaries for unaccounted
	// mileage. A gap is low up to and including MediumGapKm, medium up to and
	// including HighGapKm, and high above that.
	MediumGapKm float64
	HighGapKm   float64
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		LargeJumpKm: 5000,
		MaxTripKm:   2000,
		MediumGapKm: 100,
		HighGapKm:   500,
	}
}

// ConfigFromEnv returns DefaultConfig with any MILEAGE_* environment
// overrides applied.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.LargeJumpKm = envFloat("MILEAGE_LARGE_JUMP_KM", cfg.LargeJumpKm)
	cfg.MaxTripKm = envFloat("MILEAGE_MAX_TRIP_KM", cfg.MaxTripKm)
	cfg.MediumGapKm = envFloat("MILEAGE_GAP_MEDIUM_KM", cfg.MediumGapKm)
	cfg.HighGapKm = envFloat("MILEAGE_GAP_HIGH_KM", cfg.HighGapKm)
	return cfg
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}
