package engine

import (
	"geoclock.com/geoclock/model"
	"gorm.io/gorm"
)

// BufferConfig is the snapshot of tunable minute thresholds consumed by one
// aggregation run. It is always passed as a parameter, never read inside the
// algorithm.
type BufferConfig struct {
	LateMinutes          int
	EarlyCheckoutMinutes int
	OtEarlyMinutes       int
	OtLateMinutes        int
}

var DefaultBufferConfig = BufferConfig{
	LateMinutes:          5,
	EarlyCheckoutMinutes: 5,
	OtEarlyMinutes:       15,
	OtLateMinutes:        60,
}

// LoadBufferConfig reads the global config row and substitutes defaults for
// missing or negative fields. A missing row or read failure falls back to
// the defaults entirely; config problems are never surfaced to callers.
func LoadBufferConfig(db *gorm.DB) BufferConfig {
	var row model.BufferConfig
	if err := db.First(&row).Error; err != nil {
		return DefaultBufferConfig
	}
	return NormalizeBufferConfig(row)
}

func NormalizeBufferConfig(row model.BufferConfig) BufferConfig {
	cfg := DefaultBufferConfig
	if row.LateMinutes != nil && *row.LateMinutes >= 0 {
		cfg.LateMinutes = *row.LateMinutes
	}
	if row.EarlyCheckoutMinutes != nil && *row.EarlyCheckoutMinutes >= 0 {
		cfg.EarlyCheckoutMinutes = *row.EarlyCheckoutMinutes
	}
	if row.OtEarlyMinutes != nil && *row.OtEarlyMinutes >= 0 {
		cfg.OtEarlyMinutes = *row.OtEarlyMinutes
	}
	if row.OtLateMinutes != nil && *row.OtLateMinutes >= 0 {
		cfg.OtLateMinutes = *row.OtLateMinutes
	}
	return cfg
}
