package model

import "time"

// BufferConfig is the single global row of tunable minute thresholds.
// Fields are nullable; the engine substitutes fixed defaults for any
// missing or negative value (see engine.LoadBufferConfig).
type BufferConfig struct {
	ID                   uint `gorm:"primaryKey;column:id" json:"id"`
	LateMinutes          *int `gorm:"column:late_minutes" json:"lateMinutes"`
	EarlyCheckoutMinutes *int `gorm:"column:early_checkout_minutes" json:"earlyCheckoutMinutes"`
	OtEarlyMinutes       *int `gorm:"column:ot_early_minutes" json:"otEarlyMinutes"`
	OtLateMinutes        *int `gorm:"column:ot_late_minutes" json:"otLateMinutes"`

	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (BufferConfig) TableName() string {
	return "buffer_config"
}
