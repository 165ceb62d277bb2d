package engine

import (
	"testing"

	"geoclock.com/geoclock/model"
	"geoclock.com/geoclock/utils"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeBufferConfig(t *testing.T) {
	t.Run("All fields missing", func(t *testing.T) {
		cfg := NormalizeBufferConfig(model.BufferConfig{})
		assert.Equal(t, DefaultBufferConfig, cfg)
	})

	t.Run("Negative values fall back", func(t *testing.T) {
		cfg := NormalizeBufferConfig(model.BufferConfig{
			LateMinutes:   utils.Ptr(-1),
			OtLateMinutes: utils.Ptr(-30),
		})
		assert.Equal(t, DefaultBufferConfig.LateMinutes, cfg.LateMinutes)
		assert.Equal(t, DefaultBufferConfig.OtLateMinutes, cfg.OtLateMinutes)
	})

	t.Run("Valid values override", func(t *testing.T) {
		cfg := NormalizeBufferConfig(model.BufferConfig{
			LateMinutes:          utils.Ptr(10),
			EarlyCheckoutMinutes: utils.Ptr(0),
			OtEarlyMinutes:       utils.Ptr(20),
			OtLateMinutes:        utils.Ptr(90),
		})
		assert.Equal(t, BufferConfig{
			LateMinutes:          10,
			EarlyCheckoutMinutes: 0,
			OtEarlyMinutes:       20,
			OtLateMinutes:        90,
		}, cfg)
	})
}
