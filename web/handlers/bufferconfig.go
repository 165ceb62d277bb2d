package handlers

import (
	"net/http"

	"geoclock.com/geoclock/engine"
	"geoclock.com/geoclock/model"
	"geoclock.com/geoclock/web/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// GetBufferConfig returns the effective thresholds, defaults applied.
func (ep *Endpoint) GetBufferConfig(c *gin.Context) {
	cfg := engine.LoadBufferConfig(ep.DB)
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"lateMinutes":          cfg.LateMinutes,
		"earlyCheckoutMinutes": cfg.EarlyCheckoutMinutes,
		"otEarlyMinutes":       cfg.OtEarlyMinutes,
		"otLateMinutes":        cfg.OtLateMinutes,
	}))
}

type BufferConfigDTO struct {
	LateMinutes          *int `json:"lateMinutes" binding:"omitempty,min=0"`
	EarlyCheckoutMinutes *int `json:"earlyCheckoutMinutes" binding:"omitempty,min=0"`
	OtEarlyMinutes       *int `json:"otEarlyMinutes" binding:"omitempty,min=0"`
	OtLateMinutes        *int `json:"otLateMinutes" binding:"omitempty,min=0"`
}

// UpdateBufferConfig upserts the single global row. Running aggregations
// keep their snapshot; the new thresholds apply from the next run.
func (ep *Endpoint) UpdateBufferConfig(c *gin.Context) {
	var body BufferConfigDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	row := model.BufferConfig{
		ID:                   1,
		LateMinutes:          body.LateMinutes,
		EarlyCheckoutMinutes: body.EarlyCheckoutMinutes,
		OtEarlyMinutes:       body.OtEarlyMinutes,
		OtLateMinutes:        body.OtLateMinutes,
	}

	if err := ep.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(engine.NormalizeBufferConfig(row)))
}
