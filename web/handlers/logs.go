package handlers

import (
	"encoding/json"
	"net/http"

	"geoclock.com/geoclock/core"
	"geoclock.com/geoclock/engine"
	"geoclock.com/geoclock/model"
	"geoclock.com/geoclock/utils"
	"geoclock.com/geoclock/web/common"
	"geoclock.com/geoclock/web/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LogSearchParams struct {
	StartDate      common.DateOnly `json:"startDate" binding:"required"`
	EndDate        common.DateOnly `json:"endDate" binding:"required"`
	UserIDs        []uint          `json:"userIds"`
	SiteIDs        []uint          `json:"siteIds"`
	Status         string          `json:"status"`
	IncludeDeleted bool            `json:"includeDeleted"`
}

func (ep *Endpoint) SearchLogs(c *gin.Context) {
	var params LogSearchParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	query := ep.DB.Model(&model.ScanEvent{}).
		Where("date_key BETWEEN ? AND ?",
			params.StartDate.Format(utils.DateKeyLayout),
			params.EndDate.Format(utils.DateKeyLayout))

	if len(params.UserIDs) > 0 {
		query = query.Where("user_id IN ?", params.UserIDs)
	}
	if len(params.SiteIDs) > 0 {
		query = query.Where("site_id IN ?", params.SiteIDs)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if !params.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	var events []model.ScanEvent
	if err := query.Order("scan_time").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(events, total))
}

type LogCreateDTO struct {
	UserID   uint            `json:"userId" binding:"required"`
	SiteID   *uint           `json:"siteId"`
	ScanTime common.DateTime `json:"scanTime" binding:"required"`
	ScanType string          `json:"scanType" binding:"required,oneof=check-in check-out"`
}

// CreateLog manually enters a success event with admin provenance, audits
// the creation and rebuilds the affected day.
func (ep *Endpoint) CreateLog(c *gin.Context) {
	var body LogCreateDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	actorID, _ := middlewares.UserID(c)

	event := model.ScanEvent{
		ID:        uuid.NewString(),
		UserID:    body.UserID,
		SiteID:    body.SiteID,
		ScanTime:  body.ScanTime.Time,
		DateKey:   utils.DateKey(body.ScanTime.Time),
		Status:    model.ScanStatusSuccess,
		ScanType:  body.ScanType,
		CreatedBy: model.CreatedByAdmin,
	}

	err := ep.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return writeAudit(tx, actorID, model.AuditActionCreate, nil, &event)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	ep.rebuildForEvent(c, event)
	c.JSON(http.StatusOK, common.NewSuccessResponse(event))
}

type LogUpdateDTO struct {
	ScanType *string `json:"scanType,omitempty" binding:"omitempty,oneof=check-in check-out"`
	SiteID   *uint   `json:"siteId,omitempty"`
}

// UpdateLog replaces derived fields of an event. Identity and scanTime are
// immutable; every change is paired with a before/after audit row.
func (ep *Endpoint) UpdateLog(c *gin.Context) {
	id := c.Param("id")

	var body LogUpdateDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var event model.ScanEvent
	if err := ep.DB.First(&event, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Log not found"))
		return
	}
	before := event

	if body.ScanType != nil {
		event.ScanType = *body.ScanType
	}
	if body.SiteID != nil {
		event.SiteID = body.SiteID
	}

	actorID, _ := middlewares.UserID(c)
	err := ep.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&event).Error; err != nil {
			return err
		}
		return writeAudit(tx, actorID, model.AuditActionUpdate, &before, &event)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	ep.rebuildForEvent(c, event)
	c.JSON(http.StatusOK, common.NewSuccessResponse(event))
}

// DeleteLog soft-deletes by default; ?hard=true removes the row outright.
// Both paths are audited and both re-trigger aggregation for the day.
func (ep *Endpoint) DeleteLog(c *gin.Context) {
	id := c.Param("id")
	hard := c.Query("hard") == "true"

	var event model.ScanEvent
	if err := ep.DB.First(&event, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Log not found"))
		return
	}
	before := event

	actorID, _ := middlewares.UserID(c)
	err := ep.DB.Transaction(func(tx *gorm.DB) error {
		if hard {
			if err := tx.Delete(&model.ScanEvent{}, "id = ?", id).Error; err != nil {
				return err
			}
			return writeAudit(tx, actorID, model.AuditActionHardDelete, &before, nil)
		}
		event.IsDeleted = true
		if err := tx.Save(&event).Error; err != nil {
			return err
		}
		return writeAudit(tx, actorID, model.AuditActionSoftDelete, &before, &event)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	ep.rebuildForEvent(c, event)
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

func writeAudit(tx *gorm.DB, actorID uint, action string, before, after *model.ScanEvent) error {
	audit := model.ScanAudit{
		ActorID: actorID,
		Action:  action,
	}
	if before != nil {
		audit.EventID = before.ID
		if b, err := json.Marshal(before); err == nil {
			audit.Before = datatypes.JSON(b)
		}
	}
	if after != nil {
		audit.EventID = after.ID
		if a, err := json.Marshal(after); err == nil {
			audit.After = datatypes.JSON(a)
		}
	}
	return tx.Create(&audit).Error
}

// rebuildForEvent reruns aggregation for the event's (user, dateKey) key.
// A failure here is reported but does not undo the committed log change;
// the administrator can re-trigger via /sessions/recompute.
func (ep *Endpoint) rebuildForEvent(c *gin.Context, event model.ScanEvent) {
	user, err := core.FindUserByID(ep.DB, event.UserID)
	if err != nil || user == nil {
		return
	}
	cfg := engine.LoadBufferConfig(ep.DB)
	if err := engine.RebuildSession(ep.DB, *user, event.DateKey, cfg); err != nil {
		c.Header("X-Aggregation-Deferred", event.DateKey)
	}
}
