package handlers

import (
	"net/http"
	"strconv"
	"time"

	"geoclock.com/geoclock/engine"
	"geoclock.com/geoclock/model"
	"geoclock.com/geoclock/utils"
	"geoclock.com/geoclock/web/common"
	"github.com/gin-gonic/gin"
)

type SessionSearchParams struct {
	StartDate common.DateOnly `json:"startDate" binding:"required"`
	EndDate   common.DateOnly `json:"endDate" binding:"required"`
	UserIDs   []uint          `json:"userIds"`
	Status    string          `json:"status"`
	Abnormal  *bool           `json:"abnormal"`
}

// SessionDTO is the session row with abnormal reason codes formatted for
// display.
type SessionDTO struct {
	model.WorkSession
	AbnormalReasonText []string `json:"abnormalReasonText"`
}

func (ep *Endpoint) SearchSessions(c *gin.Context) {
	var params SessionSearchParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	query := ep.DB.Model(&model.WorkSession{}).
		Where("date_key BETWEEN ? AND ?",
			params.StartDate.Format(utils.DateKeyLayout),
			params.EndDate.Format(utils.DateKeyLayout))

	if len(params.UserIDs) > 0 {
		query = query.Where("user_id IN ?", params.UserIDs)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Abnormal != nil {
		query = query.Where("is_abnormal = ?", *params.Abnormal)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	var sessions []model.WorkSession
	if err := query.Order("date_key, user_id").Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	dtos := utils.Map(sessions, func(s model.WorkSession) SessionDTO {
		return SessionDTO{
			WorkSession:        s,
			AbnormalReasonText: engine.DescribeAbnormalReasons(s.AbnormalReasons),
		}
	})

	c.JSON(http.StatusOK, common.NewSearchResponse(dtos, total))
}

type RecomputeParamsDTO struct {
	StartDate common.DateOnly `json:"startDate" binding:"required"`
	EndDate   common.DateOnly `json:"endDate" binding:"required"`
	UserIDs   []uint          `json:"userIds"`
}

// RecomputeSessions rebuilds every affected (user, dateKey) key in the
// range. On failure the response still lists the keys already rebuilt.
func (ep *Endpoint) RecomputeSessions(c *gin.Context) {
	var params RecomputeParamsDTO
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	if params.EndDate.Before(params.StartDate.Time) {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("endDate before startDate"))
		return
	}
	if params.EndDate.Sub(params.StartDate.Time) > 92*24*time.Hour {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("range too wide, max 92 days"))
		return
	}

	report, err := engine.RebuildRange(ep.DB, engine.RebuildOptions{
		StartDate: params.StartDate.Time,
		EndDate:   params.EndDate.Time,
		UserIDs:   params.UserIDs,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": err.Error(),
			"rebuilt": report.Rebuilt,
			"failed":  report.Failed,
		})
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"rebuilt": report.Rebuilt,
	}))
}

type SessionNotesDTO struct {
	LateNote     *string `json:"lateNote,omitempty"`
	AbnormalNote *string `json:"abnormalNote,omitempty"`
}

// UpdateSessionNotes sets or clears operator annotations. Notes survive
// recomputes; sending an empty string clears the note explicitly.
func (ep *Endpoint) UpdateSessionNotes(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	var body SessionNotesDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	updates := map[string]interface{}{}
	if body.LateNote != nil {
		updates["late_note"] = *body.LateNote
	}
	if body.AbnormalNote != nil {
		updates["abnormal_note"] = *body.AbnormalNote
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("nothing to update"))
		return
	}

	result := ep.DB.Model(&model.WorkSession{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(result.Error.Error()))
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Session not found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}
