package handlers

import (
	"net/http"

	"geoclock.com/geoclock/core"
	"geoclock.com/geoclock/model"
	"geoclock.com/geoclock/web/common"
	"geoclock.com/geoclock/web/middlewares"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Endpoint struct {
	DB *gorm.DB
}

// Register wires the attendance API. Scan is available to any
// authenticated user; log, session, site and config administration require
// the admin claim.
func Register(r *gin.RouterGroup, db *gorm.DB) {
	ep := &Endpoint{DB: db}

	r.POST("/scan", ep.Scan)
	r.POST("/sessions/search", ep.SearchSessions)

	admin := r.Group("", middlewares.RequireAdmin())
	{
		admin.POST("/logs/search", ep.SearchLogs)
		admin.POST("/logs", ep.CreateLog)
		admin.PUT("/logs/:id", ep.UpdateLog)
		admin.DELETE("/logs/:id", ep.DeleteLog)

		admin.POST("/sessions/recompute", ep.RecomputeSessions)
		admin.PUT("/sessions/:id/notes", ep.UpdateSessionNotes)

		admin.GET("/sites", ep.ListSites)
		admin.POST("/sites", ep.CreateSite)
		admin.PUT("/sites/:id", ep.UpdateSite)

		admin.GET("/config/buffers", ep.GetBufferConfig)
		admin.PUT("/config/buffers", ep.UpdateBufferConfig)
	}
}

// currentUser resolves the authenticated user row, with rates.
func (ep *Endpoint) currentUser(c *gin.Context) *model.User {
	id, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("missing identity"))
		return nil
	}
	user, err := core.FindUserByID(ep.DB, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return nil
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("unknown user"))
		return nil
	}
	return user
}
