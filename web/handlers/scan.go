package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"geoclock.com/geoclock/engine"
	"geoclock.com/geoclock/web/common"
	"github.com/gin-gonic/gin"
)

// ScanBudget bounds the whole verify-plus-aggregate attempt.
const ScanBudget = 15 * time.Second

type ScanRequestDTO struct {
	Token         string   `json:"token" binding:"required"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	LocationError string   `json:"locationError"`
}

type ScanResponseDTO struct {
	Status              string   `json:"status"`
	ScanType            string   `json:"scanType,omitempty"`
	Message             string   `json:"message,omitempty"`
	EventID             string   `json:"eventId"`
	DistanceMeters      *float64 `json:"distanceMeters,omitempty"`
	AggregationDeferred bool     `json:"aggregationDeferred,omitempty"`
}

func (ep *Endpoint) Scan(c *gin.Context) {
	var body ScanRequestDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	user := ep.currentUser(c)
	if user == nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ScanBudget)
	defer cancel()

	result, err := engine.VerifyScan(ep.DB.WithContext(ctx), engine.ScanRequest{
		User:          *user,
		Token:         body.Token,
		Lat:           body.Lat,
		Lng:           body.Lng,
		LocationError: body.LocationError,
	})

	if err != nil {
		var verr *engine.ValidationError
		var gerr *engine.GeofenceViolation
		var lerr *engine.LocationUnavailable

		switch {
		case errors.As(err, &verr), errors.As(err, &gerr), errors.As(err, &lerr):
			// Rejected attempt; the fail event is already logged.
			resp := ScanResponseDTO{
				Status:  "fail",
				Message: err.Error(),
			}
			if result != nil && result.Event != nil {
				resp.EventID = result.Event.ID
				resp.DistanceMeters = result.Event.DistanceMeters
			}
			c.JSON(http.StatusUnprocessableEntity, common.NewSuccessResponse(resp))
		case errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusGatewayTimeout, common.NewErrorResponse("scan timed out"))
		default:
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(ScanResponseDTO{
		Status:              "success",
		ScanType:            result.Event.ScanType,
		EventID:             result.Event.ID,
		DistanceMeters:      result.Event.DistanceMeters,
		AggregationDeferred: result.AggregationDeferred,
	}))
}
