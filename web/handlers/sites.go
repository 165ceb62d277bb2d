package handlers

import (
	"net/http"
	"strconv"

	"geoclock.com/geoclock/engine"
	"geoclock.com/geoclock/model"
	"geoclock.com/geoclock/web/common"
	"github.com/gin-gonic/gin"
)

func (ep *Endpoint) ListSites(c *gin.Context) {
	var sites []model.Site
	if err := ep.DB.Order("name").Find(&sites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(sites))
}

type SiteDTO struct {
	Name         string  `json:"name" binding:"required"`
	DisplayName  string  `json:"displayName"`
	Latitude     float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude    float64 `json:"longitude" binding:"required,min=-180,max=180"`
	RadiusMeters float64 `json:"radiusMeters" binding:"required,gt=0"`
}

func (ep *Endpoint) CreateSite(c *gin.Context) {
	var body SiteDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	name := engine.NormalizeToken(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("name normalizes to empty"))
		return
	}

	site := model.Site{
		Name:         name,
		DisplayName:  body.DisplayName,
		Latitude:     body.Latitude,
		Longitude:    body.Longitude,
		RadiusMeters: body.RadiusMeters,
	}
	if site.DisplayName == "" {
		site.DisplayName = body.Name
	}

	if err := ep.DB.Create(&site).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(site))
}

func (ep *Endpoint) UpdateSite(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	var body SiteDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var site model.Site
	if err := ep.DB.First(&site, id).Error; err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Site not found"))
		return
	}

	name := engine.NormalizeToken(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("name normalizes to empty"))
		return
	}

	site.Name = name
	site.DisplayName = body.DisplayName
	site.Latitude = body.Latitude
	site.Longitude = body.Longitude
	site.RadiusMeters = body.RadiusMeters

	if err := ep.DB.Save(&site).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(site))
}
