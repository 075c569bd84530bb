package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/facilities-app/models"
	"github.com/yeremiapane/facilities-app/utils"
	"gorm.io/gorm"
)

type VenueController struct {
	DB *gorm.DB
}

func NewVenueController(db *gorm.DB) *VenueController {
	return &VenueController{DB: db}
}

func (vc *VenueController) GetAllVenues(c *gin.Context) {
	var venues []models.Venue
	if err := vc.DB.Find(&venues).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of venues", venues)
}

func (vc *VenueController) GetVenueByID(c *gin.Context) {
	var venue models.Venue
	if err := vc.DB.First(&venue, c.Param("venue_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("venue not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Venue detail", venue)
}

type venueRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Capacity    *int   `json:"capacity"`
	FloorNumber *int   `json:"floorNumber"`
	Building    string `json:"building"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

func (vc *VenueController) CreateVenue(c *gin.Context) {
	var req venueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	vtype := strings.ToUpper(req.Type)
	if !models.ValidVenueType(vtype) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid venue type"))
		return
	}

	venue := models.Venue{
		Name:        req.Name,
		Location:    req.Location,
		Type:        vtype,
		Capacity:    req.Capacity,
		FloorNumber: req.FloorNumber,
		Building:    req.Building,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}

	if err := vc.DB.Create(&venue).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Venue created", venue)
}

func (vc *VenueController) UpdateVenue(c *gin.Context) {
	var venue models.Venue
	if err := vc.DB.First(&venue, c.Param("venue_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("venue not found"))
		return
	}

	var req venueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	vtype := strings.ToUpper(req.Type)
	if !models.ValidVenueType(vtype) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid venue type"))
		return
	}

	venue.Name = req.Name
	venue.Location = req.Location
	venue.Type = vtype
	venue.Capacity = req.Capacity
	venue.FloorNumber = req.FloorNumber
	venue.Building = req.Building
	venue.Description = req.Description
	venue.ImageURL = req.ImageURL

	if err := vc.DB.Save(&venue).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Venue updated", venue)
}

func (vc *VenueController) DeleteVenue(c *gin.Context) {
	if err := vc.DB.Delete(&models.Venue{}, c.Param("venue_id")).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Venue deleted", nil)
}

func (vc *VenueController) GetVenuesByType(c *gin.Context) {
	vtype := strings.ToUpper(c.Param("type"))
	if !models.ValidVenueType(vtype) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid venue type"))
		return
	}

	var venues []models.Venue
	if err := vc.DB.Where("type = ?", vtype).Find(&venues).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Venues by type", venues)
}

// SearchVenues matches keyword against name, location and building.
func (vc *VenueController) SearchVenues(c *gin.Context) {
	keyword := strings.ToLower(c.Query("keyword"))

	var venues []models.Venue
	query := vc.DB
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ? OR LOWER(building) LIKE ?",
			pattern, pattern, pattern)
	}
	if err := query.Find(&venues).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Search results", venues)
}

func (vc *VenueController) GetVenuesByBuilding(c *gin.Context) {
	building := c.Param("building")

	var venues []models.Venue
	if err := vc.DB.Where("LOWER(building) = ?", strings.ToLower(building)).Find(&venues).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Venues by building", venues)
}
