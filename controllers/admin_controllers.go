package controllers

import (
	"database/sql"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/facilities-app/config"
	"github.com/yeremiapane/facilities-app/models"
	"github.com/yeremiapane/facilities-app/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats aggregates counts across queries, users and venues for
// the admin dashboard. All counts run over the full collections.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var stats struct {
		TotalQueries     int64   `json:"totalQueries"`
		OpenQueries      int64   `json:"openQueries"`
		AvgResolutionHrs float64 `json:"avgResolutionHours"`
		QueryStats       struct {
			Pending    int64 `json:"pending"`
			Assigned   int64 `json:"assigned"`
			InProgress int64 `json:"inProgress"`
			Resolved   int64 `json:"resolved"`
			Closed     int64 `json:"closed"`
		} `json:"queryStats"`
		UserStats struct {
			Total    int64 `json:"total"`
			Students int64 `json:"students"`
			Workers  int64 `json:"workers"`
			Admins   int64 `json:"admins"`
		} `json:"userStats"`
		VenueCount int64 `json:"venueCount"`
	}

	ac.DB.Model(&models.Query{}).Count(&stats.TotalQueries)
	ac.DB.Model(&models.Query{}).Where("status = ?", models.StatusPending).Count(&stats.QueryStats.Pending)
	ac.DB.Model(&models.Query{}).Where("status = ?", models.StatusAssigned).Count(&stats.QueryStats.Assigned)
	ac.DB.Model(&models.Query{}).Where("status = ?", models.StatusInProgress).Count(&stats.QueryStats.InProgress)
	ac.DB.Model(&models.Query{}).Where("status = ?", models.StatusResolved).Count(&stats.QueryStats.Resolved)
	ac.DB.Model(&models.Query{}).Where("status = ?", models.StatusClosed).Count(&stats.QueryStats.Closed)

	stats.OpenQueries = stats.QueryStats.Pending + stats.QueryStats.Assigned + stats.QueryStats.InProgress

	ac.DB.Model(&models.User{}).Count(&stats.UserStats.Total)
	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&stats.UserStats.Students)
	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleWorker).Count(&stats.UserStats.Workers)
	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&stats.UserStats.Admins)

	ac.DB.Model(&models.Venue{}).Count(&stats.VenueCount)

	// Average time from creation to resolution, in hours.
	avgExpr := "AVG((JULIANDAY(resolved_at) - JULIANDAY(created_at)) * 24)"
	if config.DriverName() == "mysql" {
		avgExpr = "AVG(TIMESTAMPDIFF(MINUTE, created_at, resolved_at)) / 60"
	}
	var avgHours sql.NullFloat64
	ac.DB.Model(&models.Query{}).
		Where("resolved_at IS NOT NULL").
		Select(avgExpr).
		Row().Scan(&avgHours)
	if avgHours.Valid {
		stats.AvgResolutionHrs = avgHours.Float64
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

// ExportQueries streams the full query list as CSV for offline reporting.
func (ac *AdminController) ExportQueries(c *gin.Context) {
	var queries []models.Query
	if err := ac.DB.Preload("Venue").Preload("AssignedToWorker").
		Order("created_at").Find(&queries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="queries.csv"`)

	w := csv.NewWriter(c.Writer)
	w.Write([]string{"id", "title", "category", "priority", "status", "venue", "assigned_to", "created_at", "resolved_at"})

	for _, q := range queries {
		venue := ""
		if q.Venue != nil {
			venue = q.Venue.Name
		}
		worker := ""
		if q.AssignedToWorker != nil {
			worker = q.AssignedToWorker.Name
		}
		resolved := ""
		if q.ResolvedAt != nil {
			resolved = q.ResolvedAt.Format("2006-01-02 15:04:05")
		}

		w.Write([]string{
			strconv.FormatUint(uint64(q.ID), 10),
			q.Title,
			q.Category,
			q.Priority,
			q.Status,
			venue,
			worker,
			q.CreatedAt.Format("2006-01-02 15:04:05"),
			resolved,
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		utils.ErrorLogger.Printf("Error writing CSV export: %v", err)
	}

	utils.InfoLogger.Printf("Exported %d queries to CSV", len(queries))
}
