package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/facilities-app/config"
	"github.com/yeremiapane/facilities-app/utils"
)

// HealthCheck reports service status plus the active persistence backend,
// consumed by the client's informational banner.
func HealthCheck(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().UnixMilli(),
		"database":  config.DriverName(),
	}

	db := utils.GetDB()
	if db == nil {
		health["status"] = "DOWN"
		health["error"] = "database not initialized"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		health["status"] = "DOWN"
		health["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	health["status"] = "UP"
	health["databaseInfo"] = gin.H{
		"url":       config.MaskedDSN(),
		"connected": true,
	}
	c.JSON(http.StatusOK, health)
}
