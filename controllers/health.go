package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"espbridge/pkg/config"
)

var startTime = time.Now()

// Index serves the service banner with the endpoint map.
func Index() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": config.ServerName,
			"status":  "running",
			"endpoints": gin.H{
				"send_message": "POST /api/data",
				"get_messages": "GET /api/data",
				"get_latest":   "GET /api/data/latest",
				"get_by_id":    "GET /api/data/{id}",
				"get_stats":    "GET /api/stats",
				"search":       "GET /api/search",
				"clear_all":    "DELETE /api/data",
				"delete_by_id": "DELETE /api/data/{id}",
				"health":       "GET /health",
				"live_feed":    "GET /ws/feed",
			},
		})
	}
}

// Health is the liveness probe; the database field reflects a real ping.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "connected"
		if sqlDB, err := db.DB(); err != nil {
			dbStatus = "error"
		} else if err := sqlDB.Ping(); err != nil {
			dbStatus = "error"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"server":    config.ServerName,
			"database":  dbStatus,
		})
	}
}
