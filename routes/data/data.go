package data

import (
	"github.com/gin-gonic/gin"

	"espbridge/controllers"
	"espbridge/pkg/feed"
	"espbridge/pkg/store"
)

// Register registers the message ingestion and query routes.
func Register(r *gin.Engine, st *store.MessageStore, hub *feed.Hub) {
	api := r.Group("/api")

	api.POST("/data", controllers.CreateMessage(st, hub))
	api.GET("/data", controllers.ListMessages(st))
	api.GET("/data/latest", controllers.GetLatestMessage(st))
	api.GET("/data/:id", controllers.GetMessageByID(st))
	api.GET("/search", controllers.SearchMessages(st))
	api.GET("/stats", controllers.GetStats(st))
	api.DELETE("/data", controllers.ClearMessages(st))
	api.DELETE("/data/:id", controllers.DeleteMessage(st))
}
