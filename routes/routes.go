package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"espbridge/controllers"
	"espbridge/pkg/feed"
	"espbridge/pkg/store"

	dataRoutes "espbridge/routes/data"
	websocketRoutes "espbridge/routes/websocket"
)

// RegisterRoutes wires the ingestion API surface onto the engine.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, st *store.MessageStore, hub *feed.Hub) {
	r.GET("/", controllers.Index())
	r.GET("/health", controllers.Health(db))

	dataRoutes.Register(r, st, hub)
	websocketRoutes.Register(r, hub)
}
