package websocket

import (
	"github.com/gin-gonic/gin"

	"espbridge/controllers"
	"espbridge/pkg/feed"
)

func Register(r *gin.Engine, hub *feed.Hub) {
	r.GET("/ws/feed", controllers.MessageFeed(hub))
}
