package dispatch

import (
	"github.com/gin-gonic/gin"

	"espbridge/controllers"
	"espbridge/middleware"
	"espbridge/pkg/serialio"
)

// Register registers the command dispatch route. Rate limited so a
// runaway caller cannot flood the serial device.
func Register(r *gin.Engine, rdr *serialio.LineReader) {
	r.POST("/", middleware.RateLimit(), controllers.SendCommand(rdr))
}
