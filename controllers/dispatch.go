package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// LineWriter is the slice of the serial reader the dispatch handler
// needs: write one line, report payload bytes sent.
type LineWriter interface {
	WriteLine(text string) (int, error)
}

// SendCommand handles POST / on the dispatch server: writes the text
// plus a newline to the serial device and echoes what was sent.
func SendCommand(rdr LineWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Text string `json:"text"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "text is required"})
			return
		}

		sent, err := rdr.WriteLine(body.Text)
		if err != nil {
			log.Printf("[dispatch] send failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"detail": "failed to send data to device: " + err.Error(),
			})
			return
		}
		log.Printf("[dispatch] sent to device: %q", body.Text)

		c.JSON(http.StatusOK, gin.H{
			"status":        "success",
			"message":       "Text sent to device",
			"original_text": body.Text,
			"sent_bytes":    sent,
		})
	}
}
