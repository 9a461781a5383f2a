package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"espbridge/pkg/cache"
	"espbridge/pkg/feed"
	"espbridge/pkg/store"
)

const statsCacheKey = "api:stats"
const statsCacheTTL = 2 * time.Second

// CreateMessage handles POST /api/data: persists one producer message
// and pushes it to the live feed.
func CreateMessage(st *store.MessageStore, hub *feed.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Message   string  `json:"message"`
			Timestamp *string `json:"timestamp"`
			Source    string  `json:"source"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Message) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "message is required"})
			return
		}

		msg, err := st.Create(body.Message, body.Timestamp, body.Source)
		if err != nil {
			log.Printf("[api] failed to create message: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to store message"})
			return
		}
		log.Printf("[api] received message #%d: %q", msg.ID, msg.Message)

		cache.Default().Delete(statsCacheKey)
		if hub != nil {
			hub.Publish(*msg)
		}
		c.JSON(http.StatusCreated, msg)
	}
}

// ListMessages handles GET /api/data with pagination, newest-first.
func ListMessages(st *store.MessageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := intQuery(c, "limit", 50, 1, 1000)
		if !ok {
			return
		}
		offset, ok := intQuery(c, "offset", 0, 0, 1<<30)
		if !ok {
			return
		}

		msgs, err := st.List(limit, offset)
		if err != nil {
			log.Printf("[api] failed to list messages: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to fetch messages"})
			return
		}
		total, err := st.Count()
		if err != nil {
			log.Printf("[api] failed to count messages: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to fetch messages"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         "success",
			"total_count":    total,
			"returned_count": len(msgs),
			"limit":          limit,
			"offset":         offset,
			"messages":       msgs,
		})
	}
}

// GetLatestMessage handles GET /api/data/latest.
func GetLatestMessage(st *store.MessageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		msg, err := st.GetLatest()
		if err != nil {
			if store.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "no messages"})
				return
			}
			log.Printf("[api] failed to fetch latest message: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to fetch latest message"})
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}

// GetMessageByID handles GET /api/data/:id.
func GetMessageByID(st *store.MessageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		msg, err := st.GetByID(id)
		if err != nil {
			if store.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("message with id %d not found", id)})
				return
			}
			log.Printf("[api] failed to fetch message %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to fetch message"})
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}

// SearchMessages handles GET /api/search: case-insensitive substring
// match on the message text, newest-first.
func SearchMessages(st *store.MessageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("query")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "query is required"})
			return
		}
		limit, ok := intQuery(c, "limit", 20, 1, 100)
		if !ok {
			return
		}

		msgs, err := st.Search(query, limit)
		if err != nil {
			log.Printf("[api] search %q failed: %v", query, err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to search messages"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         "success",
			"query":          query,
			"found_count":    len(msgs),
			"returned_count": len(msgs),
			"messages":       msgs,
		})
	}
}

// GetStats handles GET /api/stats. The statistics block is cached
// briefly and invalidated on every write.
func GetStats(st *store.MessageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := cache.Default().Get(statsCacheKey); ok {
			c.JSON(http.StatusOK, gin.H{"status": "success", "statistics": v})
			return
		}

		stats, err := st.Stats()
		if err != nil {
			log.Printf("[api] failed to compute stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to compute statistics"})
			return
		}

		var first, last any
		if stats.FirstMessageTime != nil {
			first = stats.FirstMessageTime.Format(time.RFC3339)
		}
		if stats.LastMessageTime != nil {
			last = stats.LastMessageTime.Format(time.RFC3339)
		}
		body := gin.H{
			"total_messages":     stats.TotalMessages,
			"first_message_time": first,
			"last_message_time":  last,
			"server_uptime":      int(time.Since(startTime).Seconds()),
		}
		cache.Default().Set(statsCacheKey, body, statsCacheTTL)
		c.JSON(http.StatusOK, gin.H{"status": "success", "statistics": body})
	}
}

// ClearMessages handles DELETE /api/data.
func ClearMessages(st *store.MessageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := st.DeleteAll()
		if err != nil {
			log.Printf("[api] failed to clear messages: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to clear messages"})
			return
		}
		log.Printf("[api] cleared %d messages", count)
		cache.Default().Delete(statsCacheKey)
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": fmt.Sprintf("Cleared %d messages", count),
		})
	}
}

// DeleteMessage handles DELETE /api/data/:id and echoes the removed row.
func DeleteMessage(st *store.MessageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		msg, err := st.DeleteByID(id)
		if err != nil {
			if store.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("message with id %d not found", id)})
				return
			}
			log.Printf("[api] failed to delete message %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to delete message"})
			return
		}
		log.Printf("[api] deleted message #%d: %q", id, msg.Message)
		cache.Default().Delete(statsCacheKey)
		c.JSON(http.StatusOK, gin.H{
			"status":          "success",
			"message":         fmt.Sprintf("Message #%d deleted", id),
			"deleted_message": msg,
		})
	}
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid message id"})
		return 0, false
	}
	return uint(id), true
}

// intQuery parses an integer query param with a default and inclusive
// bounds, writing a 400 response when out of range.
func intQuery(c *gin.Context, name string, def, min, max int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": fmt.Sprintf("%s must be an integer in [%d, %d]", name, min, max),
		})
		return 0, false
	}
	return v, true
}
