package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// LineSource yields decoded device lines. ("", nil) means no line is
// available right now; an error means the source is unusable.
type LineSource interface {
	ReadLine() (string, error)
}

// Client polls a line source and forwards tagged message payloads to an
// HTTP sink. Delivery is at-most-once per observed line: a failed
// forward is logged and the loop moves on.
type Client struct {
	source    LineSource
	sinkURL   string
	sourceTag string
	interval  time.Duration
	httpc     *http.Client
}

func NewClient(source LineSource, sinkURL, sourceTag string, interval time.Duration) *Client {
	return &Client{
		source:    source,
		sinkURL:   sinkURL,
		sourceTag: sourceTag,
		interval:  interval,
		httpc:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Run polls until ctx is cancelled (returns nil) or the source fails
// (returns the source error). In-flight forwards are awaited, never
// cancelled mid-request.
func (c *Client) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		// drain whatever complete lines arrived since the last tick
		for {
			raw, err := c.source.ReadLine()
			if err != nil {
				log.Printf("[relay] serial read failed, stopping: %v", err)
				return err
			}
			if raw == "" {
				break
			}
			c.handle(raw)
		}
	}
}

func (c *Client) handle(raw string) {
	switch line := Parse(raw); line.Kind {
	case KindMessage:
		log.Printf("[relay] message received: %s", line.Text)
		if err := c.forward(line.Text); err != nil {
			log.Printf("[relay] forward failed: %v", err)
		}
	case KindStatus:
		log.Printf("[relay] device status: %s", line.Text)
	default:
		// unrecognized lines are dropped
	}
}

func (c *Client) forward(payload string) error {
	body, err := json.Marshal(map[string]string{
		"message":   payload,
		"timestamp": time.Now().Format(time.RFC3339),
		"source":    c.sourceTag,
	})
	if err != nil {
		return err
	}
	resp, err := c.httpc.Post(c.sinkURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sink returned %d", resp.StatusCode)
	}
	return nil
}
