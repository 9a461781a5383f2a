// Command bridge is the serial-side service: it owns the single
// connection to the device, optionally serves the command dispatch API,
// and optionally runs the relay loop that forwards tagged device output
// to the ingestion server. Both halves share one LineReader, so writes
// and reads never interleave on the wire.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"espbridge/middleware"
	"espbridge/pkg/config"
	"espbridge/pkg/relay"
	"espbridge/pkg/serialio"
	dispatchRoutes "espbridge/routes/dispatch"
)

func main() {
	rdr := serialio.New(config.SerialPort, config.BaudRate, config.ReadTimeout)
	if err := rdr.Connect(); err != nil {
		// dispatch requests will fail with a structured error until
		// the device shows up; this mirrors serving without a board
		// attached during development
		log.Printf("[bridge] starting without device: %v", err)
	}
	defer rdr.Disconnect()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	relayDone := make(chan error, 1)
	if config.RelayEnabled {
		client := relay.NewClient(rdr, config.SinkURL, config.SourceTag, config.PollInterval)
		go func() { relayDone <- client.Run(ctx) }()
		log.Printf("[bridge] relay running against %s", config.SinkURL)
	} else {
		relayDone <- nil
	}

	if !config.DispatchEnabled {
		if !config.RelayEnabled {
			log.Fatal("[bridge] nothing to do: both dispatch and relay are disabled")
		}
		if err := <-relayDone; err != nil {
			log.Fatalf("[bridge] relay stopped: %v", err)
		}
		return
	}

	go func() {
		if err := <-relayDone; err != nil {
			log.Printf("[bridge] relay stopped: %v", err)
		}
	}()

	middleware.SetRateLimitConfig(
		time.Duration(config.RateLimitWindowSeconds)*time.Second,
		config.RateLimitCapacity,
	)

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	dispatchRoutes.Register(r, rdr)

	log.Printf("[bridge] dispatch API listening on :%s", config.DispatchPort)
	if err := r.Run(":" + config.DispatchPort); err != nil {
		log.Fatalf("[bridge] server stopped: %v", err)
	}
}
