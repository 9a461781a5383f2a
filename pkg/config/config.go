package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	// Ingestion API server
	Port        string
	DatabaseURL string
	CORSOrigins []string
	ServerName  string

	// Serial device
	SerialPort  string
	BaudRate    int
	ReadTimeout time.Duration

	// Relay client
	SinkURL      string
	SourceTag    string
	PollInterval time.Duration
	RelayEnabled bool

	// Command dispatch server
	DispatchPort    string
	DispatchEnabled bool

	// runtime tunables
	RateLimitWindowSeconds int
	RateLimitCapacity      int
)

func init() {
	// .env is optional; real env vars always win
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("[config] failed to load .env: %v", err)
		}
	}

	Port = envOr("PORT", "7999")
	DatabaseURL = envOr("DATABASE_URL", "esp32_messages.db")
	ServerName = envOr("SERVER_NAME", "ESP32 Message Server")

	origins := envOr("CORS_ORIGINS",
		"http://localhost:80,http://127.0.0.1:80,http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000,http://127.0.0.1:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			CORSOrigins = append(CORSOrigins, o)
		}
	}

	SerialPort = envOr("SERIAL_PORT", "/dev/ttyUSB0")
	BaudRate = atoiOr(os.Getenv("BAUD_RATE"), 9600)
	ReadTimeout = time.Duration(atoiOr(os.Getenv("READ_TIMEOUT_MS"), 1000)) * time.Millisecond

	SinkURL = envOr("SINK_URL", "http://localhost:7999/api/data")
	SourceTag = envOr("SOURCE_TAG", "esp32_color_sensor")
	PollInterval = time.Duration(atoiOr(os.Getenv("POLL_INTERVAL_MS"), 100)) * time.Millisecond
	RelayEnabled = os.Getenv("RELAY_ENABLED") == "1"

	DispatchPort = envOr("DISPATCH_PORT", "8000")
	DispatchEnabled = os.Getenv("DISPATCH_ENABLED") != "0"

	RateLimitWindowSeconds = atoiOr(os.Getenv("RATE_LIMIT_WINDOW_SECONDS"), 10)
	RateLimitCapacity = atoiOr(os.Getenv("RATE_LIMIT_CAPACITY"), 20)

	log.Printf("[config] port=%s db=%s serial=%s@%d", Port, DatabaseURL, SerialPort, BaudRate)
	log.Printf("[config] relay enabled=%v sink=%s source=%s poll=%s", RelayEnabled, SinkURL, SourceTag, PollInterval)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
