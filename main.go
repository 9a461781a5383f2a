package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"espbridge/middleware"
	"espbridge/pkg/config"
	"espbridge/pkg/database"
	"espbridge/pkg/feed"
	"espbridge/pkg/store"
	"espbridge/routes"
)

func main() {
	db, err := database.Open(config.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("failed migrate: %v", err)
	}

	middleware.SetRateLimitConfig(
		time.Duration(config.RateLimitWindowSeconds)*time.Second,
		config.RateLimitCapacity,
	)

	r := gin.Default()
	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	hub := feed.NewHub()
	routes.RegisterRoutes(r, db, st, hub)

	log.Printf("%s listening on :%s", config.ServerName, config.Port)
	r.Run(":" + config.Port)
}
