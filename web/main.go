package main

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"geoclock.com/geoclock/core"
	"geoclock.com/geoclock/model"
	"geoclock.com/geoclock/web/handlers"
	"geoclock.com/geoclock/web/middlewares"
	"github.com/gin-gonic/gin"
)

func main() {
	r := gin.Default()

	dsn := os.Getenv("DSN")
	fmt.Printf("using DSN: %s\n", dsn)

	db, err := core.ConnectDB(dsn)
	if err != nil {
		log.Fatal(err)
	}

	if os.Getenv("GEOCLOCK_MIGRATE") == "1" {
		err := db.AutoMigrate(
			&model.User{},
			&model.Site{},
			&model.BufferConfig{},
			&model.ScanEvent{},
			&model.ScanAudit{},
			&model.WorkSession{},
		)
		if err != nil {
			log.Fatal("migration failed:", err)
		}
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	base64Secret := os.Getenv("GEOCLOCK_SIGNING_SECRET")
	jwtSecret, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		log.Fatal("Failed to decode JWT secret:", err)
	}

	protected := r.Group("/api/geoclock/v1.0")
	protected.Use(middlewares.Authentication(jwtSecret))
	{
		protected.GET("/whoami", func(c *gin.Context) {
			claims, _ := c.Get("claims")
			c.JSON(200, gin.H{
				"claims": claims,
			})
		})

		handlers.Register(protected, db)
	}

	addr := os.Getenv("GEOCLOCK_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8090"
	}
	r.Run(addr)
}
