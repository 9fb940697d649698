package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gin-gonic/gin"

	"github.com/campuspoint/lms_backend/internal/audit"
	"github.com/campuspoint/lms_backend/internal/config"
	"github.com/campuspoint/lms_backend/internal/database"
	"github.com/campuspoint/lms_backend/internal/mailer"
	"github.com/campuspoint/lms_backend/internal/routes"
	"github.com/campuspoint/lms_backend/internal/storage"
	"github.com/campuspoint/lms_backend/internal/ws"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	if err := database.SeedSuperAdmin(db, cfg); err != nil {
		log.Fatalf("superadmin seed failed: %v", err)
	}

	// Email: SendGrid when configured, console otherwise.
	var sender mailer.Mailer = mailer.ConsoleMailer{}
	if cfg.SendGridKey != "" {
		sender = mailer.NewSendGrid(cfg.SendGridKey, cfg.MailSender, cfg.MailFrom)
	}
	mail := mailer.NewQueue(sender)
	go mail.Run()

	// Object storage: Backblaze B2 when configured, local disk otherwise.
	var store storage.ObjectStorage
	if cfg.B2AccountID != "" && cfg.B2AppKey != "" {
		store, err = storage.NewB2(context.Background(), cfg.B2AccountID, cfg.B2AppKey, cfg.B2Bucket)
		if err != nil {
			log.Fatalf("b2 storage init failed: %v", err)
		}
	} else {
		store, err = storage.NewLocal(cfg.UploadDir, cfg.UploadBase)
		if err != nil {
			log.Fatalf("local storage init failed: %v", err)
		}
	}

	recorder := audit.NewRecorder(db)
	go recorder.Run()

	hub := ws.NewNotificationHub()
	go hub.Run()

	r := gin.Default()
	routes.Register(r, routes.Deps{
		DB:      db,
		Cfg:     cfg,
		Mail:    mail,
		Audit:   recorder,
		Storage: store,
		Hub:     hub,
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Println("server exited with error:", err)
		os.Exit(1)
	}
}
