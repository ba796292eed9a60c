package main

import (
	"context"
	"log"
	"time"

	"go-jobcoach/internal/api"
	"go-jobcoach/internal/config"
	"go-jobcoach/internal/database"
	"go-jobcoach/internal/keywords"
	"go-jobcoach/internal/pipeline"
	"go-jobcoach/internal/reporter"
	"go-jobcoach/internal/storage"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Extra skills: %v", cfg.ExtraSkills)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	//connect database
	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()
	log.Println("🗄 Database connected.")

	//optional telegram reporter
	var rep *reporter.TelegramReporter
	if cfg.TelegramEnabled() {
		rep, err = reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("❌ Failed to init Telegram reporter: %v", err)
		}
		log.Println("🤖 Telegram reporter initialized.")
	}

	extractor := keywords.NewExtractor(cfg.ExtraSkills)
	pipe := pipeline.New(repo, extractor, pipeline.WithKeywordMax(cfg.KeywordMax))
	uploader := storage.NewLocalStore(cfg.StorageDir)

	server := api.NewServer(repo, pipe, uploader, rep, extractor)

	log.Printf("🚀 Server listening on port %s", cfg.Port)
	if err := server.Router().Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
