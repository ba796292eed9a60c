// One-shot generation run for a single application, useful for smoke testing
// the pipeline against a real database without going through the API.

package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go-jobcoach/internal/config"
	"go-jobcoach/internal/database"
	"go-jobcoach/internal/keywords"
	"go-jobcoach/internal/models"
	"go-jobcoach/internal/pipeline"
	"go-jobcoach/internal/reporter"
)

func main() {
	appID := flag.String("app", "", "application id to generate")
	module := flag.String("module", "", "regenerate only this module (default: all)")
	flag.Parse()

	if *appID == "" {
		log.Fatal("❌ -app is required")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()

	pipe := pipeline.New(repo, keywords.NewExtractor(cfg.ExtraSkills), pipeline.WithKeywordMax(cfg.KeywordMax))

	var keys []models.ModuleKey
	if *module != "" {
		key, err := models.ParseModuleKey(*module)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		keys = append(keys, key)
	}

	log.Printf("🚀 Generating %s...", *appID)
	res, err := pipe.Run(ctx, *appID, keys...)
	if err != nil {
		log.Fatalf("❌ Run failed: %v", err)
	}

	for _, key := range models.CanonicalModuleOrder() {
		st := res.Statuses.Get(key)
		if st.State == models.StateIdle {
			continue
		}
		if st.Error != "" {
			log.Printf("❌ %-12s %s: %s", key, st.State, st.Error)
		} else {
			log.Printf("✅ %-12s %s", key, st.State)
		}
	}
	log.Printf("🎯 Match %d · ATS %d · Scan %d · Evidence %d",
		res.Scores.Match, res.Scores.ATSReadiness, res.Scores.RecruiterScan, res.Scores.EvidenceStrength)
	log.Printf("💡 %s", res.Scores.TopFix)

	if cfg.TelegramEnabled() {
		rep, err := reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("❌ Failed to init Telegram reporter: %v", err)
		}
		app, err := repo.GetApplication(ctx, *appID)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		if err := rep.SendRunSummary(app, res); err != nil {
			log.Printf("⚠️ Telegram notification failed: %v", err)
		}
	}
}
