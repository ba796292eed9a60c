// Tail the realtime change feed for one application, printing merged state
// as events arrive. Handy for verifying the notify triggers end to end.

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"go-jobcoach/internal/config"
	"go-jobcoach/internal/database"
	appsync "go-jobcoach/internal/sync"
)

func main() {
	appID := flag.String("app", "", "application id to watch")
	flag.Parse()

	if *appID == "" {
		log.Fatal("❌ -app is required")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()

	feed, err := database.NewChangeFeed(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to open change feed: %v", err)
	}
	defer feed.Close(context.Background())

	view, err := appsync.Watch(ctx, repo, feed, *appID)
	if err != nil {
		log.Fatalf("❌ Failed to open view: %v", err)
	}
	defer view.Close()

	app := view.Application()
	log.Printf("👀 Watching %q (%s). Ctrl-C to stop.", app.Title, app.Status)

	<-ctx.Done()
	app = view.Application()
	log.Printf("📋 Final state: status=%s tasks=%d evidence=%d", app.Status, len(view.Tasks()), len(view.Evidence()))
}
