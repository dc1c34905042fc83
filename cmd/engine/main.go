package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"naijajobs-engine/internal/browser"
	"naijajobs-engine/internal/config"
	"naijajobs-engine/internal/database"
	"naijajobs-engine/internal/dedup"
	"naijajobs-engine/internal/httpapi"
	"naijajobs-engine/internal/pipeline"
	"naijajobs-engine/internal/reporter"
	"naijajobs-engine/internal/scheduler"
	"naijajobs-engine/internal/scrape"
	"naijajobs-engine/internal/sites"
)

const seenCacheExpiry = 30 * 24 * time.Hour

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Keywords: %v, Locations: %v", cfg.Keywords, cfg.Locations)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//connect to the job store
	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database ready")

	//optional run-summary notifications
	var notifier scrape.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram reporter disabled: %v", err)
		} else {
			notifier = tg
			log.Println("🤖 Telegram reporter initialized")
		}
	}

	screenshots := browser.NewScreenshotDebugger(cfg.ScreenshotDir)

	orch := scrape.New(scrape.Options{
		Keywords:  cfg.Keywords,
		Locations: cfg.Locations,
		Sites:     sites.Enabled(cfg.Sites),
		Stage:     pipeline.New(repo, cfg.BatchSize),
		NewSession: func(ctx context.Context) (scrape.PageFetcher, error) {
			return browser.NewSession(ctx, browser.Options{
				Headless:    cfg.Headless,
				NavTimeout:  cfg.NavTimeout(),
				CookiesPath: cfg.CookiesPath,
				Screenshots: screenshots,
			})
		},
		SiteDelay: cfg.SiteDelay(),
		SeenCache: dedup.NewSeenCache(cfg.CachePath, seenCacheExpiry),
		Notifier:  notifier,
	})

	//daily scrape + weekly retention sweep
	sched := scheduler.New(orch, repo, cfg.ScrapeCron, cfg.RetentionCron, cfg.Retention())
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	router := httpapi.NewRouter(httpapi.Deps{Runner: orch, Store: repo})
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🌐 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
	log.Println("🏁 Bye.")
}
