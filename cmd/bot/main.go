package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"

	coreconfig "churchbot/core/config"
	coredatabase "churchbot/core/database"
	"churchbot/core/logger"
	"churchbot/internal/bot"
	"churchbot/internal/engine"
	"churchbot/internal/export"
	"churchbot/internal/scheduler"
	"churchbot/internal/session"
	"churchbot/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.InitLogger(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	logger.LogEvent(logger.Background(), logger.APP, slog.LevelInfo, "app.starting",
		slog.String("config", cfgPath))

	db, err := coredatabase.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := coredatabase.RunMigrations(cfg.Database); err != nil {
		return err
	}

	b, err := bot.New(cfg)
	if err != nil {
		return err
	}

	eng := engine.New(engine.Deps{
		Sessions: session.NewStore(),
		Routes:   session.NewRouteTable(),
		Roles:    cfg,
		Msg:      b.Messenger(),
		Export:   export.New(os.Getenv("EXPORT_DIR")),

		Members:    storage.NewMembers(db),
		Needs:      storage.NewNeeds(db),
		Prayers:    storage.NewPrayers(db),
		Literature: storage.NewLiterature(db),
		Lessons:    storage.NewLessons(db),

		AdminIDs: cfg.Telegram.AdminIDs,
		ChatURL:  cfg.Telegram.ChurchChatURL,
		Log:      logger.ENG,
	})
	b.Bind(eng)

	sched, err := scheduler.New(eng,
		cfg.Schedule.StatusSweepSpec,
		time.Duration(cfg.Schedule.StaleAfterHours)*time.Hour)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.LogEvent(ctx, logger.APP, slog.LevelInfo, "app.ready")
	return b.Run(ctx)
}
