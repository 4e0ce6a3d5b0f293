package main

import (
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"lifelog/internal/config"
	"lifelog/internal/database"
	"lifelog/internal/router"
	"lifelog/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("load .env", "error", err)
	}

	// load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log, cfg.Server.Debug)
	slog.SetDefault(logger)

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Error("init database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Error("migrate database", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewMediaStore(cfg.Upload.Dir, cfg.Upload.AllowedExtensions)
	if err != nil {
		logger.Error("init media store", "error", err)
		os.Exit(1)
	}

	// setup router
	r := router.SetupRouter(cfg, db, store, logger)

	logger.Info("server listening",
		"addr", cfg.Addr(),
		"database", database.Dialect(cfg.Database.URL),
		"upload_dir", store.Dir(),
		"environment", cfg.App.Environment,
	)
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Error("run server", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig, debug bool) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
