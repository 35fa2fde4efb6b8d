package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"readlist/internal/app"
	"readlist/internal/categories"
	"readlist/internal/config"
	"readlist/internal/feedapi"
	"readlist/internal/readstate"
	"readlist/internal/render"
	"readlist/internal/storage"
	"readlist/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("config error: %v", err)
	}

	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("cannot open log file: %v", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, nil))

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		log.Fatalf("storage schema error: %v", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		log.Fatalf("storage write check failed (%v). Verify READLIST_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTPTimeout) * time.Second}
	client := feedapi.NewClient(cfg.APIBaseURL, httpClient)
	service := app.NewService(client, repo)
	store := readstate.NewStore(client)

	registry, err := categories.NewRegistry(ctx, repo)
	if err != nil {
		log.Fatalf("cannot load category preferences: %v", err)
	}

	cacheLoadStart := time.Now()
	articles, err := service.ListCached(ctx, cfg.CacheLimit)
	if err != nil {
		log.Fatalf("cannot load cached articles: %v", err)
	}
	logger.Info("cache loaded", "articles", len(articles), "duration_ms", time.Since(cacheLoadStart).Milliseconds())

	renderer := render.NewListRenderer(cfg.BatchSize, logger)
	model := tui.NewModel(service, store, registry, renderer, articles)

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}
