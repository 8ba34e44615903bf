package app

import (
	"context"
	"fmt"

	state "github.com/preethiayinampudi/LexiGuard/internal/app"
	"github.com/preethiayinampudi/LexiGuard/internal/config"
	"github.com/preethiayinampudi/LexiGuard/internal/gateway/handler"
	"github.com/preethiayinampudi/LexiGuard/internal/gateway/server"
	"github.com/preethiayinampudi/LexiGuard/internal/history"
	"github.com/preethiayinampudi/LexiGuard/internal/llm"
)

type App struct {
	server *server.Server
	llm    llm.Client
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := newLLMClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}

	store, err := newHistoryStore(cfg.History)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("init history store: %w", err)
	}

	ctrl := state.NewController(client, store)
	ctrl.LoadHistory(ctx)

	h := handler.New(ctrl)
	srv := server.New(cfg.Port, server.NewRouter(h))

	return &App{server: srv, llm: client}, nil
}

func newLLMClient(ctx context.Context, cfg config.LLMConfig) (llm.Client, error) {
	switch cfg.Provider {
	case "openai":
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.Model, cfg.RPS, cfg.Burst), nil
	case "gemini":
		return llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.RPS, cfg.Burst)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func newHistoryStore(cfg config.HistoryConfig) (history.Store, error) {
	if cfg.S3.Enabled {
		return history.NewS3Store(history.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			UseSSL:    cfg.S3.UseSSL,
		})
	}
	return history.NewDiskStore(cfg.Dir)
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.llm.Close(); err == nil {
		err = cerr
	}
	return err
}
