// Package app wires configuration, the model clients, persistence, and the
// HTTP server into one runnable unit.
package app

import (
	"context"
	"log"
	"path/filepath"

	"sweettech/internal/analysis"
	"sweettech/internal/archive"
	"sweettech/internal/config"
	"sweettech/internal/llm"
	"sweettech/internal/server"
	"sweettech/internal/store"
)

type App struct {
	cfg     *config.Config
	srv     *server.Server
	reports *store.Store
	llms    []llm.Client
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var analyzer analysis.Analyzer
	var llms []llm.Client
	if cfg.Configured() {
		profileLLM, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.ProfileModel, cfg.LLMRPS, cfg.LLMBurst)
		if err != nil {
			return nil, err
		}
		insightLLM, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.InsightModel, cfg.LLMRPS, cfg.LLMBurst)
		if err != nil {
			_ = profileLLM.Close()
			return nil, err
		}
		llms = []llm.Client{profileLLM, insightLLM}
		analyzer = analysis.NewClient(profileLLM, insightLLM)
	} else {
		// The server still boots so the UI can show the blocking banner.
		log.Printf("GEMINI_API_KEY is not set; analysis endpoints will refuse requests")
	}

	reports := store.NewFromEnv(filepath.Join(cfg.DataDir, "reports.json"))

	var archiveStore *archive.S3Store
	if cfg.Archive.Enabled {
		archiveStore, err = archive.NewS3Store(cfg.Archive)
		if err != nil {
			log.Printf("report archive disabled: %v", err)
			archiveStore = nil
		}
	}

	handler := server.NewHandler(analyzer, reports, archiveStore)
	srv := server.New(cfg.Port, server.NewMux(handler, cfg.HTTPRPS, cfg.HTTPBurst))

	return &App{cfg: cfg, srv: srv, reports: reports, llms: llms}, nil
}

func (a *App) Start() error {
	return a.srv.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	for _, c := range a.llms {
		_ = c.Close()
	}
	_ = a.reports.Close()
	return a.srv.Shutdown(ctx)
}
