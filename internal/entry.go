// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/dagaz/internal/api"
	"github.com/starford/dagaz/internal/assistant"
	"github.com/starford/dagaz/internal/blob"
	"github.com/starford/dagaz/internal/deskservice"
	"github.com/starford/dagaz/internal/docchat"
	"github.com/starford/dagaz/internal/llm"
	"github.com/starford/dagaz/internal/mcpserver"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/sse"
	"github.com/starford/dagaz/internal/store"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.Bool("mongo_in_memory", cfg.Mongo.InMemory()),
		slog.Bool("blobs_in_memory", cfg.Blobs.InMemory()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	st, cleanup, err := app.openStore(ctx)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer cleanup()

	blobs, err := app.openBlobs(ctx)
	if err != nil {
		return fmt.Errorf("init blob storage: %w", err)
	}

	llmClient := app.openLLM()

	if err := seedFolders(ctx, st, logger); err != nil {
		logger.Warn("folder seeding failed", slog.String("error", err.Error()))
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Build services and router.
	desk := deskservice.NewService(st, blobs, broker, logger)
	docs := docchat.NewService(st, blobs, llmClient, broker, logger)
	clippy := assistant.NewService(st, llmClient, assistant.Config{
		DocPreviewLimit:    cfg.Assistant.DocPreviewLimit,
		RecentMessageLimit: cfg.Assistant.RecentMessageLimit,
	}, logger)

	h := api.NewHandler(desk, docs, clippy, st)
	apiRouter := api.NewRouter(h, cfg.Auth.AuthEnabled(), cfg.Auth.Passcode, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP stdio server over the same store and assistant.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	// MCP speaks on stdout; keep logs on stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	st, cleanup, err := app.openStore(ctx)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer cleanup()

	clippy := assistant.NewService(st, app.openLLM(), assistant.Config{
		DocPreviewLimit:    cfg.Assistant.DocPreviewLimit,
		RecentMessageLimit: cfg.Assistant.RecentMessageLimit,
	}, logger)

	return mcpserver.New(st, clippy).ServeStdio()
}

func (a *application) openStore(ctx context.Context) (store.Store, func(), error) {
	if a.store != nil {
		return a.store, func() {}, nil
	}
	if a.config.Mongo.InMemory() {
		return store.NewMemory(), func() {}, nil
	}

	client, err := store.Connect(ctx, a.config.Mongo.URI)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			slog.Error("mongo disconnect error", slog.String("error", err.Error()))
		}
	}

	m := store.NewMongo(client.Database(a.config.Mongo.Database))
	if err := m.EnsureIndexes(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return m, cleanup, nil
}

func (a *application) openBlobs(ctx context.Context) (blob.Provider, error) {
	if a.blobs != nil {
		return a.blobs, nil
	}
	if a.config.Blobs.InMemory() {
		return blob.NewMemory(), nil
	}
	return blob.NewMinIO(ctx, blob.MinIOConfig{
		Endpoint:  a.config.Blobs.Endpoint,
		AccessKey: a.config.Blobs.AccessKey,
		SecretKey: a.config.Blobs.SecretKey,
		Bucket:    a.config.Blobs.Bucket,
		Secure:    a.config.Blobs.Secure,
	})
}

func (a *application) openLLM() llm.Client {
	if a.llm != nil {
		return a.llm
	}
	return llm.NewOpenAI(llm.OpenAIConfig{
		APIKey:      a.config.Assistant.APIKey,
		BaseURL:     a.config.Assistant.BaseURL,
		Model:       a.config.Assistant.Model,
		VisionModel: a.config.Assistant.VisionModel,
	})
}

// seedFolders creates the default desktop folders on an empty store.
func seedFolders(ctx context.Context, st store.Store, logger *slog.Logger) error {
	existing, err := st.Folders(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := []models.Folder{
		{Name: "Projects", X: 20, Y: 20},
		{Name: "Documents", X: 20, Y: 120},
		{Name: "Photos", X: 20, Y: 220},
	}
	for i := range defaults {
		if err := st.CreateFolder(ctx, &defaults[i]); err != nil {
			return fmt.Errorf("seed folder %s: %w", defaults[i].Name, err)
		}
	}
	logger.Info("Seeded default folders", slog.Int("count", len(defaults)))
	return nil
}
