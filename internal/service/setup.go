package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/seongbear/document-edit-ai/internal/auth"
	"github.com/seongbear/document-edit-ai/internal/capabilities"
	"github.com/seongbear/document-edit-ai/internal/config"
	"github.com/seongbear/document-edit-ai/internal/domain/repositories"
	"github.com/seongbear/document-edit-ai/internal/domain/services"
	"github.com/seongbear/document-edit-ai/internal/repository/memory"
	"github.com/seongbear/document-edit-ai/internal/repository/onedrive"
	"github.com/seongbear/document-edit-ai/internal/repository/postgres"
	"github.com/seongbear/document-edit-ai/internal/repository/postgres/transcript"
	serviceDocsys "github.com/seongbear/document-edit-ai/internal/service/docsystem"
	"github.com/seongbear/document-edit-ai/internal/service/docsystem/converter"
	serviceLLM "github.com/seongbear/document-edit-ai/internal/service/llm"
	"github.com/seongbear/document-edit-ai/internal/service/session"
)

// App holds the wired components shared by the server and the CLI
type App struct {
	Session services.SessionService
	Store   services.DocumentStore

	closers []func()
}

// Close releases the database pool, if any
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Setup builds every component from configuration and restores the
// persisted conversation log.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{}

	// Model binding
	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("initialize capability registry: %w", err)
	}
	provider, err := serviceLLM.NewProviderFactory(cfg, capabilityRegistry).GetProvider(ctx, cfg.LLMProvider)
	if err != nil {
		return nil, err
	}
	if !provider.SupportsModel(cfg.LLMModel) {
		return nil, fmt.Errorf("model %s is not served by provider %s", cfg.LLMModel, provider.Name())
	}
	prompts, err := serviceLLM.NewPromptRegistry()
	if err != nil {
		return nil, fmt.Errorf("load prompt directives: %w", err)
	}
	assistant := serviceLLM.NewAssistant(provider, cfg.LLMModel, prompts, logger)
	logger.Info("model configured", "provider", provider.Name(), "model", cfg.LLMModel)

	// Drive client
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	app.Store = onedrive.NewClient(onedrive.Config{
		BaseURL:     cfg.GraphBaseURL,
		TokenSource: tokenSource(cfg, httpClient, logger),
		HTTPClient:  httpClient,
		Logger:      logger,
	})

	// Transcript store
	turns, err := app.turnRepository(ctx, cfg, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Session = session.NewService(
		cfg.SessionID,
		app.Store,
		converter.NewDocxConverter(),
		assistant,
		serviceDocsys.NewContentAnalyzer(),
		turns,
		logger,
	)
	if err := app.Session.Resume(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("resume session: %w", err)
	}

	return app, nil
}

func tokenSource(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) oauth2.TokenSource {
	if cfg.OneDriveAccessToken != "" {
		logger.Info("drive credential", "source", "static token")
		return auth.NewStaticTokenSource(cfg.OneDriveAccessToken)
	}

	logger.Info("drive credential", "source", "connector", "hostname", cfg.ConnectorsHostname)
	return auth.NewCachedTokenSource(auth.NewConnectorTokenSource(auth.ConnectorConfig{
		Hostname:       cfg.ConnectorsHostname,
		ReplIdentity:   cfg.ReplIdentity,
		WebReplRenewal: cfg.WebReplRenewal,
		HTTPClient:     httpClient,
		Logger:         logger,
	}))
}

func (a *App) turnRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.TurnRepository, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("transcript store", "backend", "memory")
		return memory.NewTurnRepository(), nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect transcript database: %w", err)
	}
	a.closers = append(a.closers, pool.Close)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	if err := postgres.EnsureSchema(ctx, repoConfig); err != nil {
		return nil, err
	}

	logger.Info("transcript store", "backend", "postgres", "table", repoConfig.Tables.Turns)
	return transcript.NewTurnRepository(repoConfig, postgres.NewTransactionManager(pool, logger)), nil
}
