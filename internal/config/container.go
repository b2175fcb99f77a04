package config

import (
	"context"
	"errors"

	"novel-reader/internal/document"
	"novel-reader/internal/domain"
	"novel-reader/internal/identity"
	"novel-reader/internal/reader"
	"novel-reader/internal/repository"
	"novel-reader/internal/social"
	"novel-reader/internal/storage"
	"novel-reader/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config           domain.Config
	Logger           domain.Logger
	Store            *storage.Fallback
	Identity         *identity.Store
	Progress         *reader.ProgressStore
	Document         *document.FitzSource
	Viewer           *reader.Viewer
	SupabaseClient   domain.SupabaseClient
	SocialRepository domain.SocialRepository
	Panel            *social.Panel

	closers []func() error
}

// NewContainer creates a new dependency injection container from the environment.
func NewContainer(ctx context.Context) *Container {
	cfg := NewConfig()
	return NewContainerWithConfig(ctx, cfg, logger.NewLogger(cfg.GetLogLevel()))
}

// NewContainerWithConfig wires every component. Backends that cannot be
// reached are logged and replaced so the reader keeps working: local state
// falls back to memory, and social calls report ErrNotConfigured.
func NewContainerWithConfig(ctx context.Context, cfg domain.Config, appLogger domain.Logger) *Container {
	c := &Container{Config: cfg, Logger: appLogger}

	if sc, ok := cfg.(interface{ SiteFileError() error }); ok {
		if err := sc.SiteFileError(); err != nil {
			appLogger.Warn("Site file ignored", "error", err)
		}
	}

	// Local key/value state
	var primary domain.KeyValueStore
	sqlite, err := storage.OpenSQLite(cfg.GetDataDir(), storage.DefaultOptions())
	if err != nil {
		appLogger.Warn("Local state database unavailable, keeping state in memory", "dir", cfg.GetDataDir(), "error", err)
	} else {
		primary = sqlite
		c.closers = append(c.closers, sqlite.Close)
		appLogger.Debug("Local state database opened", "path", sqlite.Path())
	}
	c.Store = storage.NewFallback(primary, appLogger)

	// Visitor and reader
	c.Identity = identity.NewStore(c.Store, appLogger)
	c.Progress = reader.NewProgressStore(c.Store, c.Identity, appLogger)
	c.Document = document.NewFitzSource(cfg.GetDocumentPath(), appLogger)
	c.closers = append(c.closers, c.Document.Close)
	c.Viewer = reader.NewViewer(c.Document, c.Progress, appLogger)

	// Social
	c.SocialRepository = c.newSocialRepository(ctx)
	c.Panel = social.NewPanel(c.SocialRepository, c.Identity, appLogger)

	return c
}

func (c *Container) newSocialRepository(ctx context.Context) domain.SocialRepository {
	switch c.Config.GetSocialBackend() {
	case BackendMemory:
		c.Logger.Info("Using in-memory social backend")
		return repository.NewMemorySocialRepository()

	case BackendPostgres:
		db, err := repository.OpenPostgres(ctx, c.Config.GetDatabaseURL(), c.Logger)
		if err != nil {
			c.Logger.Error("Failed to connect to Postgres, social features disabled", err)
			return unavailableRepository{cause: err}
		}
		c.closers = append(c.closers, db.Close)
		return repository.NewPostgresSocialRepository(db, c.Logger)

	default:
		c.SupabaseClient = repository.NewSupabaseClient(c.Config, c.Logger)
		if err := c.SupabaseClient.Initialize(); err != nil {
			c.Logger.Error("Failed to initialize Supabase client, social features disabled", err)
		}
		return repository.NewSupabaseSocialRepository(c.SupabaseClient, c.Logger)
	}
}

// Close disposes the panel and releases open resources.
func (c *Container) Close() error {
	if c.Panel != nil {
		c.Panel.Close()
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
