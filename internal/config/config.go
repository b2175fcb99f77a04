package config

import (
	"os"
	"path/filepath"
	"strings"

	"novel-reader/internal/domain"

	"github.com/adrg/xdg"
)

// AppName names the per-user data directory.
const AppName = "novel-reader"

// Social backends selectable with SOCIAL_BACKEND.
const (
	BackendPostgrest = "postgrest"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

const (
	defaultDocumentPath  = "./public/novel.pdf"
	defaultDocumentTitle = "The Novel"
)

var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:4173",
	"http://localhost:3000",
}

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort     string
	LogLevel       string
	SupabaseURL    string
	SupabaseKey    string
	DatabaseURL    string
	SocialBackend  string
	DocumentPath   string
	DocumentTitle  string
	DataDir        string
	AllowedOrigins []string
	SiteFile       string

	siteErr error
}

// NewConfig creates a new configuration instance from the environment. When
// SITE_FILE names a readable YAML file its values replace the defaults of the
// keys it sets; explicit environment variables still win.
func NewConfig() domain.Config {
	cfg := &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:     getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL:    getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:    getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		DatabaseURL:    getEnvOrDefault("DATABASE_URL", ""),
		SocialBackend:  normalizeBackend(getEnvOrDefault("SOCIAL_BACKEND", BackendPostgrest)),
		DocumentPath:   defaultDocumentPath,
		DocumentTitle:  defaultDocumentTitle,
		DataDir:        XDGDataDir(),
		AllowedOrigins: defaultAllowedOrigins,
		SiteFile:       getEnvOrDefault("SITE_FILE", ""),
	}

	if cfg.SiteFile != "" {
		site, err := LoadSiteFile(cfg.SiteFile)
		if err != nil {
			cfg.siteErr = err
		} else {
			site.apply(cfg)
		}
	}

	cfg.DocumentPath = getEnvOrDefault("DOCUMENT_PATH", cfg.DocumentPath)
	cfg.DocumentTitle = getEnvOrDefault("DOCUMENT_TITLE", cfg.DocumentTitle)
	cfg.DataDir = getEnvOrDefault("DATA_DIR", cfg.DataDir)
	if origins := splitList(os.Getenv("ALLOWED_ORIGINS")); len(origins) > 0 {
		cfg.AllowedOrigins = origins
	}
	return cfg
}

// XDGDataDir returns the per-user data directory, e.g. ~/.local/share/novel-reader.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// SiteFileError reports why SITE_FILE could not be applied, if it was set.
func (c *AppConfig) SiteFileError() error {
	return c.siteErr
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetDatabaseURL returns the Postgres connection string
func (c *AppConfig) GetDatabaseURL() string {
	return c.DatabaseURL
}

// GetSocialBackend returns which social repository to use
func (c *AppConfig) GetSocialBackend() string {
	return c.SocialBackend
}

// GetDocumentPath returns the path of the featured PDF
func (c *AppConfig) GetDocumentPath() string {
	return c.DocumentPath
}

// GetDocumentTitle returns the title shown on the landing card
func (c *AppConfig) GetDocumentTitle() string {
	return c.DocumentTitle
}

// GetDataDir returns the directory holding the local state database
func (c *AppConfig) GetDataDir() string {
	return c.DataDir
}

// GetAllowedOrigins returns the CORS origins
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case BackendPostgres, "pq":
		return BackendPostgres
	case BackendMemory:
		return BackendMemory
	default:
		return BackendPostgrest
	}
}
