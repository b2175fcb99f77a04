package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"novel-reader/internal/domain"
	"novel-reader/pkg/logger"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "SERVER_PORT", "LOG_LEVEL", "SUPABASE_URL", "SUPABASE_ANON_KEY",
		"DATABASE_URL", "SOCIAL_BACKEND", "DOCUMENT_PATH", "DOCUMENT_TITLE",
		"DATA_DIR", "ALLOWED_ORIGINS", "SITE_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := NewConfig()

	if cfg.GetServerPort() != "8080" {
		t.Fatalf("expected default server port 8080, got %s", cfg.GetServerPort())
	}
	if cfg.GetLogLevel() != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.GetLogLevel())
	}
	if cfg.GetSupabaseURL() != "" {
		t.Fatalf("expected default supabase url empty, got %s", cfg.GetSupabaseURL())
	}
	if cfg.GetSocialBackend() != BackendPostgrest {
		t.Fatalf("expected default backend %s, got %s", BackendPostgrest, cfg.GetSocialBackend())
	}
	if cfg.GetDocumentPath() != defaultDocumentPath {
		t.Fatalf("expected default document path, got %s", cfg.GetDocumentPath())
	}
	if cfg.GetDataDir() != XDGDataDir() {
		t.Fatalf("expected xdg data dir %s, got %s", XDGDataDir(), cfg.GetDataDir())
	}
	if filepath.Base(cfg.GetDataDir()) != AppName {
		t.Fatalf("expected data dir to end in %s, got %s", AppName, cfg.GetDataDir())
	}
	if !reflect.DeepEqual(cfg.GetAllowedOrigins(), defaultAllowedOrigins) {
		t.Fatalf("unexpected default origins %v", cfg.GetAllowedOrigins())
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SUPABASE_URL", "http://localhost:54321")
	t.Setenv("SUPABASE_ANON_KEY", "test-key")
	t.Setenv("SOCIAL_BACKEND", "Postgres")
	t.Setenv("DATA_DIR", "/tmp/novel")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9090" {
		t.Fatalf("expected server port 9090, got %s", cfg.GetServerPort())
	}
	if cfg.GetLogLevel() != "debug" {
		t.Fatalf("expected log level debug, got %s", cfg.GetLogLevel())
	}
	if cfg.GetSupabaseKey() != "test-key" {
		t.Fatalf("expected supabase key test-key, got %s", cfg.GetSupabaseKey())
	}
	if cfg.GetSocialBackend() != BackendPostgres {
		t.Fatalf("expected backend postgres, got %s", cfg.GetSocialBackend())
	}
	if cfg.GetDataDir() != "/tmp/novel" {
		t.Fatalf("expected data dir /tmp/novel, got %s", cfg.GetDataDir())
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.GetAllowedOrigins(), want) {
		t.Fatalf("expected origins %v, got %v", want, cfg.GetAllowedOrigins())
	}
}

func TestNewConfig_ServerPortFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "7070")

	if got := NewConfig().GetServerPort(); got != "7070" {
		t.Fatalf("expected server port 7070, got %s", got)
	}
}

func TestNewConfig_SiteFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "site.yaml")
	content := "title: Tide Lines\ndocument: ./public/tide-lines.pdf\nallowed_origins:\n  - https://author.example\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SITE_FILE", path)
	t.Setenv("DOCUMENT_TITLE", "Override")

	cfg := NewConfig()

	if cfg.GetDocumentPath() != "./public/tide-lines.pdf" {
		t.Fatalf("expected document from site file, got %s", cfg.GetDocumentPath())
	}
	if cfg.GetDocumentTitle() != "Override" {
		t.Fatalf("expected environment to win over site file, got %s", cfg.GetDocumentTitle())
	}
	if !reflect.DeepEqual(cfg.GetAllowedOrigins(), []string{"https://author.example"}) {
		t.Fatalf("unexpected origins %v", cfg.GetAllowedOrigins())
	}
}

func TestNewConfig_MissingSiteFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SITE_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg := NewConfig().(*AppConfig)

	if cfg.SiteFileError() != ErrSiteFileNotFound {
		t.Fatalf("expected ErrSiteFileNotFound, got %v", cfg.SiteFileError())
	}
	if cfg.GetDocumentTitle() != defaultDocumentTitle {
		t.Fatalf("expected default title, got %s", cfg.GetDocumentTitle())
	}
}

func testConfig(dataDir string) *AppConfig {
	return &AppConfig{
		ServerPort:    "0",
		LogLevel:      "error",
		SocialBackend: BackendMemory,
		DocumentPath:  filepath.Join(dataDir, "missing.pdf"),
		DocumentTitle: "Test",
		DataDir:       dataDir,
	}
}

func TestContainer_PersistsVisitorAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := NewContainerWithConfig(ctx, testConfig(dir), logger.NewNop())
	id := first.Identity.VisitorID()
	first.Progress.SavePage(4)
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := NewContainerWithConfig(ctx, testConfig(dir), logger.NewNop())
	defer second.Close()

	if second.Store.Degraded() {
		t.Fatalf("expected sqlite store to be in use")
	}
	if got := second.Identity.VisitorID(); got != id {
		t.Fatalf("expected visitor id %s, got %s", id, got)
	}
	if got := second.Progress.Load().CurrentPage; got != 4 {
		t.Fatalf("expected saved page 4, got %d", got)
	}
}

func TestContainer_SupabaseNotConfigured(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.SocialBackend = BackendPostgrest

	c := NewContainerWithConfig(context.Background(), cfg, logger.NewNop())
	defer c.Close()

	_, err := c.SocialRepository.CountLikes(context.Background())
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestContainer_PostgresUnreachable(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.SocialBackend = BackendPostgres

	c := NewContainerWithConfig(context.Background(), cfg, logger.NewNop())
	defer c.Close()

	if _, err := c.SocialRepository.ListComments(context.Background()); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
