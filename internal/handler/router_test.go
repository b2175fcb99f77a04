package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"novel-reader/internal/domain"
	"novel-reader/internal/identity"
	"novel-reader/internal/reader"
	"novel-reader/internal/repository"
	"novel-reader/internal/social"
	"novel-reader/internal/storage"
	"novel-reader/pkg/logger"
)

type mockDocumentSource struct {
	path  string
	pages int
}

func (m *mockDocumentSource) Path() string { return m.path }

func (m *mockDocumentSource) PageCount(ctx context.Context) (int, error) {
	return m.pages, nil
}

func (m *mockDocumentSource) RenderPage(ctx context.Context, page int, scale float64) ([]byte, error) {
	if page < 1 || page > m.pages {
		return nil, domain.ErrPageOutOfRange
	}
	return []byte("\x89PNG\r\n\x1a\n"), nil
}

type testApp struct {
	router   http.Handler
	ids      *identity.Store
	repo     *repository.MemorySocialRepository
	panel    *social.Panel
	viewer   *reader.Viewer
	document *mockDocumentSource
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := logger.NewNop()

	pdf := filepath.Join(t.TempDir(), "novel.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	kv := storage.NewMemoryStore()
	ids := identity.NewStore(kv, log)
	progress := reader.NewProgressStore(kv, ids, log)
	source := &mockDocumentSource{path: pdf, pages: 5}
	viewer := reader.NewViewer(source, progress, log)
	repo := repository.NewMemorySocialRepository()
	panel := social.NewPanel(repo, ids, log)
	t.Cleanup(panel.Close)

	h := Handlers{
		Visitor:  NewVisitorHandler(ids, panel, log),
		Reader:   NewReaderHandler(viewer, "Tide Lines", log),
		Document: NewDocumentHandler(source, viewer, log),
		Social:   NewSocialHandler(panel, log),
	}
	return &testApp{
		router:   NewRouter(h, []string{"https://author.example"}, log),
		ids:      ids,
		repo:     repo,
		panel:    panel,
		viewer:   viewer,
		document: source,
	}
}

func (a *testApp) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestNewRouter_Health(t *testing.T) {
	app := newTestApp(t)

	rr := app.do(t, http.MethodGet, "/health", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/comments", nil)
	req.Header.Set("Origin", "https://author.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	app.router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://author.example" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestNewRouter_UnknownRoute(t *testing.T) {
	app := newTestApp(t)

	if rr := app.do(t, http.MethodGet, "/api/v1/document/pages/abc", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
