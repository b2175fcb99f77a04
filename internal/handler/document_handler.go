package handler

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"novel-reader/internal/domain"
	"novel-reader/internal/reader"
	apperrors "novel-reader/pkg/errors"

	"github.com/gorilla/mux"
)

// DocumentHandler serves the featured PDF and its rendered pages
type DocumentHandler struct {
	source domain.DocumentSource
	viewer *reader.Viewer
	logger domain.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(source domain.DocumentSource, viewer *reader.Viewer, logger domain.Logger) *DocumentHandler {
	return &DocumentHandler{source: source, viewer: viewer, logger: logger}
}

// GetDocument streams the PDF file.
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	path := h.source.Path()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeAppError(w, h.logger, apperrors.NewNotFoundError("document not found", err))
			return
		}
		writeAppError(w, h.logger, apperrors.NewInternalError("document unavailable", err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}

// GetPage renders one page to PNG. The scale defaults to the reader's zoom;
// only renders at an explicit ?scale are cacheable.
func (h *DocumentHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil {
		writeAppError(w, h.logger, apperrors.NewValidationError("page must be a number", "page"))
		return
	}

	scale := h.viewer.Scale()
	cacheControl := "no-store"
	if raw := r.URL.Query().Get("scale"); raw != "" {
		s, err := strconv.ParseFloat(raw, 64)
		if err != nil || s < reader.MinScale || s > reader.MaxScale {
			writeAppError(w, h.logger, apperrors.NewValidationError("scale out of range", "scale"))
			return
		}
		scale = s
		cacheControl = "public, max-age=3600"
	}

	png, err := h.source.RenderPage(r.Context(), page, scale)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.Is(err, os.ErrNotExist):
			writeAppError(w, h.logger, apperrors.NewNotFoundError("document not found", err))
		case errors.Is(err, domain.ErrPageOutOfRange), errors.As(err, &verr):
			writeAppError(w, h.logger, err)
		default:
			writeAppError(w, h.logger, apperrors.NewInternalError("failed to render page", err))
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
