package handler

import (
	"net/http"

	"novel-reader/internal/domain"
	"novel-reader/internal/reader"
)

// ReaderHandler drives the document viewer
type ReaderHandler struct {
	viewer *reader.Viewer
	title  string
	logger domain.Logger
}

// NewReaderHandler creates a new reader handler
func NewReaderHandler(viewer *reader.Viewer, title string, logger domain.Logger) *ReaderHandler {
	return &ReaderHandler{viewer: viewer, title: title, logger: logger}
}

type landingResponse struct {
	Title string `json:"title"`
	reader.Landing
}

// GetLanding returns the call-to-action label and stored progress.
func (h *ReaderHandler) GetLanding(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, landingResponse{Title: h.title, Landing: h.viewer.Landing()})
}

// GetReader returns the viewer snapshot.
func (h *ReaderHandler) GetReader(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.viewer.Snapshot())
}

// Open opens the reader and loads the document. If the document cannot be
// loaded the reader stays in the loading state.
func (h *ReaderHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.viewer.Open()
	if err := h.viewer.Load(r.Context()); err != nil {
		writeJSON(w, http.StatusAccepted, h.viewer.Snapshot())
		return
	}
	writeJSON(w, http.StatusOK, h.viewer.Snapshot())
}

// Close returns to the landing page.
func (h *ReaderHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.viewer.Close()
	writeJSON(w, http.StatusOK, landingResponse{Title: h.title, Landing: h.viewer.Landing()})
}

// Next turns forward.
func (h *ReaderHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.turn(w, h.viewer.Next)
}

// Prev turns backward.
func (h *ReaderHandler) Prev(w http.ResponseWriter, r *http.Request) {
	h.turn(w, h.viewer.Prev)
}

func (h *ReaderHandler) turn(w http.ResponseWriter, fn func() (bool, error)) {
	if _, err := fn(); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.viewer.Snapshot())
}

// GoTo jumps to {"page": n}.
func (h *ReaderHandler) GoTo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page *int `json:"page"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if req.Page == nil {
		writeAppError(w, h.logger, &domain.ValidationError{Field: "page", Message: "page is required"})
		return
	}
	if err := h.viewer.GoTo(*req.Page); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.viewer.Snapshot())
}

// ZoomIn steps the zoom up.
func (h *ReaderHandler) ZoomIn(w http.ResponseWriter, r *http.Request) {
	h.viewer.ZoomIn()
	writeJSON(w, http.StatusOK, h.viewer.Snapshot())
}

// ZoomOut steps the zoom down.
func (h *ReaderHandler) ZoomOut(w http.ResponseWriter, r *http.Request) {
	h.viewer.ZoomOut()
	writeJSON(w, http.StatusOK, h.viewer.Snapshot())
}

// UpdateLayout accepts either {"narrow": bool} or {"width": px}.
func (h *ReaderHandler) UpdateLayout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Narrow *bool `json:"narrow"`
		Width  *int  `json:"width"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	switch {
	case req.Width != nil:
		h.viewer.SetNarrow(reader.IsNarrow(*req.Width))
	case req.Narrow != nil:
		h.viewer.SetNarrow(*req.Narrow)
	default:
		writeAppError(w, h.logger, &domain.ValidationError{Field: "narrow", Message: "narrow or width is required"})
		return
	}
	writeJSON(w, http.StatusOK, h.viewer.Snapshot())
}

// Touch feeds one touch event to the gesture tracker.
func (h *ReaderHandler) Touch(w http.ResponseWriter, r *http.Request) {
	var ev reader.TouchEvent
	if err := decodeJSON(w, r, &ev); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	switch ev.Phase {
	case reader.TouchStart, reader.TouchMove, reader.TouchEnd:
	default:
		writeAppError(w, h.logger, &domain.ValidationError{Field: "phase", Message: "must be start, move or end"})
		return
	}

	action, err := h.viewer.HandleTouch(ev)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"action": action,
		"reader": h.viewer.Snapshot(),
	})
}
