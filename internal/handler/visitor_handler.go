package handler

import (
	"net/http"

	"novel-reader/internal/domain"
	"novel-reader/internal/identity"
	"novel-reader/internal/social"
)

// maxNameLength bounds a custom display name, in runes.
const maxNameLength = 40

// VisitorHandler handles identity requests
type VisitorHandler struct {
	identity *identity.Store
	panel    *social.Panel
	logger   domain.Logger
}

// NewVisitorHandler creates a new visitor handler
func NewVisitorHandler(ids *identity.Store, panel *social.Panel, logger domain.Logger) *VisitorHandler {
	return &VisitorHandler{identity: ids, panel: panel, logger: logger}
}

type visitorResponse struct {
	domain.Visitor
	GeneratedName string `json:"generated_name"`
	PostingAs     string `json:"posting_as"`
}

// GetVisitor returns the active identity.
func (h *VisitorHandler) GetVisitor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot())
}

// UpdateName sets the custom display name; an empty name clears it.
func (h *VisitorHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if len([]rune(req.Name)) > maxNameLength {
		writeAppError(w, h.logger, &domain.ValidationError{Field: "name", Message: "name is too long"})
		return
	}

	h.identity.SetVisitorName(req.Name)
	writeJSON(w, http.StatusOK, h.snapshot())
}

// UpdateAnonymous toggles anonymous posting.
func (h *VisitorHandler) UpdateAnonymous(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Anonymous *bool `json:"anonymous"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if req.Anonymous == nil {
		writeAppError(w, h.logger, &domain.ValidationError{Field: "anonymous", Message: "is required"})
		return
	}

	h.identity.SetAnonymous(*req.Anonymous)
	writeJSON(w, http.StatusOK, h.snapshot())
}

func (h *VisitorHandler) snapshot() visitorResponse {
	return visitorResponse{
		Visitor:       h.identity.Visitor(),
		GeneratedName: h.identity.GeneratedName(),
		PostingAs:     h.panel.PostingAs(),
	}
}
