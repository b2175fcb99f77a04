package handler

import (
	"net/http"

	"novel-reader/internal/domain"
	"novel-reader/internal/reader"
	"novel-reader/internal/social"

	"github.com/gorilla/mux"
)

// maxCommentLength bounds a comment, in runes.
const maxCommentLength = 2000

// SocialHandler handles likes and comments
type SocialHandler struct {
	panel  *social.Panel
	logger domain.Logger
}

// NewSocialHandler creates a new social handler
func NewSocialHandler(panel *social.Panel, logger domain.Logger) *SocialHandler {
	return &SocialHandler{panel: panel, logger: logger}
}

// GetSocial returns the inline panel. ?refresh=true reloads from the data
// service first; load failures are logged and the cached state is returned.
func (h *SocialHandler) GetSocial(w http.ResponseWriter, r *http.Request) {
	if queryBool(r, "refresh") {
		_ = h.panel.Load(r.Context())
	}
	writeJSON(w, http.StatusOK, h.panel.Summary(isMobile(r, reader.IsNarrow)))
}

// ToggleLike flips the visitor's like. On a remote failure the rolled-back
// state is returned with the error status.
func (h *SocialHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	state, err := h.panel.ToggleLike(r.Context())
	if err != nil {
		status, body := appErrorBody(h.logger, err)
		body["likes"] = state
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// GetComments returns the full overlay list.
func (h *SocialHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.panel.Overlay())
}

// PostComment publishes a comment as the active visitor.
func (h *SocialHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if len([]rune(req.Text)) > maxCommentLength {
		writeAppError(w, h.logger, &domain.ValidationError{Field: "text", Message: "comment is too long"})
		return
	}

	created, err := h.panel.PostComment(r.Context(), req.Text)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteComment removes one of the visitor's own comments.
func (h *SocialHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.panel.DeleteComment(r.Context(), id); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
