package handler

import (
	"net/http"

	"novel-reader/internal/config"
	"novel-reader/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Handlers groups the route handlers.
type Handlers struct {
	Visitor  *VisitorHandler
	Reader   *ReaderHandler
	Document *DocumentHandler
	Social   *SocialHandler
}

// NewHandlers builds every handler from the container.
func NewHandlers(c *config.Container) Handlers {
	return Handlers{
		Visitor:  NewVisitorHandler(c.Identity, c.Panel, c.Logger),
		Reader:   NewReaderHandler(c.Viewer, c.Config.GetDocumentTitle(), c.Logger),
		Document: NewDocumentHandler(c.Document, c.Viewer, c.Logger),
		Social:   NewSocialHandler(c.Panel, c.Logger),
	}
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(h Handlers, allowedOrigins []string, logger domain.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(Recoverer(logger), RequestLogger(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "novel-reader"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Visitor
	api.HandleFunc("/visitor", h.Visitor.GetVisitor).Methods(http.MethodGet)
	api.HandleFunc("/visitor/name", h.Visitor.UpdateName).Methods(http.MethodPut)
	api.HandleFunc("/visitor/anonymous", h.Visitor.UpdateAnonymous).Methods(http.MethodPut)

	// Reader
	api.HandleFunc("/landing", h.Reader.GetLanding).Methods(http.MethodGet)
	api.HandleFunc("/reader", h.Reader.GetReader).Methods(http.MethodGet)
	api.HandleFunc("/reader/open", h.Reader.Open).Methods(http.MethodPost)
	api.HandleFunc("/reader/close", h.Reader.Close).Methods(http.MethodPost)
	api.HandleFunc("/reader/next", h.Reader.Next).Methods(http.MethodPost)
	api.HandleFunc("/reader/prev", h.Reader.Prev).Methods(http.MethodPost)
	api.HandleFunc("/reader/page", h.Reader.GoTo).Methods(http.MethodPut)
	api.HandleFunc("/reader/zoom-in", h.Reader.ZoomIn).Methods(http.MethodPost)
	api.HandleFunc("/reader/zoom-out", h.Reader.ZoomOut).Methods(http.MethodPost)
	api.HandleFunc("/reader/layout", h.Reader.UpdateLayout).Methods(http.MethodPut)
	api.HandleFunc("/reader/touch", h.Reader.Touch).Methods(http.MethodPost)

	// Document
	api.HandleFunc("/document", h.Document.GetDocument).Methods(http.MethodGet)
	api.HandleFunc("/document/pages/{page:[0-9]+}", h.Document.GetPage).Methods(http.MethodGet)

	// Social
	api.HandleFunc("/social", h.Social.GetSocial).Methods(http.MethodGet)
	api.HandleFunc("/social/like", h.Social.ToggleLike).Methods(http.MethodPost)
	api.HandleFunc("/comments", h.Social.GetComments).Methods(http.MethodGet)
	api.HandleFunc("/comments", h.Social.PostComment).Methods(http.MethodPost)
	api.HandleFunc("/comments/{id}", h.Social.DeleteComment).Methods(http.MethodDelete)

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
