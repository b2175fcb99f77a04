package domain

import (
	"context"
)

// KeyValueStore is the client-local persistent storage used for visitor identity
// and reading progress. Get reports ok=false for missing keys.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// DocumentSource exposes the fixed document resource to the reader.
type DocumentSource interface {
	Path() string
	PageCount(ctx context.Context) (int, error)
	RenderPage(ctx context.Context, page int, scale float64) ([]byte, error)
}

// SocialRepository is the remote data service holding likes and comments.
type SocialRepository interface {
	CountLikes(ctx context.Context) (int, error)
	HasLiked(ctx context.Context, visitorID string) (bool, error)
	AddLike(ctx context.Context, visitorID string) error
	RemoveLike(ctx context.Context, visitorID string) error

	ListComments(ctx context.Context) ([]Comment, error)
	CreateComment(ctx context.Context, comment *Comment) (*Comment, error)
	DeleteComment(ctx context.Context, commentID, visitorID string) error
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetDatabaseURL() string
	GetSocialBackend() string
	GetDocumentPath() string
	GetDocumentTitle() string
	GetDataDir() string
	GetAllowedOrigins() []string
}
