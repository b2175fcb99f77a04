package config

import (
	"context"
	"fmt"

	"novel-reader/internal/domain"
)

// unavailableRepository stands in when the configured social backend could not
// be reached at startup.
type unavailableRepository struct {
	cause error
}

func (u unavailableRepository) err() error {
	return fmt.Errorf("%w: %v", domain.ErrNotConfigured, u.cause)
}

func (u unavailableRepository) CountLikes(context.Context) (int, error)        { return 0, u.err() }
func (u unavailableRepository) HasLiked(context.Context, string) (bool, error) { return false, u.err() }
func (u unavailableRepository) AddLike(context.Context, string) error          { return u.err() }
func (u unavailableRepository) RemoveLike(context.Context, string) error       { return u.err() }

func (u unavailableRepository) ListComments(context.Context) ([]domain.Comment, error) {
	return nil, u.err()
}

func (u unavailableRepository) CreateComment(context.Context, *domain.Comment) (*domain.Comment, error) {
	return nil, u.err()
}

func (u unavailableRepository) DeleteComment(context.Context, string, string) error {
	return u.err()
}
