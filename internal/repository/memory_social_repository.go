package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"novel-reader/internal/domain"

	"github.com/oklog/ulid/v2"
)

// MemorySocialRepository keeps likes and comments in process. It backs offline
// runs and tests.
type MemorySocialRepository struct {
	mu       sync.RWMutex
	likes    map[string]time.Time
	comments []domain.Comment
	now      func() time.Time
}

// NewMemorySocialRepository creates an empty repository.
func NewMemorySocialRepository() *MemorySocialRepository {
	return &MemorySocialRepository{
		likes: make(map[string]time.Time),
		now:   time.Now,
	}
}

func (r *MemorySocialRepository) CountLikes(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.likes), nil
}

func (r *MemorySocialRepository) HasLiked(ctx context.Context, visitorID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.likes[visitorID]
	return ok, nil
}

func (r *MemorySocialRepository) AddLike(ctx context.Context, visitorID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.likes[visitorID]; !ok {
		r.likes[visitorID] = r.now()
	}
	return nil
}

func (r *MemorySocialRepository) RemoveLike(ctx context.Context, visitorID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.likes, visitorID)
	return nil
}

func (r *MemorySocialRepository) ListComments(ctx context.Context) ([]domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]domain.Comment, 0, len(r.comments))
	for i := len(r.comments) - 1; i >= 0; i-- {
		out = append(out, r.comments[i])
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemorySocialRepository) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	created := domain.Comment{
		ID:        ulid.Make().String(),
		UserName:  sanitizeText(comment.UserName),
		Text:      sanitizeText(comment.Text),
		CreatedAt: r.now().UTC(),
		VisitorID: comment.VisitorID,
	}
	r.comments = append(r.comments, created)
	return &created, nil
}

func (r *MemorySocialRepository) DeleteComment(ctx context.Context, commentID, visitorID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.comments {
		if c.ID == commentID && c.VisitorID == visitorID {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return domain.ErrCommentNotFound
}
