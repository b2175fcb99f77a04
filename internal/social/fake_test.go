package social

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"novel-reader/internal/domain"
)

var errRemote = errors.New("service unavailable")

type fakeIdentity struct {
	id        string
	name      string
	generated string
	anonymous bool
}

func (f *fakeIdentity) VisitorID() string { return f.id }
func (f *fakeIdentity) IsAnonymous() bool { return f.anonymous }
func (f *fakeIdentity) DisplayName() string {
	if f.anonymous {
		return f.generated
	}
	return f.name
}

// fakeRepo is an in-memory SocialRepository with failure injection and an
// optional gate that holds writes until released.
type fakeRepo struct {
	mu       sync.Mutex
	likes    map[string]bool
	comments []domain.Comment
	seq      int

	failLikes    bool
	failCount    bool
	failComments bool
	failCreate   bool
	failDelete   bool

	gate    chan struct{}
	entered chan struct{}

	// countGate holds CountLikes until released; countResult, when set,
	// replaces the live count.
	countGate    chan struct{}
	countEntered chan struct{}
	countResult  *int

	creates int
	deletes int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{likes: make(map[string]bool)}
}

func (r *fakeRepo) wait(ctx context.Context) {
	if r.gate == nil {
		return
	}
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	<-r.gate
}

func (r *fakeRepo) CountLikes(ctx context.Context) (int, error) {
	if r.countGate != nil {
		r.countEntered <- struct{}{}
		<-r.countGate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCount {
		return 0, errRemote
	}
	if r.countResult != nil {
		return *r.countResult, nil
	}
	return len(r.likes), nil
}

func (r *fakeRepo) HasLiked(ctx context.Context, visitorID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failLikes {
		return false, errRemote
	}
	return r.likes[visitorID], nil
}

func (r *fakeRepo) AddLike(ctx context.Context, visitorID string) error {
	r.wait(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failLikes {
		return errRemote
	}
	if r.likes[visitorID] {
		return errors.New("duplicate key value violates unique constraint")
	}
	r.likes[visitorID] = true
	return nil
}

func (r *fakeRepo) RemoveLike(ctx context.Context, visitorID string) error {
	r.wait(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failLikes {
		return errRemote
	}
	delete(r.likes, visitorID)
	return nil
}

func (r *fakeRepo) ListComments(ctx context.Context) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failComments {
		return nil, errRemote
	}
	out := make([]domain.Comment, len(r.comments))
	copy(out, r.comments)
	return out, nil
}

func (r *fakeRepo) CreateComment(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	r.wait(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.failCreate {
		return nil, errRemote
	}
	r.seq++
	created := *c
	created.ID = fmt.Sprintf("c%d", r.seq)
	created.CreatedAt = time.Now()
	r.comments = append([]domain.Comment{created}, r.comments...)
	return &created, nil
}

func (r *fakeRepo) DeleteComment(ctx context.Context, commentID, visitorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes++
	if r.failDelete {
		return errRemote
	}
	for i, c := range r.comments {
		if c.ID == commentID && c.VisitorID == visitorID {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return nil
}
