// Package social holds the like and comment state shown beside the featured
// work. Likes are updated optimistically; comments are cached in memory and
// refreshed from the remote data service on load.
package social

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"novel-reader/internal/domain"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Preview sizes for the inline comment list.
const (
	DesktopPreview = 1
	MobilePreview  = 2
)

// Identity is the part of the identity store the panel needs.
type Identity interface {
	VisitorID() string
	DisplayName() string
	IsAnonymous() bool
}

// CommentView is a comment prepared for display.
type CommentView struct {
	domain.Comment
	TextHTML  string `json:"text_html"`
	TimeLabel string `json:"time_label"`
	CanDelete bool   `json:"can_delete"`
}

// Summary is the inline panel: like button, preview and "read all" action.
type Summary struct {
	Likes         domain.LikeState `json:"likes"`
	Loading       bool             `json:"loading"`
	Preview       []CommentView    `json:"preview"`
	TotalComments int              `json:"total_comments"`
	HasMore       bool             `json:"has_more"`
	PostingAs     string           `json:"posting_as"`
}

// Overlay is the full-screen list of every comment.
type Overlay struct {
	Heading  string        `json:"heading"`
	Comments []CommentView `json:"comments"`
}

// Panel is the social layer for one visitor. It is safe for concurrent use.
type Panel struct {
	repo   domain.SocialRepository
	ids    Identity
	logger domain.Logger
	now    func() time.Time
	policy *bluemonday.Policy

	likes *Optimistic[domain.LikeState]

	// likeMu guards likePending and likeGen. likeGen counts toggles so a load
	// that started before one never overwrites its result.
	likeMu      sync.Mutex
	likePending bool
	likeGen     uint64

	mu       sync.Mutex
	comments []domain.Comment
	loading  bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPanel creates a panel. Call Load to fetch the initial state.
func NewPanel(repo domain.SocialRepository, ids Identity, logger domain.Logger) *Panel {
	ctx, cancel := context.WithCancel(context.Background())
	return &Panel{
		repo:     repo,
		ids:      ids,
		logger:   logger,
		now:      time.Now,
		policy:   newCommentPolicy(),
		likes:    NewOptimistic(domain.LikeState{}),
		comments: []domain.Comment{},
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Close disposes the panel. In-flight calls are cancelled and their results
// are not applied.
func (p *Panel) Close() {
	p.cancel()
}

// Load fetches the like count, the visitor's own like and all comments
// concurrently. Each part that succeeds is applied; the first failure is
// logged and returned.
func (p *Panel) Load(ctx context.Context) error {
	ctx, done, err := p.scope(ctx)
	if err != nil {
		return err
	}
	defer done()

	p.setLoading(true)
	defer p.setLoading(false)

	visitorID := p.ids.VisitorID()
	gen := p.likeGeneration()

	var (
		count            int
		liked            bool
		comments         []domain.Comment
		countOK, likedOK bool
		commentsOK       bool
	)

	var g errgroup.Group
	g.Go(func() error {
		c, err := p.repo.CountLikes(ctx)
		if err != nil {
			return fmt.Errorf("count likes: %w", err)
		}
		count, countOK = c, true
		return nil
	})
	g.Go(func() error {
		l, err := p.repo.HasLiked(ctx, visitorID)
		if err != nil {
			return fmt.Errorf("check like: %w", err)
		}
		liked, likedOK = l, true
		return nil
	})
	g.Go(func() error {
		c, err := p.repo.ListComments(ctx)
		if err != nil {
			return fmt.Errorf("list comments: %w", err)
		}
		comments, commentsOK = c, true
		return nil
	})
	err = g.Wait()
	if err != nil {
		p.logger.Error("Error fetching social data", err, "visitor_id", visitorID)
	}

	if p.disposed() {
		return domain.ErrPanelClosed
	}

	p.likeMu.Lock()
	if !p.likePending && p.likeGen == gen {
		state := p.likes.Get()
		if countOK {
			state.Count = count
		}
		if likedOK {
			state.Liked = liked
		}
		p.likes.Set(state)
	}
	p.likeMu.Unlock()
	if commentsOK {
		p.mu.Lock()
		if comments == nil {
			comments = []domain.Comment{}
		}
		p.comments = comments
		p.mu.Unlock()
	}
	return err
}

// Likes returns the like count and the visitor's status.
func (p *Panel) Likes() domain.LikeState {
	return p.likes.Get()
}

// ToggleLike flips the visitor's like immediately and writes it remotely. If
// the write fails the previous count and status are restored. A toggle while
// another is still in flight is rejected with ErrLikeInFlight.
func (p *Panel) ToggleLike(ctx context.Context) (domain.LikeState, error) {
	if !p.beginToggle() {
		return p.likes.Get(), domain.ErrLikeInFlight
	}
	defer p.endToggle()

	ctx, done, err := p.scope(ctx)
	if err != nil {
		return p.likes.Get(), err
	}
	defer done()

	visitorID := p.ids.VisitorID()
	state, err := p.likes.Mutate(ctx,
		func(s domain.LikeState) domain.LikeState {
			if s.Liked {
				s.Count = max(0, s.Count-1)
			} else {
				s.Count++
			}
			s.Liked = !s.Liked
			return s
		},
		func(ctx context.Context, prev domain.LikeState) error {
			if prev.Liked {
				return p.repo.RemoveLike(ctx, visitorID)
			}
			return p.repo.AddLike(ctx, visitorID)
		},
	)
	if err != nil {
		p.logger.Error("Error updating like", err, "visitor_id", visitorID)
		return state, err
	}
	return state, nil
}

// PostComment publishes the trimmed text under the visitor's display name and
// prepends the stored row to the cached list. Blank text is rejected before
// any remote call.
func (p *Panel) PostComment(ctx context.Context, text string) (*domain.Comment, error) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil, domain.ErrBlankComment
	}

	ctx, done, err := p.scope(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	visitorID := p.ids.VisitorID()
	created, err := p.repo.CreateComment(ctx, &domain.Comment{
		UserName:  p.ids.DisplayName(),
		Text:      clean,
		VisitorID: visitorID,
	})
	if err != nil {
		p.logger.Error("Error adding comment", err, "visitor_id", visitorID)
		return nil, err
	}

	if p.disposed() {
		return created, nil
	}
	p.mu.Lock()
	p.comments = append([]domain.Comment{*created}, p.comments...)
	p.mu.Unlock()
	return created, nil
}

// DeleteComment removes one of the visitor's own comments.
func (p *Panel) DeleteComment(ctx context.Context, commentID string) error {
	visitorID := p.ids.VisitorID()

	p.mu.Lock()
	idx := p.indexOf(commentID)
	if idx < 0 {
		p.mu.Unlock()
		return domain.ErrCommentNotFound
	}
	owner := p.comments[idx].VisitorID
	p.mu.Unlock()

	if owner == "" || owner != visitorID {
		return domain.ErrNotCommentOwner
	}

	ctx, done, err := p.scope(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := p.repo.DeleteComment(ctx, commentID, visitorID); err != nil {
		p.logger.Error("Error deleting comment", err, "visitor_id", visitorID, "comment_id", commentID)
		return err
	}

	if p.disposed() {
		return nil
	}
	p.mu.Lock()
	if i := p.indexOf(commentID); i >= 0 {
		p.comments = append(p.comments[:i:i], p.comments[i+1:]...)
	}
	p.mu.Unlock()
	return nil
}

// Comments returns a copy of the cached list, newest first.
func (p *Panel) Comments() []domain.Comment {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Comment, len(p.comments))
	copy(out, p.comments)
	return out
}

// Preview returns the newest comments shown inline: one on desktop, two on mobile.
func (p *Panel) Preview(mobile bool) []CommentView {
	comments := p.Comments()
	n := min(previewSize(mobile), len(comments))
	return p.views(comments[:n])
}

// HasMore reports whether the "read all" action is offered.
func (p *Panel) HasMore(mobile bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.comments) > previewSize(mobile)
}

// Overlay lists every comment with delete affordances for the visitor's own.
func (p *Panel) Overlay() Overlay {
	comments := p.Comments()
	noun := "Thoughts"
	if len(comments) == 1 {
		noun = "Thought"
	}
	return Overlay{
		Heading:  fmt.Sprintf("%d %s shared", len(comments), noun),
		Comments: p.views(comments),
	}
}

// Summary assembles the inline panel.
func (p *Panel) Summary(mobile bool) Summary {
	p.mu.Lock()
	total := len(p.comments)
	loading := p.loading
	p.mu.Unlock()

	return Summary{
		Likes:         p.likes.Get(),
		Loading:       loading,
		Preview:       p.Preview(mobile),
		TotalComments: total,
		HasMore:       total > previewSize(mobile),
		PostingAs:     p.PostingAs(),
	}
}

// PostingAs is the upper-cased "posting as" label.
func (p *Panel) PostingAs() string {
	if p.ids.IsAnonymous() {
		return "ANONYMOUS"
	}
	return cases.Upper(language.Und).String(p.ids.DisplayName())
}

func (p *Panel) views(comments []domain.Comment) []CommentView {
	visitorID := p.ids.VisitorID()
	now := p.now()
	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentView{
			Comment:   c,
			TextHTML:  p.renderText(c.Text),
			TimeLabel: RelativeTime(now, c.CreatedAt),
			CanDelete: c.VisitorID != "" && c.VisitorID == visitorID,
		})
	}
	return out
}

// newCommentPolicy allows only the line breaks renderText inserts.
func newCommentPolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("br")
	return policy
}

// renderText turns plain comment text into HTML that shows it literally.
func (p *Panel) renderText(text string) string {
	escaped := html.EscapeString(text)
	return p.policy.Sanitize(strings.ReplaceAll(escaped, "\n", "<br>"))
}

func (p *Panel) likeGeneration() uint64 {
	p.likeMu.Lock()
	defer p.likeMu.Unlock()
	return p.likeGen
}

func (p *Panel) beginToggle() bool {
	p.likeMu.Lock()
	defer p.likeMu.Unlock()
	if p.likePending {
		return false
	}
	p.likePending = true
	p.likeGen++
	return true
}

func (p *Panel) endToggle() {
	p.likeMu.Lock()
	p.likePending = false
	p.likeMu.Unlock()
}

// indexOf must be called with p.mu held.
func (p *Panel) indexOf(commentID string) int {
	for i, c := range p.comments {
		if c.ID == commentID {
			return i
		}
	}
	return -1
}

func (p *Panel) setLoading(v bool) {
	p.mu.Lock()
	p.loading = v
	p.mu.Unlock()
}

func (p *Panel) disposed() bool {
	return p.ctx.Err() != nil
}

// scope derives a context that ends with either the caller's or the panel's.
func (p *Panel) scope(ctx context.Context) (context.Context, func(), error) {
	if p.disposed() {
		return nil, nil, domain.ErrPanelClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(p.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}, nil
}

func previewSize(mobile bool) int {
	if mobile {
		return MobilePreview
	}
	return DesktopPreview
}
