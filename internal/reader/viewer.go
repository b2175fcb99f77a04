// Package reader implements the paginated document viewer: open/close state,
// page turning in single pages or spreads, zoom, touch gestures and persisted
// reading progress.
package reader

import (
	"context"
	"math"
	"sync"

	"novel-reader/internal/domain"
)

// Zoom limits, relative to the page's base size.
const (
	MinScale  = 0.2
	MaxScale  = 1.5
	ZoomStep  = 0.1
	FirstPage = 1
)

// NarrowBreakpoint is the viewport width, in CSS pixels, below which pages
// are shown one at a time.
const NarrowBreakpoint = 768

// IsNarrow reports whether a viewport of the given width uses single pages.
func IsNarrow(width int) bool {
	return width < NarrowBreakpoint
}

// State is the viewer lifecycle state.
type State int

const (
	StateClosed State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "closed"
	}
}

// Direction records which way the last page turn went. It only drives the
// page-flip transition.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// Snapshot is a consistent copy of the viewer state.
type Snapshot struct {
	State        string    `json:"state"`
	CurrentPage  int       `json:"current_page"`
	TotalPages   int       `json:"total_pages"`
	VisiblePages []int     `json:"visible_pages"`
	Scale        float64   `json:"scale"`
	Narrow       bool      `json:"narrow"`
	Direction    Direction `json:"direction"`
	CanPrev      bool      `json:"can_prev"`
	CanNext      bool      `json:"can_next"`
	Percent      *int      `json:"percent,omitempty"`
	Gesture      string    `json:"gesture"`
}

// Viewer is the document reader state machine. It is safe for concurrent use.
type Viewer struct {
	source   domain.DocumentSource
	progress *ProgressStore
	logger   domain.Logger

	mu        sync.Mutex
	state     State
	current   int
	total     int
	scale     float64
	narrow    bool
	direction Direction
	gesture   GestureTracker
}

// NewViewer creates a closed viewer.
func NewViewer(source domain.DocumentSource, progress *ProgressStore, logger domain.Logger) *Viewer {
	return &Viewer{
		source:    source,
		progress:  progress,
		logger:    logger,
		current:   FirstPage,
		scale:     MinScale,
		direction: Forward,
	}
}

// Open moves closed -> loading, resets zoom and restores the saved page.
// Opening an already open viewer keeps its state.
func (v *Viewer) Open() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != StateClosed {
		return
	}
	v.state = StateLoading
	v.scale = MinScale
	v.total = 0
	v.direction = Forward
	v.gesture.Reset()

	v.current = FirstPage
	if saved := v.progress.Load(); saved.CurrentPage > 0 {
		v.current = saved.CurrentPage
	}
}

// Load asks the document source for its page count and completes the
// transition to ready. On failure the viewer stays in loading.
func (v *Viewer) Load(ctx context.Context) error {
	if v.State() != StateLoading {
		return nil
	}
	pages, err := v.source.PageCount(ctx)
	if err != nil {
		v.logger.Error("Failed to load document", err, "path", v.source.Path())
		return err
	}
	return v.Loaded(pages)
}

// Loaded records the page count: loading -> ready.
func (v *Viewer) Loaded(numPages int) error {
	if numPages < 1 {
		return &domain.ValidationError{Field: "num_pages", Message: "document has no pages"}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != StateLoading {
		return nil
	}
	v.total = numPages
	v.state = StateReady
	v.progress.SaveTotalPages(numPages)

	if v.current > numPages {
		v.current = numPages
	}
	v.progress.SavePage(v.current)
	return nil
}

// Close moves any state to closed. Saved progress is kept.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = StateClosed
	v.gesture.Reset()
}

// Next turns forward by one page (narrow) or one spread (wide). It reports
// whether the page changed.
func (v *Viewer) Next() (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.next()
}

// Prev turns backward by one page (narrow) or one spread (wide).
func (v *Viewer) Prev() (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.prev()
}

// GoTo jumps to a page within the document.
func (v *Viewer) GoTo(page int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != StateReady {
		return domain.ErrNotReady
	}
	if page < FirstPage || page > v.total {
		return domain.ErrPageOutOfRange
	}
	if page < v.current {
		v.direction = Backward
	} else if page > v.current {
		v.direction = Forward
	}
	v.setPage(page)
	return nil
}

// CanPrev reports whether the previous control is enabled.
func (v *Viewer) CanPrev() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.canPrev()
}

// CanNext reports whether the next control is enabled.
func (v *Viewer) CanNext() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.canNext()
}

// SetNarrow switches between single-page and spread layout.
func (v *Viewer) SetNarrow(narrow bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.narrow = narrow
}

// ZoomIn steps the scale up.
func (v *Viewer) ZoomIn() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scale = clampScale(v.scale + ZoomStep)
	return v.scale
}

// ZoomOut steps the scale down.
func (v *Viewer) ZoomOut() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scale = clampScale(v.scale - ZoomStep)
	return v.scale
}

// HandleTouch feeds one touch event through the gesture tracker and applies
// the resulting page turn or zoom.
func (v *Viewer) HandleTouch(ev TouchEvent) (Action, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state == StateClosed {
		return Action{}, domain.ErrNotReady
	}

	action := v.gesture.Handle(ev, v.scale)
	switch action.Kind {
	case ActionNext:
		if _, err := v.next(); err != nil {
			return action, err
		}
	case ActionPrev:
		if _, err := v.prev(); err != nil {
			return action, err
		}
	case ActionZoom:
		v.scale = action.Scale
	}
	return action, nil
}

// State returns the lifecycle state.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// CurrentPage returns the current (left-hand) page.
func (v *Viewer) CurrentPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Scale returns the zoom scale.
func (v *Viewer) Scale() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scale
}

// Percent returns the read percentage; ok is false until the page count is known.
func (v *Viewer) Percent() (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return domain.ReadPercent(v.current, v.total)
}

// VisiblePages lists the pages on screen: one when narrow, a spread when wide.
func (v *Viewer) VisiblePages() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visiblePages()
}

// Snapshot returns a copy of the full state.
func (v *Viewer) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot{
		State:        v.state.String(),
		CurrentPage:  v.current,
		TotalPages:   v.total,
		VisiblePages: v.visiblePages(),
		Scale:        v.scale,
		Narrow:       v.narrow,
		Direction:    v.direction,
		CanPrev:      v.canPrev(),
		CanNext:      v.canNext(),
		Gesture:      v.gesture.State().String(),
	}
	if pct, ok := domain.ReadPercent(v.current, v.total); ok {
		snap.Percent = &pct
	}
	return snap
}

func (v *Viewer) step() int {
	if v.narrow {
		return 1
	}
	return 2
}

func (v *Viewer) next() (bool, error) {
	if v.state != StateReady {
		return false, domain.ErrNotReady
	}
	if !v.canNext() {
		return false, nil
	}
	v.direction = Forward
	v.setPage(min(v.total, v.current+v.step()))
	return true, nil
}

func (v *Viewer) prev() (bool, error) {
	if v.state != StateReady {
		return false, domain.ErrNotReady
	}
	if !v.canPrev() {
		return false, nil
	}
	v.direction = Backward
	v.setPage(max(FirstPage, v.current-v.step()))
	return true, nil
}

func (v *Viewer) canPrev() bool {
	return v.state == StateReady && v.current > FirstPage
}

func (v *Viewer) canNext() bool {
	return v.state == StateReady && v.current < v.total
}

func (v *Viewer) setPage(page int) {
	v.current = page
	v.progress.SavePage(page)
}

func (v *Viewer) visiblePages() []int {
	if v.state != StateReady {
		return []int{}
	}
	pages := []int{v.current}
	if !v.narrow && v.current+1 <= v.total {
		pages = append(pages, v.current+1)
	}
	return pages
}

// clampScale bounds s to [MinScale, MaxScale] and trims float noise from
// repeated 0.1 steps.
func clampScale(s float64) float64 {
	s = math.Round(s*1000) / 1000
	return math.Max(MinScale, math.Min(MaxScale, s))
}
