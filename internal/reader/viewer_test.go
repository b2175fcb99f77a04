package reader

import (
	"context"
	"errors"
	"testing"

	"novel-reader/internal/domain"
	"novel-reader/internal/identity"
	"novel-reader/internal/storage"
	"novel-reader/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	pages int
	err   error
}

func (f *fakeSource) Path() string { return "novel.pdf" }

func (f *fakeSource) PageCount(ctx context.Context) (int, error) {
	return f.pages, f.err
}

func (f *fakeSource) RenderPage(ctx context.Context, page int, scale float64) ([]byte, error) {
	return nil, errors.New("not implemented")
}

type fixture struct {
	kv     *storage.MemoryStore
	ids    *identity.Store
	source *fakeSource
}

func newFixture(pages int) *fixture {
	kv := storage.NewMemoryStore()
	return &fixture{
		kv:     kv,
		ids:    identity.NewStore(kv, logger.NewNop()),
		source: &fakeSource{pages: pages},
	}
}

func (f *fixture) viewer() *Viewer {
	progress := NewProgressStore(f.kv, f.ids, logger.NewNop())
	return NewViewer(f.source, progress, logger.NewNop())
}

func openReady(t *testing.T, v *Viewer) {
	t.Helper()
	v.Open()
	require.NoError(t, v.Load(context.Background()))
	require.Equal(t, StateReady, v.State())
}

func TestViewer_OpenDefaults(t *testing.T) {
	f := newFixture(10)
	v := f.viewer()
	assert.Equal(t, StateClosed, v.State())

	v.Open()
	assert.Equal(t, StateLoading, v.State())
	assert.Equal(t, 1, v.CurrentPage())
	assert.Equal(t, MinScale, v.Scale())
	_, ok := v.Percent()
	assert.False(t, ok, "no percentage before the page count is known")

	_, err := v.Next()
	assert.ErrorIs(t, err, domain.ErrNotReady)

	require.NoError(t, v.Load(context.Background()))
	assert.Equal(t, StateReady, v.State())
	assert.Equal(t, 10, f.viewer().progress.Load().TotalPages)
}

func TestViewer_MobileSwipeScenario(t *testing.T) {
	f := newFixture(12)
	v := f.viewer()
	v.SetNarrow(true)
	openReady(t, v)

	swipeLeft := func() {
		_, err := v.HandleTouch(TouchEvent{Phase: TouchStart, Touches: []Point{{X: 300, Y: 100}}})
		require.NoError(t, err)
		_, err = v.HandleTouch(TouchEvent{Phase: TouchMove, Touches: []Point{{X: 200, Y: 105}}})
		require.NoError(t, err)
		action, err := v.HandleTouch(TouchEvent{Phase: TouchEnd})
		require.NoError(t, err)
		assert.Equal(t, ActionNext, action.Kind)
	}
	swipeLeft()
	swipeLeft()
	assert.Equal(t, 3, v.CurrentPage())

	v.Close()

	// reopening later restores the page
	again := f.viewer()
	again.Open()
	assert.Equal(t, 3, again.CurrentPage())
	assert.Equal(t, MinScale, again.Scale())
}

func TestViewer_StepSizeAndClamp(t *testing.T) {
	t.Run("wide layout turns spreads", func(t *testing.T) {
		v := newFixture(5).viewer()
		openReady(t, v)

		for _, want := range []int{3, 5} {
			moved, err := v.Next()
			require.NoError(t, err)
			assert.True(t, moved)
			assert.Equal(t, want, v.CurrentPage())
		}
		moved, err := v.Next()
		require.NoError(t, err)
		assert.False(t, moved)
		assert.False(t, v.CanNext())
		assert.Equal(t, 5, v.CurrentPage())

		for _, want := range []int{3, 1} {
			_, err := v.Prev()
			require.NoError(t, err)
			assert.Equal(t, want, v.CurrentPage())
		}
		assert.False(t, v.CanPrev())
	})

	t.Run("wide step clamps to the last page", func(t *testing.T) {
		v := newFixture(4).viewer()
		openReady(t, v)
		_, _ = v.Next()
		_, _ = v.Next()
		assert.Equal(t, 4, v.CurrentPage())
		assert.Equal(t, []int{4}, v.VisiblePages())
	})

	t.Run("narrow layout turns single pages", func(t *testing.T) {
		v := newFixture(3).viewer()
		v.SetNarrow(true)
		openReady(t, v)
		for i := 0; i < 10; i++ {
			_, err := v.Next()
			require.NoError(t, err)
			assert.LessOrEqual(t, v.CurrentPage(), 3)
		}
		assert.Equal(t, 3, v.CurrentPage())
		for i := 0; i < 10; i++ {
			_, _ = v.Prev()
			assert.GreaterOrEqual(t, v.CurrentPage(), 1)
		}
		assert.Equal(t, 1, v.CurrentPage())
	})
}

func TestViewer_RestoredPageClampedToTotal(t *testing.T) {
	f := newFixture(4)
	require.NoError(t, f.kv.Set(f.ids.ProgressKey(), "2:9"))

	v := f.viewer()
	v.Open()
	assert.Equal(t, 9, v.CurrentPage())
	require.NoError(t, v.Load(context.Background()))
	assert.Equal(t, 4, v.CurrentPage())

	pct, ok := v.Percent()
	assert.True(t, ok)
	assert.Equal(t, 100, pct)
}

func TestViewer_LoadFailureStaysLoading(t *testing.T) {
	f := newFixture(0)
	f.source.err = errors.New("404")
	v := f.viewer()

	v.Open()
	assert.Error(t, v.Load(context.Background()))
	assert.Equal(t, StateLoading, v.State())
	assert.Empty(t, v.VisiblePages())

	snap := v.Snapshot()
	assert.Equal(t, "loading", snap.State)
	assert.Nil(t, snap.Percent)
}

func TestViewer_Zoom(t *testing.T) {
	v := newFixture(3).viewer()
	openReady(t, v)

	assert.Equal(t, MinScale, v.ZoomOut())
	assert.InDelta(t, 0.3, v.ZoomIn(), 1e-9)
	for i := 0; i < 20; i++ {
		v.ZoomIn()
	}
	assert.Equal(t, MaxScale, v.Scale())
}

func TestViewer_PinchZoom(t *testing.T) {
	v := newFixture(3).viewer()
	openReady(t, v)
	for i := 0; i < 3; i++ {
		v.ZoomIn()
	}
	require.InDelta(t, 0.5, v.Scale(), 1e-9)

	_, err := v.HandleTouch(TouchEvent{Phase: TouchStart, Touches: []Point{{X: 100, Y: 100}, {X: 200, Y: 100}}})
	require.NoError(t, err)

	action, err := v.HandleTouch(TouchEvent{Phase: TouchMove, Touches: []Point{{X: 50, Y: 100}, {X: 250, Y: 100}}})
	require.NoError(t, err)
	assert.Equal(t, ActionZoom, action.Kind)
	assert.InDelta(t, 1.0, v.Scale(), 1e-9)

	_, _ = v.HandleTouch(TouchEvent{Phase: TouchMove, Touches: []Point{{X: 0, Y: 100}, {X: 1000, Y: 100}}})
	assert.Equal(t, MaxScale, v.Scale())

	_, _ = v.HandleTouch(TouchEvent{Phase: TouchMove, Touches: []Point{{X: 149, Y: 100}, {X: 151, Y: 100}}})
	assert.Equal(t, MinScale, v.Scale())

	action, _ = v.HandleTouch(TouchEvent{Phase: TouchEnd})
	assert.Equal(t, ActionNone, action.Kind)
	assert.Equal(t, 1, v.CurrentPage())
}

func TestViewer_TouchWhileClosed(t *testing.T) {
	v := newFixture(3).viewer()
	_, err := v.HandleTouch(TouchEvent{Phase: TouchStart, Touches: []Point{{X: 1}}})
	assert.ErrorIs(t, err, domain.ErrNotReady)
}

func TestViewer_GoTo(t *testing.T) {
	v := newFixture(8).viewer()
	openReady(t, v)

	require.NoError(t, v.GoTo(6))
	assert.Equal(t, Forward, v.Snapshot().Direction)
	require.NoError(t, v.GoTo(2))
	assert.Equal(t, Backward, v.Snapshot().Direction)
	assert.ErrorIs(t, v.GoTo(9), domain.ErrPageOutOfRange)
	assert.ErrorIs(t, v.GoTo(0), domain.ErrPageOutOfRange)
}

func TestViewer_PercentAfterEveryTurn(t *testing.T) {
	v := newFixture(7).viewer()
	v.SetNarrow(true)
	openReady(t, v)

	for {
		pct, ok := v.Percent()
		require.True(t, ok)
		want, _ := domain.ReadPercent(v.CurrentPage(), 7)
		assert.Equal(t, want, pct)
		moved, err := v.Next()
		require.NoError(t, err)
		if !moved {
			break
		}
	}
	pct, _ := v.Percent()
	assert.Equal(t, 100, pct)
}

func TestViewer_Landing(t *testing.T) {
	f := newFixture(10)
	v := f.viewer()

	l := v.Landing()
	assert.Equal(t, LabelBegin, l.ButtonLabel)
	assert.Nil(t, l.Percent)

	v.SetNarrow(true)
	openReady(t, v)
	_, _ = v.Next()
	_, _ = v.Next()
	v.Close()

	l = v.Landing()
	assert.Equal(t, LabelContinue, l.ButtonLabel)
	require.NotNil(t, l.Percent)
	assert.Equal(t, 30, *l.Percent)
}
