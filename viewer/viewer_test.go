package viewer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/layout"
	"github.com/meikuraledutech/roadmap/progress"
	"github.com/meikuraledutech/roadmap/storetest"
)

type call struct {
	NodeID string
	Status roadmap.Status
}

type recordingSink struct {
	mu    sync.Mutex
	calls []call
}

func (s *recordingSink) ProgressUpdated(nodeID string, status roadmap.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{nodeID, status})
}

func (s *recordingSink) Calls() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.calls...)
}

type recordingSurface struct {
	fitted   []layout.Rect
	centered [][2]float64
}

func (s *recordingSurface) FitBounds(r layout.Rect) { s.fitted = append(s.fitted, r) }
func (s *recordingSurface) CenterOn(x, y float64)   { s.centered = append(s.centered, [2]float64{x, y}) }

func TestNew_NilDocument(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestNew_ModeSelection(t *testing.T) {
	v, err := New(storetest.Phased())
	require.NoError(t, err)
	assert.Equal(t, ModePhases, v.Mode())

	v, err = New(storetest.Tree())
	require.NoError(t, err)
	assert.Equal(t, ModeTree, v.Mode())

	v, err = New(storetest.Phased(), WithMode(ModeTree))
	require.NoError(t, err)
	assert.Equal(t, ModeTree, v.Mode())
	_, ok := v.Layout().Find(roadmap.RootID)
	assert.True(t, ok, "flat document gains a synthetic root")
	_, ok = v.Layout().Find("p2")
	assert.True(t, ok)
}

func TestNew_CopiesInputs(t *testing.T) {
	doc := storetest.Phased()
	initial := roadmap.StatusMap{"html": roadmap.StatusCompleted}
	v, err := New(doc, WithInitialProgress(initial))
	require.NoError(t, err)

	doc.Nodes[0].Title = "changed"
	initial["css"] = roadmap.StatusCompleted
	assert.Equal(t, "HTML", v.Document().Nodes[0].Title)
	assert.Equal(t, roadmap.StatusPending, v.Status("css"))
	assert.Equal(t, roadmap.StatusCompleted, v.Status("html"))
}

func TestHandle_NotifiesSink(t *testing.T) {
	sink := &recordingSink{}
	v, err := New(storetest.Phased(), WithSink(sink))
	require.NoError(t, err)

	tr, err := v.Handle(progress.Context, "css")
	require.NoError(t, err)
	assert.Equal(t, roadmap.StatusCompleted, tr.To)

	_, err = v.Handle(progress.Shift, "js")
	require.NoError(t, err)
	_, err = v.Handle(progress.Context, "css")
	require.NoError(t, err)

	assert.Equal(t, []call{
		{"css", roadmap.StatusCompleted},
		{"js", roadmap.StatusInProgress},
		{"css", roadmap.StatusPending},
	}, sink.Calls())
	assert.Equal(t, roadmap.StatusMap{"js": roadmap.StatusInProgress}, v.Statuses())
}

func TestHandle_UnknownNode(t *testing.T) {
	v, err := New(storetest.Phased())
	require.NoError(t, err)
	_, err = v.Handle(progress.Context, "nope")
	assert.ErrorIs(t, err, roadmap.ErrNodeNotFound)
}

func TestHandle_HeadingsCarryNoStatus(t *testing.T) {
	sink := &recordingSink{}
	v, err := New(storetest.Phased(), WithMode(ModeTree), WithSink(sink))
	require.NoError(t, err)

	for _, id := range []string{roadmap.RootID, "p1"} {
		_, err = v.Handle(progress.Context, id)
		assert.ErrorIs(t, err, ErrHeading, id)
		assert.ErrorIs(t, v.SetStatus(id, roadmap.StatusLocked), ErrHeading, id)
	}
	assert.Empty(t, sink.Calls())
	assert.Empty(t, v.Statuses())

	_, err = v.Handle(progress.Primary, "p1")
	require.NoError(t, err)
	sel, _ := v.Selected()
	assert.Equal(t, "p1", sel)
	require.NoError(t, v.Collapse("p1"))

	_, err = v.Handle(progress.Context, "html")
	require.NoError(t, err)
	assert.Equal(t, []call{{"html", roadmap.StatusCompleted}}, sink.Calls())
}

func TestFork_SharesProgressNotState(t *testing.T) {
	sink := &recordingSink{}
	v, err := New(storetest.Phased(), WithSink(sink), WithInitialProgress(roadmap.StatusMap{"html": roadmap.StatusCompleted}))
	require.NoError(t, err)

	f, err := v.Fork(WithMode(ModeTree))
	require.NoError(t, err)
	assert.Equal(t, ModeTree, f.Mode())
	assert.Equal(t, ModePhases, v.Mode())
	assert.Equal(t, v.Statuses(), f.Statuses())
	assert.Equal(t, v.Progress(), f.Progress())

	require.NoError(t, f.Collapse(roadmap.RootID))
	assert.Len(t, f.Layout().Nodes, 1)
	_, err = f.Handle(progress.Context, "css")
	require.NoError(t, err)

	assert.Len(t, v.Layout().Nodes, 5)
	assert.Equal(t, roadmap.StatusPending, v.Status("css"))
	assert.Empty(t, sink.Calls(), "forks do not inherit the sink")

	_, err = v.Handle(progress.Shift, "js")
	require.NoError(t, err)
	f, err = v.Fork()
	require.NoError(t, err)
	assert.Equal(t, ModePhases, f.Mode())
	assert.Equal(t, roadmap.StatusInProgress, f.Status("js"))
}

func TestHandle_PrimarySelects(t *testing.T) {
	sink := &recordingSink{}
	v, err := New(storetest.Phased(), WithSink(sink))
	require.NoError(t, err)

	tr, err := v.Handle(progress.Primary, "react")
	require.NoError(t, err)
	assert.False(t, tr.Changed())
	id, ok := v.Selected()
	assert.True(t, ok)
	assert.Equal(t, "react", id)
	assert.Empty(t, sink.Calls())

	v.Deselect()
	_, ok = v.Selected()
	assert.False(t, ok)
}

func TestHandle_LockedNode(t *testing.T) {
	sink := &recordingSink{}
	v, err := New(storetest.Phased(), WithSink(sink))
	require.NoError(t, err)

	require.NoError(t, v.SetStatus("vue", roadmap.StatusLocked))
	for _, g := range []progress.Gesture{progress.Primary, progress.Context, progress.Shift, progress.Alt, progress.MarkComplete} {
		tr, err := v.Handle(g, "vue")
		require.NoError(t, err)
		assert.False(t, tr.Changed(), g.String())
	}
	_, ok := v.Selected()
	assert.False(t, ok, "locked nodes are not selectable by click")
	assert.Equal(t, []call{{"vue", roadmap.StatusLocked}}, sink.Calls())

	require.NoError(t, v.SetStatus("vue", roadmap.StatusPending))
	assert.Equal(t, roadmap.StatusPending, v.Status("vue"))
	assert.ErrorIs(t, v.SetStatus("ghost", roadmap.StatusLocked), roadmap.ErrNodeNotFound)
}

func TestHandle_PanickingSinkIsReported(t *testing.T) {
	var reported []error
	sink := progress.SinkFunc(func(string, roadmap.Status) { panic("disk full") })
	v, err := New(storetest.Phased(),
		WithSink(sink),
		WithNotifier(NotifierFunc(func(err error) { reported = append(reported, err) })),
	)
	require.NoError(t, err)

	_, err = v.Handle(progress.Context, "html")
	require.NoError(t, err)
	assert.Equal(t, roadmap.StatusCompleted, v.Status("html"), "local change is kept")
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0].Error(), "disk full")
}

func TestProgress(t *testing.T) {
	v, err := New(storetest.Phased(), WithInitialProgress(roadmap.StatusMap{
		"html": roadmap.StatusCompleted,
		"js":   roadmap.StatusInProgress,
	}))
	require.NoError(t, err)

	assert.Equal(t, progress.Summary{Total: 5, Done: 1, Learning: 1, Percentage: 20}, v.Progress())
	groups := v.GroupProgress()
	require.Len(t, groups, 2)
	assert.Equal(t, "p1", groups[0].GroupID)
	assert.Equal(t, 33, groups[0].Percentage)
	assert.Equal(t, 0, groups[1].Percentage)
}

func TestLayout_StatusDoesNotMoveNodes(t *testing.T) {
	v, err := New(storetest.Phased())
	require.NoError(t, err)
	before := v.Layout()
	_, err = v.Handle(progress.Context, "css")
	require.NoError(t, err)
	assert.Equal(t, before, v.Layout())
}

func TestExpansion(t *testing.T) {
	v, err := New(storetest.Tree())
	require.NoError(t, err)
	assert.Len(t, v.Layout().Nodes, 5)
	assert.Equal(t, []string{"be", "db", "go", "lang", "python"}, v.Expanded())

	require.NoError(t, v.Collapse("lang"))
	assert.Len(t, v.Layout().Nodes, 3)

	now, err := v.ToggleExpand("lang")
	require.NoError(t, err)
	assert.True(t, now)
	assert.Len(t, v.Layout().Nodes, 5)

	v.CollapseAll()
	assert.Equal(t, []string{"be"}, v.Expanded())
	assert.Len(t, v.Layout().Nodes, 3)

	v.ExpandAll()
	assert.Len(t, v.Layout().Nodes, 5)

	assert.ErrorIs(t, v.Expand("ghost"), roadmap.ErrNodeNotFound)
	_, err = v.ToggleExpand("ghost")
	assert.ErrorIs(t, err, roadmap.ErrNodeNotFound)
}

func TestWithExpanded(t *testing.T) {
	v, err := New(storetest.Tree(), WithExpanded("be"))
	require.NoError(t, err)
	assert.Len(t, v.Layout().Nodes, 3)
}

func TestSearch_RevealsAndCentres(t *testing.T) {
	surface := &recordingSurface{}
	v, err := New(storetest.Tree(), WithSurface(surface))
	require.NoError(t, err)
	v.CollapseAll()

	pos, err := v.Search("  PYTH ")
	require.NoError(t, err)
	assert.Equal(t, "python", pos.ID)
	assert.Contains(t, v.Expanded(), "lang")
	assert.Len(t, v.Layout().Nodes, 5)

	cx, cy := pos.Center()
	assert.Equal(t, [][2]float64{{cx, cy}}, surface.centered)
}

func TestSearch_NoMatch(t *testing.T) {
	v, err := New(storetest.Phased())
	require.NoError(t, err)

	_, err = v.Search("cobol")
	assert.ErrorIs(t, err, ErrNoMatch)
	_, err = v.Search("   ")
	assert.ErrorIs(t, err, ErrNoMatch)

	pos, err := v.Search("script")
	require.NoError(t, err)
	assert.Equal(t, "js", pos.ID)
}

func TestFitView(t *testing.T) {
	surface := &recordingSurface{}
	v, err := New(storetest.Phased(), WithSurface(surface))
	require.NoError(t, err)

	v.FitView()
	require.Len(t, surface.fitted, 1)
	assert.Equal(t, v.Layout().Bounds(), surface.fitted[0])

	bare, err := New(storetest.Phased())
	require.NoError(t, err)
	bare.FitView()
}

func TestDetail(t *testing.T) {
	sink := &recordingSink{}
	v, err := New(storetest.Phased(), WithSink(sink))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = v.Detail(ctx)
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = v.Handle(progress.Primary, "react")
	require.NoError(t, err)
	p, err := v.Detail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "React", p.Title)
	assert.Equal(t, roadmap.StatusPending, p.Status)
	assert.Contains(t, p.Links.Google, "react%20hooks")

	tr, err := p.MarkComplete()
	require.NoError(t, err)
	assert.Equal(t, roadmap.StatusCompleted, tr.To)
	assert.Equal(t, roadmap.StatusCompleted, v.Status("react"))
	assert.Equal(t, []call{{"react", roadmap.StatusCompleted}}, sink.Calls())

	p, err = v.DetailFor(ctx, "html")
	require.NoError(t, err)
	assert.Equal(t, "HTML", p.Title)
	_, err = v.DetailFor(ctx, "ghost")
	assert.ErrorIs(t, err, roadmap.ErrNodeNotFound)
}

func TestConcurrentGestures(t *testing.T) {
	sink := &recordingSink{}
	v, err := New(storetest.Phased(), WithSink(sink))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = v.Handle(progress.Context, "html")
			_ = v.Layout()
			_ = v.Progress()
		}()
	}
	wg.Wait()
	assert.Len(t, sink.Calls(), 50)
	assert.Equal(t, roadmap.StatusPending, v.Status("html"), "an even number of toggles")
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeTree, ParseMode("tree"))
	assert.Equal(t, ModePhases, ParseMode("phases"))
	assert.Equal(t, ModeAuto, ParseMode(""))
	assert.Equal(t, "phases", ModePhases.String())
}

func TestProperty_SinkMirrorsStatuses(t *testing.T) {
	ids := storetest.Phased().NodeIDs()
	gestures := []progress.Gesture{
		progress.Primary, progress.Context, progress.Shift,
		progress.Alt, progress.MarkComplete, progress.Checkbox,
	}
	rapid.Check(t, func(t *rapid.T) {
		sink := &recordingSink{}
		v, err := New(storetest.Phased(), WithSink(sink))
		if err != nil {
			t.Fatal(err)
		}
		changes := 0
		steps := rapid.IntRange(0, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			id := rapid.SampledFrom(ids).Draw(t, "id")
			if rapid.IntRange(0, 9).Draw(t, "lock") == 0 {
				s := rapid.SampledFrom([]roadmap.Status{roadmap.StatusLocked, roadmap.StatusPending}).Draw(t, "set")
				before := v.Status(id)
				if err := v.SetStatus(id, s); err != nil {
					t.Fatal(err)
				}
				if before != s {
					changes++
				}
				continue
			}
			tr, err := v.Handle(rapid.SampledFrom(gestures).Draw(t, "gesture"), id)
			if err != nil {
				t.Fatal(err)
			}
			if tr.Changed() {
				changes++
			}
		}

		calls := sink.Calls()
		if len(calls) != changes {
			t.Fatalf("sink saw %d changes, want %d", len(calls), changes)
		}
		last := roadmap.StatusMap{}
		for _, c := range calls {
			if c.Status == roadmap.StatusPending {
				delete(last, c.NodeID)
			} else {
				last[c.NodeID] = c.Status
			}
		}
		if !assert.ObjectsAreEqual(last, v.Statuses()) {
			t.Fatalf("sink replay %v differs from viewer %v", last, v.Statuses())
		}
	})
}

var errBoom = errors.New("boom")
