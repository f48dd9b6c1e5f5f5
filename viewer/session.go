package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/meikuraledutech/roadmap"
)

// ErrSuperseded is returned by a load that finished after a newer one started.
var ErrSuperseded = errors.New("viewer: load superseded by a newer request")

// Session switches one surface between roadmaps. Each Load fetches the
// document and the learner's progress concurrently; when loads overlap the
// most recently started one wins and older results are discarded.
type Session struct {
	docs     DocumentLoader
	progress ProgressLoader
	opts     []Option

	mu        sync.Mutex
	seq       uint64
	current   *Viewer
	currentID string
}

// NewSession returns a session. progress may be nil, in which case every
// roadmap opens with all nodes pending.
func NewSession(docs DocumentLoader, progress ProgressLoader, opts ...Option) *Session {
	return &Session{docs: docs, progress: progress, opts: opts}
}

// Load opens roadmapID. A progress failure degrades to an empty status map;
// a document failure leaves the session without a viewer.
func (s *Session) Load(ctx context.Context, roadmapID string) (*Viewer, error) {
	s.mu.Lock()
	s.seq++
	ticket := s.seq
	s.mu.Unlock()

	var (
		doc      *roadmap.Roadmap
		statuses roadmap.StatusMap
		progErr  error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.docs.LoadDocument(gctx, roadmapID)
		if err != nil {
			return fmt.Errorf("viewer: load roadmap %s: %w", roadmapID, err)
		}
		if d == nil {
			return fmt.Errorf("viewer: load roadmap %s: %w", roadmapID, ErrNoDocument)
		}
		doc = d
		return nil
	})
	if s.progress != nil {
		g.Go(func() error {
			m, err := s.progress.LoadProgress(gctx, roadmapID)
			if err != nil {
				progErr = fmt.Errorf("viewer: load progress for %s: %w", roadmapID, err)
				return nil
			}
			statuses = m
			return nil
		})
	}
	err := g.Wait()

	var v *Viewer
	if err == nil {
		opts := append(append([]Option(nil), s.opts...), WithInitialProgress(statuses))
		v, err = New(doc, opts...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.seq {
		return nil, ErrSuperseded
	}
	if err != nil {
		s.current, s.currentID = nil, ""
		return nil, err
	}
	s.current, s.currentID = v, roadmapID
	if progErr != nil {
		v.notify(progErr)
	}
	return v, nil
}

// Current returns the viewer of the latest successful load, if any.
func (s *Session) Current() (*Viewer, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.currentID
}
