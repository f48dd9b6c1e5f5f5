// Package api exposes roadmaps, layouts and learner progress over HTTP.
package api

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/detail"
	"github.com/meikuraledutech/roadmap/layout"
	"github.com/meikuraledutech/roadmap/loader"
	"github.com/meikuraledutech/roadmap/viewer"
)

// UserHeader carries the learner id. Requests without it act as DefaultUser.
const (
	UserHeader  = "X-User-ID"
	DefaultUser = "anonymous"
)

// SinkFactory returns the progress sink for one learner on one roadmap.
type SinkFactory func(roadmapID, userID string) viewer.Sink

type viewerKey struct {
	roadmapID string
	userID    string
}

// Server holds one viewer per learner and roadmap, the single owner of that
// learner's statuses. Every progress change goes through it and on to its
// sink; layouts under other engines or expansions are forked from it per
// request.
type Server struct {
	store  roadmap.Store
	logger *slog.Logger
	sinks  SinkFactory
	rec    detail.Recommender
	layout layout.Options

	mu      sync.Mutex
	viewers map[viewerKey]*viewer.Viewer

	app *fiber.App
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithSinks replaces the default sink, which writes to the store synchronously.
func WithSinks(f SinkFactory) Option {
	return func(s *Server) { s.sinks = f }
}

func WithRecommender(r detail.Recommender) Option {
	return func(s *Server) { s.rec = r }
}

func WithLayout(o layout.Options) Option {
	return func(s *Server) { s.layout = o }
}

// New builds the server and registers every route.
func New(store roadmap.Store, opts ...Option) *Server {
	s := &Server{
		store:   store,
		logger:  slog.Default(),
		layout:  layout.DefaultOptions(),
		viewers: make(map[viewerKey]*viewer.Viewer),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sinks == nil {
		s.sinks = s.storeSink
	}

	s.app = fiber.New(fiber.Config{
		AppName:     "roadmap",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	s.app.Use(recoverer.New())
	s.app.Use(requestLogger(s.logger))
	s.routes()
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	s.app.Post("/schema", s.createSchema)
	s.app.Delete("/schema", s.dropSchema)

	s.app.Post("/roadmaps", s.createRoadmap)
	s.app.Get("/roadmaps", s.listRoadmaps)
	s.app.Get("/roadmaps/:id", s.getRoadmap)
	s.app.Delete("/roadmaps/:id", s.deleteRoadmap)

	s.app.Get("/roadmaps/:id/layout", s.getLayout)
	s.app.Get("/roadmaps/:id/search", s.search)
	s.app.Get("/roadmaps/:id/render.svg", s.renderSVG)
	s.app.Get("/roadmaps/:id/render.png", s.renderPNG)

	s.app.Get("/roadmaps/:id/progress", s.getProgress)
	s.app.Delete("/roadmaps/:id/progress", s.resetProgress)
	s.app.Post("/roadmaps/:id/gestures", s.applyGesture)
	s.app.Get("/roadmaps/:id/nodes/:nodeId", s.getNode)
	s.app.Put("/roadmaps/:id/nodes/:nodeId/status", s.setStatus)
}

func userID(c fiber.Ctx) string {
	if u := strings.TrimSpace(c.Get(UserHeader)); u != "" {
		return u
	}
	return DefaultUser
}

// viewerFor returns the cached viewer of the requesting learner, loading the
// roadmap and progress on first use.
func (s *Server) viewerFor(c fiber.Ctx) (*viewer.Viewer, error) {
	key := viewerKey{roadmapID: c.Params("id"), userID: userID(c)}
	s.mu.Lock()
	v, ok := s.viewers[key]
	s.mu.Unlock()
	if ok {
		return v, nil
	}

	src := loader.StoreLoader{Store: s.store, UserID: key.userID}
	session := viewer.NewSession(src, src,
		viewer.WithLayout(s.layout),
		viewer.WithRecommender(s.rec),
		viewer.WithSink(s.sinks(key.roadmapID, key.userID)),
		viewer.WithNotifier(viewer.NotifierFunc(func(err error) {
			s.logger.Warn("viewer error", "roadmap", key.roadmapID, "user", key.userID, "error", err)
		})),
	)
	v, err := session.Load(c.Context(), key.roadmapID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.viewers[key]; ok {
		return existing, nil
	}
	s.viewers[key] = v
	return v, nil
}

// viewFor forks the learner's viewer for one read: ?mode= picks the engine
// and ?collapsed=, a comma separated id list, collapses those nodes with every
// other one expanded. The cached viewer is left untouched.
func (s *Server) viewFor(c fiber.Ctx) (*viewer.Viewer, error) {
	v, err := s.viewerFor(c)
	if err != nil {
		return nil, err
	}
	view, err := v.Fork(viewer.WithMode(viewer.ParseMode(c.Query("mode"))))
	if err != nil {
		return nil, err
	}
	for _, id := range splitList(c.Query("collapsed")) {
		if err := view.Collapse(id); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// forget drops cached viewers of a roadmap, or of one learner when userID is set.
func (s *Server) forget(roadmapID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.viewers {
		if k.roadmapID == roadmapID && (userID == "" || k.userID == userID) {
			delete(s.viewers, k)
		}
	}
}

func (s *Server) storeSink(roadmapID, userID string) viewer.Sink {
	return sinkFunc(func(nodeID string, status roadmap.Status) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.SetProgress(ctx, roadmapID, userID, nodeID, status); err != nil {
			s.logger.Error("failed to persist progress", "roadmap", roadmapID, "user", userID, "node", nodeID, "error", err)
		}
	})
}

type sinkFunc func(nodeID string, status roadmap.Status)

func (f sinkFunc) ProgressUpdated(nodeID string, status roadmap.Status) { f(nodeID, status) }

// requestLogger logs method, path, status and duration of every request.
func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
		}
		if err != nil {
			logger.Error("request failed", append(attrs, "error", err)...)
		} else {
			logger.Info("request completed", attrs...)
		}
		return err
	}
}
