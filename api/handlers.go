package api

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/layout"
	"github.com/meikuraledutech/roadmap/loader"
	"github.com/meikuraledutech/roadmap/progress"
	"github.com/meikuraledutech/roadmap/render"
	"github.com/meikuraledutech/roadmap/viewer"
)

// fail maps domain errors onto status codes.
func (s *Server) fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, roadmap.ErrRoadmapNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "roadmap not found"})
	case errors.Is(err, roadmap.ErrNodeNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "node not found"})
	case errors.Is(err, viewer.ErrNoMatch):
		return c.Status(404).JSON(fiber.Map{"error": "no match"})
	case errors.Is(err, viewer.ErrHeading):
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, roadmap.ErrCycleDetected):
		return c.Status(422).JSON(fiber.Map{"error": "cycle detected"})
	case errors.Is(err, roadmap.ErrDuplicateNode):
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, roadmap.ErrInvalidStatus):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	s.logger.Error("request error", "path", c.Path(), "error", err)
	return c.Status(500).JSON(fiber.Map{"error": err.Error()})
}

// ── Schema ────────────────────────────────────────────────────────

func (s *Server) createSchema(c fiber.Ctx) error {
	if err := s.store.CreateSchema(c.Context()); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "schema created"})
}

func (s *Server) dropSchema(c fiber.Ctx) error {
	if err := s.store.DropSchema(c.Context()); err != nil {
		return s.fail(c, err)
	}
	s.mu.Lock()
	clear(s.viewers)
	s.mu.Unlock()
	return c.JSON(fiber.Map{"message": "schema dropped"})
}

// ── Roadmaps ──────────────────────────────────────────────────────

// createRoadmap accepts any document the loader understands, JSON or YAML.
// Statuses embedded in the document seed the requesting learner's progress.
func (s *Server) createRoadmap(c fiber.Ctx) error {
	format := loader.JSON
	if strings.Contains(c.Get(fiber.HeaderContentType), "yaml") {
		format = loader.YAML
	}
	doc, err := loader.Decode(bytes.NewReader(c.Body()), format)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	created, err := s.store.CreateRoadmap(c.Context(), doc.Roadmap)
	if err != nil {
		return s.fail(c, err)
	}
	s.forget(created.ID, "")

	user := userID(c)
	for id, st := range doc.Progress {
		if err := s.store.SetProgress(c.Context(), created.ID, user, id, st); err != nil {
			return s.fail(c, err)
		}
	}
	return c.Status(201).JSON(fiber.Map{"roadmap": created, "warnings": doc.Warnings})
}

func (s *Server) listRoadmaps(c fiber.Ctx) error {
	list, err := s.store.ListRoadmaps(c.Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(list)
}

func (s *Server) getRoadmap(c fiber.Ctx) error {
	r, err := s.store.GetRoadmap(c.Context(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	if r == nil {
		return c.Status(404).JSON(fiber.Map{"error": "roadmap not found"})
	}
	return c.JSON(r)
}

func (s *Server) deleteRoadmap(c fiber.Ctx) error {
	id := c.Params("id")
	if err := s.store.DeleteRoadmap(c.Context(), id); err != nil {
		return s.fail(c, err)
	}
	s.forget(id, "")
	return c.SendStatus(204)
}

// ── Layout ────────────────────────────────────────────────────────

// getLayout lays out the roadmap with the learner's current statuses. mode
// picks the engine (auto, tree, phases); collapsed lists nodes to collapse.
func (s *Server) getLayout(c fiber.Ctx) error {
	v, err := s.viewFor(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"mode":     v.Mode().String(),
		"layout":   v.Layout(),
		"statuses": v.Statuses(),
		"progress": v.Progress(),
	})
}

func (s *Server) search(c fiber.Ctx) error {
	v, err := s.viewFor(c)
	if err != nil {
		return s.fail(c, err)
	}
	pos, err := v.Search(c.Query("q"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(pos)
}

func (s *Server) renderSVG(c fiber.Ctx) error {
	return s.render(c, "image/svg+xml", render.SVG)
}

func (s *Server) renderPNG(c fiber.Ctx) error {
	return s.render(c, "image/png", render.PNG)
}

func (s *Server) render(c fiber.Ctx, contentType string, draw func(io.Writer, layout.Result, *roadmap.Roadmap, roadmap.StatusMap) error) error {
	v, err := s.viewFor(c)
	if err != nil {
		return s.fail(c, err)
	}
	var buf bytes.Buffer
	if err := draw(&buf, v.Layout(), v.Document(), v.Statuses()); err != nil {
		return s.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(buf.Bytes())
}

// ── Progress ──────────────────────────────────────────────────────

func (s *Server) progressBody(v *viewer.Viewer) fiber.Map {
	return fiber.Map{
		"summary":  v.Progress(),
		"groups":   v.GroupProgress(),
		"statuses": v.Statuses(),
	}
}

func (s *Server) getProgress(c fiber.Ctx) error {
	v, err := s.viewerFor(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(s.progressBody(v))
}

func (s *Server) resetProgress(c fiber.Ctx) error {
	id, user := c.Params("id"), userID(c)
	if err := s.store.ResetProgress(c.Context(), id, user); err != nil {
		return s.fail(c, err)
	}
	s.forget(id, user)
	return c.SendStatus(204)
}

type gestureRequest struct {
	NodeID  string           `json:"node_id"`
	Gesture progress.Gesture `json:"gesture"`
}

func (s *Server) applyGesture(c fiber.Ctx) error {
	var req gestureRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	v, err := s.viewerFor(c)
	if err != nil {
		return s.fail(c, err)
	}
	tr, err := v.Handle(req.Gesture, req.NodeID)
	if err != nil {
		return s.fail(c, err)
	}
	body := s.progressBody(v)
	body["transition"] = tr
	return c.JSON(body)
}

type statusRequest struct {
	Status roadmap.Status `json:"status"`
}

// setStatus overwrites a status without toggle or lock rules, e.g. to lock a node.
func (s *Server) setStatus(c fiber.Ctx) error {
	var req statusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	v, err := s.viewerFor(c)
	if err != nil {
		return s.fail(c, err)
	}
	if err := v.SetStatus(c.Params("nodeId"), req.Status); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(s.progressBody(v))
}

// getNode returns the detail panel of a node.
func (s *Server) getNode(c fiber.Ctx) error {
	v, err := s.viewerFor(c)
	if err != nil {
		return s.fail(c, err)
	}
	p, err := v.DetailFor(c.Context(), c.Params("nodeId"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(p)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
