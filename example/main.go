package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/layout"
	"github.com/meikuraledutech/roadmap/loader"
	"github.com/meikuraledutech/roadmap/memory"
	"github.com/meikuraledutech/roadmap/postgres"
	"github.com/meikuraledutech/roadmap/progress"
	"github.com/meikuraledutech/roadmap/render"
	"github.com/meikuraledutech/roadmap/viewer"
)

const userID = "learner-1"

func main() {
	ctx := context.Background()

	// Postgres when ROADMAP_DATABASE_URL is set, in-memory otherwise.
	var store roadmap.Store = memory.New()
	if dbURL := os.Getenv("ROADMAP_DATABASE_URL"); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			log.Fatalf("connect: %v", err)
		}
		defer pool.Close()
		store = postgres.New(pool)
	}

	// 1. Create tables
	if err := store.CreateSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	fmt.Println("schema created")

	// ── Save a generated roadmap ──────────────────────────────────────
	doc := &roadmap.Roadmap{
		ID:    "frontend",
		Title: "Frontend Developer",
		Phases: []roadmap.Group{
			{ID: "p1", Title: "Basics", Order: 1},
			{ID: "p2", Title: "Frameworks", Order: 2},
		},
		Nodes: []roadmap.Node{
			{ID: "html", Title: "HTML", PhaseID: "p1", Keywords: []string{"html", "semantics"}},
			{ID: "css", Title: "CSS", PhaseID: "p1", Keywords: []string{"css", "flexbox"}},
			{ID: "js", Title: "JavaScript", PhaseID: "p1", EstimatedHours: 40},
			{ID: "react", Title: "React", PhaseID: "p2", Keywords: []string{"react", "hooks"}},
			{ID: "vue", Title: "Vue", PhaseID: "p2", Type: roadmap.TypeAlternative},
		},
		Edges: []roadmap.Edge{
			{Source: "html", Target: "css"},
			{Source: "css", Target: "js"},
			{Source: "js", Target: "react"},
			{Source: "js", Target: "vue"},
		},
	}
	created, err := store.CreateRoadmap(ctx, doc)
	if err != nil {
		log.Fatalf("create roadmap: %v", err)
	}
	fmt.Printf("roadmap created with %d nodes\n", len(created.Nodes))

	// ── Open it for one learner ───────────────────────────────────────
	src := loader.StoreLoader{Store: store, UserID: userID}
	session := viewer.NewSession(src, src,
		viewer.WithSink(progress.SinkFunc(func(nodeID string, status roadmap.Status) {
			if err := store.SetProgress(ctx, created.ID, userID, nodeID, status); err != nil {
				log.Printf("persist %s: %v", nodeID, err)
			}
		})),
	)
	v, err := session.Load(ctx, created.ID)
	if err != nil {
		log.Fatalf("load: %v", err)
	}

	// ── Gestures ──────────────────────────────────────────────────────
	for _, step := range []struct {
		gesture progress.Gesture
		node    string
	}{
		{progress.Context, "html"},
		{progress.Shift, "css"},
		{progress.Alt, "vue"},
	} {
		tr, err := v.Handle(step.gesture, step.node)
		if err != nil {
			log.Fatalf("gesture: %v", err)
		}
		fmt.Printf("%s on %s: %s -> %s\n", step.gesture, step.node, tr.From, tr.To)
	}
	fmt.Println("\nprogress:")
	printJSON(v.Progress())
	printJSON(v.GroupProgress())

	stored, err := store.GetProgress(ctx, created.ID, userID)
	if err != nil {
		log.Fatalf("get progress: %v", err)
	}
	fmt.Println("\nstored progress:")
	printJSON(stored)

	// ── Layout and search ─────────────────────────────────────────────
	res := v.Layout()
	fmt.Printf("\nlayout %.0fx%.0f, %d nodes, %d edges\n", res.Width, res.Height, len(res.Nodes), len(res.Edges))
	pos, err := v.Search("react")
	if err != nil {
		log.Fatalf("search: %v", err)
	}
	fmt.Printf("found react at (%.0f, %.0f)\n", pos.X, pos.Y)

	// ── Detail panel ──────────────────────────────────────────────────
	if err := v.Select("react"); err != nil {
		log.Fatalf("select: %v", err)
	}
	panel, err := v.Detail(ctx)
	if err != nil {
		log.Fatalf("detail: %v", err)
	}
	fmt.Println("\ndetail:")
	printJSON(panel)

	// ── Tree view of the same roadmap ─────────────────────────────────
	tree := v.Document().Tree()
	treeRes := layout.Tree(tree, layout.NewSet(roadmap.RootID, "p1", "p2"), layout.Options{})
	f, err := os.Create("frontend.svg")
	if err != nil {
		log.Fatalf("create svg: %v", err)
	}
	defer f.Close()
	if err := render.SVG(f, treeRes, v.Document(), v.Statuses()); err != nil {
		log.Fatalf("render: %v", err)
	}
	fmt.Println("\ntree written to frontend.svg")

	// ── Cleanup ───────────────────────────────────────────────────────
	if err := store.DeleteRoadmap(ctx, created.ID); err != nil {
		log.Fatalf("delete: %v", err)
	}
	fmt.Println("roadmap deleted")
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
