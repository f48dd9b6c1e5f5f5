package postgres

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/meikuraledutech/roadmap"
)

// CreateRoadmap saves a full roadmap (metadata, nodes, edges) in one
// transaction, replacing any roadmap with the same id. Missing ids get
// auto-generated UUIDs. Progress on nodes that no longer exist is dropped.
// Returns the roadmap with all IDs filled in.
func (s *PGStore) CreateRoadmap(ctx context.Context, r *roadmap.Roadmap) (*roadmap.Roadmap, error) {
	r.AssignIDs(uuid.NewString)
	if _, err := r.Validate(); err != nil {
		return nil, err
	}

	phases, err := json.Marshal(r.Phases)
	if err != nil {
		return nil, fmt.Errorf("roadmap: encode phases: %w", err)
	}
	sections, err := json.Marshal(r.Sections)
	if err != nil {
		return nil, fmt.Errorf("roadmap: encode sections: %w", err)
	}
	rows := flatten(r)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("roadmap: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO roadmaps (id, title, description, total_estimated_hours, phases, sections)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			total_estimated_hours = EXCLUDED.total_estimated_hours,
			phases = EXCLUDED.phases,
			sections = EXCLUDED.sections,
			updated_at = NOW()`,
		r.ID, r.Title, r.Description, r.TotalEstimatedHours, phases, sections,
	); err != nil {
		return nil, fmt.Errorf("roadmap: upsert roadmap: %w", err)
	}

	// Replace semantics: nodes and edges are rewritten wholesale.
	if _, err := tx.Exec(ctx, `DELETE FROM roadmap_edges WHERE roadmap_id = $1`, r.ID); err != nil {
		return nil, fmt.Errorf("roadmap: delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM roadmap_nodes WHERE roadmap_id = $1`, r.ID); err != nil {
		return nil, fmt.Errorf("roadmap: delete nodes: %w", err)
	}
	if err := insertNodes(ctx, tx, r.ID, rows); err != nil {
		return nil, err
	}
	if err := insertEdges(ctx, tx, r.ID, r.Edges); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM roadmap_progress p
		WHERE p.roadmap_id = $1
		  AND NOT EXISTS (SELECT 1 FROM roadmap_nodes n WHERE n.roadmap_id = p.roadmap_id AND n.id = p.node_id)`,
		r.ID,
	); err != nil {
		return nil, fmt.Errorf("roadmap: prune progress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("roadmap: commit: %w", err)
	}
	return r, nil
}

// GetRoadmap retrieves a full roadmap by its ID.
// Returns nil, nil if the roadmap doesn't exist.
func (s *PGStore) GetRoadmap(ctx context.Context, roadmapID string) (*roadmap.Roadmap, error) {
	r := &roadmap.Roadmap{ID: roadmapID}
	var phases, sections []byte
	err := s.db.QueryRow(ctx,
		`SELECT title, description, total_estimated_hours, phases, sections FROM roadmaps WHERE id = $1`,
		roadmapID,
	).Scan(&r.Title, &r.Description, &r.TotalEstimatedHours, &phases, &sections)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("roadmap: get roadmap: %w", err)
	}
	if err := json.Unmarshal(phases, &r.Phases); err != nil {
		return nil, fmt.Errorf("roadmap: decode phases: %w", err)
	}
	if err := json.Unmarshal(sections, &r.Sections); err != nil {
		return nil, fmt.Errorf("roadmap: decode sections: %w", err)
	}

	rows, err := s.listNodes(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	r.Root, r.Nodes = assemble(rows)

	if r.Edges, err = s.listEdges(ctx, roadmapID); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteRoadmap removes a roadmap with its nodes, edges and progress.
// No error if the roadmapID doesn't exist.
func (s *PGStore) DeleteRoadmap(ctx context.Context, roadmapID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM roadmaps WHERE id = $1`, roadmapID); err != nil {
		return fmt.Errorf("roadmap: delete roadmap: %w", err)
	}
	return nil
}

// ListRoadmaps returns summaries in creation order.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListRoadmaps(ctx context.Context) ([]roadmap.Summary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.title, r.description, r.total_estimated_hours, COUNT(n.id)
		FROM roadmaps r
		LEFT JOIN roadmap_nodes n ON n.roadmap_id = r.id
		GROUP BY r.id
		ORDER BY r.seq`)
	if err != nil {
		return nil, fmt.Errorf("roadmap: list roadmaps: %w", err)
	}
	defer rows.Close()

	out := []roadmap.Summary{}
	for rows.Next() {
		var sum roadmap.Summary
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Description, &sum.TotalEstimatedHours, &sum.NodeCount); err != nil {
			return nil, fmt.Errorf("roadmap: scan roadmap: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roadmap: rows roadmaps: %w", err)
	}
	return out, nil
}
