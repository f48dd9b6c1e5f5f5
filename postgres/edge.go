package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meikuraledutech/roadmap"
)

// insertEdges stores edges in declaration order. Edges to unknown nodes are
// kept; the layout engines skip them.
func insertEdges(ctx context.Context, tx pgx.Tx, roadmapID string, edges []roadmap.Edge) error {
	for i, e := range edges {
		if _, err := tx.Exec(ctx,
			`INSERT INTO roadmap_edges (roadmap_id, position, id, source_id, target_id) VALUES ($1, $2, $3, $4, $5)`,
			roadmapID, i, e.ID, e.Source, e.Target,
		); err != nil {
			return fmt.Errorf("roadmap: insert edge %s: %w", e.ID, err)
		}
	}
	return nil
}

// listEdges returns the edges of a roadmap in declaration order, nil if none.
func (s *PGStore) listEdges(ctx context.Context, roadmapID string) ([]roadmap.Edge, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, source_id, target_id FROM roadmap_edges WHERE roadmap_id = $1 ORDER BY position`, roadmapID)
	if err != nil {
		return nil, fmt.Errorf("roadmap: query edges: %w", err)
	}
	defer rows.Close()

	var edges []roadmap.Edge
	for rows.Next() {
		var e roadmap.Edge
		if err := rows.Scan(&e.ID, &e.Source, &e.Target); err != nil {
			return nil, fmt.Errorf("roadmap: scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roadmap: rows edges: %w", err)
	}
	return edges, nil
}
