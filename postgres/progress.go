package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/roadmap"
)

// GetProgress returns the statuses of one learner. Returns an empty map when
// the learner has no progress yet and ErrRoadmapNotFound for unknown roadmaps.
func (s *PGStore) GetProgress(ctx context.Context, roadmapID, userID string) (roadmap.StatusMap, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roadmaps WHERE id = $1)`, roadmapID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("roadmap: check roadmap: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %q", roadmap.ErrRoadmapNotFound, roadmapID)
	}

	rows, err := s.db.Query(ctx,
		`SELECT node_id, status FROM roadmap_progress WHERE roadmap_id = $1 AND user_id = $2`, roadmapID, userID)
	if err != nil {
		return nil, fmt.Errorf("roadmap: query progress: %w", err)
	}
	defer rows.Close()

	out := roadmap.StatusMap{}
	for rows.Next() {
		var nodeID, raw string
		if err := rows.Scan(&nodeID, &raw); err != nil {
			return nil, fmt.Errorf("roadmap: scan progress: %w", err)
		}
		status, err := roadmap.ParseStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("roadmap: progress of %s: %w", nodeID, err)
		}
		if status != roadmap.StatusPending {
			out[nodeID] = status
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roadmap: rows progress: %w", err)
	}
	return out, nil
}

// SetProgress upserts the status of one node. Pending deletes the row.
func (s *PGStore) SetProgress(ctx context.Context, roadmapID, userID, nodeID string, status roadmap.Status) error {
	var hasRoadmap, hasNode bool
	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM roadmaps WHERE id = $1),
		       EXISTS (SELECT 1 FROM roadmap_nodes WHERE roadmap_id = $1 AND id = $2)`,
		roadmapID, nodeID,
	).Scan(&hasRoadmap, &hasNode); err != nil {
		return fmt.Errorf("roadmap: check node: %w", err)
	}
	if !hasRoadmap {
		return fmt.Errorf("%w: %q", roadmap.ErrRoadmapNotFound, roadmapID)
	}
	if !hasNode {
		return fmt.Errorf("%w: %q", roadmap.ErrNodeNotFound, nodeID)
	}

	if status == roadmap.StatusPending {
		if _, err := s.db.Exec(ctx,
			`DELETE FROM roadmap_progress WHERE roadmap_id = $1 AND user_id = $2 AND node_id = $3`,
			roadmapID, userID, nodeID,
		); err != nil {
			return fmt.Errorf("roadmap: clear progress: %w", err)
		}
		return nil
	}

	if _, err := s.db.Exec(ctx, `
		INSERT INTO roadmap_progress (roadmap_id, user_id, node_id, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (roadmap_id, user_id, node_id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()`,
		roadmapID, userID, nodeID, status.String(),
	); err != nil {
		return fmt.Errorf("roadmap: set progress: %w", err)
	}
	return nil
}

// ResetProgress deletes every status of one learner on one roadmap.
func (s *PGStore) ResetProgress(ctx context.Context, roadmapID, userID string) error {
	if _, err := s.db.Exec(ctx,
		`DELETE FROM roadmap_progress WHERE roadmap_id = $1 AND user_id = $2`, roadmapID, userID,
	); err != nil {
		return fmt.Errorf("roadmap: reset progress: %w", err)
	}
	return nil
}
