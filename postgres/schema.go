package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS roadmaps (
    id                    TEXT PRIMARY KEY,
    seq                   BIGSERIAL,
    title                 TEXT NOT NULL DEFAULT '',
    description           TEXT NOT NULL DEFAULT '',
    total_estimated_hours INTEGER NOT NULL DEFAULT 0,
    phases                JSONB NOT NULL DEFAULT 'null',
    sections              JSONB NOT NULL DEFAULT 'null',
    created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS roadmap_nodes (
    roadmap_id TEXT NOT NULL REFERENCES roadmaps(id) ON DELETE CASCADE,
    id         TEXT NOT NULL,
    parent_id  TEXT,
    in_tree    BOOLEAN NOT NULL DEFAULT FALSE,
    position   INTEGER NOT NULL,
    data       JSONB NOT NULL DEFAULT '{}',
    PRIMARY KEY (roadmap_id, id)
);

CREATE TABLE IF NOT EXISTS roadmap_edges (
    roadmap_id TEXT NOT NULL REFERENCES roadmaps(id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    id         TEXT NOT NULL,
    source_id  TEXT NOT NULL,
    target_id  TEXT NOT NULL,
    PRIMARY KEY (roadmap_id, position)
);

CREATE TABLE IF NOT EXISTS roadmap_progress (
    roadmap_id TEXT NOT NULL REFERENCES roadmaps(id) ON DELETE CASCADE,
    user_id    TEXT NOT NULL,
    node_id    TEXT NOT NULL,
    status     TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (roadmap_id, user_id, node_id)
);

CREATE INDEX IF NOT EXISTS idx_roadmap_nodes_parent ON roadmap_nodes(roadmap_id, parent_id);
CREATE INDEX IF NOT EXISTS idx_roadmap_progress_user ON roadmap_progress(roadmap_id, user_id);
`

// CreateSchema creates the roadmap tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops every roadmap table.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS roadmap_progress, roadmap_edges, roadmap_nodes, roadmaps CASCADE;`)
	return err
}
