package postgres

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	"github.com/meikuraledutech/roadmap"
)

// nodeRow is one stored node. Tree nodes keep their parent; the tree root
// and flat nodes have none.
type nodeRow struct {
	parentID *string
	inTree   bool
	node     roadmap.Node
}

// flatten lists the tree depth first, then the flat nodes.
func flatten(r *roadmap.Roadmap) []nodeRow {
	var rows []nodeRow
	var visit func(n roadmap.Node, parent *string)
	visit = func(n roadmap.Node, parent *string) {
		children := n.Children
		n.Children = nil
		rows = append(rows, nodeRow{parentID: parent, inTree: true, node: n})
		id := n.ID
		for _, c := range children {
			visit(c, &id)
		}
	}
	if r.Root != nil {
		visit(*r.Root, nil)
	}
	for _, n := range r.Nodes {
		n.Children = nil
		rows = append(rows, nodeRow{node: n})
	}
	return rows
}

// assemble rebuilds the tree and the flat list from rows in stored order.
func assemble(rows []nodeRow) (*roadmap.Node, []roadmap.Node) {
	children := make(map[string][]roadmap.Node)
	var rootRow *roadmap.Node
	var flat []roadmap.Node
	for i := range rows {
		row := rows[i]
		switch {
		case !row.inTree:
			flat = append(flat, row.node)
		case row.parentID == nil:
			if rootRow == nil {
				rootRow = &rows[i].node
			}
		default:
			children[*row.parentID] = append(children[*row.parentID], row.node)
		}
	}

	var build func(n roadmap.Node) roadmap.Node
	build = func(n roadmap.Node) roadmap.Node {
		for _, c := range children[n.ID] {
			n.Children = append(n.Children, build(c))
		}
		return n
	}
	var root *roadmap.Node
	if rootRow != nil {
		r := build(*rootRow)
		root = &r
	}
	return root, flat
}

func insertNodes(ctx context.Context, tx pgx.Tx, roadmapID string, rows []nodeRow) error {
	for i, row := range rows {
		data, err := json.Marshal(row.node)
		if err != nil {
			return fmt.Errorf("roadmap: encode node %s: %w", row.node.ID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO roadmap_nodes (roadmap_id, id, parent_id, in_tree, position, data) VALUES ($1, $2, $3, $4, $5, $6)`,
			roadmapID, row.node.ID, row.parentID, row.inTree, i, data,
		); err != nil {
			return fmt.Errorf("roadmap: insert node %s: %w", row.node.ID, err)
		}
	}
	return nil
}

func (s *PGStore) listNodes(ctx context.Context, roadmapID string) ([]nodeRow, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, parent_id, in_tree, data FROM roadmap_nodes WHERE roadmap_id = $1 ORDER BY position`, roadmapID)
	if err != nil {
		return nil, fmt.Errorf("roadmap: query nodes: %w", err)
	}
	defer rows.Close()

	var out []nodeRow
	for rows.Next() {
		var (
			row  nodeRow
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &row.parentID, &row.inTree, &data); err != nil {
			return nil, fmt.Errorf("roadmap: scan node: %w", err)
		}
		if err := json.Unmarshal(data, &row.node); err != nil {
			return nil, fmt.Errorf("roadmap: decode node %s: %w", id, err)
		}
		row.node.ID = id
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roadmap: rows nodes: %w", err)
	}
	return out, nil
}

// GetNode fetches a single node, without its children.
// Returns nil, nil if the roadmap or the node doesn't exist.
func (s *PGStore) GetNode(ctx context.Context, roadmapID, nodeID string) (*roadmap.Node, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT data FROM roadmap_nodes WHERE roadmap_id = $1 AND id = $2`, roadmapID, nodeID,
	).Scan(&data)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("roadmap: get node: %w", err)
	}

	var n roadmap.Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("roadmap: decode node %s: %w", nodeID, err)
	}
	n.ID = nodeID
	return &n, nil
}
