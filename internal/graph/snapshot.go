package graph

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"
	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
	"github.com/orbitscope/satassist-go/internal/metrics"
)

// SnapshotStore persists the in-memory graph to libSQL. The graph itself
// stays authoritative in memory; the snapshot exists so restarts do not
// lose ingested knowledge.
type SnapshotStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSnapshotStore connects to the snapshot database and applies the
// schema. URL forms follow libSQL conventions: file: paths for embedded
// databases, libsql:// for remote ones (authToken appended when given).
func OpenSnapshotStore(rawURL, authToken string, logger *zap.Logger) (*SnapshotStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := rawURL
	if authToken != "" && strings.HasPrefix(rawURL, "libsql://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot url: %w", err)
		}
		q := u.Query()
		q.Set("authToken", authToken)
		u.RawQuery = q.Encode()
		dsn = u.String()
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	for _, stmt := range snapshotSchema() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply snapshot schema: %w", err)
		}
	}

	return &SnapshotStore{db: db, logger: logger}, nil
}

func (ss *SnapshotStore) Close() error {
	return ss.db.Close()
}

// Save rewrites the snapshot from the store's current contents in a single
// transaction.
func (ss *SnapshotStore) Save(ctx context.Context, s *Store) error {
	done := metrics.TimeStage("snapshot_save")
	var success bool
	defer func() { done(success) }()

	s.mu.RLock()
	nodes := make([]apptype.KnowledgeNode, 0, len(s.nodes))
	for _, node := range s.nodes {
		nodes = append(nodes, *node)
	}
	var edges []apptype.KnowledgeEdge
	for _, out := range s.out {
		for _, e := range out {
			edges = append(edges, *e)
		}
	}
	s.mu.RUnlock()

	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM edges`, `DELETE FROM nodes`, `DELETE FROM snapshot_meta`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear snapshot tables: %w", err)
		}
	}

	meta := map[string]string{
		"schema_version": strconv.Itoa(snapshotSchemaVersion),
		"saved_at":       time.Now().Format(time.RFC3339),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("failed to write snapshot meta: %w", err)
		}
	}

	for _, node := range nodes {
		attrs, err := json.Marshal(node.Attributes)
		if err != nil {
			return fmt.Errorf("failed to marshal node attributes for %s: %w", node.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (id, node_type, name, description, attributes, embedding, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			node.ID, node.Type, node.Name, node.Description, string(attrs),
			vectorToBlob(node.Embedding), node.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to save node %s: %w", node.ID, err)
		}
	}

	for _, e := range edges {
		attrs, err := json.Marshal(e.Attributes)
		if err != nil {
			return fmt.Errorf("failed to marshal edge attributes: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO edges (source, target, relationship, attributes, created_at)
             VALUES (?, ?, ?, ?, ?)`,
			e.Source, e.Target, e.Relationship, string(attrs), e.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to save edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	ss.logger.Info("knowledge graph snapshot saved",
		zap.Int("nodes", len(nodes)), zap.Int("edges", len(edges)))
	success = true
	return nil
}

// Load replaces the store's contents with the snapshot. An empty snapshot
// returns ErrEmptySnapshot so callers can seed instead.
func (ss *SnapshotStore) Load(ctx context.Context, s *Store) error {
	done := metrics.TimeStage("snapshot_load")
	var success bool
	defer func() { done(success) }()

	var version string
	err := ss.db.QueryRowContext(ctx,
		`SELECT value FROM snapshot_meta WHERE key = 'schema_version'`).Scan(&version)
	if err == sql.ErrNoRows {
		return ErrEmptySnapshot
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot version: %w", err)
	}
	if version != strconv.Itoa(snapshotSchemaVersion) {
		return fmt.Errorf("unsupported snapshot schema version %s", version)
	}

	rows, err := ss.db.QueryContext(ctx,
		`SELECT id, node_type, name, description, attributes, embedding, created_at FROM nodes`)
	if err != nil {
		return fmt.Errorf("failed to read snapshot nodes: %w", err)
	}
	defer rows.Close()

	var nodes []apptype.KnowledgeNode
	for rows.Next() {
		var node apptype.KnowledgeNode
		var attrs, createdAt string
		var blob []byte
		if err := rows.Scan(&node.ID, &node.Type, &node.Name, &node.Description,
			&attrs, &blob, &createdAt); err != nil {
			return fmt.Errorf("failed to scan snapshot node: %w", err)
		}
		if err := json.Unmarshal([]byte(attrs), &node.Attributes); err != nil {
			return fmt.Errorf("failed to decode attributes for %s: %w", node.ID, err)
		}
		node.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		node.Embedding = blobToVector(blob)
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate snapshot nodes: %w", err)
	}

	edgeRows, err := ss.db.QueryContext(ctx,
		`SELECT source, target, relationship, attributes, created_at FROM edges`)
	if err != nil {
		return fmt.Errorf("failed to read snapshot edges: %w", err)
	}
	defer edgeRows.Close()

	var edges []apptype.KnowledgeEdge
	for edgeRows.Next() {
		var e apptype.KnowledgeEdge
		var attrs, createdAt string
		if err := edgeRows.Scan(&e.Source, &e.Target, &e.Relationship, &attrs, &createdAt); err != nil {
			return fmt.Errorf("failed to scan snapshot edge: %w", err)
		}
		if err := json.Unmarshal([]byte(attrs), &e.Attributes); err != nil {
			return fmt.Errorf("failed to decode edge attributes: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		edges = append(edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate snapshot edges: %w", err)
	}

	s.mu.Lock()
	s.nodes = make(map[string]*apptype.KnowledgeNode, len(nodes))
	s.out = make(map[string][]*apptype.KnowledgeEdge)
	s.in = make(map[string][]*apptype.KnowledgeEdge)
	for i := range nodes {
		node := nodes[i]
		s.nodes[node.ID] = &node
	}
	for i := range edges {
		e := edges[i]
		s.out[e.Source] = append(s.out[e.Source], &e)
		s.in[e.Target] = append(s.in[e.Target], &e)
	}
	s.mu.Unlock()

	ss.logger.Info("knowledge graph snapshot loaded",
		zap.Int("nodes", len(nodes)), zap.Int("edges", len(edges)))
	s.observeSize()
	success = true
	return nil
}

// ErrEmptySnapshot reports a snapshot database with no saved graph.
var ErrEmptySnapshot = fmt.Errorf("snapshot is empty")

// vectorToBlob encodes a vector as little-endian float32 bytes. Non-finite
// values are stored as 0.
func vectorToBlob(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	blob := make([]byte, 4*len(v))
	for i, f := range v {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			f = 0
		}
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(f))
	}
	return blob
}

func blobToVector(blob []byte) []float32 {
	if len(blob) < 4 {
		return nil
	}
	v := make([]float32, len(blob)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return v
}
