package graph

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

func newTestSnapshotStore(t *testing.T) *SnapshotStore {
	t.Helper()
	url := "file:" + filepath.Join(t.TempDir(), "snap.db")
	ss, err := OpenSnapshotStore(url, "", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })
	return ss
}

func TestSnapshotSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	ss := newTestSnapshotStore(t)

	src := newTestStore(nil)
	src.SeedBaseKnowledge(ctx)
	src.AddNode(ctx, apptype.KnowledgeNode{
		ID:          "insat",
		Type:        "SATELLITE",
		Name:        "INSAT-3D",
		Description: "Indian meteorological satellite",
		Attributes:  map[string]string{"launch_year": "2013"},
		Embedding:   []float32{0.25, -1.5, 3},
	})
	require.True(t, src.AddEdge("insat", "satellite_data", "generates", nil))

	require.NoError(t, ss.Save(ctx, src))

	dst := newTestStore(nil)
	require.NoError(t, ss.Load(ctx, dst))

	nodes, edges := dst.Counts()
	assert.Equal(t, 5, nodes)
	assert.Equal(t, 5, edges)

	want, ok := src.GetNode("insat")
	require.True(t, ok)
	got, ok := dst.GetNode("insat")
	require.True(t, ok)
	assert.Equal(t, want.Type, got.Type)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.Attributes, got.Attributes)
	assert.Equal(t, []float32{0.25, -1.5, 3}, got.Embedding)
	assert.True(t, got.CreatedAt.Equal(want.CreatedAt))

	rels := dst.Relationships("insat")
	require.Len(t, rels, 1)
	assert.Equal(t, DirectionOutgoing, rels[0].Direction)
	assert.Equal(t, "satellite_data", rels[0].Other)
	assert.Equal(t, "generates", rels[0].Relationship)
}

func TestSnapshotLoadEmptyReportsErrEmptySnapshot(t *testing.T) {
	ctx := context.Background()
	ss := newTestSnapshotStore(t)

	dst := newTestStore(nil)
	require.ErrorIs(t, ss.Load(ctx, dst), ErrEmptySnapshot)

	nodes, edges := dst.Counts()
	assert.Zero(t, nodes)
	assert.Zero(t, edges)
}

func TestSnapshotLoadRejectsUnknownVersion(t *testing.T) {
	ctx := context.Background()
	ss := newTestSnapshotStore(t)

	src := newTestStore(nil)
	src.SeedBaseKnowledge(ctx)
	require.NoError(t, ss.Save(ctx, src))

	_, err := ss.db.ExecContext(ctx,
		`UPDATE snapshot_meta SET value = '99' WHERE key = 'schema_version'`)
	require.NoError(t, err)

	err = ss.Load(ctx, newTestStore(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported snapshot schema version")
}
