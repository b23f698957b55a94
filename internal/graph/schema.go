package graph

// snapshotSchemaVersion is bumped whenever the snapshot tables change
// shape. Loads refuse versions they do not understand.
const snapshotSchemaVersion = 1

func snapshotSchema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS snapshot_meta (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    )`,

		`CREATE TABLE IF NOT EXISTS nodes (
        id TEXT PRIMARY KEY,
        node_type TEXT NOT NULL,
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        attributes TEXT NOT NULL DEFAULT '{}',
        embedding BLOB,
        created_at DATETIME NOT NULL
    )`,

		`CREATE TABLE IF NOT EXISTS edges (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        source TEXT NOT NULL,
        target TEXT NOT NULL,
        relationship TEXT NOT NULL,
        attributes TEXT NOT NULL DEFAULT '{}',
        created_at DATETIME NOT NULL,
        FOREIGN KEY (source) REFERENCES nodes(id),
        FOREIGN KEY (target) REFERENCES nodes(id)
    )`,

		`CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(node_type)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target)`,
	}
}
