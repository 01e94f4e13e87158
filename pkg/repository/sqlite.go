package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"

	"github.com/localbrain/localbrain/pkg/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS memories (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL DEFAULT (datetime('now')),
	title      TEXT,
	content    TEXT NOT NULL,
	tags       TEXT,
	source     TEXT
);

CREATE TABLE IF NOT EXISTS memory_embeddings (
	memory_id INTEGER PRIMARY KEY,
	model     TEXT NOT NULL,
	embedding TEXT NOT NULL,
	FOREIGN KEY(memory_id) REFERENCES memories(id) ON DELETE CASCADE
);
`

// DB is one open database handle bound to a resolved path. All SQL against
// the memories and memory_embeddings tables goes through here.
type DB struct {
	conn *sql.DB
	path string
}

// openDB opens (creating if absent) the SQLite file at path and applies the
// schema. Schema creation uses CREATE TABLE IF NOT EXISTS, so it is safe to
// run on every open, including racing opens of the same file.
func openDB(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, goerr.Wrap(err, "failed to create database directory", goerr.V("dir", dir))
		}
	}

	// WAL keeps readers unblocked during writes; busy_timeout makes
	// concurrent writers queue instead of failing with SQLITE_BUSY.
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("path", path))
	}

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, goerr.Wrap(err, "failed to create schema", goerr.V("path", path))
	}

	return &DB{conn: conn, path: path}, nil
}

// Path returns the resolved filesystem path of the database file.
func (d *DB) Path() string {
	return d.path
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	return d.conn.Close()
}

// InsertMemory writes one memory row. id and created_at are assigned by
// SQLite. Empty tags are stored as NULL and come back as an empty slice.
func (d *DB) InsertMemory(ctx context.Context, content string, title *string, tags []string, source *string) (model.MemoryID, error) {
	var tagsJSON *string
	if len(tags) > 0 {
		b, err := json.Marshal(tags)
		if err != nil {
			return 0, goerr.Wrap(err, "failed to encode tags")
		}
		s := string(b)
		tagsJSON = &s
	}

	res, err := d.conn.ExecContext(ctx,
		`INSERT INTO memories (content, title, tags, source) VALUES (?, ?, ?, ?)`,
		content, title, tagsJSON, source)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to insert memory", goerr.V("path", d.path))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read inserted memory id")
	}
	return model.MemoryID(id), nil
}

// InsertEmbedding writes the embedding row for a memory. The vector is
// serialized as a JSON array of floats in a text column.
func (d *DB) InsertEmbedding(ctx context.Context, id model.MemoryID, modelName string, vector []float64) error {
	b, err := json.Marshal(vector)
	if err != nil {
		return goerr.Wrap(err, "failed to encode embedding")
	}

	_, err = d.conn.ExecContext(ctx,
		`INSERT INTO memory_embeddings (memory_id, model, embedding) VALUES (?, ?, ?)`,
		int64(id), modelName, string(b))
	if err != nil {
		return goerr.Wrap(err, "failed to insert embedding", goerr.V("memory_id", id))
	}
	return nil
}

// SearchKeyword returns memories whose content or title contains query as a
// substring, newest first (created_at, then id as tie-break).
func (d *DB) SearchKeyword(ctx context.Context, query string, limit int) ([]model.Memory, error) {
	pattern := "%" + query + "%"
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, created_at, title, content, tags, source
		FROM memories
		WHERE content LIKE ? OR IFNULL(title, '') LIKE ?
		ORDER BY datetime(created_at) DESC, id DESC
		LIMIT ?`,
		pattern, pattern, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search memories", goerr.V("query", query))
	}
	defer rows.Close()

	return collectMemories(rows)
}

// ListEmbeddings loads every stored embedding for this database. Rows whose
// embedding column fails to decode are skipped rather than failing the scan.
func (d *DB) ListEmbeddings(ctx context.Context) ([]model.Embedding, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT memory_id, model, embedding FROM memory_embeddings`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list embeddings")
	}
	defer rows.Close()

	var embeddings []model.Embedding
	for rows.Next() {
		var (
			id     int64
			name   string
			rawVec string
		)
		if err := rows.Scan(&id, &name, &rawVec); err != nil {
			return nil, goerr.Wrap(err, "failed to scan embedding row")
		}

		var vec []float64
		if err := json.Unmarshal([]byte(rawVec), &vec); err != nil {
			continue
		}
		embeddings = append(embeddings, model.Embedding{
			MemoryID: model.MemoryID(id),
			Model:    name,
			Vector:   vec,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate embeddings")
	}

	return embeddings, nil
}

// GetByIDs loads the named memories. Result order is unspecified; callers
// that care about ranking reorder by id themselves.
func (d *DB) GetByIDs(ctx context.Context, ids []model.MemoryID) ([]model.Memory, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = int64(id)
	}

	rows, err := d.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, created_at, title, content, tags, source
		FROM memories
		WHERE id IN (%s)`, strings.Join(placeholders, ",")),
		args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get memories by id")
	}
	defer rows.Close()

	return collectMemories(rows)
}

func collectMemories(rows *sql.Rows) ([]model.Memory, error) {
	var memories []model.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate memory rows")
	}
	return memories, nil
}

func scanMemory(rows *sql.Rows) (model.Memory, error) {
	var (
		m     model.Memory
		id    int64
		title sql.NullString
		tags  sql.NullString
		src   sql.NullString
	)
	if err := rows.Scan(&id, &m.CreatedAt, &title, &m.Content, &tags, &src); err != nil {
		return m, goerr.Wrap(err, "failed to scan memory row")
	}

	m.ID = model.MemoryID(id)
	if title.Valid {
		m.Title = &title.String
	}
	if src.Valid {
		m.Source = &src.String
	}

	// Tags come back as an empty slice, never nil, regardless of how the
	// column was stored (NULL, "[]", or malformed).
	m.Tags = []string{}
	if tags.Valid && tags.String != "" {
		var parsed []string
		if err := json.Unmarshal([]byte(tags.String), &parsed); err == nil && parsed != nil {
			m.Tags = parsed
		}
	}

	return m, nil
}
