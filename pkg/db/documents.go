package db

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a document to update does not exist.
var ErrNotFound = errors.New("document not found")

// Get returns the document at path, or nil when it does not exist.
func (db *DB) Get(ctx context.Context, path string) (json.RawMessage, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM documents WHERE path = ?`, cleanPath(path)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", path, err)
	}
	return json.RawMessage(value), nil
}

// Put creates or replaces the document at path.
func (db *DB) Put(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return put(ctx, db.DB, cleanPath(path), raw)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func put(ctx context.Context, ex execer, path string, raw []byte) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO documents (path, value) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET value = excluded.value, updated_at = datetime('now')
	`, path, string(raw))
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", path, err)
	}
	return nil
}

// Update applies fn to the decoded document at path inside a transaction.
// Numbers decode as json.Number so integers survive the round trip.
func (db *DB) Update(ctx context.Context, path string, fn func(doc map[string]any) error) error {
	path = cleanPath(path)
	return db.Tx(ctx, func(tx *sql.Tx) error {
		var value string
		err := tx.QueryRowContext(ctx, `SELECT value FROM documents WHERE path = ?`, path).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		doc := map[string]any{}
		dec := json.NewDecoder(strings.NewReader(value))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return fmt.Errorf("failed to decode %s: %w", path, err)
		}

		if err := fn(doc); err != nil {
			return err
		}

		raw, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", path, err)
		}
		return put(ctx, tx, path, raw)
	})
}

// Delete removes the document at path and reports whether it existed.
func (db *DB) Delete(ctx context.Context, path string) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, cleanPath(path))
	if err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns the paths directly below collection, sorted.
func (db *DB) List(ctx context.Context, collection string) ([]string, error) {
	prefix := cleanPath(collection) + "/"
	rows, err := db.QueryContext(ctx, `
		SELECT path FROM documents
		WHERE substr(path, 1, ?) = ? AND instr(substr(path, ? + 1), '/') = 0
		ORDER BY path
	`, len(prefix), prefix, len(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Count returns the number of stored documents.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

func cleanPath(path string) string {
	return strings.Trim(path, "/")
}

// compact strips insignificant whitespace so stored values stay small.
func compact(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
