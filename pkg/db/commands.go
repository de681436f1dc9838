package db

import (
	"context"
	"fmt"
)

// CommandRecord is one control request accepted by the emulator.
type CommandRecord struct {
	ID       int64  `json:"id"`
	Serial   string `json:"serial"`
	Scope    string `json:"scope"`
	Target   string `json:"target"`
	Command  string `json:"command"`
	IssuedAt string `json:"issued_at"`
}

// LogCommand appends a record to the command log.
func (db *DB) LogCommand(ctx context.Context, rec CommandRecord) (int64, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO command_log (serial, scope, target, command) VALUES (?, ?, ?, ?)
	`, rec.Serial, rec.Scope, rec.Target, rec.Command)
	if err != nil {
		return 0, fmt.Errorf("failed to log command: %w", err)
	}
	return res.LastInsertId()
}

// RecentCommands returns up to limit records for serial, newest first.
func (db *DB) RecentCommands(ctx context.Context, serial string, limit int) ([]CommandRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, serial, scope, target, command, issued_at
		FROM command_log WHERE serial = ?
		ORDER BY id DESC LIMIT ?
	`, serial, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query command log: %w", err)
	}
	defer rows.Close()

	var out []CommandRecord
	for rows.Next() {
		var r CommandRecord
		if err := rows.Scan(&r.ID, &r.Serial, &r.Scope, &r.Target, &r.Command, &r.IssuedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
