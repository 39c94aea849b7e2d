package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	blobProjects = "projects"
	blobDays     = "days"
)

// LoadLedger returns the persisted project and day collections as raw JSON.
// A collection that was never saved comes back nil.
func (s *Store) LoadLedger(ctx context.Context) (projects, days []byte, err error) {
	if projects, err = s.blob(ctx, blobProjects); err != nil {
		return nil, nil, err
	}
	if days, err = s.blob(ctx, blobDays); err != nil {
		return nil, nil, err
	}
	return projects, days, nil
}

func (s *Store) blob(ctx context.Context, name string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM ledger_blobs WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return []byte(data), nil
}

// SaveLedger replaces both collections in one transaction.
func (s *Store) SaveLedger(ctx context.Context, projects, days []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, b := range []struct {
		name string
		data []byte
	}{{blobProjects, projects}, {blobDays, days}} {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ledger_blobs (name, data, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			b.name, string(b.data), now,
		)
		if err != nil {
			return fmt.Errorf("save %s: %w", b.name, err)
		}
	}
	return tx.Commit()
}
