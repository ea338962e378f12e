package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"induchat/internal/models"
	"induchat/internal/store"
)

// Archive persists conversation records in SQL. References are the archive
// row ids as decimal strings.
type Archive struct {
	db *sql.DB
}

func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db}
}

func (a *Archive) Save(ctx context.Context, rec store.Record) (string, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (conversation_id, saved_at, created_at) VALUES (?, ?, ?)`,
		rec.ConversationID, rec.Timestamp, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert conversation: %w", err)
	}
	archiveID, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("conversation id: %w", err)
	}

	for i, t := range rec.Turns {
		createdAt := t.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO turns (archive_id, seq, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
			archiveID, i, t.Role, t.Content, createdAt,
		); err != nil {
			return "", fmt.Errorf("insert turn %d: %w", i, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}
	return strconv.FormatInt(archiveID, 10), nil
}

func (a *Archive) Load(ctx context.Context, ref string) (store.Record, error) {
	archiveID, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || archiveID <= 0 {
		return store.Record{}, store.ErrNotFound
	}

	var rec store.Record
	err = a.db.QueryRowContext(ctx,
		`SELECT conversation_id, saved_at FROM conversations WHERE id = ?`, archiveID,
	).Scan(&rec.ConversationID, &rec.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Record{}, store.ErrNotFound
		}
		return store.Record{}, fmt.Errorf("get conversation: %w", err)
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT role, content, created_at FROM turns WHERE archive_id = ? ORDER BY seq ASC`, archiveID,
	)
	if err != nil {
		return store.Record{}, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Turn
		if err := rows.Scan(&t.Role, &t.Content, &t.CreatedAt); err != nil {
			return store.Record{}, fmt.Errorf("scan turn: %w", err)
		}
		rec.Turns = append(rec.Turns, t)
	}
	return rec, rows.Err()
}

func (a *Archive) List(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id FROM conversations ORDER BY saved_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan conversation id: %w", err)
		}
		refs = append(refs, strconv.FormatInt(id, 10))
	}
	return refs, rows.Err()
}
