// Package store persists conversation transcripts as timestamped records.
package store

import (
	"context"
	"errors"
	"time"

	"induchat/internal/models"
)

// TimestampLayout is the record timestamp format embedded in references.
const TimestampLayout = "20060102_150405"

// Record is one saved conversation snapshot.
type Record struct {
	ConversationID string        `json:"conversation_id"`
	Timestamp      string        `json:"timestamp"`
	Turns          []models.Turn `json:"messages"`
}

// NewRecord stamps a snapshot of the given turns.
func NewRecord(conversationID string, turns []models.Turn) Record {
	return Record{
		ConversationID: conversationID,
		Timestamp:      time.Now().UTC().Format(TimestampLayout),
		Turns:          turns,
	}
}

// ErrNotFound is returned when no record exists for a reference.
var ErrNotFound = errors.New("conversation record not found")

// Store is the persistence collaborator. Save returns an opaque reference
// that Load accepts; the reference format is implementation specific.
type Store interface {
	Save(ctx context.Context, rec Record) (string, error)
	Load(ctx context.Context, ref string) (Record, error)
	List(ctx context.Context) ([]string, error)
}
