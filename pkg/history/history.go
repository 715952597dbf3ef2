// Package history is the append-only ledger of tool runs. The controller
// writes to it on every completed invocation; reads only serve the account
// page. Writes are best effort and never block a tool result.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContentType tags what kind of output a record holds.
type ContentType string

const (
	TypeText  ContentType = "text"
	TypeImage ContentType = "image"
)

// Record is one completed tool invocation.
type Record struct {
	ID        uuid.UUID
	UserID    string
	ToolID    string
	Input     string
	Output    string
	Type      ContentType
	CreatedAt time.Time
}

// Sink accepts records for a user. Append assigns ID and CreatedAt when
// they are zero.
type Sink interface {
	Append(ctx context.Context, rec *Record) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Record, error)
}
