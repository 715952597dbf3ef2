package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySink keeps records in memory, newest first per user. It backs tests
// and keyless demo runs where no database is configured.
type MemorySink struct {
	mu   sync.Mutex
	recs map[string][]Record
}

func NewMemorySink() *MemorySink {
	return &MemorySink{recs: make(map[string][]Record)}
}

func (s *MemorySink) Append(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.recs[rec.UserID] = append([]Record{*rec}, s.recs[rec.UserID]...)
	return nil
}

func (s *MemorySink) ListByUser(_ context.Context, userID string, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.recs[userID]
	if limit > 0 && limit < len(recs) {
		recs = recs[:limit]
	}
	out := make([]Record, len(recs))
	copy(out, recs)
	return out, nil
}
