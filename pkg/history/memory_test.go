package history

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestMemorySink_AppendAssignsIdentity(t *testing.T) {
	sink := NewMemorySink()
	rec := &Record{UserID: "u1", ToolID: "optimizer", Input: "in", Output: "out", Type: TypeText}

	if err := sink.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if rec.ID == uuid.Nil {
		t.Fatalf("Append should assign an id")
	}
	if rec.CreatedAt.IsZero() {
		t.Fatalf("Append should stamp CreatedAt")
	}
}

func TestMemorySink_ListNewestFirst(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()
	for _, out := range []string{"first", "second", "third"} {
		if err := sink.Append(ctx, &Record{UserID: "u1", ToolID: "ideas", Output: out, Type: TypeText}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	recs, err := sink.ListByUser(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs)=%d, want 2", len(recs))
	}
	if recs[0].Output != "third" || recs[1].Output != "second" {
		t.Fatalf("order=%q,%q, want newest first", recs[0].Output, recs[1].Output)
	}
}

func TestMemorySink_ListOtherUserEmpty(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()
	if err := sink.Append(ctx, &Record{UserID: "u1", Output: "x", Type: TypeImage}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	recs, err := sink.ListByUser(ctx, "u2", 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("len(recs)=%d, want 0", len(recs))
	}
}
