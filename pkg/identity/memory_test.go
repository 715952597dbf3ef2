package identity

import (
	"context"
	"testing"
)

func TestMemoryProvider_Lookup(t *testing.T) {
	p := NewMemoryProvider(User{ID: "u1", DisplayName: "أيمن", Email: "a@example.com"})

	u, err := p.Lookup(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if u == nil || u.DisplayName != "أيمن" {
		t.Fatalf("user=%+v", u)
	}

	u, err = p.Lookup(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if u != nil {
		t.Fatalf("unknown id should resolve to signed out, got %+v", u)
	}
}

func TestMemoryProvider_AuthChangeNotifications(t *testing.T) {
	p := NewMemoryProvider()

	type change struct {
		id       string
		signedIn bool
	}
	var changes []change
	p.Subscribe(func(id string, signedIn bool) {
		changes = append(changes, change{id, signedIn})
	})

	p.Add(User{ID: "u2"})
	p.Remove("u2")

	if len(changes) != 2 {
		t.Fatalf("changes=%d, want 2", len(changes))
	}
	if changes[0] != (change{"u2", true}) || changes[1] != (change{"u2", false}) {
		t.Fatalf("changes=%+v", changes)
	}
}
