// Package identity is the boundary to the auth provider. The rest of the
// system only reads the current user's presence and id; it never mutates
// identity state.
package identity

import "context"

// User is the identity read model.
type User struct {
	ID          string
	DisplayName string
	Email       string
}

// Provider resolves users. Lookup returns (nil, nil) when the id is
// unknown, which callers treat as signed out.
type Provider interface {
	Lookup(ctx context.Context, userID string) (*User, error)
}
