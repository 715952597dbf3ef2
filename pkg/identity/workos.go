package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/workos/workos-go/v6/pkg/usermanagement"
)

// WorkOSProvider resolves users against WorkOS User Management.
type WorkOSProvider struct {
	client *usermanagement.Client
}

func NewWorkOSProvider(apiKey string) (*WorkOSProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("identity: workos api key required")
	}
	return &WorkOSProvider{client: usermanagement.NewClient(apiKey)}, nil
}

func (p *WorkOSProvider) Lookup(ctx context.Context, userID string) (*User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, nil
	}
	u, err := p.client.GetUser(ctx, usermanagement.GetUserOpts{User: userID})
	if err != nil {
		return nil, fmt.Errorf("workos lookup: %w", err)
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Email
	}
	return &User{
		ID:          u.ID,
		DisplayName: name,
		Email:       u.Email,
	}, nil
}
