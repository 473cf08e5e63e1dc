// Package identity implements the sign-in strategies.
package identity

import (
	"context"
	"net/url"

	"github.com/example/backoffice/internal/core/permission"
	"github.com/example/backoffice/internal/ports/secondary"
)

// KindDev names the developer strategy.
const KindDev = "dev"

// devRoles maps a dev-auth userId to the roles it signs in with. Unknown ids
// get every role.
var devRoles = map[string][]permission.Role{
	"user":          {permission.User},
	"recommender":   {permission.User, permission.Recommender},
	"administrator": {permission.User, permission.Administrator},
	"processor":     {permission.User, permission.Processor},
	"authoriser":    {permission.User, permission.Authoriser},
	"support":       {permission.User, permission.Support},
}

// DevProvider signs anyone in without a password. It is only registered
// outside production.
type DevProvider struct {
	emailDomain string
}

// NewDevProvider creates a dev provider issuing usernames under emailDomain.
func NewDevProvider(emailDomain string) *DevProvider {
	if emailDomain == "" {
		emailDomain = "defra.gov.uk"
	}
	return &DevProvider{emailDomain: emailDomain}
}

// Kind returns KindDev.
func (p *DevProvider) Kind() string { return KindDev }

// LoginURL points at the local dev-auth route.
func (p *DevProvider) LoginURL(state string) string {
	if state == "" {
		return "/dev-auth"
	}
	return "/dev-auth?" + url.Values{"state": {state}}.Encode()
}

// Exchange returns the developer account for cb.UserID.
func (p *DevProvider) Exchange(ctx context.Context, cb secondary.Callback) (*secondary.Identity, error) {
	roles, ok := devRoles[cb.UserID]
	if !ok {
		roles = permission.AllRoles()
	}

	id := &secondary.Identity{
		ID:       "developer",
		Name:     "Developer",
		Username: "developer@" + p.emailDomain,
		Roles:    permission.NewRoles(roles...).Strings(),
	}
	if cb.UserID != "" {
		id.ID = cb.UserID
		id.Name = "Developer-" + cb.UserID
		id.Username = "developer+" + cb.UserID + "@" + p.emailDomain
	}
	return id, nil
}
