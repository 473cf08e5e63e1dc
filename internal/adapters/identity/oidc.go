package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/example/backoffice/internal/ports/secondary"
)

// KindOIDC names the OpenID Connect strategy.
const KindOIDC = "oidc"

// OIDCConfig configures the OpenID Connect strategy.
type OIDCConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// OIDCProvider signs caseworkers in through an OpenID Connect issuer. Roles
// come from the id token's roles claim.
type OIDCProvider struct {
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// DiscoverOIDC reads the issuer's discovery document and builds a provider.
func DiscoverOIDC(ctx context.Context, cfg OIDCConfig) (*OIDCProvider, error) {
	issuer, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover oidc issuer %s: %w", cfg.Issuer, err)
	}
	return NewOIDCProvider(
		&oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     issuer.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		issuer.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	), nil
}

// NewOIDCProvider creates a provider from explicit endpoints.
func NewOIDCProvider(oauth *oauth2.Config, verifier *oidc.IDTokenVerifier) *OIDCProvider {
	return &OIDCProvider{oauth: oauth, verifier: verifier}
}

// Kind returns KindOIDC.
func (p *OIDCProvider) Kind() string { return KindOIDC }

// LoginURL returns the authorization URL, forcing the account picker.
func (p *OIDCProvider) LoginURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

type idTokenClaims struct {
	Subject           string   `json:"sub"`
	ObjectID          string   `json:"oid"`
	Name              string   `json:"name"`
	PreferredUsername string   `json:"preferred_username"`
	Email             string   `json:"email"`
	Roles             []string `json:"roles"`
}

// Exchange redeems the authorization code and verifies the id token.
func (p *OIDCProvider) Exchange(ctx context.Context, cb secondary.Callback) (*secondary.Identity, error) {
	if cb.Code == "" {
		return nil, errors.New("authorization code missing")
	}

	token, err := p.oauth.Exchange(ctx, cb.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	raw, ok := token.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, errors.New("token response has no id_token")
	}

	idToken, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to verify id token: %w", err)
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode id token claims: %w", err)
	}

	id := &secondary.Identity{
		ID:       claims.ObjectID,
		Name:     claims.Name,
		Username: claims.PreferredUsername,
		Roles:    claims.Roles,
	}
	if id.ID == "" {
		id.ID = claims.Subject
	}
	if id.Username == "" {
		id.Username = claims.Email
	}
	return id, nil
}
