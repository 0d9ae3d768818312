package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/shubhamsharma-10/CloudDrive/internal/config"
	"github.com/shubhamsharma-10/CloudDrive/pkg/logger"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

type OAuthProviderService struct {
	Cfg *config.Config

	mu        sync.Mutex
	providers map[string]*oidc.Provider
}

func NewOAuthProviderService(cfg *config.Config) *OAuthProviderService {
	return &OAuthProviderService{
		Cfg:       cfg,
		providers: make(map[string]*oidc.Provider),
	}
}

// EnabledProviders lists provider names in a stable order.
func (s *OAuthProviderService) EnabledProviders() []string {
	names := make([]string, 0, 2)
	if s.Cfg.SSO.Google.Enabled {
		names = append(names, "google")
	}
	if s.Cfg.SSO.OIDC.Enabled {
		names = append(names, "oidc")
	}
	return names
}

func (s *OAuthProviderService) providerConfig(provider string) (config.OAuthProviderConfig, error) {
	switch strings.ToLower(provider) {
	case "google":
		if !s.Cfg.SSO.Google.Enabled {
			return config.OAuthProviderConfig{}, fmt.Errorf("%w: google oauth is not enabled", ErrUnknownProvider)
		}
		return s.Cfg.SSO.Google, nil
	case "oidc":
		if !s.Cfg.SSO.OIDC.Enabled {
			return config.OAuthProviderConfig{}, fmt.Errorf("%w: oidc is not enabled", ErrUnknownProvider)
		}
		if s.Cfg.SSO.OIDC.IssuerURL == "" {
			return config.OAuthProviderConfig{}, errors.New("oidc issuer url is not configured")
		}
		return s.Cfg.SSO.OIDC, nil
	default:
		return config.OAuthProviderConfig{}, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
}

// discover fetches and caches the issuer's discovery document.
func (s *OAuthProviderService) discover(ctx context.Context, provider string, issuer string) (*oidc.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.providers[provider]; ok {
		return p, nil
	}
	p, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		logger.Error("oidc_discovery_failed", err, map[string]interface{}{
			"provider": provider,
			"issuer":   issuer,
		})
		return nil, err
	}
	s.providers[provider] = p
	return p, nil
}

func (s *OAuthProviderService) GetOAuthConfig(ctx context.Context, provider string) (*oauth2.Config, error) {
	providerCfg, err := s.providerConfig(provider)
	if err != nil {
		return nil, err
	}

	var endpoint oauth2.Endpoint
	switch strings.ToLower(provider) {
	case "google":
		endpoint = google.Endpoint
	default:
		p, err := s.discover(ctx, provider, providerCfg.IssuerURL)
		if err != nil {
			return nil, err
		}
		endpoint = p.Endpoint()
	}

	return &oauth2.Config{
		ClientID:     providerCfg.ClientID,
		ClientSecret: providerCfg.ClientSecret,
		RedirectURL:  providerCfg.RedirectURL,
		Scopes:       splitScopes(providerCfg.Scopes),
		Endpoint:     endpoint,
	}, nil
}

func (s *OAuthProviderService) AuthCodeURL(ctx context.Context, provider string, state *OAuthState, key string) (string, error) {
	oauthCfg, err := s.GetOAuthConfig(ctx, provider)
	if err != nil {
		return "", err
	}
	return oauthCfg.AuthCodeURL(key, oidc.Nonce(state.Nonce)), nil
}

func (s *OAuthProviderService) ExchangeCode(ctx context.Context, provider string, code string) (*oauth2.Token, error) {
	oauthCfg, err := s.GetOAuthConfig(ctx, provider)
	if err != nil {
		return nil, err
	}

	token, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		logger.Warn("oauth_exchange_failed", map[string]interface{}{
			"provider": provider,
			"error":    err.Error(),
		})
		return nil, errors.New("failed to exchange code for token")
	}

	return token, nil
}

// VerifyIdentity checks the ID token returned with an OAuth token against the
// issuer's keys and the nonce sent with the authorization request.
func (s *OAuthProviderService) VerifyIdentity(ctx context.Context, provider string, token *oauth2.Token, nonce string) (*SSOProfile, error) {
	providerCfg, err := s.providerConfig(provider)
	if err != nil {
		return nil, err
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("provider response did not include an id_token")
	}

	p, err := s.discover(ctx, provider, providerCfg.IssuerURL)
	if err != nil {
		return nil, err
	}

	idToken, err := p.Verifier(&oidc.Config{ClientID: providerCfg.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		logger.Warn("oidc_id_token_invalid", map[string]interface{}{
			"provider": provider,
			"error":    err.Error(),
		})
		return nil, errors.New("invalid id token")
	}
	if idToken.Nonce != nonce {
		return nil, errors.New("id token nonce mismatch")
	}

	var claims identityClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, err
	}

	return claims.profile(strings.ToLower(provider), idToken.Subject), nil
}

type identityClaims struct {
	Email         string      `json:"email"`
	EmailVerified interface{} `json:"email_verified"`
	Name          string      `json:"name"`
	GivenName     string      `json:"given_name"`
	FamilyName    string      `json:"family_name"`
	Picture       string      `json:"picture"`
}

func (c identityClaims) profile(provider, subject string) *SSOProfile {
	name := c.Name
	if name == "" {
		name = strings.TrimSpace(c.GivenName + " " + c.FamilyName)
	}

	profile := &SSOProfile{
		Provider:      provider,
		Subject:       subject,
		Email:         c.Email,
		EmailVerified: claimIsTrue(c.EmailVerified),
		Name:          name,
	}
	if c.Picture != "" {
		picture := c.Picture
		profile.AvatarURL = &picture
	}
	return profile
}

// Some issuers encode email_verified as the string "true".
func claimIsTrue(v interface{}) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		return strings.EqualFold(value, "true")
	default:
		return false
	}
}

func splitScopes(scopes string) []string {
	parts := strings.Split(scopes, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
