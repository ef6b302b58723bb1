// Package identity maps a caller's bearer credential to a stable profile
// id via the external identity provider.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"messaging-service/internal/repositories"
)

var (
	// ErrUnauthenticated means the credential is absent or was rejected
	// by the identity provider.
	ErrUnauthenticated = errors.New("credential rejected")
	// ErrProfileNotFound means the credential is valid but no profile row
	// maps to the authenticated identity.
	ErrProfileNotFound = errors.New("no profile for authenticated user")
)

// Resolver resolves a bearer credential to a profile id.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// ProviderConfig holds the identity provider endpoint and API key.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
}

// ProviderResolver asks the identity provider who the token belongs to,
// then looks up the matching profile. Two round trips, no mutation.
type ProviderResolver struct {
	cfg      ProviderConfig
	http     *http.Client
	profiles repositories.ProfileRepository
}

// NewProviderResolver constructs a ProviderResolver.
func NewProviderResolver(cfg ProviderConfig, httpClient *http.Client, profiles repositories.ProfileRepository) *ProviderResolver {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &ProviderResolver{cfg: cfg, http: httpClient, profiles: profiles}
}

func (r *ProviderResolver) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}

	externalID, err := r.fetchExternalID(ctx, token)
	if err != nil {
		return "", err
	}

	profile, err := r.profiles.FindByExternalID(ctx, externalID)
	if err != nil {
		return "", fmt.Errorf("resolve profile: %w", err)
	}
	if profile == nil {
		return "", ErrProfileNotFound
	}
	return profile.ID, nil
}

func (r *ProviderResolver) fetchExternalID(ctx context.Context, token string) (string, error) {
	endpoint := strings.TrimRight(r.cfg.BaseURL, "/") + "/auth/v1/user"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("apikey", r.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity provider responded %d", resp.StatusCode)
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&user); err != nil {
		return "", fmt.Errorf("decode identity response: %w", err)
	}
	if user.ID == "" {
		return "", fmt.Errorf("identity response missing user id")
	}
	return user.ID, nil
}
