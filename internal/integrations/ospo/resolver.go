// Package ospo resolves source-tracker logins to organizational identities
// through the OSPO identity service. The engine uses the FTE flag to decide
// assignment eligibility.
package ospo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/repoflow/repoflow/internal/core/engine"
)

// Resolver is an HTTP client for the identity service. Lookups are cached
// for the lifetime of the resolver; identities change far less often than
// webhook deliveries arrive.
type Resolver struct {
	baseURL    string
	token      string
	httpClient *http.Client

	mu    sync.Mutex
	cache map[string]cached
}

type cached struct {
	identity engine.Identity
	found    bool
}

// identityResponse is the service's wire format.
type identityResponse struct {
	Alias string `json:"alias"`
	Email string `json:"email"`
	FTE   bool   `json:"fte"`
}

// NewResolver creates a resolver for the service at baseURL. token may be
// empty for services that authenticate by network location.
func NewResolver(baseURL, token string) *Resolver {
	return &Resolver{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{},
		cache:      make(map[string]cached),
	}
}

// Resolve maps a login to an organizational identity. The second return is
// false when the service does not know the login; that is not an error.
func (r *Resolver) Resolve(ctx context.Context, login string) (engine.Identity, bool, error) {
	r.mu.Lock()
	if hit, ok := r.cache[login]; ok {
		r.mu.Unlock()
		return hit.identity, hit.found, nil
	}
	r.mu.Unlock()

	endpoint := fmt.Sprintf("%s/api/v1/identities/%s", r.baseURL, url.PathEscape(login))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return engine.Identity{}, false, err
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return engine.Identity{}, false, fmt.Errorf("identity lookup for %q failed: %w", login, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return engine.Identity{}, false, fmt.Errorf("failed to read identity response: %w", err)
		}
		var payload identityResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return engine.Identity{}, false, fmt.Errorf("failed to parse identity response: %w", err)
		}
		identity := engine.Identity{Alias: payload.Alias, Email: payload.Email, FTE: payload.FTE}
		r.store(login, identity, true)
		return identity, true, nil

	case http.StatusNotFound:
		r.store(login, engine.Identity{}, false)
		return engine.Identity{}, false, nil

	default:
		return engine.Identity{}, false, fmt.Errorf("identity service returned %d for %q", resp.StatusCode, login)
	}
}

func (r *Resolver) store(login string, identity engine.Identity, found bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[login] = cached{identity: identity, found: found}
}
