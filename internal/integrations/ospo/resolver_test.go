package ospo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/identities/alice":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"alias":"adeline","email":"adeline@example.com","fte":true}`))
		case "/api/v1/identities/ghost":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	r := NewResolver(srv.URL, "tok")
	ctx := context.Background()

	id, ok, err := r.Resolve(ctx, "alice")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !ok || id.Alias != "adeline" || !id.FTE {
		t.Errorf("identity = %+v found=%v, want adeline FTE", id, ok)
	}

	// Unknown logins are not errors.
	_, ok, err = r.Resolve(ctx, "ghost")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ok {
		t.Error("expected ghost to be unknown")
	}

	// Service faults are errors.
	if _, _, err := r.Resolve(ctx, "broken"); err == nil {
		t.Error("expected an error for a 500 response")
	}
}

func TestResolveCaches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"alias":"adeline","fte":true}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL, "")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := r.Resolve(ctx, "alice"); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("identity service called %d times, want 1 (cached)", calls)
	}
}
