package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubRateLimitStore struct {
	counts map[string]int64
	ttls   map[string]time.Duration
}

func newStubRateLimitStore() *stubRateLimitStore {
	return &stubRateLimitStore{
		counts: map[string]int64{},
		ttls:   map[string]time.Duration{},
	}
}

func (s *stubRateLimitStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.counts[key]++
	if _, ok := s.ttls[key]; !ok {
		s.ttls[key] = ttl
	}
	return s.counts[key], nil
}

func loginRequest(username, ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"`+username+`","password":"x"}`))
	req.Header.Set("X-Forwarded-For", ip)
	return req
}

func TestAuthRateLimitBlocksIPAfterLimit(t *testing.T) {
	store := newStubRateLimitStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)

	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("alice", "10.0.0.1"))
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("alice", "10.0.0.1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	envelope := decodeError(t, rec)
	if envelope.Error.Code != "RATE_LIMIT_EXCEEDED" {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}

	// a different address is not affected
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("alice", "10.0.0.2"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for fresh ip, got %d", rec.Code)
	}
}

func TestAuthRateLimitBlocksUsernameAcrossIPs(t *testing.T) {
	store := newStubRateLimitStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)

	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("Alice", "10.0.0."+string(rune('1'+i))))
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	// casing must not reset the counter
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("alice", "10.0.0.9"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	// keys carry a hash, never the raw username
	for key := range store.counts {
		if strings.Contains(key, "alice") {
			t.Fatalf("raw username leaked into key %q", key)
		}
		if !strings.HasPrefix(key, "rl:user:login:") {
			t.Fatalf("unexpected key shape %q", key)
		}
	}
}

func TestAuthRateLimitPreservesBody(t *testing.T) {
	store := newStubRateLimitStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 5)

	var body string
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read body downstream: %v", err)
		}
		body = string(raw)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("alice", "10.0.0.1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(body, `"username":"alice"`) {
		t.Fatalf("downstream handler got truncated body %q", body)
	}
}

func TestAuthRateLimitNoStoreIsNoop(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 1)
	handler := AuthRateLimit(policy, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("alice", "10.0.0.1"))
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 without a store, got %d", i+1, rec.Code)
		}
	}
}

func TestAuthRateLimitDisabledPolicyIsNoop(t *testing.T) {
	store := newStubRateLimitStore()
	policy := NewAuthRateLimitPolicy("login", 0, 10, 10)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("alice", "10.0.0.1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(store.counts) != 0 {
		t.Fatalf("disabled policy must not touch the store, got %v", store.counts)
	}
}
