package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGet(t *testing.T) {
	const record = "@article{DBLP:a,\n  title = {T}\n}\n"

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(record))
	}))
	defer srv.Close()

	c := NewClient(WithRateLimit(1000))
	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if body != record {
		t.Errorf("Get() = %q, want %q", body, record)
	}
	if gotUA == "" {
		t.Errorf("Get() should send a User-Agent header")
	}
}

func TestGet_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(WithRateLimit(1000))
	_, err := c.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Get() on 404 should fail")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
}

func TestGet_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithRateLimit(1000))
	_, err := c.Get(context.Background(), srv.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Get() on 500 = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", statusErr.StatusCode)
	}
	if IsNotFound(err) {
		t.Errorf("IsNotFound should be false for a 500")
	}
}

func TestGet_RateLimitedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(WithRateLimit(1000))
	_, err := c.Get(context.Background(), srv.URL)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("Get() on 429 = %v, want ErrRateLimited", err)
	}
}

func TestGet_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(WithRateLimit(1000))
	_, err := c.Get(context.Background(), srv.URL)
	if !errors.Is(err, ErrNetworkError) {
		t.Errorf("Get() against closed server = %v, want ErrNetworkError", err)
	}
}

func TestGet_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Rate is low so the limiter wait observes the canceled context.
	c := NewClient(WithRateLimit(0.001))
	if _, err := c.Get(ctx, "http://127.0.0.1:0"); err == nil {
		t.Error("Get() with canceled context should fail")
	}
}
