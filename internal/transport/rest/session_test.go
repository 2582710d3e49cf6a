package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSession_Headers(t *testing.T) {
	var gotAuth, gotContentType, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	s := NewSession(Config{BaseURL: srv.URL, APIKey: "secret"})
	resp, err := s.Do(context.Background(), http.MethodPost, "/v0/test", []byte(`{}`))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !resp.Success() {
		t.Errorf("status = %d, want 2xx", resp.StatusCode)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotRequestID == "" {
		t.Error("X-Request-Id not set")
	}
}

func TestSession_NoBodyOmitsContentType(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewSession(Config{BaseURL: srv.URL, APIKey: "secret"})
	resp, err := s.Do(context.Background(), http.MethodDelete, "/v0/test", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if gotContentType != "" {
		t.Errorf("Content-Type = %q, want empty", gotContentType)
	}
}

func TestSession_ErrorStatusIsNotTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewSession(Config{BaseURL: srv.URL, APIKey: "secret"})
	resp, err := s.Do(context.Background(), http.MethodGet, "/v0/test", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.Success() {
		t.Error("Success() = true for 502")
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestSession_ConnectionFailure(t *testing.T) {
	s := NewSession(Config{BaseURL: "http://127.0.0.1:1", APIKey: "secret"})
	if _, err := s.Do(context.Background(), http.MethodGet, "/v0/test", nil); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestSession_ContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(Config{BaseURL: srv.URL, APIKey: "secret"})
	if _, err := s.Do(ctx, http.MethodGet, "/v0/test", nil); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
