package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Payroll"}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	var out struct {
		Name string `json:"name"`
	}
	if err := client.GetJSON(context.Background(), "tok", "/api/v1/thing", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Name != "Payroll" {
		t.Fatalf("decoded = %+v", out)
	}
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"no"}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	err := client.GetJSON(context.Background(), "tok", "/api/v1/thing", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden {
		t.Fatalf("status = %d", apiErr.Status)
	}
	if string(apiErr.Body) != `{"detail":"no"}` {
		t.Fatalf("body = %q", apiErr.Body)
	}
}

func TestPostJSONSendsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content type = %q", got)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	in := map[string]string{"username": "jdoe"}
	if err := client.PostJSON(context.Background(), "", "/api/v1/login", in, nil); err != nil {
		t.Fatalf("post: %v", err)
	}
}
