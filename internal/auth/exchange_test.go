package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPIdentityExchanger_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Session-ID"); got != "one-time-id" {
			t.Errorf("X-Session-ID = %q, want %q", got, "one-time-id")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email":"a@example.com","name":"A","picture":"https://example.com/a.png","session_token":"tok-1"}`))
	}))
	defer server.Close()

	exchanger := NewHTTPIdentityExchanger(server.URL, server.Client())

	result, err := exchanger.Exchange(context.Background(), "one-time-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Email != "a@example.com" {
		t.Errorf("email = %q, want %q", result.Email, "a@example.com")
	}
	if result.SessionToken != "tok-1" {
		t.Errorf("sessionToken = %q, want %q", result.SessionToken, "tok-1")
	}
}

func TestHTTPIdentityExchanger_Non200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid session", http.StatusUnauthorized)
	}))
	defer server.Close()

	exchanger := NewHTTPIdentityExchanger(server.URL, server.Client())

	if _, err := exchanger.Exchange(context.Background(), "bad-id"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestHTTPIdentityExchanger_EmptyEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"","session_token":"tok-1"}`))
	}))
	defer server.Close()

	exchanger := NewHTTPIdentityExchanger(server.URL, server.Client())

	if _, err := exchanger.Exchange(context.Background(), "id"); err == nil {
		t.Fatal("expected error for empty email")
	}
}

func TestHTTPIdentityExchanger_EmptySessionToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"a@example.com","session_token":""}`))
	}))
	defer server.Close()

	exchanger := NewHTTPIdentityExchanger(server.URL, server.Client())

	if _, err := exchanger.Exchange(context.Background(), "id"); err == nil {
		t.Fatal("expected error for empty session token")
	}
}

func TestHTTPIdentityExchanger_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	exchanger := NewHTTPIdentityExchanger(server.URL, server.Client())

	if _, err := exchanger.Exchange(context.Background(), "id"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestHTTPIdentityExchanger_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	exchanger := NewHTTPIdentityExchanger(server.URL, nil)

	if _, err := exchanger.Exchange(context.Background(), "id"); err == nil {
		t.Fatal("expected error for unreachable oracle")
	}
}
