package cmd

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestConnectKeepsTokenUnlessRejected(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kept   bool
	}{
		{"rejected", http.StatusUnauthorized, false},
		{"server error", http.StatusServiceUnavailable, true},
		{"forbidden", http.StatusForbidden, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"error":"nope"}`)
			}))
			defer srv.Close()

			tokenFile := filepath.Join(t.TempDir(), "token")
			if err := os.WriteFile(tokenFile, []byte("token-123\n"), 0o600); err != nil {
				t.Fatal(err)
			}

			e := &Env{ServerURL: srv.URL, TokenFile: tokenFile, Out: io.Discard}
			if err := e.Connect(context.Background()); err != nil {
				t.Fatalf("Connect: %v", err)
			}

			_, err := os.Stat(tokenFile)
			if kept := err == nil; kept != tt.kept {
				t.Errorf("token kept = %v, want %v", kept, tt.kept)
			}
			if e.Client.Session.User() != nil {
				t.Error("session restored from a refused token")
			}
		})
	}
}

func TestConnectUnreachableKeepsToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tokenFile := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(tokenFile, []byte("token-123\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	e := &Env{ServerURL: url, TokenFile: tokenFile, Out: io.Discard}
	if err := e.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := os.Stat(tokenFile); err != nil {
		t.Errorf("token removed while the server was down: %v", err)
	}
}
