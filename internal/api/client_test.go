package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdjaved24/mlplay/internal/session"
)

func newTestSession(t *testing.T) *session.Store {
	t.Helper()
	s, err := session.Open(filepath.Join(t.TempDir(), "tokens.json"))
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return s
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	sess := newTestSession(t)
	return New(server.URL, 5*time.Second, sess, zerolog.Nop()), sess
}

func TestLoginStoresTokens(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/login/" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["username"] != "bob" || body["password"] != "secret" {
			t.Errorf("unexpected credentials: %v", body)
		}
		_ = json.NewEncoder(w).Encode(TokenPair{Access: "A", Refresh: "B"})
	}))

	tokens, err := client.Login(context.Background(), "bob", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.Access != "A" || tokens.Refresh != "B" {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
	if !sess.IsAuthenticated() {
		t.Fatalf("session should be authenticated after login")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid credentials"}`))
	}))

	_, err := client.Login(context.Background(), "bob", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "invalid credentials" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if sess.IsAuthenticated() {
		t.Fatalf("failed login must not create a session")
	}
}

func TestAuthedCallAttachesBearer(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("missing bearer header, got %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing request id header")
		}
		_ = json.NewEncoder(w).Encode(Profile{Username: "bob"})
	}))
	if err := sess.Set("tok", "ref"); err != nil {
		t.Fatalf("set session: %v", err)
	}

	profile, err := client.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Username != "bob" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestExpiredSessionClearedOnce(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "token expired"}`))
	}))
	if err := sess.Set("stale", "ref"); err != nil {
		t.Fatalf("set session: %v", err)
	}

	_, err := client.Profile(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if sess.IsAuthenticated() {
		t.Fatalf("session should be cleared after 401")
	}

	// With no token left, the next call short-circuits before the network.
	_, err = client.Profile(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired on cleared session, got %v", err)
	}
}

func TestErrorBodyShapes(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		body      string
		wantMsg   string
		wantField string
	}{
		{"error key", 400, `{"error": "bad config"}`, "bad config", ""},
		{"message key", 400, `{"message": "missing dataset"}`, "missing dataset", ""},
		{"detail key", 404, `{"detail": "not found"}`, "not found", ""},
		{"field errors", 400, `{"current_password": ["wrong password"]}`, "wrong password", "current_password"},
		{"empty 5xx", 500, ``, "server error, please try again", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			_, err := client.SecretQuestions(context.Background())
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Message != tc.wantMsg {
				t.Fatalf("message = %q, want %q", apiErr.Message, tc.wantMsg)
			}
			if tc.wantField != "" && apiErr.FieldError(tc.wantField) == "" {
				t.Fatalf("expected field error for %q: %+v", tc.wantField, apiErr.Fields)
			}
		})
	}
}

func TestDatasetPreviewMultipart(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "iris.csv")
	if err := os.WriteFile(csvPath, []byte("a,b\n1,x\n"), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("row_count"); got != "10" {
			t.Errorf("row_count = %q, want 10", got)
		}
		file, header, err := r.FormFile("dataset")
		if err != nil {
			t.Errorf("missing dataset part: %v", err)
		} else {
			_ = file.Close()
			if header.Filename != "iris.csv" {
				t.Errorf("filename = %q", header.Filename)
			}
		}
		_ = json.NewEncoder(w).Encode(DatasetPreview{
			Columns:     []string{"a", "b"},
			ColumnTypes: map[string]string{"a": "numeric", "b": "categorical"},
		})
	}))

	preview, err := client.DatasetPreview(context.Background(), csvPath, 10)
	if err != nil {
		t.Fatalf("dataset preview: %v", err)
	}
	if len(preview.Columns) != 2 || preview.ColumnTypes["b"] != "categorical" {
		t.Fatalf("unexpected preview: %+v", preview)
	}
}

func TestLogoutClearsSessionEvenOnError(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "bad token"}`))
	}))
	if err := sess.Set("tok", "ref"); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if err := client.Logout(context.Background()); err == nil {
		t.Fatalf("expected logout error")
	}
	if sess.IsAuthenticated() {
		t.Fatalf("logout must clear the local session regardless")
	}
}
