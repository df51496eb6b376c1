package clerk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leozw/clerk-user-sync/internal/config"
	"go.uber.org/zap"
)

func TestClient_SetUserID(t *testing.T) {
	var gotBody map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/users/user_123/metadata") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user_123","object":"user"}`))
	}))
	defer srv.Close()

	client := NewClient(config.ClerkConfig{SecretKey: "sk_test_key", APIURL: srv.URL}, zap.NewNop())
	if err := client.SetUserID(context.Background(), "user_123", "0b8f3c2e-0000-4000-8000-000000000001"); err != nil {
		t.Fatalf("set user id: %v", err)
	}

	var meta publicMetadata
	if err := json.Unmarshal(gotBody["public_metadata"], &meta); err != nil {
		t.Fatalf("decode public_metadata: %v", err)
	}
	if meta.UserID != "0b8f3c2e-0000-4000-8000-000000000001" {
		t.Fatalf("unexpected userId %q", meta.UserID)
	}
}

func TestClient_SetUserIDPropagatesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"code":"resource_not_found","message":"not found"}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.ClerkConfig{SecretKey: "sk_test_key", APIURL: srv.URL}, zap.NewNop())
	if err := client.SetUserID(context.Background(), "user_missing", "id"); err == nil {
		t.Fatalf("expected error from API")
	}
}
