package sheets

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"403 quota", &googleapi.Error{Code: http.StatusForbidden, Message: "Quota exceeded for quota metric"}, true},
		{"403 other", &googleapi.Error{Code: http.StatusForbidden, Message: "The caller does not have permission"}, false},
		{"wrapped 429", fmt.Errorf("write tab: %w", &googleapi.Error{Code: 429}), true},
		{"text match", errors.New("googleapi: Error: RATE_LIMIT_EXCEEDED"), true},
		{"plain", errors.New("template tab not found"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimit(tt.err))
		})
	}
}

const tokenJSON = `{
	"token": "ya29.test",
	"refresh_token": "1//refresh",
	"token_uri": "https://oauth2.googleapis.com/token",
	"client_id": "client-id.apps.googleusercontent.com",
	"client_secret": "secret"
}`

func TestTokenSource(t *testing.T) {
	t.Run("env material wins", func(t *testing.T) {
		raw, err := TokenSource(base64.StdEncoding.EncodeToString([]byte(tokenJSON)), "ignored.json")
		require.NoError(t, err)
		assert.JSONEq(t, tokenJSON, string(raw))
	})

	t.Run("falls back to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sheets_token.json")
		require.NoError(t, os.WriteFile(path, []byte(tokenJSON), 0o600))

		raw, err := TokenSource("", path)
		require.NoError(t, err)
		assert.JSONEq(t, tokenJSON, string(raw))
	})

	t.Run("bad base64", func(t *testing.T) {
		_, err := TokenSource("%%%not-base64%%%", "")
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := TokenSource("", filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
	})
}

func TestAuthClient(t *testing.T) {
	t.Run("token file credentials suffice", func(t *testing.T) {
		client, err := AuthClient(t.Context(), []byte(tokenJSON), nil)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("rejects empty token", func(t *testing.T) {
		_, err := AuthClient(t.Context(), []byte(`{}`), nil)
		require.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := AuthClient(t.Context(), []byte("not json"), nil)
		require.Error(t, err)
	})
}
