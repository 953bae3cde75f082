package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	t.Run("posts a mailgun form message", func(t *testing.T) {
		var gotPath, gotUser string
		var gotForm map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotUser, _, _ = r.BasicAuth()
			require.NoError(t, r.ParseForm())
			gotForm = map[string]string{
				"from":    r.PostForm.Get("from"),
				"to":      r.PostForm.Get("to"),
				"subject": r.PostForm.Get("subject"),
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		n := New("mg.example.com", "key-123", "ops@example.com")
		n.baseURL = srv.URL
		n.now = func() time.Time { return time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC) }

		err := n.Success(context.Background(), "Sync complete", "fetched=12 matched=4")
		require.NoError(t, err)

		assert.Equal(t, "/mg.example.com/messages", gotPath)
		assert.Equal(t, "api", gotUser)
		assert.Equal(t, "Order Sync <order-sync@mg.example.com>", gotForm["from"])
		assert.Equal(t, "ops@example.com", gotForm["to"])
		assert.Equal(t, "✅ [SUCCESS] Order Sync: Sync complete", gotForm["subject"])
	})

	t.Run("error kind changes the subject", func(t *testing.T) {
		var subject string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			subject = r.PostForm.Get("subject")
		}))
		defer srv.Close()

		n := New("mg.example.com", "key-123", "ops@example.com")
		n.baseURL = srv.URL

		require.NoError(t, n.Error(context.Background(), "Sync failed", "shopify: pagination halted"))
		assert.Equal(t, "🚨 [ERROR] Order Sync: Sync failed", subject)
	})

	t.Run("api rejection surfaces status and body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Forbidden", http.StatusUnauthorized)
		}))
		defer srv.Close()

		n := New("mg.example.com", "bad-key", "ops@example.com")
		n.baseURL = srv.URL

		err := n.Send(context.Background(), ErrorKind, "Sync failed", "details")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("unconfigured notifier is a no-op", func(t *testing.T) {
		n := New("", "", "")
		assert.False(t, n.Enabled())
		assert.NoError(t, n.Send(context.Background(), SuccessKind, "Sync complete", ""))
	})
}
