package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Kind defines the severity level of a notification
type Kind string

const (
	// ErrorKind represents a failed sync run requiring attention
	ErrorKind Kind = "error"
	// SuccessKind represents a completed sync run
	SuccessKind Kind = "success"
)

// Notifier delivers end-of-run reports via Mailgun. A zero-credential
// notifier is valid and silently skips delivery, so the pipeline never
// depends on email being configured.
type Notifier struct {
	domain string
	apiKey string
	to     string

	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func New(domain, apiKey, to string) *Notifier {
	return &Notifier{
		domain:     domain,
		apiKey:     apiKey,
		to:         to,
		baseURL:    "https://api.mailgun.net/v3",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

// Enabled reports whether the notifier has everything it needs to send.
func (n *Notifier) Enabled() bool {
	return n.domain != "" && n.apiKey != "" && n.to != ""
}

// Send delivers one notification. Delivery problems are returned so the
// caller can log them, but callers are expected to treat them as
// non-fatal: a sync run never fails because email did.
func (n *Notifier) Send(ctx context.Context, kind Kind, message, details string) error {
	log.Printf("[%s] %s: %s", strings.ToUpper(string(kind)), message, details)

	if !n.Enabled() {
		return nil
	}

	var subject string
	switch kind {
	case ErrorKind:
		subject = fmt.Sprintf("🚨 [ERROR] Order Sync: %s", message)
	case SuccessKind:
		subject = fmt.Sprintf("✅ [SUCCESS] Order Sync: %s", message)
	default:
		subject = fmt.Sprintf("ℹ️ [INFO] Order Sync: %s", message)
	}

	emailContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { padding: 15px; border-radius: 5px; margin-bottom: 20px; }
    .success { background-color: #f0fff4; border-left: 4px solid #48bb78; }
    .error { background-color: #fff5f5; border-left: 4px solid #f56565; }
    .info { background-color: #ebf8ff; border-left: 4px solid #4299e1; }
    .details { background-color: #f7fafc; padding: 15px; border-radius: 5px; white-space: pre-wrap; font-family: ui-monospace, Menlo, Monaco, Consolas, monospace; font-size: 14px; }
    .meta { color: #718096; font-size: 0.9em; margin-top: 20px; border-top: 1px solid #e2e8f0; padding-top: 15px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header %s">
      <h2>%s</h2>
    </div>
    <div class="details">%s</div>
    <div class="meta">
      <p><strong>Time:</strong> %s</p>
      <p><em>This is an automated notification from the order sync job.</em></p>
    </div>
  </div>
</body>
</html>
	`,
		string(kind),
		message,
		details,
		n.now().Format(time.RFC3339))

	formData := url.Values{}
	formData.Set("from", fmt.Sprintf("Order Sync <order-sync@%s>", n.domain))
	formData.Set("to", n.to)
	formData.Set("subject", subject)
	formData.Set("html", emailContent)

	endpoint := fmt.Sprintf("%s/%s/messages", n.baseURL, n.domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(formData.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.SetBasicAuth("api", n.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mailgun API returned error status: %d, body: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Success sends a completed-run notification.
func (n *Notifier) Success(ctx context.Context, message, details string) error {
	return n.Send(ctx, SuccessKind, message, details)
}

// Error sends a failed-run notification.
func (n *Notifier) Error(ctx context.Context, message, details string) error {
	return n.Send(ctx, ErrorKind, message, details)
}
