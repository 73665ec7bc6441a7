package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ArgusIntel/internal/domain"
	"ArgusIntel/internal/ports"
)

// Notifier pushes alert messages to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  "https://api.telegram.org",
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// PublishAlerts posts one Markdown message summarizing the record's alerts.
// Records without alerts are a no-op.
func (n *Notifier) PublishAlerts(ctx context.Context, rec domain.IntelligenceRecord) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}
	if len(rec.Alerts) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", buildAlertMessage(rec))
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

func buildAlertMessage(rec domain.IntelligenceRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s threat detected*\n%s\n%s\n", rec.Level.String(), rec.Article.Title, rec.Article.URL)
	for _, alert := range rec.Alerts {
		fmt.Fprintf(&b, "- [%s] %s\n", alert.Type, alert.Description)
	}
	return b.String()
}
