// Package notification handles sending notifications to external services.
package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/containrrr/shoutrrr"
	"github.com/zorak1103/okrtree/internal/config"
	"github.com/zorak1103/okrtree/internal/hierarchy"
)

// sendFunc delivers a message to a Shoutrrr URL.
type sendFunc func(url, message string) error

// Notifier handles sending notifications via Shoutrrr
type Notifier struct {
	enabled     bool
	shoutrrrURL string
	send        sendFunc
}

// NewNotifier initializes a Shoutrrr-based notification client from config.
func NewNotifier(cfg *config.Config) (*Notifier, error) {
	if !cfg.Notification.Enabled {
		return &Notifier{enabled: false}, nil
	}

	url := strings.TrimSpace(cfg.Notification.ShoutrrURL)
	if url == "" {
		return &Notifier{enabled: false}, fmt.Errorf("notification enabled but shoutrrr_url not configured: provide URL in format 'service://credentials' (e.g., slack://token@channel, discord://token@webhookid)")
	}

	return &Notifier{
		enabled:     true,
		shoutrrrURL: url,
		send: func(url, message string) error {
			return shoutrrr.Send(url, message)
		},
	}, nil
}

// FormatSummary builds the notification body: a header followed by one line
// per life domain and a total line.
func FormatSummary(tree *hierarchy.Tree, source string, locale hierarchy.Locale) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	var sb strings.Builder
	sb.WriteString("🎯 OKR Report\n")
	sb.WriteString(fmt.Sprintf("📅 Time: %s\n", timestamp))
	if source != "" {
		sb.WriteString(fmt.Sprintf("🗄️ Source: %s\n", source))
	}
	sb.WriteString(fmt.Sprintf("🏛️ Life domains: %d\n\n", tree.Len()))

	for _, d := range tree.SortedDomains() {
		c := d.Counts()
		sb.WriteString(fmt.Sprintf("• %s: %d goals, %d objectives, %d key results\n",
			d.Info.Title.In(locale), c.Goals, c.Objectives, c.KeyResults))
	}

	total := tree.Totals()
	sb.WriteString(fmt.Sprintf("\nTotal: %d goals, %d objectives, %d key results\n",
		total.Goals, total.Objectives, total.KeyResults))
	return sb.String()
}

// SendSummary delivers the report summary via the configured notification channel.
func (n *Notifier) SendSummary(tree *hierarchy.Tree, source string, locale hierarchy.Locale) error {
	if !n.enabled {
		return nil // Notifications disabled
	}

	if err := n.send(n.shoutrrrURL, FormatSummary(tree, source, locale)); err != nil {
		// Extract service type from URL (e.g., "slack://..." -> "slack")
		serviceType := "unknown"
		if idx := strings.Index(n.shoutrrrURL, "://"); idx > 0 {
			serviceType = n.shoutrrrURL[:idx]
		}
		return fmt.Errorf("notification failed to send via %s (life domains: %d): %w", serviceType, tree.Len(), err)
	}

	return nil
}

// IsEnabled reports whether notifications are configured and active.
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}
