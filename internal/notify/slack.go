// Package notify posts the alert summary to Slack when a bot token is
// configured.
package notify

import (
	"fmt"
	"strings"

	"github.com/fleetsmart/fleetsmart/internal/alerts"
	"github.com/slack-go/slack"
)

// SlackNotifier posts alert summaries to a Slack channel.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewSlackNotifier creates a notifier, or nil when no token is configured.
func NewSlackNotifier(token, channel string) *SlackNotifier {
	if token == "" {
		return nil
	}
	return &SlackNotifier{
		client:  slack.New(token),
		channel: channel,
	}
}

// PostSummary formats and posts the alert summary.
func (n *SlackNotifier) PostSummary(summary alerts.Summary, formatted []alerts.FormattedAlert) error {
	text := FormatSummary(summary, formatted)
	_, _, err := n.client.PostMessage(n.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("posting alert summary to %s: %w", n.channel, err)
	}
	return nil
}

// FormatSummary renders the alert summary as Slack markdown.
func FormatSummary(summary alerts.Summary, formatted []alerts.FormattedAlert) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("*Fleet Alert Summary: %s*\n", summary.Status))
	sb.WriteString(fmt.Sprintf("%d alerts: %d critical, %d warning, %d info\n",
		summary.Counts.Total, summary.Counts.Critical, summary.Counts.Warning, summary.Counts.Info))

	if len(summary.TopCritical) > 0 {
		sb.WriteString("\n*Top Critical*\n")
		for _, a := range summary.TopCritical {
			sb.WriteString(fmt.Sprintf("• %s: %s\n", a.Title, a.Message))
		}
	}

	if summary.NeedsAttention && len(formatted) > 0 {
		sb.WriteString("\n*All Alerts*\n")
		for _, a := range formatted {
			sb.WriteString(fmt.Sprintf("%s %s [%s] %s: %s\n",
				a.Icon, a.SourceIcon, a.Source, a.Title, a.Message))
		}
	}

	return sb.String()
}
