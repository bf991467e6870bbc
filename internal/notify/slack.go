// Package notify tells a Slack channel when a crawl finishes.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/slack-go/slack"
)

// Summary describes one finished run.
type Summary struct {
	RunID    string
	Term     string
	Status   bool
	Message  string
	Leads    int
	Saved    int
	Duration time.Duration
}

// Slack posts summaries to an incoming webhook.
type Slack struct {
	WebhookURL string
	HTTP       *http.Client
}

func NewSlack(webhookURL string) *Slack {
	return &Slack{WebhookURL: webhookURL, HTTP: &http.Client{Timeout: 10 * time.Second}}
}

func (s *Slack) Notify(ctx context.Context, sum Summary) error {
	if s == nil || s.WebhookURL == "" {
		return nil
	}
	client := s.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, s.WebhookURL, client, Message(sum)); err != nil {
		return fmt.Errorf("failed to post run summary to Slack: %w", err)
	}
	return nil
}

// Message renders a summary as a webhook payload.
func Message(sum Summary) *slack.WebhookMessage {
	icon := ":white_check_mark:"
	if !sum.Status {
		icon = ":warning:"
	}
	title := fmt.Sprintf("%s LinkedIn leads for %q: %d found", icon, sum.Term, sum.Leads)

	var details []string
	if sum.Message != "" {
		details = append(details, sum.Message)
	}
	if sum.Saved > 0 {
		details = append(details, fmt.Sprintf("%d saved to Google Sheets", sum.Saved))
	}
	details = append(details, fmt.Sprintf("took %s", sum.Duration.Round(time.Second)))

	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, title, false, false), nil, nil),
		slack.NewContextBlock("", slack.NewTextBlockObject(slack.MarkdownType, strings.Join(details, " · "), false, false)),
	}
	if sum.RunID != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, "run `"+sum.RunID+"`", false, false)))
	}
	return &slack.WebhookMessage{
		Text:   title,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}
