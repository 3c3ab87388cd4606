// Package notify delivers best-effort project notifications to a Slack
// incoming webhook. Delivery runs off the request path; failures are logged
// and never reach the caller.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamtrack/tracker-api/internal/api/metrics"
)

const sendTimeout = 5 * time.Second

// Dedup abstracts the duplicate-suppression store (Redis).
type Dedup interface {
	Seen(ctx context.Context, channel, message string) (bool, error)
	Mark(ctx context.Context, channel, message string) error
}

// SlackNotifier posts messages to a Slack incoming webhook. An empty
// webhook URL disables delivery entirely, which keeps local development
// quiet without extra configuration.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
	dedup      Dedup
	log        zerolog.Logger
}

func NewSlackNotifier(webhookURL string, dedup Dedup, log zerolog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: sendTimeout},
		dedup:      dedup,
		log:        log,
	}
}

type slackPayload struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

// Notify sends the message to the channel in the background. The caller's
// response is never delayed or altered by the outcome.
func (n *SlackNotifier) Notify(channelKey, message string) {
	if n.webhookURL == "" || channelKey == "" || message == "" {
		return
	}
	go n.send(channelKey, message)
}

func (n *SlackNotifier) send(channel, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if n.dedup != nil {
		seen, err := n.dedup.Seen(ctx, channel, message)
		if err != nil {
			n.log.Warn().Err(err).Str("channel", channel).Msg("notify dedup check failed, sending anyway")
		} else if seen {
			metrics.NotificationsTotal.WithLabelValues("deduplicated").Inc()
			return
		}
	}

	body, err := json.Marshal(slackPayload{Channel: channel, Text: message})
	if err != nil {
		n.log.Error().Err(err).Str("channel", channel).Msg("notification payload marshal failed")
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		n.log.Error().Err(err).Msg("notification request build failed")
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Warn().Err(err).Str("channel", channel).Msg("notification delivery failed")
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.log.Warn().Int("status", resp.StatusCode).Str("channel", channel).Msg("notification rejected by webhook")
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return
	}

	if n.dedup != nil {
		if err := n.dedup.Mark(ctx, channel, message); err != nil {
			n.log.Warn().Err(err).Str("channel", channel).Msg("failed to set notify dedup key")
		}
	}

	n.log.Debug().Str("channel", channel).Msg("notification delivered")
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
}
