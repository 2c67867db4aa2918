// Package notify provides a webhook client for announcing rank promotions
// and reward unlocks to a chat channel.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ecoheroes/recycle-rewards/internal/config"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

// Client handles webhook notifications.
type Client struct {
	webhookURL string
	channel    string
	enabled    bool
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a new webhook client.
func NewClient(cfg *config.NotifyConfig, log *logger.Logger) *Client {
	return &Client{
		webhookURL: cfg.WebhookURL,
		channel:    cfg.Channel,
		enabled:    cfg.Enabled,
		httpClient: http.DefaultClient,
		log:        log,
	}
}

// Message represents a webhook message payload.
type Message struct {
	Channel  string `json:"channel,omitempty"`
	Username string `json:"username,omitempty"`
	Text     string `json:"text,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`
}

// SendMessage sends a message to the configured webhook.
func (c *Client) SendMessage(msg *Message) error {
	if !c.enabled {
		c.log.Debug().Msg("Notifications are disabled, skipping message")
		return nil
	}

	if msg.Channel == "" {
		msg.Channel = c.channel
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	c.log.Debug().
		Str("channel", msg.Channel).
		Msg("Sent webhook message")

	return nil
}

// SendRankPromotion announces a rank promotion.
func (c *Client) SendRankPromotion(username, oldRank, newRank string, totalPoints int) error {
	text := fmt.Sprintf("🏆 **%s** climbed from %s to **%s** (%d lifetime points)!",
		username, oldRank, newRank, totalPoints)
	return c.SendMessage(&Message{
		Username: "Recycle Rewards Bot",
		Text:     text,
	})
}

// SendRewardUnlocked announces a reward unlock.
func (c *Client) SendRewardUnlocked(username, rewardName, source string) error {
	text := fmt.Sprintf("🎁 **%s** unlocked **%s** from the %s!", username, rewardName, source)
	return c.SendMessage(&Message{
		Username: "Recycle Rewards Bot",
		Text:     text,
	})
}
