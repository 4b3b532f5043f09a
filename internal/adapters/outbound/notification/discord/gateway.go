package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	nethttp "net/http"
	"strings"
	"time"

	"nexafaucet/internal/application/dto"
	portsout "nexafaucet/internal/application/ports/out"
	"nexafaucet/internal/domain/policies"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

const (
	defaultHTTPTimeout = 5 * time.Second
	maxErrorBodyBytes  = 1024

	embedColor      = 5814783
	explorerTxURL   = "https://explorer.nexa.org/tx/"
	embedFooterText = "Nexa Faucet"
)

type Config struct {
	WebhookURL string
	Timeout    time.Duration
}

// Gateway posts a Discord embed per successful dispense. The coordinator
// treats every returned error as log-only.
type Gateway struct {
	webhookURL string
	client     *nethttp.Client
	logger     *log.Logger
}

var _ portsout.NotificationSink = (*Gateway)(nil)

func NewGateway(cfg Config, logger *log.Logger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Gateway{
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
		client: &nethttp.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []embedField `json:"fields"`
	Timestamp string       `json:"timestamp"`
	Footer    embedFooter  `json:"footer"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

func (g *Gateway) NotifyDispense(ctx context.Context, notification dto.DispenseNotification) *apperrors.AppError {
	if g.webhookURL == "" {
		return apperrors.NewInternal(
			"notification_webhook_missing",
			"discord webhook url is not configured",
			nil,
		)
	}

	payload := webhookPayload{
		Embeds: []embed{{
			Title: "New transaction in faucet",
			Color: embedColor,
			Fields: []embedField{
				{Name: "Address", Value: "`" + notification.Address + "`", Inline: true},
				{Name: "Amount", Value: policies.FormatNEXA(notification.AmountSats) + " NEXA", Inline: true},
				{Name: "TXID", Value: "[View in explorer](" + explorerTxURL + notification.TxID + ")", Inline: false},
			},
			Timestamp: notification.GrantedAt.UTC().Format(time.RFC3339),
			Footer:    embedFooter{Text: embedFooterText},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NewInternal(
			"notification_encode_failed",
			"failed to encode discord payload",
			map[string]any{"error": err.Error()},
		)
	}

	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, g.webhookURL, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewInternal(
			"notification_request_build_failed",
			"failed to build discord request",
			map[string]any{"error": err.Error()},
		)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := g.client.Do(request)
	if err != nil {
		return apperrors.NewInternal(
			"notification_delivery_failed",
			"failed to send discord notification",
			map[string]any{"error": err.Error()},
		)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		bodyPreview := ""
		raw, readErr := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		if readErr == nil {
			bodyPreview = strings.TrimSpace(string(raw))
		}
		return apperrors.NewInternal(
			"notification_delivery_failed",
			"discord webhook returned non-2xx status",
			map[string]any{
				"status_code": response.StatusCode,
				"body":        bodyPreview,
			},
		)
	}

	if g.logger != nil {
		g.logger.Printf("dispense notification delivered txid=%s", notification.TxID)
	}

	return nil
}

// NoopSink is used when no webhook is configured.
type NoopSink struct{}

var _ portsout.NotificationSink = (*NoopSink)(nil)

func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (*NoopSink) NotifyDispense(_ context.Context, _ dto.DispenseNotification) *apperrors.AppError {
	return nil
}
