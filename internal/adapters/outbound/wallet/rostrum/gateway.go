package rostrum

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log"
	nethttp "net/http"
	"strings"
	"sync"
	"time"

	portsout "nexafaucet/internal/application/ports/out"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	maxErrorBodyBytes  = 1024
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Gateway talks to a rostrum-backed wallet service over HTTP JSON. The
// service owns keys, UTXO selection and broadcast; this side only interprets
// outcomes: 4xx means the wallet refused before broadcast, a deadline means
// the outcome is unknown.
type Gateway struct {
	baseURL string
	client  *nethttp.Client
	logger  *log.Logger

	addressMu sync.Mutex
	address   string
}

var _ portsout.WalletGateway = (*Gateway)(nil)

func NewGateway(cfg Config, logger *log.Logger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Gateway{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		client: &nethttp.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type balanceResponse struct {
	BalanceSats int64 `json:"balance_sats"`
}

func (g *Gateway) GetBalance(ctx context.Context) (int64, *apperrors.AppError) {
	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, g.baseURL+"/balance", nil)
	if err != nil {
		return 0, apperrors.NewInternal(
			"wallet_request_build_failed",
			"failed to build wallet balance request",
			map[string]any{"error": err.Error()},
		)
	}

	response, err := g.client.Do(request)
	if err != nil {
		return 0, apperrors.NewInternal(
			"wallet_unreachable",
			"failed to reach wallet service",
			map[string]any{"error": err.Error()},
		)
	}
	defer response.Body.Close()

	if response.StatusCode != nethttp.StatusOK {
		return 0, apperrors.NewInternal(
			"wallet_balance_failed",
			"wallet service returned non-200 for balance",
			map[string]any{
				"status_code": response.StatusCode,
				"body":        readBodyPreview(response.Body),
			},
		)
	}

	payload := balanceResponse{}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return 0, apperrors.NewInternal(
			"wallet_balance_invalid",
			"wallet service returned an invalid balance payload",
			map[string]any{"error": err.Error()},
		)
	}

	return payload.BalanceSats, nil
}

type sendRequest struct {
	Address    string `json:"address"`
	AmountSats int64  `json:"amount_sats"`
}

type sendResponse struct {
	TxID string `json:"txid"`
}

func (g *Gateway) Send(ctx context.Context, address string, amountSats int64) (string, *apperrors.AppError) {
	body, err := json.Marshal(sendRequest{Address: address, AmountSats: amountSats})
	if err != nil {
		return "", apperrors.NewInternal(
			portsout.CodeSendRejected,
			"failed to encode wallet send request",
			map[string]any{"error": err.Error()},
		)
	}

	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, g.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return "", apperrors.NewInternal(
			portsout.CodeSendRejected,
			"failed to build wallet send request",
			map[string]any{"error": err.Error()},
		)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := g.client.Do(request)
	if err != nil {
		// Once the request may have left the process the outcome is
		// indeterminate: a timeout does not prove the broadcast failed.
		code := portsout.CodeSendUnknown
		if isTimeout(ctx, err) {
			code = portsout.CodeSendTimeout
		}
		g.logf("wallet send transport failure code=%s error=%v", code, err)
		return "", apperrors.NewInternal(
			code,
			"wallet send outcome could not be confirmed",
			map[string]any{"error": err.Error()},
		)
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 && response.StatusCode < 500 {
		return "", apperrors.NewInternal(
			portsout.CodeSendRejected,
			"wallet service rejected the send",
			map[string]any{
				"status_code": response.StatusCode,
				"body":        readBodyPreview(response.Body),
			},
		)
	}
	if response.StatusCode != nethttp.StatusOK {
		return "", apperrors.NewInternal(
			portsout.CodeSendUnknown,
			"wallet service returned an unexpected status for send",
			map[string]any{
				"status_code": response.StatusCode,
				"body":        readBodyPreview(response.Body),
			},
		)
	}

	payload := sendResponse{}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return "", apperrors.NewInternal(
			portsout.CodeSendUnknown,
			"wallet service returned an invalid send payload",
			map[string]any{"error": err.Error()},
		)
	}
	if strings.TrimSpace(payload.TxID) == "" {
		return "", apperrors.NewInternal(
			portsout.CodeSendUnknown,
			"wallet service returned an empty txid",
			nil,
		)
	}

	return payload.TxID, nil
}

type addressResponse struct {
	Address string `json:"address"`
}

// FaucetAddress fetches the wallet's receiving address and caches the first
// successful answer. Returns an empty string while the wallet is unreachable;
// callers render it as-is on the public status endpoint.
func (g *Gateway) FaucetAddress() string {
	g.addressMu.Lock()
	defer g.addressMu.Unlock()

	if g.address != "" {
		return g.address
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.client.Timeout)
	defer cancel()

	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, g.baseURL+"/address", nil)
	if err != nil {
		return ""
	}

	response, err := g.client.Do(request)
	if err != nil {
		g.logf("wallet address fetch failed error=%v", err)
		return ""
	}
	defer response.Body.Close()

	if response.StatusCode != nethttp.StatusOK {
		g.logf("wallet address fetch returned status=%d", response.StatusCode)
		return ""
	}

	payload := addressResponse{}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return ""
	}

	g.address = strings.TrimSpace(payload.Address)
	return g.address
}

func isTimeout(ctx context.Context, err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

func readBodyPreview(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func (g *Gateway) logf(format string, args ...any) {
	if g.logger == nil {
		return
	}
	g.logger.Printf(format, args...)
}
