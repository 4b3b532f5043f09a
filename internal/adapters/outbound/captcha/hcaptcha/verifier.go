package hcaptcha

import (
	"context"
	"encoding/json"
	"log"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	portsout "nexafaucet/internal/application/ports/out"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

const (
	defaultVerifyURL   = "https://api.hcaptcha.com/siteverify"
	defaultHTTPTimeout = 5 * time.Second
)

type Config struct {
	Secret    string
	VerifyURL string
	Timeout   time.Duration
}

// Verifier checks dispense requests against the hCaptcha siteverify API.
// The token is opaque; only the boolean outcome matters.
type Verifier struct {
	secret    string
	verifyURL string
	client    *nethttp.Client
	logger    *log.Logger
}

var _ portsout.CaptchaVerifier = (*Verifier)(nil)

func NewVerifier(cfg Config, logger *log.Logger) *Verifier {
	verifyURL := strings.TrimSpace(cfg.VerifyURL)
	if verifyURL == "" {
		verifyURL = defaultVerifyURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Verifier{
		secret:    strings.TrimSpace(cfg.Secret),
		verifyURL: verifyURL,
		client: &nethttp.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

func (v *Verifier) Verify(ctx context.Context, token string, remoteIP string) *apperrors.AppError {
	if strings.TrimSpace(token) == "" {
		return apperrors.NewValidation(
			"captcha_failed",
			"captcha token is required",
			map[string]any{"field": "captcha"},
		)
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.NewInternal(
			"captcha_unavailable",
			"failed to build captcha verification request",
			map[string]any{"error": err.Error()},
		)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := v.client.Do(request)
	if err != nil {
		v.logf("captcha verification unreachable error=%v", err)
		return apperrors.NewInternal(
			"captcha_unavailable",
			"captcha verification service is unreachable",
			map[string]any{"error": err.Error()},
		)
	}
	defer response.Body.Close()

	if response.StatusCode != nethttp.StatusOK {
		v.logf("captcha verification returned status=%d", response.StatusCode)
		return apperrors.NewInternal(
			"captcha_unavailable",
			"captcha verification service returned non-200 status",
			map[string]any{"status_code": response.StatusCode},
		)
	}

	payload := siteverifyResponse{}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return apperrors.NewInternal(
			"captcha_unavailable",
			"captcha verification response is invalid",
			map[string]any{"error": err.Error()},
		)
	}

	if !payload.Success {
		return apperrors.NewValidation(
			"captcha_failed",
			"captcha verification failed",
			map[string]any{"error_codes": payload.ErrorCodes},
		)
	}

	return nil
}

// DisabledVerifier passes every request. Used when no secret is configured.
type DisabledVerifier struct{}

var _ portsout.CaptchaVerifier = (*DisabledVerifier)(nil)

func NewDisabledVerifier() *DisabledVerifier {
	return &DisabledVerifier{}
}

func (*DisabledVerifier) Verify(_ context.Context, _ string, _ string) *apperrors.AppError {
	return nil
}

func (v *Verifier) logf(format string, args ...any) {
	if v.logger == nil {
		return
	}
	v.logger.Printf(format, args...)
}
