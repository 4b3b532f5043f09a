package controllers

import (
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"strings"

	"nexafaucet/internal/application/dto"
	portsin "nexafaucet/internal/application/ports/in"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

type FaucetController struct {
	dispenseUseCase portsin.DispenseUseCase
	logger          *log.Logger
}

type dispensePayload struct {
	Address string `json:"address"`
	Captcha string `json:"captcha,omitempty"`
}

type dispenseResponse struct {
	Success bool   `json:"success"`
	TxID    string `json:"txid"`
	Amount  int64  `json:"amount"`
	Message string `json:"message"`
}

func NewFaucetController(dispenseUseCase portsin.DispenseUseCase, logger *log.Logger) *FaucetController {
	return &FaucetController{
		dispenseUseCase: dispenseUseCase,
		logger:          logger,
	}
}

func (c *FaucetController) Dispense(w http.ResponseWriter, r *http.Request) {
	payload, appErr := parseDispensePayload(r.Body)
	if appErr != nil {
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.dispenseUseCase.Execute(r.Context(), dto.DispenseCommand{
		Address:      payload.Address,
		CaptchaToken: payload.Captcha,
		RemoteIP:     clientIP(r),
	})
	if appErr != nil {
		c.logger.Printf("request error path=/faucet method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, dispenseResponse{
		Success: true,
		TxID:    output.TxID,
		Amount:  output.AmountSats,
		Message: output.Message,
	})
}

func parseDispensePayload(body io.Reader) (dispensePayload, *apperrors.AppError) {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	payload := dispensePayload{}
	if err := decoder.Decode(&payload); err != nil {
		return dispensePayload{}, apperrors.NewValidation(
			"invalid_request",
			"request body must be valid JSON",
			map[string]any{"error": err.Error()},
		)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return dispensePayload{}, apperrors.NewValidation(
			"invalid_request",
			"request body must contain a single JSON object",
			nil,
		)
	}

	return payload, nil
}

func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
