package controllers

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"nexafaucet/internal/application/dto"
	portsin "nexafaucet/internal/application/ports/in"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

// AdminController guards the operational endpoints. When no admin token is
// configured the endpoints stay open, matching a development deployment.
type AdminController struct {
	clearCooldownsUseCase portsin.ClearCooldownsUseCase
	adminToken            string
	logger                *log.Logger
}

type clearCooldownResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewAdminController(
	clearCooldownsUseCase portsin.ClearCooldownsUseCase,
	adminToken string,
	logger *log.Logger,
) *AdminController {
	return &AdminController{
		clearCooldownsUseCase: clearCooldownsUseCase,
		adminToken:            strings.TrimSpace(adminToken),
		logger:                logger,
	}
}

func (c *AdminController) ClearCooldown(w http.ResponseWriter, r *http.Request) {
	if appErr := c.authorize(r); appErr != nil {
		c.logger.Printf("request error path=/clear-cooldown method=%s code=%s", r.Method, appErr.Code)
		writeAppError(w, appErr)
		return
	}

	output, appErr := c.clearCooldownsUseCase.Execute(r.Context(), dto.ClearCooldownsCommand{})
	if appErr != nil {
		c.logger.Printf("request error path=/clear-cooldown method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, clearCooldownResponse{
		Success: true,
		Message: output.Message,
	})
}

func (c *AdminController) authorize(r *http.Request) *apperrors.AppError {
	if c.adminToken == "" {
		return nil
	}

	authorization := strings.TrimSpace(r.Header.Get("Authorization"))
	bearer, found := strings.CutPrefix(authorization, "Bearer ")
	if !found || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(bearer)), []byte(c.adminToken)) != 1 {
		return apperrors.NewUnauthorized(
			"admin_token_invalid",
			"a valid admin bearer token is required",
			nil,
		)
	}

	return nil
}
