package controllers

import (
	"log"
	"net/http"

	"nexafaucet/internal/application/dto"
	portsin "nexafaucet/internal/application/ports/in"
)

type HealthController struct {
	useCase portsin.GetHealthUseCase
	logger  *log.Logger
}

type indexResponse struct {
	Service   string            `json:"service"`
	Endpoints map[string]string `json:"endpoints"`
}

func NewHealthController(useCase portsin.GetHealthUseCase, logger *log.Logger) *HealthController {
	return &HealthController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *HealthController) GetHealth(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.useCase.Execute(r.Context(), dto.GetHealthCommand{})
	if appErr != nil {
		c.logger.Printf("request error path=/health method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// GetIndex lists the public endpoints, mirroring the root page the faucet
// has always served.
func (c *HealthController) GetIndex(w http.ResponseWriter, r *http.Request) {
	// ServeMux routes every unmatched path to "/".
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: errorEnvelope{
				Code:    "not_found",
				Message: "unknown endpoint",
			},
		})
		return
	}

	writeJSON(w, http.StatusOK, indexResponse{
		Service: "nexa-faucet",
		Endpoints: map[string]string{
			"POST /faucet":         "dispense funds to an address",
			"GET /balance":         "faucet wallet balance",
			"GET /transactions":    "recent dispenses",
			"GET /health":          "service health",
			"POST /clear-cooldown": "clear all cooldowns (admin)",
			"GET /swagger":         "API documentation",
		},
	})
}
