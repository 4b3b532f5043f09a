package router

import (
	"net/http"

	"nexafaucet/internal/adapters/inbound/http/controllers"
)

type Dependencies struct {
	HealthController  *controllers.HealthController
	SwaggerController *controllers.SwaggerController
	FaucetController  *controllers.FaucetController
	StatusController  *controllers.StatusController
	AdminController   *controllers.AdminController
}

func New(deps Dependencies) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", deps.HealthController.GetIndex)
	mux.HandleFunc("GET /health", deps.HealthController.GetHealth)
	mux.HandleFunc("GET /swagger", deps.SwaggerController.RedirectToIndex)
	mux.HandleFunc("GET /swagger/openapi.yaml", deps.SwaggerController.GetOpenAPISpec)
	mux.HandleFunc("GET /swagger/", deps.SwaggerController.ServeUI)
	mux.HandleFunc("POST /faucet", deps.FaucetController.Dispense)
	mux.HandleFunc("GET /balance", deps.StatusController.GetBalance)
	mux.HandleFunc("GET /transactions", deps.StatusController.ListTransactions)
	mux.HandleFunc("POST /clear-cooldown", deps.AdminController.ClearCooldown)

	return mux
}
