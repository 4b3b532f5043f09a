package controllers

import (
	"log"
	"net/http"

	"nexafaucet/internal/application/dto"
	portsin "nexafaucet/internal/application/ports/in"
)

// StatusController serves the public read-only endpoints: faucet balance and
// the recent dispenses listing.
type StatusController struct {
	getBalanceUseCase portsin.GetBalanceUseCase
	listRecentUseCase portsin.ListRecentDispensesUseCase
	logger            *log.Logger
}

type balanceResponse struct {
	Success       bool   `json:"success"`
	Balance       int64  `json:"balance"`
	BalanceInNEXA string `json:"balanceInNEXA"`
	Address       string `json:"address"`
}

type transactionsResponse struct {
	Success      bool               `json:"success"`
	Transactions []transactionEntry `json:"transactions"`
}

type transactionEntry struct {
	Address      string `json:"address"`
	Date         string `json:"date"`
	ShortAddress string `json:"shortAddress"`
}

func NewStatusController(
	getBalanceUseCase portsin.GetBalanceUseCase,
	listRecentUseCase portsin.ListRecentDispensesUseCase,
	logger *log.Logger,
) *StatusController {
	return &StatusController{
		getBalanceUseCase: getBalanceUseCase,
		listRecentUseCase: listRecentUseCase,
		logger:            logger,
	}
}

func (c *StatusController) GetBalance(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.getBalanceUseCase.Execute(r.Context(), dto.GetBalanceQuery{})
	if appErr != nil {
		c.logger.Printf("request error path=/balance method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{
		Success:       true,
		Balance:       output.BalanceSats,
		BalanceInNEXA: output.BalanceNEXA,
		Address:       output.Address,
	})
}

func (c *StatusController) ListTransactions(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.listRecentUseCase.Execute(r.Context(), dto.ListRecentDispensesQuery{})
	if appErr != nil {
		c.logger.Printf("request error path=/transactions method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	entries := make([]transactionEntry, 0, len(output.Transactions))
	for _, transaction := range output.Transactions {
		entries = append(entries, transactionEntry{
			Address:      transaction.Address,
			Date:         transaction.Date,
			ShortAddress: transaction.ShortAddress,
		})
	}

	writeJSON(w, http.StatusOK, transactionsResponse{
		Success:      true,
		Transactions: entries,
	})
}
