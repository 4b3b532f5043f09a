package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nexafaucet/internal/application/dto"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

type stubGetBalanceUseCase struct {
	output dto.GetBalanceOutput
	outErr *apperrors.AppError
}

func (s stubGetBalanceUseCase) Execute(_ context.Context, _ dto.GetBalanceQuery) (dto.GetBalanceOutput, *apperrors.AppError) {
	if s.outErr != nil {
		return dto.GetBalanceOutput{}, s.outErr
	}
	return s.output, nil
}

type stubListRecentUseCase struct {
	output dto.ListRecentDispensesOutput
	outErr *apperrors.AppError
}

func (s stubListRecentUseCase) Execute(_ context.Context, _ dto.ListRecentDispensesQuery) (dto.ListRecentDispensesOutput, *apperrors.AppError) {
	if s.outErr != nil {
		return dto.ListRecentDispensesOutput{}, s.outErr
	}
	return s.output, nil
}

func TestStatusControllerGetBalance(t *testing.T) {
	controller := NewStatusController(
		stubGetBalanceUseCase{output: dto.GetBalanceOutput{BalanceSats: 123_456, BalanceNEXA: "1234.56", Address: "nexa:qqfaucet"}},
		stubListRecentUseCase{},
		testLogger(),
	)

	rec := httptest.NewRecorder()
	controller.GetBalance(rec, httptest.NewRequest(http.MethodGet, "/balance", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("expected valid json: %v", err)
	}
	if payload["success"] != true {
		t.Fatalf("expected success=true, got %v", payload)
	}
	if payload["balance"] != float64(123_456) {
		t.Fatalf("expected balance 123456, got %v", payload["balance"])
	}
	if payload["balanceInNEXA"] != "1234.56" {
		t.Fatalf("expected balanceInNEXA 1234.56, got %v", payload["balanceInNEXA"])
	}
	if payload["address"] != "nexa:qqfaucet" {
		t.Fatalf("expected faucet address, got %v", payload["address"])
	}
}

func TestStatusControllerGetBalanceError(t *testing.T) {
	controller := NewStatusController(
		stubGetBalanceUseCase{outErr: apperrors.NewInternal("wallet_unreachable", "failed to reach wallet service", nil)},
		stubListRecentUseCase{},
		testLogger(),
	)

	rec := httptest.NewRecorder()
	controller.GetBalance(rec, httptest.NewRequest(http.MethodGet, "/balance", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestStatusControllerListTransactions(t *testing.T) {
	controller := NewStatusController(
		stubGetBalanceUseCase{},
		stubListRecentUseCase{output: dto.ListRecentDispensesOutput{
			Transactions: []dto.RecentDispense{
				{Address: "nexa:qqsomeaddress", Date: "2026-03-14T09:00:00Z", ShortAddress: "nexa:qqsomea..."},
			},
		}},
		testLogger(),
	)

	rec := httptest.NewRecorder()
	controller.ListTransactions(rec, httptest.NewRequest(http.MethodGet, "/transactions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload transactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("expected valid json: %v", err)
	}
	if !payload.Success {
		t.Fatal("expected success=true")
	}
	if len(payload.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(payload.Transactions))
	}
	if payload.Transactions[0].ShortAddress != "nexa:qqsomea..." {
		t.Fatalf("unexpected shortAddress %q", payload.Transactions[0].ShortAddress)
	}
}

func TestStatusControllerListTransactionsEmpty(t *testing.T) {
	controller := NewStatusController(
		stubGetBalanceUseCase{},
		stubListRecentUseCase{output: dto.ListRecentDispensesOutput{Transactions: []dto.RecentDispense{}}},
		testLogger(),
	)

	rec := httptest.NewRecorder()
	controller.ListTransactions(rec, httptest.NewRequest(http.MethodGet, "/transactions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload transactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("expected valid json: %v", err)
	}
	if payload.Transactions == nil || len(payload.Transactions) != 0 {
		t.Fatalf("expected empty array, got %v", payload.Transactions)
	}
}
