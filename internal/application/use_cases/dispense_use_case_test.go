//go:build !integration

package use_cases

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"nexafaucet/internal/application/dto"
	portsout "nexafaucet/internal/application/ports/out"
	"nexafaucet/internal/domain/policies"
	valueobjects "nexafaucet/internal/domain/value_objects"
	"nexafaucet/internal/infrastructure/keylock"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

func mintAddress(t *testing.T, seed byte) string {
	t.Helper()

	hash160 := make([]byte, 20)
	for i := range hash160 {
		hash160[i] = seed + byte(i)
	}

	address, err := valueobjects.EncodeRecipientAddress(valueobjects.AddressTypeP2PKH, hash160)
	if err != nil {
		t.Fatalf("EncodeRecipientAddress: %v", err)
	}
	return address
}

type dispenseFixture struct {
	store    *fakeCooldownStore
	wallet   *fakeWalletGateway
	notifier *fakeNotificationSink
	captcha  *fakeCaptchaVerifier
	clock    fixedClock
	policy   policies.CooldownPolicy
}

func newDispenseFixture() *dispenseFixture {
	return &dispenseFixture{
		store: newFakeCooldownStore(time.Hour),
		wallet: &fakeWalletGateway{
			balance: 1_000_000,
			txid:    "f00dbabe",
			address: "nexa:faucet",
		},
		notifier: &fakeNotificationSink{},
		captcha:  &fakeCaptchaVerifier{},
		clock:    fixedClock{now: time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)},
		policy:   policies.CooldownPolicy{Window: time.Hour, DispenseAmountSats: 10_000},
	}
}

func (f *dispenseFixture) useCase() *dispenseUseCase {
	return NewDispenseUseCase(
		f.policy,
		f.store,
		f.wallet,
		f.notifier,
		f.captcha,
		keylock.New(),
		f.clock,
		time.Second,
		nil,
	).(*dispenseUseCase)
}

func TestDispenseUseCaseGrantsThenEnforcesCooldown(t *testing.T) {
	fixture := newDispenseFixture()
	useCase := fixture.useCase()
	address := mintAddress(t, 0x11)

	output, appErr := useCase.Execute(context.Background(), dto.DispenseCommand{Address: address})
	if appErr != nil {
		t.Fatalf("first dispense failed: %+v", appErr)
	}
	if output.TxID != "f00dbabe" {
		t.Fatalf("expected txid f00dbabe, got %q", output.TxID)
	}
	if output.AmountSats != 10_000 {
		t.Fatalf("expected amount 10000, got %d", output.AmountSats)
	}
	if !strings.Contains(output.Message, "100.00 NEXA") {
		t.Fatalf("expected formatted amount in message, got %q", output.Message)
	}
	if fixture.store.recordCalls != 1 {
		t.Fatalf("expected 1 record write, got %d", fixture.store.recordCalls)
	}
	if fixture.notifier.calls != 1 {
		t.Fatalf("expected 1 notification, got %d", fixture.notifier.calls)
	}
	if fixture.notifier.last.TxID != "f00dbabe" {
		t.Fatalf("notification carries txid %q", fixture.notifier.last.TxID)
	}

	_, appErr = useCase.Execute(context.Background(), dto.DispenseCommand{Address: address})
	if appErr == nil {
		t.Fatal("expected second dispense inside the window to fail")
	}
	if appErr.Type != apperrors.TypeRateLimited {
		t.Fatalf("expected rate_limited error, got %s", appErr.Type)
	}
	if appErr.Code != "cooldown_active" {
		t.Fatalf("expected code cooldown_active, got %q", appErr.Code)
	}
	remaining, ok := appErr.Details["remaining_ms"].(int64)
	if !ok || remaining <= 0 {
		t.Fatalf("expected positive remaining_ms, got %v", appErr.Details["remaining_ms"])
	}
	if fixture.wallet.sendCalls != 1 {
		t.Fatalf("expected no second send, got %d sends", fixture.wallet.sendCalls)
	}
}

func TestDispenseUseCaseRejectsMalformedAddressBeforeAnySideEffect(t *testing.T) {
	invalid := []string{
		"",
		"   ",
		"not-an-address",
		"bitcoincash:qpm2qsznhks23z7629mms6s4cwef74vcwvy22gdx6a",
		"nexa:qq00000000000000000000000000000000",
	}

	for _, address := range invalid {
		fixture := newDispenseFixture()
		useCase := fixture.useCase()

		_, appErr := useCase.Execute(context.Background(), dto.DispenseCommand{Address: address})
		if appErr == nil {
			t.Fatalf("expected validation error for %q", address)
		}
		if appErr.Type != apperrors.TypeValidation || appErr.Code != "invalid_address" {
			t.Fatalf("expected invalid_address validation error for %q, got %s/%s", address, appErr.Type, appErr.Code)
		}
		if fixture.store.eligibilityCalls != 0 || fixture.store.recordCalls != 0 {
			t.Fatalf("cooldown store touched for %q", address)
		}
		if fixture.wallet.balanceCalls != 0 || fixture.wallet.sendCalls != 0 {
			t.Fatalf("wallet touched for %q", address)
		}
		if fixture.captcha.calls != 0 {
			t.Fatalf("captcha verified for %q before address validation", address)
		}
	}
}

func TestDispenseUseCaseCaptchaFailureStopsTheFlow(t *testing.T) {
	fixture := newDispenseFixture()
	fixture.captcha.outErr = apperrors.NewValidation("captcha_failed", "captcha verification failed", nil)
	useCase := fixture.useCase()

	_, appErr := useCase.Execute(context.Background(), dto.DispenseCommand{Address: mintAddress(t, 0x22)})
	if appErr == nil || appErr.Code != "captcha_failed" {
		t.Fatalf("expected captcha_failed, got %+v", appErr)
	}
	if fixture.store.eligibilityCalls != 0 {
		t.Fatal("cooldown checked despite failed captcha")
	}
	if fixture.wallet.sendCalls != 0 {
		t.Fatal("send attempted despite failed captcha")
	}
}

func TestDispenseUseCaseInsufficientFundsLeavesStateUntouched(t *testing.T) {
	fixture := newDispenseFixture()
	fixture.wallet.balance = 9_999
	useCase := fixture.useCase()
	address := mintAddress(t, 0x33)

	_, appErr := useCase.Execute(context.Background(), dto.DispenseCommand{Address: address})
	if appErr == nil || appErr.Code != "insufficient_funds" {
		t.Fatalf("expected insufficient_funds, got %+v", appErr)
	}
	if appErr.Type != apperrors.TypeInternal {
		t.Fatalf("expected internal error type, got %s", appErr.Type)
	}
	if fixture.wallet.sendCalls != 0 {
		t.Fatal("send attempted with insufficient balance")
	}
	if fixture.store.recordCalls != 0 {
		t.Fatal("cooldown recorded without a grant")
	}

	// The address stays eligible for the next attempt.
	status, checkErr := fixture.store.CheckEligibility(context.Background(), address, fixture.clock.NowUTC())
	if checkErr != nil {
		t.Fatalf("CheckEligibility: %+v", checkErr)
	}
	if !status.Eligible {
		t.Fatal("address lost eligibility without receiving funds")
	}
}

func TestDispenseUseCaseSendRejectedKeepsEligibility(t *testing.T) {
	fixture := newDispenseFixture()
	fixture.wallet.sendErr = apperrors.NewInternal(portsout.CodeSendRejected, "dust output", nil)
	useCase := fixture.useCase()
	address := mintAddress(t, 0x44)

	_, appErr := useCase.Execute(context.Background(), dto.DispenseCommand{Address: address})
	if appErr == nil || appErr.Code != "send_rejected" {
		t.Fatalf("expected send_rejected, got %+v", appErr)
	}
	if fixture.store.recordCalls != 0 {
		t.Fatal("cooldown recorded for a rejected send")
	}
	if appErr.Details["cause"] != portsout.CodeSendRejected {
		t.Fatalf("expected cause detail, got %v", appErr.Details)
	}
}

func TestDispenseUseCaseIndeterminateSendWritesNoRecord(t *testing.T) {
	for _, code := range []string{portsout.CodeSendTimeout, portsout.CodeSendUnknown} {
		fixture := newDispenseFixture()
		fixture.wallet.sendErr = apperrors.NewInternal(code, "broadcast outcome unknown", nil)
		useCase := fixture.useCase()
		address := mintAddress(t, 0x55)

		_, appErr := useCase.Execute(context.Background(), dto.DispenseCommand{Address: address})
		if appErr == nil || appErr.Code != "indeterminate_send" {
			t.Fatalf("code %s: expected indeterminate_send, got %+v", code, appErr)
		}
		if fixture.store.recordCalls != 0 {
			t.Fatalf("code %s: cooldown recorded for an unconfirmed send", code)
		}
		if fixture.notifier.calls != 0 {
			t.Fatalf("code %s: notification emitted for an unconfirmed send", code)
		}
		if fixture.wallet.sendCalls != 1 {
			t.Fatalf("code %s: expected exactly one send attempt, got %d", code, fixture.wallet.sendCalls)
		}
	}
}

func TestDispenseUseCaseRecordFailureStillReturnsSuccess(t *testing.T) {
	fixture := newDispenseFixture()
	fixture.store.recordErr = apperrors.NewInternal("db_write_failed", "connection reset", nil)
	useCase := fixture.useCase()

	output, appErr := useCase.Execute(context.Background(), dto.DispenseCommand{Address: mintAddress(t, 0x66)})
	if appErr != nil {
		t.Fatalf("expected success despite record failure, got %+v", appErr)
	}
	if output.TxID != "f00dbabe" {
		t.Fatalf("expected txid in output, got %q", output.TxID)
	}
	if fixture.notifier.calls != 1 {
		t.Fatal("notification skipped after record failure")
	}
}

func TestDispenseUseCaseNotificationFailureDoesNotAffectOutcome(t *testing.T) {
	fixture := newDispenseFixture()
	fixture.notifier.outErr = apperrors.NewInternal("webhook_unreachable", "connection refused", nil)
	useCase := fixture.useCase()

	output, appErr := useCase.Execute(context.Background(), dto.DispenseCommand{Address: mintAddress(t, 0x77)})
	if appErr != nil {
		t.Fatalf("expected success despite notification failure, got %+v", appErr)
	}
	if output.TxID == "" {
		t.Fatal("expected txid in output")
	}
	if fixture.store.recordCalls != 1 {
		t.Fatalf("expected 1 record write, got %d", fixture.store.recordCalls)
	}
}

func TestDispenseUseCaseConcurrentSameAddressGrantsAtMostOnce(t *testing.T) {
	fixture := newDispenseFixture()
	useCase := fixture.useCase()
	address := mintAddress(t, 0x88)

	const attempts = 16

	var waitGroup sync.WaitGroup
	grants := make(chan dto.DispenseOutput, attempts)
	cooldowns := make(chan *apperrors.AppError, attempts)

	for i := 0; i < attempts; i++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			output, appErr := useCase.Execute(context.Background(), dto.DispenseCommand{Address: address})
			if appErr != nil {
				cooldowns <- appErr
				return
			}
			grants <- output
		}()
	}
	waitGroup.Wait()
	close(grants)
	close(cooldowns)

	if len(grants) != 1 {
		t.Fatalf("expected exactly 1 grant, got %d", len(grants))
	}
	for appErr := range cooldowns {
		if appErr.Type != apperrors.TypeRateLimited {
			t.Fatalf("losing request failed with %s/%s instead of the cooldown rejection", appErr.Type, appErr.Code)
		}
	}
	if fixture.wallet.sendCalls != 1 {
		t.Fatalf("expected exactly 1 send, got %d", fixture.wallet.sendCalls)
	}
	if fixture.store.recordCalls != 1 {
		t.Fatalf("expected exactly 1 record write, got %d", fixture.store.recordCalls)
	}
	if fixture.captcha.calls != attempts {
		t.Fatalf("expected %d captcha checks, got %d", attempts, fixture.captcha.calls)
	}
}

func TestDispenseUseCaseDistinctAddressesAreIndependent(t *testing.T) {
	fixture := newDispenseFixture()
	useCase := fixture.useCase()

	first := mintAddress(t, 0x01)
	second := mintAddress(t, 0x02)

	if _, appErr := useCase.Execute(context.Background(), dto.DispenseCommand{Address: first}); appErr != nil {
		t.Fatalf("first address dispense failed: %+v", appErr)
	}
	if _, appErr := useCase.Execute(context.Background(), dto.DispenseCommand{Address: second}); appErr != nil {
		t.Fatalf("second address blocked by first address's cooldown: %+v", appErr)
	}
	if fixture.wallet.sendCalls != 2 {
		t.Fatalf("expected 2 sends, got %d", fixture.wallet.sendCalls)
	}
}

func TestDispenseUseCaseMissingDependenciesFailClosed(t *testing.T) {
	fixture := newDispenseFixture()

	useCase := NewDispenseUseCase(fixture.policy, nil, fixture.wallet, nil, nil, keylock.New(), fixture.clock, 0, nil)
	if _, appErr := useCase.Execute(context.Background(), dto.DispenseCommand{Address: mintAddress(t, 0x99)}); appErr == nil || appErr.Code != "cooldown_store_missing" {
		t.Fatalf("expected cooldown_store_missing, got %+v", appErr)
	}

	useCase = NewDispenseUseCase(fixture.policy, fixture.store, nil, nil, nil, keylock.New(), fixture.clock, 0, nil)
	if _, appErr := useCase.Execute(context.Background(), dto.DispenseCommand{Address: mintAddress(t, 0x99)}); appErr == nil || appErr.Code != "wallet_gateway_missing" {
		t.Fatalf("expected wallet_gateway_missing, got %+v", appErr)
	}
}
