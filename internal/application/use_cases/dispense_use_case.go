package use_cases

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"nexafaucet/internal/application/dto"
	portsin "nexafaucet/internal/application/ports/in"
	portsout "nexafaucet/internal/application/ports/out"
	"nexafaucet/internal/domain/policies"
	valueobjects "nexafaucet/internal/domain/value_objects"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

const defaultNotifyTimeout = 5 * time.Second

// dispenseUseCase coordinates one dispense request end to end:
// validate -> captcha -> cooldown check -> balance check -> send -> record
// -> notify. Cooldown and balance are re-read on every call; nothing is
// cached between requests.
type dispenseUseCase struct {
	policy        policies.CooldownPolicy
	store         portsout.CooldownStore
	wallet        portsout.WalletGateway
	notifier      portsout.NotificationSink
	captcha       portsout.CaptchaVerifier
	locks         portsout.AddressLocker
	clock         Clock
	notifyTimeout time.Duration
	logger        *log.Logger
}

func NewDispenseUseCase(
	policy policies.CooldownPolicy,
	store portsout.CooldownStore,
	wallet portsout.WalletGateway,
	notifier portsout.NotificationSink,
	captcha portsout.CaptchaVerifier,
	locks portsout.AddressLocker,
	clock Clock,
	notifyTimeout time.Duration,
	logger *log.Logger,
) portsin.DispenseUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}
	if notifyTimeout <= 0 {
		notifyTimeout = defaultNotifyTimeout
	}

	return &dispenseUseCase{
		policy:        policy,
		store:         store,
		wallet:        wallet,
		notifier:      notifier,
		captcha:       captcha,
		locks:         locks,
		clock:         clock,
		notifyTimeout: notifyTimeout,
		logger:        logger,
	}
}

func (u *dispenseUseCase) Execute(ctx context.Context, command dto.DispenseCommand) (dto.DispenseOutput, *apperrors.AppError) {
	if u.store == nil {
		return dto.DispenseOutput{}, apperrors.NewInternal(
			"cooldown_store_missing",
			"cooldown store is required",
			nil,
		)
	}
	if u.wallet == nil {
		return dto.DispenseOutput{}, apperrors.NewInternal(
			"wallet_gateway_missing",
			"wallet gateway is required",
			nil,
		)
	}
	if u.locks == nil {
		return dto.DispenseOutput{}, apperrors.NewInternal(
			"address_locker_missing",
			"address locker is required",
			nil,
		)
	}

	address := strings.TrimSpace(command.Address)
	if !valueobjects.ValidateRecipientAddress(address) {
		return dto.DispenseOutput{}, apperrors.NewValidation(
			"invalid_address",
			"recipient is not a valid Nexa address",
			map[string]any{"field": "address"},
		)
	}

	if u.captcha != nil {
		if appErr := u.captcha.Verify(ctx, command.CaptchaToken, command.RemoteIP); appErr != nil {
			return dto.DispenseOutput{}, appErr
		}
	}

	// The check-then-act sequence below is serialized per address so two
	// near-simultaneous requests for the same address cannot both observe
	// an open window.
	unlock := u.locks.Lock(address)
	defer unlock()

	now := u.clock.NowUTC()
	status, appErr := u.store.CheckEligibility(ctx, address, now)
	if appErr != nil {
		return dto.DispenseOutput{}, appErr
	}
	if !status.Eligible {
		return dto.DispenseOutput{}, apperrors.NewRateLimited(
			"cooldown_active",
			"address already received funds within the cooldown window",
			map[string]any{"remaining_ms": status.RemainingMS},
		)
	}

	balance, appErr := u.wallet.GetBalance(ctx)
	if appErr != nil {
		return dto.DispenseOutput{}, appErr
	}
	amount := u.policy.DispenseAmountSats
	if balance < amount {
		u.logf("faucet underfunded balance_sats=%d dispense_sats=%d", balance, amount)
		return dto.DispenseOutput{}, apperrors.NewInternal(
			"insufficient_funds",
			"faucet hot wallet does not hold enough funds",
			map[string]any{"balance_sats": balance, "dispense_sats": amount},
		)
	}

	// Past this point the request runs to completion: a dropped client
	// cannot undo funds leaving the wallet.
	sendCtx := context.WithoutCancel(ctx)

	txid, sendErr := u.wallet.Send(sendCtx, address, amount)
	if sendErr != nil {
		return dto.DispenseOutput{}, u.classifySendFailure(address, sendErr)
	}

	grantedAt := u.clock.NowUTC()
	if recordErr := u.store.RecordGrant(sendCtx, address, grantedAt); recordErr != nil {
		// Funds already moved on-chain; the caller still gets a success
		// response, the anomaly goes to the operators.
		u.logf(
			"reconciliation anomaly: send confirmed but cooldown write failed address=%s txid=%s code=%s message=%s",
			address, txid, recordErr.Code, recordErr.Message,
		)
	}

	u.logf("dispense granted address=%s txid=%s amount_sats=%d", address, txid, amount)
	u.notify(sendCtx, dto.DispenseNotification{
		Address:    address,
		AmountSats: amount,
		TxID:       txid,
		GrantedAt:  grantedAt,
	})

	return dto.DispenseOutput{
		TxID:       txid,
		AmountSats: amount,
		Message:    fmt.Sprintf("Sent %s NEXA to %s", policies.FormatNEXA(amount), address),
	}, nil
}

// classifySendFailure distinguishes a pre-broadcast rejection, which leaves
// the user's eligibility intact and safe to retry, from an indeterminate
// outcome (timeout or unknown transport failure after submission) that only
// an operator can reconcile. Neither writes the cooldown record, and an
// indeterminate send is never retried automatically.
func (u *dispenseUseCase) classifySendFailure(address string, sendErr *apperrors.AppError) *apperrors.AppError {
	details := map[string]any{"cause": sendErr.Code}
	for key, value := range sendErr.Details {
		details[key] = value
	}

	if sendErr.Code == portsout.CodeSendRejected {
		u.logf("dispense send rejected address=%s message=%s", address, sendErr.Message)
		return apperrors.NewInternal(
			"send_rejected",
			"wallet rejected the transaction before broadcast",
			details,
		)
	}

	u.logf(
		"indeterminate send, manual reconciliation required address=%s code=%s message=%s",
		address, sendErr.Code, sendErr.Message,
	)
	return apperrors.NewInternal(
		"indeterminate_send",
		"send outcome could not be confirmed; eligibility was left intact",
		details,
	)
}

func (u *dispenseUseCase) notify(ctx context.Context, notification dto.DispenseNotification) {
	if u.notifier == nil {
		return
	}

	notifyCtx, cancel := context.WithTimeout(ctx, u.notifyTimeout)
	defer cancel()

	if appErr := u.notifier.NotifyDispense(notifyCtx, notification); appErr != nil {
		u.logf(
			"dispense notification failed txid=%s code=%s message=%s",
			notification.TxID, appErr.Code, appErr.Message,
		)
	}
}

func (u *dispenseUseCase) logf(format string, args ...any) {
	if u.logger == nil {
		return
	}
	u.logger.Printf(format, args...)
}
