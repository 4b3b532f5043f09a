package out

import (
	"context"

	apperrors "nexafaucet/internal/shared_kernel/errors"
)

// Stable reason codes carried by Send failures. Rejected means the wallet
// refused before broadcast and the caller may retry; timeout and unknown are
// indeterminate outcomes that require manual reconciliation.
const (
	CodeSendRejected = "send_rejected"
	CodeSendTimeout  = "send_timeout"
	CodeSendUnknown  = "send_unknown"
)

// WalletGateway is the opaque hot-wallet boundary. It owns no faucet-domain
// state; every call is bounded by the gateway's configured timeout.
type WalletGateway interface {
	GetBalance(ctx context.Context) (int64, *apperrors.AppError)
	Send(ctx context.Context, address string, amountSats int64) (string, *apperrors.AppError)
	FaucetAddress() string
}
