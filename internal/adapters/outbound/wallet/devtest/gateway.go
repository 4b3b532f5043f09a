package devtest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"sync"

	portsout "nexafaucet/internal/application/ports/out"
	valueobjects "nexafaucet/internal/domain/value_objects"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

type Config struct {
	InitialBalanceSats int64
}

// Gateway is an in-memory hot wallet for development and tests: a balance
// counter, a deterministic faucet address, and txids derived from the send
// inputs so repeated runs are reproducible.
type Gateway struct {
	mu      sync.Mutex
	balance int64
	sends   int64
	address string
	logger  *log.Logger
}

var _ portsout.WalletGateway = (*Gateway)(nil)

func NewGateway(cfg Config, logger *log.Logger) *Gateway {
	return &Gateway{
		balance: cfg.InitialBalanceSats,
		address: devtestFaucetAddress(),
		logger:  logger,
	}
}

func (g *Gateway) GetBalance(_ context.Context) (int64, *apperrors.AppError) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.balance, nil
}

func (g *Gateway) Send(_ context.Context, address string, amountSats int64) (string, *apperrors.AppError) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if amountSats <= 0 {
		return "", apperrors.NewInternal(
			portsout.CodeSendRejected,
			"send amount must be positive",
			map[string]any{"amount_sats": amountSats},
		)
	}
	if g.balance < amountSats {
		return "", apperrors.NewInternal(
			portsout.CodeSendRejected,
			"devtest wallet balance is too low",
			map[string]any{"balance_sats": g.balance, "amount_sats": amountSats},
		)
	}

	g.balance -= amountSats
	g.sends++
	txid := devtestTxID(address, amountSats, g.sends)

	if g.logger != nil {
		g.logger.Printf("devtest wallet sent amount_sats=%d txid=%s", amountSats, txid)
	}

	return txid, nil
}

func (g *Gateway) FaucetAddress() string {
	return g.address
}

func devtestFaucetAddress() string {
	hash160 := make([]byte, 20)
	for i := range hash160 {
		hash160[i] = byte(i + 1)
	}

	address, err := valueobjects.EncodeRecipientAddress(valueobjects.AddressTypeP2PKH, hash160)
	if err != nil {
		// The fixed payload above always encodes.
		panic(err)
	}
	return address
}

func devtestTxID(address string, amountSats int64, sequence int64) string {
	digest := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", address, amountSats, sequence)))
	return hex.EncodeToString(digest[:])
}
