package use_cases

import (
	"context"

	"nexafaucet/internal/application/dto"
	portsin "nexafaucet/internal/application/ports/in"
	portsout "nexafaucet/internal/application/ports/out"
	"nexafaucet/internal/domain/policies"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

type getBalanceUseCase struct {
	wallet portsout.WalletGateway
}

func NewGetBalanceUseCase(wallet portsout.WalletGateway) portsin.GetBalanceUseCase {
	return &getBalanceUseCase{wallet: wallet}
}

func (u *getBalanceUseCase) Execute(ctx context.Context, _ dto.GetBalanceQuery) (dto.GetBalanceOutput, *apperrors.AppError) {
	if u.wallet == nil {
		return dto.GetBalanceOutput{}, apperrors.NewInternal(
			"wallet_gateway_missing",
			"wallet gateway is required",
			nil,
		)
	}

	balance, appErr := u.wallet.GetBalance(ctx)
	if appErr != nil {
		return dto.GetBalanceOutput{}, appErr
	}

	return dto.GetBalanceOutput{
		BalanceSats: balance,
		BalanceNEXA: policies.FormatNEXA(balance),
		Address:     u.wallet.FaucetAddress(),
	}, nil
}
