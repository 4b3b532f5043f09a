package in

import (
	"context"

	"nexafaucet/internal/application/dto"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

type GetBalanceUseCase interface {
	Execute(ctx context.Context, query dto.GetBalanceQuery) (dto.GetBalanceOutput, *apperrors.AppError)
}
