package in

import (
	"context"

	"nexafaucet/internal/application/dto"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

type ListRecentDispensesUseCase interface {
	Execute(ctx context.Context, query dto.ListRecentDispensesQuery) (dto.ListRecentDispensesOutput, *apperrors.AppError)
}
