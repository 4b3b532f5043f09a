package in

import (
	"context"

	"nexafaucet/internal/application/dto"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

type GetHealthUseCase interface {
	Execute(ctx context.Context, command dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError)
}
