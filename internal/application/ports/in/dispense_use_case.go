package in

import (
	"context"

	"nexafaucet/internal/application/dto"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

type DispenseUseCase interface {
	Execute(ctx context.Context, command dto.DispenseCommand) (dto.DispenseOutput, *apperrors.AppError)
}
