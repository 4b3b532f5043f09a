package in

import (
	"context"

	"nexafaucet/internal/application/dto"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

type ClearCooldownsUseCase interface {
	Execute(ctx context.Context, command dto.ClearCooldownsCommand) (dto.ClearCooldownsOutput, *apperrors.AppError)
}
