package use_cases

import (
	"context"
	"log"

	"nexafaucet/internal/application/dto"
	portsin "nexafaucet/internal/application/ports/in"
	portsout "nexafaucet/internal/application/ports/out"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

type clearCooldownsUseCase struct {
	store  portsout.CooldownStore
	logger *log.Logger
}

func NewClearCooldownsUseCase(store portsout.CooldownStore, logger *log.Logger) portsin.ClearCooldownsUseCase {
	return &clearCooldownsUseCase{store: store, logger: logger}
}

func (u *clearCooldownsUseCase) Execute(ctx context.Context, _ dto.ClearCooldownsCommand) (dto.ClearCooldownsOutput, *apperrors.AppError) {
	if u.store == nil {
		return dto.ClearCooldownsOutput{}, apperrors.NewInternal(
			"cooldown_store_missing",
			"cooldown store is required",
			nil,
		)
	}

	if appErr := u.store.ClearAll(ctx); appErr != nil {
		return dto.ClearCooldownsOutput{}, appErr
	}

	if u.logger != nil {
		u.logger.Printf("all cooldown records cleared")
	}

	return dto.ClearCooldownsOutput{Message: "all cooldowns cleared"}, nil
}
