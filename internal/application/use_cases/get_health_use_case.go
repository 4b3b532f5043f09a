package use_cases

import (
	"context"

	"nexafaucet/internal/application/dto"
	portsin "nexafaucet/internal/application/ports/in"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

type getHealthUseCase struct{}

func NewGetHealthUseCase() portsin.GetHealthUseCase {
	return &getHealthUseCase{}
}

func (u *getHealthUseCase) Execute(_ context.Context, _ dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError) {
	return dto.HealthOutput{
		Status:  "ok",
		Message: "faucet backend active",
	}, nil
}
