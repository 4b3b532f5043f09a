package use_cases

import (
	"context"
	"time"

	"nexafaucet/internal/application/dto"
	portsin "nexafaucet/internal/application/ports/in"
	portsout "nexafaucet/internal/application/ports/out"
	valueobjects "nexafaucet/internal/domain/value_objects"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

const defaultRecentDispensesLimit = 5

type listRecentDispensesUseCase struct {
	store portsout.CooldownStore
}

func NewListRecentDispensesUseCase(store portsout.CooldownStore) portsin.ListRecentDispensesUseCase {
	return &listRecentDispensesUseCase{store: store}
}

func (u *listRecentDispensesUseCase) Execute(ctx context.Context, query dto.ListRecentDispensesQuery) (dto.ListRecentDispensesOutput, *apperrors.AppError) {
	if u.store == nil {
		return dto.ListRecentDispensesOutput{}, apperrors.NewInternal(
			"cooldown_store_missing",
			"cooldown store is required",
			nil,
		)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultRecentDispensesLimit
	}

	records, appErr := u.store.ListRecent(ctx, limit)
	if appErr != nil {
		return dto.ListRecentDispensesOutput{}, appErr
	}

	transactions := make([]dto.RecentDispense, 0, len(records))
	for _, record := range records {
		transactions = append(transactions, dto.RecentDispense{
			Address:      record.Address,
			Date:         record.LastRequestAt.UTC().Format(time.RFC3339),
			ShortAddress: valueobjects.ShortenAddress(record.Address),
		})
	}

	return dto.ListRecentDispensesOutput{Transactions: transactions}, nil
}
