package out

import (
	"context"
	"time"

	"nexafaucet/internal/application/dto"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

// CooldownStore owns DispenseRecord storage: one durable row per address,
// serialized writes per key, reads always fresh.
type CooldownStore interface {
	CheckEligibility(ctx context.Context, address string, now time.Time) (dto.CooldownStatus, *apperrors.AppError)
	RecordGrant(ctx context.Context, address string, grantedAt time.Time) *apperrors.AppError
	ClearAll(ctx context.Context) *apperrors.AppError
	ListRecent(ctx context.Context, limit int) ([]dto.DispenseRecord, *apperrors.AppError)
}
