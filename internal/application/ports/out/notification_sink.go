package out

import (
	"context"

	"nexafaucet/internal/application/dto"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

// NotificationSink is a best-effort side channel for successful dispenses.
// Failures never affect the dispense outcome.
type NotificationSink interface {
	NotifyDispense(ctx context.Context, notification dto.DispenseNotification) *apperrors.AppError
}
