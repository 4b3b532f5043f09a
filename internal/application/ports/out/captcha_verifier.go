package out

import (
	"context"

	apperrors "nexafaucet/internal/shared_kernel/errors"
)

// CaptchaVerifier is an opaque boolean gate in front of the dispense flow.
// A nil return means the challenge passed.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string, remoteIP string) *apperrors.AppError
}
