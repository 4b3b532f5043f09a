package policies

import (
	"fmt"
	"time"
)

// SatoshisPerNEXA is the canonical display scale: amounts are carried as
// satoshis everywhere and converted to NEXA only when rendered.
const SatoshisPerNEXA = 100

// CooldownPolicy is process-wide configuration, loaded once at startup and
// immutable for the process lifetime.
type CooldownPolicy struct {
	Window             time.Duration
	DispenseAmountSats int64
}

// Eligible reports whether a new grant may be made given the timestamp of
// the last one. Equality is not eligible: the elapsed time must strictly
// exceed the window.
func (p CooldownPolicy) Eligible(lastRequestAt, now time.Time) bool {
	return now.Sub(lastRequestAt) > p.Window
}

// RemainingMS returns how long a caller must still wait, in milliseconds,
// floored at zero.
func (p CooldownPolicy) RemainingMS(lastRequestAt, now time.Time) int64 {
	remaining := lastRequestAt.Add(p.Window).Sub(now).Milliseconds()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatNEXA renders a satoshi amount in NEXA with two decimals.
func FormatNEXA(amountSats int64) string {
	whole := amountSats / SatoshisPerNEXA
	frac := amountSats % SatoshisPerNEXA
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%02d", whole, frac)
}
