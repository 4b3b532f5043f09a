package use_cases

import "time"

// Clock supplies the instant against which cooldown windows are measured.
// Tests inject a fixed clock so eligibility boundaries are exact.
type Clock interface {
	NowUTC() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) NowUTC() time.Time {
	return time.Now().UTC()
}
