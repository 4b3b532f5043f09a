package dto

import "time"

type DispenseCommand struct {
	Address      string
	CaptchaToken string
	RemoteIP     string
}

type DispenseOutput struct {
	TxID       string
	AmountSats int64
	Message    string
}

// CooldownStatus is the result of one fresh eligibility read.
type CooldownStatus struct {
	Eligible      bool
	RemainingMS   int64
	LastRequestAt time.Time
}

// DispenseRecord mirrors the persisted row: one per distinct recipient
// address, updated in place on every grant.
type DispenseRecord struct {
	Address       string
	LastRequestAt time.Time
	CreatedAt     time.Time
}

type DispenseNotification struct {
	Address    string
	AmountSats int64
	TxID       string
	GrantedAt  time.Time
}
