//go:build !integration

package use_cases

import (
	"context"
	"sync"
	"time"

	"nexafaucet/internal/application/dto"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) NowUTC() time.Time {
	return c.now
}

type fakeCooldownStore struct {
	mu sync.Mutex

	window time.Duration

	records map[string]time.Time

	eligibilityCalls int
	recordCalls      int
	clearCalls       int

	eligibilityErr *apperrors.AppError
	recordErr      *apperrors.AppError
	clearErr       *apperrors.AppError
}

func newFakeCooldownStore(window time.Duration) *fakeCooldownStore {
	return &fakeCooldownStore{
		window:  window,
		records: map[string]time.Time{},
	}
}

func (s *fakeCooldownStore) CheckEligibility(_ context.Context, address string, now time.Time) (dto.CooldownStatus, *apperrors.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eligibilityCalls++
	if s.eligibilityErr != nil {
		return dto.CooldownStatus{}, s.eligibilityErr
	}

	last, exists := s.records[address]
	if !exists {
		return dto.CooldownStatus{Eligible: true}, nil
	}
	if now.Sub(last) > s.window {
		return dto.CooldownStatus{Eligible: true, LastRequestAt: last}, nil
	}

	remaining := last.Add(s.window).Sub(now).Milliseconds()
	if remaining < 0 {
		remaining = 0
	}
	return dto.CooldownStatus{Eligible: false, RemainingMS: remaining, LastRequestAt: last}, nil
}

func (s *fakeCooldownStore) RecordGrant(_ context.Context, address string, grantedAt time.Time) *apperrors.AppError {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recordCalls++
	if s.recordErr != nil {
		return s.recordErr
	}
	s.records[address] = grantedAt
	return nil
}

func (s *fakeCooldownStore) ClearAll(_ context.Context) *apperrors.AppError {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearCalls++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.records = map[string]time.Time{}
	return nil
}

func (s *fakeCooldownStore) ListRecent(_ context.Context, limit int) ([]dto.DispenseRecord, *apperrors.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]dto.DispenseRecord, 0, len(s.records))
	for address, last := range s.records {
		records = append(records, dto.DispenseRecord{Address: address, LastRequestAt: last})
	}
	// Insertion order is good enough for the fakes; callers sorting on
	// last_request_at are exercised against the real adapters.
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

type fakeWalletGateway struct {
	mu sync.Mutex

	balance int64
	txid    string
	address string

	balanceErr *apperrors.AppError
	sendErr    *apperrors.AppError

	balanceCalls int
	sendCalls    int
}

func (g *fakeWalletGateway) GetBalance(_ context.Context) (int64, *apperrors.AppError) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.balanceCalls++
	if g.balanceErr != nil {
		return 0, g.balanceErr
	}
	return g.balance, nil
}

func (g *fakeWalletGateway) Send(_ context.Context, _ string, amountSats int64) (string, *apperrors.AppError) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.sendCalls++
	if g.sendErr != nil {
		return "", g.sendErr
	}
	g.balance -= amountSats
	return g.txid, nil
}

func (g *fakeWalletGateway) FaucetAddress() string {
	return g.address
}

type fakeNotificationSink struct {
	mu sync.Mutex

	calls  int
	last   dto.DispenseNotification
	outErr *apperrors.AppError
}

func (s *fakeNotificationSink) NotifyDispense(_ context.Context, notification dto.DispenseNotification) *apperrors.AppError {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.last = notification
	return s.outErr
}

type fakeCaptchaVerifier struct {
	mu sync.Mutex

	calls  int
	outErr *apperrors.AppError
}

func (v *fakeCaptchaVerifier) Verify(_ context.Context, _ string, _ string) *apperrors.AppError {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.calls++
	return v.outErr
}
