package cooldown

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log"
	"time"

	"nexafaucet/internal/application/dto"
	portsout "nexafaucet/internal/application/ports/out"
	"nexafaucet/internal/domain/policies"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

// Repository keeps one dispense record per address in PostgreSQL. Upserts go
// through ON CONFLICT with GREATEST so last_request_at never moves backwards,
// even if two writers race past the coordinator's per-address lock.
type Repository struct {
	db     *sql.DB
	window time.Duration
	logger *log.Logger
}

var _ portsout.CooldownStore = (*Repository)(nil)

func NewRepository(db *sql.DB, window time.Duration, logger *log.Logger) *Repository {
	return &Repository{db: db, window: window, logger: logger}
}

func (r *Repository) CheckEligibility(ctx context.Context, address string, now time.Time) (dto.CooldownStatus, *apperrors.AppError) {
	const query = `
SELECT last_request_at
FROM app.dispense_records
WHERE address = $1
`

	var lastRequestAt time.Time
	err := r.db.QueryRowContext(ctx, query, address).Scan(&lastRequestAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return dto.CooldownStatus{Eligible: true}, nil
	}
	if err != nil {
		return dto.CooldownStatus{}, apperrors.NewInternal(
			"dispense_record_query_failed",
			"failed to query dispense record",
			map[string]any{"error": err.Error()},
		)
	}

	lastRequestAt = lastRequestAt.UTC()
	policy := policies.CooldownPolicy{Window: r.window}
	return dto.CooldownStatus{
		Eligible:      policy.Eligible(lastRequestAt, now),
		RemainingMS:   policy.RemainingMS(lastRequestAt, now),
		LastRequestAt: lastRequestAt,
	}, nil
}

func (r *Repository) RecordGrant(ctx context.Context, address string, grantedAt time.Time) *apperrors.AppError {
	const upsertSQL = `
INSERT INTO app.dispense_records (address, last_request_at, created_at, updated_at)
VALUES ($1, $2, $2, $2)
ON CONFLICT (address) DO UPDATE
SET last_request_at = GREATEST(app.dispense_records.last_request_at, EXCLUDED.last_request_at),
    updated_at = EXCLUDED.updated_at
`

	if _, err := r.db.ExecContext(ctx, upsertSQL, address, grantedAt.UTC()); err != nil {
		return apperrors.NewInternal(
			"dispense_record_upsert_failed",
			"failed to record dispense grant",
			map[string]any{"error": err.Error()},
		)
	}

	return nil
}

func (r *Repository) ClearAll(ctx context.Context) *apperrors.AppError {
	result, err := r.db.ExecContext(ctx, `DELETE FROM app.dispense_records`)
	if err != nil {
		return apperrors.NewInternal(
			"dispense_record_clear_failed",
			"failed to clear dispense records",
			map[string]any{"error": err.Error()},
		)
	}

	if r.logger != nil {
		if rows, rowsErr := result.RowsAffected(); rowsErr == nil {
			r.logger.Printf("dispense records cleared count=%d", rows)
		}
	}

	return nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]dto.DispenseRecord, *apperrors.AppError) {
	const query = `
SELECT address, last_request_at, created_at
FROM app.dispense_records
ORDER BY last_request_at DESC
LIMIT $1
`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewInternal(
			"dispense_record_list_failed",
			"failed to list dispense records",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	records := make([]dto.DispenseRecord, 0, limit)
	for rows.Next() {
		record := dto.DispenseRecord{}
		if err := rows.Scan(&record.Address, &record.LastRequestAt, &record.CreatedAt); err != nil {
			return nil, apperrors.NewInternal(
				"dispense_record_scan_failed",
				"failed to parse dispense record row",
				map[string]any{"error": err.Error()},
			)
		}
		record.LastRequestAt = record.LastRequestAt.UTC()
		record.CreatedAt = record.CreatedAt.UTC()
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"dispense_record_list_failed",
			"failed while iterating dispense record rows",
			map[string]any{"error": err.Error()},
		)
	}

	return records, nil
}
