package sqlite

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

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS dispense_records (
    address         TEXT PRIMARY KEY,
    last_request_at INTEGER NOT NULL,
    created_at      INTEGER NOT NULL,
    updated_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS dispense_records_last_request_at_idx
    ON dispense_records (last_request_at DESC);
`

// Store keeps dispense records in a single-file SQLite database. Timestamps
// are stored as Unix milliseconds; SQLite serializes writers on its own, so
// one open handle is enough for the faucet's write volume.
type Store struct {
	db     *sql.DB
	window time.Duration
	logger *log.Logger
}

var _ portsout.CooldownStore = (*Store)(nil)

// Open creates or opens path and applies the schema. WAL mode keeps the
// reader endpoints responsive while a grant is being written.
func Open(path string, window time.Duration, logger *log.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, err
	}

	if logger != nil {
		logger.Printf("sqlite store opened path=%s", path)
	}

	return &Store{db: db, window: window, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CheckEligibility(ctx context.Context, address string, now time.Time) (dto.CooldownStatus, *apperrors.AppError) {
	const query = `SELECT last_request_at FROM dispense_records WHERE address = ?`

	var lastMillis int64
	err := s.db.QueryRowContext(ctx, query, address).Scan(&lastMillis)
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

	lastRequestAt := time.UnixMilli(lastMillis).UTC()
	policy := policies.CooldownPolicy{Window: s.window}
	return dto.CooldownStatus{
		Eligible:      policy.Eligible(lastRequestAt, now),
		RemainingMS:   policy.RemainingMS(lastRequestAt, now),
		LastRequestAt: lastRequestAt,
	}, nil
}

func (s *Store) RecordGrant(ctx context.Context, address string, grantedAt time.Time) *apperrors.AppError {
	const upsertSQL = `
INSERT INTO dispense_records (address, last_request_at, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (address) DO UPDATE
SET last_request_at = MAX(dispense_records.last_request_at, excluded.last_request_at),
    updated_at = excluded.updated_at
`

	millis := grantedAt.UTC().UnixMilli()
	if _, err := s.db.ExecContext(ctx, upsertSQL, address, millis, millis, millis); err != nil {
		return apperrors.NewInternal(
			"dispense_record_upsert_failed",
			"failed to record dispense grant",
			map[string]any{"error": err.Error()},
		)
	}

	return nil
}

func (s *Store) ClearAll(ctx context.Context) *apperrors.AppError {
	result, err := s.db.ExecContext(ctx, `DELETE FROM dispense_records`)
	if err != nil {
		return apperrors.NewInternal(
			"dispense_record_clear_failed",
			"failed to clear dispense records",
			map[string]any{"error": err.Error()},
		)
	}

	if s.logger != nil {
		if rows, rowsErr := result.RowsAffected(); rowsErr == nil {
			s.logger.Printf("dispense records cleared count=%d", rows)
		}
	}

	return nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]dto.DispenseRecord, *apperrors.AppError) {
	const query = `
SELECT address, last_request_at, created_at
FROM dispense_records
ORDER BY last_request_at DESC
LIMIT ?
`

	rows, err := s.db.QueryContext(ctx, query, limit)
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
		var lastMillis, createdMillis int64
		record := dto.DispenseRecord{}
		if err := rows.Scan(&record.Address, &lastMillis, &createdMillis); err != nil {
			return nil, apperrors.NewInternal(
				"dispense_record_scan_failed",
				"failed to parse dispense record row",
				map[string]any{"error": err.Error()},
			)
		}
		record.LastRequestAt = time.UnixMilli(lastMillis).UTC()
		record.CreatedAt = time.UnixMilli(createdMillis).UTC()
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
