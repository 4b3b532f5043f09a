package redis

import (
	"context"
	stderrors "errors"
	"log"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"nexafaucet/internal/application/dto"
	portsout "nexafaucet/internal/application/ports/out"
	"nexafaucet/internal/domain/policies"
	apperrors "nexafaucet/internal/shared_kernel/errors"
)

const (
	recordKeyPrefix = "faucet:dispense:"
	recentIndexKey  = "faucet:dispense_index"

	connectTimeout = 5 * time.Second
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Store keeps one Redis string per address holding the grant timestamp in
// Unix milliseconds, plus a sorted set scored by that timestamp for the
// recent listing and for ClearAll.
type Store struct {
	client *redis.Client
	window time.Duration
	logger *log.Logger
}

var _ portsout.CooldownStore = (*Store)(nil)

func New(cfg Config, window time.Duration, logger *log.Logger) (*Store, error) {
	if cfg.Addr == "" {
		return nil, stderrors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	if logger != nil {
		logger.Printf("redis store connected addr=%s db=%d", cfg.Addr, cfg.DB)
	}

	return &Store{client: client, window: window, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) CheckEligibility(ctx context.Context, address string, now time.Time) (dto.CooldownStatus, *apperrors.AppError) {
	raw, err := s.client.Get(ctx, recordKeyPrefix+address).Result()
	if stderrors.Is(err, redis.Nil) {
		return dto.CooldownStatus{Eligible: true}, nil
	}
	if err != nil {
		return dto.CooldownStatus{}, apperrors.NewInternal(
			"dispense_record_query_failed",
			"failed to query dispense record",
			map[string]any{"error": err.Error()},
		)
	}

	lastMillis, parseErr := strconv.ParseInt(raw, 10, 64)
	if parseErr != nil {
		return dto.CooldownStatus{}, apperrors.NewInternal(
			"dispense_record_corrupt",
			"stored dispense timestamp is not a valid integer",
			map[string]any{"value": raw},
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
	millis := grantedAt.UTC().UnixMilli()

	// ZAddGT keeps the index monotonic even if two writers race past the
	// coordinator's per-address lock.
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, recordKeyPrefix+address, strconv.FormatInt(millis, 10), 0)
	pipe.ZAddGT(ctx, recentIndexKey, redis.Z{Score: float64(millis), Member: address})
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.NewInternal(
			"dispense_record_upsert_failed",
			"failed to record dispense grant",
			map[string]any{"error": err.Error()},
		)
	}

	return nil
}

func (s *Store) ClearAll(ctx context.Context) *apperrors.AppError {
	addresses, err := s.client.ZRange(ctx, recentIndexKey, 0, -1).Result()
	if err != nil {
		return apperrors.NewInternal(
			"dispense_record_clear_failed",
			"failed to list dispense record index",
			map[string]any{"error": err.Error()},
		)
	}

	pipe := s.client.TxPipeline()
	for _, address := range addresses {
		pipe.Del(ctx, recordKeyPrefix+address)
	}
	pipe.Del(ctx, recentIndexKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.NewInternal(
			"dispense_record_clear_failed",
			"failed to clear dispense records",
			map[string]any{"error": err.Error()},
		)
	}

	if s.logger != nil {
		s.logger.Printf("dispense records cleared count=%d", len(addresses))
	}

	return nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]dto.DispenseRecord, *apperrors.AppError) {
	// A non-positive stop index would make ZREVRANGE return the whole set.
	if limit <= 0 {
		return []dto.DispenseRecord{}, nil
	}

	entries, err := s.client.ZRevRangeWithScores(ctx, recentIndexKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, apperrors.NewInternal(
			"dispense_record_list_failed",
			"failed to list dispense records",
			map[string]any{"error": err.Error()},
		)
	}

	records := make([]dto.DispenseRecord, 0, len(entries))
	for _, entry := range entries {
		address, ok := entry.Member.(string)
		if !ok {
			continue
		}
		lastRequestAt := time.UnixMilli(int64(entry.Score)).UTC()
		records = append(records, dto.DispenseRecord{
			Address:       address,
			LastRequestAt: lastRequestAt,
			CreatedAt:     lastRequestAt,
		})
	}

	return records, nil
}
