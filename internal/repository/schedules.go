package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
)

func (r *Repository) EnsureSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		CREATE TABLE IF NOT EXISTS schedules (
			period_key TEXT PRIMARY KEY,
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			workplaces JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			version INTEGER NOT NULL DEFAULT 1
		)
	`
	if _, err := r.dbpool.ExecContext(ctx, query); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSchedule(key domain.PeriodKey) (domain.WorkplaceSchedule, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT workplaces FROM schedules WHERE period_key = $1`

	var raw []byte
	if err := r.dbpool.QueryRowContext(ctx, query, key.String()).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WorkplaceSchedule{}, false, nil
		}
		return domain.WorkplaceSchedule{}, false, fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}

	ws := domain.WorkplaceSchedule{}
	if err := json.Unmarshal(raw, &ws); err != nil {
		return domain.WorkplaceSchedule{}, false, fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}

	return ws, true, nil
}

// SaveSchedule 以整体覆盖的方式写入该周期，并发写入时以最后完成的写入为准
func (r *Repository) SaveSchedule(key domain.PeriodKey, ws domain.WorkplaceSchedule) error {
	if ws == nil {
		ws = domain.WorkplaceSchedule{}
	}

	raw, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO schedules (period_key, year, month, workplaces)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (period_key) DO UPDATE
		SET
			workplaces = EXCLUDED.workplaces,
			updated_at = NOW(),
			version = schedules.version + 1
	`

	args := []any{key.String(), key.Year, key.Month, string(raw)}
	if _, err := r.dbpool.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}

	return nil
}
