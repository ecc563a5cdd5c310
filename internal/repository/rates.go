package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

const rateColumns = `rate_date, usd_rate, eur_rate, updated_at`

type RateRepository struct {
	db *sql.DB
}

func NewRateRepository(db *sql.DB) *RateRepository {
	return &RateRepository{db: db}
}

// Upsert replaces the whole snapshot for the date. Partial updates are not
// supported at this level; callers read-modify-write.
func (r *RateRepository) Upsert(ctx context.Context, snap *domain.RateSnapshot) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO exchange_rates (rate_date, usd_rate, eur_rate, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (rate_date) DO UPDATE
		SET usd_rate = EXCLUDED.usd_rate, eur_rate = EXCLUDED.eur_rate, updated_at = EXCLUDED.updated_at`,
		snap.Date, snap.USDRate, snap.EURRate, snap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

// GetEffective returns the snapshot for the date, or the most recent one
// before it. Returns domain.ErrNotFound when no snapshot exists at all.
func (r *RateRepository) GetEffective(ctx context.Context, forDate time.Time) (*domain.RateSnapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+rateColumns+` FROM exchange_rates
		WHERE rate_date <= $1 ORDER BY rate_date DESC LIMIT 1`,
		forDate,
	)
	snap, err := scanRate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetEffective: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetEffective: %w", err)
	}
	return snap, nil
}

func (r *RateRepository) History(ctx context.Context, limit int) ([]domain.RateSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+rateColumns+` FROM exchange_rates ORDER BY rate_date DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	defer rows.Close()

	var snaps []domain.RateSnapshot
	for rows.Next() {
		snap, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("History: %w", err)
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	return snaps, nil
}

func scanRate(s scanner) (*domain.RateSnapshot, error) {
	var snap domain.RateSnapshot
	if err := s.Scan(&snap.Date, &snap.USDRate, &snap.EURRate, &snap.UpdatedAt); err != nil {
		return nil, err
	}
	return &snap, nil
}
