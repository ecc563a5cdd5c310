package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

const closingColumns = `id, business_date, total_usd, total_eur, total_cup, total_transfer,
	counted_usd, counted_eur, counted_cup, diff_usd, diff_eur, diff_cup,
	invoice_count, outflow_count, closed_at`

type ClosingRepository struct {
	db *sql.DB
}

func NewClosingRepository(db *sql.DB) *ClosingRepository {
	return &ClosingRepository{db: db}
}

// Create inserts the closing inside the caller's transaction. A unique
// violation on business_date means another close for the same day committed
// first and maps to domain.ErrAlreadyClosed.
func (r *ClosingRepository) Create(ctx context.Context, tx *sql.Tx, c *domain.DayClosing) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO day_closings (
			id, business_date, total_usd, total_eur, total_cup, total_transfer,
			counted_usd, counted_eur, counted_cup, diff_usd, diff_eur, diff_cup,
			invoice_count, outflow_count, closed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		c.ID, c.BusinessDate, c.Totals.USD, c.Totals.EUR, c.Totals.CUP, c.Totals.Transfer,
		c.Counted.USD, c.Counted.EUR, c.Counted.CUP,
		c.Difference.USD, c.Difference.EUR, c.Difference.CUP,
		c.InvoiceCount, c.OutflowCount, c.ClosedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", domain.ErrAlreadyClosed)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *ClosingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DayClosing, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+closingColumns+` FROM day_closings WHERE id = $1`, id,
	)
	c, err := scanClosing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return c, nil
}

func (r *ClosingRepository) GetByDate(ctx context.Context, businessDate time.Time) (*domain.DayClosing, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+closingColumns+` FROM day_closings WHERE business_date = $1`, businessDate,
	)
	c, err := scanClosing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByDate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByDate: %w", err)
	}
	return c, nil
}

func (r *ClosingRepository) History(ctx context.Context, limit int) ([]domain.DayClosing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+closingColumns+` FROM day_closings ORDER BY business_date DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	defer rows.Close()

	var closings []domain.DayClosing
	for rows.Next() {
		c, err := scanClosing(rows)
		if err != nil {
			return nil, fmt.Errorf("History: %w", err)
		}
		closings = append(closings, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	return closings, nil
}

func scanClosing(s scanner) (*domain.DayClosing, error) {
	var c domain.DayClosing
	err := s.Scan(
		&c.ID, &c.BusinessDate, &c.Totals.USD, &c.Totals.EUR, &c.Totals.CUP, &c.Totals.Transfer,
		&c.Counted.USD, &c.Counted.EUR, &c.Counted.CUP,
		&c.Difference.USD, &c.Difference.EUR, &c.Difference.CUP,
		&c.InvoiceCount, &c.OutflowCount, &c.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
