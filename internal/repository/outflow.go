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

const outflowColumns = `id, amount_usd, amount_eur, amount_cup, amount_transfer,
	recipient, authorized_by, reason, closed, closing_id, created_at`

type OutflowRepository struct {
	db *sql.DB
}

func NewOutflowRepository(db *sql.DB) *OutflowRepository {
	return &OutflowRepository{db: db}
}

func (r *OutflowRepository) Create(ctx context.Context, o *domain.Outflow) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO outflows (
			id, amount_usd, amount_eur, amount_cup, amount_transfer,
			recipient, authorized_by, reason, closed, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.ID, o.AmountUSD, o.AmountEUR, o.AmountCUP, o.AmountXfer,
		o.Recipient, o.AuthorizedBy, o.Reason, o.Closed, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *OutflowRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Outflow, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+outflowColumns+` FROM outflows WHERE id = $1`, id,
	)
	o, err := scanOutflow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return o, nil
}

func (r *OutflowRepository) FindOpen(ctx context.Context) ([]domain.Outflow, error) {
	return r.findOpen(ctx, r.db, "")
}

func (r *OutflowRepository) FindOpenForUpdate(ctx context.Context, tx *sql.Tx) ([]domain.Outflow, error) {
	return r.findOpen(ctx, tx, " FOR UPDATE")
}

func (r *OutflowRepository) findOpen(ctx context.Context, q querier, suffix string) ([]domain.Outflow, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+outflowColumns+` FROM outflows WHERE closed = false ORDER BY created_at`+suffix,
	)
	if err != nil {
		return nil, fmt.Errorf("findOpen: %w", err)
	}
	return collectOutflows(rows, "findOpen")
}

func (r *OutflowRepository) FindInRange(ctx context.Context, from, to time.Time) ([]domain.Outflow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+outflowColumns+` FROM outflows
		WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("FindInRange: %w", err)
	}
	return collectOutflows(rows, "FindInRange")
}

func (r *OutflowRepository) FindRecent(ctx context.Context, limit int) ([]domain.Outflow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+outflowColumns+` FROM outflows ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("FindRecent: %w", err)
	}
	return collectOutflows(rows, "FindRecent")
}

func (r *OutflowRepository) FindByClosing(ctx context.Context, closingID uuid.UUID) ([]domain.Outflow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+outflowColumns+` FROM outflows WHERE closing_id = $1 ORDER BY created_at`,
		closingID,
	)
	if err != nil {
		return nil, fmt.Errorf("FindByClosing: %w", err)
	}
	return collectOutflows(rows, "FindByClosing")
}

func (r *OutflowRepository) MarkClosed(ctx context.Context, tx *sql.Tx, closingID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE outflows SET closed = true, closing_id = $1 WHERE id = ANY($2::uuid[]) AND closed = false`,
		closingID, uuidArray(ids),
	)
	if err != nil {
		return fmt.Errorf("MarkClosed: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("MarkClosed: rows affected: %w", err)
	}
	if rows != int64(len(ids)) {
		return fmt.Errorf("MarkClosed: closed %d of %d outflows: %w", rows, len(ids), domain.ErrClosedRecord)
	}
	return nil
}

func collectOutflows(rows *sql.Rows, op string) ([]domain.Outflow, error) {
	defer rows.Close()

	var outflows []domain.Outflow
	for rows.Next() {
		o, err := scanOutflow(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		outflows = append(outflows, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return outflows, nil
}

func scanOutflow(s scanner) (*domain.Outflow, error) {
	var o domain.Outflow
	var closingID uuid.NullUUID

	err := s.Scan(
		&o.ID, &o.AmountUSD, &o.AmountEUR, &o.AmountCUP, &o.AmountXfer,
		&o.Recipient, &o.AuthorizedBy, &o.Reason, &o.Closed, &closingID, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if closingID.Valid {
		o.ClosingID = &closingID.UUID
	}

	return &o, nil
}
