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

const invoiceColumns = `id, order_id, amount, currency, amount_local,
	rate_usd, rate_eur, paid_usd, paid_eur, paid_cup, paid_transfer,
	transfer_ref, closed, closing_id, created_at`

type InvoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts the invoice, mapping a unique violation on order_id to
// domain.ErrDuplicateOrder so pre-check races still surface correctly.
func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (
			id, order_id, amount, currency, amount_local,
			rate_usd, rate_eur, paid_usd, paid_eur, paid_cup, paid_transfer,
			transfer_ref, closed, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		inv.ID, inv.OrderID, inv.Amount, inv.Currency, inv.AmountLocal,
		inv.RateUsed.USDRate, inv.RateUsed.EURRate,
		inv.Payments.PaidUSD, inv.Payments.PaidEUR, inv.Payments.PaidCUP, inv.Payments.PaidTransfer,
		inv.Payments.TransferRef, inv.Closed, inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", domain.ErrDuplicateOrder)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id,
	)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE order_id = $1`, orderID,
	)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByOrderID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByOrderID: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepository) FindOpen(ctx context.Context) ([]domain.Invoice, error) {
	return r.findOpen(ctx, r.db, "")
}

// FindOpenForUpdate locks every open invoice row for the duration of the
// caller's transaction so none can be amended mid-close.
func (r *InvoiceRepository) FindOpenForUpdate(ctx context.Context, tx *sql.Tx) ([]domain.Invoice, error) {
	return r.findOpen(ctx, tx, " FOR UPDATE")
}

func (r *InvoiceRepository) findOpen(ctx context.Context, q querier, suffix string) ([]domain.Invoice, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE closed = false ORDER BY created_at`+suffix,
	)
	if err != nil {
		return nil, fmt.Errorf("findOpen: %w", err)
	}
	return collectInvoices(rows, "findOpen")
}

func (r *InvoiceRepository) FindInRange(ctx context.Context, from, to time.Time) ([]domain.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
		WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("FindInRange: %w", err)
	}
	return collectInvoices(rows, "FindInRange")
}

func (r *InvoiceRepository) FindRecent(ctx context.Context, limit int) ([]domain.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("FindRecent: %w", err)
	}
	return collectInvoices(rows, "FindRecent")
}

func (r *InvoiceRepository) FindByClosing(ctx context.Context, closingID uuid.UUID) ([]domain.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE closing_id = $1 ORDER BY created_at`,
		closingID,
	)
	if err != nil {
		return nil, fmt.Errorf("FindByClosing: %w", err)
	}
	return collectInvoices(rows, "FindByClosing")
}

// UpdatePayments replaces the payment fields of an open invoice. The closed
// guard in the WHERE clause makes the closed-record check race-safe.
func (r *InvoiceRepository) UpdatePayments(ctx context.Context, id uuid.UUID, p domain.PaymentSet) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices
		SET paid_usd = $1, paid_eur = $2, paid_cup = $3, paid_transfer = $4, transfer_ref = $5
		WHERE id = $6 AND closed = false`,
		p.PaidUSD, p.PaidEUR, p.PaidCUP, p.PaidTransfer, p.TransferRef, id,
	)
	if err != nil {
		return fmt.Errorf("UpdatePayments: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdatePayments: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdatePayments: %w", domain.ErrClosedRecord)
	}
	return nil
}

func (r *InvoiceRepository) MarkClosed(ctx context.Context, tx *sql.Tx, closingID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE invoices SET closed = true, closing_id = $1 WHERE id = ANY($2::uuid[]) AND closed = false`,
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
		return fmt.Errorf("MarkClosed: closed %d of %d invoices: %w", rows, len(ids), domain.ErrClosedRecord)
	}
	return nil
}

func collectInvoices(rows *sql.Rows, op string) ([]domain.Invoice, error) {
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return invoices, nil
}

func scanInvoice(s scanner) (*domain.Invoice, error) {
	var inv domain.Invoice
	var closingID uuid.NullUUID

	err := s.Scan(
		&inv.ID, &inv.OrderID, &inv.Amount, &inv.Currency, &inv.AmountLocal,
		&inv.RateUsed.USDRate, &inv.RateUsed.EURRate,
		&inv.Payments.PaidUSD, &inv.Payments.PaidEUR, &inv.Payments.PaidCUP, &inv.Payments.PaidTransfer,
		&inv.Payments.TransferRef, &inv.Closed, &closingID, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if closingID.Valid {
		inv.ClosingID = &closingID.UUID
	}

	return &inv, nil
}
