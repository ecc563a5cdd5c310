package closing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
	"github.com/dmorales-dev/cashdesk-api/internal/logging"
	"github.com/dmorales-dev/cashdesk-api/internal/service/reconcile"
)

// closingLockKey is the advisory lock serializing day closings. Registration
// and amendment never take it; they are blocked per-row by the FOR UPDATE
// snapshot instead.
const closingLockKey int64 = 0x434153484445534b // "CASHDESK"

type closingRepo interface {
	Create(ctx context.Context, tx *sql.Tx, c *domain.DayClosing) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DayClosing, error)
	GetByDate(ctx context.Context, businessDate time.Time) (*domain.DayClosing, error)
	History(ctx context.Context, limit int) ([]domain.DayClosing, error)
}

type invoiceRepo interface {
	FindOpen(ctx context.Context) ([]domain.Invoice, error)
	FindOpenForUpdate(ctx context.Context, tx *sql.Tx) ([]domain.Invoice, error)
	FindByClosing(ctx context.Context, closingID uuid.UUID) ([]domain.Invoice, error)
	MarkClosed(ctx context.Context, tx *sql.Tx, closingID uuid.UUID, ids []uuid.UUID) error
}

type outflowRepo interface {
	FindOpen(ctx context.Context) ([]domain.Outflow, error)
	FindOpenForUpdate(ctx context.Context, tx *sql.Tx) ([]domain.Outflow, error)
	FindByClosing(ctx context.Context, closingID uuid.UUID) ([]domain.Outflow, error)
	MarkClosed(ctx context.Context, tx *sql.Tx, closingID uuid.UUID, ids []uuid.UUID) error
}

// Service performs the day closing: it reconciles counted cash against the
// computed balance and, when they agree, locks every open invoice and outflow
// under a new DayClosing in one transaction.
type Service struct {
	db        *sql.DB
	closings  closingRepo
	invoices  invoiceRepo
	outflows  outflowRepo
	tolerance decimal.Decimal
}

func NewService(db *sql.DB, closings closingRepo, invoices invoiceRepo, outflows outflowRepo, tolerance decimal.Decimal) *Service {
	return &Service{
		db:        db,
		closings:  closings,
		invoices:  invoices,
		outflows:  outflows,
		tolerance: tolerance,
	}
}

// CloseDay closes all currently open records for businessDate. The operation
// either commits whole (one closing row plus every snapshot row marked
// closed) or leaves nothing changed.
func (s *Service) CloseDay(ctx context.Context, businessDate time.Time, counted domain.CountedCash) (*domain.DayClosing, error) {
	log := logging.FromContext(ctx)

	if _, err := s.closings.GetByDate(ctx, businessDate); err == nil {
		return nil, fmt.Errorf("CloseDay: %s: %w", businessDate.Format("2006-01-02"), domain.ErrAlreadyClosed)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("CloseDay: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("CloseDay: begin tx: %w", err)
	}
	defer tx.Rollback()

	// Only one closing may run at a time; the lock is released on
	// commit or rollback.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, closingLockKey); err != nil {
		return nil, fmt.Errorf("CloseDay: acquire closing lock: %w", err)
	}

	invoices, err := s.invoices.FindOpenForUpdate(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("CloseDay: snapshot invoices: %w", err)
	}
	outflows, err := s.outflows.FindOpenForUpdate(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("CloseDay: snapshot outflows: %w", err)
	}

	if len(invoices) == 0 && len(outflows) == 0 {
		return nil, fmt.Errorf("CloseDay: %w", domain.ErrNothingToClose)
	}

	totals := reconcile.ClosingBalance(invoices, outflows)

	differences := compareCounted(counted, totals)
	if mismatch(differences, s.tolerance) {
		return nil, fmt.Errorf("CloseDay: %w", &domain.ClosingMismatchError{Differences: differences})
	}

	c := &domain.DayClosing{
		ID:           uuid.New(),
		BusinessDate: businessDate,
		Totals:       totals,
		Counted:      counted,
		Difference: domain.CountedCash{
			USD: differences[0].Difference,
			EUR: differences[1].Difference,
			CUP: differences[2].Difference,
		},
		InvoiceCount: len(invoices),
		OutflowCount: len(outflows),
		ClosedAt:     time.Now().UTC(),
	}

	if err := s.closings.Create(ctx, tx, c); err != nil {
		return nil, fmt.Errorf("CloseDay: %w", err)
	}
	if err := s.invoices.MarkClosed(ctx, tx, c.ID, invoiceIDs(invoices)); err != nil {
		return nil, fmt.Errorf("CloseDay: %w", err)
	}
	if err := s.outflows.MarkClosed(ctx, tx, c.ID, outflowIDs(outflows)); err != nil {
		return nil, fmt.Errorf("CloseDay: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("CloseDay: commit: %w", err)
	}

	log.Info("day closed",
		"closing_id", c.ID,
		"business_date", c.BusinessDate.Format("2006-01-02"),
		"invoices", c.InvoiceCount,
		"outflows", c.OutflowCount,
	)

	return c, nil
}

// compareCounted returns one entry per physical currency, in USD, EUR, CUP
// order. The transfer bucket has no physical cash and is not compared.
func compareCounted(counted domain.CountedCash, totals domain.CashTotals) []domain.CashDifference {
	differences := make([]domain.CashDifference, 0, len(domain.PhysicalCurrencies))
	for _, c := range domain.PhysicalCurrencies {
		have := counted.Get(c)
		want := totals.Get(c)
		differences = append(differences, domain.CashDifference{
			Currency:   c,
			Counted:    have,
			Expected:   want,
			Difference: have.Sub(want),
		})
	}
	return differences
}

func mismatch(differences []domain.CashDifference, tolerance decimal.Decimal) bool {
	for _, d := range differences {
		if d.Difference.Abs().GreaterThan(tolerance) {
			return true
		}
	}
	return false
}

func invoiceIDs(invoices []domain.Invoice) []uuid.UUID {
	ids := make([]uuid.UUID, len(invoices))
	for i, inv := range invoices {
		ids[i] = inv.ID
	}
	return ids
}

func outflowIDs(outflows []domain.Outflow) []uuid.UUID {
	ids := make([]uuid.UUID, len(outflows))
	for i, o := range outflows {
		ids[i] = o.ID
	}
	return ids
}
