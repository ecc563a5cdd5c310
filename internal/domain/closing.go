package domain

import (
	"time"

	"github.com/google/uuid"
)

// DayClosing is the permanent record of one reconciled business day. At most
// one exists per business date and it is immutable once created. The invoices
// and outflows it closed reference it by ClosingID.
type DayClosing struct {
	ID           uuid.UUID
	BusinessDate time.Time
	Totals       CashTotals
	Counted      CountedCash
	Difference   CountedCash
	InvoiceCount int
	OutflowCount int
	ClosedAt     time.Time
}
