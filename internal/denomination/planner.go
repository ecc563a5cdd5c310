// Package denomination proposes note/coin breakdowns for counting physical
// cash. Suggestions are advisory; the operator's count is what the day
// closing reconciles against.
package denomination

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

// Faces returns the note face values in circulation for a currency,
// ascending.
func Faces(c domain.Currency) []decimal.Decimal {
	var faces []int64
	switch c {
	case domain.CurrencyUSD:
		faces = []int64{1, 2, 5, 10, 20, 50, 100}
	case domain.CurrencyEUR:
		faces = []int64{5, 10, 20, 50, 100, 200, 500}
	case domain.CurrencyCUP:
		faces = []int64{1, 3, 5, 10, 20, 50, 100, 200, 500, 1000}
	default:
		return nil
	}

	out := make([]decimal.Decimal, len(faces))
	for i, f := range faces {
		out[i] = decimal.NewFromInt(f)
	}
	return out
}

// Line is one denomination row of a suggested breakdown.
type Line struct {
	Face  decimal.Decimal
	Count int64
}

// Breakdown is a greedy note breakdown for a target amount. Residual is the
// part of the target smaller than the smallest face value.
type Breakdown struct {
	Lines    []Line
	Residual decimal.Decimal
}

// Total is the weighted sum of the breakdown, always ≤ the target.
func (b Breakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.Lines {
		total = total.Add(l.Face.Mul(decimal.NewFromInt(l.Count)))
	}
	return total
}

// Suggest proposes counts per face value for the target amount, largest
// faces first. A non-positive target yields an all-zero breakdown. Greedy is
// note-optimal for the canonical face sets above and merely reasonable for
// arbitrary ones, which is fine for an advisory aid.
func Suggest(target decimal.Decimal, faces []decimal.Decimal) Breakdown {
	sorted := make([]decimal.Decimal, 0, len(faces))
	for _, f := range faces {
		if f.IsPositive() {
			sorted = append(sorted, f)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].GreaterThan(sorted[j]) })

	b := Breakdown{Lines: make([]Line, len(sorted))}
	remaining := target
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	for i, face := range sorted {
		count := remaining.Div(face).Floor()
		b.Lines[i] = Line{Face: face, Count: count.IntPart()}
		remaining = remaining.Sub(count.Mul(face))
	}
	b.Residual = remaining

	return b
}
