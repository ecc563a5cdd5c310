package denomination

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales-dev/cashdesk-api/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func faces(vals ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func countFor(t *testing.T, b Breakdown, face int64) int64 {
	t.Helper()
	for _, l := range b.Lines {
		if l.Face.Equal(decimal.NewFromInt(face)) {
			return l.Count
		}
	}
	t.Fatalf("no line for face %d", face)
	return 0
}

func TestSuggestGreedy(t *testing.T) {
	b := Suggest(dec("187"), faces(1, 5, 10, 20, 50, 100))

	assert.EqualValues(t, 1, countFor(t, b, 100))
	assert.EqualValues(t, 1, countFor(t, b, 50))
	assert.EqualValues(t, 1, countFor(t, b, 20))
	assert.EqualValues(t, 0, countFor(t, b, 10))
	assert.EqualValues(t, 1, countFor(t, b, 5))
	assert.EqualValues(t, 2, countFor(t, b, 1))

	assert.True(t, b.Total().Equal(dec("187")))
	assert.True(t, b.Residual.IsZero())
}

func TestSuggestResidual(t *testing.T) {
	// 0.37 is smaller than the smallest face and survives as residual.
	b := Suggest(dec("123.37"), faces(1, 5, 10, 20, 50, 100))

	assert.True(t, b.Total().Equal(dec("123")))
	assert.True(t, b.Residual.Equal(dec("0.37")))
	assert.True(t, b.Total().LessThanOrEqual(dec("123.37")))
}

func TestSuggestEdgeCases(t *testing.T) {
	t.Run("zero target", func(t *testing.T) {
		b := Suggest(decimal.Zero, faces(1, 5, 10))
		for _, l := range b.Lines {
			assert.EqualValues(t, 0, l.Count)
		}
		assert.True(t, b.Residual.IsZero())
	})

	t.Run("negative target", func(t *testing.T) {
		b := Suggest(dec("-50"), faces(1, 5, 10))
		assert.True(t, b.Total().IsZero())
		assert.True(t, b.Residual.IsZero())
	})

	t.Run("no faces", func(t *testing.T) {
		b := Suggest(dec("100"), nil)
		assert.Empty(t, b.Lines)
		assert.True(t, b.Residual.Equal(dec("100")))
	})

	t.Run("target below smallest face", func(t *testing.T) {
		b := Suggest(dec("3"), faces(5, 10))
		assert.True(t, b.Total().IsZero())
		assert.True(t, b.Residual.Equal(dec("3")))
	})

	t.Run("unordered input", func(t *testing.T) {
		b := Suggest(dec("187"), faces(20, 1, 100, 5, 50, 10))
		assert.True(t, b.Total().Equal(dec("187")))
	})
}

func TestFaces(t *testing.T) {
	require.Len(t, Faces(domain.CurrencyUSD), 7)
	require.Len(t, Faces(domain.CurrencyEUR), 7)
	require.Len(t, Faces(domain.CurrencyCUP), 10)
	assert.Nil(t, Faces(domain.Currency("GBP")))

	// CUP includes the 3-peso note, so greedy must handle non-canonical gaps.
	b := Suggest(dec("9"), Faces(domain.CurrencyCUP))
	assert.True(t, b.Total().Equal(dec("9")))
}
