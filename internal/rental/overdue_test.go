package rental

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOverdueScenario(t *testing.T) {
	today := date(2024, 6, 11)
	end := today.AddDate(0, 0, -10)

	got := ComputeOverdue(&end, money("120"), today)
	assert.True(t, got.IsOverdue)
	assertMoney(t, "120", got.Amount)
	assert.Equal(t, 10, got.Days)
}

func TestNotOverdue(t *testing.T) {
	end := date(2024, 6, 1)
	tests := []struct {
		name      string
		end       *time.Time
		remaining decimal.Decimal
		today     time.Time
	}{
		{"fully paid", &end, decimal.Zero, date(2024, 7, 1)},
		{"overpaid", &end, money("-5"), date(2024, 7, 1)},
		{"on the end date", &end, money("120"), date(2024, 6, 1)},
		{"before the end date", &end, money("120"), date(2024, 5, 20)},
		{"no end date", nil, money("120"), date(2024, 7, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeOverdue(tt.end, tt.remaining, tt.today)
			assert.False(t, got.IsOverdue)
			assert.Zero(t, got.Days)
			assertMoney(t, "0", got.Amount)
		})
	}
}

func TestOverdueCountsCalendarDays(t *testing.T) {
	muscat := time.FixedZone("GST", 4*60*60)
	end := date(2024, 6, 1)
	// late evening the next day is still one day
	today := time.Date(2024, 6, 2, 23, 30, 0, 0, muscat)

	got := ComputeOverdue(&end, money("1"), today)
	assert.True(t, got.IsOverdue)
	assert.Equal(t, 1, got.Days)
}
