package rental

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"scaffold-backend/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, money(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func intPtr(i int) *int { return &i }

// dailyItem is scenario 1: 2 units for 10 days at 5/day
func dailyItem() models.RentalLineItem {
	return models.RentalLineItem{
		EquipmentID:  intPtr(1),
		Code:         "FRM-200",
		StartDate:    date(2024, 3, 1),
		DurationType: models.DurationDaily,
		Duration:     10,
		Quantity:     2,
		DailyRate:    money("5"),
		MonthlyRate:  money("120"),
	}
}

// monthlyItem is scenario 2: 1 unit for 3 months at 150/month
func monthlyItem() models.RentalLineItem {
	return models.RentalLineItem{
		EquipmentID:  intPtr(2),
		Code:         "PLK-300",
		StartDate:    date(2024, 3, 1),
		DurationType: models.DurationMonthly,
		Duration:     3,
		Quantity:     1,
		DailyRate:    money("7"),
		MonthlyRate:  money("150"),
	}
}

func cash(amount string) models.Payment {
	return models.Payment{Method: models.CashPayment(), Amount: money(amount), PaymentDate: date(2024, 3, 2)}
}

func sampleContract() models.Contract {
	return models.Contract{
		ID:             7,
		ContractNumber: "CNT-000007",
		Status:         models.StatusActive,
		TransportCost:  money("50"),
		TotalDiscount:  money("100"),
		LineItems:      []models.RentalLineItem{dailyItem(), monthlyItem()},
	}
}
