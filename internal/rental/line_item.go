package rental

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"scaffold-backend/internal/models"
)

// ComputeEndDate returns the date a booking ends. DAILY adds calendar days;
// MONTHLY adds calendar months, clamping to the last day of the target
// month (Jan 31 + 1 month is Feb 28, or Feb 29 in a leap year).
func ComputeEndDate(start time.Time, duration int, durationType models.DurationType) (time.Time, error) {
	if start.IsZero() {
		return time.Time{}, fmt.Errorf("%w: start date is required", ErrInvalidDuration)
	}
	if duration <= 0 {
		return time.Time{}, fmt.Errorf("%w: duration must be greater than zero, got %d", ErrInvalidDuration, duration)
	}
	start = dateOf(start)
	switch durationType {
	case models.DurationDaily:
		return start.AddDate(0, 0, duration), nil
	case models.DurationMonthly:
		return addMonths(start, duration), nil
	}
	return time.Time{}, fmt.Errorf("%w: unknown duration type %q", ErrInvalidDuration, durationType)
}

// PreviewEndDate is ComputeEndDate for a form that is still being filled
// in: incomplete inputs give ok == false instead of an error.
func PreviewEndDate(start time.Time, duration int, durationType models.DurationType) (end time.Time, ok bool) {
	end, err := ComputeEndDate(start, duration, durationType)
	if err != nil {
		return time.Time{}, false
	}
	return end, true
}

func addMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	lastDay := now.With(first).EndOfMonth().Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ComputeLineTotal is quantity * duration * rate, where rate is the daily
// or monthly rate depending on the duration type.
func ComputeLineTotal(item models.RentalLineItem) decimal.Decimal {
	rate := item.DailyRate
	if item.DurationType == models.DurationMonthly {
		rate = item.MonthlyRate
	}
	return RoundMoney(rate.Mul(decimal.NewFromInt(int64(item.Quantity))).Mul(decimal.NewFromInt(int64(item.Duration))))
}

// ValidateLineItem checks the invariants of a single line item. Field names
// are prefixed with prefix (for example "line_items[2]").
func ValidateLineItem(prefix string, item models.RentalLineItem) ValidationErrors {
	var errs ValidationErrors
	if item.EquipmentID == nil && item.Code == "" {
		errs = append(errs, invalid(prefix+".equipment_id", ErrMissingEquipment))
	}
	if item.StartDate.IsZero() {
		errs = append(errs, &ValidationError{Field: prefix + ".start_date", Message: "start date is required", Err: ErrInvalidDuration})
	}
	if !item.DurationType.Valid() {
		errs = append(errs, &ValidationError{Field: prefix + ".duration_type", Message: "duration type must be DAILY or MONTHLY", Err: ErrInvalidDuration})
	}
	if item.Duration <= 0 {
		errs = append(errs, invalid(prefix+".duration", ErrInvalidDuration))
	}
	if item.Quantity <= 0 {
		errs = append(errs, invalid(prefix+".quantity", ErrInvalidQuantity))
	}
	errs = append(errs, validateAmount(prefix+".daily_rate", item.DailyRate)...)
	errs = append(errs, validateAmount(prefix+".monthly_rate", item.MonthlyRate)...)
	return errs
}

// validateAmount rejects negative amounts and amounts finer than MoneyPlaces
func validateAmount(field string, d decimal.Decimal) ValidationErrors {
	switch {
	case d.IsNegative():
		return ValidationErrors{invalid(field, ErrNegativeAmount)}
	case !IsMoney(d):
		return ValidationErrors{invalid(field, ErrTooManyDecimals)}
	}
	return nil
}

// NormalizeLineItem validates item and fills its derived EndDate and Total
func NormalizeLineItem(prefix string, item models.RentalLineItem) (models.RentalLineItem, error) {
	if errs := ValidateLineItem(prefix, item); len(errs) > 0 {
		return item, errs
	}
	end, err := ComputeEndDate(item.StartDate, item.Duration, item.DurationType)
	if err != nil {
		return item, ValidationErrors{invalid(prefix+".duration", err)}
	}
	item.StartDate = dateOf(item.StartDate)
	item.EndDate = end
	item.Total = ComputeLineTotal(item)
	return item, nil
}
