package circulation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// DaysLate counts started days between due and returned; zero when returned on time.
func DaysLate(due, returned time.Time) int64 {
	late := returned.Sub(due)
	if late <= 0 {
		return 0
	}

	days := int64(late / day)
	if late%day != 0 {
		days++
	}

	return days
}

// LateFee applies the per-diem rate in effect at return time, capped at MaxLateFee when set.
func LateFee(due, returned time.Time, s Settings) int64 {
	fee := DaysLate(due, returned) * s.LateFeePerDay
	if s.MaxLateFee > 0 && fee > s.MaxLateFee {
		fee = s.MaxLateFee
	}

	return fee
}

// ParseAmount converts a decimal string such as "12.50" into minor units.
// Negative values and more than two fractional digits are rejected.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, validationf("invalid amount %q", s)
	}

	if d.IsNegative() {
		return 0, validationf("amount %q must not be negative", s)
	}

	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, validationf("amount %q has more than two decimal places", s)
	}

	return d.Shift(2).IntPart(), nil
}

// FormatAmount renders minor units with two decimal places.
func FormatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

func validateFees(f Fees) error {
	if f.Late < 0 || f.Damage < 0 || f.Processing < 0 {
		return fmt.Errorf("%w: fees must not be negative", ErrValidation)
	}

	return nil
}
