// Package amortization computes EMI-style repayment schedules. All monetary
// arithmetic uses fixed-point decimals rounded half-up to 2 places; binary
// floating point is never used for money so that equality checks like
// "outstanding reaches zero" hold exactly.
package amortization

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// ScheduleLine is one installment of an amortization schedule.
type ScheduleLine struct {
	Sequence  int             // 1-based line number
	DueDate   time.Time       // one calendar month after the previous line, day clamped to month length
	Payment   decimal.Decimal // total due this period
	Interest  decimal.Decimal // interest component
	Principal decimal.Decimal // principal component
	Balance   decimal.Decimal // principal balance after this line
}

// MonthlyRate converts an annual percentage rate to a monthly decimal rate
// (annual% / 1200).
func MonthlyRate(annualRatePercent float64) decimal.Decimal {
	return decimal.NewFromFloat(annualRatePercent).Div(twelve.Mul(hundred))
}

// AddMonth advances t by one calendar month, clamping the day to the target
// month's length. A schedule anchored on Jan 31 runs Feb 28 (29 in leap
// years), Mar 28 and so on; time.AddDate would overflow Jan 31 into Mar 3
// and skip February entirely.
func AddMonth(t time.Time) time.Time {
	y, m, day := t.Date()
	if last := daysIn(y, m+1); day > last {
		day = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(y, m+1, day, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the following month normalizes to this month's last day.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Installment computes the fixed monthly payment for the given terms,
// rounded half-up to 2 decimal places.
//
// For a non-zero monthly rate r: E = P.r.(1+r)^n / ((1+r)^n - 1).
// For a zero rate the principal is split evenly.
func Installment(principal decimal.Decimal, annualRatePercent float64, termMonths int) decimal.Decimal {
	r := MonthlyRate(annualRatePercent)
	n := decimal.NewFromInt(int64(termMonths))
	if r.IsZero() {
		return principal.Div(n).Round(2)
	}
	onePlusRPowN := decimal.NewFromInt(1).Add(r).Pow(n)
	return principal.Mul(r).Mul(onePlusRPowN).
		Div(onePlusRPowN.Sub(decimal.NewFromInt(1))).
		Round(2)
}

// Schedule generates the full repayment schedule for a loan disbursed on
// disbursedOn. It returns the fixed installment and one line per month.
//
// Each line rounds interest and principal half-up to the cent. The final
// line's principal component is forced to the remaining balance so the
// principal components always sum exactly to the original principal,
// regardless of rounding drift accumulated over the term; its payment is
// principal + interest rather than the fixed installment.
func Schedule(principal decimal.Decimal, annualRatePercent float64, termMonths int, disbursedOn time.Time) (decimal.Decimal, []ScheduleLine, error) {
	if termMonths <= 0 {
		return decimal.Zero, nil, fmt.Errorf("term must be positive, got %d", termMonths)
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil, fmt.Errorf("principal must be positive, got %s", principal)
	}
	if annualRatePercent < 0 {
		return decimal.Zero, nil, fmt.Errorf("interest rate must not be negative, got %v", annualRatePercent)
	}

	r := MonthlyRate(annualRatePercent)
	installment := Installment(principal, annualRatePercent, termMonths)

	lines := make([]ScheduleLine, 0, termMonths)
	balance := principal
	dueDate := disbursedOn
	for i := 1; i <= termMonths; i++ {
		dueDate = AddMonth(dueDate)
		interest := balance.Mul(r).Round(2)
		principalComponent := installment.Sub(interest).Round(2)
		var payment decimal.Decimal
		if i == termMonths {
			// Absorb rounding drift: close the balance exactly.
			principalComponent = balance
			payment = principalComponent.Add(interest)
			balance = decimal.Zero
		} else {
			payment = installment
			balance = balance.Sub(principalComponent)
		}
		lines = append(lines, ScheduleLine{
			Sequence:  i,
			DueDate:   dueDate,
			Payment:   payment,
			Interest:  interest,
			Principal: principalComponent,
			Balance:   balance,
		})
	}
	return installment, lines, nil
}
