package amortization_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karofin/loan_management_app/internal/utils/amortization"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestInstallment_StandardLoan(t *testing.T) {
	// 12000 at 12% over 12 months -> monthly rate 0.01 -> EMI 1066.19
	emi := amortization.Installment(d("12000.00"), 12.0, 12)
	assert.True(t, emi.Equal(d("1066.19")), "expected 1066.19, got %s", emi)
}

func TestInstallment_ZeroRate(t *testing.T) {
	emi := amortization.Installment(d("1000.00"), 0.0, 4)
	assert.True(t, emi.Equal(d("250.00")), "expected 250.00, got %s", emi)
}

func TestSchedule_ZeroRatePrincipalSumsExactly(t *testing.T) {
	start := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	installment, lines, err := amortization.Schedule(d("1000.00"), 0.0, 4, start)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.True(t, installment.Equal(d("250.00")))

	total := decimal.Zero
	for _, line := range lines {
		assert.True(t, line.Interest.IsZero())
		total = total.Add(line.Payment)
	}
	assert.True(t, total.Equal(d("1000.00")), "installments must sum to principal, got %s", total)
	assert.True(t, lines[3].Balance.IsZero())
}

func TestSchedule_PrincipalComponentsSumToPrincipal(t *testing.T) {
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	principal := d("12000.00")
	_, lines, err := amortization.Schedule(principal, 12.0, 12, start)
	require.NoError(t, err)
	require.Len(t, lines, 12)

	// First line: interest = 12000 * 0.01 = 120.00, principal = 946.19.
	assert.True(t, lines[0].Interest.Equal(d("120.00")), "got %s", lines[0].Interest)
	assert.True(t, lines[0].Principal.Equal(d("946.19")), "got %s", lines[0].Principal)

	principalSum := decimal.Zero
	paymentSum := decimal.Zero
	componentSum := decimal.Zero
	for _, line := range lines {
		principalSum = principalSum.Add(line.Principal)
		paymentSum = paymentSum.Add(line.Payment)
		componentSum = componentSum.Add(line.Principal).Add(line.Interest)
	}
	assert.True(t, principalSum.Equal(principal), "principal components sum to %s", principalSum)
	assert.True(t, paymentSum.Equal(componentSum), "payments %s != components %s", paymentSum, componentSum)
	assert.True(t, lines[11].Balance.IsZero())
}

func TestSchedule_AwkwardTermsStillCloseExactly(t *testing.T) {
	start := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		principal string
		rate      float64
		term      int
	}{
		{"9999.99", 13.7, 7},
		{"50000.00", 8.0, 240},
		{"123.45", 24.0, 3},
		{"100000.00", 9.5, 60},
	}
	for _, tc := range cases {
		principal := d(tc.principal)
		_, lines, err := amortization.Schedule(principal, tc.rate, tc.term, start)
		require.NoError(t, err)
		require.Len(t, lines, tc.term)

		sum := decimal.Zero
		for _, line := range lines {
			sum = sum.Add(line.Principal)
		}
		assert.True(t, sum.Equal(principal),
			"principal %s rate %v term %d: components sum to %s", tc.principal, tc.rate, tc.term, sum)
		assert.True(t, lines[tc.term-1].Balance.IsZero())
	}
}

func TestSchedule_DueDatesAdvanceByCalendarMonth(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	_, lines, err := amortization.Schedule(d("1200.00"), 10.0, 3, start)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), lines[0].DueDate)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), lines[1].DueDate)
	assert.Equal(t, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), lines[2].DueDate)
}

func TestSchedule_DueDatesClampAtMonthEnd(t *testing.T) {
	// A Jan 31 disbursement must not overflow past February.
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	_, lines, err := amortization.Schedule(d("1200.00"), 12.0, 4, start)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), lines[0].DueDate)
	assert.Equal(t, time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC), lines[1].DueDate)
	assert.Equal(t, time.Date(2025, 4, 28, 0, 0, 0, 0, time.UTC), lines[2].DueDate)
	assert.Equal(t, time.Date(2025, 5, 28, 0, 0, 0, 0, time.UTC), lines[3].DueDate)
}

func TestAddMonth(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"mid-month keeps the day", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)},
		{"Jan 31 clamps to Feb 28", time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"leap year Jan 31 clamps to Feb 29", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"Oct 31 clamps to Nov 30", time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC), time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)},
		{"December wraps the year", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, amortization.AddMonth(tc.in))
		})
	}
}

func TestSchedule_RejectsInvalidInput(t *testing.T) {
	start := time.Now()
	_, _, err := amortization.Schedule(d("0.00"), 10.0, 12, start)
	assert.Error(t, err)
	_, _, err = amortization.Schedule(d("1000.00"), 10.0, 0, start)
	assert.Error(t, err)
	_, _, err = amortization.Schedule(d("1000.00"), -1.0, 12, start)
	assert.Error(t, err)
}
