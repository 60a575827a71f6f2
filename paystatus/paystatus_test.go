package paystatus_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/warp/studio-engine/paystatus"
	"github.com/warp/studio-engine/studio"
)

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestEvaluate_FullyPaid(t *testing.T) {
	// GIVEN: A 100000 package received in full
	// WHEN: Evaluating
	s := paystatus.Evaluate(amt(100000), amt(100000))

	// THEN: Fully paid, ok
	assert.Equal(t, "Fully paid", s.Message)
	assert.Equal(t, paystatus.SeverityOK, s.Severity)
	assert.True(t, s.Outstanding.IsZero())
}

func TestEvaluate_Overpaid(t *testing.T) {
	s := paystatus.Evaluate(amt(100000), amt(120000))

	assert.Equal(t, "Overpaid by 20000", s.Message)
	assert.Equal(t, paystatus.SeverityOK, s.Severity)
	assert.True(t, s.Outstanding.Equal(amt(-20000)))
}

func TestEvaluate_NoPackage(t *testing.T) {
	s := paystatus.Evaluate(decimal.Zero, amt(500))
	assert.Equal(t, "No package amount", s.Message)
	assert.Equal(t, paystatus.SeverityNeutral, s.Severity)
}

func TestEvaluate_SeverityThreshold(t *testing.T) {
	cases := []struct {
		received int64
		message  string
		want     paystatus.Severity
	}{
		{received: 71000, message: "29000 due", want: paystatus.SeverityWarning},
		{received: 70000, message: "30000 due", want: paystatus.SeverityCritical},
		{received: 0, message: "100000 due", want: paystatus.SeverityCritical},
		{received: 99999, message: "1 due", want: paystatus.SeverityWarning},
	}
	for _, tc := range cases {
		s := paystatus.Evaluate(amt(100000), amt(tc.received))
		assert.Equal(t, tc.message, s.Message)
		assert.Equal(t, tc.want, s.Severity, "received %d", tc.received)
	}
}

func TestEvaluate_FractionalOutstandingKeptExact(t *testing.T) {
	s := paystatus.Evaluate(amt(1000), decimal.RequireFromString("999.6"))

	assert.Equal(t, "0.40 due", s.Message)
	assert.True(t, s.Outstanding.Equal(decimal.RequireFromString("0.4")))
	assert.Equal(t, paystatus.SeverityWarning, s.Severity)
}

func TestEvaluate_SubUnitBalancesNeverReadAsZero(t *testing.T) {
	// GIVEN: Balances under one unit either way
	over := paystatus.Evaluate(amt(1000), decimal.RequireFromString("1000.4"))
	due := paystatus.Evaluate(amt(1000), decimal.RequireFromString("999.995"))

	// THEN: The message keeps the cents and matches the severity
	assert.Equal(t, "Overpaid by 0.40", over.Message)
	assert.Equal(t, paystatus.SeverityOK, over.Severity)
	assert.Equal(t, "0.01 due", due.Message)
	assert.Equal(t, paystatus.SeverityWarning, due.Severity)

	// Whole-unit rounding is unchanged above one unit
	assert.Equal(t, "2 due", paystatus.Evaluate(amt(1000), decimal.RequireFromString("998.4")).Message)
	c := paystatus.Currency{Prefix: "Rs ", Tag: language.English}
	assert.Equal(t, "Rs 0.40", c.Format(decimal.RequireFromString("-0.4").Abs()))
}

func TestCurrency_GroupingAndPrefix(t *testing.T) {
	c := paystatus.Currency{Prefix: "Rs ", Tag: language.English}
	assert.Equal(t, "Rs 1,234,568", c.Format(decimal.RequireFromString("1234567.5")))

	s := c.Evaluate(amt(100000), amt(120000))
	assert.Equal(t, "Overpaid by Rs 20,000", s.Message)

	plain := paystatus.Currency{Prefix: "$"}
	assert.Equal(t, "$20000", plain.Format(amt(20000)))
}

func TestNewCurrency(t *testing.T) {
	c, err := paystatus.NewCurrency("", "")
	require.NoError(t, err)
	assert.Equal(t, "5000", c.Format(amt(5000)))

	c, err = paystatus.NewCurrency("", "en")
	require.NoError(t, err)
	assert.Equal(t, "5,000", c.Format(amt(5000)))

	_, err = paystatus.NewCurrency("", "not a locale!")
	assert.Error(t, err)
}

func TestForBooking_SumsReceivedOnly(t *testing.T) {
	b := studio.Booking{ID: "bk-1", PackageAmount: amt(100000)}
	records := []studio.ClientPaymentRecord{
		{BookingID: "bk-1", Status: studio.ClientReceived, Amount: amt(60000)},
		{BookingID: "bk-1", Status: studio.ClientReceived, Amount: amt(40000)},
		{BookingID: "bk-1", Status: studio.ClientAgreed, Amount: amt(100000)},
		{BookingID: "bk-2", Status: studio.ClientReceived, Amount: amt(5000)},
	}

	s := paystatus.ForBooking(b, records)

	assert.Equal(t, "Fully paid", s.Message)
	assert.True(t, s.Received.Equal(amt(100000)))
}
