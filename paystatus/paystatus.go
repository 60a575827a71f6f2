/*
Package paystatus turns a booking's package amount and received total into
a display message and a severity tier.

RULES:
  outstanding = package - received

  package == 0        "No package amount"     neutral
  outstanding == 0    "Fully paid"            ok
  outstanding < 0     "Overpaid by <amount>"  ok
  outstanding < 30%   "<amount> due"          warning
  otherwise           "<amount> due"          critical

  The 30% threshold is relative to the package amount.

AMOUNTS:
  Outstanding is exact. Only the message is rounded, through Currency.

SEE ALSO:
  - currency.go: Display convention
  - ledger package: Received totals come from ClientEntry records
*/
package paystatus

import (
	"github.com/shopspring/decimal"

	"github.com/warp/studio-engine/ledger"
	"github.com/warp/studio-engine/studio"
)

type Severity string

const (
	SeverityNeutral  Severity = "neutral"
	SeverityOK       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

const (
	MessageNoPackage = "No package amount"
	MessageFullyPaid = "Fully paid"
)

var warningThreshold = decimal.NewFromFloat(0.3)

type Status struct {
	Package     decimal.Decimal
	Received    decimal.Decimal
	Outstanding decimal.Decimal
	Message     string
	Severity    Severity
}

// Evaluate formats with the plain Currency.
func Evaluate(pkg, received decimal.Decimal) Status {
	return Currency{}.Evaluate(pkg, received)
}

// Evaluate builds the status, rendering amounts in c.
func (c Currency) Evaluate(pkg, received decimal.Decimal) Status {
	out := pkg.Sub(received)
	s := Status{Package: pkg, Received: received, Outstanding: out}

	switch {
	case pkg.IsZero():
		s.Message = MessageNoPackage
	case out.IsZero():
		s.Message = MessageFullyPaid
	case out.IsNegative():
		s.Message = "Overpaid by " + c.Format(out.Abs())
	default:
		s.Message = c.Format(out) + " due"
	}
	s.Severity = severity(pkg, out)
	return s
}

func severity(pkg, outstanding decimal.Decimal) Severity {
	switch {
	case pkg.IsZero():
		return SeverityNeutral
	case !outstanding.IsPositive():
		return SeverityOK
	case outstanding.LessThan(pkg.Mul(warningThreshold)):
		return SeverityWarning
	default:
		return SeverityCritical
	}
}

// Received sums received client payments for one booking.
func Received(bookingID studio.BookingID, records []studio.ClientPaymentRecord) decimal.Decimal {
	return ledger.TotalPaid(string(bookingID), ledger.ClientEntries(records))
}

// ForBooking evaluates a booking against its received payments.
func (c Currency) ForBooking(b studio.Booking, records []studio.ClientPaymentRecord) Status {
	return c.Evaluate(b.PackageAmount, Received(b.ID, records))
}

// ForBooking uses the plain Currency.
func ForBooking(b studio.Booking, records []studio.ClientPaymentRecord) Status {
	return Currency{}.ForBooking(b, records)
}
