/*
Package ledger aggregates payment records into balances.

PURPOSE:
  Both money ledgers of the studio work the same way: some records promise
  money (agreed) and some records move money (made to staff, received from
  clients). Balances are never stored. They are computed by summing the
  records every time, so there is no separate "due" field that can drift.

KEY INVARIANT:
  TotalDue = TotalAgreed - TotalPaid, for every summary, on both sides.
  Due may be negative (overpayment). It is never clamped.

ENTRY MAPPING:
  Staff side:   agreed -> SideAgreed, made     -> SidePaid
  Client side:  agreed -> SideAgreed, received -> SidePaid
  Any other type maps to SideNone and is ignored by totals.

EXAMPLE:
  Staff A: agreed 5000, made 2000, made 1000
  Summarize("A", "Asha", records) = {Agreed 5000, Paid 3000, Due 2000}

SEE ALSO:
  - ranking.go: TopN ordering
  - events.go: Per-event agreed amounts for a staff member
  - reconcile/service.go: Writes that keep agreed records canonical
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// ENTRY - What the engine needs to know about a record
// =============================================================================

type Side int

const (
	SideNone Side = iota
	SideAgreed
	SidePaid
)

// Entry is a ledger record from either side.
type Entry interface {
	Subject() string
	Side() Side
	Value() decimal.Decimal
	PaidOn() studio.Date
}

// StaffEntry adapts a staff payment record.
type StaffEntry studio.StaffPaymentRecord

func (e StaffEntry) Subject() string        { return string(e.StaffID) }
func (e StaffEntry) Value() decimal.Decimal { return e.Amount }
func (e StaffEntry) PaidOn() studio.Date    { return e.Date }
func (e StaffEntry) Side() Side {
	switch e.Type {
	case studio.StaffAgreed:
		return SideAgreed
	case studio.StaffMade:
		return SidePaid
	}
	return SideNone
}

// ClientEntry adapts a client payment record. Its subject is the booking.
type ClientEntry studio.ClientPaymentRecord

func (e ClientEntry) Subject() string        { return string(e.BookingID) }
func (e ClientEntry) Value() decimal.Decimal { return e.Amount }
func (e ClientEntry) PaidOn() studio.Date    { return e.Date }
func (e ClientEntry) Side() Side {
	switch e.Status {
	case studio.ClientAgreed:
		return SideAgreed
	case studio.ClientReceived:
		return SidePaid
	}
	return SideNone
}

// StaffEntries converts staff records for the generic functions.
func StaffEntries(records []studio.StaffPaymentRecord) []StaffEntry {
	out := make([]StaffEntry, len(records))
	for i, r := range records {
		out[i] = StaffEntry(r)
	}
	return out
}

// ClientEntries converts client records for the generic functions.
func ClientEntries(records []studio.ClientPaymentRecord) []ClientEntry {
	out := make([]ClientEntry, len(records))
	for i, r := range records {
		out[i] = ClientEntry(r)
	}
	return out
}

// =============================================================================
// TOTALS
// =============================================================================

func total[E Entry](subject string, side Side, records []E) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		if r.Subject() == subject && r.Side() == side {
			sum = sum.Add(r.Value())
		}
	}
	return sum
}

// TotalAgreed sums the subject's agreed records.
func TotalAgreed[E Entry](subject string, records []E) decimal.Decimal {
	return total(subject, SideAgreed, records)
}

// TotalPaid sums the subject's made/received records.
func TotalPaid[E Entry](subject string, records []E) decimal.Decimal {
	return total(subject, SidePaid, records)
}

// Due is agreed minus paid. Negative means overpaid.
func Due[E Entry](subject string, records []E) decimal.Decimal {
	return TotalAgreed(subject, records).Sub(TotalPaid(subject, records))
}

// =============================================================================
// SUMMARY
// =============================================================================

type Summary struct {
	ID          string
	Name        string
	TotalAgreed decimal.Decimal
	TotalPaid   decimal.Decimal
	TotalDue    decimal.Decimal
}

// HasActivity is false when nothing was ever agreed or paid.
func (s Summary) HasActivity() bool {
	return !s.TotalAgreed.IsZero() || !s.TotalPaid.IsZero()
}

// Summarize computes a subject's totals. A subject with no records gets an
// all-zero summary.
func Summarize[E Entry](subject, name string, records []E) Summary {
	agreed := TotalAgreed(subject, records)
	paid := TotalPaid(subject, records)
	return Summary{
		ID:          subject,
		Name:        name,
		TotalAgreed: agreed,
		TotalPaid:   paid,
		TotalDue:    agreed.Sub(paid),
	}
}

// Subject names a ledger subject (staff member or booking).
type Subject struct {
	ID   string
	Name string
}

// Summaries summarizes every subject in input order.
func Summaries[E Entry](subjects []Subject, records []E) []Summary {
	out := make([]Summary, len(subjects))
	for i, s := range subjects {
		out[i] = Summarize(s.ID, s.Name, records)
	}
	return out
}

// StaffSubjects lists staff members as ledger subjects.
func StaffSubjects(staff []studio.Staff) []Subject {
	out := make([]Subject, len(staff))
	for i, s := range staff {
		out[i] = Subject{ID: string(s.ID), Name: s.Name}
	}
	return out
}

// =============================================================================
// HISTORY
// =============================================================================

// History returns the subject's records, most recent payment date first.
// Records sharing a date keep their original order.
func History[E Entry](subject string, records []E) []E {
	var out []E
	for _, r := range records {
		if r.Subject() == subject {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PaidOn().After(out[j].PaidOn())
	})
	return out
}
