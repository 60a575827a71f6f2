/*
Package studio provides the core record types for the studio engine.

PURPOSE:
  This package contains the plain snapshot types every engine component
  reads: bookings, events, staff, assignments, production workflows and the
  two payment ledgers. Nothing in here performs I/O. Records arrive from a
  record store as immutable values and the engine packages derive views
  from them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Typed identifiers so staff, event and booking IDs cannot be mixed
  - Payment records for both ledgers (staff side and client side)
  - Snapshot: one consistent read of every collection

DESIGN PRINCIPLES:
  1. Immutability: engine functions never mutate a snapshot
  2. Precision: money is decimal.Decimal, never float64
  3. Naive dates: event and payment dates are calendar strings (see date.go)

USAGE:
  rec := studio.StaffPaymentRecord{
      StaffID: "stf-1",
      EventID: "evt-9",
      Type:    studio.StaffAgreed,
      Amount:  decimal.NewFromInt(5000),
      Date:    "2025-03-01",
  }

SEE ALSO:
  - workflow.go: Production checklists per medium
  - store.go: Record store interfaces
  - validation.go: Input validation before records are created
*/
package studio

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type BookingID string
type EventID string
type StaffID string
type ClientID string
type RecordID string

// Role is the job a staff member performs at an event.
type Role string

const (
	RolePhotographer  Role = "photographer"
	RoleVideographer  Role = "videographer"
	RoleEditor        Role = "editor"
	RoleDroneOperator Role = "drone_operator"
	RoleAssistant     Role = "assistant"
)

// =============================================================================
// BOOKINGS, EVENTS, STAFF
// =============================================================================

// Booking is a client engagement. It owns zero or more events.
type Booking struct {
	ID            BookingID
	ClientID      ClientID
	Name          string
	PackageAmount decimal.Decimal
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Event is a single shoot day belonging to a booking.
type Event struct {
	ID        EventID
	BookingID BookingID
	Name      string
	Date      Date
	Venue     string
}

// StaffAssignment links a staff member to an event with a role.
type StaffAssignment struct {
	ID           string
	StaffID      StaffID
	EventID      EventID
	Role         Role
	DataReceived bool
	ReceivedBy   string
	ReceivedAt   *time.Time
}

type Staff struct {
	ID     StaffID
	Name   string
	Role   Role
	Active bool
}

// =============================================================================
// PAYMENT RECORDS
// =============================================================================

type ClientPaymentStatus string

const (
	ClientAgreed   ClientPaymentStatus = "agreed"
	ClientReceived ClientPaymentStatus = "received"
)

// ClientPaymentRecord is money owed by (agreed) or collected from (received)
// a customer for a booking.
type ClientPaymentRecord struct {
	ID        RecordID
	BookingID BookingID
	Amount    decimal.Decimal
	Status    ClientPaymentStatus
	Date      Date
	CreatedAt time.Time
}

type StaffPaymentType string

const (
	StaffAgreed StaffPaymentType = "agreed"
	StaffMade   StaffPaymentType = "made"
)

type PaymentMethod string

const (
	MethodCash  PaymentMethod = "cash"
	MethodBank  PaymentMethod = "bank_transfer"
	MethodUPI   PaymentMethod = "upi"
	MethodCheck PaymentMethod = "cheque"
)

// StaffPaymentRecord is money promised to (agreed) or paid to (made) a
// photographer or videographer. An empty EventID marks a general payment
// not linked to any event.
type StaffPaymentRecord struct {
	ID        RecordID
	StaffID   StaffID
	EventID   EventID
	Type      StaffPaymentType
	Amount    decimal.Decimal
	Date      Date
	Method    PaymentMethod
	Remarks   string
	CreatedAt time.Time
}

// IsGeneral reports whether the payment is not tied to an event.
func (r StaffPaymentRecord) IsGeneral() bool { return r.EventID == "" }

// Expense is a studio running cost.
type Expense struct {
	ID          RecordID
	Date        Date
	Amount      decimal.Decimal
	Category    string
	Description string
}

// =============================================================================
// AMOUNTS
// =============================================================================

// ParseAmount converts stored text into a decimal. Malformed input becomes
// zero so a single bad row cannot break a ledger total.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// SNAPSHOT - One consistent read of every collection
// =============================================================================

type Snapshot struct {
	Bookings       []Booking
	Events         []Event
	Assignments    []StaffAssignment
	Staff          []Staff
	Workflows      []Workflow
	StaffPayments  []StaffPaymentRecord
	ClientPayments []ClientPaymentRecord
	Expenses       []Expense
}

// EventsForBooking returns the booking's events in snapshot order.
func (s Snapshot) EventsForBooking(id BookingID) []Event {
	var out []Event
	for _, e := range s.Events {
		if e.BookingID == id {
			out = append(out, e)
		}
	}
	return out
}

// WorkflowsForEvents returns the workflows whose event is in events.
func (s Snapshot) WorkflowsForEvents(events []Event) []Workflow {
	ids := make(map[EventID]bool, len(events))
	for _, e := range events {
		ids[e.ID] = true
	}
	var out []Workflow
	for _, w := range s.Workflows {
		if ids[w.EventID] {
			out = append(out, w)
		}
	}
	return out
}

// ClientPaymentsForBooking filters the client ledger to one booking.
func (s Snapshot) ClientPaymentsForBooking(id BookingID) []ClientPaymentRecord {
	var out []ClientPaymentRecord
	for _, r := range s.ClientPayments {
		if r.BookingID == id {
			out = append(out, r)
		}
	}
	return out
}

func (s Snapshot) Booking(id BookingID) (Booking, bool) {
	for _, b := range s.Bookings {
		if b.ID == id {
			return b, true
		}
	}
	return Booking{}, false
}

func (s Snapshot) StaffMember(id StaffID) (Staff, bool) {
	for _, m := range s.Staff {
		if m.ID == id {
			return m, true
		}
	}
	return Staff{}, false
}
