/*
store.go - Persistence interfaces for the record store

PURPOSE:
  Defines the boundary between the engine and wherever records live.
  Engine packages never call these directly except the reconcile package,
  which needs the four agreed-record operations. Everything else reads a
  Snapshot and computes.

KEY INTERFACES:
  SnapshotReader:  One consistent read of every collection
  AgreedRecords:   The four operations reconciliation requires
  Store:           Full record store used by the API and CLI

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - studio/store/memory.go: In-memory for tests and demos

ORDERING CONTRACT:
  ListAgreedRecords returns records in canonical order (see SortCanonical).
  Reconciliation re-sorts anyway so a store that ignores this is still safe.

SEE ALSO:
  - reconcile/service.go: Consumer of AgreedRecords
*/
package studio

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// READ SIDE
// =============================================================================

type SnapshotReader interface {
	// Snapshot returns copies of every collection. Callers may keep it.
	Snapshot(ctx context.Context) (Snapshot, error)
}

// =============================================================================
// AGREED RECORDS - What reconciliation needs from storage
// =============================================================================

type AgreedRecords interface {
	// ListAgreedRecords returns every agreed record for (staff, event).
	ListAgreedRecords(ctx context.Context, staffID StaffID, eventID EventID) ([]StaffPaymentRecord, error)

	// UpdateAmount sets the amount of an existing record.
	UpdateAmount(ctx context.Context, id RecordID, amount decimal.Decimal) error

	// DeleteRecord removes a staff payment record.
	DeleteRecord(ctx context.Context, id RecordID) error

	// InsertAgreedRecord creates a new agreed record and returns it.
	InsertAgreedRecord(ctx context.Context, staffID StaffID, eventID EventID, amount decimal.Decimal, date Date) (StaffPaymentRecord, error)
}

// =============================================================================
// STORE - Full record store
// =============================================================================

type Store interface {
	SnapshotReader
	AgreedRecords

	SaveBooking(ctx context.Context, b Booking) error
	SaveEvent(ctx context.Context, e Event) error
	SaveStaff(ctx context.Context, s Staff) error
	SaveAssignment(ctx context.Context, a StaffAssignment) error
	SaveWorkflow(ctx context.Context, w Workflow) error
	AddStaffPayment(ctx context.Context, r StaffPaymentRecord) error
	AddClientPayment(ctx context.Context, r ClientPaymentRecord) error
	AddExpense(ctx context.Context, e Expense) error

	// Reset clears every collection. Demo use only.
	Reset(ctx context.Context) error
}

// =============================================================================
// CANONICAL ORDER
// =============================================================================

// SortCanonical orders agreed records so the first one is the record that
// survives reconciliation: earliest CreatedAt, then lowest ID.
func SortCanonical(records []StaffPaymentRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
