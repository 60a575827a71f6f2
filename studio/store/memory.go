// Package store provides Store implementations.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	bookings       []studio.Booking
	events         []studio.Event
	staff          []studio.Staff
	assignments    []studio.StaffAssignment
	workflows      map[studio.EventID]studio.Workflow
	workflowOrder  []studio.EventID
	staffPayments  []studio.StaffPaymentRecord
	clientPayments []studio.ClientPaymentRecord
	expenses       []studio.Expense

	now  func() time.Time
	last time.Time
}

func NewMemory() *Memory {
	return &Memory{
		workflows: make(map[studio.EventID]studio.Workflow),
		now:       time.Now,
	}
}

// WithClock replaces the wall clock used for CreatedAt stamps.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

// stamp returns a strictly increasing creation time so insertion order is
// recoverable from CreatedAt alone.
func (m *Memory) stamp() time.Time {
	t := m.now().UTC()
	if !t.After(m.last) {
		t = m.last.Add(time.Nanosecond)
	}
	m.last = t
	return t
}

// =============================================================================
// SNAPSHOT
// =============================================================================

func (m *Memory) Snapshot(_ context.Context) (studio.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	workflows := make([]studio.Workflow, 0, len(m.workflowOrder))
	for _, id := range m.workflowOrder {
		workflows = append(workflows, m.workflows[id].Clone())
	}
	return studio.Snapshot{
		Bookings:       append([]studio.Booking(nil), m.bookings...),
		Events:         append([]studio.Event(nil), m.events...),
		Assignments:    append([]studio.StaffAssignment(nil), m.assignments...),
		Staff:          append([]studio.Staff(nil), m.staff...),
		Workflows:      workflows,
		StaffPayments:  append([]studio.StaffPaymentRecord(nil), m.staffPayments...),
		ClientPayments: append([]studio.ClientPaymentRecord(nil), m.clientPayments...),
		Expenses:       append([]studio.Expense(nil), m.expenses...),
	}, nil
}

// =============================================================================
// AGREED RECORDS (studio.AgreedRecords interface)
// =============================================================================

func (m *Memory) ListAgreedRecords(_ context.Context, staffID studio.StaffID, eventID studio.EventID) ([]studio.StaffPaymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []studio.StaffPaymentRecord
	for _, r := range m.staffPayments {
		if r.StaffID == staffID && r.EventID == eventID && r.Type == studio.StaffAgreed {
			out = append(out, r)
		}
	}
	studio.SortCanonical(out)
	return out, nil
}

func (m *Memory) UpdateAmount(_ context.Context, id studio.RecordID, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.staffPayments {
		if m.staffPayments[i].ID == id {
			m.staffPayments[i].Amount = amount
			return nil
		}
	}
	return &studio.NotFoundError{Kind: "staff payment", ID: string(id)}
}

func (m *Memory) DeleteRecord(_ context.Context, id studio.RecordID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.staffPayments {
		if m.staffPayments[i].ID == id {
			m.staffPayments = append(m.staffPayments[:i], m.staffPayments[i+1:]...)
			return nil
		}
	}
	return &studio.NotFoundError{Kind: "staff payment", ID: string(id)}
}

func (m *Memory) InsertAgreedRecord(_ context.Context, staffID studio.StaffID, eventID studio.EventID, amount decimal.Decimal, date studio.Date) (studio.StaffPaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := studio.StaffPaymentRecord{
		ID:        studio.RecordID(uuid.NewString()),
		StaffID:   staffID,
		EventID:   eventID,
		Type:      studio.StaffAgreed,
		Amount:    amount,
		Date:      date,
		CreatedAt: m.stamp(),
	}
	m.staffPayments = append(m.staffPayments, rec)
	return rec, nil
}

// =============================================================================
// WRITES (studio.Store interface)
// =============================================================================

func (m *Memory) SaveBooking(_ context.Context, b studio.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.stamp()
	for i := range m.bookings {
		if m.bookings[i].ID == b.ID {
			b.CreatedAt = m.bookings[i].CreatedAt
			b.UpdatedAt = now
			m.bookings[i] = b
			return nil
		}
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	m.bookings = append(m.bookings, b)
	return nil
}

func (m *Memory) SaveEvent(_ context.Context, e studio.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.events {
		if m.events[i].ID == e.ID {
			m.events[i] = e
			return nil
		}
	}
	m.events = append(m.events, e)
	return nil
}

func (m *Memory) SaveStaff(_ context.Context, s studio.Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.staff {
		if m.staff[i].ID == s.ID {
			m.staff[i] = s
			return nil
		}
	}
	m.staff = append(m.staff, s)
	return nil
}

func (m *Memory) SaveAssignment(_ context.Context, a studio.StaffAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	for i := range m.assignments {
		if m.assignments[i].ID == a.ID {
			m.assignments[i] = a
			return nil
		}
	}
	m.assignments = append(m.assignments, a)
	return nil
}

func (m *Memory) SaveWorkflow(_ context.Context, w studio.Workflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.workflows[w.EventID]; !ok {
		m.workflowOrder = append(m.workflowOrder, w.EventID)
	}
	m.workflows[w.EventID] = w.Clone()
	return nil
}

func (m *Memory) AddStaffPayment(_ context.Context, r studio.StaffPaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == "" {
		r.ID = studio.RecordID(uuid.NewString())
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = m.stamp()
	}
	m.staffPayments = append(m.staffPayments, r)
	return nil
}

func (m *Memory) AddClientPayment(_ context.Context, r studio.ClientPaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == "" {
		r.ID = studio.RecordID(uuid.NewString())
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = m.stamp()
	}
	m.clientPayments = append(m.clientPayments, r)
	return nil
}

func (m *Memory) AddExpense(_ context.Context, e studio.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == "" {
		e.ID = studio.RecordID(uuid.NewString())
	}
	m.expenses = append(m.expenses, e)
	return nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bookings = nil
	m.events = nil
	m.staff = nil
	m.assignments = nil
	m.workflows = make(map[studio.EventID]studio.Workflow)
	m.workflowOrder = nil
	m.staffPayments = nil
	m.clientPayments = nil
	m.expenses = nil
	return nil
}

var _ studio.Store = (*Memory)(nil)
