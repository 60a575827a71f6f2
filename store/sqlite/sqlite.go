/*
Package sqlite provides a SQLite-backed implementation of studio.Store.

PURPOSE:
  Persists bookings, events, staff, assignments, production workflows and
  both payment ledgers. The engine never talks to SQL directly: it reads a
  Snapshot, and reconciliation goes through the four AgreedRecords
  operations.

INTERFACES IMPLEMENTED:
  studio.SnapshotReader: One consistent read of every table
  studio.AgreedRecords:  List/update/delete/insert agreed staff payments
  studio.Store:          Everything the API and CLI write

KEY TABLES:
  bookings, events, staff, assignments: Managed entities
  workflows:       One row per event, checklist states as JSON
  staff_payments:  Staff ledger (agreed + made, general when event_id NULL)
  client_payments: Client ledger (agreed + received)
  expenses:        Running costs

AMOUNTS:
  Stored as TEXT (decimal string) so no float rounding enters the ledger.
  Read back through studio.ParseAmount, which turns a malformed value into
  zero rather than failing the whole snapshot.

DUPLICATE AGREED RECORDS:
  There is deliberately no unique index on (staff_id, event_id) for agreed
  rows. Databases written by older versions can hold duplicates and must
  still open. Reconciliation collapses them on the next edit.

CANONICAL ORDER:
  created_at is written as fixed-width UTC nanoseconds so text order equals
  time order. ListAgreedRecords orders by created_at, id.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, as SQLite allows a single writer.

USAGE:
  store, err := sqlite.New("./data/studio.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - studio/store.go: Interface definitions
  - studio/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/studio-engine/studio"
)

// timeLayout sorts lexicographically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store implements studio.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	now  func() time.Time
	last time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithClock replaces the wall clock used for created_at stamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// stamp returns a strictly increasing creation time. Caller holds s.mu.
func (s *Store) stamp() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		package_amount TEXT NOT NULL DEFAULT '0',
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bookings_client
		ON bookings(client_id);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		booking_id TEXT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		event_date TEXT NOT NULL DEFAULT '',
		venue TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_events_booking
		ON events(booking_id);
	CREATE INDEX IF NOT EXISTS idx_events_date
		ON events(event_date);

	CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL REFERENCES staff(id),
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		data_received BOOLEAN NOT NULL DEFAULT FALSE,
		received_by TEXT,
		received_at TEXT,
		created_at TEXT NOT NULL
	);

	-- Conflict detection groups by staff and event date
	CREATE INDEX IF NOT EXISTS idx_assignments_staff
		ON assignments(staff_id);
	CREATE INDEX IF NOT EXISTS idx_assignments_event
		ON assignments(event_id);

	CREATE TABLE IF NOT EXISTS workflows (
		event_id TEXT PRIMARY KEY,
		states_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Staff ledger. No unique (staff_id, event_id) index on agreed rows.
	CREATE TABLE IF NOT EXISTS staff_payments (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		event_id TEXT,
		payment_type TEXT NOT NULL,
		amount TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		method TEXT,
		remarks TEXT,
		created_at TEXT NOT NULL
	);

	-- Reconciliation hot path
	CREATE INDEX IF NOT EXISTS idx_staff_payments_pair
		ON staff_payments(staff_id, event_id, payment_type, created_at);

	CREATE TABLE IF NOT EXISTS client_payments (
		id TEXT PRIMARY KEY,
		booking_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_client_payments_booking
		ON client_payments(booking_id);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		expense_date TEXT NOT NULL,
		amount TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// =============================================================================
// SNAPSHOT (studio.SnapshotReader interface)
// =============================================================================

// Snapshot reads every table inside one read transaction.
func (s *Store) Snapshot(ctx context.Context) (studio.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return studio.Snapshot{}, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	var snap studio.Snapshot
	if snap.Bookings, err = queryBookings(ctx, tx); err != nil {
		return studio.Snapshot{}, err
	}
	if snap.Events, err = queryEvents(ctx, tx); err != nil {
		return studio.Snapshot{}, err
	}
	if snap.Staff, err = queryStaff(ctx, tx); err != nil {
		return studio.Snapshot{}, err
	}
	if snap.Assignments, err = queryAssignments(ctx, tx); err != nil {
		return studio.Snapshot{}, err
	}
	if snap.Workflows, err = queryWorkflows(ctx, tx); err != nil {
		return studio.Snapshot{}, err
	}
	if snap.StaffPayments, err = queryStaffPayments(ctx, tx,
		"SELECT "+staffPaymentColumns+" FROM staff_payments ORDER BY created_at, id"); err != nil {
		return studio.Snapshot{}, err
	}
	if snap.ClientPayments, err = queryClientPayments(ctx, tx); err != nil {
		return studio.Snapshot{}, err
	}
	if snap.Expenses, err = queryExpenses(ctx, tx); err != nil {
		return studio.Snapshot{}, err
	}

	return snap, tx.Commit()
}

func queryBookings(ctx context.Context, q queryer) ([]studio.Booking, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, client_id, name, package_amount, notes, created_at, updated_at FROM bookings ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var out []studio.Booking
	for rows.Next() {
		var b studio.Booking
		var amount, createdAt, updatedAt string
		var notes sql.NullString
		if err := rows.Scan(&b.ID, &b.ClientID, &b.Name, &amount, &notes, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		b.PackageAmount = studio.ParseAmount(amount)
		b.Notes = notes.String
		b.CreatedAt = parseTime(createdAt)
		b.UpdatedAt = parseTime(updatedAt)
		out = append(out, b)
	}
	return out, rows.Err()
}

func queryEvents(ctx context.Context, q queryer) ([]studio.Event, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, booking_id, name, event_date, venue FROM events ORDER BY event_date, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []studio.Event
	for rows.Next() {
		var e studio.Event
		var venue sql.NullString
		if err := rows.Scan(&e.ID, &e.BookingID, &e.Name, &e.Date, &venue); err != nil {
			return nil, err
		}
		e.Venue = venue.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func queryStaff(ctx context.Context, q queryer) ([]studio.Staff, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name, role, active FROM staff ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	var out []studio.Staff
	for rows.Next() {
		var st studio.Staff
		if err := rows.Scan(&st.ID, &st.Name, &st.Role, &st.Active); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func queryAssignments(ctx context.Context, q queryer) ([]studio.StaffAssignment, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, staff_id, event_id, role, data_received, received_by, received_at
		FROM assignments
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var out []studio.StaffAssignment
	for rows.Next() {
		var a studio.StaffAssignment
		var receivedBy, receivedAt sql.NullString
		if err := rows.Scan(&a.ID, &a.StaffID, &a.EventID, &a.Role, &a.DataReceived, &receivedBy, &receivedAt); err != nil {
			return nil, err
		}
		a.ReceivedBy = receivedBy.String
		if receivedAt.Valid {
			t := parseTime(receivedAt.String)
			a.ReceivedAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func queryWorkflows(ctx context.Context, q queryer) ([]studio.Workflow, error) {
	rows, err := q.QueryContext(ctx, "SELECT event_id, states_json FROM workflows ORDER BY created_at, event_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}
	defer rows.Close()

	var out []studio.Workflow
	for rows.Next() {
		var eventID studio.EventID
		var statesJSON string
		if err := rows.Scan(&eventID, &statesJSON); err != nil {
			return nil, err
		}
		var states studio.WorkflowStates
		if err := json.Unmarshal([]byte(statesJSON), &states); err != nil {
			return nil, fmt.Errorf("failed to decode workflow %s: %w", eventID, err)
		}
		w, err := studio.WorkflowFromStates(eventID, states)
		if err != nil {
			return nil, fmt.Errorf("failed to load workflow %s: %w", eventID, err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

const staffPaymentColumns = "id, staff_id, event_id, payment_type, amount, payment_date, method, remarks, created_at"

func queryStaffPayments(ctx context.Context, q queryer, query string, args ...any) ([]studio.StaffPaymentRecord, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff payments: %w", err)
	}
	defer rows.Close()

	var out []studio.StaffPaymentRecord
	for rows.Next() {
		var r studio.StaffPaymentRecord
		var eventID, method, remarks sql.NullString
		var amount, createdAt string
		if err := rows.Scan(&r.ID, &r.StaffID, &eventID, &r.Type, &amount, &r.Date, &method, &remarks, &createdAt); err != nil {
			return nil, err
		}
		r.EventID = studio.EventID(eventID.String)
		r.Amount = studio.ParseAmount(amount)
		r.Method = studio.PaymentMethod(method.String)
		r.Remarks = remarks.String
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

func queryClientPayments(ctx context.Context, q queryer) ([]studio.ClientPaymentRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, booking_id, amount, status, payment_date, created_at
		FROM client_payments
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query client payments: %w", err)
	}
	defer rows.Close()

	var out []studio.ClientPaymentRecord
	for rows.Next() {
		var r studio.ClientPaymentRecord
		var amount, createdAt string
		if err := rows.Scan(&r.ID, &r.BookingID, &amount, &r.Status, &r.Date, &createdAt); err != nil {
			return nil, err
		}
		r.Amount = studio.ParseAmount(amount)
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

func queryExpenses(ctx context.Context, q queryer) ([]studio.Expense, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, expense_date, amount, category, description FROM expenses ORDER BY expense_date, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var out []studio.Expense
	for rows.Next() {
		var e studio.Expense
		var amount string
		var description sql.NullString
		if err := rows.Scan(&e.ID, &e.Date, &amount, &e.Category, &description); err != nil {
			return nil, err
		}
		e.Amount = studio.ParseAmount(amount)
		e.Description = description.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// AGREED RECORDS (studio.AgreedRecords interface)
// =============================================================================

// ListAgreedRecords returns agreed records for a pair in canonical order.
func (s *Store) ListAgreedRecords(ctx context.Context, staffID studio.StaffID, eventID studio.EventID) ([]studio.StaffPaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ` + staffPaymentColumns + `
		FROM staff_payments
		WHERE staff_id = ? AND IFNULL(event_id, '') = ? AND payment_type = ?
		ORDER BY created_at ASC, id ASC
	`
	return queryStaffPayments(ctx, s.db, query, staffID, eventID, studio.StaffAgreed)
}

// UpdateAmount sets the amount of a staff payment record.
func (s *Store) UpdateAmount(ctx context.Context, id studio.RecordID, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE staff_payments SET amount = ? WHERE id = ?", amount.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update amount: %w", err)
	}
	return requireRow(res, "staff payment", string(id))
}

// DeleteRecord removes a staff payment record.
func (s *Store) DeleteRecord(ctx context.Context, id studio.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM staff_payments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete staff payment: %w", err)
	}
	return requireRow(res, "staff payment", string(id))
}

// InsertAgreedRecord creates an agreed record for a pair.
func (s *Store) InsertAgreedRecord(ctx context.Context, staffID studio.StaffID, eventID studio.EventID, amount decimal.Decimal, date studio.Date) (studio.StaffPaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := studio.StaffPaymentRecord{
		ID:        studio.RecordID(uuid.NewString()),
		StaffID:   staffID,
		EventID:   eventID,
		Type:      studio.StaffAgreed,
		Amount:    amount,
		Date:      date,
		CreatedAt: s.stamp(),
	}
	if err := s.insertStaffPayment(ctx, rec); err != nil {
		return studio.StaffPaymentRecord{}, err
	}
	return rec, nil
}

func (s *Store) insertStaffPayment(ctx context.Context, r studio.StaffPaymentRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff_payments (`+staffPaymentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID,
		r.StaffID,
		nullString(string(r.EventID)),
		r.Type,
		r.Amount.String(),
		r.Date,
		nullString(string(r.Method)),
		nullString(r.Remarks),
		formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert staff payment: %w", err)
	}
	return nil
}

// =============================================================================
// WRITES (studio.Store interface)
// =============================================================================

// SaveBooking inserts or updates a booking. created_at survives updates.
func (s *Store) SaveBooking(ctx context.Context, b studio.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.stamp()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (id, client_id, name, package_amount, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_id = excluded.client_id,
			name = excluded.name,
			package_amount = excluded.package_amount,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, b.ID, b.ClientID, b.Name, b.PackageAmount.String(), nullString(b.Notes), formatTime(b.CreatedAt), formatTime(now))
	if err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

func (s *Store) SaveEvent(ctx context.Context, e studio.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, booking_id, name, event_date, venue)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			booking_id = excluded.booking_id,
			name = excluded.name,
			event_date = excluded.event_date,
			venue = excluded.venue
	`, e.ID, e.BookingID, e.Name, studio.NormalizeDate(string(e.Date)), nullString(e.Venue))
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

func (s *Store) SaveStaff(ctx context.Context, st studio.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff (id, name, role, active)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			active = excluded.active
	`, st.ID, st.Name, st.Role, st.Active)
	if err != nil {
		return fmt.Errorf("failed to save staff: %w", err)
	}
	return nil
}

func (s *Store) SaveAssignment(ctx context.Context, a studio.StaffAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	var receivedAt sql.NullString
	if a.ReceivedAt != nil {
		receivedAt = nullString(formatTime(*a.ReceivedAt))
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assignments (id, staff_id, event_id, role, data_received, received_by, received_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			staff_id = excluded.staff_id,
			event_id = excluded.event_id,
			role = excluded.role,
			data_received = excluded.data_received,
			received_by = excluded.received_by,
			received_at = excluded.received_at
	`, a.ID, a.StaffID, a.EventID, a.Role, a.DataReceived, nullString(a.ReceivedBy), receivedAt, formatTime(s.stamp()))
	if err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}
	return nil
}

func (s *Store) SaveWorkflow(ctx context.Context, w studio.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	statesJSON, err := json.Marshal(w.States())
	if err != nil {
		return fmt.Errorf("failed to encode workflow: %w", err)
	}
	now := formatTime(s.stamp())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workflows (event_id, states_json, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(event_id) DO UPDATE SET
			states_json = excluded.states_json,
			updated_at = excluded.updated_at
	`, w.EventID, string(statesJSON), now, now)
	if err != nil {
		return fmt.Errorf("failed to save workflow: %w", err)
	}
	return nil
}

func (s *Store) AddStaffPayment(ctx context.Context, r studio.StaffPaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = studio.RecordID(uuid.NewString())
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.stamp()
	}
	return s.insertStaffPayment(ctx, r)
}

func (s *Store) AddClientPayment(ctx context.Context, r studio.ClientPaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = studio.RecordID(uuid.NewString())
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.stamp()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_payments (id, booking_id, amount, status, payment_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.BookingID, r.Amount.String(), r.Status, r.Date, formatTime(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert client payment: %w", err)
	}
	return nil
}

func (s *Store) AddExpense(ctx context.Context, e studio.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = studio.RecordID(uuid.NewString())
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, expense_date, amount, category, description)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.Date, e.Amount.String(), e.Category, nullString(e.Description))
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo). Children go first.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"assignments", "workflows", "staff_payments", "client_payments",
		"expenses", "events", "staff", "bookings",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Helper functions

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &studio.NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime accepts the fixed layout and plain RFC3339 from older rows.
func parseTime(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	return t
}

var _ studio.Store = (*Store)(nil)
