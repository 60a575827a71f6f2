/*
handlers.go - HTTP API handlers for the studio engine

PURPOSE:
  Exposes the ledger, progress, payment-status and schedule engines over
  REST. Handlers read one Snapshot from the store, hand it to the pure
  engine functions and serialize the view model. The only handler that
  write agreed amounts (SaveAgreed, and CreateStaffPayment for agreed
  entries) go through the reconciliation service.

ENDPOINTS:
  Staff:
    GET    /api/staff                    Staff ledger rows
    POST   /api/staff                    Create or update a staff member
    GET    /api/staff/top-due            Highest amounts due (?n=10)
    GET    /api/staff/{id}               One staff member's ledger summary
    GET    /api/staff/{id}/history       Payments, most recent first
    GET    /api/staff/{id}/events        Assigned events with agreed amounts

  Payments:
    POST   /api/staff-payments           Validated staff ledger entry
    POST   /api/client-payments          Validated client ledger entry
    POST   /api/agreed-amounts           Save all pending agreed edits

  Bookings:
    GET    /api/bookings                 Bookings with derived status
    POST   /api/bookings                 Create or update a booking
    GET    /api/bookings/{id}            Progress and payment status
    POST   /api/bookings/{id}/events     Add an event
    GET    /api/clients                  Client ledger roll-up

  Events:
    POST   /api/events/{id}/assignments  Assign staff
    GET    /api/events/{id}/workflow     Checklist states
    PUT    /api/events/{id}/workflow     Set checklist steps

  Other:
    GET    /api/expenses                 Totals per category (?from&to)
    POST   /api/expenses                 Record an expense
    GET    /api/schedule/alerts          Conflicts and shortages (?from)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors (with per-field reasons), unknown steps
  - 404: Unknown booking, staff member or event
  - 207: Save-all finished with at least one failed pair
  - 500: Store failures

SECURITY NOTE:
  No authentication. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/studio-engine/ledger"
	"github.com/warp/studio-engine/paystatus"
	"github.com/warp/studio-engine/progress"
	"github.com/warp/studio-engine/reconcile"
	"github.com/warp/studio-engine/schedule"
	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     studio.Store
	Reconcile *reconcile.Service
	Coverage  schedule.CoveragePolicy
	Currency  paystatus.Currency
	Clock     studio.Clock
	Logger    *slog.Logger

	// Alerts is the background sweep, when running.
	Alerts *AlertScheduler

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler with the default coverage policy and plain
// currency formatting.
func NewHandler(store studio.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Store:     store,
		Reconcile: reconcile.NewService(store, logger),
		Coverage:  schedule.DefaultPolicy(),
		Clock:     studio.Today,
		Logger:    logger,
	}
}

// SetClock pins "today" for the handler and its reconciliation service.
func (h *Handler) SetClock(c studio.Clock) {
	h.Clock = c
	h.Reconcile.Clock = c
}

func (h *Handler) today() studio.Date {
	if h.Clock == nil {
		return studio.Today()
	}
	return h.Clock()
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (studio.Snapshot, bool) {
	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read records", err)
		return studio.Snapshot{}, false
	}
	return snap, true
}

// =============================================================================
// STAFF HANDLERS
// =============================================================================

// ListStaff returns every staff member's ledger summary.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	summaries := ledger.Summaries(ledger.StaffSubjects(snap.Staff), ledger.StaffEntries(snap.StaffPayments))
	writeJSON(w, http.StatusOK, toSummaryDTOs(summaries))
}

// SaveStaff creates or updates a staff member.
func (h *Handler) SaveStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeValidation(w, studio.ValidationErrors{{Field: "name", Reason: "is required"}})
		return
	}
	if req.ID == "" {
		req.ID = "stf-" + uuid.NewString()[:8]
	}
	st := studio.Staff{ID: studio.StaffID(req.ID), Name: req.Name, Role: studio.Role(req.Role), Active: true}
	if req.Active != nil {
		st.Active = *req.Active
	}
	if err := h.Store.SaveStaff(r.Context(), st); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save staff", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStaffDTO(st))
}

// TopDue ranks staff by amount still owed.
func (h *Handler) TopDue(w http.ResponseWriter, r *http.Request) {
	n := ledger.DefaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "Invalid n", err)
			return
		}
		n = v
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	top := ledger.TopN(ledger.StaffSubjects(snap.Staff), ledger.StaffEntries(snap.StaffPayments), n)
	writeJSON(w, http.StatusOK, toSummaryDTOs(top))
}

// GetStaff returns one staff member's ledger summary.
func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	st, found := snap.StaffMember(studio.StaffID(chi.URLParam(r, "id")))
	if !found {
		writeError(w, http.StatusNotFound, "Staff member not found", nil)
		return
	}
	sum := ledger.Summarize(string(st.ID), st.Name, ledger.StaffEntries(snap.StaffPayments))
	writeJSON(w, http.StatusOK, toSummaryDTO(sum))
}

// GetStaffHistory returns the staff member's payment records, newest first.
func (h *Handler) GetStaffHistory(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	id := studio.StaffID(chi.URLParam(r, "id"))
	if _, found := snap.StaffMember(id); !found {
		writeError(w, http.StatusNotFound, "Staff member not found", nil)
		return
	}
	history := ledger.History(string(id), ledger.StaffEntries(snap.StaffPayments))
	dtos := make([]PaymentDTO, len(history))
	for i, e := range history {
		dtos[i] = toPaymentDTO(studio.StaffPaymentRecord(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStaffEvents lists the events a staff member works.
func (h *Handler) GetStaffEvents(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	id := studio.StaffID(chi.URLParam(r, "id"))
	if _, found := snap.StaffMember(id); !found {
		writeError(w, http.StatusNotFound, "Staff member not found", nil)
		return
	}
	events := ledger.EventsForStaff(id, snap.Events, snap.Assignments, snap.StaffPayments)
	dtos := make([]StaffEventDTO, len(events))
	for i, e := range events {
		roles := make([]string, len(e.Roles))
		for j, role := range e.Roles {
			roles[j] = string(role)
		}
		dtos[i] = StaffEventDTO{Event: toEventDTO(e.Event), Roles: roles, Agreed: e.Agreed}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// CreateStaffPayment records a validated staff ledger entry. Agreed entries
// replace the pair's agreed amount rather than adding a second record.
func (h *Handler) CreateStaffPayment(w http.ResponseWriter, r *http.Request) {
	var in studio.StaffPaymentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := studio.ValidateStaffPayment(in, h.today()); err != nil {
		writeValidation(w, err)
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	if _, found := snap.StaffMember(studio.StaffID(in.StaffID)); !found {
		writeError(w, http.StatusNotFound, "Staff member not found", nil)
		return
	}

	// One agreed record per pair: agreed entries replace, made entries add.
	if studio.StaffPaymentType(in.Type) == studio.StaffAgreed {
		pair := reconcile.Pair{StaffID: studio.StaffID(in.StaffID), EventID: studio.EventID(in.EventID)}
		out, err := h.Reconcile.Reconcile(r.Context(), pair, in.Amount)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save agreed amount", err)
			return
		}
		writeJSON(w, http.StatusCreated, toPaymentDTO(studio.StaffPaymentRecord{
			ID:      out.RecordID,
			StaffID: pair.StaffID,
			EventID: pair.EventID,
			Type:    studio.StaffAgreed,
			Amount:  out.Amount,
			Date:    h.today(),
		}))
		return
	}

	rec := studio.StaffPaymentRecord{
		ID:      studio.RecordID(uuid.NewString()),
		StaffID: studio.StaffID(in.StaffID),
		EventID: studio.EventID(in.EventID),
		Type:    studio.StaffPaymentType(in.Type),
		Amount:  in.Amount,
		Date:    studio.NormalizeDate(in.Date),
		Method:  studio.PaymentMethod(in.Method),
		Remarks: in.Remarks,
	}
	if err := h.Store.AddStaffPayment(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentDTO(rec))
}

// CreateClientPayment records a validated client ledger entry.
func (h *Handler) CreateClientPayment(w http.ResponseWriter, r *http.Request) {
	var in studio.ClientPaymentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := studio.ValidateClientPayment(in, h.today()); err != nil {
		writeValidation(w, err)
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	if _, found := snap.Booking(studio.BookingID(in.BookingID)); !found {
		writeError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}

	rec := studio.ClientPaymentRecord{
		ID:        studio.RecordID(uuid.NewString()),
		BookingID: studio.BookingID(in.BookingID),
		Amount:    in.Amount,
		Status:    studio.ClientPaymentStatus(in.Status),
		Date:      studio.NormalizeDate(in.Date),
	}
	if err := h.Store.AddClientPayment(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": string(rec.ID)})
}

// SaveAgreed applies every pending agreed-amount edit, one pair at a time.
// Returns 207 when some pairs failed; the failed ones can be resubmitted.
func (h *Handler) SaveAgreed(w http.ResponseWriter, r *http.Request) {
	var req SaveAgreedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Edits) == 0 {
		writeValidation(w, studio.ValidationErrors{{Field: "edits", Reason: "is required"}})
		return
	}

	edits := reconcile.NewPendingEdits()
	for i, e := range req.Edits {
		if e.StaffID == "" {
			writeValidation(w, studio.ValidationErrors{{Field: "edits[" + strconv.Itoa(i) + "].staff_id", Reason: "is required"}})
			return
		}
		edits.Set(reconcile.Pair{StaffID: studio.StaffID(e.StaffID), EventID: studio.EventID(e.EventID)}, e.Amount)
	}

	result := h.Reconcile.SaveAll(r.Context(), edits)

	resp := SaveAgreedResponse{
		Results: make([]PairResultDTO, len(result.Results)),
		Failed:  len(result.Failed()),
		Skipped: len(result.Skipped),
	}
	for i, pr := range result.Results {
		resp.Results[i] = toPairResultDTO(pr)
	}

	status := http.StatusOK
	if resp.Failed > 0 || resp.Skipped > 0 {
		status = http.StatusMultiStatus
		h.Logger.Warn("save all finished with failures", "failed", resp.Failed, "skipped", resp.Skipped, "error", result.Err())
	}
	writeJSON(w, status, resp)
}

// =============================================================================
// BOOKING HANDLERS
// =============================================================================

// ListBookings returns bookings with derived status and progress.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	today := h.today()
	dtos := make([]BookingDTO, len(snap.Bookings))
	for i, b := range snap.Bookings {
		dtos[i] = toBookingDTO(b, progress.Summarize(b, snap, today))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveBooking creates or updates a booking.
func (h *Handler) SaveBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	var verrs studio.ValidationErrors
	if strings.TrimSpace(req.Name) == "" {
		verrs = append(verrs, studio.FieldError{Field: "name", Reason: "is required"})
	}
	if req.PackageAmount.IsNegative() {
		verrs = append(verrs, studio.FieldError{Field: "package_amount", Reason: "must not be negative"})
	}
	if len(verrs) > 0 {
		writeValidation(w, verrs)
		return
	}
	if req.ID == "" {
		req.ID = "bk-" + uuid.NewString()[:8]
	}

	b := studio.Booking{
		ID:            studio.BookingID(req.ID),
		ClientID:      studio.ClientID(req.ClientID),
		Name:          req.Name,
		PackageAmount: req.PackageAmount,
		Notes:         req.Notes,
	}
	if err := h.Store.SaveBooking(r.Context(), b); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save booking", err)
		return
	}
	writeJSON(w, http.StatusCreated, BookingDTO{
		ID:            req.ID,
		ClientID:      req.ClientID,
		Name:          req.Name,
		PackageAmount: req.PackageAmount,
		Notes:         req.Notes,
		Status:        string(progress.StatusShootScheduled),
	})
}

// GetBooking returns the booking's events, progress and payment status.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	b, found := snap.Booking(studio.BookingID(chi.URLParam(r, "id")))
	if !found {
		writeError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}

	prog := progress.Summarize(b, snap, h.today())
	pay := h.Currency.ForBooking(b, snap.ClientPaymentsForBooking(b.ID))

	writeJSON(w, http.StatusOK, BookingDetailDTO{
		Booking:  toBookingDTO(b, prog),
		Events:   toEventDTOs(snap.EventsForBooking(b.ID)),
		Progress: toProgressDTO(prog),
		Payment:  toPaymentStatusDTO(pay),
	})
}

// CreateEvent adds an event to a booking.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	bookingID := studio.BookingID(chi.URLParam(r, "id"))
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	var verrs studio.ValidationErrors
	if strings.TrimSpace(req.Name) == "" {
		verrs = append(verrs, studio.FieldError{Field: "name", Reason: "is required"})
	}
	date := studio.NormalizeDate(req.Date)
	if req.Date != "" && date.IsZero() {
		verrs = append(verrs, studio.FieldError{Field: "date", Reason: "must be a YYYY-MM-DD date"})
	}
	if len(verrs) > 0 {
		writeValidation(w, verrs)
		return
	}

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	if _, found := snap.Booking(bookingID); !found {
		writeError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}
	if req.ID == "" {
		req.ID = "evt-" + uuid.NewString()[:8]
	}

	e := studio.Event{ID: studio.EventID(req.ID), BookingID: bookingID, Name: req.Name, Date: date, Venue: req.Venue}
	if err := h.Store.SaveEvent(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save event", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(e))
}

// ListClients rolls the client ledger up per client.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	sums := ledger.ClientSummaries(snap.Bookings, snap.ClientPayments)
	dtos := make([]ClientSummaryDTO, len(sums))
	for i, s := range sums {
		dtos[i] = ClientSummaryDTO{
			ClientID:      s.ID,
			Name:          s.Name,
			TotalAgreed:   s.TotalAgreed,
			TotalReceived: s.TotalPaid,
			TotalDue:      s.TotalDue,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// EVENT HANDLERS
// =============================================================================

func findEvent(snap studio.Snapshot, id studio.EventID) (studio.Event, bool) {
	for _, e := range snap.Events {
		if e.ID == id {
			return e, true
		}
	}
	return studio.Event{}, false
}

func findWorkflow(snap studio.Snapshot, id studio.EventID) studio.Workflow {
	for _, w := range snap.Workflows {
		if w.EventID == id {
			return w.Clone()
		}
	}
	return studio.NewWorkflow(id)
}

// CreateAssignment assigns a staff member to an event.
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	eventID := studio.EventID(chi.URLParam(r, "id"))
	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	var verrs studio.ValidationErrors
	if req.StaffID == "" {
		verrs = append(verrs, studio.FieldError{Field: "staff_id", Reason: "is required"})
	}
	if req.Role == "" {
		verrs = append(verrs, studio.FieldError{Field: "role", Reason: "is required"})
	}
	if len(verrs) > 0 {
		writeValidation(w, verrs)
		return
	}

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	if _, found := findEvent(snap, eventID); !found {
		writeError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	if _, found := snap.StaffMember(studio.StaffID(req.StaffID)); !found {
		writeError(w, http.StatusNotFound, "Staff member not found", nil)
		return
	}

	a := studio.StaffAssignment{
		ID:           req.ID,
		StaffID:      studio.StaffID(req.StaffID),
		EventID:      eventID,
		Role:         studio.Role(req.Role),
		DataReceived: req.DataReceived,
		ReceivedBy:   req.ReceivedBy,
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.DataReceived {
		now := time.Now().UTC()
		a.ReceivedAt = &now
	}
	if err := h.Store.SaveAssignment(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssignmentDTO(a))
}

// GetWorkflow returns the event's checklists. Events without a stored
// workflow get an all-pending one.
func (h *Handler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	id := studio.EventID(chi.URLParam(r, "id"))
	if _, found := findEvent(snap, id); !found {
		writeError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toWorkflowDTO(findWorkflow(snap, id)))
}

// UpdateWorkflow sets checklist steps. The whole request is rejected if any
// step is unknown.
func (h *Handler) UpdateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req UpdateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	id := studio.EventID(chi.URLParam(r, "id"))
	if _, found := findEvent(snap, id); !found {
		writeError(w, http.StatusNotFound, "Event not found", nil)
		return
	}

	wf := findWorkflow(snap, id)
	for _, s := range req.Steps {
		state, err := studio.ParseStepState(s.State)
		if err != nil {
			writeValidation(w, studio.ValidationErrors{{Field: "state", Reason: "must be one of: pending, completed, not_applicable"}})
			return
		}
		if err := wf.Set(studio.Medium(s.Medium), studio.Step(s.Step), state); err != nil {
			writeError(w, http.StatusBadRequest, "Unknown workflow step", err)
			return
		}
	}
	if err := h.Store.SaveWorkflow(r.Context(), wf); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save workflow", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkflowDTO(wf))
}

// =============================================================================
// EXPENSES
// =============================================================================

// ExpenseTotals sums expenses per category inside an optional window.
func (h *Handler) ExpenseTotals(w http.ResponseWriter, r *http.Request) {
	from := studio.NormalizeDate(r.URL.Query().Get("from"))
	to := studio.NormalizeDate(r.URL.Query().Get("to"))
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	totals := ledger.ExpenseTotals(snap.Expenses, from, to)
	dtos := make([]CategoryTotalDTO, len(totals))
	for i, t := range totals {
		dtos[i] = CategoryTotalDTO{Category: t.Category, Total: t.Total, Count: t.Count}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	var verrs studio.ValidationErrors
	date := studio.NormalizeDate(req.Date)
	if date.IsZero() {
		verrs = append(verrs, studio.FieldError{Field: "date", Reason: "must be a YYYY-MM-DD date"})
	}
	if req.Amount.IsNegative() {
		verrs = append(verrs, studio.FieldError{Field: "amount", Reason: "must not be negative"})
	}
	if strings.TrimSpace(req.Category) == "" {
		verrs = append(verrs, studio.FieldError{Field: "category", Reason: "is required"})
	}
	if len(verrs) > 0 {
		writeValidation(w, verrs)
		return
	}

	e := studio.Expense{
		ID:          studio.RecordID(uuid.NewString()),
		Date:        date,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := h.Store.AddExpense(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": string(e.ID)})
}

// =============================================================================
// SCHEDULE ALERTS
// =============================================================================

// ScheduleAlerts runs the conflict detector. ?from=YYYY-MM-DD limits it to
// events on or after that day; ?from=all checks every event.
func (h *Handler) ScheduleAlerts(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	events := snap.Events
	switch from := r.URL.Query().Get("from"); from {
	case "all":
	case "":
		events = schedule.Upcoming(events, h.today())
	default:
		d := studio.NormalizeDate(from)
		if d.IsZero() {
			writeValidation(w, studio.ValidationErrors{{Field: "from", Reason: "must be a YYYY-MM-DD date"}})
			return
		}
		events = schedule.Upcoming(events, d)
	}
	report := schedule.Detect(events, snap.Assignments, snap.Staff, h.Coverage)
	writeJSON(w, http.StatusOK, toAlertsDTO(report, snap))
}

// LastAlerts returns the most recent background sweep, if one ran.
func (h *Handler) LastAlerts(w http.ResponseWriter, r *http.Request) {
	if h.Alerts == nil {
		writeError(w, http.StatusNotFound, "Alert sweep is not running", nil)
		return
	}
	report, snap, at := h.Alerts.Last()
	if at.IsZero() {
		writeError(w, http.StatusNotFound, "No sweep has run yet", nil)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		AlertsDTO
		CheckedAt string `json:"checked_at"`
		NextRunAt string `json:"next_run_at,omitempty"`
	}{toAlertsDTO(report, snap), formatTime(at), formatTime(h.Alerts.NextRunTime())})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeValidation reports field problems as 400 with a field -> reason map.
func writeValidation(w http.ResponseWriter, err error) {
	var verrs studio.ValidationErrors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Details: verrs.Error(),
			Fields:  verrs.Fields(),
		})
		return
	}
	writeError(w, http.StatusBadRequest, "Validation failed", err)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
