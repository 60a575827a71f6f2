/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's view models from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

AMOUNTS:
  decimal.Decimal marshals as a JSON string ("5000.5") so no float
  rounding happens on the wire. Requests accept numbers or strings.

TYPES:
  Staff:     StaffDTO, StaffSummaryDTO, StaffEventDTO, PaymentDTO
  Bookings:  BookingDTO, BookingDetailDTO, PaymentStatusDTO, ProgressDTO
  Events:    EventDTO, AssignmentDTO, WorkflowDTO, StepUpdateRequest
  Batch:     AgreedEditRequest, SaveAgreedRequest, SaveAgreedResponse
  Alerts:    AlertsDTO, ConflictDTO, ShortageDTO
  Scenarios: ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Payment bodies decode straight into studio.StaffPaymentInput and
  studio.ClientPaymentInput and are checked by the validator there.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/studio-engine/ledger"
	"github.com/warp/studio-engine/paystatus"
	"github.com/warp/studio-engine/progress"
	"github.com/warp/studio-engine/reconcile"
	"github.com/warp/studio-engine/schedule"
	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// STAFF
// =============================================================================

type StaffDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

type CreateStaffRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active *bool  `json:"active"`
}

// StaffSummaryDTO is one row of the staff ledger.
type StaffSummaryDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	TotalAgreed decimal.Decimal `json:"total_agreed"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	TotalDue    decimal.Decimal `json:"total_due"`
}

type PaymentDTO struct {
	ID        string          `json:"id"`
	StaffID   string          `json:"staff_id"`
	EventID   string          `json:"event_id,omitempty"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Method    string          `json:"method,omitempty"`
	Remarks   string          `json:"remarks,omitempty"`
	CreatedAt string          `json:"created_at"`
}

type StaffEventDTO struct {
	Event  EventDTO        `json:"event"`
	Roles  []string        `json:"roles"`
	Agreed decimal.Decimal `json:"agreed"`
}

// =============================================================================
// BOOKINGS
// =============================================================================

type BookingDTO struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"client_id"`
	Name          string          `json:"name"`
	PackageAmount decimal.Decimal `json:"package_amount"`
	Notes         string          `json:"notes,omitempty"`
	Status        string          `json:"status"`
	Percent       int             `json:"percent"`
	CreatedAt     string          `json:"created_at,omitempty"`
}

type CreateBookingRequest struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"client_id"`
	Name          string          `json:"name"`
	PackageAmount decimal.Decimal `json:"package_amount"`
	Notes         string          `json:"notes"`
}

type PaymentStatusDTO struct {
	Package     decimal.Decimal `json:"package"`
	Received    decimal.Decimal `json:"received"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Message     string          `json:"message"`
	Severity    string          `json:"severity"`
}

type MediumProgressDTO struct {
	Medium        string `json:"medium"`
	Completed     int    `json:"completed"`
	Pending       int    `json:"pending"`
	NotApplicable int    `json:"not_applicable"`
	Percent       int    `json:"percent"`
}

type ProgressDTO struct {
	Status      string              `json:"status"`
	Percent     int                 `json:"percent"`
	Tier        string              `json:"tier"`
	Events      int                 `json:"events"`
	PendingData int                 `json:"pending_data"`
	Media       []MediumProgressDTO `json:"media"`
}

// BookingDetailDTO is everything the booking page shows.
type BookingDetailDTO struct {
	Booking  BookingDTO       `json:"booking"`
	Events   []EventDTO       `json:"events"`
	Progress ProgressDTO      `json:"progress"`
	Payment  PaymentStatusDTO `json:"payment"`
}

type ClientSummaryDTO struct {
	ClientID      string          `json:"client_id"`
	Name          string          `json:"name"`
	TotalAgreed   decimal.Decimal `json:"total_agreed"`
	TotalReceived decimal.Decimal `json:"total_received"`
	TotalDue      decimal.Decimal `json:"total_due"`
}

// =============================================================================
// EVENTS
// =============================================================================

type EventDTO struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Venue     string `json:"venue,omitempty"`
}

type CreateEventRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Date  string `json:"date"`
	Venue string `json:"venue"`
}

type AssignmentDTO struct {
	ID           string `json:"id"`
	StaffID      string `json:"staff_id"`
	EventID      string `json:"event_id"`
	Role         string `json:"role"`
	DataReceived bool   `json:"data_received"`
	ReceivedBy   string `json:"received_by,omitempty"`
	ReceivedAt   string `json:"received_at,omitempty"`
}

type CreateAssignmentRequest struct {
	ID           string `json:"id"`
	StaffID      string `json:"staff_id"`
	Role         string `json:"role"`
	DataReceived bool   `json:"data_received"`
	ReceivedBy   string `json:"received_by"`
}

// WorkflowDTO is the event's checklists keyed by medium.
type WorkflowDTO struct {
	EventID   string                `json:"event_id"`
	States    studio.WorkflowStates `json:"states"`
	Delivered bool                  `json:"delivered"`
}

// StepUpdateRequest sets one step. State is pending, completed or not_applicable.
type StepUpdateRequest struct {
	Medium string `json:"medium"`
	Step   string `json:"step"`
	State  string `json:"state"`
}

type UpdateWorkflowRequest struct {
	Steps []StepUpdateRequest `json:"steps"`
}

// =============================================================================
// AGREED AMOUNTS (save all)
// =============================================================================

type AgreedEditRequest struct {
	StaffID string          `json:"staff_id"`
	EventID string          `json:"event_id"`
	Amount  decimal.Decimal `json:"amount"`
}

type SaveAgreedRequest struct {
	Edits []AgreedEditRequest `json:"edits"`
}

type PairResultDTO struct {
	StaffID  string          `json:"staff_id"`
	EventID  string          `json:"event_id"`
	Action   string          `json:"action"`
	RecordID string          `json:"record_id,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Removed  int             `json:"removed"`
	Error    string          `json:"error,omitempty"`
}

type SaveAgreedResponse struct {
	Results []PairResultDTO `json:"results"`
	Failed  int             `json:"failed"`
	Skipped int             `json:"skipped"`
}

// =============================================================================
// EXPENSES
// =============================================================================

type CreateExpenseRequest struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

type CategoryTotalDTO struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// =============================================================================
// ALERTS
// =============================================================================

type ConflictDTO struct {
	StaffID   string   `json:"staff_id"`
	StaffName string   `json:"staff_name,omitempty"`
	Date      string   `json:"date"`
	EventIDs  []string `json:"event_ids"`
}

type ShortageDTO struct {
	EventID  string `json:"event_id"`
	Date     string `json:"date"`
	Role     string `json:"role"`
	Required int    `json:"required"`
	Assigned int    `json:"assigned"`
}

type AlertsDTO struct {
	Conflicts []ConflictDTO `json:"conflicts"`
	Shortages []ShortageDTO `json:"shortages"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toStaffDTO(s studio.Staff) StaffDTO {
	return StaffDTO{ID: string(s.ID), Name: s.Name, Role: string(s.Role), Active: s.Active}
}

func toSummaryDTO(s ledger.Summary) StaffSummaryDTO {
	return StaffSummaryDTO{
		ID:          s.ID,
		Name:        s.Name,
		TotalAgreed: s.TotalAgreed,
		TotalPaid:   s.TotalPaid,
		TotalDue:    s.TotalDue,
	}
}

func toSummaryDTOs(in []ledger.Summary) []StaffSummaryDTO {
	out := make([]StaffSummaryDTO, len(in))
	for i, s := range in {
		out[i] = toSummaryDTO(s)
	}
	return out
}

func toPaymentDTO(r studio.StaffPaymentRecord) PaymentDTO {
	return PaymentDTO{
		ID:        string(r.ID),
		StaffID:   string(r.StaffID),
		EventID:   string(r.EventID),
		Type:      string(r.Type),
		Amount:    r.Amount,
		Date:      string(r.Date),
		Method:    string(r.Method),
		Remarks:   r.Remarks,
		CreatedAt: formatTime(r.CreatedAt),
	}
}

func toEventDTO(e studio.Event) EventDTO {
	return EventDTO{
		ID:        string(e.ID),
		BookingID: string(e.BookingID),
		Name:      e.Name,
		Date:      string(e.Date),
		Venue:     e.Venue,
	}
}

func toEventDTOs(in []studio.Event) []EventDTO {
	out := make([]EventDTO, len(in))
	for i, e := range in {
		out[i] = toEventDTO(e)
	}
	return out
}

func toAssignmentDTO(a studio.StaffAssignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:           a.ID,
		StaffID:      string(a.StaffID),
		EventID:      string(a.EventID),
		Role:         string(a.Role),
		DataReceived: a.DataReceived,
		ReceivedBy:   a.ReceivedBy,
	}
	if a.ReceivedAt != nil {
		dto.ReceivedAt = formatTime(*a.ReceivedAt)
	}
	return dto
}

func toBookingDTO(b studio.Booking, p progress.BookingProgress) BookingDTO {
	return BookingDTO{
		ID:            string(b.ID),
		ClientID:      string(b.ClientID),
		Name:          b.Name,
		PackageAmount: b.PackageAmount,
		Notes:         b.Notes,
		Status:        string(p.Status),
		Percent:       p.Percent,
		CreatedAt:     formatTime(b.CreatedAt),
	}
}

func toProgressDTO(p progress.BookingProgress) ProgressDTO {
	media := make([]MediumProgressDTO, len(p.Media))
	for i, m := range p.Media {
		media[i] = MediumProgressDTO{
			Medium:        string(m.Medium),
			Completed:     m.Counts.Completed,
			Pending:       m.Counts.Pending,
			NotApplicable: m.Counts.NotApplicable,
			Percent:       m.Percent,
		}
	}
	return ProgressDTO{
		Status:      string(p.Status),
		Percent:     p.Percent,
		Tier:        string(p.Tier),
		Events:      p.Events,
		PendingData: p.PendingData,
		Media:       media,
	}
}

func toPaymentStatusDTO(s paystatus.Status) PaymentStatusDTO {
	return PaymentStatusDTO{
		Package:     s.Package,
		Received:    s.Received,
		Outstanding: s.Outstanding,
		Message:     s.Message,
		Severity:    string(s.Severity),
	}
}

func toWorkflowDTO(w studio.Workflow) WorkflowDTO {
	return WorkflowDTO{
		EventID:   string(w.EventID),
		States:    w.States(),
		Delivered: progress.IsWorkflowFullyDelivered(w),
	}
}

func toPairResultDTO(r reconcile.PairResult) PairResultDTO {
	dto := PairResultDTO{
		StaffID:  string(r.Outcome.Pair.StaffID),
		EventID:  string(r.Outcome.Pair.EventID),
		Action:   string(r.Outcome.Action),
		RecordID: string(r.Outcome.RecordID),
		Amount:   r.Outcome.Amount,
		Removed:  len(r.Outcome.Removed),
	}
	if r.Err != nil {
		dto.Error = r.Err.Error()
	}
	return dto
}

func toAlertsDTO(report schedule.Report, snap studio.Snapshot) AlertsDTO {
	dto := AlertsDTO{
		Conflicts: make([]ConflictDTO, 0, len(report.Conflicts)),
		Shortages: make([]ShortageDTO, 0, len(report.Shortages)),
	}
	for _, c := range report.Conflicts {
		ids := make([]string, len(c.EventIDs))
		for i, id := range c.EventIDs {
			ids[i] = string(id)
		}
		cd := ConflictDTO{StaffID: string(c.StaffID), Date: string(c.Date), EventIDs: ids}
		if st, ok := snap.StaffMember(c.StaffID); ok {
			cd.StaffName = st.Name
		}
		dto.Conflicts = append(dto.Conflicts, cd)
	}
	for _, s := range report.Shortages {
		dto.Shortages = append(dto.Shortages, ShortageDTO{
			EventID:  string(s.EventID),
			Date:     string(s.Date),
			Role:     string(s.Role),
			Required: s.Required,
			Assigned: s.Assigned,
		})
	}
	return dto
}
