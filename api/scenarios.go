/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	studio data for demos. Each scenario creates staff, bookings, events,
	assignments, workflows and payments that exercise one part of the
	engine.

AVAILABLE SCENARIOS:

	wedding-season:   Two weddings, one double booking, one short-staffed event
	duplicate-agreed: Several agreed amounts for one (staff, event) pair
	fully-delivered:  Every checklist delivered and the package fully paid

HOW SCENARIOS WORK:
 1. Reset store (clear all data)
 2. Create staff
 3. Create bookings and their events, dated relative to today
 4. Assign staff and record checklist progress
 5. Add staff and client payments

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "wedding-season"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(s *seeder)
 3. Add it to the 'loaders' map

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Engine endpoints that read the seeded data
  - cmd/studioctl: "seed" command uses LoadScenarioInto
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "wedding-season",
		Name:        "Wedding Season",
		Description: "Two weddings in flight with a double-booked photographer and a short-staffed event",
	},
	{
		ID:          "duplicate-agreed",
		Name:        "Duplicate Agreed Amounts",
		Description: "Three agreed records for one staff/event pair, ready to be collapsed by save-all",
	},
	{
		ID:          "fully-delivered",
		Name:        "Fully Delivered",
		Description: "A finished wedding: every deliverable done and the package fully paid",
	},
}

var loaders = map[string]func(s *seeder){
	"wedding-season":   loadWeddingSeasonScenario,
	"duplicate-agreed": loadDuplicateAgreedScenario,
	"fully-delivered":  loadFullyDeliveredScenario,
}

// Scenarios lists the available demo scenarios.
func Scenarios() []ScenarioDTO {
	out := make([]ScenarioDTO, len(scenarios))
	copy(out, scenarios)
	return out
}

// LoadScenarioInto resets the store and seeds the named scenario. Event
// dates are placed relative to today.
func LoadScenarioInto(ctx context.Context, store studio.Store, id string, today studio.Date) error {
	load, ok := loaders[id]
	if !ok {
		return fmt.Errorf("unknown scenario %q", id)
	}
	if err := store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	s := &seeder{ctx: ctx, store: store, today: today}
	load(s)
	return s.err
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, ok := loaders[req.ScenarioID]; !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.currentScenario = ""
	if err := LoadScenarioInto(r.Context(), h.Store, req.ScenarioID, h.today()); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	h.currentScenario = req.ScenarioID
	h.Logger.Info("scenario loaded", "scenario", req.ScenarioID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SEEDER - Stops at the first failed write
// =============================================================================

type seeder struct {
	ctx   context.Context
	store studio.Store
	today studio.Date
	err   error
}

func (s *seeder) do(what string, fn func() error) {
	if s.err != nil {
		return
	}
	if err := fn(); err != nil {
		s.err = fmt.Errorf("%s: %w", what, err)
	}
}

func (s *seeder) staff(id, name string, role studio.Role) {
	s.do("staff "+id, func() error {
		return s.store.SaveStaff(s.ctx, studio.Staff{ID: studio.StaffID(id), Name: name, Role: role, Active: true})
	})
}

func (s *seeder) booking(id, client, name string, pkg int64) {
	s.do("booking "+id, func() error {
		return s.store.SaveBooking(s.ctx, studio.Booking{
			ID:            studio.BookingID(id),
			ClientID:      studio.ClientID(client),
			Name:          name,
			PackageAmount: decimal.NewFromInt(pkg),
		})
	})
}

// event creates an event offset days from today.
func (s *seeder) event(id, booking, name string, offset int, venue string) {
	s.do("event "+id, func() error {
		return s.store.SaveEvent(s.ctx, studio.Event{
			ID:        studio.EventID(id),
			BookingID: studio.BookingID(booking),
			Name:      name,
			Date:      s.today.AddDays(offset),
			Venue:     venue,
		})
	})
}

func (s *seeder) assign(staff, event string, role studio.Role, dataReceived bool) {
	s.do("assignment "+staff+"/"+event, func() error {
		a := studio.StaffAssignment{
			ID:           staff + "@" + event,
			StaffID:      studio.StaffID(staff),
			EventID:      studio.EventID(event),
			Role:         role,
			DataReceived: dataReceived,
		}
		if dataReceived {
			a.ReceivedBy = "Office"
			t := s.today.Time()
			a.ReceivedAt = &t
		}
		return s.store.SaveAssignment(s.ctx, a)
	})
}

// progress marks the first n steps of each medium completed. n < 0
// completes every step. Media listed in skip are marked not applicable.
func (s *seeder) progress(event string, n int, skip ...studio.Medium) {
	s.do("workflow "+event, func() error {
		w := studio.NewWorkflow(studio.EventID(event))
		for _, m := range studio.Media {
			state := studio.StepCompleted
			for _, sk := range skip {
				if sk == m {
					state = studio.StepNotApplicable
				}
			}
			for i, step := range studio.Catalog[m] {
				if state == studio.StepCompleted && n >= 0 && i >= n {
					break
				}
				if err := w.Set(m, step, state); err != nil {
					return err
				}
			}
		}
		return s.store.SaveWorkflow(s.ctx, w)
	})
}

func (s *seeder) agreed(staff, event string, amount int64) {
	s.do("agreed "+staff+"/"+event, func() error {
		_, err := s.store.InsertAgreedRecord(s.ctx, studio.StaffID(staff), studio.EventID(event), decimal.NewFromInt(amount), s.today)
		return err
	})
}

func (s *seeder) paid(staff, event string, amount int64, method studio.PaymentMethod, offset int) {
	s.do("payment "+staff, func() error {
		return s.store.AddStaffPayment(s.ctx, studio.StaffPaymentRecord{
			StaffID: studio.StaffID(staff),
			EventID: studio.EventID(event),
			Type:    studio.StaffMade,
			Amount:  decimal.NewFromInt(amount),
			Date:    s.today.AddDays(offset),
			Method:  method,
		})
	})
}

func (s *seeder) received(booking string, amount int64, offset int) {
	s.do("client payment "+booking, func() error {
		return s.store.AddClientPayment(s.ctx, studio.ClientPaymentRecord{
			BookingID: studio.BookingID(booking),
			Status:    studio.ClientReceived,
			Amount:    decimal.NewFromInt(amount),
			Date:      s.today.AddDays(offset),
		})
	})
}

func (s *seeder) expense(category string, amount int64, offset int, desc string) {
	s.do("expense "+category, func() error {
		return s.store.AddExpense(s.ctx, studio.Expense{
			Date:        s.today.AddDays(offset),
			Amount:      decimal.NewFromInt(amount),
			Category:    category,
			Description: desc,
		})
	})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadWeddingSeasonScenario(s *seeder) {
	s.staff("stf-ravi", "Ravi Kumar", studio.RolePhotographer)
	s.staff("stf-meera", "Meera Iyer", studio.RoleVideographer)
	s.staff("stf-arjun", "Arjun Rao", studio.RolePhotographer)
	s.staff("stf-kabir", "Kabir Shah", studio.RoleEditor)

	// Sharma wedding: haldi done, sangeet done, reception next week
	s.booking("bk-sharma", "cl-sharma", "Sharma Wedding", 350000)
	s.event("ev-haldi", "bk-sharma", "Haldi", -10, "Sharma residence")
	s.event("ev-sangeet", "bk-sharma", "Sangeet", -9, "Leela Palace")
	s.event("ev-reception", "bk-sharma", "Reception", 7, "ITC Gardenia")

	s.assign("stf-ravi", "ev-haldi", studio.RolePhotographer, true)
	s.assign("stf-ravi", "ev-sangeet", studio.RolePhotographer, true)
	s.assign("stf-meera", "ev-sangeet", studio.RoleVideographer, false)
	s.assign("stf-ravi", "ev-reception", studio.RolePhotographer, false)
	s.progress("ev-haldi", 3, studio.MediumReel)
	s.progress("ev-sangeet", 1)

	// Kapoor wedding: same day as the reception, Ravi double booked.
	// The engagement has no photographer.
	s.booking("bk-kapoor", "cl-kapoor", "Kapoor Wedding", 200000)
	s.event("ev-kapoor-wedding", "bk-kapoor", "Wedding", 7, "Taj West End")
	s.event("ev-kapoor-engagement", "bk-kapoor", "Engagement", 3, "Kapoor residence")
	s.assign("stf-ravi", "ev-kapoor-wedding", studio.RolePhotographer, false)
	s.assign("stf-arjun", "ev-kapoor-wedding", studio.RoleAssistant, false)
	s.assign("stf-meera", "ev-kapoor-engagement", studio.RoleVideographer, false)

	s.agreed("stf-ravi", "ev-haldi", 8000)
	s.agreed("stf-ravi", "ev-sangeet", 12000)
	s.agreed("stf-ravi", "ev-reception", 15000)
	s.agreed("stf-meera", "ev-sangeet", 10000)
	s.agreed("stf-kabir", "", 25000)
	s.paid("stf-ravi", "ev-haldi", 8000, studio.MethodUPI, -8)
	s.paid("stf-ravi", "", 5000, studio.MethodCash, -5)
	s.paid("stf-meera", "ev-sangeet", 4000, studio.MethodBank, -4)

	s.received("bk-sharma", 150000, -30)
	s.received("bk-sharma", 100000, -9)
	s.received("bk-kapoor", 50000, -20)

	s.expense("travel", 3500, -10, "Cab to haldi venue")
	s.expense("equipment", 18000, -15, "Lens rental")
	s.expense("travel", 2200, -9, "Fuel")
}

func loadDuplicateAgreedScenario(s *seeder) {
	s.staff("stf-ravi", "Ravi Kumar", studio.RolePhotographer)
	s.booking("bk-mehta", "cl-mehta", "Mehta Wedding", 180000)
	s.event("ev-mehta-wedding", "bk-mehta", "Wedding", 14, "Taj West End")
	s.assign("stf-ravi", "ev-mehta-wedding", studio.RolePhotographer, false)

	// Earlier edits appended instead of updating.
	s.agreed("stf-ravi", "ev-mehta-wedding", 3000)
	s.agreed("stf-ravi", "ev-mehta-wedding", 4500)
	s.agreed("stf-ravi", "ev-mehta-wedding", 4000)
	s.paid("stf-ravi", "ev-mehta-wedding", 2000, studio.MethodUPI, -1)
}

func loadFullyDeliveredScenario(s *seeder) {
	s.staff("stf-ravi", "Ravi Kumar", studio.RolePhotographer)
	s.staff("stf-meera", "Meera Iyer", studio.RoleVideographer)
	s.booking("bk-nair", "cl-nair", "Nair Wedding", 220000)
	s.event("ev-nair-muhurtham", "bk-nair", "Muhurtham", -60, "Guruvayur")
	s.event("ev-nair-reception", "bk-nair", "Reception", -59, "Le Meridien")

	for _, ev := range []string{"ev-nair-muhurtham", "ev-nair-reception"} {
		s.assign("stf-ravi", ev, studio.RolePhotographer, true)
		s.assign("stf-meera", ev, studio.RoleVideographer, true)
		s.progress(ev, -1)
		s.agreed("stf-ravi", ev, 10000)
		s.agreed("stf-meera", ev, 9000)
		s.paid("stf-ravi", ev, 10000, studio.MethodBank, -30)
		s.paid("stf-meera", ev, 9000, studio.MethodBank, -30)
	}

	s.received("bk-nair", 120000, -90)
	s.received("bk-nair", 100000, -45)
}
