package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// PER-EVENT AGREED AMOUNTS
// =============================================================================

// AgreedForEvent returns the agreed amount for one (staff, event) pair, or
// zero when there is none. If duplicates exist the canonical record wins,
// the same record reconciliation would keep.
func AgreedForEvent(staffID studio.StaffID, eventID studio.EventID, records []studio.StaffPaymentRecord) decimal.Decimal {
	var matches []studio.StaffPaymentRecord
	for _, r := range records {
		if r.StaffID == staffID && r.EventID == eventID && r.Type == studio.StaffAgreed {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return decimal.Zero
	}
	studio.SortCanonical(matches)
	return matches[0].Amount
}

// StaffEvent is an event a staff member works, with what they were promised.
type StaffEvent struct {
	Event  studio.Event
	Roles  []studio.Role
	Agreed decimal.Decimal
}

// EventsForStaff lists the events a staff member is assigned to, once per
// event even with several assignments, ordered by event date (earliest
// first, snapshot order on ties).
func EventsForStaff(
	staffID studio.StaffID,
	events []studio.Event,
	assignments []studio.StaffAssignment,
	payments []studio.StaffPaymentRecord,
) []StaffEvent {
	roles := make(map[studio.EventID][]studio.Role)
	for _, a := range assignments {
		if a.StaffID != staffID {
			continue
		}
		if !containsRole(roles[a.EventID], a.Role) {
			roles[a.EventID] = append(roles[a.EventID], a.Role)
		}
	}

	seen := make(map[studio.EventID]bool, len(roles))
	var out []StaffEvent
	for _, e := range events {
		if _, assigned := roles[e.ID]; !assigned || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, StaffEvent{
			Event:  e,
			Roles:  roles[e.ID],
			Agreed: AgreedForEvent(staffID, e.ID, payments),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Event.Date.Before(out[j].Event.Date)
	})
	return out
}

func containsRole(roles []studio.Role, r studio.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}
