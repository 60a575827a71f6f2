/*
Package schedule flags staffing problems across events.

PURPOSE:
  Alerts, not guards: nothing here blocks a write. The detector reads the
  current events and assignments and reports two kinds of problem.

CONFLICT:
  One staff member assigned to two or more different events on the same
  calendar day, whatever the venues. Several assignments to the same event
  (e.g. photographer and editor) are not a conflict.

SHORTAGE:
  An event with fewer distinct staff in a role than the coverage policy
  requires. Inactive staff are assigned but do not count as coverage.
  Staff missing from the roster are treated as active.

ORDERING:
  Conflicts by date then staff id; shortages by date, event id, role.
  Same input, same output.

SEE ALSO:
  - policy.go: CoveragePolicy loading
*/
package schedule

import (
	"sort"

	"github.com/warp/studio-engine/studio"
)

// Conflict is one staff member double-booked on one day.
type Conflict struct {
	StaffID     studio.StaffID
	Date        studio.Date
	EventIDs    []studio.EventID
	Assignments []studio.StaffAssignment
}

// Shortage is one role under-covered at one event.
type Shortage struct {
	EventID  studio.EventID
	Date     studio.Date
	Role     studio.Role
	Required int
	Assigned int
}

// Missing is how many more staff the role needs.
func (s Shortage) Missing() int { return s.Required - s.Assigned }

type Report struct {
	Conflicts []Conflict
	Shortages []Shortage
}

// Empty reports whether there is nothing to alert on.
func (r Report) Empty() bool { return len(r.Conflicts) == 0 && len(r.Shortages) == 0 }

// Detect finds conflicts and shortages. Assignments to events not in
// events are ignored.
func Detect(events []studio.Event, assignments []studio.StaffAssignment, staff []studio.Staff, policy CoveragePolicy) Report {
	return Report{
		Conflicts: Conflicts(events, assignments),
		Shortages: Shortages(events, assignments, staff, policy),
	}
}

// =============================================================================
// CONFLICTS
// =============================================================================

type staffDay struct {
	staff studio.StaffID
	date  studio.Date
}

func Conflicts(events []studio.Event, assignments []studio.StaffAssignment) []Conflict {
	dates := make(map[studio.EventID]studio.Date, len(events))
	for _, e := range events {
		dates[e.ID] = studio.NormalizeDate(string(e.Date))
	}

	groups := make(map[staffDay]*Conflict)
	for _, a := range assignments {
		date, ok := dates[a.EventID]
		if !ok || date.IsZero() {
			continue
		}
		k := staffDay{staff: a.StaffID, date: date}
		g, ok := groups[k]
		if !ok {
			g = &Conflict{StaffID: a.StaffID, Date: date}
			groups[k] = g
		}
		g.Assignments = append(g.Assignments, a)
		if !containsEvent(g.EventIDs, a.EventID) {
			g.EventIDs = append(g.EventIDs, a.EventID)
		}
	}

	var out []Conflict
	for _, g := range groups {
		if len(g.EventIDs) >= 2 {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StaffID < out[j].StaffID
	})
	return out
}

func containsEvent(ids []studio.EventID, id studio.EventID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// =============================================================================
// SHORTAGES
// =============================================================================

func Shortages(events []studio.Event, assignments []studio.StaffAssignment, staff []studio.Staff, policy CoveragePolicy) []Shortage {
	inactive := make(map[studio.StaffID]bool)
	for _, s := range staff {
		if !s.Active {
			inactive[s.ID] = true
		}
	}

	type eventRole struct {
		event studio.EventID
		role  studio.Role
	}
	covered := make(map[eventRole]map[studio.StaffID]bool)
	for _, a := range assignments {
		if inactive[a.StaffID] {
			continue
		}
		k := eventRole{event: a.EventID, role: a.Role}
		if covered[k] == nil {
			covered[k] = make(map[studio.StaffID]bool)
		}
		covered[k][a.StaffID] = true
	}

	var out []Shortage
	for _, e := range events {
		for _, req := range policy.Requirements {
			n := len(covered[eventRole{event: e.ID, role: req.Role}])
			if n < req.Min {
				out = append(out, Shortage{
					EventID:  e.ID,
					Date:     e.Date,
					Role:     req.Role,
					Required: req.Min,
					Assigned: n,
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.EventID != b.EventID {
			return a.EventID < b.EventID
		}
		return a.Role < b.Role
	})
	return out
}

// Upcoming keeps events dated on or after from. Undated events are kept so
// they still get flagged.
func Upcoming(events []studio.Event, from studio.Date) []studio.Event {
	var out []studio.Event
	for _, e := range events {
		if e.Date.IsZero() || !e.Date.Before(from) {
			out = append(out, e)
		}
	}
	return out
}
