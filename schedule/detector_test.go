package schedule_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/studio-engine/schedule"
	"github.com/warp/studio-engine/studio"
)

func assign(staff, event string, role studio.Role) studio.StaffAssignment {
	return studio.StaffAssignment{StaffID: studio.StaffID(staff), EventID: studio.EventID(event), Role: role}
}

// =============================================================================
// CONFLICTS
// =============================================================================

func TestConflicts_SameDayDifferentEvents(t *testing.T) {
	// GIVEN: Ravi works two events on June 10 at different venues,
	// and two roles at one event on June 11
	events := []studio.Event{
		{ID: "e1", Date: "2025-06-10", Venue: "Taj"},
		{ID: "e2", Date: "2025-06-10T18:00:00Z", Venue: "Leela"},
		{ID: "e3", Date: "2025-06-11", Venue: "Taj"},
	}
	assignments := []studio.StaffAssignment{
		assign("ravi", "e1", studio.RolePhotographer),
		assign("ravi", "e2", studio.RoleVideographer),
		assign("ravi", "e3", studio.RolePhotographer),
		assign("ravi", "e3", studio.RoleEditor),
		assign("meera", "e1", studio.RolePhotographer),
	}

	// WHEN: Detecting conflicts
	got := schedule.Conflicts(events, assignments)

	// THEN: Only the June 10 double booking is flagged
	require.Len(t, got, 1)
	assert.Equal(t, studio.StaffID("ravi"), got[0].StaffID)
	assert.Equal(t, studio.Date("2025-06-10"), got[0].Date)
	assert.ElementsMatch(t, []studio.EventID{"e1", "e2"}, got[0].EventIDs)
	assert.Len(t, got[0].Assignments, 2)
}

func TestConflicts_DeterministicOrder(t *testing.T) {
	events := []studio.Event{
		{ID: "a1", Date: "2025-07-02"}, {ID: "a2", Date: "2025-07-02"},
		{ID: "b1", Date: "2025-07-01"}, {ID: "b2", Date: "2025-07-01"},
	}
	assignments := []studio.StaffAssignment{
		assign("zed", "a1", studio.RolePhotographer), assign("zed", "a2", studio.RolePhotographer),
		assign("zed", "b1", studio.RolePhotographer), assign("zed", "b2", studio.RolePhotographer),
		assign("amy", "b1", studio.RolePhotographer), assign("amy", "b2", studio.RolePhotographer),
	}

	got := schedule.Conflicts(events, assignments)

	require.Len(t, got, 3)
	assert.Equal(t, "2025-07-01/amy", string(got[0].Date)+"/"+string(got[0].StaffID))
	assert.Equal(t, "2025-07-01/zed", string(got[1].Date)+"/"+string(got[1].StaffID))
	assert.Equal(t, "2025-07-02/zed", string(got[2].Date)+"/"+string(got[2].StaffID))
}

// =============================================================================
// SHORTAGES
// =============================================================================

func TestShortages_PolicyDriven(t *testing.T) {
	events := []studio.Event{
		{ID: "e1", Date: "2025-06-10"},
		{ID: "e2", Date: "2025-06-09"},
	}
	assignments := []studio.StaffAssignment{
		assign("p1", "e1", studio.RolePhotographer),
		assign("p1", "e1", studio.RolePhotographer), // duplicate row, one person
		assign("p2", "e1", studio.RolePhotographer),
		assign("v-retired", "e1", studio.RoleVideographer),
		assign("p1", "e2", studio.RolePhotographer),
	}
	staff := []studio.Staff{
		{ID: "p1", Active: true},
		{ID: "p2", Active: true},
		{ID: "v-retired", Active: false},
	}
	policy := schedule.CoveragePolicy{Requirements: []schedule.Requirement{
		{Role: studio.RolePhotographer, Min: 2},
		{Role: studio.RoleVideographer, Min: 1},
	}}

	got := schedule.Shortages(events, assignments, staff, policy)

	require.Len(t, got, 3)
	// e2 first (earlier date)
	assert.Equal(t, studio.EventID("e2"), got[0].EventID)
	assert.Equal(t, studio.RolePhotographer, got[0].Role)
	assert.Equal(t, 1, got[0].Missing())
	assert.Equal(t, studio.EventID("e2"), got[1].EventID)
	assert.Equal(t, studio.RoleVideographer, got[1].Role)
	// e1 photographers are covered, its only videographer is inactive
	assert.Equal(t, studio.EventID("e1"), got[2].EventID)
	assert.Equal(t, studio.RoleVideographer, got[2].Role)
	assert.Equal(t, 0, got[2].Assigned)
}

func TestDetect_DefaultPolicy_EventWithoutPhotographer(t *testing.T) {
	events := []studio.Event{{ID: "e1", Date: "2025-06-10"}}
	report := schedule.Detect(events, []studio.StaffAssignment{assign("v", "e1", studio.RoleVideographer)}, nil, schedule.DefaultPolicy())

	assert.Empty(t, report.Conflicts)
	require.Len(t, report.Shortages, 1)
	assert.Equal(t, studio.RolePhotographer, report.Shortages[0].Role)
	assert.False(t, report.Empty())
}

func TestUpcoming_FiltersPastEvents(t *testing.T) {
	events := []studio.Event{{ID: "past", Date: "2025-01-01"}, {ID: "today", Date: "2025-06-10"}, {ID: "undated"}}
	got := schedule.Upcoming(events, "2025-06-10")
	require.Len(t, got, 2)
	assert.Equal(t, studio.EventID("today"), got[0].ID)
	assert.Equal(t, studio.EventID("undated"), got[1].ID)
}

// =============================================================================
// POLICY LOADING
// =============================================================================

func TestParsePolicy_YAMLAndJSON(t *testing.T) {
	p, err := schedule.ParsePolicy([]byte(`
requirements:
  - role: photographer
    min: 2
  - role: videographer
    min: 1
`))
	require.NoError(t, err)
	assert.Equal(t, []schedule.Requirement{{Role: "photographer", Min: 2}, {Role: "videographer", Min: 1}}, p.Requirements)

	p, err = schedule.ParsePolicy([]byte(`{"requirements":[{"role":"editor","min":1}]}`))
	require.NoError(t, err)
	assert.Equal(t, studio.RoleEditor, p.Requirements[0].Role)
}

func TestParsePolicy_Rejects(t *testing.T) {
	bad := []string{
		"requirements:\n  - role: photographer\n    min: 0\n",
		"requirements:\n  - min: 1\n",
		"requirements:\n  - role: editor\n    min: 1\n  - role: editor\n    min: 2\n",
		"requirements:\n  - role: editor\n    minimum: 1\n",
	}
	for _, b := range bad {
		_, err := schedule.ParsePolicy([]byte(b))
		assert.Error(t, err, b)
	}
}

func TestLoadPolicy_FileAndDefault(t *testing.T) {
	p, err := schedule.LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, schedule.DefaultPolicy(), p)

	path := filepath.Join(t.TempDir(), "coverage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("requirements:\n  - role: drone_operator\n    min: 1\n"), 0o600))
	p, err = schedule.LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, studio.RoleDroneOperator, p.Requirements[0].Role)

	_, err = schedule.LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
