package studio_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/studio-engine/studio"
	"github.com/warp/studio-engine/studio/store"
)

// =============================================================================
// DATES
// =============================================================================

func TestNormalizeDate(t *testing.T) {
	cases := map[string]studio.Date{
		"2025-03-10":                "2025-03-10",
		"2025-03-10T23:59:00+05:30": "2025-03-10",
		"2025-03-10 08:00:00":       "2025-03-10",
		"2025-3-10":                 "",
		"10/03/2025":                "",
		"2025-02-30":                "",
		"2025-03-10X":               "",
		"":                          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, studio.NormalizeDate(in), "input %q", in)
	}
}

func TestDate_ComparesCalendarDaysOnly(t *testing.T) {
	late := studio.Date("2025-03-10T23:00:00Z")
	early := studio.Date("2025-03-10T01:00:00Z")
	assert.True(t, late.Equal(early))
	assert.False(t, late.After(early))
	assert.True(t, early.OnOrBefore(late))
	assert.True(t, studio.Date("2025-03-09").Before(late))
}

func TestDate_Arithmetic(t *testing.T) {
	assert.Equal(t, studio.Date("2026-02-28"), studio.Date("2025-02-28").AddYears(1))
	assert.Equal(t, studio.Date("2025-03-01"), studio.Date("2025-02-28").AddDays(1))
	assert.Equal(t, studio.Date(""), studio.Date("junk").AddDays(1))
	assert.Equal(t, studio.Date("2025-01-02"), studio.DateOf(time.Date(2025, 1, 2, 22, 0, 0, 0, time.UTC)))
}

func TestDate_InRange(t *testing.T) {
	d := studio.Date("2025-05-05")
	assert.True(t, d.InRange("", ""))
	assert.True(t, d.InRange("2025-05-05", "2025-05-05"))
	assert.False(t, d.InRange("2025-05-06", ""))
	assert.False(t, d.InRange("", "2025-05-04"))
}

// =============================================================================
// WORKFLOW
// =============================================================================

func TestChecklist_RejectsUnknownStep(t *testing.T) {
	w := studio.NewWorkflow("e1")
	err := w.Set(studio.MediumReel, "deliveredToClient", studio.StepCompleted)

	assert.ErrorIs(t, err, studio.ErrUnknownStep)
	assert.True(t, studio.IsClientError(err))
	assert.Equal(t, studio.StepPending, w.Reel.State("reelDelivered"))
}

func TestChecklist_SingleStatePerStep(t *testing.T) {
	w := studio.NewWorkflow("e1")
	require.NoError(t, w.Set(studio.MediumVideo, "videoEdited", studio.StepCompleted))
	require.NoError(t, w.Set(studio.MediumVideo, "videoEdited", studio.StepNotApplicable))
	assert.Equal(t, studio.StepNotApplicable, w.Video.State("videoEdited"))
}

func TestWorkflow_CloneIsIndependent(t *testing.T) {
	// GIVEN: A workflow with one completed step and its clone
	w := studio.NewWorkflow("e1")
	require.NoError(t, w.Set(studio.MediumStill, "photosCulled", studio.StepCompleted))
	c := w.Clone()

	// WHEN: Editing the clone
	require.NoError(t, c.Set(studio.MediumStill, "deliveredToClient", studio.StepCompleted))
	require.NoError(t, c.Set(studio.MediumStill, "photosCulled", studio.StepPending))

	// THEN: The original is untouched
	assert.Equal(t, studio.StepCompleted, w.Still.State("photosCulled"))
	assert.Equal(t, studio.StepPending, w.Still.State("deliveredToClient"))
	assert.Equal(t, studio.EventID("e1"), c.EventID)
}

func TestMemory_SnapshotWorkflowsAreCopies(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SaveWorkflow(ctx, studio.NewWorkflow("e1")))

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Workflows, 1)
	require.NoError(t, snap.Workflows[0].Set(studio.MediumReel, "reelDelivered", studio.StepCompleted))

	again, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, studio.StepPending, again.Workflows[0].Reel.State("reelDelivered"))
}

func TestWorkflow_StatesRoundTrip(t *testing.T) {
	w := studio.NewWorkflow("e1")
	require.NoError(t, w.Set(studio.MediumStill, "photosCulled", studio.StepCompleted))
	require.NoError(t, w.Set(studio.MediumPortrait, "portraitDelivered", studio.StepNotApplicable))

	data, err := json.Marshal(w.States())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"photosCulled":"completed"`)

	var states studio.WorkflowStates
	require.NoError(t, json.Unmarshal(data, &states))
	back, err := studio.WorkflowFromStates("e1", states)
	require.NoError(t, err)
	assert.Equal(t, studio.StepCompleted, back.Still.State("photosCulled"))
	assert.Equal(t, studio.StepNotApplicable, back.Portrait.State("portraitDelivered"))

	_, err = studio.WorkflowFromStates("e1", studio.WorkflowStates{"drone": {"x": studio.StepCompleted}})
	assert.ErrorIs(t, err, studio.ErrUnknownStep)
}

func TestTerminalSteps(t *testing.T) {
	assert.Equal(t, studio.Step("deliveredToClient"), studio.TerminalStep(studio.MediumStill))
	assert.Equal(t, studio.Step("reelDelivered"), studio.TerminalStep(studio.MediumReel))
	assert.Equal(t, studio.Step("videoDelivered"), studio.TerminalStep(studio.MediumVideo))
	assert.Equal(t, studio.Step("portraitDelivered"), studio.TerminalStep(studio.MediumPortrait))
}

// =============================================================================
// VALIDATION
// =============================================================================

func validStaffInput() studio.StaffPaymentInput {
	return studio.StaffPaymentInput{
		StaffID: "stf-1",
		EventID: "evt-1",
		Type:    "made",
		Amount:  decimal.NewFromInt(2500),
		Date:    "2025-06-01",
		Method:  "upi",
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var verrs studio.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.ErrorIs(t, err, studio.ErrValidation)
	return verrs.Fields()
}

func TestValidateStaffPayment_Valid(t *testing.T) {
	assert.NoError(t, studio.ValidateStaffPayment(validStaffInput(), "2025-06-10"))
}

func TestValidateStaffPayment_AmountRange(t *testing.T) {
	for _, v := range []string{"0", "0.5", "1000000", "-3"} {
		in := validStaffInput()
		in.Amount = decimal.RequireFromString(v)
		fields := fieldsOf(t, studio.ValidateStaffPayment(in, "2025-06-10"))
		assert.Contains(t, fields, "amount", "amount %s", v)
	}
	in := validStaffInput()
	in.Amount = decimal.NewFromInt(999_999)
	assert.NoError(t, studio.ValidateStaffPayment(in, "2025-06-10"))
}

func TestValidateStaffPayment_MethodRequiredForMade(t *testing.T) {
	in := validStaffInput()
	in.Method = ""
	fields := fieldsOf(t, studio.ValidateStaffPayment(in, "2025-06-10"))
	assert.Equal(t, "is required for payments made", fields["method"])

	in.Type = "agreed"
	assert.NoError(t, studio.ValidateStaffPayment(in, "2025-06-10"))
}

func TestValidateStaffPayment_DateRules(t *testing.T) {
	in := validStaffInput()
	in.Date = ""
	assert.Contains(t, fieldsOf(t, studio.ValidateStaffPayment(in, "2025-06-10")), "date")

	in.Date = "06/01/2025"
	assert.Equal(t, "must be a YYYY-MM-DD date", fieldsOf(t, studio.ValidateStaffPayment(in, "2025-06-10"))["date"])

	in.Date = "2026-06-11"
	assert.Contains(t, fieldsOf(t, studio.ValidateStaffPayment(in, "2025-06-10"))["date"], "one year")

	in.Date = "2026-06-10"
	assert.NoError(t, studio.ValidateStaffPayment(in, "2025-06-10"))
}

func TestValidateStaffPayment_RemarksAndType(t *testing.T) {
	in := validStaffInput()
	in.Remarks = strings.Repeat("x", 201)
	in.Type = "bonus"
	fields := fieldsOf(t, studio.ValidateStaffPayment(in, "2025-06-10"))
	assert.Equal(t, "must be at most 200 characters", fields["remarks"])
	assert.Equal(t, "must be one of: agreed, made", fields["type"])
}

func TestValidateClientPayment(t *testing.T) {
	ok := studio.ClientPaymentInput{BookingID: "bk-1", Status: "received", Amount: decimal.NewFromInt(50000), Date: "2025-06-01"}
	assert.NoError(t, studio.ValidateClientPayment(ok, "2025-06-10"))

	bad := ok
	bad.BookingID = ""
	bad.Status = "refunded"
	fields := fieldsOf(t, studio.ValidateClientPayment(bad, "2025-06-10"))
	assert.Equal(t, "is required", fields["booking_id"])
	assert.Contains(t, fields, "status")
}
