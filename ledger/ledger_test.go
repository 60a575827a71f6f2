package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/studio-engine/ledger"
	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func agreed(staff, event string, v int64, date string) studio.StaffPaymentRecord {
	return studio.StaffPaymentRecord{
		ID: studio.RecordID(staff + "-" + event + "-" + date), StaffID: studio.StaffID(staff),
		EventID: studio.EventID(event), Type: studio.StaffAgreed, Amount: amt(v), Date: studio.Date(date),
	}
}

func made(staff string, v int64, date string) studio.StaffPaymentRecord {
	return studio.StaffPaymentRecord{
		ID: studio.RecordID(staff + "-made-" + date), StaffID: studio.StaffID(staff),
		Type: studio.StaffMade, Amount: amt(v), Date: studio.Date(date), Method: studio.MethodCash,
	}
}

func assertAmount(t *testing.T, want int64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(amt(want)), "%s: want %d, got %s", msg, want, got)
}

// =============================================================================
// SUMMARY
// =============================================================================

func TestSummarize_StaffExample(t *testing.T) {
	// GIVEN: Staff A agreed 5000, paid 2000 and 1000
	records := ledger.StaffEntries([]studio.StaffPaymentRecord{
		agreed("A", "e1", 5000, "2025-01-10"),
		made("A", 2000, "2025-02-01"),
		made("A", 1000, "2025-03-01"),
		agreed("B", "e1", 9999, "2025-01-10"),
	})

	// WHEN: Summarizing A
	s := ledger.Summarize("A", "Asha", records)

	// THEN: 5000 agreed, 3000 paid, 2000 due
	assert.Equal(t, "A", s.ID)
	assert.Equal(t, "Asha", s.Name)
	assertAmount(t, 5000, s.TotalAgreed, "agreed")
	assertAmount(t, 3000, s.TotalPaid, "paid")
	assertAmount(t, 2000, s.TotalDue, "due")
}

func TestSummarize_NoRecords_AllZero(t *testing.T) {
	s := ledger.Summarize("ghost", "Ghost", []ledger.StaffEntry{})
	assert.True(t, s.TotalAgreed.IsZero())
	assert.True(t, s.TotalPaid.IsZero())
	assert.True(t, s.TotalDue.IsZero())
	assert.False(t, s.HasActivity())
}

func TestSummarize_DueAlwaysAgreedMinusPaid(t *testing.T) {
	fixtures := [][]studio.StaffPaymentRecord{
		{},
		{agreed("A", "e1", 100, "2025-01-01")},
		{made("A", 700, "2025-01-01")},
		{agreed("A", "e1", 300, "2025-01-01"), made("A", 500, "2025-01-02")},
		{agreed("A", "e1", 300, "2025-01-01"), agreed("A", "e2", 200, "2025-01-01"), made("A", 500, "2025-01-02")},
	}
	for _, f := range fixtures {
		s := ledger.Summarize("A", "A", ledger.StaffEntries(f))
		assert.True(t, s.TotalDue.Equal(s.TotalAgreed.Sub(s.TotalPaid)))
	}
}

func TestDue_OverpaymentIsNegative(t *testing.T) {
	records := ledger.StaffEntries([]studio.StaffPaymentRecord{
		agreed("A", "e1", 1000, "2025-01-01"),
		made("A", 1500, "2025-01-05"),
	})
	assertAmount(t, -500, ledger.Due("A", records), "due")
}

func TestTotals_IgnoreUnknownTypes(t *testing.T) {
	odd := agreed("A", "e1", 400, "2025-01-01")
	odd.Type = "refund"
	records := ledger.StaffEntries([]studio.StaffPaymentRecord{odd, agreed("A", "e1", 100, "2025-01-01")})
	assertAmount(t, 100, ledger.TotalAgreed("A", records), "agreed")
	assertAmount(t, 0, ledger.TotalPaid("A", records), "paid")
}

func TestClientLedger_ReceivedCountsAsPaid(t *testing.T) {
	records := ledger.ClientEntries([]studio.ClientPaymentRecord{
		{BookingID: "bk-1", Status: studio.ClientAgreed, Amount: amt(100000), Date: "2025-01-01"},
		{BookingID: "bk-1", Status: studio.ClientReceived, Amount: amt(40000), Date: "2025-01-15"},
		{BookingID: "bk-2", Status: studio.ClientReceived, Amount: amt(1), Date: "2025-01-15"},
	})
	s := ledger.Summarize("bk-1", "Mehta wedding", records)
	assertAmount(t, 100000, s.TotalAgreed, "agreed")
	assertAmount(t, 40000, s.TotalPaid, "paid")
	assertAmount(t, 60000, s.TotalDue, "due")
}

func TestParseAmount_MalformedIsZero(t *testing.T) {
	assert.True(t, studio.ParseAmount("abc").IsZero())
	assert.True(t, studio.ParseAmount("").IsZero())
	assert.True(t, studio.ParseAmount("1250.50").Equal(decimal.RequireFromString("1250.5")))
}

// =============================================================================
// TOP N
// =============================================================================

func TestTopN_ExcludesInactiveAndBreaksTies(t *testing.T) {
	// GIVEN: Subjects with equal dues, equal agreed amounts and one idle subject
	subjects := []ledger.Subject{
		{ID: "idle", Name: "Idle"},
		{ID: "c", Name: "charlie"},
		{ID: "b", Name: "Bravo"},
		{ID: "a", Name: "alpha"},
		{ID: "d", Name: "Delta"},
		{ID: "e", Name: "Echo"},
	}
	records := ledger.StaffEntries([]studio.StaffPaymentRecord{
		agreed("a", "e1", 1000, "2025-01-01"), // due 1000, agreed 1000
		agreed("b", "e1", 1000, "2025-01-01"), // due 1000, agreed 1000
		agreed("c", "e1", 3000, "2025-01-01"), // due 1000, agreed 3000
		made("c", 2000, "2025-01-02"),
		agreed("d", "e1", 5000, "2025-01-01"), // due 5000
		made("e", 200, "2025-01-02"), // due -200
	})

	// WHEN: Ranking
	top := ledger.TopN(subjects, records, 0)

	// THEN: due desc, agreed desc, name asc case-insensitively, idle excluded
	ids := make([]string, len(top))
	for i, s := range top {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"d", "c", "a", "b", "e"}, ids)
}

func TestTopN_LimitsResult(t *testing.T) {
	var subjects []ledger.Subject
	var recs []studio.StaffPaymentRecord
	for i := 0; i < 15; i++ {
		id := string(rune('a' + i))
		subjects = append(subjects, ledger.Subject{ID: id, Name: id})
		recs = append(recs, agreed(id, "e1", int64(100*(i+1)), "2025-01-01"))
	}
	records := ledger.StaffEntries(recs)

	assert.Len(t, ledger.TopN(subjects, records, 0), ledger.DefaultTopN)
	top3 := ledger.TopN(subjects, records, 3)
	require.Len(t, top3, 3)
	assert.Equal(t, "o", top3[0].ID)
}

// =============================================================================
// HISTORY
// =============================================================================

func TestHistory_MostRecentFirst_StableOnTies(t *testing.T) {
	first := made("A", 1, "2025-02-01")
	first.ID = "first"
	second := made("A", 2, "2025-02-01")
	second.ID = "second"
	records := ledger.StaffEntries([]studio.StaffPaymentRecord{
		agreed("A", "e1", 10, "2025-01-01"),
		first,
		made("B", 5, "2025-05-01"),
		second,
		made("A", 3, "2025-03-01"),
	})

	h := ledger.History("A", records)

	require.Len(t, h, 4)
	assert.Equal(t, studio.Date("2025-03-01"), h[0].Date)
	assert.Equal(t, studio.RecordID("first"), h[1].ID)
	assert.Equal(t, studio.RecordID("second"), h[2].ID)
	assert.Equal(t, studio.Date("2025-01-01"), h[3].Date)
}

// =============================================================================
// EVENTS FOR STAFF
// =============================================================================

func TestEventsForStaff_DedupesAndSortsByDate(t *testing.T) {
	events := []studio.Event{
		{ID: "e-late", Date: "2025-06-20", Name: "Reception"},
		{ID: "e-early", Date: "2025-06-18", Name: "Haldi"},
		{ID: "e-other", Date: "2025-06-19", Name: "Sangeet"},
	}
	assignments := []studio.StaffAssignment{
		{StaffID: "A", EventID: "e-late", Role: studio.RolePhotographer},
		{StaffID: "A", EventID: "e-late", Role: studio.RoleEditor},
		{StaffID: "A", EventID: "e-late", Role: studio.RolePhotographer},
		{StaffID: "A", EventID: "e-early", Role: studio.RolePhotographer},
		{StaffID: "B", EventID: "e-other", Role: studio.RoleVideographer},
	}
	payments := []studio.StaffPaymentRecord{agreed("A", "e-late", 4500, "2025-05-01")}

	got := ledger.EventsForStaff("A", events, assignments, payments)

	require.Len(t, got, 2)
	assert.Equal(t, studio.EventID("e-early"), got[0].Event.ID)
	assert.True(t, got[0].Agreed.IsZero())
	assert.Equal(t, studio.EventID("e-late"), got[1].Event.ID)
	assertAmount(t, 4500, got[1].Agreed, "agreed")
	assert.Equal(t, []studio.Role{studio.RolePhotographer, studio.RoleEditor}, got[1].Roles)
}

func TestAgreedForEvent_CanonicalRecordWins(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	older := agreed("X", "Y", 3000, "2025-01-01")
	older.ID, older.CreatedAt = "r2", base
	newer := agreed("X", "Y", 4500, "2025-01-01")
	newer.ID, newer.CreatedAt = "r1", base.Add(time.Hour)

	got := ledger.AgreedForEvent("X", "Y", []studio.StaffPaymentRecord{newer, older})
	assertAmount(t, 3000, got, "canonical")
	assert.True(t, ledger.AgreedForEvent("X", "none", []studio.StaffPaymentRecord{newer}).IsZero())
}

// =============================================================================
// CLIENTS AND EXPENSES
// =============================================================================

func TestClientSummaries_RollUpBookingsPerClient(t *testing.T) {
	bookings := []studio.Booking{
		{ID: "bk-1", ClientID: "cl-2", Name: "Rao wedding"},
		{ID: "bk-2", ClientID: "cl-1", Name: "Iyer engagement"},
		{ID: "bk-3", ClientID: "cl-2", Name: "Rao reception"},
	}
	records := []studio.ClientPaymentRecord{
		{BookingID: "bk-1", Status: studio.ClientAgreed, Amount: amt(1000)},
		{BookingID: "bk-3", Status: studio.ClientAgreed, Amount: amt(500)},
		{BookingID: "bk-3", Status: studio.ClientReceived, Amount: amt(700)},
		{BookingID: "bk-2", Status: studio.ClientReceived, Amount: amt(50)},
	}

	got := ledger.ClientSummaries(bookings, records)

	require.Len(t, got, 2)
	assert.Equal(t, "cl-1", got[0].ID)
	assertAmount(t, -50, got[0].TotalDue, "cl-1 due")
	assert.Equal(t, "cl-2", got[1].ID)
	assert.Equal(t, "Rao wedding", got[1].Name)
	assertAmount(t, 1500, got[1].TotalAgreed, "cl-2 agreed")
	assertAmount(t, 800, got[1].TotalDue, "cl-2 due")
}

func TestExpenseTotals_WindowAndOrdering(t *testing.T) {
	expenses := []studio.Expense{
		{Date: "2025-01-05", Amount: amt(300), Category: "travel"},
		{Date: "2025-01-20", Amount: amt(900), Category: "equipment"},
		{Date: "2025-01-25", Amount: amt(300), Category: "travel"},
		{Date: "2025-02-02", Amount: amt(5000), Category: "equipment"},
	}

	got := ledger.ExpenseTotals(expenses, "2025-01-01", "2025-01-31")

	require.Len(t, got, 2)
	assert.Equal(t, "equipment", got[0].Category)
	assertAmount(t, 900, got[0].Total, "equipment")
	assert.Equal(t, "travel", got[1].Category)
	assert.Equal(t, 2, got[1].Count)
}
