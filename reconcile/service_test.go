package reconcile_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/studio-engine/reconcile"
	"github.com/warp/studio-engine/studio"
	"github.com/warp/studio-engine/studio/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var pairXY = reconcile.Pair{StaffID: "X", EventID: "Y"}

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newMemory() *store.Memory {
	fixed := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return store.NewMemory().WithClock(func() time.Time { return fixed })
}

func newService(s reconcile.Store) *reconcile.Service {
	svc := reconcile.NewService(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.Clock = studio.FixedClock("2025-06-01")
	return svc
}

func seedAgreed(t *testing.T, m *store.Memory, pair reconcile.Pair, amounts ...int64) {
	t.Helper()
	for _, a := range amounts {
		require.NoError(t, m.AddStaffPayment(context.Background(), studio.StaffPaymentRecord{
			StaffID: pair.StaffID, EventID: pair.EventID, Type: studio.StaffAgreed,
			Amount: amt(a), Date: "2025-05-01",
		}))
	}
}

func agreedFor(t *testing.T, m *store.Memory, pair reconcile.Pair) []studio.StaffPaymentRecord {
	t.Helper()
	recs, err := m.ListAgreedRecords(context.Background(), pair.StaffID, pair.EventID)
	require.NoError(t, err)
	return recs
}

// flakyStore fails selected calls and records the order of writes.
type flakyStore struct {
	*store.Memory
	failDelete map[studio.RecordID]int // remaining failures per record
	failUpdate error
	failList   map[reconcile.Pair]error
	calls      []string
}

func (f *flakyStore) ListAgreedRecords(ctx context.Context, staffID studio.StaffID, eventID studio.EventID) ([]studio.StaffPaymentRecord, error) {
	pair := reconcile.Pair{StaffID: staffID, EventID: eventID}
	f.calls = append(f.calls, "list "+pair.String())
	if err := f.failList[pair]; err != nil {
		return nil, err
	}
	return f.Memory.ListAgreedRecords(ctx, staffID, eventID)
}

func (f *flakyStore) UpdateAmount(ctx context.Context, id studio.RecordID, amount decimal.Decimal) error {
	f.calls = append(f.calls, "update")
	if f.failUpdate != nil {
		return f.failUpdate
	}
	return f.Memory.UpdateAmount(ctx, id, amount)
}

func (f *flakyStore) DeleteRecord(ctx context.Context, id studio.RecordID) error {
	f.calls = append(f.calls, "delete")
	if f.failDelete[id] > 0 {
		f.failDelete[id]--
		return errors.New("connection reset")
	}
	return f.Memory.DeleteRecord(ctx, id)
}

// =============================================================================
// SINGLE PAIR
// =============================================================================

func TestReconcile_CollapsesDuplicatesToNewAmount(t *testing.T) {
	// GIVEN: Two agreed records (3000, 4500) for (X, Y)
	m := newMemory()
	seedAgreed(t, m, pairXY, 3000, 4500)
	canonical := agreedFor(t, m, pairXY)[0].ID

	// WHEN: Setting the amount to 5000
	out, err := newService(m).Reconcile(context.Background(), pairXY, amt(5000))

	// THEN: One record remains, valued 5000, and it is the canonical one
	require.NoError(t, err)
	assert.Equal(t, reconcile.ActionUpdated, out.Action)
	assert.Equal(t, canonical, out.RecordID)
	assert.Len(t, out.Removed, 1)

	recs := agreedFor(t, m, pairXY)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Amount.Equal(amt(5000)))
	assert.Equal(t, canonical, recs[0].ID)
}

func TestReconcile_ConvergesFromManyDuplicates(t *testing.T) {
	m := newMemory()
	seedAgreed(t, m, pairXY, 10, 20, 30, 40, 50)

	_, err := newService(m).Reconcile(context.Background(), pairXY, amt(777))
	require.NoError(t, err)

	recs := agreedFor(t, m, pairXY)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Amount.Equal(amt(777)))
}

func TestReconcile_Idempotent(t *testing.T) {
	m := newMemory()
	seedAgreed(t, m, pairXY, 3000, 4500)
	svc := newService(m)

	_, err := svc.Reconcile(context.Background(), pairXY, amt(5000))
	require.NoError(t, err)
	once := agreedFor(t, m, pairXY)

	out, err := svc.Reconcile(context.Background(), pairXY, amt(5000))
	require.NoError(t, err)
	twice := agreedFor(t, m, pairXY)

	assert.Equal(t, reconcile.ActionUpdated, out.Action)
	assert.Empty(t, out.Removed)
	assert.Equal(t, once, twice)
}

func TestReconcile_InsertsWhenMissing(t *testing.T) {
	m := newMemory()

	out, err := newService(m).Reconcile(context.Background(), pairXY, amt(2500))

	require.NoError(t, err)
	assert.Equal(t, reconcile.ActionInserted, out.Action)
	recs := agreedFor(t, m, pairXY)
	require.Len(t, recs, 1)
	assert.Equal(t, out.RecordID, recs[0].ID)
	assert.Equal(t, studio.Date("2025-06-01"), recs[0].Date)
	assert.True(t, recs[0].Amount.Equal(amt(2500)))
}

func TestReconcile_ZeroClearsThenNoOp(t *testing.T) {
	m := newMemory()
	seedAgreed(t, m, pairXY, 100, 200)
	other := reconcile.Pair{StaffID: "X", EventID: "Z"}
	seedAgreed(t, m, other, 900)
	svc := newService(m)

	out, err := svc.Reconcile(context.Background(), pairXY, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, reconcile.ActionCleared, out.Action)
	assert.Len(t, out.Removed, 2)
	assert.Empty(t, agreedFor(t, m, pairXY))

	out, err = svc.Reconcile(context.Background(), pairXY, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, reconcile.ActionNone, out.Action)

	assert.Len(t, agreedFor(t, m, other), 1, "other pairs untouched")
}

func TestReconcile_LeavesPaymentsMadeAlone(t *testing.T) {
	m := newMemory()
	seedAgreed(t, m, pairXY, 100)
	require.NoError(t, m.AddStaffPayment(context.Background(), studio.StaffPaymentRecord{
		StaffID: "X", EventID: "Y", Type: studio.StaffMade, Amount: amt(50), Date: "2025-05-02", Method: studio.MethodCash,
	}))

	_, err := newService(m).Reconcile(context.Background(), pairXY, decimal.Zero)
	require.NoError(t, err)

	snap, err := m.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.StaffPayments, 1)
	assert.Equal(t, studio.StaffMade, snap.StaffPayments[0].Type)
}

func TestReconcile_RejectsOutOfRangeAmounts(t *testing.T) {
	m := newMemory()
	svc := newService(m)

	_, err := svc.Reconcile(context.Background(), pairXY, amt(1_000_000))
	assert.ErrorIs(t, err, studio.ErrValidation)

	_, err = svc.Reconcile(context.Background(), pairXY, amt(-5))
	assert.ErrorIs(t, err, reconcile.ErrNegativeAmount)

	assert.Empty(t, agreedFor(t, m, pairXY), "nothing written")
}

// =============================================================================
// PARTIAL FAILURE
// =============================================================================

func TestReconcile_DeleteFailure_ReportsStaleDuplicate_RetryHeals(t *testing.T) {
	// GIVEN: Three duplicates, deleting the second one fails once
	m := newMemory()
	seedAgreed(t, m, pairXY, 3000, 4500, 6000)
	recs := agreedFor(t, m, pairXY)
	flaky := &flakyStore{Memory: m, failDelete: map[studio.RecordID]int{recs[1].ID: 1}}
	svc := newService(flaky)

	// WHEN: Reconciling to 5000
	out, err := svc.Reconcile(context.Background(), pairXY, amt(5000))

	// THEN: Error is visible, canonical amount is already correct, the
	// other duplicate was still removed
	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrStaleDuplicate)
	var pe *reconcile.PairError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, reconcile.StageDelete, pe.Stage)
	assert.Equal(t, recs[1].ID, pe.RecordID)
	assert.Equal(t, []studio.RecordID{recs[2].ID}, out.Removed)

	left := agreedFor(t, m, pairXY)
	require.Len(t, left, 2)
	assert.True(t, left[0].Amount.Equal(amt(5000)))

	// WHEN: Retrying the same edit
	_, err = svc.Reconcile(context.Background(), pairXY, amt(5000))

	// THEN: The stale duplicate is gone
	require.NoError(t, err)
	left = agreedFor(t, m, pairXY)
	require.Len(t, left, 1)
	assert.True(t, left[0].Amount.Equal(amt(5000)))
}

func TestReconcile_UpdateFailure_NoDeletesAttempted(t *testing.T) {
	m := newMemory()
	seedAgreed(t, m, pairXY, 3000, 4500)
	flaky := &flakyStore{Memory: m, failUpdate: errors.New("disk full")}

	_, err := newService(flaky).Reconcile(context.Background(), pairXY, amt(5000))

	var pe *reconcile.PairError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, reconcile.StageUpdate, pe.Stage)
	assert.NotContains(t, flaky.calls, "delete")
	assert.Len(t, agreedFor(t, m, pairXY), 2)
}

// =============================================================================
// SAVE ALL
// =============================================================================

func TestSaveAll_SequentialAndIndependent(t *testing.T) {
	// GIVEN: Three pending edits, listing the middle pair fails
	m := newMemory()
	p1 := reconcile.Pair{StaffID: "A", EventID: "e1"}
	p2 := reconcile.Pair{StaffID: "B", EventID: "e1"}
	p3 := reconcile.Pair{StaffID: "A", EventID: "e2"}
	seedAgreed(t, m, p3, 10, 20)
	flaky := &flakyStore{Memory: m, failList: map[reconcile.Pair]error{p2: errors.New("timeout")}}

	edits := reconcile.NewPendingEdits()
	edits.Set(p1, amt(1000))
	edits.Set(p2, amt(2000))
	edits.Set(p3, amt(3000))
	edits.Set(p1, amt(1500)) // re-edit keeps position

	// WHEN: Saving all
	res := newService(flaky).SaveAll(context.Background(), edits)

	// THEN: p2 failed, p1 and p3 applied, in edit order
	require.Len(t, res.Results, 3)
	assert.Equal(t, []reconcile.Pair{p2}, res.Failed())
	assert.Error(t, res.Err())
	assert.Equal(t, []string{"list " + p1.String(), "list " + p2.String(), "list " + p3.String(), "update", "delete"}, flaky.calls)

	assert.True(t, agreedFor(t, m, p1)[0].Amount.Equal(amt(1500)))
	assert.Empty(t, agreedFor(t, m, p2))
	p3recs := agreedFor(t, m, p3)
	require.Len(t, p3recs, 1)
	assert.True(t, p3recs[0].Amount.Equal(amt(3000)))
}

func TestSaveAll_AllSucceed_NilErr(t *testing.T) {
	m := newMemory()
	edits := reconcile.NewPendingEdits()
	edits.Set(pairXY, amt(100))

	res := newService(m).SaveAll(context.Background(), edits)

	assert.NoError(t, res.Err())
	assert.Empty(t, res.Failed())
}

func TestSaveAll_CancelledBeforeStart_SkipsEverything(t *testing.T) {
	m := newMemory()
	edits := reconcile.NewPendingEdits()
	edits.Set(pairXY, amt(100))
	edits.Set(reconcile.Pair{StaffID: "X", EventID: "Z"}, amt(200))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newService(m).SaveAll(ctx, edits)

	assert.Empty(t, res.Results)
	assert.Len(t, res.Skipped, 2)
	assert.Empty(t, agreedFor(t, m, pairXY))
}

func TestPendingEdits_DiscardAndOrder(t *testing.T) {
	edits := reconcile.NewPendingEdits()
	a := reconcile.Pair{StaffID: "A", EventID: "1"}
	b := reconcile.Pair{StaffID: "B", EventID: "1"}
	edits.Set(a, amt(1))
	edits.Set(b, amt(2))
	edits.Discard(a)
	edits.Set(a, amt(3))

	assert.Equal(t, []reconcile.Pair{b, a}, edits.Pairs())
	v, ok := edits.Get(a)
	assert.True(t, ok)
	assert.True(t, v.Equal(amt(3)))
	assert.Equal(t, 2, edits.Len())
}
