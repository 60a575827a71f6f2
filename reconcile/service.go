/*
Package reconcile keeps agreed staff amounts canonical.

PURPOSE:
  A staff member's agreed amount for an event is edited by users. The
  record store has no uniqueness rule on (staff, event, agreed), so older
  data can hold several agreed records for one pair. Every edit goes
  through Reconcile, which collapses the pair back to a single record.

STATE MACHINE (per pair, newAmount):
  1. List the pair's agreed records (canonical order)
  2. newAmount == 0 -> delete every record (none left; no-op if none)
  3. records exist  -> update the first, delete the rest
  4. no records     -> insert one dated today

PARTIAL FAILURE:
  Store calls are not atomic. If the update lands and a duplicate delete
  fails, the canonical amount is already correct and a stale duplicate
  remains. That is reported as a PairError wrapping ErrStaleDuplicate.
  Retrying the same edit lists the duplicate again and removes it.
  Nothing is rolled back.

RACES:
  There is no version check between step 1 and the writes. A concurrent
  writer can change which record is "first". Accepted: the next edit
  converges again.

SEE ALSO:
  - batch.go: SaveAll over PendingEdits, sequential
  - studio/store.go: AgreedRecords interface
*/
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/warp/studio-engine/studio"
)

// Store is the storage collaborator: exactly the four agreed-record calls.
type Store = studio.AgreedRecords

// Pair identifies one (staff, event) agreed amount.
type Pair struct {
	StaffID studio.StaffID
	EventID studio.EventID
}

func (p Pair) String() string { return fmt.Sprintf("(%s, %s)", p.StaffID, p.EventID) }

// Action describes what a reconciliation did.
type Action string

const (
	ActionNone     Action = "none"     // amount 0, nothing stored
	ActionCleared  Action = "cleared"  // amount 0, records removed
	ActionUpdated  Action = "updated"  // canonical record updated
	ActionInserted Action = "inserted" // first record for the pair
)

// Outcome is the result of one pair's reconciliation. On partial failure
// it still describes what was written.
type Outcome struct {
	Pair     Pair
	Action   Action
	RecordID studio.RecordID
	Amount   decimal.Decimal
	Removed  []studio.RecordID
}

// =============================================================================
// SERVICE
// =============================================================================

type Service struct {
	Store  Store
	Clock  studio.Clock
	Logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Store: store, Clock: studio.Today, Logger: logger}
}

func (s *Service) today() studio.Date {
	if s.Clock == nil {
		return studio.Today()
	}
	return s.Clock()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Reconcile sets the agreed amount of a pair, collapsing duplicates.
func (s *Service) Reconcile(ctx context.Context, pair Pair, amount decimal.Decimal) (Outcome, error) {
	out := Outcome{Pair: pair, Action: ActionNone, Amount: amount}

	if amount.IsNegative() {
		return out, &PairError{Pair: pair, Stage: StageValidate, Err: ErrNegativeAmount}
	}
	if !amount.IsZero() {
		if err := studio.ValidateAmount(amount); err != nil {
			return out, &PairError{Pair: pair, Stage: StageValidate, Err: err}
		}
	}

	existing, err := s.Store.ListAgreedRecords(ctx, pair.StaffID, pair.EventID)
	if err != nil {
		return out, &PairError{Pair: pair, Stage: StageList, Err: err}
	}
	studio.SortCanonical(existing)

	var rest []studio.StaffPaymentRecord
	switch {
	case amount.IsZero():
		if len(existing) > 0 {
			out.Action = ActionCleared
		}
		rest = existing

	case len(existing) > 0:
		first := existing[0]
		if err := s.Store.UpdateAmount(ctx, first.ID, amount); err != nil {
			return out, &PairError{Pair: pair, Stage: StageUpdate, RecordID: first.ID, Err: err}
		}
		out.Action = ActionUpdated
		out.RecordID = first.ID
		rest = existing[1:]

	default:
		rec, err := s.Store.InsertAgreedRecord(ctx, pair.StaffID, pair.EventID, amount, s.today())
		if err != nil {
			return out, &PairError{Pair: pair, Stage: StageInsert, Err: err}
		}
		out.Action = ActionInserted
		out.RecordID = rec.ID
	}

	if err := s.deleteAll(ctx, pair, rest, &out); err != nil {
		return out, err
	}

	s.logger().InfoContext(ctx, "agreed amount reconciled",
		slog.String("staff_id", string(pair.StaffID)),
		slog.String("event_id", string(pair.EventID)),
		slog.String("action", string(out.Action)),
		slog.String("amount", amount.String()),
		slog.Int("removed", len(out.Removed)),
	)
	return out, nil
}

// deleteAll attempts every delete even after a failure so a single bad row
// does not leave the others behind.
func (s *Service) deleteAll(ctx context.Context, pair Pair, records []studio.StaffPaymentRecord, out *Outcome) error {
	var failures []error
	var failedID studio.RecordID
	for _, r := range records {
		if err := s.Store.DeleteRecord(ctx, r.ID); err != nil {
			if failedID == "" {
				failedID = r.ID
			}
			failures = append(failures, fmt.Errorf("delete %s: %w", r.ID, err))
			continue
		}
		out.Removed = append(out.Removed, r.ID)
	}
	if len(failures) == 0 {
		return nil
	}
	cause := errors.Join(append([]error{ErrStaleDuplicate}, failures...)...)
	s.logger().ErrorContext(ctx, "agreed amount cleanup incomplete",
		slog.String("staff_id", string(pair.StaffID)),
		slog.String("event_id", string(pair.EventID)),
		slog.Int("failed", len(failures)),
		slog.Any("error", cause),
	)
	return &PairError{Pair: pair, Stage: StageDelete, RecordID: failedID, Err: cause}
}
