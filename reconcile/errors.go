package reconcile

import (
	"errors"
	"fmt"

	"github.com/warp/studio-engine/studio"
)

var (
	// ErrStaleDuplicate is returned when the canonical amount was written but
	// at least one duplicate agreed record could not be removed. Retrying the
	// same edit is safe and finishes the cleanup.
	ErrStaleDuplicate = errors.New("stale duplicate agreed record remains")

	// ErrNegativeAmount is returned for agreed amounts below zero.
	ErrNegativeAmount = errors.New("agreed amount must not be negative")
)

// Stage names the store call that failed.
type Stage string

const (
	StageValidate Stage = "validate"
	StageList     Stage = "list"
	StageUpdate   Stage = "update"
	StageDelete   Stage = "delete"
	StageInsert   Stage = "insert"
)

// PairError is a reconciliation failure for one (staff, event) pair.
type PairError struct {
	Pair     Pair
	Stage    Stage
	RecordID studio.RecordID
	Err      error
}

func (e *PairError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("reconcile %s: %s %s: %v", e.Pair, e.Stage, e.RecordID, e.Err)
	}
	return fmt.Sprintf("reconcile %s: %s: %v", e.Pair, e.Stage, e.Err)
}

func (e *PairError) Unwrap() error { return e.Err }
