package reconcile

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PENDING EDITS - Proposed agreed amounts awaiting "save all"
// =============================================================================

// PendingEdits maps (staff, event) pairs to proposed amounts, remembering
// the order pairs were first edited in. Editing a pair again replaces the
// amount but keeps its position.
type PendingEdits struct {
	order   []Pair
	amounts map[Pair]decimal.Decimal
}

func NewPendingEdits() *PendingEdits {
	return &PendingEdits{amounts: make(map[Pair]decimal.Decimal)}
}

func (p *PendingEdits) Set(pair Pair, amount decimal.Decimal) {
	if p.amounts == nil {
		p.amounts = make(map[Pair]decimal.Decimal)
	}
	if _, ok := p.amounts[pair]; !ok {
		p.order = append(p.order, pair)
	}
	p.amounts[pair] = amount
}

// Discard drops a pending edit.
func (p *PendingEdits) Discard(pair Pair) {
	if _, ok := p.amounts[pair]; !ok {
		return
	}
	delete(p.amounts, pair)
	for i, q := range p.order {
		if q == pair {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

func (p *PendingEdits) Get(pair Pair) (decimal.Decimal, bool) {
	v, ok := p.amounts[pair]
	return v, ok
}

func (p *PendingEdits) Len() int { return len(p.order) }

// Pairs returns the edited pairs in edit order.
func (p *PendingEdits) Pairs() []Pair {
	return append([]Pair(nil), p.order...)
}

// =============================================================================
// BATCH RESULT
// =============================================================================

type PairResult struct {
	Outcome Outcome
	Err     error
}

type BatchResult struct {
	Results []PairResult
	// Skipped lists pairs never started because the context ended.
	Skipped []Pair
}

// Failed returns the pairs whose reconciliation reported an error.
func (b BatchResult) Failed() []Pair {
	var out []Pair
	for _, r := range b.Results {
		if r.Err != nil {
			out = append(out, r.Outcome.Pair)
		}
	}
	return out
}

// Err joins every per-pair error, nil when all pairs succeeded.
func (b BatchResult) Err() error {
	var errs []error
	for _, r := range b.Results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// =============================================================================
// SAVE ALL
// =============================================================================

// SaveAll reconciles every pending edit one pair at a time, in edit order.
// A failing pair is recorded and the batch moves on. Cancellation is only
// observed between pairs; a started pair always runs to completion.
func (s *Service) SaveAll(ctx context.Context, edits *PendingEdits) BatchResult {
	var result BatchResult
	if edits == nil {
		return result
	}
	pairs := edits.Pairs()
	for i, pair := range pairs {
		if ctx.Err() != nil {
			result.Skipped = append(result.Skipped, pairs[i:]...)
			break
		}
		amount, _ := edits.Get(pair)
		out, err := s.Reconcile(context.WithoutCancel(ctx), pair, amount)
		result.Results = append(result.Results, PairResult{Outcome: out, Err: err})
	}
	return result
}
