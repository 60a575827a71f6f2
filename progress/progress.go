/*
Package progress derives booking lifecycle status and production progress.

PURPOSE:
  A booking's status is never stored. It is computed from the dates of its
  events and the production workflows attached to them, so it cannot
  disagree with the checklists the editors tick off.

STATUS BUCKETS (exclusive, no gaps):
  Delivered        at least one event, and every event has a fully
                   delivered workflow
  Shoot Scheduled  otherwise, no event dated today or earlier
  In Progress      otherwise, some events happened and some are upcoming
  Post-Production  otherwise, every event happened but delivery is incomplete

  An event dated today counts as happened. Dates compare as calendar
  strings.

FULLY DELIVERED:
  One predicate, IsWorkflowFullyDelivered, used everywhere: every medium's
  terminal step is completed or marked not applicable. A medium the couple
  did not buy is marked not applicable and does not hold delivery back.

PROGRESS:
  Across all workflows of the booking: completed steps / applicable steps,
  rounded half up to a whole percent. Not-applicable steps are excluded from
  both sides. No workflows, or no applicable steps, is 0%.

SEE ALSO:
  - studio/workflow.go: Step catalog and checklist states
*/
package progress

import (
	"github.com/warp/studio-engine/studio"
)

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusShootScheduled Status = "Shoot Scheduled"
	StatusInProgress     Status = "In Progress"
	StatusPostProduction Status = "Post-Production"
	StatusDelivered      Status = "Delivered"
)

// Rank orders statuses along the lifecycle.
func (s Status) Rank() int {
	switch s {
	case StatusShootScheduled:
		return 0
	case StatusInProgress:
		return 1
	case StatusPostProduction:
		return 2
	case StatusDelivered:
		return 3
	}
	return -1
}

// IsWorkflowFullyDelivered reports whether every medium has delivered.
func IsWorkflowFullyDelivered(w studio.Workflow) bool {
	for _, c := range w.Checklists() {
		if !c.Delivered() {
			return false
		}
	}
	return true
}

// HasUnfinishedWorkflow reports whether any event still waits on delivery.
// An event without a workflow is unfinished.
func HasUnfinishedWorkflow(events []studio.Event, workflows []studio.Workflow) bool {
	byEvent := indexWorkflows(workflows)
	for _, e := range events {
		w, ok := byEvent[e.ID]
		if !ok || !IsWorkflowFullyDelivered(w) {
			return true
		}
	}
	return false
}

// BookingStatus derives the lifecycle stage of a booking from its events
// and their workflows. Workflows of other events are ignored.
func BookingStatus(events []studio.Event, workflows []studio.Workflow, today studio.Date) Status {
	if len(events) > 0 && !HasUnfinishedWorkflow(events, workflows) {
		return StatusDelivered
	}

	var happened, upcoming int
	for _, e := range events {
		if !e.Date.IsZero() && e.Date.OnOrBefore(today) {
			happened++
		} else {
			upcoming++
		}
	}

	switch {
	case happened == 0:
		return StatusShootScheduled
	case upcoming > 0:
		return StatusInProgress
	default:
		return StatusPostProduction
	}
}

func indexWorkflows(workflows []studio.Workflow) map[studio.EventID]studio.Workflow {
	out := make(map[studio.EventID]studio.Workflow, len(workflows))
	for _, w := range workflows {
		out[w.EventID] = w
	}
	return out
}

// =============================================================================
// PERCENT
// =============================================================================

// Counts tallies step states.
type Counts struct {
	Completed     int
	Pending       int
	NotApplicable int
}

// Applicable is the progress denominator.
func (c Counts) Applicable() int { return c.Completed + c.Pending }

func (c *Counts) add(state studio.StepState) {
	switch state {
	case studio.StepCompleted:
		c.Completed++
	case studio.StepNotApplicable:
		c.NotApplicable++
	default:
		c.Pending++
	}
}

// Percent returns completion in whole percent, 0 to 100.
func Percent(workflows []studio.Workflow) int {
	var c Counts
	for _, w := range workflows {
		for _, cl := range w.Checklists() {
			for _, s := range cl.Steps() {
				c.add(s.State)
			}
		}
	}
	return percentOf(c)
}

func percentOf(c Counts) int {
	total := c.Applicable()
	if total == 0 {
		return 0
	}
	// round half up: (200c + t) / 2t
	return (200*c.Completed + total) / (2 * total)
}

// =============================================================================
// TIER
// =============================================================================

type Tier string

const (
	TierNeutral   Tier = "neutral"   // 0%
	TierStarted   Tier = "started"   // 1-29%
	TierHalfway   Tier = "halfway"   // 30-59%
	TierFinishing Tier = "finishing" // 60-99%
	TierComplete  Tier = "complete"  // 100%
)

// TierFor buckets a percentage. Lower bounds are inclusive.
func TierFor(percent int) Tier {
	switch {
	case percent >= 100:
		return TierComplete
	case percent >= 60:
		return TierFinishing
	case percent >= 30:
		return TierHalfway
	case percent >= 1:
		return TierStarted
	default:
		return TierNeutral
	}
}
