package studio

import (
	"encoding/json"
	"fmt"
	"sort"
)

// =============================================================================
// STEP STATE - Exactly one of pending, completed, not applicable
// =============================================================================

type StepState int

const (
	StepPending StepState = iota
	StepCompleted
	StepNotApplicable
)

func (s StepState) String() string {
	switch s {
	case StepCompleted:
		return "completed"
	case StepNotApplicable:
		return "not_applicable"
	default:
		return "pending"
	}
}

// ParseStepState accepts the string form produced by String.
func ParseStepState(s string) (StepState, error) {
	switch s {
	case "pending", "":
		return StepPending, nil
	case "completed":
		return StepCompleted, nil
	case "not_applicable":
		return StepNotApplicable, nil
	}
	return StepPending, fmt.Errorf("invalid step state %q", s)
}

func (s StepState) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *StepState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStepState(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// =============================================================================
// MEDIA AND STEP CATALOG
// =============================================================================

type Medium string

const (
	MediumStill    Medium = "still"
	MediumReel     Medium = "reel"
	MediumVideo    Medium = "video"
	MediumPortrait Medium = "portrait"
)

// Media lists every medium in display order.
var Media = []Medium{MediumStill, MediumReel, MediumVideo, MediumPortrait}

type Step string

// Catalog is the fixed set of production steps per medium. The last step
// of each list is the medium's terminal "delivered" step.
var Catalog = map[Medium][]Step{
	MediumStill:    {"photosBackedUp", "photosCulled", "photosEdited", "albumDesigned", "deliveredToClient"},
	MediumReel:     {"reelEdited", "reelReviewed", "reelDelivered"},
	MediumVideo:    {"footageBackedUp", "videoEdited", "videoColorGraded", "videoDelivered"},
	MediumPortrait: {"portraitsSelected", "portraitsRetouched", "portraitDelivered"},
}

// TerminalStep returns the delivery step of a medium.
func TerminalStep(m Medium) Step {
	steps := Catalog[m]
	if len(steps) == 0 {
		return ""
	}
	return steps[len(steps)-1]
}

func knownStep(m Medium, step Step) bool {
	for _, s := range Catalog[m] {
		if s == step {
			return true
		}
	}
	return false
}

// =============================================================================
// CHECKLIST - States of one medium's steps
// =============================================================================

// Checklist holds the state of each catalog step of one medium. Steps that
// were never recorded are pending.
type Checklist struct {
	Medium Medium
	states map[Step]StepState
}

func NewChecklist(m Medium) Checklist {
	return Checklist{Medium: m, states: make(map[Step]StepState)}
}

// Set records the state of a step. Steps outside the catalog are rejected.
func (c *Checklist) Set(step Step, state StepState) error {
	if !knownStep(c.Medium, step) {
		return &UnknownStepError{Medium: c.Medium, Step: step}
	}
	if c.states == nil {
		c.states = make(map[Step]StepState)
	}
	c.states[step] = state
	return nil
}

// State returns the state of a step, pending if never recorded.
func (c Checklist) State(step Step) StepState {
	return c.states[step]
}

// Steps returns each catalog step with its state, in catalog order.
func (c Checklist) Steps() []StepStatus {
	steps := Catalog[c.Medium]
	out := make([]StepStatus, len(steps))
	for i, s := range steps {
		out[i] = StepStatus{Step: s, State: c.states[s]}
	}
	return out
}

// Delivered reports whether the terminal step is completed or not applicable.
func (c Checklist) Delivered() bool {
	switch c.State(TerminalStep(c.Medium)) {
	case StepCompleted, StepNotApplicable:
		return true
	}
	return false
}

type StepStatus struct {
	Step  Step
	State StepState
}

// Clone returns a checklist that shares no state with c.
func (c Checklist) Clone() Checklist {
	out := Checklist{Medium: c.Medium, states: make(map[Step]StepState, len(c.states))}
	for k, v := range c.states {
		out.states[k] = v
	}
	return out
}

// MarshalJSON writes the recorded steps as {"step": "state"}.
func (c Checklist) MarshalJSON() ([]byte, error) {
	out := make(map[Step]StepState, len(c.states))
	for k, v := range c.states {
		out[k] = v
	}
	return json.Marshal(out)
}

// =============================================================================
// WORKFLOW - One per event, four independent checklists
// =============================================================================

type Workflow struct {
	EventID  EventID
	Still    Checklist
	Reel     Checklist
	Video    Checklist
	Portrait Checklist
}

func NewWorkflow(eventID EventID) Workflow {
	return Workflow{
		EventID:  eventID,
		Still:    NewChecklist(MediumStill),
		Reel:     NewChecklist(MediumReel),
		Video:    NewChecklist(MediumVideo),
		Portrait: NewChecklist(MediumPortrait),
	}
}

// Checklist returns the checklist of medium m.
func (w *Workflow) Checklist(m Medium) *Checklist {
	var c *Checklist
	switch m {
	case MediumStill:
		c = &w.Still
	case MediumReel:
		c = &w.Reel
	case MediumVideo:
		c = &w.Video
	case MediumPortrait:
		c = &w.Portrait
	default:
		return nil
	}
	if c.Medium == "" {
		c.Medium = m
	}
	return c
}

// Set records a step state on the medium's checklist.
func (w *Workflow) Set(m Medium, step Step, state StepState) error {
	c := w.Checklist(m)
	if c == nil {
		return &UnknownStepError{Medium: m, Step: step}
	}
	return c.Set(step, state)
}

// Clone returns a deep copy. Stores hand out and keep clones so callers
// editing a workflow never write into stored state.
func (w Workflow) Clone() Workflow {
	return Workflow{
		EventID:  w.EventID,
		Still:    w.Still.Clone(),
		Reel:     w.Reel.Clone(),
		Video:    w.Video.Clone(),
		Portrait: w.Portrait.Clone(),
	}
}

// Checklists returns the four checklists in display order.
func (w Workflow) Checklists() []Checklist {
	out := make([]Checklist, 0, len(Media))
	for _, m := range Media {
		out = append(out, *w.Checklist(m))
	}
	return out
}

// WorkflowStates is the wire/storage form of a workflow:
// medium -> step -> state.
type WorkflowStates map[Medium]map[Step]StepState

// States flattens the workflow into its storage form.
func (w Workflow) States() WorkflowStates {
	out := make(WorkflowStates, len(Media))
	for _, c := range w.Checklists() {
		steps := make(map[Step]StepState, len(c.states))
		for k, v := range c.states {
			steps[k] = v
		}
		out[c.Medium] = steps
	}
	return out
}

// WorkflowFromStates rebuilds a workflow, rejecting unknown media or steps.
func WorkflowFromStates(eventID EventID, states WorkflowStates) (Workflow, error) {
	w := NewWorkflow(eventID)
	media := make([]string, 0, len(states))
	for m := range states {
		media = append(media, string(m))
	}
	sort.Strings(media)
	for _, m := range media {
		for step, state := range states[Medium(m)] {
			if err := w.Set(Medium(m), step, state); err != nil {
				return Workflow{}, err
			}
		}
	}
	return w, nil
}
