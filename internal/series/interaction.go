package series

import (
	"errors"

	"github.com/GiangQuan/warm-calendar/internal/models"
)

// State names the phases of a drag interaction.
type State string

const (
	StateIdle           State = "idle"
	StateDragging       State = "dragging"
	StateAwaitingChoice State = "awaiting_choice"
)

var ErrBadTransition = errors.New("invalid drag transition")

// Interaction is the explicit state machine behind a single drag gesture:
//
//	Idle -> Dragging -> AwaitingChoice -> Idle   (recurring, after a choice)
//	Idle -> Dragging -> Idle                     (non-recurring, applied on drop)
//
// AwaitingChoice is the only suspend point. It has no timeout; it leaves
// only on an explicit choice or an explicit cancel, and cancel produces no
// mutation. The machine itself performs no I/O; it hands the caller an
// Outcome to persist.
type Interaction struct {
	state  State
	event  *models.Event
	target Target
}

// NewInteraction starts at Idle.
func NewInteraction() *Interaction {
	return &Interaction{state: StateIdle}
}

// State returns the current phase.
func (i *Interaction) State() State {
	return i.state
}

// Begin records the event being dragged.
func (i *Interaction) Begin(ev *models.Event) error {
	if i.state != StateIdle {
		return ErrBadTransition
	}
	i.state = StateDragging
	i.event = ev
	return nil
}

// Drop resolves the gesture at the given target. For a non-recurring event
// the returned Outcome is final and the machine returns to Idle. For a
// recurring event the machine parks in AwaitingChoice and the Outcome is
// empty.
func (i *Interaction) Drop(target Target) (Outcome, error) {
	if i.state != StateDragging {
		return Outcome{}, ErrBadTransition
	}
	i.target = target

	out, err := Resolve(i.event, target)
	if errors.Is(err, ErrChoiceRequired) {
		i.state = StateAwaitingChoice
		return Outcome{}, nil
	}
	if err != nil {
		i.reset()
		return Outcome{}, err
	}
	i.reset()
	return out, nil
}

// Choose answers the move-one/move-all question and completes the gesture.
func (i *Interaction) Choose(scope Scope) (Outcome, error) {
	if i.state != StateAwaitingChoice {
		return Outcome{}, ErrBadTransition
	}
	out, err := Apply(i.event, i.target, scope)
	if err != nil {
		// Stay suspended: an invalid answer does not abandon the gesture.
		return Outcome{}, err
	}
	i.reset()
	return out, nil
}

// Cancel abandons the gesture from any non-idle phase with no mutation.
func (i *Interaction) Cancel() {
	i.reset()
}

func (i *Interaction) reset() {
	i.state = StateIdle
	i.event = nil
	i.target = Target{}
}
