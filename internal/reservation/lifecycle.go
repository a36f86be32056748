package reservation

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Action is a status change request.
type Action uint8

const (
	ActionMarkPaid Action = iota + 1
	ActionComplete
	ActionCancel
)

var transitionMap = map[Action][]Status{
	ActionMarkPaid: {StatusPending},
	ActionComplete: {StatusPaid},
	ActionCancel:   {StatusPending, StatusPaid},
}

var actionTargets = map[Action]Status{
	ActionMarkPaid: StatusPaid,
	ActionComplete: StatusCompleted,
	ActionCancel:   StatusCanceled,
}

func (a Action) String() string {
	switch a {
	case ActionMarkPaid:
		return "mark_paid"
	case ActionComplete:
		return "complete"
	case ActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Target is the status an action moves a booking into.
func (a Action) Target() Status {
	return actionTargets[a]
}

// ActionFor returns the administrative action that reaches target. Only paid and
// canceled are reachable by an administrator.
func ActionFor(target Status) (Action, bool) {
	switch target {
	case StatusPaid:
		return ActionMarkPaid, true
	case StatusCanceled:
		return ActionCancel, true
	default:
		return 0, false
	}
}

func ValidTransition(a Action, from Status) bool {
	for _, s := range transitionMap[a] {
		if s == from {
			return true
		}
	}
	return false
}

// Apply returns the status after a, or ErrInvalidTransition.
func Apply(a Action, from Status) (Status, error) {
	if !ValidTransition(a, from) {
		return from, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, a, from)
	}
	return a.Target(), nil
}

// DueForCompletion reports whether a paid booking's appointment instant, read in the
// calendar's timezone, is strictly before now.
func DueForCompletion(cal *Calendar, status Status, date time.Time, slot string) bool {
	if status != StatusPaid {
		return false
	}
	at, err := cal.SlotInstant(date, slot)
	if err != nil {
		return false
	}
	return at.Before(cal.Now())
}
