// Package booking models the lifecycle of a reservation as a closed set of
// states with explicit transitions.
package booking

import (
	"errors"
	"fmt"
)

// Status is the stored form of a reservation state.
type Status string

const (
	StatusRequested Status = "solicitado"
	StatusConfirmed Status = "confirmado"
	StatusCancelled Status = "cancelado"
	StatusRefused   Status = "recusado"
)

// Actor identifies who cancelled a reservation.
type Actor string

const (
	ActorPlayer Actor = "jogador"
	ActorOwner  Actor = "locador"
	ActorSystem Actor = "sistema"
)

var (
	ErrAlreadyCancelled = errors.New("reservation is already cancelled")
	ErrNotRequested     = errors.New("reservation is not awaiting a decision")
	ErrRefused          = errors.New("reservation was refused")
	ErrUnknownActor     = errors.New("unknown cancelling actor")
)

// State is one of Requested, Confirmed, Cancelled or Refused.
type State interface {
	Status() Status
	sealed()
}

type Requested struct{}

type Confirmed struct{}

type Cancelled struct {
	By Actor
}

type Refused struct{}

func (Requested) Status() Status { return StatusRequested }
func (Confirmed) Status() Status { return StatusConfirmed }
func (Cancelled) Status() Status { return StatusCancelled }
func (Refused) Status() Status   { return StatusRefused }

func (Requested) sealed() {}
func (Confirmed) sealed() {}
func (Cancelled) sealed() {}
func (Refused) sealed()   {}

// Decode rebuilds a State from its stored columns.
func Decode(status string, cancelledBy *string) (State, error) {
	switch Status(status) {
	case StatusRequested:
		return Requested{}, nil
	case StatusConfirmed:
		return Confirmed{}, nil
	case StatusRefused:
		return Refused{}, nil
	case StatusCancelled:
		if cancelledBy == nil {
			return nil, fmt.Errorf("cancelled reservation without actor")
		}
		actor, err := ParseActor(*cancelledBy)
		if err != nil {
			return nil, err
		}
		return Cancelled{By: actor}, nil
	default:
		return nil, fmt.Errorf("unknown reservation status %q", status)
	}
}

// Encode returns the stored columns of a State.
func Encode(s State) (string, *string) {
	if c, ok := s.(Cancelled); ok {
		by := string(c.By)
		return string(StatusCancelled), &by
	}
	return string(s.Status()), nil
}

func ParseStatus(v string) (Status, error) {
	switch Status(v) {
	case StatusRequested, StatusConfirmed, StatusCancelled, StatusRefused:
		return Status(v), nil
	}
	return "", fmt.Errorf("unknown reservation status %q", v)
}

func ParseActor(v string) (Actor, error) {
	switch Actor(v) {
	case ActorPlayer, ActorOwner, ActorSystem:
		return Actor(v), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownActor, v)
}

// Active reports whether a reservation in this status holds its slot.
func (s Status) Active() bool {
	return s == StatusRequested || s == StatusConfirmed
}

// IsActive reports whether the state still holds its slot.
func IsActive(s State) bool {
	return s.Status().Active()
}

// Confirm moves a requested reservation to Confirmed.
func Confirm(s State) (State, error) {
	switch s.(type) {
	case Requested:
		return Confirmed{}, nil
	case Cancelled:
		return nil, ErrAlreadyCancelled
	default:
		return nil, ErrNotRequested
	}
}

// Refuse moves a requested reservation to Refused.
func Refuse(s State) (State, error) {
	switch s.(type) {
	case Requested:
		return Refused{}, nil
	case Cancelled:
		return nil, ErrAlreadyCancelled
	default:
		return nil, ErrNotRequested
	}
}

// Cancel moves a requested or confirmed reservation to Cancelled{by}.
func Cancel(s State, by Actor) (State, error) {
	if _, err := ParseActor(string(by)); err != nil {
		return nil, err
	}
	switch s.(type) {
	case Requested, Confirmed:
		return Cancelled{By: by}, nil
	case Cancelled:
		return nil, ErrAlreadyCancelled
	case Refused:
		return nil, ErrRefused
	}
	return nil, fmt.Errorf("unknown state %T", s)
}
