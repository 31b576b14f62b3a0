package order

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid state transition")

var transitions = map[State][]State{
	StatePending:           {StateDebited, StateFailed},
	StateDebited:           {StateSKULoop, StateCompensating},
	StateSKULoop:           {StateRecipientVerified, StateCompensating},
	StateRecipientVerified: {StateCommitted, StateCompensating},
	StateCompensating:      {StateFailed},
}

func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func Terminal(s State) bool {
	return len(transitions[s]) == 0
}

func (r *ItemResult) advance(to State) error {
	if !CanTransition(r.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.State, to)
	}
	r.State = to
	return nil
}
