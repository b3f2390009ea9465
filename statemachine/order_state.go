package statemachine

import (
	"errors"
	"strings"

	"resto-pos/models"
)

// Discarded is the pseudo-state of a pending order that was deleted.
// It is never stored; the order row is removed instead.
const Discarded models.OrderStatus = "discarded"

// Transition defines a valid state change and who can perform it
type Transition struct {
	From   models.OrderStatus `json:"from"`
	To     models.OrderStatus `json:"to"`
	Actor  models.UserRole    `json:"actor"`
	Action string             `json:"action"`
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Send to kitchen
	{From: models.StatusPending, To: models.StatusOpen, Actor: models.RoleWaiter, Action: "activate"},
	{From: models.StatusPending, To: models.StatusOpen, Actor: models.RoleCashier, Action: "activate"},
	// Drafts may be thrown away by whoever holds them
	{From: models.StatusPending, To: Discarded, Actor: models.RoleWaiter, Action: "discard"},
	{From: models.StatusPending, To: Discarded, Actor: models.RoleCashier, Action: "discard"},
	// Checkout is the cashier's job
	{From: models.StatusOpen, To: models.StatusClosed, Actor: models.RoleCashier, Action: "close"},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ErrInvalidTransition is wrapped by every rejection from CanTransition
var ErrInvalidTransition = errors.New("invalid transition")

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// Allowed reports whether any role may move an order from one state to another
func Allowed(from, to models.OrderStatus) bool {
	for _, t := range validTransitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor models.UserRole) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	if Allowed(from, to) {
		return &TransitionError{From: from, To: to, Actor: actor, reason: "not allowed for role '" + actor.Label() + "'"}
	}
	return &TransitionError{From: from, To: to, Actor: actor, reason: "valid transitions from " + string(from) + " are: " + describeValidFrom(from)}
}

// TransitionError describes a rejected state change
type TransitionError struct {
	From, To models.OrderStatus
	Actor    models.UserRole
	reason   string
}

func (e *TransitionError) Error() string {
	return "cannot move order from " + string(e.From) + " to " + string(e.To) + ": " + e.reason
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
