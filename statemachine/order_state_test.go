package statemachine

import (
	"errors"
	"strings"
	"testing"

	"resto-pos/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		actor   models.UserRole
		wantErr bool
	}{
		{"waiter activates", models.StatusPending, models.StatusOpen, models.RoleWaiter, false},
		{"cashier activates", models.StatusPending, models.StatusOpen, models.RoleCashier, false},
		{"cashier closes open", models.StatusOpen, models.StatusClosed, models.RoleCashier, false},
		{"waiter cannot close", models.StatusOpen, models.StatusClosed, models.RoleWaiter, true},
		{"pending cannot close", models.StatusPending, models.StatusClosed, models.RoleCashier, true},
		{"open cannot be discarded", models.StatusOpen, Discarded, models.RoleCashier, true},
		{"pending discarded", models.StatusPending, Discarded, models.RoleWaiter, false},
		{"closed is terminal", models.StatusClosed, models.StatusOpen, models.RoleCashier, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to, tt.actor)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CanTransition() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("error %v does not wrap ErrInvalidTransition", err)
			}
		})
	}
}

func TestTerminalStateMessage(t *testing.T) {
	err := CanTransition(models.StatusClosed, models.StatusOpen, models.RoleCashier)
	if err == nil || !strings.Contains(err.Error(), "terminal") {
		t.Fatalf("expected terminal state message, got %v", err)
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	got := ValidTransitionsFrom(models.StatusPending)
	if len(got) != 2 || got[0] != models.StatusOpen || got[1] != Discarded {
		t.Fatalf("ValidTransitionsFrom(pending) = %v", got)
	}
	if got := ValidTransitionsFrom(models.StatusClosed); len(got) != 0 {
		t.Fatalf("closed should be terminal, got %v", got)
	}
}
