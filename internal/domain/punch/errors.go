package punch

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalPunch   = errors.New("illegal punch")
	ErrDuplicatePunch = errors.New("duplicate punch")
	ErrInvalidKind    = errors.New("invalid punch kind")
	ErrTooEarly       = errors.New("too early to register an entry")
)

// IllegalPunchError rejects a punch kind that the current state does not accept.
type IllegalPunchError struct {
	Kind      Kind
	State     State
	Reason    string
	Duplicate bool
}

func (e *IllegalPunchError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("illegal punch %s while %s", e.Kind, e.State)
	}
	return fmt.Sprintf("illegal punch %s while %s: %s", e.Kind, e.State, e.Reason)
}

func (e *IllegalPunchError) Is(target error) bool {
	if target == ErrIllegalPunch {
		return true
	}
	return e.Duplicate && target == ErrDuplicatePunch
}
