package punch

import (
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindEntry    Kind = "entry"
	KindLunchOut Kind = "lunch_out"
	KindLunchIn  Kind = "lunch_in"
	KindExit     Kind = "exit"
)

// Kinds lists every punch kind in the order they appear within a session.
var Kinds = []Kind{KindEntry, KindLunchOut, KindLunchIn, KindExit}

func (k Kind) IsValid() bool {
	switch k {
	case KindEntry, KindLunchOut, KindLunchIn, KindExit:
		return true
	}
	return false
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

// Punch is an immutable clock event. LocalDate ("2006-01-02") is the day the punch is
// attributed to and LocalTime ("15:04") its time of day, both in the configured zone.
type Punch struct {
	ID           string
	UserID       string
	Kind         Kind
	TimestampUTC time.Time
	LocalDate    string
	LocalTime    string
	CreatedAt    time.Time
}
