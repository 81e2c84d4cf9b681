package punch

import (
	"sort"
)

type State string

const (
	StateOut     State = "out"
	StateWorking State = "working"
	StateOnBreak State = "on_break"
)

var States = []State{StateOut, StateWorking, StateOnBreak}

var transitions = map[State]map[Kind]State{
	StateOut:     {KindEntry: StateWorking},
	StateWorking: {KindLunchOut: StateOnBreak, KindExit: StateOut},
	StateOnBreak: {KindLunchIn: StateWorking},
}

// Next applies one punch to state.
func Next(state State, kind Kind) (State, error) {
	if next, ok := transitions[state][kind]; ok {
		return next, nil
	}
	return state, &IllegalPunchError{Kind: kind, State: state}
}

// StateAfter is the state a day is in when kind is its most recent punch.
func StateAfter(kind Kind) State {
	switch kind {
	case KindEntry, KindLunchIn:
		return StateWorking
	case KindLunchOut:
		return StateOnBreak
	default:
		return StateOut
	}
}

// Session is one Entry-to-Exit span. Fields stay nil until the matching punch is applied.
type Session struct {
	Entry    *Punch
	LunchOut *Punch
	LunchIn  *Punch
	Exit     *Punch
}

func (s Session) Closed() bool {
	return s.Exit != nil
}

func (s Session) has(kind Kind) bool {
	switch kind {
	case KindEntry:
		return s.Entry != nil
	case KindLunchOut:
		return s.LunchOut != nil
	case KindLunchIn:
		return s.LunchIn != nil
	case KindExit:
		return s.Exit != nil
	}
	return false
}

func (s *Session) set(p *Punch) {
	switch p.Kind {
	case KindEntry:
		s.Entry = p
	case KindLunchOut:
		s.LunchOut = p
	case KindLunchIn:
		s.LunchIn = p
	case KindExit:
		s.Exit = p
	}
}

type Rejection struct {
	Punch Punch
	Err   error
}

// Timeline is a day's punch log folded into sessions.
type Timeline struct {
	Sessions []Session
	Accepted []Punch
	Rejected []Rejection
	State    State
}

// Last returns the most recent session, open or closed.
func (t Timeline) Last() (Session, bool) {
	if len(t.Sessions) == 0 {
		return Session{}, false
	}
	return t.Sessions[len(t.Sessions)-1], true
}

// OpenSession reports whether the last session has no Exit yet.
func (t Timeline) OpenSession() bool {
	last, ok := t.Last()
	return ok && !last.Closed()
}

func (t Timeline) ClosedSessions() int {
	n := 0
	for _, s := range t.Sessions {
		if s.Closed() {
			n++
		}
	}
	return n
}

// Check reports whether kind may be punched next.
func (t Timeline) Check(kind Kind) (State, error) {
	last, hasLast := t.Last()

	next, err := Next(t.State, kind)
	if err != nil {
		ipe := err.(*IllegalPunchError)
		switch {
		case hasLast && last.has(kind):
			ipe.Duplicate = true
			if t.State == StateOut {
				ipe.Reason = "session already closed, register an entry first"
			} else {
				ipe.Reason = "already registered in the current session"
			}
		case t.State == StateOut:
			ipe.Reason = "no open session"
		case t.State == StateOnBreak:
			ipe.Reason = "lunch break in progress"
		}
		return t.State, ipe
	}

	if kind == KindLunchOut && hasLast && last.LunchOut != nil {
		return t.State, &IllegalPunchError{
			Kind:      kind,
			State:     t.State,
			Reason:    "lunch break already taken in the current session",
			Duplicate: true,
		}
	}
	return next, nil
}

func (t *Timeline) apply(p Punch, next State) {
	t.Accepted = append(t.Accepted, p)
	if p.Kind == KindEntry {
		t.Sessions = append(t.Sessions, Session{})
	}
	stored := p
	t.Sessions[len(t.Sessions)-1].set(&stored)
	t.State = next
}

// SortPunches returns a copy of punches in non-decreasing timestamp order.
func SortPunches(punches []Punch) []Punch {
	sorted := make([]Punch, len(punches))
	copy(sorted, punches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimestampUTC.Before(sorted[j].TimestampUTC)
	})
	return sorted
}

// Replay sorts punches and applies them in order. Punches the state machine refuses are
// collected in Rejected and do not affect the state.
func Replay(punches []Punch) Timeline {
	sorted := SortPunches(punches)
	t := Timeline{
		State:    StateOut,
		Accepted: make([]Punch, 0, len(sorted)),
	}
	for _, p := range sorted {
		next, err := t.Check(p.Kind)
		if err != nil {
			t.Rejected = append(t.Rejected, Rejection{Punch: p, Err: err})
			continue
		}
		t.apply(p, next)
	}
	return t
}

// Validate reports whether kind may follow the given punches and the state it leads to.
func Validate(punches []Punch, kind Kind) (State, error) {
	return Replay(punches).Check(kind)
}

// AllowedKinds lists the punch kinds currently accepted after punches.
func AllowedKinds(punches []Punch) []Kind {
	t := Replay(punches)
	allowed := make([]Kind, 0, 2)
	for _, k := range Kinds {
		if _, err := t.Check(k); err == nil {
			allowed = append(allowed, k)
		}
	}
	return allowed
}
