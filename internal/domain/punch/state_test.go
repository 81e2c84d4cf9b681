package punch

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC)

func at(kind Kind, hhmm string) Punch {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic(err)
	}
	ts := testDay.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
	return Punch{
		ID:           string(kind) + "-" + hhmm,
		UserID:       "user-1",
		Kind:         kind,
		TimestampUTC: ts,
		LocalDate:    "2024-03-04",
		LocalTime:    hhmm,
	}
}

func TestNext_TransitionTable(t *testing.T) {
	legal := map[State]map[Kind]State{
		StateOut:     {KindEntry: StateWorking},
		StateWorking: {KindLunchOut: StateOnBreak, KindExit: StateOut},
		StateOnBreak: {KindLunchIn: StateWorking},
	}

	for _, state := range States {
		for _, kind := range Kinds {
			next, err := Next(state, kind)
			want, ok := legal[state][kind]
			if ok {
				require.NoError(t, err, "%s + %s", state, kind)
				assert.Equal(t, want, next)
				continue
			}
			require.Error(t, err, "%s + %s", state, kind)
			assert.ErrorIs(t, err, ErrIllegalPunch)
			assert.Equal(t, state, next)

			var ipe *IllegalPunchError
			require.True(t, errors.As(err, &ipe))
			assert.Equal(t, kind, ipe.Kind)
			assert.Equal(t, state, ipe.State)
		}
	}
}

func TestValidate_LunchOutWhileOut(t *testing.T) {
	_, err := Validate(nil, KindLunchOut)

	var ipe *IllegalPunchError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, KindLunchOut, ipe.Kind)
	assert.Equal(t, StateOut, ipe.State)
	assert.False(t, errors.Is(err, ErrDuplicatePunch))
}

func TestValidate_DuplicateKinds(t *testing.T) {
	cases := []struct {
		name    string
		punches []Punch
		kind    Kind
	}{
		{"second entry", []Punch{at(KindEntry, "08:00")}, KindEntry},
		{"second lunch out", []Punch{at(KindEntry, "08:00"), at(KindLunchOut, "12:00")}, KindLunchOut},
		{"second lunch in same session", []Punch{at(KindEntry, "08:00"), at(KindLunchOut, "12:00"), at(KindLunchIn, "13:00")}, KindLunchOut},
		{"exit after exit", []Punch{at(KindEntry, "08:00"), at(KindExit, "17:00")}, KindExit},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Validate(c.punches, c.kind)
			assert.ErrorIs(t, err, ErrIllegalPunch)
			assert.ErrorIs(t, err, ErrDuplicatePunch)
		})
	}
}

func TestValidate_ReEntryOpensNewSession(t *testing.T) {
	punches := []Punch{at(KindEntry, "08:00"), at(KindExit, "12:00")}
	state, err := Validate(punches, KindEntry)
	require.NoError(t, err)
	assert.Equal(t, StateWorking, state)

	punches = append(punches, at(KindEntry, "13:00"))
	state, err = Validate(punches, KindLunchOut)
	require.NoError(t, err)
	assert.Equal(t, StateOnBreak, state)
}

func TestReplay_SortsAndBuildsSessions(t *testing.T) {
	punches := []Punch{
		at(KindExit, "17:48"),
		at(KindLunchIn, "13:00"),
		at(KindEntry, "08:00"),
		at(KindLunchOut, "12:00"),
	}
	tl := Replay(punches)

	assert.Equal(t, StateOut, tl.State)
	require.Len(t, tl.Sessions, 1)
	assert.Empty(t, tl.Rejected)
	s := tl.Sessions[0]
	assert.Equal(t, "08:00", s.Entry.LocalTime)
	assert.Equal(t, "12:00", s.LunchOut.LocalTime)
	assert.Equal(t, "13:00", s.LunchIn.LocalTime)
	assert.Equal(t, "17:48", s.Exit.LocalTime)
	assert.True(t, s.Closed())
	assert.False(t, tl.OpenSession())
	assert.Equal(t, 1, tl.ClosedSessions())

	// input is left untouched
	assert.Equal(t, KindExit, punches[0].Kind)
}

func TestReplay_RejectsNearDuplicate(t *testing.T) {
	first := at(KindEntry, "08:00")
	second := first
	second.ID = "double-click"
	second.TimestampUTC = first.TimestampUTC.Add(300 * time.Millisecond)

	tl := Replay([]Punch{first, second})
	assert.Equal(t, StateWorking, tl.State)
	require.Len(t, tl.Accepted, 1)
	assert.Equal(t, first.ID, tl.Accepted[0].ID)
	require.Len(t, tl.Rejected, 1)
	assert.Equal(t, "double-click", tl.Rejected[0].Punch.ID)
	assert.ErrorIs(t, tl.Rejected[0].Err, ErrDuplicatePunch)
}

func TestReplay_StateFollowsLastAcceptedPunch(t *testing.T) {
	sequences := [][]Punch{
		{at(KindEntry, "08:00")},
		{at(KindEntry, "08:00"), at(KindLunchOut, "12:00")},
		{at(KindEntry, "08:00"), at(KindLunchOut, "12:00"), at(KindLunchIn, "13:00")},
		{at(KindEntry, "08:00"), at(KindExit, "12:00")},
	}
	for _, seq := range sequences {
		tl := Replay(seq)
		assert.Equal(t, StateAfter(seq[len(seq)-1].Kind), tl.State)
	}
	assert.Equal(t, StateOut, Replay(nil).State)
}

func TestAllowedKinds(t *testing.T) {
	assert.Equal(t, []Kind{KindEntry}, AllowedKinds(nil))
	assert.Equal(t, []Kind{KindLunchOut, KindExit}, AllowedKinds([]Punch{at(KindEntry, "08:00")}))
	assert.Equal(t, []Kind{KindLunchIn}, AllowedKinds([]Punch{at(KindEntry, "08:00"), at(KindLunchOut, "12:00")}))
	assert.Equal(t, []Kind{KindExit}, AllowedKinds([]Punch{
		at(KindEntry, "08:00"), at(KindLunchOut, "12:00"), at(KindLunchIn, "13:00"),
	}))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Lunch_Out ")
	require.NoError(t, err)
	assert.Equal(t, KindLunchOut, k)

	_, err = ParseKind("break")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestRecordPunchRequest_Validate(t *testing.T) {
	req := RecordPunchRequest{Kind: "entry"}
	assert.NoError(t, req.Validate())

	req = RecordPunchRequest{}
	assert.Error(t, req.Validate())

	req = RecordPunchRequest{Kind: "nap"}
	assert.Error(t, req.Validate())
}
