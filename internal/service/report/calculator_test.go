package report

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(holidays ...settings.Holiday) settings.WorkHoursConfig {
	w := settings.DefaultWorkHours()
	w.Timezone = "UTC"
	return settings.NewWorkHoursConfig(w, holidays)
}

func mustDate(s string) time.Time {
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return d
}

func mkPunch(date string, kind punch.Kind, hhmm string) punch.Punch {
	ts, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, time.UTC)
	if err != nil {
		panic(err)
	}
	return punch.Punch{
		ID:           fmt.Sprintf("%s-%s-%s", date, kind, hhmm),
		UserID:       "user-1",
		Kind:         kind,
		TimestampUTC: ts,
		LocalDate:    date,
		LocalTime:    hhmm,
	}
}

// 2024-03-04 is a Monday.
const monday = "2024-03-04"

func daily(date string, today string, punches ...punch.Punch) report.DailyReport {
	return CalculateDaily(DailyInput{
		UserID:  "user-1",
		Date:    mustDate(date),
		Today:   mustDate(today),
		Punches: punches,
		Config:  testConfig(settings.Holiday{Date: "2024-03-29", Name: "Good Friday"}),
	})
}

func TestCalculateDaily_FullDayNormal(t *testing.T) {
	r := daily(monday, "2024-03-05",
		mkPunch(monday, punch.KindEntry, "08:00"),
		mkPunch(monday, punch.KindLunchOut, "12:00"),
		mkPunch(monday, punch.KindLunchIn, "13:00"),
		mkPunch(monday, punch.KindExit, "17:48"),
	)

	assert.Equal(t, 528, r.WorkedMinutes)
	assert.Equal(t, 0, r.OvertimeMinutes)
	assert.Equal(t, 60, r.LunchMinutes)
	assert.Equal(t, 528, r.ExpectedMinutes)
	assert.Equal(t, report.StatusNormal, r.Status)
	assert.True(t, r.IsWorkDay)
	assert.False(t, r.Late)
	assert.Equal(t, "08:00", *r.EntryTime)
	assert.Equal(t, "12:00", *r.LunchOutTime)
	assert.Equal(t, "13:00", *r.LunchInTime)
	assert.Equal(t, "17:48", *r.ExitTime)
	assert.True(t, r.Closed())
}

func TestCalculateDaily_Overtime(t *testing.T) {
	r := daily(monday, "2024-03-05",
		mkPunch(monday, punch.KindEntry, "08:00"),
		mkPunch(monday, punch.KindLunchOut, "12:00"),
		mkPunch(monday, punch.KindLunchIn, "13:00"),
		mkPunch(monday, punch.KindExit, "19:00"),
	)

	assert.Equal(t, 600, r.WorkedMinutes)
	assert.Equal(t, 72, r.OvertimeMinutes)
	assert.Equal(t, report.StatusOvertime, r.Status)
	assert.False(t, r.ExceedsDailyLimit)
}

func TestCalculateDaily_AbsenceOnWorkDay(t *testing.T) {
	r := daily(monday, "2024-03-05")

	assert.Equal(t, report.StatusAbsence, r.Status)
	assert.Equal(t, 0, r.WorkedMinutes)
	assert.False(t, r.Closed())
}

func TestCalculateDaily_NoAbsenceOnFutureOrDayOff(t *testing.T) {
	assert.Equal(t, report.StatusNormal, daily(monday, "2024-03-01").Status)
	assert.Equal(t, report.StatusNormal, daily("2024-03-09", "2024-03-10").Status)
	holiday := daily("2024-03-29", "2024-04-01")
	assert.Equal(t, report.StatusNormal, holiday.Status)
	assert.True(t, holiday.IsHoliday)
	assert.False(t, holiday.IsWorkDay)
	assert.Equal(t, 0, holiday.ExpectedMinutes)
}

func TestCalculateDaily_AbsenceToday(t *testing.T) {
	assert.Equal(t, report.StatusAbsence, daily(monday, monday).Status)
}

func TestCalculateDaily_ShortDay(t *testing.T) {
	r := daily(monday, "2024-03-05",
		mkPunch(monday, punch.KindEntry, "08:00"),
		mkPunch(monday, punch.KindExit, "16:03"),
	)

	assert.Equal(t, 483, r.WorkedMinutes)
	assert.Equal(t, 0, r.OvertimeMinutes)
	assert.Equal(t, report.StatusNormal, r.Status)
	assert.Nil(t, r.LunchOutTime)
}

func TestCalculateDaily_WeekendIsAllOvertime(t *testing.T) {
	sat := "2024-03-09"
	r := daily(sat, "2024-03-10",
		mkPunch(sat, punch.KindEntry, "09:00"),
		mkPunch(sat, punch.KindExit, "13:00"),
	)

	assert.False(t, r.IsWorkDay)
	assert.Equal(t, 240, r.WorkedMinutes)
	assert.Equal(t, 240, r.OvertimeMinutes)
	assert.Equal(t, 0, r.ExpectedMinutes)
	assert.Equal(t, report.StatusOvertime, r.Status)
	assert.False(t, r.Late)
}

func TestCalculateDaily_IncompleteInThePast(t *testing.T) {
	r := daily(monday, "2024-03-05",
		mkPunch(monday, punch.KindEntry, "08:00"),
		mkPunch(monday, punch.KindLunchOut, "12:00"),
	)

	assert.Equal(t, report.StatusIncomplete, r.Status)
	assert.Equal(t, 0, r.WorkedMinutes)
	assert.True(t, r.OpenSession)
	assert.False(t, r.Closed())
}

func TestCalculateDaily_OpenSessionToday(t *testing.T) {
	r := daily(monday, monday,
		mkPunch(monday, punch.KindEntry, "08:00"),
		mkPunch(monday, punch.KindExit, "12:00"),
		mkPunch(monday, punch.KindEntry, "13:00"),
	)

	assert.Equal(t, report.StatusNormal, r.Status)
	assert.True(t, r.OpenSession)
	assert.Equal(t, 240, r.WorkedMinutes)
	require.Len(t, r.Sessions, 2)
	assert.False(t, r.Sessions[1].Closed)
	assert.False(t, r.Closed())
}

func TestCalculateDaily_MultipleSessionsAreSummed(t *testing.T) {
	r := daily(monday, "2024-03-05",
		mkPunch(monday, punch.KindEntry, "08:00"),
		mkPunch(monday, punch.KindExit, "12:00"),
		mkPunch(monday, punch.KindEntry, "13:00"),
		mkPunch(monday, punch.KindLunchOut, "15:00"),
		mkPunch(monday, punch.KindLunchIn, "15:30"),
		mkPunch(monday, punch.KindExit, "18:00"),
	)

	require.Len(t, r.Sessions, 2)
	assert.Equal(t, 240, r.Sessions[0].WorkedMinutes)
	assert.Equal(t, 270, r.Sessions[1].WorkedMinutes)
	assert.Equal(t, 510, r.WorkedMinutes)
	assert.Equal(t, 30, r.LunchMinutes)
	assert.Equal(t, "08:00", *r.EntryTime)
	assert.Equal(t, "18:00", *r.ExitTime)
	assert.True(t, r.Closed())
}

func TestCalculateDaily_Lateness(t *testing.T) {
	onTime := daily(monday, "2024-03-05",
		mkPunch(monday, punch.KindEntry, "08:15"),
		mkPunch(monday, punch.KindExit, "17:00"),
	)
	assert.False(t, onTime.Late)

	late := daily(monday, "2024-03-05",
		mkPunch(monday, punch.KindEntry, "08:16"),
		mkPunch(monday, punch.KindExit, "17:00"),
	)
	assert.True(t, late.Late)
	assert.Equal(t, 16, late.LateMinutes)
}

func TestCalculateDaily_UnsortedAndDuplicatePunches(t *testing.T) {
	entry := mkPunch(monday, punch.KindEntry, "08:00")
	doubleClick := entry
	doubleClick.ID = "double"
	doubleClick.TimestampUTC = entry.TimestampUTC.Add(time.Second)

	r := daily(monday, "2024-03-05",
		mkPunch(monday, punch.KindExit, "17:48"),
		doubleClick,
		mkPunch(monday, punch.KindLunchIn, "13:00"),
		entry,
		mkPunch(monday, punch.KindLunchOut, "12:00"),
	)

	assert.Equal(t, 528, r.WorkedMinutes)
	assert.Equal(t, 1, r.RejectedPunches)
	assert.Equal(t, report.StatusNormal, r.Status)
}

func TestCalculateDaily_ExceedsDailyLimit(t *testing.T) {
	r := daily(monday, "2024-03-05",
		mkPunch(monday, punch.KindEntry, "06:00"),
		mkPunch(monday, punch.KindExit, "18:00"),
	)
	assert.Equal(t, 720, r.WorkedMinutes)
	assert.True(t, r.ExceedsDailyLimit)
}

func TestCalculateDaily_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	kinds := punch.Kinds

	for i := 0; i < 500; i++ {
		n := rng.Intn(9)
		punches := make([]punch.Punch, 0, n)
		for j := 0; j < n; j++ {
			hhmm := fmt.Sprintf("%02d:%02d", rng.Intn(24), rng.Intn(60))
			punches = append(punches, mkPunch(monday, kinds[rng.Intn(len(kinds))], hhmm))
		}

		first := daily(monday, "2024-03-05", punches...)
		second := daily(monday, "2024-03-05", punches...)

		require.GreaterOrEqual(t, first.WorkedMinutes, 0)
		require.GreaterOrEqual(t, first.OvertimeMinutes, 0)
		require.Equal(t, first, second)
		if first.IsWorkDay {
			require.Equal(t, max(0, first.WorkedMinutes-528), first.OvertimeMinutes)
		}
	}
}
