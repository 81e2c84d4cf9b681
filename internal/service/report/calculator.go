package report

import (
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/clock"
)

// DailyInput is everything CalculateDaily needs. Date and Today are calendar dates; only
// their year, month and day are used.
type DailyInput struct {
	UserID  string
	Date    time.Time
	Today   time.Time
	Punches []punch.Punch
	Config  settings.WorkHoursConfig
}

// CalculateDaily derives the daily report of one user and date. It is a pure function of
// its input.
func CalculateDaily(in DailyInput) report.DailyReport {
	date := clock.DateOf(in.Date)
	today := clock.DateOf(in.Today)
	cfg := in.Config

	timeline := punch.Replay(in.Punches)

	r := report.DailyReport{
		Date:            clock.FormatDate(date),
		UserID:          in.UserID,
		IsWorkDay:       cfg.IsWorkDay(date),
		IsHoliday:       cfg.IsHoliday(date),
		ExpectedMinutes: cfg.ExpectedMinutes(date),
		OpenSession:     timeline.OpenSession(),
		RejectedPunches: len(timeline.Rejected),
		Sessions:        make([]report.SessionSummary, 0, len(timeline.Sessions)),
	}

	for _, s := range timeline.Sessions {
		summary := summarizeSession(s)
		r.Sessions = append(r.Sessions, summary)
		r.WorkedMinutes += summary.WorkedMinutes
		r.LunchMinutes += summary.LunchMinutes

		if r.EntryTime == nil {
			r.EntryTime = summary.Entry
		}
		if r.LunchOutTime == nil {
			r.LunchOutTime = summary.LunchOut
		}
		if r.LunchInTime == nil {
			r.LunchInTime = summary.LunchIn
		}
		if summary.Exit != nil {
			r.ExitTime = summary.Exit
		}
	}

	if r.IsWorkDay {
		r.OvertimeMinutes = max(0, r.WorkedMinutes-r.ExpectedMinutes)
	} else {
		r.OvertimeMinutes = r.WorkedMinutes
	}

	if r.IsWorkDay && r.EntryTime != nil {
		r.Late, r.LateMinutes = lateness(*r.EntryTime, cfg.StartTime, cfg.ToleranceMinutes)
	}

	r.ExceedsDailyLimit = cfg.MaxDailyMinutes > 0 && r.WorkedMinutes > cfg.MaxDailyMinutes
	r.Status = classify(r, date, today)

	return r
}

func classify(r report.DailyReport, date, today time.Time) report.Status {
	switch {
	case !r.HasPunches():
		if r.IsWorkDay && !date.After(today) {
			return report.StatusAbsence
		}
		return report.StatusNormal
	case r.OpenSession && date.Before(today):
		return report.StatusIncomplete
	case r.OvertimeMinutes > 0:
		return report.StatusOvertime
	default:
		return report.StatusNormal
	}
}

// summarizeSession measures a session. Open sessions contribute no worked time.
func summarizeSession(s punch.Session) report.SessionSummary {
	summary := report.SessionSummary{
		Entry:    localTime(s.Entry),
		LunchOut: localTime(s.LunchOut),
		LunchIn:  localTime(s.LunchIn),
		Exit:     localTime(s.Exit),
		Closed:   s.Closed(),
	}

	lunchOut, hasLunchOut := minutesOf(s.LunchOut)
	lunchIn, hasLunchIn := minutesOf(s.LunchIn)
	if hasLunchOut && hasLunchIn {
		summary.LunchMinutes = max(0, lunchIn-lunchOut)
	}

	if !summary.Closed {
		return summary
	}

	entry, okEntry := minutesOf(s.Entry)
	exit, okExit := minutesOf(s.Exit)
	if !okEntry || !okExit {
		return summary
	}
	summary.WorkedMinutes = max(0, exit-entry-summary.LunchMinutes)
	return summary
}

// lateness flags an entry after start + tolerance. Late minutes count from the scheduled
// start, not from the end of the tolerance window.
func lateness(entry, start string, toleranceMinutes int) (bool, int) {
	e, err := clock.TimeToMinutes(entry)
	if err != nil {
		return false, 0
	}
	s, err := clock.TimeToMinutes(start)
	if err != nil {
		return false, 0
	}
	if e > s+toleranceMinutes {
		return true, e - s
	}
	return false, 0
}

func localTime(p *punch.Punch) *string {
	if p == nil {
		return nil
	}
	t := p.LocalTime
	return &t
}

func minutesOf(p *punch.Punch) (int, bool) {
	if p == nil {
		return 0, false
	}
	m, err := clock.TimeToMinutes(p.LocalTime)
	if err != nil {
		return 0, false
	}
	return m, true
}
