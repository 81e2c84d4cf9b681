package report

type Status string

const (
	StatusNormal     Status = "normal"
	StatusOvertime   Status = "overtime"
	StatusAbsence    Status = "absence"
	StatusIncomplete Status = "incomplete"
)

// MaxRangeDays bounds period summaries.
const MaxRangeDays = 366

// SessionSummary is one Entry-to-Exit span of a day. Times are "HH:MM".
type SessionSummary struct {
	Entry         *string
	LunchOut      *string
	LunchIn       *string
	Exit          *string
	WorkedMinutes int
	LunchMinutes  int
	Closed        bool
}

// DailyReport is derived from a day's punches and the work-hours config. It is never stored.
type DailyReport struct {
	Date              string
	UserID            string
	EntryTime         *string
	LunchOutTime      *string
	LunchInTime       *string
	ExitTime          *string
	WorkedMinutes     int
	OvertimeMinutes   int
	LunchMinutes      int
	ExpectedMinutes   int
	Status            Status
	Sessions          []SessionSummary
	IsWorkDay         bool
	IsHoliday         bool
	Late              bool
	LateMinutes       int
	OpenSession       bool
	ExceedsDailyLimit bool
	// RejectedPunches counts stored punches the state machine refused on replay
	RejectedPunches int
}

// HasPunches reports whether at least one session was opened that day.
func (r DailyReport) HasPunches() bool {
	return len(r.Sessions) > 0
}

// Closed reports whether the day has a completed session and none still open.
func (r DailyReport) Closed() bool {
	if r.OpenSession || r.Status == StatusIncomplete {
		return false
	}
	for _, s := range r.Sessions {
		if s.Closed {
			return true
		}
	}
	return false
}

type PeriodSummary struct {
	UserID               string
	StartDate            string
	EndDate              string
	TotalWorkedMinutes   int
	TotalOvertimeMinutes int
	ExpectedMinutes      int
	BalanceMinutes       int
	AbsenceCount         int
	DelayCount           int
	DaysWorked           int
	IncompleteCount      int
	Days                 []DailyReport
}

type WeeklySummary struct {
	UserID               string
	WeekStart            string
	WeekEnd              string
	DaysWorked           int
	TotalWorkedMinutes   int
	TotalOvertimeMinutes int
	DailyAverageMinutes  int
	ExpectedMinutes      int
	ExceedsWeeklyLimit   bool
	Days                 []DailyReport
}

type MonthlyStats struct {
	UserID               string
	Year                 int
	Month                int
	TotalWorkedMinutes   int
	TotalOvertimeMinutes int
	DaysWorked           int
	WorkDaysInMonth      int
	AbsenceCount         int
	DelayCount           int
	// AttendanceRate is DaysWorked / WorkDaysInMonth in percent
	AttendanceRate         float64
	HourBankBalanceMinutes int
}
