package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

// ==== fakes ====

type fakePunchService struct {
	evaluate func(userID string, kind punch.Kind) (punch.Punch, error)
}

func (f *fakePunchService) EvaluatePunch(_ context.Context, userID string, kind punch.Kind, now time.Time) (punch.Punch, error) {
	return f.evaluate(userID, kind)
}

func (f *fakePunchService) Status(_ context.Context, userID string, now time.Time) (punch.StatusResponse, error) {
	return punch.StatusResponse{
		UserID:       userID,
		State:        punch.StateOut,
		AllowedKinds: []punch.Kind{punch.KindEntry},
		Punches:      []punch.PunchResponse{},
	}, nil
}

type fakeReportService struct {
	err     error
	lastFor string
}

func (f *fakeReportService) ComputeDailyReport(_ context.Context, userID string, date string) (report.DailyReport, error) {
	f.lastFor = userID
	if f.err != nil {
		return report.DailyReport{}, f.err
	}
	return report.DailyReport{UserID: userID, Date: date, WorkedMinutes: 540, Status: report.StatusOvertime, OvertimeMinutes: 12}, nil
}

func (f *fakeReportService) SummarizePeriod(_ context.Context, userID string, startDate string, endDate string) (report.PeriodSummary, error) {
	f.lastFor = userID
	return report.PeriodSummary{UserID: userID, StartDate: startDate, EndDate: endDate}, f.err
}

func (f *fakeReportService) WeeklySummary(_ context.Context, userID string, date string) (report.WeeklySummary, error) {
	f.lastFor = userID
	return report.WeeklySummary{UserID: userID}, f.err
}

func (f *fakeReportService) MonthlyStats(_ context.Context, userID string, year int, month int) (report.MonthlyStats, error) {
	f.lastFor = userID
	return report.MonthlyStats{UserID: userID, Year: year, Month: month}, f.err
}

type fakeHourBankService struct {
	closeResult *hourbank.Transaction
	closeErr    error
}

func (f *fakeHourBankService) GetLedger(_ context.Context, userID string) (hourbank.LedgerResponse, error) {
	return hourbank.ToLedgerResponse(hourbank.Ledger{UserID: userID}), nil
}

func (f *fakeHourBankService) PreviewDay(_ context.Context, userID string, date string) (hourbank.PreviewResponse, error) {
	return hourbank.PreviewResponse{UserID: userID, Date: date}, nil
}

func (f *fakeHourBankService) CloseDay(_ context.Context, userID string, date string) (*hourbank.Transaction, error) {
	return f.closeResult, f.closeErr
}

func (f *fakeHourBankService) CloseDayForAll(_ context.Context, date string) (hourbank.CloseSummary, error) {
	return hourbank.CloseSummary{Date: date}, nil
}

type fakeSettingsService struct {
	settings.SettingsService
	imported string
}

func (f *fakeSettingsService) GetWorkHours(context.Context) (settings.WorkHoursResponse, error) {
	return settings.ToWorkHoursResponse(settings.DefaultWorkHours()), nil
}

func (f *fakeSettingsService) UpdateWorkHours(context.Context, settings.UpdateWorkHoursRequest) (settings.WorkHoursResponse, error) {
	return settings.WorkHoursResponse{}, nil
}

func (f *fakeSettingsService) ImportHolidays(_ context.Context, r io.Reader) (int, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.imported = string(b)
	return 1, nil
}

// ==== helpers ====

type testServer struct {
	handler  http.Handler
	jwt      jwt.Service
	punches  *fakePunchService
	reports  *fakeReportService
	hourBank *fakeHourBankService
	settings *fakeSettingsService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		jwt: jwt.NewJWTService(handlerTestSecret, "1h"),
		punches: &fakePunchService{evaluate: func(userID string, kind punch.Kind) (punch.Punch, error) {
			return punch.Punch{ID: "p-1", UserID: userID, Kind: kind, LocalDate: "2025-03-10", LocalTime: "08:00"}, nil
		}},
		reports:  &fakeReportService{},
		hourBank: &fakeHourBankService{},
		settings: &fakeSettingsService{},
	}

	s.handler = NewRouter(
		RouterConfig{AppName: "hourbank-test", Version: "test", Env: "test", LogLevel: slog.LevelError},
		s.jwt,
		metrics.New(),
		NewPunchHandler(s.punches),
		NewReportHandler(s.reports),
		NewHourBankHandler(s.hourBank),
		NewSettingsHandler(s.settings),
	)
	return s
}

func (s *testServer) do(t *testing.T, method, path string, role user.Role, body io.Reader) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, _, err := s.jwt.GenerateAccessToken("user-1", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var resp response.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// ==== tests ====

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/punches/today", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)
}

func TestRouter_HeartbeatAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRouter_RecordPunch(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/punches", user.RoleEmployee, jsonBody(t, map[string]string{"kind": "entry"}))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "entry", data["kind"])
	assert.Equal(t, "user-1", data["user_id"])
}

func TestRouter_RecordPunchErrors(t *testing.T) {
	tests := []struct {
		name     string
		role     user.Role
		body     map[string]string
		evalErr  error
		wantCode int
		wantErr  string
	}{
		{
			name:     "invalid kind",
			role:     user.RoleEmployee,
			body:     map[string]string{"kind": "coffee"},
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "VALIDATION_ERROR",
		},
		{
			name:     "illegal transition",
			role:     user.RoleEmployee,
			body:     map[string]string{"kind": "exit"},
			evalErr:  &punch.IllegalPunchError{Kind: punch.KindExit, State: punch.StateOut},
			wantCode: http.StatusConflict,
			wantErr:  "ILLEGAL_PUNCH",
		},
		{
			name:     "duplicate lunch",
			role:     user.RoleEmployee,
			body:     map[string]string{"kind": "lunch_out"},
			evalErr:  &punch.IllegalPunchError{Kind: punch.KindLunchOut, State: punch.StateWorking, Duplicate: true},
			wantCode: http.StatusConflict,
			wantErr:  "DUPLICATE_PUNCH",
		},
		{
			name:     "too early",
			role:     user.RoleEmployee,
			body:     map[string]string{"kind": "entry"},
			evalErr:  punch.ErrTooEarly,
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "TOO_EARLY",
		},
		{
			name:     "missing config",
			role:     user.RoleEmployee,
			body:     map[string]string{"kind": "entry"},
			evalErr:  settings.ErrMissingConfig,
			wantCode: http.StatusServiceUnavailable,
			wantErr:  "SERVICE_UNAVAILABLE",
		},
		{
			name:     "pending role",
			role:     user.RolePending,
			body:     map[string]string{"kind": "entry"},
			wantCode: http.StatusForbidden,
			wantErr:  "FORBIDDEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.punches.evaluate = func(userID string, kind punch.Kind) (punch.Punch, error) {
				return punch.Punch{}, tt.evalErr
			}

			rec, resp := s.do(t, http.MethodPost, "/api/v1/punches", tt.role, jsonBody(t, tt.body))
			assert.Equal(t, tt.wantCode, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
		})
	}
}

func TestRouter_ReportAccess(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/reports/daily?date=2025-03-10", user.RoleEmployee, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", s.reports.lastFor)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/users/user-2/reports/daily?date=2025-03-10", user.RoleEmployee, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/users/user-2/reports/daily?date=2025-03-10", user.RoleManager, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-2", s.reports.lastFor)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "overtime", data["status"])
}

func TestRouter_ReportValidation(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/reports/daily?date=10/03/2025", user.RoleEmployee, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "date")

	rec, _ = s.do(t, http.MethodGet, "/api/v1/reports/period?start_date=2025-03-10&end_date=2025-03-01", user.RoleEmployee, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/reports/monthly?month=13&year=2025", user.RoleEmployee, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/reports/monthly?month=3&year=2025", user.RoleEmployee, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CloseDay(t *testing.T) {
	s := newTestServer(t)
	s.hourBank.closeResult = &hourbank.Transaction{ID: "tx-1", UserID: "user-1", Date: "2025-03-10", DeltaMinutes: 12, Description: "Overtime - 2025-03-10"}

	rec, resp := s.do(t, http.MethodPost, "/api/v1/hour-bank/close", user.RoleEmployee, jsonBody(t, map[string]string{"date": "2025-03-10"}))
	assert.Equal(t, http.StatusCreated, rec.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "00:12", data["delta"])

	s.hourBank.closeResult = nil
	rec, _ = s.do(t, http.MethodPost, "/api/v1/hour-bank/close", user.RoleEmployee, jsonBody(t, map[string]string{"date": "2025-03-10"}))
	assert.Equal(t, http.StatusOK, rec.Code)

	s.hourBank.closeErr = hourbank.ErrDuplicateLedgerEntry
	rec, resp = s.do(t, http.MethodPost, "/api/v1/hour-bank/close", user.RoleEmployee, jsonBody(t, map[string]string{"date": "2025-03-10"}))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_LEDGER_ENTRY", resp.Error.Code)

	s.hourBank.closeErr = hourbank.ErrDayNotClosed
	rec, _ = s.do(t, http.MethodPost, "/api/v1/hour-bank/close", user.RoleEmployee, jsonBody(t, map[string]string{"date": "2025-03-10"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	s.hourBank.closeErr = fmt.Errorf("%w: 2025-03-10", hourbank.ErrDayStillOpen)
	rec, resp = s.do(t, http.MethodPost, "/api/v1/hour-bank/close", user.RoleEmployee, jsonBody(t, map[string]string{"date": "2025-03-10"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "DAY_STILL_OPEN", resp.Error.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/users/user-2/hour-bank/close", user.RoleEmployee, jsonBody(t, map[string]string{"date": "2025-03-10"}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_Settings(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/settings/work-hours", user.RoleEmployee, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/settings/work-hours", user.RoleManager, jsonBody(t, map[string]string{}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/settings/work-hours", user.RoleOwner, jsonBody(t, map[string]string{}))
	assert.Equal(t, http.StatusOK, rec.Code)

	yamlBody := "holidays:\n  - date: \"2025-12-25\"\n    name: Christmas\n"
	rec, _ = s.do(t, http.MethodPost, "/api/v1/settings/holidays/import", user.RoleOwner, strings.NewReader(yamlBody))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, yamlBody, s.settings.imported)
}
