package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/validator"
)

type ReportHandler interface {
	Daily(w http.ResponseWriter, r *http.Request)
	Period(w http.ResponseWriter, r *http.Request)
	Weekly(w http.ResponseWriter, r *http.Request)
	Monthly(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// Daily implements ReportHandler.
func (h *reportHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	userID, err := targetUserID(r, user.PermissionReportViewOwn, user.PermissionReportViewAll)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := report.DailyReportRequest{Date: r.URL.Query().Get("date")}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.ComputeDailyReport(r.Context(), userID, req.Date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report.ToDailyReportResponse(result))
}

// Period implements ReportHandler.
func (h *reportHandlerImpl) Period(w http.ResponseWriter, r *http.Request) {
	userID, err := targetUserID(r, user.PermissionReportViewOwn, user.PermissionReportViewAll)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := report.PeriodReportRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.SummarizePeriod(r.Context(), userID, req.StartDate, req.EndDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report.ToPeriodSummaryResponse(result))
}

// Weekly implements ReportHandler.
func (h *reportHandlerImpl) Weekly(w http.ResponseWriter, r *http.Request) {
	userID, err := targetUserID(r, user.PermissionReportViewOwn, user.PermissionReportViewAll)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := report.DailyReportRequest{Date: r.URL.Query().Get("date")}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.WeeklySummary(r.Context(), userID, req.Date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report.ToWeeklySummaryResponse(result))
}

// Monthly implements ReportHandler.
func (h *reportHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	userID, err := targetUserID(r, user.PermissionReportViewOwn, user.PermissionReportViewAll)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req report.MonthlyReportRequest
	var errs validator.ValidationErrors

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number"})
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	req.Month = month
	req.Year = year
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.MonthlyStats(r.Context(), userID, req.Year, req.Month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report.ToMonthlyStatsResponse(result))
}
