package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/handler/http/response"
)

type HourBankHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Close(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)
}

type hourBankHandlerImpl struct {
	hourBankService hourbank.HourBankService
}

func NewHourBankHandler(hourBankService hourbank.HourBankService) HourBankHandler {
	return &hourBankHandlerImpl{
		hourBankService: hourBankService,
	}
}

// Get implements HourBankHandler.
func (h *hourBankHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := targetUserID(r, user.PermissionHourBankViewOwn, user.PermissionHourBankViewAll)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	ledger, err := h.hourBankService.GetLedger(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, ledger)
}

// Close implements HourBankHandler. Users may close their own days; closing anyone else's
// needs hourbank.close.
func (h *hourBankHandlerImpl) Close(w http.ResponseWriter, r *http.Request) {
	userID, err := targetUserID(r, user.PermissionHourBankViewOwn, user.PermissionHourBankClose)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req hourbank.CloseDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode close day request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tx, err := h.hourBankService.CloseDay(r.Context(), userID, req.Date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if tx == nil {
		response.SuccessWithMessage(w, "Day closed without a material difference", nil)
		return
	}

	response.Created(w, "Hour bank transaction recorded", hourbank.ToTransactionResponse(*tx))
}

// Preview implements HourBankHandler.
func (h *hourBankHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	userID, err := targetUserID(r, user.PermissionHourBankViewOwn, user.PermissionHourBankViewAll)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := hourbank.CloseDayRequest{Date: r.URL.Query().Get("date")}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	preview, err := h.hourBankService.PreviewDay(r.Context(), userID, req.Date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, preview)
}
