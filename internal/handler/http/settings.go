package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const maxHolidayFileSize = 1 << 20

type SettingsHandler interface {
	GetWorkHours(w http.ResponseWriter, r *http.Request)
	UpdateWorkHours(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
	AddHoliday(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)
	ImportHolidays(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{
		settingsService: settingsService,
	}
}

// GetWorkHours implements SettingsHandler.
func (h *settingsHandlerImpl) GetWorkHours(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetWorkHours(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateWorkHours implements SettingsHandler.
func (h *settingsHandlerImpl) UpdateWorkHours(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateWorkHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode work hours request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingsService.UpdateWorkHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work hours updated", result)
}

// ListHolidays implements SettingsHandler.
func (h *settingsHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.ListHolidays(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AddHoliday implements SettingsHandler.
func (h *settingsHandlerImpl) AddHoliday(w http.ResponseWriter, r *http.Request) {
	var req settings.AddHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode holiday request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingsService.AddHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday saved", result)
}

// DeleteHoliday implements SettingsHandler.
func (h *settingsHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	if err := h.settingsService.DeleteHoliday(r.Context(), date); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted", nil)
}

// ImportHolidays implements SettingsHandler. The YAML calendar is either the raw request
// body or a multipart "file" field.
func (h *settingsHandlerImpl) ImportHolidays(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxHolidayFileSize)

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxHolidayFileSize); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			if err == http.ErrMissingFile {
				response.BadRequest(w, "Holiday file is required", nil)
				return
			}
			slog.Error("Failed to get file from form", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		defer file.Close()
		body = file
	}

	count, err := h.settingsService.ImportHolidays(r.Context(), body)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holidays imported", map[string]int{"imported": count})
}
