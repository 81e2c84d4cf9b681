package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/handler/http/response"
)

type PunchHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
}

type punchHandlerImpl struct {
	punchService punch.PunchService
	now          func() time.Time
}

func NewPunchHandler(punchService punch.PunchService) PunchHandler {
	return &punchHandlerImpl{
		punchService: punchService,
		now:          time.Now,
	}
}

// Record implements PunchHandler.
func (h *punchHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrMissingUserID)
		return
	}

	var req punch.RecordPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode punch request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	kind, err := punch.ParseKind(req.Kind)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.punchService.EvaluatePunch(r.Context(), principal.UserID, kind, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded", punch.ToResponse(result))
}

// Today implements PunchHandler.
func (h *punchHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrMissingUserID)
		return
	}

	status, err := h.punchService.Status(r.Context(), principal.UserID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}
