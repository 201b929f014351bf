package create_time_block

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers"
	"github.com/pilotnikovk/tg-bot-zapis/internal/api/middleware"
	"github.com/pilotnikovk/tg-bot-zapis/internal/service/schedule"
)

const (
	msgInvalidMasterID    = "некорректный ID мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInterval    = "некорректный интервал блокировки"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgMasterNotFound     = "мастер не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/masters/{masterId}/time-blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	masterID, err := strconv.ParseInt(vars["masterId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /masters/{id}/time-blocks - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /masters/{id}/time-blocks - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateTimeBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /masters/{id}/time-blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateTimeBlock(r.Context(), req.ToServiceRequest(masterID, userID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInterval):
			h.logger.Warn("POST /masters/{id}/time-blocks - Invalid interval: master_id=%d", masterID)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, schedule.ErrMasterNotFound):
			h.logger.Warn("POST /masters/{id}/time-blocks - Master not found: master_id=%d", masterID)
			handlers.RespondNotFound(w, msgMasterNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /masters/{id}/time-blocks - Access denied: master_id=%d, user_id=%d",
				masterID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /masters/{id}/time-blocks - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /masters/{id}/time-blocks - Failed to create time block: master_id=%d, error=%v",
				masterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /masters/{id}/time-blocks - Time block created: block_id=%d, master_id=%d, user_id=%d",
		result.ID, masterID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
