package list_time_blocks

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers"
	"github.com/pilotnikovk/tg-bot-zapis/internal/api/middleware"
	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
	"github.com/pilotnikovk/tg-bot-zapis/internal/service/schedule"
	"github.com/pilotnikovk/tg-bot-zapis/internal/service/schedule/models"
)

const (
	msgInvalidMasterID = "некорректный ID мастера"
	msgInvalidPeriod   = "некорректный период, ожидается from и to в формате YYYY-MM-DD"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgMasterNotFound  = "мастер не найден"
	msgForbidden       = "доступ запрещен"
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

// Handle GET /api/v1/masters/{masterId}/time-blocks?from={YYYY-MM-DD}&to={YYYY-MM-DD}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	masterID, err := strconv.ParseInt(vars["masterId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /masters/{id}/time-blocks - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /masters/{id}/time-blocks - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	from, err := time.Parse(domain.DateFormat, query.Get("from"))
	if err != nil {
		h.logger.Warn("GET /masters/{id}/time-blocks - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	to, err := time.Parse(domain.DateFormat, query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /masters/{id}/time-blocks - Invalid to date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.ListTimeBlocks(r.Context(), &models.ListTimeBlocksRequest{
		UserID:   userID,
		MasterID: masterID,
		From:     from,
		// Конец периода включает весь указанный день
		To: to.AddDate(0, 0, 1),
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrMasterNotFound):
			h.logger.Warn("GET /masters/{id}/time-blocks - Master not found: master_id=%d", masterID)
			handlers.RespondNotFound(w, msgMasterNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("GET /masters/{id}/time-blocks - Access denied: master_id=%d, user_id=%d",
				masterID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /masters/{id}/time-blocks - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /masters/{id}/time-blocks - Failed to list time blocks: master_id=%d, error=%v",
				masterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /masters/{id}/time-blocks - %d time blocks returned: master_id=%d, user_id=%d",
		len(result.TimeBlocks), masterID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
