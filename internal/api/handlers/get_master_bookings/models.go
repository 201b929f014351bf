package get_master_bookings

import (
	"net/url"
	"strconv"
	"time"

	"github.com/pilotnikovk/tg-bot-zapis/internal/domain"
	"github.com/pilotnikovk/tg-bot-zapis/internal/service/bookings/models"
	"github.com/pilotnikovk/tg-bot-zapis/pkg/ptr"
)

// parseQuery собирает запрос сервиса из query-параметров:
// clientId, startDate, endDate (YYYY-MM-DD), status, includeInactive
func parseQuery(query url.Values, masterID, userID int64) (*models.GetMasterBookingsRequest, error) {
	req := &models.GetMasterBookingsRequest{
		UserID:   userID,
		MasterID: masterID,
	}

	if raw := query.Get("clientId"); raw != "" {
		clientID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ClientID = ptr.Ptr(clientID)
	}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = ptr.Ptr(startDate)
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		// Конец периода включает весь указанный день
		req.EndDate = ptr.Ptr(endDate.AddDate(0, 0, 1))
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = ptr.Ptr(raw)
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
