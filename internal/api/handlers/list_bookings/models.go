package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
)

// maxLimit верхняя граница размера страницы
const maxLimit = 200

// ToServiceRequest формирует запрос к сервису из query параметров
// status, coachId, includeInactive, limit (все опциональны)
func ToServiceRequest(query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if coachID := query.Get("coachId"); coachID != "" {
		req.CoachID = &coachID
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("invalid limit value: %q", raw)
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		req.Limit = limit
	}

	return req, nil
}
