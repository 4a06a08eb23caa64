package get_resource_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// from и to это даты YYYY-MM-DD в часовом поясе студии, to включительно.
func ToServiceRequest(
	resourceID int64,
	userID int64,
	fromStr string,
	toStr string,
	statusStr string,
	includeCancelledStr string,
	loc *time.Location,
) (*models.GetResourceBookingsRequest, error) {
	req := &models.GetResourceBookingsRequest{
		UserID:     userID,
		ResourceID: resourceID,
	}

	if fromStr != "" {
		from, err := time.ParseInLocation(domain.DateFormat, fromStr, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid from: %w", err)
		}
		req.From = &from
	}

	if toStr != "" {
		to, err := time.ParseInLocation(domain.DateFormat, toStr, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid to: %w", err)
		}
		to = to.AddDate(0, 0, 1)
		req.To = &to
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeCancelledStr != "" {
		includeCancelled, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
