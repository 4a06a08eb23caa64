package get_available_slots

import (
	"strconv"

	getAvailableSlots "github.com/inksync/studio-booking/internal/usecase/get_available_slots"
)

// ToUseCaseRequest формирует запрос к use case из параметров пути и query
func ToUseCaseRequest(resourceID, offeringID int64, date, granularityStr string) (*getAvailableSlots.Request, error) {
	req := &getAvailableSlots.Request{
		ResourceID: resourceID,
		OfferingID: offeringID,
		Date:       date,
	}

	if granularityStr != "" {
		granularity, err := strconv.Atoi(granularityStr)
		if err != nil {
			return nil, err
		}
		req.Granularity = granularity
	}

	return req, nil
}
