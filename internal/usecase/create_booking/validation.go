package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

// createGrace допуск на рассинхронизацию часов клиента при проверке "не в прошлом"
const createGrace = 30 * time.Second

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID == "" {
		return fmt.Errorf("%w: clientID is required", ErrInvalidInput)
	}
	if req.LocationID == "" {
		return fmt.Errorf("%w: locationID is required", ErrInvalidInput)
	}
	if req.CarID == "" {
		return fmt.Errorf("%w: carID is required", ErrInvalidInput)
	}
	if req.ServiceID == "" {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}
	if req.DateTime.IsZero() {
		return fmt.Errorf("%w: dateTime is required", ErrInvalidInput)
	}

	if req.BayNumber != nil {
		if *req.BayNumber < domain.MinBayNumber || *req.BayNumber > domain.MaxBayNumber {
			return fmt.Errorf("%w: bayNumber must be between %d and %d",
				ErrInvalidInput, domain.MinBayNumber, domain.MaxBayNumber)
		}
	}

	if req.BufferMin != nil {
		if *req.BufferMin < 0 || *req.BufferMin > domain.MaxBufferMin {
			return fmt.Errorf("%w: bufferMin must be between 0 and %d", ErrInvalidInput, domain.MaxBufferMin)
		}
	}

	if req.Comment != nil && len(*req.Comment) > domain.MaxCommentLength {
		return fmt.Errorf("%w: comment is too long", ErrInvalidInput)
	}

	for _, a := range req.Addons {
		if a.ServiceID == "" {
			return fmt.Errorf("%w: addon serviceID is required", ErrInvalidInput)
		}
		if a.Qty <= 0 || a.Qty > domain.MaxAddonQty {
			return fmt.Errorf("%w: addon qty must be between 1 and %d", ErrInvalidInput, domain.MaxAddonQty)
		}
	}

	return nil
}

// validateNotInPast проверяет, что бронь не создается в прошлом
func validateNotInPast(dateTime time.Time, now time.Time) error {
	if dateTime.Before(now.Add(-createGrace)) {
		return ErrDateInPast
	}
	return nil
}
