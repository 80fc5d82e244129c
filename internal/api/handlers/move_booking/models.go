package move_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/usecase/move_booking"
)

// MoveBookingRequest тело запроса на перенос брони (операция персонала)
type MoveBookingRequest struct {
	NewDateTime   string `json:"newDateTime"`
	NewBayNumber  *int   `json:"newBayNumber,omitempty"`
	Justification string `json:"justification"`
	ClientAgreed  bool   `json:"clientAgreed"`
}

// ToUseCaseRequest конвертирует HTTP-модель в модель use case
func (r *MoveBookingRequest) ToUseCaseRequest(bookingID string) (*move_booking.Request, error) {
	newDateTime, err := time.Parse(time.RFC3339, r.NewDateTime)
	if err != nil {
		return nil, fmt.Errorf("parse newDateTime: %w", err)
	}

	return &move_booking.Request{
		BookingID:     bookingID,
		NewDateTime:   newDateTime,
		NewBayNumber:  r.NewBayNumber,
		Justification: r.Justification,
		ClientAgreed:  r.ClientAgreed,
	}, nil
}
