package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/usecase/create_booking"
)

// AddonRequest допуслуга в теле запроса
type AddonRequest struct {
	ServiceID string `json:"serviceId"`
	Qty       int    `json:"qty"`
}

// CreateBookingRequest тело запроса на создание брони
type CreateBookingRequest struct {
	LocationID string         `json:"locationId"`
	CarID      string         `json:"carId"`
	ServiceID  string         `json:"serviceId"`
	DateTime   string         `json:"dateTime"`
	BayNumber  *int           `json:"bayNumber,omitempty"`
	BufferMin  *int           `json:"bufferMin,omitempty"`
	Comment    *string        `json:"comment,omitempty"`
	Addons     []AddonRequest `json:"addons,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP-модель в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID string) (*create_booking.Request, error) {
	dateTime, err := time.Parse(time.RFC3339, r.DateTime)
	if err != nil {
		return nil, fmt.Errorf("parse dateTime: %w", err)
	}

	addons := make([]create_booking.AddonInput, 0, len(r.Addons))
	for _, a := range r.Addons {
		addons = append(addons, create_booking.AddonInput{
			ServiceID: a.ServiceID,
			Qty:       a.Qty,
		})
	}

	return &create_booking.Request{
		ClientID:   clientID,
		LocationID: r.LocationID,
		CarID:      r.CarID,
		ServiceID:  r.ServiceID,
		DateTime:   dateTime,
		BayNumber:  r.BayNumber,
		BufferMin:  r.BufferMin,
		Comment:    r.Comment,
		Addons:     addons,
	}, nil
}

// CreateBookingResponse тело ответа: бронь либо отвод в лист ожидания
type CreateBookingResponse struct {
	ResultType string                 `json:"resultType"`
	Booking    *handlers.BookingView  `json:"booking,omitempty"`
	Waitlist   *handlers.WaitlistView `json:"waitlist,omitempty"`
}

// FromUseCaseResponse конвертирует результат use case в HTTP-модель
func FromUseCaseResponse(resp *create_booking.Response) *CreateBookingResponse {
	out := &CreateBookingResponse{ResultType: resp.ResultType}
	if resp.Booking != nil {
		out.Booking = handlers.FromDomainBooking(resp.Booking)
	}
	if resp.Waitlist != nil {
		out.Waitlist = handlers.FromDomainWaitlist(resp.Waitlist)
	}
	return out
}
