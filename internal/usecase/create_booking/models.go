package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

// Результат создания: бронь или отвод в лист ожидания
const (
	ResultBooking  = "BOOKING"
	ResultWaitlist = "WAITLIST"
)

// AddonInput допуслуга в запросе
type AddonInput struct {
	ServiceID string
	Qty       int
}

// Request модель запроса на создание брони
type Request struct {
	ClientID   string
	LocationID string
	CarID      string
	ServiceID  string
	DateTime   time.Time
	// BayNumber запрошенный бокс; nil = любой (назначается бокс по умолчанию)
	BayNumber *int
	BufferMin *int
	Comment   *string
	Addons    []AddonInput
}

// Response модель ответа: ровно одно из полей заполнено
type Response struct {
	ResultType string
	Booking    *domain.Booking
	Waitlist   *domain.WaitlistRequest
}
