package handlers

import (
	"time"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

// BookingView общее HTTP-представление брони
type BookingView struct {
	ID                 string      `json:"id"`
	LocationID         string      `json:"locationId"`
	BayNumber          int         `json:"bayNumber"`
	RequestedBayNumber *int        `json:"requestedBayNumber,omitempty"`
	CarID              string      `json:"carId"`
	ClientID           *string     `json:"clientId,omitempty"`
	ServiceID          string      `json:"serviceId"`
	DateTime           string      `json:"dateTime"`
	BufferMin          int         `json:"bufferMin"`
	BlockMinutes       int         `json:"blockMinutes"`
	Comment            *string     `json:"comment,omitempty"`
	Status             string      `json:"status"`
	PaymentDueAt       *string     `json:"paymentDueAt,omitempty"`
	StartedAt          *string     `json:"startedAt,omitempty"`
	FinishedAt         *string     `json:"finishedAt,omitempty"`
	CanceledAt         *string     `json:"canceledAt,omitempty"`
	CancelReason       *string     `json:"cancelReason,omitempty"`
	Addons             []AddonView `json:"addons,omitempty"`
	CreatedAt          string      `json:"createdAt"`
	UpdatedAt          string      `json:"updatedAt"`
}

// AddonView HTTP-представление допуслуги брони
type AddonView struct {
	ServiceID           string `json:"serviceId"`
	Qty                 int    `json:"qty"`
	PriceRubSnapshot    int    `json:"priceRubSnapshot"`
	DurationMinSnapshot int    `json:"durationMinSnapshot"`
}

// WaitlistView HTTP-представление заявки в листе ожидания
type WaitlistView struct {
	ID                 string  `json:"id"`
	LocationID         string  `json:"locationId"`
	DesiredDateTime    string  `json:"desiredDateTime"`
	DesiredBayNumber   *int    `json:"desiredBayNumber,omitempty"`
	ClientID           string  `json:"clientId"`
	CarID              string  `json:"carId"`
	ServiceID          string  `json:"serviceId"`
	Comment            *string `json:"comment,omitempty"`
	Status             string  `json:"status"`
	Reason             string  `json:"reason"`
	ConvertedBookingID *string `json:"convertedBookingId,omitempty"`
	InvitedAt          *string `json:"invitedAt,omitempty"`
	CreatedAt          string  `json:"createdAt"`
}

// BayView HTTP-представление бокса
type BayView struct {
	ID           string  `json:"id"`
	LocationID   string  `json:"locationId"`
	Number       int     `json:"number"`
	IsActive     bool    `json:"isActive"`
	ClosedReason *string `json:"closedReason,omitempty"`
	ClosedAt     *string `json:"closedAt,omitempty"`
	ReopenedAt   *string `json:"reopenedAt,omitempty"`
}

// ServiceView HTTP-представление услуги каталога
type ServiceView struct {
	ID          string `json:"id"`
	LocationID  string `json:"locationId"`
	Name        string `json:"name"`
	DurationMin int    `json:"durationMin"`
	PriceRub    int    `json:"priceRub"`
	IsAddon     bool   `json:"isAddon"`
	IsActive    bool   `json:"isActive"`
}

// CarView HTTP-представление автомобиля
type CarView struct {
	ID           string  `json:"id"`
	ClientID     *string `json:"clientId,omitempty"`
	Plate        string  `json:"plate"`
	MakeDisplay  string  `json:"makeDisplay"`
	ModelDisplay string  `json:"modelDisplay"`
	CreatedAt    string  `json:"createdAt"`
}

// FromDomainBooking конвертирует доменную бронь в HTTP-представление
func FromDomainBooking(b *domain.Booking) *BookingView {
	addons := make([]AddonView, 0, len(b.Addons))
	for _, a := range b.Addons {
		addons = append(addons, AddonView{
			ServiceID:           a.ServiceID,
			Qty:                 a.Qty,
			PriceRubSnapshot:    a.PriceRubSnapshot,
			DurationMinSnapshot: a.DurationMinSnapshot,
		})
	}

	return &BookingView{
		ID:                 b.ID,
		LocationID:         b.LocationID,
		BayNumber:          b.BayNumber,
		RequestedBayNumber: b.RequestedBayNumber,
		CarID:              b.CarID,
		ClientID:           b.ClientID,
		ServiceID:          b.ServiceID,
		DateTime:           b.DateTime.Format(time.RFC3339),
		BufferMin:          b.BufferMin,
		BlockMinutes:       b.BlockMinutes(),
		Comment:            b.Comment,
		Status:             string(b.Status),
		PaymentDueAt:       formatTimePtr(b.PaymentDueAt),
		StartedAt:          formatTimePtr(b.StartedAt),
		FinishedAt:         formatTimePtr(b.FinishedAt),
		CanceledAt:         formatTimePtr(b.CanceledAt),
		CancelReason:       b.CancelReason,
		Addons:             addons,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainBookingList конвертирует список броней
func FromDomainBookingList(bookings []*domain.Booking) []*BookingView {
	views := make([]*BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, FromDomainBooking(b))
	}
	return views
}

// FromDomainWaitlist конвертирует заявку листа ожидания в HTTP-представление
func FromDomainWaitlist(w *domain.WaitlistRequest) *WaitlistView {
	return &WaitlistView{
		ID:                 w.ID,
		LocationID:         w.LocationID,
		DesiredDateTime:    w.DesiredDateTime.Format(time.RFC3339),
		DesiredBayNumber:   w.DesiredBayNumber,
		ClientID:           w.ClientID,
		CarID:              w.CarID,
		ServiceID:          w.ServiceID,
		Comment:            w.Comment,
		Status:             string(w.Status),
		Reason:             w.Reason,
		ConvertedBookingID: w.ConvertedBookingID,
		InvitedAt:          formatTimePtr(w.InvitedAt),
		CreatedAt:          w.CreatedAt.Format(time.RFC3339),
	}
}

// FromDomainBay конвертирует бокс в HTTP-представление
func FromDomainBay(b *domain.Bay) *BayView {
	return &BayView{
		ID:           b.ID,
		LocationID:   b.LocationID,
		Number:       b.Number,
		IsActive:     b.IsActive,
		ClosedReason: b.ClosedReason,
		ClosedAt:     formatTimePtr(b.ClosedAt),
		ReopenedAt:   formatTimePtr(b.ReopenedAt),
	}
}

// FromDomainService конвертирует услугу каталога в HTTP-представление
func FromDomainService(s *domain.Service) *ServiceView {
	return &ServiceView{
		ID:          s.ID,
		LocationID:  s.LocationID,
		Name:        s.Name,
		DurationMin: s.DurationMin,
		PriceRub:    s.PriceRub,
		IsAddon:     s.IsAddon,
		IsActive:    s.IsActive,
	}
}

// FromDomainCar конвертирует автомобиль в HTTP-представление
func FromDomainCar(c *domain.Car) *CarView {
	return &CarView{
		ID:           c.ID,
		ClientID:     c.ClientID,
		Plate:        c.PlateDisplay,
		MakeDisplay:  c.MakeDisplay,
		ModelDisplay: c.ModelDisplay,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
