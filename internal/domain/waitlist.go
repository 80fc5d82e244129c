package domain

import "time"

// WaitlistStatus статус записи листа ожидания
type WaitlistStatus string

const (
	WaitlistWaiting   WaitlistStatus = "WAITING"
	WaitlistConverted WaitlistStatus = "CONVERTED"
	WaitlistCanceled  WaitlistStatus = "CANCELED"
)

// WaitlistRequest желаемая (не гарантированная) запись на время/бокс.
// Не является броней и не участвует в проверках пересечений до конвертации.
// ConvertedBookingID — односторонняя ссылка на созданную при конвертации бронь;
// сама бронь о своем происхождении из листа ожидания не знает.
type WaitlistRequest struct {
	ID                 string
	LocationID         string
	DesiredDateTime    time.Time
	DesiredBayNumber   *int // nil = любой бокс
	ClientID           string
	CarID              string
	ServiceID          string
	Comment            *string
	Status             WaitlistStatus
	Reason             string
	ConvertedBookingID *string
	InvitedAt          *time.Time
	CreatedAt          time.Time
}

// IsWaiting returns true if the request is still waiting
func (w *WaitlistRequest) IsWaiting() bool {
	return w.Status == WaitlistWaiting
}
