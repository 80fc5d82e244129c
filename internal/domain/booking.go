package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	StatusActive         BookingStatus = "ACTIVE"
	StatusCompleted      BookingStatus = "COMPLETED"
	StatusCanceled       BookingStatus = "CANCELED"
)

// Booking бронирование бокса на интервал времени.
// BayNumber хранится как обычное число, а не внешний ключ на строку боксов:
// номер в брони должен переживать пересоздание боксов (валидация против
// таблицы боксов выполняется отдельно при записи).
type Booking struct {
	ID                 string
	LocationID         string
	BayNumber          int
	RequestedBayNumber *int // что изначально просил клиент; nil = любой бокс
	CarID              string
	ClientID           *string
	ServiceID          string
	DateTime           time.Time
	BufferMin          int
	Comment            *string
	Status             BookingStatus

	PaymentDueAt *time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
	CanceledAt   *time.Time
	CancelReason *string

	// ServiceDurationMin длительность базовой услуги из каталога (join при чтении)
	ServiceDurationMin int
	// AddonMinutes суммарная длительность допуслуг: SUM(qty * duration_min_snapshot)
	AddonMinutes int

	Addons []BookingAddon

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingAddon допуслуга, прикрепленная к брони.
// Цена и длительность снапшотятся в момент прикрепления, чтобы последующие
// изменения каталога не меняли экономику и длину блока существующей брони.
type BookingAddon struct {
	BookingID           string
	ServiceID           string
	Qty                 int
	PriceRubSnapshot    int
	DurationMinSnapshot int
	CreatedAt           time.Time
}

// Payment платеж по броне
type Payment struct {
	ID        string
	BookingID string
	AmountRub int
	Method    string
	PaidAt    time.Time
}

// BlockMinutes вычисляет длительность блока, который занимает бронь
func (b *Booking) BlockMinutes() int {
	base := ServiceDurationOrDefault(b.ServiceDurationMin)
	return BlockMinutes(base, b.AddonMinutes, b.BufferMin)
}

// IntervalEnd возвращает конец занятого интервала
func (b *Booking) IntervalEnd() time.Time {
	return End(b.DateTime, b.BlockMinutes())
}

// Interval возвращает занятый интервал [DateTime, DateTime+block)
func (b *Booking) Interval() Interval {
	return Interval{Start: b.DateTime, End: b.IntervalEnd()}
}

// IsTerminal returns true if the booking is in a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCanceled || b.Status == StatusCompleted
}

// IsCanceled returns true if the booking has been cancelled
func (b *Booking) IsCanceled() bool {
	return b.Status == StatusCanceled
}

// IsCompleted returns true if the booking is completed
func (b *Booking) IsCompleted() bool {
	return b.Status == StatusCompleted
}

// OccupiesSlot проверяет, занимает ли бронь свой слот в момент now:
// ACTIVE — всегда, PENDING_PAYMENT — только до истечения дедлайна оплаты
func (b *Booking) OccupiesSlot(now time.Time) bool {
	switch b.Status {
	case StatusActive:
		return true
	case StatusPendingPayment:
		return b.PaymentDueAt != nil && b.PaymentDueAt.After(now)
	default:
		return false
	}
}

// NearbyFilter фильтр выборки броней вокруг кандидатского интервала
// для проверки пересечений и расчета занятых слотов
type NearbyFilter struct {
	LocationID       *string
	BayNumber        *int
	CarID            *string
	WindowStart      time.Time
	WindowEnd        time.Time
	Statuses         []BookingStatus
	ExcludeBookingID *string
}

// ListFilter фильтр списка броней
type ListFilter struct {
	ClientID        *string
	LocationID      *string
	IncludeCanceled bool
}
