package domain

import "time"

// Scheduling constants
const (
	// SlotStepMinutes шаг сетки расписания: длительность блока всегда кратна шагу
	SlotStepMinutes = 30

	// DefaultServiceDurationMin длительность услуги, если в каталоге не задана корректная
	DefaultServiceDurationMin = 30

	// DefaultBufferMin технологический буфер после услуги
	DefaultBufferMin = 15

	// DefaultPaymentHoldMinutes срок жизни неоплаченной брони
	DefaultPaymentHoldMinutes = 10

	// ConflictWindow окно выборки соседних броней при проверке пересечений.
	// Блок брони всегда сильно меньше суток, поэтому ±24ч достаточно.
	ConflictWindow = 24 * time.Hour
)

// Business validation constants
const (
	MinBayNumber     = 1
	MaxBayNumber     = 20
	MaxBufferMin     = 120
	MaxAddonQty      = 50
	MaxCommentLength = 500
	MaxReasonLength  = 500
)

// Причины отмены брони
const (
	CancelReasonPaymentExpired      = "PAYMENT_EXPIRED"
	CancelReasonUserCanceled        = "USER_CANCELED"
	CancelReasonUserCanceledPending = "USER_CANCELED_PENDING"
)

// Причины постановки в лист ожидания
const (
	WaitlistReasonAllBaysClosed  = "ALL_BAYS_CLOSED"
	WaitlistReasonBayClosed      = "BAY_CLOSED"
	WaitlistReasonClientCanceled = "CLIENT_CANCELED"
)

// BusyStatuses статусы, при которых бронь занимает слот.
// PENDING_PAYMENT занимает слот только до истечения paymentDueAt —
// фильтрация по дедлайну выполняется поверх этого списка.
var BusyStatuses = []BookingStatus{
	StatusActive,
	StatusPendingPayment,
}
