package move_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронь не найдена
	ErrBookingNotFound = errors.New("move_booking: booking not found")

	// ErrBookingImmutable возвращается при попытке перенести бронь в терминальном статусе
	ErrBookingImmutable = errors.New("move_booking: booking is in a terminal status")

	// ErrJustificationRequired возвращается при переносе без указания причины
	ErrJustificationRequired = errors.New("move_booking: justification is required")

	// ErrClientNotAgreed возвращается, когда согласие клиента не подтверждено
	ErrClientNotAgreed = errors.New("move_booking: client agreement must be confirmed")

	// ErrBayUnavailable возвращается, когда новый бокс закрыт или не существует
	ErrBayUnavailable = errors.New("move_booking: target bay is not available")

	// ErrSlotConflict возвращается, когда новый интервал занят
	ErrSlotConflict = errors.New("move_booking: target slot is already booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("move_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("move_booking: internal error")
)
