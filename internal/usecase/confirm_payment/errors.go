package confirm_payment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронь не найдена
	ErrBookingNotFound = errors.New("confirm_payment: booking not found")

	// ErrAccessDenied возвращается, когда бронь принадлежит другому клиенту
	ErrAccessDenied = errors.New("confirm_payment: access denied")

	// ErrBookingCanceled возвращается при оплате отмененной брони
	ErrBookingCanceled = errors.New("confirm_payment: booking is canceled")

	// ErrBookingCompleted возвращается при оплате завершенной брони
	ErrBookingCompleted = errors.New("confirm_payment: booking is completed")

	// ErrPaymentExpired возвращается, когда дедлайн оплаты истек;
	// бронь при этом отменяется с причиной PAYMENT_EXPIRED
	ErrPaymentExpired = errors.New("confirm_payment: payment deadline expired")

	// ErrAlreadyStarted возвращается при оплате брони, чье время уже наступило
	ErrAlreadyStarted = errors.New("confirm_payment: booking already started")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_payment: internal error")
)
