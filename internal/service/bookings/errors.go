package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронь не найдена
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAddonNotFound возвращается, когда допуслуга не прикреплена к брони
	ErrAddonNotFound = errors.New("addon not found")

	// ErrAccessDenied возвращается, когда бронь принадлежит другому клиенту
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронь нельзя отменить:
	// обслуживание уже началось или бронь завершена
	ErrCannotCancel = errors.New("booking cannot be canceled")

	// ErrCannotStart возвращается, когда обслуживание по брони нельзя начать
	ErrCannotStart = errors.New("booking cannot be started")

	// ErrCannotFinish возвращается, когда обслуживание по брони нельзя завершить
	ErrCannotFinish = errors.New("booking cannot be finished")

	// ErrBookingImmutable возвращается при попытке изменить бронь в терминальном статусе
	ErrBookingImmutable = errors.New("booking is in a terminal status")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
