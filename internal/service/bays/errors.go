package bays

import "errors"

var (
	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("location not found")

	// ErrBayNotFound возвращается, когда бокс не найден в локации
	ErrBayNotFound = errors.New("bay not found")

	// ErrReasonRequired возвращается при закрытии бокса без причины
	ErrReasonRequired = errors.New("closing a bay requires a reason")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bays: internal error")
)
