package capacity

import "errors"

var (
	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("location not found")

	// ErrBayInactive возвращается, когда бокс закрыт и операция требует открытый бокс
	ErrBayInactive = errors.New("bay is not active")

	// ErrBayNotFound возвращается, когда бокс не найден в локации
	ErrBayNotFound = errors.New("bay not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("capacity: internal error")
)
