package attach_addon

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронь не найдена
	ErrBookingNotFound = errors.New("attach_addon: booking not found")

	// ErrAccessDenied возвращается, когда бронь принадлежит другому клиенту
	ErrAccessDenied = errors.New("attach_addon: access denied")

	// ErrBookingImmutable возвращается при попытке изменить бронь в терминальном статусе
	ErrBookingImmutable = errors.New("attach_addon: booking is in a terminal status")

	// ErrServiceNotFound возвращается, когда допуслуга не найдена в каталоге
	ErrServiceNotFound = errors.New("attach_addon: addon service not found")

	// ErrSlotConflict возвращается, когда удлиненный блок пересекается с соседней бронью
	ErrSlotConflict = errors.New("attach_addon: extended block conflicts with another booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("attach_addon: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("attach_addon: internal error")
)
