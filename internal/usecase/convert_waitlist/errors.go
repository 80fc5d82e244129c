package convert_waitlist

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("convert_waitlist: waitlist request not found")

	// ErrNotWaiting возвращается, когда заявка уже сконвертирована или отменена
	ErrNotWaiting = errors.New("convert_waitlist: request is not waiting")

	// ErrServiceNotFound возвращается, когда услуга заявки исчезла из каталога
	ErrServiceNotFound = errors.New("convert_waitlist: service not found")

	// ErrBayUnavailable возвращается, когда целевой бокс закрыт или не существует
	ErrBayUnavailable = errors.New("convert_waitlist: target bay is not available")

	// ErrSlotConflict возвращается, когда целевой интервал занят
	ErrSlotConflict = errors.New("convert_waitlist: target slot is already booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("convert_waitlist: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("convert_waitlist: internal error")
)
