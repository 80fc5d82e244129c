package waitlist

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("waitlist request not found")

	// ErrAccessDenied возвращается, когда заявка принадлежит другому клиенту
	ErrAccessDenied = errors.New("access denied")

	// ErrNotWaiting возвращается, когда заявка уже сконвертирована
	ErrNotWaiting = errors.New("waitlist request is not waiting")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("waitlist: internal error")
)
