package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронь не найдена
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrAddonNotFound возвращается, когда допуслуга не прикреплена к брони
	ErrAddonNotFound = errors.New("booking.repository: addon not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
