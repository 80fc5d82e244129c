package cars

import "errors"

var (
	// ErrCarNotFound возвращается, когда автомобиль не найден
	ErrCarNotFound = errors.New("car not found")

	// ErrAccessDenied возвращается, когда автомобиль принадлежит другому клиенту
	ErrAccessDenied = errors.New("access denied")

	// ErrPlateTaken возвращается, когда автомобиль с таким номером уже существует
	ErrPlateTaken = errors.New("car with this plate already exists")

	// ErrCarInUse возвращается при удалении автомобиля с активной будущей бронью
	ErrCarInUse = errors.New("car has active bookings")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cars: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("cars: internal error")
)
