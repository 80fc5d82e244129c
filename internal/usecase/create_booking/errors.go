package create_booking

import "errors"

var (
	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("create_booking: location not found")

	// ErrCarNotFound возвращается, когда автомобиль не найден
	ErrCarNotFound = errors.New("create_booking: car not found")

	// ErrNotYourCar возвращается, когда автомобиль принадлежит другому клиенту
	ErrNotYourCar = errors.New("create_booking: car belongs to another client")

	// ErrServiceNotFound возвращается, когда базовая услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrAddonNotFound возвращается, когда допуслуга не найдена в каталоге
	ErrAddonNotFound = errors.New("create_booking: addon service not found")

	// ErrDateInPast возвращается при попытке создать бронь в прошлом
	ErrDateInPast = errors.New("create_booking: cannot create booking in the past")

	// ErrSlotConflict возвращается, когда запрошенный интервал занят
	ErrSlotConflict = errors.New("create_booking: slot is already booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
