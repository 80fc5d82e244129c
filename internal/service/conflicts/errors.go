package conflicts

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotConflict общий конфликт интервала, матчится errors.Is для обоих видов
	ErrSlotConflict = errors.New("slot conflict")

	// ErrBayConflict бокс занят другой бронью в запрошенном интервале
	ErrBayConflict = fmt.Errorf("%w: bay is busy in the requested interval", ErrSlotConflict)

	// ErrCarConflict автомобиль уже записан на пересекающийся интервал
	ErrCarConflict = fmt.Errorf("%w: car already has a booking in the requested interval", ErrSlotConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("conflicts: internal error")
)
