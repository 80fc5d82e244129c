package move_booking

import "time"

// Request модель запроса на перенос брони (операция персонала)
type Request struct {
	BookingID   string
	NewDateTime time.Time
	// NewBayNumber nil = бокс не меняется
	NewBayNumber *int
	// Justification причина переноса, введенная сотрудником
	Justification string
	// ClientAgreed подтверждение, что клиент предупрежден о переносе
	ClientAgreed bool
}
