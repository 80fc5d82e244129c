package domain

import "time"

// Location физическая точка обслуживания с фиксированным числом боксов
type Location struct {
	ID        string
	Name      string
	Address   string
	BaysCount int
	CreatedAt time.Time
}

// Bay бокс обслуживания. Закрытие бокса не трогает уже размещенные в нём
// брони — только новые размещения.
type Bay struct {
	ID           string
	LocationID   string
	Number       int
	IsActive     bool
	ClosedReason *string
	ClosedAt     *time.Time
	ReopenedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BayRef ссылка на бокс для уведомлений об изменениях
type BayRef struct {
	LocationID string
	BayNumber  int
}
