package domain

import "time"

// Service услуга каталога (базовая или допуслуга)
type Service struct {
	ID          string
	LocationID  string
	Name        string
	DurationMin int
	PriceRub    int
	IsAddon     bool
	IsActive    bool
	CreatedAt   time.Time
}

// DurationOrDefault возвращает длительность услуги с подменой
// некорректных значений на дефолт
func (s *Service) DurationOrDefault() int {
	return ServiceDurationOrDefault(s.DurationMin)
}
