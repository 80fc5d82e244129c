package domain

import "time"

// Car автомобиль клиента. ClientID может быть пустым, пока машина
// не привязана ни к какому клиенту (создана админом по госномеру).
type Car struct {
	ID              string
	ClientID        *string
	PlateNormalized string
	PlateDisplay    string
	MakeDisplay     string
	ModelDisplay    string
	CreatedAt       time.Time
}

// BelongsToAnother проверяет, привязана ли машина к другому клиенту
func (c *Car) BelongsToAnother(clientID string) bool {
	return c.ClientID != nil && *c.ClientID != "" && *c.ClientID != clientID
}
