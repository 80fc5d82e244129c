package confirm_payment

// Request модель запроса на подтверждение оплаты
type Request struct {
	BookingID string
	ClientID  string
	AmountRub *int
	Method    *string
}

// DefaultMethod способ оплаты, когда клиент его не указал
const DefaultMethod = "CARD"
