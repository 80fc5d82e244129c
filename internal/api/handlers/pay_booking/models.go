package pay_booking

import "github.com/m04kA/SMC-BayBookingService/internal/usecase/confirm_payment"

// PayBookingRequest тело запроса на подтверждение оплаты
type PayBookingRequest struct {
	AmountRub *int    `json:"amountRub,omitempty"`
	Method    *string `json:"method,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP-модель в модель use case
func (r *PayBookingRequest) ToUseCaseRequest(bookingID, clientID string) *confirm_payment.Request {
	return &confirm_payment.Request{
		BookingID: bookingID,
		ClientID:  clientID,
		AmountRub: r.AmountRub,
		Method:    r.Method,
	}
}
