package pay_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BayBookingService/internal/usecase/confirm_payment"
)

const (
	msgMissingBookingID   = "некорректный ID брони"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingClientID    = "отсутствует ID клиента"
	msgNotFound           = "бронь не найдена"
	msgForbidden          = "доступ запрещен"
	msgCanceled           = "бронь отменена"
	msgCompleted          = "бронь уже завершена"
	msgPaymentExpired     = "срок оплаты истек, бронь отменена"
	msgAlreadyStarted     = "обслуживание уже началось"
)

type Handler struct {
	useCase UseCase
	logger  Logger
}

func NewHandler(useCase UseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/pay
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID := vars["bookingId"]
	if bookingID == "" {
		h.logger.Warn("POST /bookings/{id}/pay - Missing booking ID")
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}

	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/pay - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	// Тело опционально: оплата без деталей подтверждается значениями по умолчанию
	var req PayBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /bookings/{id}/pay - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, clientID))
	if err != nil {
		switch {
		case errors.Is(err, confirm_payment.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/pay - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, confirm_payment.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/pay - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirm_payment.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/pay - Access denied: booking_id=%s, client_id=%s",
				bookingID, clientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirm_payment.ErrBookingCanceled):
			h.logger.Warn("POST /bookings/{id}/pay - Booking canceled: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgCanceled)

		case errors.Is(err, confirm_payment.ErrBookingCompleted):
			h.logger.Warn("POST /bookings/{id}/pay - Booking completed: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgCompleted)

		case errors.Is(err, confirm_payment.ErrPaymentExpired):
			h.logger.Warn("POST /bookings/{id}/pay - Payment expired: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgPaymentExpired)

		case errors.Is(err, confirm_payment.ErrAlreadyStarted):
			h.logger.Warn("POST /bookings/{id}/pay - Already started: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgAlreadyStarted)

		default:
			h.logger.Error("POST /bookings/{id}/pay - Failed to confirm payment: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/pay - Payment confirmed successfully: booking_id=%s, client_id=%s",
		bookingID, clientID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBooking(booking))
}
