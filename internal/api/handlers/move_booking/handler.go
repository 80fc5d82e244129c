package move_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/usecase/move_booking"
)

const (
	msgMissingBookingID      = "некорректный ID брони"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgNotFound              = "бронь не найдена"
	msgImmutable             = "бронь в финальном статусе"
	msgJustificationRequired = "требуется обоснование переноса"
	msgClientNotAgreed       = "требуется подтверждение согласия клиента"
	msgBayUnavailable        = "целевой бокс недоступен"
	msgSlotConflict          = "целевой слот уже занят"
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

// Handle PATCH /api/v1/bookings/{bookingId}/move
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID := vars["bookingId"]
	if bookingID == "" {
		h.logger.Warn("PATCH /bookings/{id}/move - Missing booking ID")
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}

	var req MoveBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/move - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/move - Invalid newDateTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, move_booking.ErrJustificationRequired):
			h.logger.Warn("PATCH /bookings/{id}/move - Justification required: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgJustificationRequired)

		case errors.Is(err, move_booking.ErrClientNotAgreed):
			h.logger.Warn("PATCH /bookings/{id}/move - Client not agreed: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgClientNotAgreed)

		case errors.Is(err, move_booking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/move - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, move_booking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/move - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, move_booking.ErrBookingImmutable):
			h.logger.Warn("PATCH /bookings/{id}/move - Booking immutable: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgImmutable)

		case errors.Is(err, move_booking.ErrBayUnavailable):
			h.logger.Warn("PATCH /bookings/{id}/move - Bay unavailable: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgBayUnavailable)

		case errors.Is(err, move_booking.ErrSlotConflict):
			h.logger.Warn("PATCH /bookings/{id}/move - Slot conflict: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgSlotConflict)

		default:
			h.logger.Error("PATCH /bookings/{id}/move - Failed to move booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/move - Booking moved successfully: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBooking(booking))
}
