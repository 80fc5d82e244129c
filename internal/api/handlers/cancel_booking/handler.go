package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BayBookingService/internal/service/bookings"
)

const (
	msgMissingBookingID = "некорректный ID брони"
	msgMissingClientID  = "отсутствует ID клиента"
	msgNotFound         = "бронь не найдена"
	msgForbidden        = "доступ запрещен"
	msgCannotCancel     = "бронь не может быть отменена"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID := vars["bookingId"]
	if bookingID == "" {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing booking ID")
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}

	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	booking, err := h.service.Cancel(r.Context(), bookingID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%s, client_id=%s",
				bookingID, clientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgCannotCancel)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking canceled successfully: booking_id=%s, client_id=%s",
		bookingID, clientID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBooking(booking))
}
