package start_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/service/bookings"
)

const (
	msgMissingBookingID = "некорректный ID брони"
	msgNotFound         = "бронь не найдена"
	msgCannotStart      = "обслуживание не может быть начато"
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

// Handle POST /api/v1/bookings/{bookingId}/start
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID := vars["bookingId"]
	if bookingID == "" {
		h.logger.Warn("POST /bookings/{id}/start - Missing booking ID")
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}

	booking, err := h.service.Start(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/start - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrCannotStart):
			h.logger.Warn("POST /bookings/{id}/start - Cannot start: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgCannotStart)

		default:
			h.logger.Error("POST /bookings/{id}/start - Failed to start booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/start - Booking started successfully: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBooking(booking))
}
