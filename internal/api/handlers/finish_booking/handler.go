package finish_booking

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
	msgCannotFinish     = "обслуживание не может быть завершено"
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

// Handle POST /api/v1/bookings/{bookingId}/finish
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID := vars["bookingId"]
	if bookingID == "" {
		h.logger.Warn("POST /bookings/{id}/finish - Missing booking ID")
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}

	booking, err := h.service.Finish(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/finish - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrCannotFinish):
			h.logger.Warn("POST /bookings/{id}/finish - Cannot finish: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgCannotFinish)

		default:
			h.logger.Error("POST /bookings/{id}/finish - Failed to finish booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/finish - Booking finished successfully: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBooking(booking))
}
