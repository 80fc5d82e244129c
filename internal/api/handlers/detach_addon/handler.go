package detach_addon

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
	msgMissingServiceID = "некорректный ID услуги"
	msgMissingClientID  = "отсутствует ID клиента"
	msgBookingNotFound  = "бронь не найдена"
	msgAddonNotFound    = "допуслуга не прикреплена к брони"
	msgForbidden        = "доступ запрещен"
	msgImmutable        = "бронь в финальном статусе"
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

// Handle DELETE /api/v1/bookings/{bookingId}/addons/{serviceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID := vars["bookingId"]
	serviceID := vars["serviceId"]
	if bookingID == "" {
		h.logger.Warn("DELETE /bookings/{id}/addons/{serviceId} - Missing booking ID")
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}
	if serviceID == "" {
		h.logger.Warn("DELETE /bookings/{id}/addons/{serviceId} - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /bookings/{id}/addons/{serviceId} - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	booking, err := h.service.DetachAddon(r.Context(), bookingID, serviceID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("DELETE /bookings/{id}/addons/{serviceId} - Booking not found: booking_id=%s",
				bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrAddonNotFound):
			h.logger.Warn("DELETE /bookings/{id}/addons/{serviceId} - Addon not found: booking_id=%s, service_id=%s",
				bookingID, serviceID)
			handlers.RespondNotFound(w, msgAddonNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("DELETE /bookings/{id}/addons/{serviceId} - Access denied: booking_id=%s, client_id=%s",
				bookingID, clientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrBookingImmutable):
			h.logger.Warn("DELETE /bookings/{id}/addons/{serviceId} - Booking immutable: booking_id=%s",
				bookingID)
			handlers.RespondConflict(w, msgImmutable)

		default:
			h.logger.Error("DELETE /bookings/{id}/addons/{serviceId} - Failed to detach addon: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /bookings/{id}/addons/{serviceId} - Addon detached successfully: booking_id=%s, service_id=%s",
		bookingID, serviceID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBooking(booking))
}
