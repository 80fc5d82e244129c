package attach_addon

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BayBookingService/internal/usecase/attach_addon"
)

const (
	msgMissingBookingID   = "некорректный ID брони"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingClientID    = "отсутствует ID клиента"
	msgNotFound           = "бронь не найдена"
	msgForbidden          = "доступ запрещен"
	msgImmutable          = "бронь в финальном статусе"
	msgServiceNotFound    = "допуслуга не найдена"
	msgSlotConflict       = "расширенный блок не помещается в расписание"
)

// AttachAddonRequest тело запроса на прикрепление допуслуги
type AttachAddonRequest struct {
	ServiceID string `json:"serviceId"`
	Qty       int    `json:"qty"`
}

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

// Handle POST /api/v1/bookings/{bookingId}/addons
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID := vars["bookingId"]
	if bookingID == "" {
		h.logger.Warn("POST /bookings/{id}/addons - Missing booking ID")
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}

	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/addons - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	var req AttachAddonRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/addons - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.useCase.Execute(r.Context(), &attach_addon.Request{
		BookingID: bookingID,
		ClientID:  clientID,
		ServiceID: req.ServiceID,
		Qty:       req.Qty,
	})
	if err != nil {
		switch {
		case errors.Is(err, attach_addon.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/addons - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, attach_addon.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/addons - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, attach_addon.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/addons - Access denied: booking_id=%s, client_id=%s",
				bookingID, clientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, attach_addon.ErrBookingImmutable):
			h.logger.Warn("POST /bookings/{id}/addons - Booking immutable: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgImmutable)

		case errors.Is(err, attach_addon.ErrServiceNotFound):
			h.logger.Warn("POST /bookings/{id}/addons - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, attach_addon.ErrSlotConflict):
			h.logger.Warn("POST /bookings/{id}/addons - Slot conflict: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgSlotConflict)

		default:
			h.logger.Error("POST /bookings/{id}/addons - Failed to attach addon: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/addons - Addon attached successfully: booking_id=%s, service_id=%s",
		bookingID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBooking(booking))
}
