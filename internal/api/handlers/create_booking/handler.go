package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BayBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingClientID    = "отсутствует ID клиента"
	msgLocationNotFound   = "локация не найдена"
	msgCarNotFound        = "автомобиль не найден"
	msgNotYourCar         = "автомобиль привязан к другому клиенту"
	msgServiceNotFound    = "услуга не найдена"
	msgAddonNotFound      = "допуслуга не найдена"
	msgDateInPast         = "нельзя создать бронь в прошлом"
	msgSlotConflict       = "слот уже занят"
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

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	// Декодируем body
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid dateTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, create_booking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, create_booking.ErrDateInPast):
			h.logger.Warn("POST /bookings - Date in past: client_id=%s", clientID)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, create_booking.ErrLocationNotFound):
			h.logger.Warn("POST /bookings - Location not found: location_id=%s", req.LocationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, create_booking.ErrCarNotFound):
			h.logger.Warn("POST /bookings - Car not found: car_id=%s", req.CarID)
			handlers.RespondNotFound(w, msgCarNotFound)

		case errors.Is(err, create_booking.ErrNotYourCar):
			h.logger.Warn("POST /bookings - Car belongs to another client: car_id=%s, client_id=%s",
				req.CarID, clientID)
			handlers.RespondForbidden(w, msgNotYourCar)

		case errors.Is(err, create_booking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, create_booking.ErrAddonNotFound):
			h.logger.Warn("POST /bookings - Addon service not found: %v", err)
			handlers.RespondNotFound(w, msgAddonNotFound)

		case errors.Is(err, create_booking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: location_id=%s, client_id=%s",
				req.LocationID, clientID)
			handlers.RespondConflict(w, msgSlotConflict)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%s, error=%v",
				clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Отвод в лист ожидания — не ошибка, но и не созданная бронь
	if resp.ResultType == create_booking.ResultWaitlist {
		h.logger.Info("POST /bookings - Diverted to waitlist: client_id=%s, location_id=%s",
			clientID, req.LocationID)
		handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, client_id=%s",
		resp.Booking.ID, clientID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}
