package delete_car

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BayBookingService/internal/service/cars"
)

const (
	msgMissingCarID    = "некорректный ID автомобиля"
	msgMissingClientID = "отсутствует ID клиента"
	msgNotFound        = "автомобиль не найден"
	msgForbidden       = "доступ запрещен"
	msgCarInUse        = "по автомобилю есть активные брони"
)

type Handler struct {
	service CarService
	logger  Logger
}

func NewHandler(service CarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/cars/{carId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	carID := vars["carId"]
	if carID == "" {
		h.logger.Warn("DELETE /cars/{id} - Missing car ID")
		handlers.RespondBadRequest(w, msgMissingCarID)
		return
	}

	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /cars/{id} - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	if err := h.service.Remove(r.Context(), carID, clientID); err != nil {
		switch {
		case errors.Is(err, cars.ErrCarNotFound):
			h.logger.Warn("DELETE /cars/{id} - Car not found: car_id=%s", carID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cars.ErrAccessDenied):
			h.logger.Warn("DELETE /cars/{id} - Access denied: car_id=%s, client_id=%s", carID, clientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cars.ErrCarInUse):
			h.logger.Warn("DELETE /cars/{id} - Car has active bookings: car_id=%s", carID)
			handlers.RespondConflict(w, msgCarInUse)

		default:
			h.logger.Error("DELETE /cars/{id} - Failed to delete car: car_id=%s, error=%v", carID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /cars/{id} - Car deleted successfully: car_id=%s, client_id=%s", carID, clientID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
