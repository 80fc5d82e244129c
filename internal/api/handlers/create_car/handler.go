package create_car

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BayBookingService/internal/service/cars"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingClientID    = "отсутствует ID клиента"
	msgPlateTaken         = "автомобиль с таким госномером уже существует"
)

// CreateCarRequest тело запроса на добавление автомобиля
type CreateCarRequest struct {
	Plate string `json:"plate"`
	Make  string `json:"make"`
	Model string `json:"model"`
}

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

// Handle POST /api/v1/cars
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("POST /cars - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	var req CreateCarRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /cars - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	car, err := h.service.Create(r.Context(), cars.CreateRequest{
		ClientID:     clientID,
		PlateDisplay: req.Plate,
		MakeDisplay:  req.Make,
		ModelDisplay: req.Model,
	})
	if err != nil {
		switch {
		case errors.Is(err, cars.ErrInvalidInput):
			h.logger.Warn("POST /cars - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, cars.ErrPlateTaken):
			h.logger.Warn("POST /cars - Plate taken: plate=%s, client_id=%s", req.Plate, clientID)
			handlers.RespondConflict(w, msgPlateTaken)

		default:
			h.logger.Error("POST /cars - Failed to create car: client_id=%s, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /cars - Car created successfully: car_id=%s, client_id=%s", car.ID, clientID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromDomainCar(car))
}
