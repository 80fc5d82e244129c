package list_cars

import (
	"net/http"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/api/middleware"
)

const msgMissingClientID = "отсутствует ID клиента"

// ListCarsResponse тело ответа со списком автомобилей клиента
type ListCarsResponse struct {
	Cars []*handlers.CarView `json:"cars"`
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

// Handle GET /api/v1/cars
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("GET /cars - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	items, err := h.service.ListByClient(r.Context(), clientID)
	if err != nil {
		h.logger.Error("GET /cars - Failed to list cars: client_id=%s, error=%v", clientID, err)
		handlers.RespondInternalError(w)
		return
	}

	views := make([]*handlers.CarView, 0, len(items))
	for _, c := range items {
		views = append(views, handlers.FromDomainCar(c))
	}

	h.logger.Info("GET /cars - Cars listed successfully: client_id=%s, count=%d", clientID, len(views))
	handlers.RespondJSON(w, http.StatusOK, ListCarsResponse{Cars: views})
}
