package list_services

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
)

const msgMissingLocationID = "некорректный ID локации"

// ListServicesResponse тело ответа со списком активных услуг локации
type ListServicesResponse struct {
	Services []*handlers.ServiceView `json:"services"`
}

type Handler struct {
	catalog CatalogRepository
	logger  Logger
}

func NewHandler(catalog CatalogRepository, logger Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID := vars["locationId"]
	if locationID == "" {
		h.logger.Warn("GET /locations/{id}/services - Missing location ID")
		handlers.RespondBadRequest(w, msgMissingLocationID)
		return
	}

	items, err := h.catalog.ListServices(r.Context(), locationID)
	if err != nil {
		h.logger.Error("GET /locations/{id}/services - Failed to list services: location_id=%s, error=%v",
			locationID, err)
		handlers.RespondInternalError(w)
		return
	}

	views := make([]*handlers.ServiceView, 0, len(items))
	for _, s := range items {
		views = append(views, handlers.FromDomainService(s))
	}

	h.logger.Info("GET /locations/{id}/services - Services listed successfully: location_id=%s, count=%d",
		locationID, len(views))
	handlers.RespondJSON(w, http.StatusOK, ListServicesResponse{Services: views})
}
