package list_bays

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/service/bays"
)

const (
	msgMissingLocationID = "некорректный ID локации"
	msgLocationNotFound  = "локация не найдена"
)

// ListBaysResponse тело ответа со списком боксов локации
type ListBaysResponse struct {
	Bays []*handlers.BayView `json:"bays"`
}

type Handler struct {
	service BayService
	logger  Logger
}

func NewHandler(service BayService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/bays
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID := vars["locationId"]
	if locationID == "" {
		h.logger.Warn("GET /locations/{id}/bays - Missing location ID")
		handlers.RespondBadRequest(w, msgMissingLocationID)
		return
	}

	items, err := h.service.List(r.Context(), locationID)
	if err != nil {
		switch {
		case errors.Is(err, bays.ErrLocationNotFound):
			h.logger.Warn("GET /locations/{id}/bays - Location not found: location_id=%s", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		default:
			h.logger.Error("GET /locations/{id}/bays - Failed to list bays: location_id=%s, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	views := make([]*handlers.BayView, 0, len(items))
	for _, b := range items {
		views = append(views, handlers.FromDomainBay(b))
	}

	h.logger.Info("GET /locations/{id}/bays - Bays listed successfully: location_id=%s, count=%d",
		locationID, len(views))
	handlers.RespondJSON(w, http.StatusOK, ListBaysResponse{Bays: views})
}
