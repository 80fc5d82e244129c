package set_bay_state

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/service/bays"
)

const (
	msgMissingLocationID  = "некорректный ID локации"
	msgInvalidBayNumber   = "некорректный номер бокса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgLocationNotFound   = "локация не найдена"
	msgBayNotFound        = "бокс не найден"
	msgReasonRequired     = "для закрытия бокса требуется причина"
)

// SetBayStateRequest тело запроса на открытие/закрытие бокса (операция персонала)
type SetBayStateRequest struct {
	IsActive bool   `json:"isActive"`
	Reason   string `json:"reason,omitempty"`
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

// Handle PUT /api/v1/locations/{locationId}/bays/{bayNumber}/state
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID := vars["locationId"]
	if locationID == "" {
		h.logger.Warn("PUT /bays/{n}/state - Missing location ID")
		handlers.RespondBadRequest(w, msgMissingLocationID)
		return
	}

	bayNumber, err := strconv.Atoi(vars["bayNumber"])
	if err != nil {
		h.logger.Warn("PUT /bays/{n}/state - Invalid bay number: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBayNumber)
		return
	}

	var req SetBayStateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bays/{n}/state - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	bay, err := h.service.SetState(r.Context(), locationID, bayNumber, req.IsActive, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, bays.ErrReasonRequired):
			h.logger.Warn("PUT /bays/{n}/state - Reason required: location_id=%s, bay=%d",
				locationID, bayNumber)
			handlers.RespondBadRequest(w, msgReasonRequired)

		case errors.Is(err, bays.ErrLocationNotFound):
			h.logger.Warn("PUT /bays/{n}/state - Location not found: location_id=%s", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, bays.ErrBayNotFound):
			h.logger.Warn("PUT /bays/{n}/state - Bay not found: location_id=%s, bay=%d",
				locationID, bayNumber)
			handlers.RespondNotFound(w, msgBayNotFound)

		default:
			h.logger.Error("PUT /bays/{n}/state - Failed to set bay state: location_id=%s, bay=%d, error=%v",
				locationID, bayNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bays/{n}/state - Bay state updated: location_id=%s, bay=%d, is_active=%t",
		locationID, bayNumber, req.IsActive)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBay(bay))
}
