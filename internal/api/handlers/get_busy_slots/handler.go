package get_busy_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/internal/usecase/get_busy_slots"
)

const (
	msgMissingLocationID = "некорректный ID локации"
	msgInvalidBayNumber  = "некорректный номер бокса"
	msgInvalidRange      = "некорректный диапазон from/to"
)

// IntervalView занятый интервал в ответе
type IntervalView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BusySlotsResponse тело ответа с занятыми интервалами бокса
type BusySlotsResponse struct {
	Slots []IntervalView `json:"slots"`
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

// Handle GET /api/v1/locations/{locationId}/bays/{bayNumber}/busy-slots?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID := vars["locationId"]
	if locationID == "" {
		h.logger.Warn("GET /busy-slots - Missing location ID")
		handlers.RespondBadRequest(w, msgMissingLocationID)
		return
	}

	bayNumber, err := strconv.Atoi(vars["bayNumber"])
	if err != nil {
		h.logger.Warn("GET /busy-slots - Invalid bay number: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBayNumber)
		return
	}

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Warn("GET /busy-slots - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /busy-slots - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	intervals, err := h.useCase.Execute(r.Context(), &get_busy_slots.Request{
		LocationID: locationID,
		BayNumber:  bayNumber,
		From:       from,
		To:         to,
	})
	if err != nil {
		switch {
		case errors.Is(err, get_busy_slots.ErrInvalidInput):
			h.logger.Warn("GET /busy-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /busy-slots - Failed to get busy slots: location_id=%s, bay=%d, error=%v",
				locationID, bayNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /busy-slots - Busy slots retrieved: location_id=%s, bay=%d, count=%d",
		locationID, bayNumber, len(intervals))
	handlers.RespondJSON(w, http.StatusOK, toResponse(intervals))
}

func toResponse(intervals []domain.Interval) BusySlotsResponse {
	slots := make([]IntervalView, 0, len(intervals))
	for _, iv := range intervals {
		slots = append(slots, IntervalView{
			Start: iv.Start.Format(time.RFC3339),
			End:   iv.End.Format(time.RFC3339),
		})
	}
	return BusySlotsResponse{Slots: slots}
}
