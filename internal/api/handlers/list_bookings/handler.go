package list_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BayBookingService/internal/domain"
)

const msgMissingClientID = "отсутствует ID клиента"

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

// ListBookingsResponse тело ответа со списком броней
type ListBookingsResponse struct {
	Bookings []*handlers.BookingView `json:"bookings"`
}

// Handle GET /api/v1/bookings?locationId=&includeCanceled=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	filter := domain.ListFilter{
		ClientID:        &clientID,
		IncludeCanceled: r.URL.Query().Get("includeCanceled") == "true",
	}
	if locationID := r.URL.Query().Get("locationId"); locationID != "" {
		filter.LocationID = &locationID
	}

	bookings, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /bookings - Failed to list bookings: client_id=%s, error=%v", clientID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings - Bookings listed successfully: client_id=%s, count=%d",
		clientID, len(bookings))
	handlers.RespondJSON(w, http.StatusOK, ListBookingsResponse{
		Bookings: handlers.FromDomainBookingList(bookings),
	})
}
