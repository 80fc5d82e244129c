package list_waitlist

import (
	"net/http"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/api/middleware"
)

const msgMissingClientID = "отсутствует ID клиента"

// ListWaitlistResponse тело ответа со списком заявок клиента
type ListWaitlistResponse struct {
	Requests []*handlers.WaitlistView `json:"requests"`
}

type Handler struct {
	service WaitlistService
	logger  Logger
}

func NewHandler(service WaitlistService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/waitlist
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("GET /waitlist - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	requests, err := h.service.ListByClient(r.Context(), clientID)
	if err != nil {
		h.logger.Error("GET /waitlist - Failed to list waitlist requests: client_id=%s, error=%v",
			clientID, err)
		handlers.RespondInternalError(w)
		return
	}

	views := make([]*handlers.WaitlistView, 0, len(requests))
	for _, req := range requests {
		views = append(views, handlers.FromDomainWaitlist(req))
	}

	h.logger.Info("GET /waitlist - Waitlist requests listed: client_id=%s, count=%d",
		clientID, len(views))
	handlers.RespondJSON(w, http.StatusOK, ListWaitlistResponse{Requests: views})
}
