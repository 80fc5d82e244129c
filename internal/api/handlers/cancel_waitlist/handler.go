package cancel_waitlist

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BayBookingService/internal/service/waitlist"
)

const (
	msgMissingRequestID = "некорректный ID заявки"
	msgMissingClientID  = "отсутствует ID клиента"
	msgNotFound         = "заявка не найдена"
	msgForbidden        = "доступ запрещен"
	msgNotWaiting       = "заявка уже обработана"
)

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

// Handle PATCH /api/v1/waitlist/{requestId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := vars["requestId"]
	if requestID == "" {
		h.logger.Warn("PATCH /waitlist/{id}/cancel - Missing request ID")
		handlers.RespondBadRequest(w, msgMissingRequestID)
		return
	}

	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /waitlist/{id}/cancel - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	request, err := h.service.CancelByClient(r.Context(), requestID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrRequestNotFound):
			h.logger.Warn("PATCH /waitlist/{id}/cancel - Request not found: request_id=%s", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, waitlist.ErrAccessDenied):
			h.logger.Warn("PATCH /waitlist/{id}/cancel - Access denied: request_id=%s, client_id=%s",
				requestID, clientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, waitlist.ErrNotWaiting):
			h.logger.Warn("PATCH /waitlist/{id}/cancel - Request not waiting: request_id=%s", requestID)
			handlers.RespondConflict(w, msgNotWaiting)

		default:
			h.logger.Error("PATCH /waitlist/{id}/cancel - Failed to cancel request: request_id=%s, error=%v",
				requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /waitlist/{id}/cancel - Request canceled successfully: request_id=%s, client_id=%s",
		requestID, clientID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainWaitlist(request))
}
