package get_waitlist

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

// Handle GET /api/v1/waitlist/{requestId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := vars["requestId"]
	if requestID == "" {
		h.logger.Warn("GET /waitlist/{id} - Missing request ID")
		handlers.RespondBadRequest(w, msgMissingRequestID)
		return
	}

	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("GET /waitlist/{id} - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	// Сервис сам проверит права доступа
	request, err := h.service.GetOwned(r.Context(), requestID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrRequestNotFound):
			h.logger.Warn("GET /waitlist/{id} - Request not found: request_id=%s", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, waitlist.ErrAccessDenied):
			h.logger.Warn("GET /waitlist/{id} - Access denied: request_id=%s, client_id=%s",
				requestID, clientID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /waitlist/{id} - Failed to get request: request_id=%s, error=%v",
				requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /waitlist/{id} - Request retrieved successfully: request_id=%s, client_id=%s",
		requestID, clientID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainWaitlist(request))
}
