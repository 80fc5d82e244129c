package convert_waitlist

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/usecase/convert_waitlist"
)

const (
	msgMissingRequestID   = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "заявка не найдена"
	msgNotWaiting         = "заявка уже обработана"
	msgServiceNotFound    = "услуга не найдена"
	msgBayUnavailable     = "целевой бокс недоступен"
	msgSlotConflict       = "целевой слот уже занят"
)

// ConvertWaitlistRequest тело запроса на конвертацию заявки (операция персонала).
// Оба поля опциональны: по умолчанию берутся желаемые значения из заявки.
type ConvertWaitlistRequest struct {
	BayNumber *int    `json:"bayNumber,omitempty"`
	DateTime  *string `json:"dateTime,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP-модель в модель use case
func (r *ConvertWaitlistRequest) ToUseCaseRequest(requestID string) (*convert_waitlist.Request, error) {
	ucReq := &convert_waitlist.Request{
		WaitlistID: requestID,
		BayNumber:  r.BayNumber,
	}
	if r.DateTime != nil {
		dateTime, err := time.Parse(time.RFC3339, *r.DateTime)
		if err != nil {
			return nil, fmt.Errorf("parse dateTime: %w", err)
		}
		ucReq.DateTime = &dateTime
	}
	return ucReq, nil
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

// Handle POST /api/v1/waitlist/{requestId}/convert
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := vars["requestId"]
	if requestID == "" {
		h.logger.Warn("POST /waitlist/{id}/convert - Missing request ID")
		handlers.RespondBadRequest(w, msgMissingRequestID)
		return
	}

	// Тело опционально: без него конвертация по желаемым параметрам заявки
	var req ConvertWaitlistRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /waitlist/{id}/convert - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(requestID)
	if err != nil {
		h.logger.Warn("POST /waitlist/{id}/convert - Invalid dateTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, convert_waitlist.ErrInvalidInput):
			h.logger.Warn("POST /waitlist/{id}/convert - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, convert_waitlist.ErrRequestNotFound):
			h.logger.Warn("POST /waitlist/{id}/convert - Request not found: request_id=%s", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, convert_waitlist.ErrNotWaiting):
			h.logger.Warn("POST /waitlist/{id}/convert - Request not waiting: request_id=%s", requestID)
			handlers.RespondConflict(w, msgNotWaiting)

		case errors.Is(err, convert_waitlist.ErrServiceNotFound):
			h.logger.Warn("POST /waitlist/{id}/convert - Service not found: request_id=%s", requestID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, convert_waitlist.ErrBayUnavailable):
			h.logger.Warn("POST /waitlist/{id}/convert - Bay unavailable: request_id=%s", requestID)
			handlers.RespondConflict(w, msgBayUnavailable)

		case errors.Is(err, convert_waitlist.ErrSlotConflict):
			h.logger.Warn("POST /waitlist/{id}/convert - Slot conflict: request_id=%s", requestID)
			handlers.RespondConflict(w, msgSlotConflict)

		default:
			h.logger.Error("POST /waitlist/{id}/convert - Failed to convert request: request_id=%s, error=%v",
				requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /waitlist/{id}/convert - Request converted successfully: request_id=%s, booking_id=%s",
		requestID, booking.ID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromDomainBooking(booking))
}
