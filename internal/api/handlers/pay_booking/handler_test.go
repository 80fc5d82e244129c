package pay_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BayBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BayBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/pkg/ptr"
	confirmPaymentUC "github.com/m04kA/SMC-BayBookingService/internal/usecase/confirm_payment"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeUseCase struct {
	booking *domain.Booking
	err     error

	gotRequest *confirmPaymentUC.Request
}

func (u *fakeUseCase) Execute(_ context.Context, req *confirmPaymentUC.Request) (*domain.Booking, error) {
	u.gotRequest = req
	return u.booking, u.err
}

func serve(t *testing.T, uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewHandler(uc, nopLogger{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/booking-1/pay", strings.NewReader(body))
	req.Header.Set(middleware.HeaderClientID, "client-1")
	req = mux.SetURLVars(req, map[string]string{"bookingId": "booking-1"})
	rec := httptest.NewRecorder()

	middleware.Auth(http.HandlerFunc(handler.Handle)).ServeHTTP(rec, req)
	return rec
}

func activeBooking() *domain.Booking {
	return &domain.Booking{
		ID:                 "booking-1",
		LocationID:         "loc-1",
		BayNumber:          1,
		CarID:              "car-1",
		ClientID:           ptr.Ptr("client-1"),
		ServiceID:          "svc-wash",
		ServiceDurationMin: 45,
		DateTime:           time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
		BufferMin:          15,
		Status:             domain.StatusActive,
	}
}

func TestHandle_Confirmed(t *testing.T) {
	uc := &fakeUseCase{booking: activeBooking()}

	rec := serve(t, uc, `{"amountRub":1500,"method":"SBP"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, uc.gotRequest)
	assert.Equal(t, "booking-1", uc.gotRequest.BookingID)
	assert.Equal(t, "client-1", uc.gotRequest.ClientID)
	require.NotNil(t, uc.gotRequest.AmountRub)
	assert.Equal(t, 1500, *uc.gotRequest.AmountRub)

	var view handlers.BookingView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "booking-1", view.ID)
	assert.Equal(t, string(domain.StatusActive), view.Status)
}

func TestHandle_EmptyBodyAllowed(t *testing.T) {
	uc := &fakeUseCase{booking: activeBooking()}

	rec := serve(t, uc, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, uc.gotRequest)
	assert.Nil(t, uc.gotRequest.AmountRub)
	assert.Nil(t, uc.gotRequest.Method)
}

func TestHandle_Unauthorized(t *testing.T) {
	handler := NewHandler(&fakeUseCase{}, nopLogger{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/booking-1/pay", nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": "booking-1"})
	rec := httptest.NewRecorder()

	middleware.Auth(http.HandlerFunc(handler.Handle)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"бронь не найдена", confirmPaymentUC.ErrBookingNotFound, http.StatusNotFound},
		{"чужая бронь", confirmPaymentUC.ErrAccessDenied, http.StatusForbidden},
		{"бронь отменена", confirmPaymentUC.ErrBookingCanceled, http.StatusConflict},
		{"бронь завершена", confirmPaymentUC.ErrBookingCompleted, http.StatusConflict},
		{"срок оплаты истек", confirmPaymentUC.ErrPaymentExpired, http.StatusConflict},
		{"обслуживание началось", confirmPaymentUC.ErrAlreadyStarted, http.StatusConflict},
		{"невалидные данные", confirmPaymentUC.ErrInvalidInput, http.StatusBadRequest},
		{"внутренняя ошибка", confirmPaymentUC.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeUseCase{err: tt.err}, `{}`)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
