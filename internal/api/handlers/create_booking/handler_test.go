package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BayBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/pkg/ptr"
	createBookingUC "github.com/m04kA/SMC-BayBookingService/internal/usecase/create_booking"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeUseCase struct {
	resp *createBookingUC.Response
	err  error

	gotRequest *createBookingUC.Request
}

func (u *fakeUseCase) Execute(_ context.Context, req *createBookingUC.Request) (*createBookingUC.Response, error) {
	u.gotRequest = req
	return u.resp, u.err
}

func serve(t *testing.T, uc *fakeUseCase, body string, withClient bool) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewHandler(uc, nopLogger{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if withClient {
		req.Header.Set(middleware.HeaderClientID, "client-1")
	}
	rec := httptest.NewRecorder()

	middleware.Auth(http.HandlerFunc(handler.Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	dateTime := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &createBookingUC.Response{
		ResultType: createBookingUC.ResultBooking,
		Booking: &domain.Booking{
			ID:                 "booking-1",
			LocationID:         "loc-1",
			BayNumber:          2,
			CarID:              "car-1",
			ClientID:           ptr.Ptr("client-1"),
			ServiceID:          "svc-wash",
			ServiceDurationMin: 45,
			DateTime:           dateTime,
			BufferMin:          15,
			Status:             domain.StatusPendingPayment,
			PaymentDueAt:       ptr.Ptr(dateTime.Add(-time.Hour)),
		},
	}}

	body := `{"locationId":"loc-1","carId":"car-1","serviceId":"svc-wash",` +
		`"dateTime":"2025-06-01T14:00:00Z","bayNumber":2,"addons":[{"serviceId":"svc-polish","qty":2}]}`
	rec := serve(t, uc, body, true)

	assert.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, uc.gotRequest)
	assert.Equal(t, "client-1", uc.gotRequest.ClientID)
	assert.Equal(t, dateTime, uc.gotRequest.DateTime)
	require.NotNil(t, uc.gotRequest.BayNumber)
	assert.Equal(t, 2, *uc.gotRequest.BayNumber)
	require.Len(t, uc.gotRequest.Addons, 1)
	assert.Equal(t, 2, uc.gotRequest.Addons[0].Qty)

	var resp CreateBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, createBookingUC.ResultBooking, resp.ResultType)
	require.NotNil(t, resp.Booking)
	assert.Equal(t, "booking-1", resp.Booking.ID)
	assert.Equal(t, 60, resp.Booking.BlockMinutes)
	assert.Nil(t, resp.Waitlist)
}

func TestHandle_DivertedToWaitlist(t *testing.T) {
	uc := &fakeUseCase{resp: &createBookingUC.Response{
		ResultType: createBookingUC.ResultWaitlist,
		Waitlist: &domain.WaitlistRequest{
			ID:              "wl-1",
			LocationID:      "loc-1",
			DesiredDateTime: time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
			ClientID:        "client-1",
			CarID:           "car-1",
			ServiceID:       "svc-wash",
			Status:          domain.WaitlistWaiting,
			Reason:          domain.WaitlistReasonBayClosed,
		},
	}}

	body := `{"locationId":"loc-1","carId":"car-1","serviceId":"svc-wash","dateTime":"2025-06-01T14:00:00Z"}`
	rec := serve(t, uc, body, true)

	// отвод — успешный ответ, но не 201
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp CreateBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, createBookingUC.ResultWaitlist, resp.ResultType)
	require.NotNil(t, resp.Waitlist)
	assert.Equal(t, domain.WaitlistReasonBayClosed, resp.Waitlist.Reason)
	assert.Nil(t, resp.Booking)
}

func TestHandle_Unauthorized(t *testing.T) {
	rec := serve(t, &fakeUseCase{}, `{}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_BadRequest(t *testing.T) {
	t.Run("битый JSON", func(t *testing.T) {
		rec := serve(t, &fakeUseCase{}, `{not json`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("некорректный dateTime", func(t *testing.T) {
		body := `{"locationId":"loc-1","carId":"car-1","serviceId":"svc-wash","dateTime":"01.06.2025 14:00"}`
		rec := serve(t, &fakeUseCase{}, body, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandle_ErrorMapping(t *testing.T) {
	body := `{"locationId":"loc-1","carId":"car-1","serviceId":"svc-wash","dateTime":"2025-06-01T14:00:00Z"}`

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"невалидные данные", createBookingUC.ErrInvalidInput, http.StatusBadRequest},
		{"время в прошлом", createBookingUC.ErrDateInPast, http.StatusBadRequest},
		{"локация не найдена", createBookingUC.ErrLocationNotFound, http.StatusNotFound},
		{"автомобиль не найден", createBookingUC.ErrCarNotFound, http.StatusNotFound},
		{"чужой автомобиль", createBookingUC.ErrNotYourCar, http.StatusForbidden},
		{"услуга не найдена", createBookingUC.ErrServiceNotFound, http.StatusNotFound},
		{"допуслуга не найдена", createBookingUC.ErrAddonNotFound, http.StatusNotFound},
		{"слот занят", createBookingUC.ErrSlotConflict, http.StatusConflict},
		{"внутренняя ошибка", createBookingUC.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeUseCase{err: tt.err}, body, true)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
