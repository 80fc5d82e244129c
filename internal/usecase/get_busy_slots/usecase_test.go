package get_busy_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	"github.com/m04kA/SMC-BayBookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error

	filter domain.NearbyFilter
}

func (r *fakeBookingRepo) ListNearby(_ context.Context, filter domain.NearbyFilter) ([]*domain.Booking, error) {
	r.filter = filter
	return r.bookings, r.err
}

type nopHousekeeper struct{}

func (nopHousekeeper) Run(_ context.Context) error { return nil }

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newUseCase(repo *fakeBookingRepo) *UseCase {
	uc := NewUseCase(repo, nopHousekeeper{}, nopLogger{})
	uc.timeProvider = fakeClock{now: testNow}
	return uc
}

// бронь на 60 минут: услуга 45 + буфер 15
func bookingAt(start time.Time, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:                 "booking-" + start.Format("150405"),
		LocationID:         "loc-1",
		BayNumber:          1,
		Status:             status,
		DateTime:           start,
		ServiceDurationMin: 45,
		BufferMin:          15,
	}
}

func request(from, to time.Time) *Request {
	return &Request{LocationID: "loc-1", BayNumber: 1, From: from, To: to}
}

func TestExecute_SortedIntervals(t *testing.T) {
	from := testNow.Add(time.Hour)
	to := testNow.Add(8 * time.Hour)

	// репозиторий отдает в произвольном порядке
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		bookingAt(from.Add(3*time.Hour), domain.StatusActive),
		bookingAt(from, domain.StatusActive),
	}}

	slots, err := newUseCase(repo).Execute(context.Background(), request(from, to))
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, from, slots[0].Start)
	assert.Equal(t, from.Add(time.Hour), slots[0].End)
	assert.Equal(t, from.Add(3*time.Hour), slots[1].Start)

	// окно выборки расширено вокруг диапазона
	assert.Equal(t, from.Add(-domain.ConflictWindow), repo.filter.WindowStart)
	assert.Equal(t, to.Add(domain.ConflictWindow), repo.filter.WindowEnd)
	require.NotNil(t, repo.filter.BayNumber)
	assert.Equal(t, 1, *repo.filter.BayNumber)
}

func TestExecute_FiltersNonOccupying(t *testing.T) {
	from := testNow.Add(time.Hour)
	to := testNow.Add(8 * time.Hour)

	live := bookingAt(from, domain.StatusPendingPayment)
	live.PaymentDueAt = ptr.Ptr(testNow.Add(5 * time.Minute))

	expired := bookingAt(from.Add(2*time.Hour), domain.StatusPendingPayment)
	expired.PaymentDueAt = ptr.Ptr(testNow.Add(-5 * time.Minute))

	repo := &fakeBookingRepo{bookings: []*domain.Booking{live, expired}}

	slots, err := newUseCase(repo).Execute(context.Background(), request(from, to))
	require.NoError(t, err)

	// живой неоплаченный занимает слот, просроченный — нет
	require.Len(t, slots, 1)
	assert.Equal(t, from, slots[0].Start)
}

func TestExecute_ClipsToRequestedRange(t *testing.T) {
	from := testNow.Add(4 * time.Hour)
	to := testNow.Add(6 * time.Hour)

	inside := bookingAt(from.Add(30*time.Minute), domain.StatusActive)
	// начинается до from, но блок дотягивается внутрь диапазона
	straddling := bookingAt(from.Add(-30*time.Minute), domain.StatusActive)
	// целиком вне диапазона
	outside := bookingAt(to.Add(2*time.Hour), domain.StatusActive)

	repo := &fakeBookingRepo{bookings: []*domain.Booking{inside, straddling, outside}}

	slots, err := newUseCase(repo).Execute(context.Background(), request(from, to))
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// интервалы не обрезаются по границам диапазона
	assert.Equal(t, from.Add(-30*time.Minute), slots[0].Start)
	assert.Equal(t, from.Add(30*time.Minute), slots[0].End)
}

func TestExecute_EmptyRange(t *testing.T) {
	repo := &fakeBookingRepo{}

	slots, err := newUseCase(repo).Execute(context.Background(),
		request(testNow, testNow.Add(time.Hour)))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestExecute_Validation(t *testing.T) {
	from := testNow
	to := testNow.Add(time.Hour)

	tests := []struct {
		name string
		req  *Request
	}{
		{"пустой locationID", &Request{BayNumber: 1, From: from, To: to}},
		{"бокс вне диапазона", &Request{LocationID: "loc-1", BayNumber: 0, From: from, To: to}},
		{"from после to", &Request{LocationID: "loc-1", BayNumber: 1, From: to, To: from}},
		{"нулевой from", &Request{LocationID: "loc-1", BayNumber: 1, To: to}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newUseCase(&fakeBookingRepo{}).Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &fakeBookingRepo{err: assert.AnError}

	_, err := newUseCase(repo).Execute(context.Background(),
		request(testNow, testNow.Add(time.Hour)))
	assert.ErrorIs(t, err, ErrInternal)
}
