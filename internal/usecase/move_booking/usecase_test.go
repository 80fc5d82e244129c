package move_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BayBookingService/internal/service/capacity"
	"github.com/m04kA/SMC-BayBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-BayBookingService/pkg/ptr"
	"github.com/m04kA/SMC-BayBookingService/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	booking *domain.Booking
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	if r.booking == nil || r.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *r.booking
	return &copied, nil
}

func (r *fakeBookingRepo) UpdateSchedule(_ context.Context, id string, newStart time.Time, newBayNumber int) error {
	r.booking.DateTime = newStart
	r.booking.BayNumber = newBayNumber
	return nil
}

type fakeConflicts struct {
	err      error
	requests []conflicts.CheckRequest
}

func (c *fakeConflicts) EnsureSlotFree(_ context.Context, req conflicts.CheckRequest) error {
	c.requests = append(c.requests, req)
	return c.err
}

type fakeCapacityGate struct {
	err   error
	calls int
}

func (g *fakeCapacityGate) RequireBayActive(_ context.Context, locationID string, bayNumber int) error {
	g.calls++
	return g.err
}

type nopHousekeeper struct{}

func (nopHousekeeper) Run(_ context.Context) error { return nil }

type fakeTxManager struct{ err error }

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

type recordingNotifier struct {
	bays []int
}

func (n *recordingNotifier) NotifyBayChanged(_ context.Context, locationID string, bayNumber int) {
	n.bays = append(n.bays, bayNumber)
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uc        *UseCase
	repo      *fakeBookingRepo
	conflicts *fakeConflicts
	capacity  *fakeCapacityGate
	txManager *fakeTxManager
	notifier  *recordingNotifier
}

func newFixture(b *domain.Booking) *fixture {
	f := &fixture{
		repo:      &fakeBookingRepo{booking: b},
		conflicts: &fakeConflicts{},
		capacity:  &fakeCapacityGate{},
		txManager: &fakeTxManager{},
		notifier:  &recordingNotifier{},
	}
	f.uc = NewUseCase(f.repo, f.conflicts, f.capacity, nopHousekeeper{}, f.txManager, f.notifier, nopLogger{})
	return f
}

func activeBooking() *domain.Booking {
	return &domain.Booking{
		ID:                 "booking-1",
		LocationID:         "loc-1",
		BayNumber:          1,
		CarID:              "car-1",
		ClientID:           ptr.Ptr("client-1"),
		ServiceID:          "svc-wash",
		ServiceDurationMin: 30,
		DateTime:           testNow.Add(time.Hour),
		BufferMin:          15,
		Status:             domain.StatusActive,
	}
}

func validRequest() *Request {
	return &Request{
		BookingID:     "booking-1",
		NewDateTime:   testNow.Add(3 * time.Hour),
		Justification: "бокс 1 закрывается на обслуживание",
		ClientAgreed:  true,
	}
}

func TestExecute_MovesTime(t *testing.T) {
	f := newFixture(activeBooking())
	req := validRequest()

	moved, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.NewDateTime, moved.DateTime)
	assert.Equal(t, 1, moved.BayNumber)

	// бокс не меняется — доступность бокса не проверяется
	assert.Zero(t, f.capacity.calls)
	// собственная бронь исключена из проверки пересечений
	require.Len(t, f.conflicts.requests, 1)
	check := f.conflicts.requests[0]
	require.NotNil(t, check.ExcludeBookingID)
	assert.Equal(t, "booking-1", *check.ExcludeBookingID)
	assert.Equal(t, 60, check.BlockMin)

	assert.Equal(t, []int{1}, f.notifier.bays)
}

func TestExecute_MovesBay(t *testing.T) {
	f := newFixture(activeBooking())
	req := validRequest()
	req.NewBayNumber = ptr.Ptr(4)

	moved, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 4, moved.BayNumber)

	assert.Equal(t, 1, f.capacity.calls)
	// событие на старый и новый бокс
	assert.Equal(t, []int{1, 4}, f.notifier.bays)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{"пустой bookingID", func(req *Request) { req.BookingID = "" }, ErrInvalidInput},
		{"нулевое время", func(req *Request) { req.NewDateTime = time.Time{} }, ErrInvalidInput},
		{"бокс вне диапазона", func(req *Request) { req.NewBayNumber = ptr.Ptr(0) }, ErrInvalidInput},
		{"без причины", func(req *Request) { req.Justification = "   " }, ErrJustificationRequired},
		{"без согласия клиента", func(req *Request) { req.ClientAgreed = false }, ErrClientNotAgreed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(activeBooking())
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_TerminalImmutable(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCompleted, domain.StatusCanceled} {
		t.Run(string(status), func(t *testing.T) {
			b := activeBooking()
			b.Status = status
			f := newFixture(b)

			_, err := f.uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, ErrBookingImmutable)
		})
	}
}

func TestExecute_BayUnavailable(t *testing.T) {
	for _, capErr := range []error{capacity.ErrBayInactive, capacity.ErrBayNotFound} {
		t.Run(capErr.Error(), func(t *testing.T) {
			f := newFixture(activeBooking())
			f.capacity.err = capErr
			req := validRequest()
			req.NewBayNumber = ptr.Ptr(5)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrBayUnavailable)
		})
	}
}

func TestExecute_SlotConflict(t *testing.T) {
	t.Run("пересечение интервалов", func(t *testing.T) {
		f := newFixture(activeBooking())
		f.conflicts.err = conflicts.ErrSlotConflict

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotConflict)
		assert.Empty(t, f.notifier.bays)
	})

	t.Run("сбой сериализации", func(t *testing.T) {
		f := newFixture(activeBooking())
		f.txManager.err = txmanager.ErrSerializationFailure

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotConflict)
	})
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture(nil)

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
