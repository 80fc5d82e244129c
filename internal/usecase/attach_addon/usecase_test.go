package attach_addon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/catalog"
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
	addons  []*domain.BookingAddon
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	if r.booking == nil || r.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *r.booking
	return &copied, nil
}

func (r *fakeBookingRepo) UpsertAddon(_ context.Context, addon *domain.BookingAddon) error {
	r.addons = append(r.addons, addon)
	r.booking.AddonMinutes += addon.DurationMinSnapshot * addon.Qty
	return nil
}

type fakeCatalogRepo struct {
	service *domain.Service
}

func (r *fakeCatalogRepo) GetService(_ context.Context, id string) (*domain.Service, error) {
	if r.service == nil {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return r.service, nil
}

type fakeConflicts struct {
	err      error
	requests []conflicts.CheckRequest
}

func (c *fakeConflicts) EnsureSlotFree(_ context.Context, req conflicts.CheckRequest) error {
	c.requests = append(c.requests, req)
	return c.err
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
	calls int
}

func (n *recordingNotifier) NotifyBayChanged(_ context.Context, locationID string, bayNumber int) {
	n.calls++
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uc        *UseCase
	repo      *fakeBookingRepo
	conflicts *fakeConflicts
	txManager *fakeTxManager
	notifier  *recordingNotifier
}

func newFixture(b *domain.Booking) *fixture {
	f := &fixture{
		repo:      &fakeBookingRepo{booking: b},
		conflicts: &fakeConflicts{},
		txManager: &fakeTxManager{},
		notifier:  &recordingNotifier{},
	}
	f.uc = NewUseCase(
		f.repo,
		&fakeCatalogRepo{service: &domain.Service{ID: "svc-polish", DurationMin: 20, PriceRub: 700, IsAddon: true}},
		f.conflicts,
		nopHousekeeper{},
		f.txManager,
		f.notifier,
		nopLogger{},
	)
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
		ServiceDurationMin: 40,
		DateTime:           testNow.Add(time.Hour),
		BufferMin:          15,
		Status:             domain.StatusActive,
	}
}

func validRequest() *Request {
	return &Request{BookingID: "booking-1", ClientID: "client-1", ServiceID: "svc-polish", Qty: 2}
}

func TestExecute_Attaches(t *testing.T) {
	f := newFixture(activeBooking())

	updated, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 40, updated.AddonMinutes)

	require.Len(t, f.repo.addons, 1)
	addon := f.repo.addons[0]
	assert.Equal(t, "svc-polish", addon.ServiceID)
	assert.Equal(t, 2, addon.Qty)
	assert.Equal(t, 700, addon.PriceRubSnapshot)
	assert.Equal(t, 20, addon.DurationMinSnapshot)

	// блок пересчитан с учетом новой допуслуги: 40 + 2*20 + 15 = 95 → 120,
	// собственная бронь исключена из проверки
	require.Len(t, f.conflicts.requests, 1)
	check := f.conflicts.requests[0]
	assert.Equal(t, 120, check.BlockMin)
	require.NotNil(t, check.ExcludeBookingID)
	assert.Equal(t, "booking-1", *check.ExcludeBookingID)

	assert.Equal(t, 1, f.notifier.calls)
}

func TestExecute_ZeroQtyMeansOne(t *testing.T) {
	f := newFixture(activeBooking())
	req := validRequest()
	req.Qty = 0

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, f.repo.addons, 1)
	assert.Equal(t, 1, f.repo.addons[0].Qty)
}

func TestExecute_ExtendedBlockConflicts(t *testing.T) {
	t.Run("пересечение интервалов", func(t *testing.T) {
		f := newFixture(activeBooking())
		f.conflicts.err = conflicts.ErrSlotConflict

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotConflict)
		assert.Empty(t, f.repo.addons)
	})

	t.Run("сбой сериализации", func(t *testing.T) {
		f := newFixture(activeBooking())
		f.txManager.err = txmanager.ErrSerializationFailure

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotConflict)
	})
}

func TestExecute_Guards(t *testing.T) {
	t.Run("бронь не найдена", func(t *testing.T) {
		f := newFixture(nil)

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("чужая бронь", func(t *testing.T) {
		f := newFixture(activeBooking())
		req := validRequest()
		req.ClientID = "client-2"

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("терминальный статус", func(t *testing.T) {
		b := activeBooking()
		b.Status = domain.StatusCompleted
		f := newFixture(b)

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrBookingImmutable)
	})

	t.Run("допуслуга не найдена", func(t *testing.T) {
		f := newFixture(activeBooking())
		f.uc.catalogRepo = &fakeCatalogRepo{}

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(activeBooking())

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"пустой bookingID", func(req *Request) { req.BookingID = "" }},
		{"пустой serviceID", func(req *Request) { req.ServiceID = "" }},
		{"отрицательное количество", func(req *Request) { req.Qty = -1 }},
		{"слишком большое количество", func(req *Request) { req.Qty = domain.MaxAddonQty + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
