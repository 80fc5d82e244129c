package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	carRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/car"
	catalogRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BayBookingService/internal/service/capacity"
	"github.com/m04kA/SMC-BayBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-BayBookingService/pkg/ptr"
	"github.com/m04kA/SMC-BayBookingService/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

type fakeBookingRepo struct {
	created *domain.Booking
	addons  []*domain.BookingAddon
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	copied := *booking
	copied.ID = "booking-1"
	r.created = &copied
	return &copied, nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	copied := *r.created
	for _, a := range r.addons {
		copied.Addons = append(copied.Addons, *a)
	}
	return &copied, nil
}

func (r *fakeBookingRepo) UpsertAddon(_ context.Context, addon *domain.BookingAddon) error {
	r.addons = append(r.addons, addon)
	return nil
}

type fakeCatalogRepo struct {
	services map[string]*domain.Service
}

func (r *fakeCatalogRepo) GetService(_ context.Context, id string) (*domain.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return svc, nil
}

type fakeCarRepo struct {
	car *domain.Car
	err error
}

func (r *fakeCarRepo) GetByID(_ context.Context, id string) (*domain.Car, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.car, nil
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
	diversion *capacity.Diversion
	err       error
}

func (g *fakeCapacityGate) Check(_ context.Context, locationID string, bayNumber int) (*capacity.Diversion, error) {
	return g.diversion, g.err
}

type fakeWaitlist struct {
	created *domain.WaitlistRequest
}

func (w *fakeWaitlist) CreateDiverted(_ context.Context, request *domain.WaitlistRequest) (*domain.WaitlistRequest, error) {
	copied := *request
	copied.ID = "wl-1"
	copied.Status = domain.WaitlistWaiting
	w.created = &copied
	return &copied, nil
}

type fakeHousekeeper struct {
	runs int
	err  error
}

func (h *fakeHousekeeper) Run(_ context.Context) error {
	h.runs++
	return h.err
}

type fakeTxManager struct{ err error }

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) NotifyBayChanged(_ context.Context, locationID string, bayNumber int) {
	n.calls = append(n.calls, locationID)
}

type fixture struct {
	uc          *UseCase
	bookingRepo *fakeBookingRepo
	conflicts   *fakeConflicts
	capacity    *fakeCapacityGate
	waitlist    *fakeWaitlist
	housekeeper *fakeHousekeeper
	txManager   *fakeTxManager
	notifier    *recordingNotifier
	now         time.Time
}

func newFixture() *fixture {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	f := &fixture{
		bookingRepo: &fakeBookingRepo{},
		conflicts:   &fakeConflicts{},
		capacity:    &fakeCapacityGate{},
		waitlist:    &fakeWaitlist{},
		housekeeper: &fakeHousekeeper{},
		txManager:   &fakeTxManager{},
		notifier:    &recordingNotifier{},
		now:         now,
	}
	f.uc = NewUseCase(
		f.bookingRepo,
		&fakeCatalogRepo{services: map[string]*domain.Service{
			"svc-wash":   {ID: "svc-wash", DurationMin: 40, PriceRub: 1500},
			"svc-polish": {ID: "svc-polish", DurationMin: 15, PriceRub: 700, IsAddon: true},
		}},
		&fakeCarRepo{car: &domain.Car{ID: "car-1", ClientID: ptr.Ptr("client-1")}},
		f.conflicts,
		f.capacity,
		f.waitlist,
		f.housekeeper,
		f.txManager,
		f.notifier,
		Config{PaymentHoldMinutes: 10, DefaultBufferMin: 15},
		nopLogger{},
	)
	f.uc.timeProvider = fakeClock{now: now}
	return f
}

func (f *fixture) request() *Request {
	return &Request{
		ClientID:   "client-1",
		LocationID: "loc-1",
		CarID:      "car-1",
		ServiceID:  "svc-wash",
		DateTime:   f.now.Add(2 * time.Hour),
	}
}

func TestExecute_CreatesBooking(t *testing.T) {
	f := newFixture()
	req := f.request()
	req.Addons = []AddonInput{{ServiceID: "svc-polish", Qty: 2}}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, ResultBooking, resp.ResultType)
	require.NotNil(t, resp.Booking)
	assert.Nil(t, resp.Waitlist)

	b := f.bookingRepo.created
	assert.Equal(t, domain.StatusPendingPayment, b.Status)
	assert.Equal(t, domain.MinBayNumber, b.BayNumber)
	assert.Nil(t, b.RequestedBayNumber)
	assert.Equal(t, 15, b.BufferMin)
	require.NotNil(t, b.PaymentDueAt)
	assert.Equal(t, f.now.Add(10*time.Minute), *b.PaymentDueAt)

	// 40 + 2*15 + 15 = 85 минут, округление вверх до 90
	require.Len(t, f.conflicts.requests, 1)
	check := f.conflicts.requests[0]
	assert.Equal(t, 90, check.BlockMin)
	assert.Equal(t, "loc-1", check.LocationID)
	assert.Equal(t, "car-1", check.CarID)
	assert.Nil(t, check.ExcludeBookingID)

	// снапшоты цены и длительности допуслуги на момент создания
	require.Len(t, f.bookingRepo.addons, 1)
	addon := f.bookingRepo.addons[0]
	assert.Equal(t, "booking-1", addon.BookingID)
	assert.Equal(t, 2, addon.Qty)
	assert.Equal(t, 700, addon.PriceRubSnapshot)
	assert.Equal(t, 15, addon.DurationMinSnapshot)

	assert.Equal(t, 1, f.housekeeper.runs)
	assert.Equal(t, []string{"loc-1"}, f.notifier.calls)
}

func TestExecute_KeepsRequestedBay(t *testing.T) {
	f := newFixture()
	req := f.request()
	req.BayNumber = ptr.Ptr(3)

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, ResultBooking, resp.ResultType)

	assert.Equal(t, 3, f.bookingRepo.created.BayNumber)
	require.NotNil(t, f.bookingRepo.created.RequestedBayNumber)
	assert.Equal(t, 3, *f.bookingRepo.created.RequestedBayNumber)
}

func TestExecute_CustomBuffer(t *testing.T) {
	f := newFixture()
	req := f.request()
	req.BufferMin = ptr.Ptr(0)

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0, f.bookingRepo.created.BufferMin)
	// 40 + 0 = 40 минут, округление вверх до 60
	assert.Equal(t, 60, f.conflicts.requests[0].BlockMin)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"пустой carID", func(req *Request) { req.CarID = "" }},
		{"пустой serviceID", func(req *Request) { req.ServiceID = "" }},
		{"нулевое время", func(req *Request) { req.DateTime = time.Time{} }},
		{"бокс ниже диапазона", func(req *Request) { req.BayNumber = ptr.Ptr(0) }},
		{"бокс выше диапазона", func(req *Request) { req.BayNumber = ptr.Ptr(domain.MaxBayNumber + 1) }},
		{"отрицательный буфер", func(req *Request) { req.BufferMin = ptr.Ptr(-1) }},
		{"нулевое количество допуслуги", func(req *Request) {
			req.Addons = []AddonInput{{ServiceID: "svc-polish", Qty: 0}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := f.request()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, f.housekeeper.runs)
		})
	}
}

func TestExecute_DateInPast(t *testing.T) {
	t.Run("в прошлом за пределами допуска", func(t *testing.T) {
		f := newFixture()
		req := f.request()
		req.DateTime = f.now.Add(-time.Minute)

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrDateInPast)
	})

	t.Run("в пределах допуска на рассинхронизацию часов", func(t *testing.T) {
		f := newFixture()
		req := f.request()
		req.DateTime = f.now.Add(-20 * time.Second)

		_, err := f.uc.Execute(context.Background(), req)
		assert.NoError(t, err)
	})
}

func TestExecute_CarChecks(t *testing.T) {
	t.Run("автомобиль не найден", func(t *testing.T) {
		f := newFixture()
		f.uc.carRepo = &fakeCarRepo{err: carRepo.ErrCarNotFound}

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.ErrorIs(t, err, ErrCarNotFound)
	})

	t.Run("чужой автомобиль", func(t *testing.T) {
		f := newFixture()
		f.uc.carRepo = &fakeCarRepo{car: &domain.Car{ID: "car-1", ClientID: ptr.Ptr("client-2")}}

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.ErrorIs(t, err, ErrNotYourCar)
	})

	t.Run("непривязанный автомобиль доступен", func(t *testing.T) {
		f := newFixture()
		f.uc.carRepo = &fakeCarRepo{car: &domain.Car{ID: "car-1"}}

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.NoError(t, err)
	})
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture()
	req := f.request()
	req.ServiceID = "svc-unknown"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_AddonNotFound(t *testing.T) {
	f := newFixture()
	req := f.request()
	req.Addons = []AddonInput{{ServiceID: "svc-unknown", Qty: 1}}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAddonNotFound)
}

func TestExecute_LocationNotFound(t *testing.T) {
	f := newFixture()
	f.capacity.err = capacity.ErrLocationNotFound

	_, err := f.uc.Execute(context.Background(), f.request())
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestExecute_DivertsToWaitlist(t *testing.T) {
	f := newFixture()
	f.capacity.diversion = &capacity.Diversion{Reason: domain.WaitlistReasonBayClosed}
	req := f.request()
	req.BayNumber = ptr.Ptr(2)

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, ResultWaitlist, resp.ResultType)
	require.NotNil(t, resp.Waitlist)
	assert.Nil(t, resp.Booking)

	wl := f.waitlist.created
	assert.Equal(t, domain.WaitlistReasonBayClosed, wl.Reason)
	assert.Equal(t, "client-1", wl.ClientID)
	require.NotNil(t, wl.DesiredBayNumber)
	assert.Equal(t, 2, *wl.DesiredBayNumber)

	// отвод — не ошибка, но бронь не создается
	assert.Nil(t, f.bookingRepo.created)
	assert.Equal(t, []string{"loc-1"}, f.notifier.calls)
}

func TestExecute_DivertKeepsAnyBay(t *testing.T) {
	f := newFixture()
	f.capacity.diversion = &capacity.Diversion{Reason: domain.WaitlistReasonAllBaysClosed}

	resp, err := f.uc.Execute(context.Background(), f.request())
	require.NoError(t, err)
	require.Equal(t, ResultWaitlist, resp.ResultType)

	// клиент не просил конкретный бокс — желаемый бокс остается "любой"
	assert.Nil(t, f.waitlist.created.DesiredBayNumber)
}

func TestExecute_SlotConflict(t *testing.T) {
	t.Run("пересечение интервалов", func(t *testing.T) {
		f := newFixture()
		f.conflicts.err = conflicts.ErrSlotConflict

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.ErrorIs(t, err, ErrSlotConflict)
		assert.Empty(t, f.notifier.calls)
	})

	t.Run("проигравший гонку сериализации", func(t *testing.T) {
		f := newFixture()
		f.txManager.err = txmanager.ErrSerializationFailure

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.ErrorIs(t, err, ErrSlotConflict)
	})
}

func TestExecute_HousekeeperError(t *testing.T) {
	f := newFixture()
	f.housekeeper.err = assert.AnError

	_, err := f.uc.Execute(context.Background(), f.request())
	assert.ErrorIs(t, err, ErrInternal)
}
