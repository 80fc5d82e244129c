package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BayBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BayBookingService/internal/service/capacity"
	"github.com/m04kA/SMC-BayBookingService/pkg/ptr"
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type nopHousekeeper struct{}

func (nopHousekeeper) Run(context.Context) error { return nil }

type fakeBookingRepo struct {
	bookings map[string]*domain.Booking

	canceledID     string
	canceledReason string
	startedID      string
	finishedID     string
	deletedAddon   string
	deleteAddonErr error
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) List(_ context.Context, _ domain.ListFilter) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, id string, reason string, now time.Time) error {
	r.canceledID = id
	r.canceledReason = reason
	b := r.bookings[id]
	b.Status = domain.StatusCanceled
	b.CanceledAt = &now
	b.CancelReason = &reason
	return nil
}

func (r *fakeBookingRepo) MarkStarted(_ context.Context, id string, startedAt time.Time, status domain.BookingStatus) error {
	r.startedID = id
	b := r.bookings[id]
	b.Status = status
	b.StartedAt = &startedAt
	return nil
}

func (r *fakeBookingRepo) MarkFinished(_ context.Context, id string, finishedAt time.Time) error {
	r.finishedID = id
	b := r.bookings[id]
	b.Status = domain.StatusCompleted
	b.FinishedAt = &finishedAt
	return nil
}

func (r *fakeBookingRepo) DeleteAddon(_ context.Context, _, serviceID string) error {
	if r.deleteAddonErr != nil {
		return r.deleteAddonErr
	}
	r.deletedAddon = serviceID
	return nil
}

type fakeCapacity struct {
	err error
}

func (c fakeCapacity) RequireBayActive(context.Context, string, int) error { return c.err }

type recordingNotifier struct {
	refs []domain.BayRef
}

func (n *recordingNotifier) NotifyBayChanged(_ context.Context, locationID string, bayNumber int) {
	n.refs = append(n.refs, domain.BayRef{LocationID: locationID, BayNumber: bayNumber})
}

func newService(repo *fakeBookingRepo, capacitySvc fakeCapacity, notifier *recordingNotifier, now time.Time) *Service {
	return NewService(repo, capacitySvc, nopHousekeeper{}, notifier, fakeClock{now}, nopLogger{})
}

func TestCancel(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	newBooking := func(status domain.BookingStatus) *domain.Booking {
		return &domain.Booking{
			ID:         "b-1",
			LocationID: "loc-1",
			BayNumber:  2,
			ClientID:   ptr.Ptr("client-1"),
			Status:     status,
			DateTime:   now.Add(2 * time.Hour),
		}
	}

	t.Run("cancels future active booking", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": newBooking(domain.StatusActive)}}
		notifier := &recordingNotifier{}
		svc := newService(repo, fakeCapacity{}, notifier, now)

		booking, err := svc.Cancel(context.Background(), "b-1", "client-1")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCanceled, booking.Status)
		assert.Equal(t, domain.CancelReasonUserCanceled, repo.canceledReason)
		assert.Len(t, notifier.refs, 1)
	})

	t.Run("pending booking gets its own cancel reason", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": newBooking(domain.StatusPendingPayment)}}
		svc := newService(repo, fakeCapacity{}, &recordingNotifier{}, now)

		_, err := svc.Cancel(context.Background(), "b-1", "client-1")

		require.NoError(t, err)
		assert.Equal(t, domain.CancelReasonUserCanceledPending, repo.canceledReason)
	})

	t.Run("repeated cancel is idempotent", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": newBooking(domain.StatusCanceled)}}
		notifier := &recordingNotifier{}
		svc := newService(repo, fakeCapacity{}, notifier, now)

		booking, err := svc.Cancel(context.Background(), "b-1", "client-1")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCanceled, booking.Status)
		assert.Empty(t, repo.canceledID, "no repository write on repeated cancel")
		assert.Empty(t, notifier.refs)
	})

	t.Run("cannot cancel started booking", func(t *testing.T) {
		b := newBooking(domain.StatusActive)
		b.StartedAt = ptr.Ptr(now.Add(-10 * time.Minute))
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": b}}
		svc := newService(repo, fakeCapacity{}, &recordingNotifier{}, now)

		_, err := svc.Cancel(context.Background(), "b-1", "client-1")

		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("cannot cancel elapsed booking", func(t *testing.T) {
		b := newBooking(domain.StatusActive)
		b.DateTime = now.Add(-time.Hour)
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": b}}
		svc := newService(repo, fakeCapacity{}, &recordingNotifier{}, now)

		_, err := svc.Cancel(context.Background(), "b-1", "client-1")

		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("cannot cancel completed booking", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": newBooking(domain.StatusCompleted)}}
		svc := newService(repo, fakeCapacity{}, &recordingNotifier{}, now)

		_, err := svc.Cancel(context.Background(), "b-1", "client-1")

		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("foreign booking is denied", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": newBooking(domain.StatusActive)}}
		svc := newService(repo, fakeCapacity{}, &recordingNotifier{}, now)

		_, err := svc.Cancel(context.Background(), "b-1", "client-2")

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing booking", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{}}
		svc := newService(repo, fakeCapacity{}, &recordingNotifier{}, now)

		_, err := svc.Cancel(context.Background(), "missing", "client-1")

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestStart(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("starts pending booking and activates it", func(t *testing.T) {
		due := now.Add(5 * time.Minute)
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": {
			ID:           "b-1",
			LocationID:   "loc-1",
			BayNumber:    1,
			Status:       domain.StatusPendingPayment,
			PaymentDueAt: &due,
			DateTime:     now,
		}}}
		svc := newService(repo, fakeCapacity{}, &recordingNotifier{}, now)

		booking, err := svc.Start(context.Background(), "b-1")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, booking.Status)
		assert.NotNil(t, booking.StartedAt)
	})

	t.Run("closed bay blocks start", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": {
			ID: "b-1", LocationID: "loc-1", BayNumber: 1, Status: domain.StatusActive, DateTime: now,
		}}}
		svc := newService(repo, fakeCapacity{err: capacity.ErrBayInactive}, &recordingNotifier{}, now)

		_, err := svc.Start(context.Background(), "b-1")

		assert.ErrorIs(t, err, ErrCannotStart)
	})

	t.Run("terminal booking cannot start", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": {
			ID: "b-1", Status: domain.StatusCanceled, DateTime: now,
		}}}
		svc := newService(repo, fakeCapacity{}, &recordingNotifier{}, now)

		_, err := svc.Start(context.Background(), "b-1")

		assert.ErrorIs(t, err, ErrCannotStart)
	})
}

func TestFinish(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("finishes active booking", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": {
			ID: "b-1", LocationID: "loc-1", BayNumber: 1, Status: domain.StatusActive, DateTime: now.Add(-time.Hour),
		}}}
		notifier := &recordingNotifier{}
		svc := newService(repo, fakeCapacity{}, notifier, now)

		booking, err := svc.Finish(context.Background(), "b-1")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, booking.Status)
		assert.Len(t, notifier.refs, 1)
	})

	t.Run("repeated finish is idempotent", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": {
			ID: "b-1", Status: domain.StatusCompleted,
		}}}
		svc := newService(repo, fakeCapacity{}, &recordingNotifier{}, now)

		booking, err := svc.Finish(context.Background(), "b-1")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, booking.Status)
		assert.Empty(t, repo.finishedID)
	})

	t.Run("canceled booking cannot finish", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": {
			ID: "b-1", Status: domain.StatusCanceled,
		}}}
		svc := newService(repo, fakeCapacity{}, &recordingNotifier{}, now)

		_, err := svc.Finish(context.Background(), "b-1")

		assert.ErrorIs(t, err, ErrCannotFinish)
	})
}

func TestDetachAddon(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("detaches addon and notifies bay", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": {
			ID: "b-1", LocationID: "loc-1", BayNumber: 1, ClientID: ptr.Ptr("client-1"),
			Status: domain.StatusActive, DateTime: now.Add(time.Hour),
		}}}
		notifier := &recordingNotifier{}
		svc := newService(repo, fakeCapacity{}, notifier, now)

		_, err := svc.DetachAddon(context.Background(), "b-1", "svc-2", "client-1")

		require.NoError(t, err)
		assert.Equal(t, "svc-2", repo.deletedAddon)
		assert.Len(t, notifier.refs, 1)
	})

	t.Run("terminal booking is immutable", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{"b-1": {
			ID: "b-1", ClientID: ptr.Ptr("client-1"), Status: domain.StatusCompleted,
		}}}
		svc := newService(repo, fakeCapacity{}, &recordingNotifier{}, now)

		_, err := svc.DetachAddon(context.Background(), "b-1", "svc-2", "client-1")

		assert.ErrorIs(t, err, ErrBookingImmutable)
	})

	t.Run("unknown addon", func(t *testing.T) {
		repo := &fakeBookingRepo{
			bookings: map[string]*domain.Booking{"b-1": {
				ID: "b-1", ClientID: ptr.Ptr("client-1"), Status: domain.StatusActive, DateTime: now.Add(time.Hour),
			}},
			deleteAddonErr: bookingRepo.ErrAddonNotFound,
		}
		svc := newService(repo, fakeCapacity{}, &recordingNotifier{}, now)

		_, err := svc.DetachAddon(context.Background(), "b-1", "svc-9", "client-1")

		assert.ErrorIs(t, err, ErrAddonNotFound)
	})
}
