package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlockMinutes(t *testing.T) {
	tests := []struct {
		name      string
		baseMin   int
		addonMin  int
		bufferMin int
		want      int
	}{
		{"exact step stays", 30, 0, 0, 30},
		{"rounds up to next step", 25, 0, 15, 60},
		{"zero input gives zero", 0, 0, 0, 0},
		{"negative raw gives zero", -10, 0, 5, 0},
		{"one minute rounds to full step", 1, 0, 0, 30},
		{"addons add to block", 30, 45, 15, 90},
		{"large booking", 120, 60, 15, 210},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BlockMinutes(tt.baseMin, tt.addonMin, tt.bufferMin)
			assert.Equal(t, tt.want, got)

			if got > 0 {
				assert.Zero(t, got%SlotStepMinutes, "block must be a multiple of the grid step")
			}
		})
	}
}

func TestServiceDurationOrDefault(t *testing.T) {
	assert.Equal(t, 45, ServiceDurationOrDefault(45))
	assert.Equal(t, DefaultServiceDurationMin, ServiceDurationOrDefault(0))
	assert.Equal(t, DefaultServiceDurationMin, ServiceDurationOrDefault(-5))
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	t.Run("overlapping intervals", func(t *testing.T) {
		assert.True(t, Overlaps(at(0), at(60), at(30), at(90)))
		assert.True(t, Overlaps(at(30), at(90), at(0), at(60)))
		assert.True(t, Overlaps(at(0), at(90), at(30), at(60)), "containment")
	})

	t.Run("touching boundaries do not overlap", func(t *testing.T) {
		assert.False(t, Overlaps(at(0), at(30), at(30), at(60)))
		assert.False(t, Overlaps(at(30), at(60), at(0), at(30)))
	})

	t.Run("disjoint intervals", func(t *testing.T) {
		assert.False(t, Overlaps(at(0), at(30), at(60), at(90)))
	})
}

func TestBookingBlockAndInterval(t *testing.T) {
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	b := &Booking{
		DateTime:           start,
		BufferMin:          15,
		ServiceDurationMin: 25,
		AddonMinutes:       0,
	}

	assert.Equal(t, 60, b.BlockMinutes())
	assert.Equal(t, start.Add(60*time.Minute), b.IntervalEnd())

	// услуга без длительности получает дефолт 30
	b.ServiceDurationMin = 0
	assert.Equal(t, 60, b.BlockMinutes())
}

func TestBookingOccupiesSlot(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(5 * time.Minute)
	past := now.Add(-5 * time.Minute)

	t.Run("active always occupies", func(t *testing.T) {
		b := &Booking{Status: StatusActive}
		assert.True(t, b.OccupiesSlot(now))
	})

	t.Run("pending occupies until deadline", func(t *testing.T) {
		b := &Booking{Status: StatusPendingPayment, PaymentDueAt: &future}
		assert.True(t, b.OccupiesSlot(now))
	})

	t.Run("expired pending does not occupy", func(t *testing.T) {
		b := &Booking{Status: StatusPendingPayment, PaymentDueAt: &past}
		assert.False(t, b.OccupiesSlot(now))

		noDue := &Booking{Status: StatusPendingPayment}
		assert.False(t, noDue.OccupiesSlot(now))
	})

	t.Run("terminal statuses do not occupy", func(t *testing.T) {
		assert.False(t, (&Booking{Status: StatusCanceled}).OccupiesSlot(now))
		assert.False(t, (&Booking{Status: StatusCompleted}).OccupiesSlot(now))
	})
}
