package rentalsvc

import (
	"context"
	"time"
)

// BookingHold is how long an unpaid booking keeps its copy reserved
// before it is released back to stock.
const BookingHold = 24 * time.Hour

type Cleaner interface {
	// ReleaseExpired cancels bookings that stayed unpaid past the hold
	// window and restocks their copies. Returns how many were released.
	ReleaseExpired(ctx context.Context) (int64, error)
}

// ReleaseRepo is the slice of the rental repository the cleaner needs.
type ReleaseRepo interface {
	ReleaseExpiredBookings(ctx context.Context, cutoff time.Time) (int64, error)
}

type cleaner struct {
	r    ReleaseRepo
	hold time.Duration
	now  func() time.Time
}

func NewCleaner(r ReleaseRepo, hold time.Duration) Cleaner {
	if hold <= 0 {
		hold = BookingHold
	}
	return &cleaner{r: r, hold: hold, now: time.Now}
}

func (c *cleaner) ReleaseExpired(ctx context.Context) (int64, error) {
	return c.r.ReleaseExpiredBookings(ctx, c.now().UTC().Add(-c.hold))
}
