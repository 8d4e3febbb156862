package rentalsvc

import (
	"testing"
	"time"

	"bookrental/model"

	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestFineFor(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		now  time.Time
		want int64
	}{
		{"before due", d("2024-01-10"), d("2024-01-08"), 0},
		{"on due date", d("2024-01-10"), d("2024-01-10"), 0},
		{"hours past due, same day", d("2024-01-10"), d("2024-01-10").Add(23 * time.Hour), 0},
		{"one day late", d("2024-01-10"), d("2024-01-11"), 10},
		{"two days late", d("2024-01-10"), d("2024-01-12"), 20},
		{"a week late", d("2024-01-10"), d("2024-01-17"), 70},
		{"late across month boundary", d("2024-01-31"), d("2024-02-02"), 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FineFor(tt.due, tt.now))
		})
	}
}

func TestOverdue(t *testing.T) {
	due := d("2024-01-10")

	require.False(t, Overdue(due, d("2024-01-10")))
	// Same calendar day is not overdue even past the due instant.
	require.False(t, Overdue(due, d("2024-01-10").Add(22*time.Hour)))
	require.True(t, Overdue(due, d("2024-01-11")))
}

func TestFineGrowsPerDay(t *testing.T) {
	due := d("2024-03-01")
	prev := int64(0)
	for i := 1; i <= 30; i++ {
		fine := FineFor(due, due.AddDate(0, 0, i))
		require.Equal(t, prev+FineRatePerDay, fine)
		prev = fine
	}
}

func TestStatusGates(t *testing.T) {
	require.True(t, CanCancel(model.RentalBooked))
	require.False(t, CanCancel(model.RentalRented))
	require.False(t, CanCancel(model.RentalReturned))
	require.False(t, CanCancel(model.RentalCancelled))

	require.True(t, CanPickup(model.RentalBooked, model.PaymentPaid))
	require.False(t, CanPickup(model.RentalBooked, model.PaymentPending))
	require.False(t, CanPickup(model.RentalBooked, model.PaymentVerification))
	require.False(t, CanPickup(model.RentalRented, model.PaymentPaid))

	require.True(t, CanReturn(model.RentalRented))
	require.False(t, CanReturn(model.RentalBooked))
	require.False(t, CanReturn(model.RentalReturned))
}

func TestCancelPaymentStatus(t *testing.T) {
	require.Equal(t, model.PaymentRefundPending, cancelPaymentStatus(model.PaymentPaid))
	require.Equal(t, model.PaymentRefundVerification, cancelPaymentStatus(model.PaymentVerification))
	require.Equal(t, model.PaymentCancelled, cancelPaymentStatus(model.PaymentPending))
	require.Equal(t, model.PaymentCancelled, cancelPaymentStatus(model.PaymentRejected))
}
