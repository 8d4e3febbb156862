package rentalsvc

import (
	"time"

	"bookrental/model"
)

// FineRatePerDay is the late-return penalty per elapsed day past the
// due date, in whole currency units.
const FineRatePerDay = 10

// calendarDate zeroes the time of day. Overdue is a date-only
// comparison: being hours past the due instant on the due date itself
// does not count.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overdue reports whether now is strictly after the due date,
// calendar-date-wise.
func Overdue(dueDate, now time.Time) bool {
	return calendarDate(now).After(calendarDate(dueDate))
}

// FineFor returns the accrued fine: elapsed whole calendar days past
// the due date times FineRatePerDay. Zero when not overdue.
func FineFor(dueDate, now time.Time) int64 {
	due, today := calendarDate(dueDate), calendarDate(now)
	if !today.After(due) {
		return 0
	}
	days := int64(today.Sub(due) / (24 * time.Hour))
	return days * FineRatePerDay
}

// Status gates. The HTTP layer hides controls as a convenience, but
// these checks are the enforcement.

func CanCancel(s model.RentalStatus) bool {
	return s == model.RentalBooked
}

func CanPickup(s model.RentalStatus, ps model.PaymentStatus) bool {
	return s == model.RentalBooked && ps == model.PaymentPaid
}

func CanReturn(s model.RentalStatus) bool {
	return s == model.RentalRented
}

// cancelPaymentStatus maps the payment axis when the owner cancels:
// money already taken means a manual refund is owed.
func cancelPaymentStatus(ps model.PaymentStatus) model.PaymentStatus {
	switch ps {
	case model.PaymentPaid:
		return model.PaymentRefundPending
	case model.PaymentVerification:
		return model.PaymentRefundVerification
	default:
		return model.PaymentCancelled
	}
}
