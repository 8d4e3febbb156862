// model/rental.go
package model

import "time"

type RentalStatus string

const (
	RentalBooked    RentalStatus = "booked"
	RentalRented    RentalStatus = "rented"
	RentalReturned  RentalStatus = "returned"
	RentalCancelled RentalStatus = "cancelled"
)

// PaymentStatus is an independent axis from RentalStatus, advanced by
// slip upload and admin verification actions.
type PaymentStatus string

const (
	PaymentPending            PaymentStatus = "pending"
	PaymentVerification       PaymentStatus = "verification"
	PaymentPaid               PaymentStatus = "paid"
	PaymentRefundVerification PaymentStatus = "refund_verification"
	PaymentRefundPending      PaymentStatus = "refund_pending"
	PaymentRefunded           PaymentStatus = "refunded"
	PaymentRefundRejected     PaymentStatus = "refund_rejected"
	PaymentRejected           PaymentStatus = "rejected"
	PaymentCancelled          PaymentStatus = "cancelled"
)

type Rental struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	BookID        int64         `json:"book_id"`
	Status        RentalStatus  `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Days          int           `json:"days"`
	Cost          int64         `json:"cost"`
	BorrowDate    time.Time     `json:"borrow_date"`
	DueDate       time.Time     `json:"due_date"`
	Fine          int64         `json:"fine"`
	PickedUpAt    *time.Time    `json:"picked_up_at,omitempty"`
	ReturnedAt    *time.Time    `json:"returned_at,omitempty"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
