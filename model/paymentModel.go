// model/payment.go
package model

import "time"

// SlipStatus is the state of one uploaded payment slip.
type SlipStatus string

const (
	SlipVerification SlipStatus = "verification"
	SlipPaid         SlipStatus = "paid"
	SlipRejected     SlipStatus = "rejected"
	SlipRefunded     SlipStatus = "refunded"
)

type Payment struct {
	ID         int64      `json:"id"`
	RentalID   int64      `json:"rental_id"`
	Amount     int64      `json:"amount"`
	SlipURL    string     `json:"slip_url"`
	Status     SlipStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}
