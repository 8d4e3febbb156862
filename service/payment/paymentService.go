package paymentsvc

import (
	"context"
	"errors"
	"time"

	"bookrental/model"
	paymentrepo "bookrental/repository/payment"

	"github.com/jackc/pgx/v5"
)

type ErrCode string

const (
	ErrRentalNotFound ErrCode = "RENTAL_NOT_FOUND"
	ErrNotOwner       ErrCode = "NOT_OWNER"
	ErrNotAllowed     ErrCode = "STATE_NOT_ALLOWED"
	ErrNotFound       ErrCode = "NOT_FOUND"
	ErrBadAmount      ErrCode = "BAD_AMOUNT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type PendingRow = paymentrepo.PendingRow

type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repo interface {
	Insert(ctx context.Context, tx pgx.Tx, p *model.Payment) error
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Payment, error)
	SetStatus(ctx context.Context, tx pgx.Tx, id int64, status model.SlipStatus, verifiedAt time.Time) error
	ListForDate(ctx context.Context, date time.Time) ([]PendingRow, error)
}

// RentalRepo is the slice of the rental repository the payment flow
// touches: the rental row and its payment axis.
type RentalRepo interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error)
	SetPaymentStatus(ctx context.Context, tx pgx.Tx, rentalID int64, ps model.PaymentStatus) error
}

type Service interface {
	// SubmitSlip records an uploaded transfer slip against the caller's
	// rental and moves its payment status to verification.
	SubmitSlip(ctx context.Context, userID, rentalID, amount int64, slipURL string) (*model.Payment, error)

	// Pending lists slips submitted on the given date for admin review.
	Pending(ctx context.Context, date time.Time) ([]PendingRow, error)

	// Verify resolves one slip: approve or reject a pending
	// verification, or settle the refund of a cancelled, already-paid
	// rental.
	Verify(ctx context.Context, paymentID int64, approved bool) error
}

type service struct {
	db  Beginner
	p   Repo
	r   RentalRepo
	now func() time.Time
}

func New(db Beginner, p Repo, r RentalRepo) Service {
	return &service{db: db, p: p, r: r, now: time.Now}
}

func (s *service) SubmitSlip(ctx context.Context, userID, rentalID, amount int64, slipURL string) (_ *model.Payment, err error) {
	if amount <= 0 {
		return nil, makeErr(ErrBadAmount)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	rental, err := s.r.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrRentalNotFound)
		}
		return nil, err
	}
	if rental.UserID != userID {
		return nil, makeErr(ErrNotOwner)
	}
	// A slip only makes sense for a live booking whose payment has not
	// been settled yet. A rejected slip may be replaced with a new one.
	if rental.Status != model.RentalBooked {
		return nil, makeErr(ErrNotAllowed)
	}
	switch rental.PaymentStatus {
	case model.PaymentPending, model.PaymentRejected:
	default:
		return nil, makeErr(ErrNotAllowed)
	}

	payment := &model.Payment{
		RentalID: rentalID,
		Amount:   amount,
		SlipURL:  slipURL,
		Status:   model.SlipVerification,
	}
	if err = s.p.Insert(ctx, tx, payment); err != nil {
		return nil, err
	}
	if err = s.r.SetPaymentStatus(ctx, tx, rentalID, model.PaymentVerification); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *service) Pending(ctx context.Context, date time.Time) ([]PendingRow, error) {
	return s.p.ListForDate(ctx, date)
}

func (s *service) Verify(ctx context.Context, paymentID int64, approved bool) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	payment, err := s.p.GetForUpdate(ctx, tx, paymentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	rental, err := s.r.GetForUpdate(ctx, tx, payment.RentalID)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	cancelled := rental.Status == model.RentalCancelled

	switch {
	case payment.Status == model.SlipVerification:
		if approved {
			if err = s.p.SetStatus(ctx, tx, paymentID, model.SlipPaid, now); err != nil {
				return err
			}
			// Money confirmed received on a cancelled booking means a
			// refund is now owed.
			ps := model.PaymentPaid
			if cancelled {
				ps = model.PaymentRefundPending
			}
			if err = s.r.SetPaymentStatus(ctx, tx, rental.ID, ps); err != nil {
				return err
			}
		} else {
			if err = s.p.SetStatus(ctx, tx, paymentID, model.SlipRejected, now); err != nil {
				return err
			}
			ps := model.PaymentRejected
			if cancelled {
				ps = model.PaymentCancelled
			}
			if err = s.r.SetPaymentStatus(ctx, tx, rental.ID, ps); err != nil {
				return err
			}
		}

	case payment.Status == model.SlipPaid && cancelled:
		// Refund settlement on a cancelled, already-paid rental. The
		// dashboard sends approved=false once the transfer back has
		// been made; approved=true denies the refund claim.
		if approved {
			if err = s.r.SetPaymentStatus(ctx, tx, rental.ID, model.PaymentRefundRejected); err != nil {
				return err
			}
		} else {
			if err = s.p.SetStatus(ctx, tx, paymentID, model.SlipRefunded, now); err != nil {
				return err
			}
			if err = s.r.SetPaymentStatus(ctx, tx, rental.ID, model.PaymentRefunded); err != nil {
				return err
			}
		}

	default:
		return makeErr(ErrNotAllowed)
	}

	return tx.Commit(ctx)
}
