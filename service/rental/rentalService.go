package rentalsvc

import (
	"context"
	"errors"
	"time"

	"bookrental/model"
	rentalrepo "bookrental/repository/rental"

	"github.com/jackc/pgx/v5"
)

// errors used by controllers

type ErrCode string

const (
	ErrNoStock      ErrCode = "NO_STOCK"
	ErrBookNotFound ErrCode = "BOOK_NOT_FOUND"
	ErrInvalidDays  ErrCode = "INVALID_DAYS"
	ErrNotOwner     ErrCode = "NOT_OWNER"
	ErrNotAllowed   ErrCode = "STATE_NOT_ALLOWED"
	ErrNotFound     ErrCode = "NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// row shapes come from the repository
type (
	HistoryRow   = rentalrepo.HistoryRow
	DashboardRow = rentalrepo.DashboardRow
	Summary      = rentalrepo.Summary
)

// HistoryItem is a history row plus the derived overdue state. Overdue
// is never stored; it is recomputed from the due date every time.
type HistoryItem struct {
	HistoryRow
	Overdue     bool  `json:"overdue"`
	AccruedFine int64 `json:"accrued_fine"`
}

// Beginner starts transactions; satisfied by *pgxpool.Pool.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repo interface {
	GetBookForUpdate(ctx context.Context, tx pgx.Tx, bookID int64) (pricing model.Pricing, available int64, err error)
	DecrementStock(ctx context.Context, tx pgx.Tx, bookID int64) error
	IncrementStock(ctx context.Context, tx pgx.Tx, bookID int64) error

	Insert(ctx context.Context, tx pgx.Tx, r *model.Rental) error
	GetForUpdate(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error)
	MarkPickedUp(ctx context.Context, tx pgx.Tx, rentalID int64, at time.Time) error
	MarkReturned(ctx context.Context, tx pgx.Tx, rentalID int64, at time.Time, fine int64) error
	MarkCancelled(ctx context.Context, tx pgx.Tx, rentalID int64, at time.Time, ps model.PaymentStatus) error
	SetPaymentStatus(ctx context.Context, tx pgx.Tx, rentalID int64, ps model.PaymentStatus) error

	ListByUser(ctx context.Context, userID int64) ([]HistoryRow, error)
	Dashboard(ctx context.Context, date time.Time) ([]DashboardRow, Summary, error)
}

type Service interface {
	// Rent books one copy for 3, 5 or 7 days at the tier price.
	Rent(ctx context.Context, userID, bookID int64, days int) (*model.Rental, error)

	// Cancel is customer-only and permitted solely while status=booked.
	Cancel(ctx context.Context, userID, rentalID int64) error

	// Pickup confirms the physical handover: booked+paid -> rented.
	Pickup(ctx context.Context, rentalID int64) error

	// Return restocks the copy and records the accrued fine, if any.
	Return(ctx context.Context, rentalID int64) (fine int64, err error)

	MyHistory(ctx context.Context, userID int64) ([]HistoryItem, error)
	UserHistory(ctx context.Context, userID int64) ([]HistoryItem, error)
	Dashboard(ctx context.Context, date time.Time) ([]DashboardRow, Summary, error)
}

// ----- Service implementation -----

type service struct {
	db  Beginner
	r   Repo
	now func() time.Time
}

func New(db Beginner, r Repo) Service {
	return &service{db: db, r: r, now: time.Now}
}

func (s *service) Rent(ctx context.Context, userID, bookID int64, days int) (_ *model.Rental, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	pricing, available, err := s.r.GetBookForUpdate(ctx, tx, bookID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}

	cost, ok := pricing.ForDays(days)
	if !ok {
		return nil, makeErr(ErrInvalidDays)
	}
	if available <= 0 {
		return nil, makeErr(ErrNoStock)
	}
	if err = s.r.DecrementStock(ctx, tx, bookID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrNoStock)
		}
		return nil, err
	}

	now := s.now().UTC()
	rental := &model.Rental{
		UserID:        userID,
		BookID:        bookID,
		Status:        model.RentalBooked,
		PaymentStatus: model.PaymentPending,
		Days:          days,
		Cost:          cost,
		BorrowDate:    now,
		DueDate:       now.AddDate(0, 0, days),
	}
	if err = s.r.Insert(ctx, tx, rental); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *service) Cancel(ctx context.Context, userID, rentalID int64) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	rental, err := s.r.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if rental.UserID != userID {
		return makeErr(ErrNotOwner)
	}
	if !CanCancel(rental.Status) {
		return makeErr(ErrNotAllowed)
	}

	ps := cancelPaymentStatus(rental.PaymentStatus)
	if err = s.r.MarkCancelled(ctx, tx, rentalID, s.now().UTC(), ps); err != nil {
		return err
	}
	if err = s.r.IncrementStock(ctx, tx, rental.BookID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *service) Pickup(ctx context.Context, rentalID int64) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	rental, err := s.r.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if !CanPickup(rental.Status, rental.PaymentStatus) {
		return makeErr(ErrNotAllowed)
	}
	if err = s.r.MarkPickedUp(ctx, tx, rentalID, s.now().UTC()); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *service) Return(ctx context.Context, rentalID int64) (fine int64, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	rental, err := s.r.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, makeErr(ErrNotFound)
		}
		return 0, err
	}
	if !CanReturn(rental.Status) {
		return 0, makeErr(ErrNotAllowed)
	}

	now := s.now().UTC()
	fine = FineFor(rental.DueDate, now)
	if err = s.r.MarkReturned(ctx, tx, rentalID, now, fine); err != nil {
		return 0, err
	}
	if err = s.r.IncrementStock(ctx, tx, rental.BookID); err != nil {
		return 0, err
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}
	return fine, nil
}

func (s *service) MyHistory(ctx context.Context, userID int64) ([]HistoryItem, error) {
	return s.history(ctx, userID)
}

// UserHistory is the admin view of one member's rentals; same shape as
// the customer's own history.
func (s *service) UserHistory(ctx context.Context, userID int64) ([]HistoryItem, error) {
	return s.history(ctx, userID)
}

func (s *service) history(ctx context.Context, userID int64) ([]HistoryItem, error) {
	rows, err := s.r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]HistoryItem, 0, len(rows))
	for _, h := range rows {
		item := HistoryItem{HistoryRow: h, AccruedFine: h.Fine}
		if h.Status == string(model.RentalRented) {
			item.Overdue = Overdue(h.DueDate, now)
			item.AccruedFine = FineFor(h.DueDate, now)
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *service) Dashboard(ctx context.Context, date time.Time) ([]DashboardRow, Summary, error) {
	return s.r.Dashboard(ctx, date)
}
