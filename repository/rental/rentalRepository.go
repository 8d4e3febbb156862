// repository/rental/repo.go
package rentalrepo

import (
	"context"
	"time"

	"bookrental/model"
	"bookrental/util/database"

	"github.com/jackc/pgx/v5"
)

// HistoryRow is one rental as shown in the customer history and the
// admin per-member view, joined with its book.
type HistoryRow struct {
	RentalID      int64     `json:"rental_id"`
	BookID        int64     `json:"book_id"`
	BookTitle     string    `json:"book_title"`
	CoverImage    string    `json:"cover_image"`
	Cost          int64     `json:"cost"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Days          int       `json:"days"`
	BorrowDate    time.Time `json:"borrow_date"`
	DueDate       time.Time `json:"due_date"`
	Fine          int64     `json:"fine"`
}

// DashboardRow is one transaction on the admin dashboard.
type DashboardRow struct {
	RentalID      int64     `json:"rental_id"`
	Username      string    `json:"username"`
	UserID        int64     `json:"user_id"`
	BookTitle     string    `json:"book_title"`
	Cost          int64     `json:"cost"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	BorrowDate    time.Time `json:"borrow_date"`
	DueDate       time.Time `json:"due_date"`
}

type Summary struct {
	ActiveBookings int64 `json:"active_bookings"`
	ActiveRentals  int64 `json:"active_rentals"`
	OverdueRentals int64 `json:"overdue_rentals"`
	Revenue        int64 `json:"revenue"`
}

type Repo interface {
	// Books & stock (row-locked, inside the caller's tx)
	GetBookForUpdate(ctx context.Context, tx pgx.Tx, bookID int64) (pricing model.Pricing, available int64, err error)
	DecrementStock(ctx context.Context, tx pgx.Tx, bookID int64) error
	IncrementStock(ctx context.Context, tx pgx.Tx, bookID int64) error

	// Rentals
	Insert(ctx context.Context, tx pgx.Tx, r *model.Rental) error
	GetForUpdate(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error)
	MarkPickedUp(ctx context.Context, tx pgx.Tx, rentalID int64, at time.Time) error
	MarkReturned(ctx context.Context, tx pgx.Tx, rentalID int64, at time.Time, fine int64) error
	MarkCancelled(ctx context.Context, tx pgx.Tx, rentalID int64, at time.Time, ps model.PaymentStatus) error
	SetPaymentStatus(ctx context.Context, tx pgx.Tx, rentalID int64, ps model.PaymentStatus) error

	// Views
	ListByUser(ctx context.Context, userID int64) ([]HistoryRow, error)
	Dashboard(ctx context.Context, date time.Time) ([]DashboardRow, Summary, error)

	// Housekeeping
	ReleaseExpiredBookings(ctx context.Context, cutoff time.Time) (int64, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

// Books & stock

func (r *repo) GetBookForUpdate(ctx context.Context, tx pgx.Tx, bookID int64) (model.Pricing, int64, error) {
	const q = `
		SELECT price_day3, price_day5, price_day7, stock_available
		FROM books
		WHERE id = $1
		FOR UPDATE`
	var p model.Pricing
	var avail int64
	err := tx.QueryRow(ctx, q, bookID).Scan(&p.Day3, &p.Day5, &p.Day7, &avail)
	return p, avail, err
}

func (r *repo) DecrementStock(ctx context.Context, tx pgx.Tx, bookID int64) error {
	// Guard: only decrement while stock remains.
	const q = `
		UPDATE books
		SET stock_available = stock_available - 1
		WHERE id = $1
		  AND stock_available > 0`
	tag, err := tx.Exec(ctx, q, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repo) IncrementStock(ctx context.Context, tx pgx.Tx, bookID int64) error {
	const q = `
		UPDATE books
		SET stock_available = LEAST(stock_available + 1, stock_total)
		WHERE id = $1`
	_, err := tx.Exec(ctx, q, bookID)
	return err
}

// Rentals

func (r *repo) Insert(ctx context.Context, tx pgx.Tx, m *model.Rental) error {
	const q = `
		INSERT INTO rentals (user_id, book_id, status, payment_status, days, cost, borrow_date, due_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at`
	return tx.QueryRow(ctx, q,
		m.UserID, m.BookID, m.Status, m.PaymentStatus, m.Days, m.Cost, m.BorrowDate, m.DueDate,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *repo) GetForUpdate(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error) {
	const q = `
		SELECT id, user_id, book_id, status, payment_status, days, cost,
		       borrow_date, due_date, fine, picked_up_at, returned_at, cancelled_at, created_at
		FROM rentals
		WHERE id = $1
		FOR UPDATE`
	var m model.Rental
	err := tx.QueryRow(ctx, q, rentalID).Scan(
		&m.ID, &m.UserID, &m.BookID, &m.Status, &m.PaymentStatus, &m.Days, &m.Cost,
		&m.BorrowDate, &m.DueDate, &m.Fine, &m.PickedUpAt, &m.ReturnedAt, &m.CancelledAt, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repo) MarkPickedUp(ctx context.Context, tx pgx.Tx, rentalID int64, at time.Time) error {
	const q = `
		UPDATE rentals
		SET status = 'rented',
		    picked_up_at = $2
		WHERE id = $1`
	_, err := tx.Exec(ctx, q, rentalID, at)
	return err
}

func (r *repo) MarkReturned(ctx context.Context, tx pgx.Tx, rentalID int64, at time.Time, fine int64) error {
	const q = `
		UPDATE rentals
		SET status = 'returned',
		    returned_at = $2,
		    fine = $3
		WHERE id = $1`
	_, err := tx.Exec(ctx, q, rentalID, at, fine)
	return err
}

func (r *repo) MarkCancelled(ctx context.Context, tx pgx.Tx, rentalID int64, at time.Time, ps model.PaymentStatus) error {
	const q = `
		UPDATE rentals
		SET status = 'cancelled',
		    cancelled_at = $2,
		    payment_status = $3
		WHERE id = $1`
	_, err := tx.Exec(ctx, q, rentalID, at, ps)
	return err
}

func (r *repo) SetPaymentStatus(ctx context.Context, tx pgx.Tx, rentalID int64, ps model.PaymentStatus) error {
	const q = `
		UPDATE rentals
		SET payment_status = $2
		WHERE id = $1`
	_, err := tx.Exec(ctx, q, rentalID, ps)
	return err
}

// ReleaseExpiredBookings cancels bookings whose payment never arrived
// before the cutoff and puts their copies back on the shelf. One
// statement, so no caller-owned transaction is needed.
func (r *repo) ReleaseExpiredBookings(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
		WITH released AS (
			UPDATE rentals
			SET status = 'cancelled',
			    payment_status = 'cancelled',
			    cancelled_at = now()
			WHERE status = 'booked'
			  AND payment_status = 'pending'
			  AND created_at < $1
			RETURNING book_id
		), restocked AS (
			UPDATE books b
			SET stock_available = LEAST(b.stock_available + rel.n, b.stock_total)
			FROM (SELECT book_id, COUNT(*) AS n FROM released GROUP BY book_id) rel
			WHERE b.id = rel.book_id
		)
		SELECT COUNT(*) FROM released`
	var n int64
	err := r.db.Pool.QueryRow(ctx, q, cutoff).Scan(&n)
	return n, err
}

// Views

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]HistoryRow, error) {
	const q = `
		SELECT
			r.id             AS rental_id,
			r.book_id        AS book_id,
			b.title          AS book_title,
			b.cover_image    AS cover_image,
			r.cost           AS cost,
			r.status         AS status,
			r.payment_status AS payment_status,
			r.days           AS days,
			r.borrow_date    AS borrow_date,
			r.due_date       AS due_date,
			r.fine           AS fine
		FROM rentals r
		JOIN books b ON b.id = r.book_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(
			&h.RentalID, &h.BookID, &h.BookTitle, &h.CoverImage,
			&h.Cost, &h.Status, &h.PaymentStatus, &h.Days,
			&h.BorrowDate, &h.DueDate, &h.Fine,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *repo) Dashboard(ctx context.Context, date time.Time) ([]DashboardRow, Summary, error) {
	day := date.Format("2006-01-02")

	const qRows = `
		SELECT
			r.id             AS rental_id,
			u.username       AS username,
			u.id             AS user_id,
			b.title          AS book_title,
			r.cost           AS cost,
			r.status         AS status,
			r.payment_status AS payment_status,
			r.borrow_date    AS borrow_date,
			r.due_date       AS due_date
		FROM rentals r
		JOIN users u ON u.id = r.user_id
		JOIN books b ON b.id = r.book_id
		WHERE r.created_at::date = $1::date
		   OR r.status = 'rented'
		ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.Pool.Query(ctx, qRows, day)
	if err != nil {
		return nil, Summary{}, err
	}
	defer rows.Close()

	var out []DashboardRow
	for rows.Next() {
		var d DashboardRow
		if err := rows.Scan(
			&d.RentalID, &d.Username, &d.UserID, &d.BookTitle,
			&d.Cost, &d.Status, &d.PaymentStatus, &d.BorrowDate, &d.DueDate,
		); err != nil {
			return nil, Summary{}, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, Summary{}, err
	}

	const qSummary = `
		SELECT
			(SELECT COUNT(*) FROM rentals WHERE status = 'booked' AND created_at::date = $1::date),
			(SELECT COUNT(*) FROM rentals WHERE status = 'rented'),
			(SELECT COUNT(*) FROM rentals WHERE status = 'rented' AND due_date::date < $1::date),
			COALESCE((SELECT SUM(amount) FROM payments WHERE status = 'paid' AND verified_at::date = $1::date), 0)`
	var s Summary
	if err := r.db.Pool.QueryRow(ctx, qSummary, day).Scan(
		&s.ActiveBookings, &s.ActiveRentals, &s.OverdueRentals, &s.Revenue,
	); err != nil {
		return nil, Summary{}, err
	}

	return out, s, nil
}
