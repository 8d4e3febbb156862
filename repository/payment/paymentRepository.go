// repository/payment/repo.go
package paymentrepo

import (
	"context"
	"time"

	"bookrental/model"
	"bookrental/util/database"

	"github.com/jackc/pgx/v5"
)

// PendingRow is one slip awaiting review, joined with its rental,
// customer and book so the dashboard can render it in one pass.
type PendingRow struct {
	PaymentID     int64      `json:"payment_id"`
	Amount        int64      `json:"amount"`
	SlipURL       string     `json:"slip_url"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	RentalID      int64      `json:"rental_id"`
	RentalStatus  string     `json:"rental_status"`
	PaymentStatus string     `json:"rental_payment_status"`
	UserID        int64      `json:"user_id"`
	Username      string     `json:"username"`
	BookTitle     string     `json:"book_title"`
}

type Repo interface {
	Insert(ctx context.Context, tx pgx.Tx, p *model.Payment) error
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Payment, error)
	SetStatus(ctx context.Context, tx pgx.Tx, id int64, status model.SlipStatus, verifiedAt time.Time) error
	ListForDate(ctx context.Context, date time.Time) ([]PendingRow, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, tx pgx.Tx, p *model.Payment) error {
	const q = `
		INSERT INTO payments (rental_id, amount, slip_url, status)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`
	return tx.QueryRow(ctx, q, p.RentalID, p.Amount, p.SlipURL, p.Status).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *repo) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Payment, error) {
	const q = `
		SELECT id, rental_id, amount, slip_url, status, created_at, verified_at
		FROM payments
		WHERE id = $1
		FOR UPDATE`
	var p model.Payment
	err := tx.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.RentalID, &p.Amount, &p.SlipURL, &p.Status, &p.CreatedAt, &p.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) SetStatus(ctx context.Context, tx pgx.Tx, id int64, status model.SlipStatus, verifiedAt time.Time) error {
	const q = `
		UPDATE payments
		SET status = $2,
		    verified_at = $3
		WHERE id = $1`
	_, err := tx.Exec(ctx, q, id, status, verifiedAt)
	return err
}

func (r *repo) ListForDate(ctx context.Context, date time.Time) ([]PendingRow, error) {
	const q = `
		SELECT
			p.id             AS payment_id,
			p.amount         AS amount,
			p.slip_url       AS slip_url,
			p.status         AS status,
			p.created_at     AS created_at,
			p.verified_at    AS verified_at,
			r.id             AS rental_id,
			r.status         AS rental_status,
			r.payment_status AS rental_payment_status,
			u.id             AS user_id,
			u.username       AS username,
			b.title          AS book_title
		FROM payments p
		JOIN rentals r ON r.id = p.rental_id
		JOIN users u   ON u.id = r.user_id
		JOIN books b   ON b.id = r.book_id
		WHERE p.created_at::date = $1::date
		ORDER BY p.created_at DESC, p.id DESC`
	rows, err := r.db.Pool.Query(ctx, q, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingRow
	for rows.Next() {
		var p PendingRow
		if err := rows.Scan(
			&p.PaymentID, &p.Amount, &p.SlipURL, &p.Status, &p.CreatedAt, &p.VerifiedAt,
			&p.RentalID, &p.RentalStatus, &p.PaymentStatus,
			&p.UserID, &p.Username, &p.BookTitle,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
