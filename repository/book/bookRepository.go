// repository/book/repo.go
package bookrepo

import (
	"context"
	"errors"

	"bookrental/model"
	"bookrental/util/database"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("book not found")

type Repo interface {
	List(ctx context.Context, search string, category string) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

const bookCols = `id, title, author, category, description, cover_image,
       stock_total, stock_available, price_day3, price_day5, price_day7, created_at`

func scanBook(row pgx.Row, b *model.Book) error {
	return row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Category, &b.Description, &b.CoverImage,
		&b.Stock.Total, &b.Stock.Available,
		&b.Pricing.Day3, &b.Pricing.Day5, &b.Pricing.Day7, &b.CreatedAt,
	)
}

func (r *repo) List(ctx context.Context, search, category string) ([]model.Book, error) {
	q := `
		SELECT ` + bookCols + `
		FROM books
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR $2 = ANY(category))
		ORDER BY id DESC`
	rows, err := r.db.Pool.Query(ctx, q, search, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	q := `SELECT ` + bookCols + ` FROM books WHERE id = $1`
	var b model.Book
	if err := scanBook(r.db.Pool.QueryRow(ctx, q, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
		INSERT INTO books (title, author, category, description, cover_image,
		                   stock_total, stock_available, price_day3, price_day5, price_day7)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at`
	return r.db.Pool.QueryRow(ctx, q,
		b.Title, b.Author, b.Category, b.Description, b.CoverImage,
		b.Stock.Total, b.Stock.Available,
		b.Pricing.Day3, b.Pricing.Day5, b.Pricing.Day7,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *repo) Update(ctx context.Context, b *model.Book) error {
	const q = `
		UPDATE books
		SET title = $2, author = $3, category = $4, description = $5, cover_image = $6,
		    stock_total = $7, stock_available = $8,
		    price_day3 = $9, price_day5 = $10, price_day7 = $11
		WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q,
		b.ID, b.Title, b.Author, b.Category, b.Description, b.CoverImage,
		b.Stock.Total, b.Stock.Available,
		b.Pricing.Day3, b.Pricing.Day5, b.Pricing.Day7,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
