package userrepo

import (
	"context"
	"errors"

	"bookrental/model"
	"bookrental/util/database"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("user not found")

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

const userCols = `id, username, email, password_hash, phone_number, address, zipcode, role, created_at`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.PhoneNumber, &u.Address, &u.Zipcode, &u.Role, &u.CreatedAt,
	)
}

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, phone_number, address, zipcode, role)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`,
		u.Username, u.Email, u.PasswordHash, u.PhoneNumber, u.Address, u.Zipcode, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := scanUser(r.db.Pool.QueryRow(ctx, `
		SELECT `+userCols+`
		FROM users
		WHERE lower(email) = lower($1)`,
		email,
	), u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	u := &model.User{}
	err := scanUser(r.db.Pool.QueryRow(ctx, `
		SELECT `+userCols+`
		FROM users
		WHERE id = $1`,
		id,
	), u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *repo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+userCols+`
		FROM users
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, u *model.User) error {
	const q = `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4,
		    phone_number = $5, address = $6, zipcode = $7
		WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q,
		u.ID, u.Username, u.Email, u.PasswordHash, u.PhoneNumber, u.Address, u.Zipcode,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
