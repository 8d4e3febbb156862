package authsvc

import (
	"context"
	"errors"
	"strings"

	"bookrental/model"
	"bookrental/util/hash"
	jwtutil "bookrental/util/jwt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
	ErrBadInput      = errors.New("bad input")
	ErrInvalidCreds  = errors.New("invalid credentials")
)

const tokenTTLHours = 24

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
}

type service struct {
	ur     Repo
	secret string
}

func New(ur Repo, secret string) Service { return &service{ur: ur, secret: secret} }

// CleanPhone strips spaces and dashes the way the storefront forms do
// before the pattern check.
func CleanPhone(s string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(s)
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" || username == "" || len(req.Password) < 6 {
		return nil, "", ErrBadInput
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		PhoneNumber:  CleanPhone(req.PhoneNumber),
		Address:      strings.TrimSpace(req.Address),
		Zipcode:      req.Zipcode,
		Role:         "user",
	}

	if err := s.ur.Create(ctx, u); err != nil {
		if derr := MapDuplicateErr(err); derr != nil {
			return nil, "", derr
		}
		return nil, "", err
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.Role, tokenTTLHours)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", ErrBadInput
	}

	u, err := s.ur.ByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, "", ErrInvalidCreds
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCreds
	}
	token, err := jwtutil.Issue(s.secret, u.ID, u.Role, tokenTTLHours)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// MapDuplicateErr turns a unique-violation into the matching sentinel,
// or nil when the error is something else.
func MapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)

		if strings.Contains(cn, "users_email") || strings.Contains(msg, "email") {
			return ErrEmailTaken
		}
		if strings.Contains(cn, "users_username") || strings.Contains(msg, "username") {
			return ErrUsernameTaken
		}
		return ErrBadInput
	}
	return nil
}
