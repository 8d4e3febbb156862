package usersvc

import (
	"context"
	"errors"
	"strings"

	"bookrental/model"
	userrepo "bookrental/repository/user"
	authsvc "bookrental/service/auth"
	"bookrental/util/hash"
)

var ErrNotFound = errors.New("user not found")

type Repo interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
}

type Service interface {
	Get(ctx context.Context, id int64) (*model.User, error)

	// List returns every member for the admin back-office.
	List(ctx context.Context) ([]model.User, error)

	// Update edits a profile; the password only changes when the
	// request carries a new one.
	Update(ctx context.Context, id int64, req model.UpdateUserReq) (*model.User, error)
}

type service struct{ ur Repo }

func New(ur Repo) Service { return &service{ur: ur} }

func (s *service) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.ur.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *service) List(ctx context.Context) ([]model.User, error) {
	return s.ur.List(ctx)
}

func (s *service) Update(ctx context.Context, id int64, req model.UpdateUserReq) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Username = strings.TrimSpace(req.Username)
	u.Email = strings.ToLower(strings.TrimSpace(req.Email))
	u.PhoneNumber = authsvc.CleanPhone(req.PhoneNumber)
	u.Address = strings.TrimSpace(req.Address)
	u.Zipcode = req.Zipcode

	if req.Password != "" {
		hashed, err := hash.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hashed
	}

	if err := s.ur.Update(ctx, u); err != nil {
		if derr := authsvc.MapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
