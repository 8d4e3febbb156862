package booksvc

import (
	"context"
	"errors"
	"strings"

	"bookrental/model"
	bookrepo "bookrental/repository/book"
)

var (
	ErrBadPricing = errors.New("pricing tiers must satisfy 0 < day3 < day5 < day7")
	ErrBadStock   = errors.New("stock available must not exceed total")
	ErrBadInput   = errors.New("title and author are required")
	ErrNotFound   = errors.New("book not found")
)

type Repo interface {
	List(ctx context.Context, search string, category string) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error
}

type Service interface {
	List(ctx context.Context, search, category string) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

// Validate enforces the authoring invariants regardless of what the
// HTTP layer already checked.
func Validate(b *model.Book) error {
	if strings.TrimSpace(b.Title) == "" || strings.TrimSpace(b.Author) == "" {
		return ErrBadInput
	}
	p := b.Pricing
	if p.Day3 <= 0 || p.Day3 >= p.Day5 || p.Day5 >= p.Day7 {
		return ErrBadPricing
	}
	if b.Stock.Total < 0 || b.Stock.Available < 0 || b.Stock.Available > b.Stock.Total {
		return ErrBadStock
	}
	return nil
}

func (s *service) Create(ctx context.Context, b *model.Book) error {
	if err := Validate(b); err != nil {
		return err
	}
	if b.Category == nil {
		b.Category = []string{}
	}
	return s.r.Create(ctx, b)
}

func (s *service) Update(ctx context.Context, b *model.Book) error {
	if err := Validate(b); err != nil {
		return err
	}
	if b.Category == nil {
		b.Category = []string{}
	}
	if err := s.r.Update(ctx, b); err != nil {
		if errors.Is(err, bookrepo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, bookrepo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context, search, category string) ([]model.Book, error) {
	return s.r.List(ctx, search, category)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, bookrepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}
