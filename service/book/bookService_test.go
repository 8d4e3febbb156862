package booksvc_test

import (
	"context"
	"errors"
	"testing"

	"bookrental/model"
	bookrepo "bookrental/repository/book"
	booksvc "bookrental/service/book"
)

type repoMock struct {
	listFn   func(ctx context.Context, search, category string) ([]model.Book, error)
	detailFn func(ctx context.Context, id int64) (*model.Book, error)
	createFn func(ctx context.Context, b *model.Book) error
	updateFn func(ctx context.Context, b *model.Book) error
	deleteFn func(ctx context.Context, id int64) error
}

func (m *repoMock) List(ctx context.Context, search, category string) ([]model.Book, error) {
	return m.listFn(ctx, search, category)
}
func (m *repoMock) Detail(ctx context.Context, id int64) (*model.Book, error) {
	return m.detailFn(ctx, id)
}
func (m *repoMock) Create(ctx context.Context, b *model.Book) error { return m.createFn(ctx, b) }
func (m *repoMock) Update(ctx context.Context, b *model.Book) error { return m.updateFn(ctx, b) }
func (m *repoMock) Delete(ctx context.Context, id int64) error      { return m.deleteFn(ctx, id) }

func validBook() *model.Book {
	return &model.Book{
		Title:   "Clean Code",
		Author:  "Robert C. Martin",
		Pricing: model.Pricing{Day3: 50, Day5: 70, Day7: 90},
		Stock:   model.Stock{Total: 5, Available: 5},
	}
}

func TestValidate(t *testing.T) {
	if err := booksvc.Validate(validBook()); err != nil {
		t.Fatalf("valid book rejected: %v", err)
	}

	b := validBook()
	b.Title = "  "
	if err := booksvc.Validate(b); !errors.Is(err, booksvc.ErrBadInput) {
		t.Fatalf("blank title: got %v; want ErrBadInput", err)
	}

	b = validBook()
	b.Pricing = model.Pricing{Day3: 70, Day5: 70, Day7: 90}
	if err := booksvc.Validate(b); !errors.Is(err, booksvc.ErrBadPricing) {
		t.Fatalf("day3 == day5: got %v; want ErrBadPricing", err)
	}

	b = validBook()
	b.Pricing = model.Pricing{Day3: 50, Day5: 90, Day7: 70}
	if err := booksvc.Validate(b); !errors.Is(err, booksvc.ErrBadPricing) {
		t.Fatalf("day7 < day5: got %v; want ErrBadPricing", err)
	}

	b = validBook()
	b.Pricing.Day3 = 0
	if err := booksvc.Validate(b); !errors.Is(err, booksvc.ErrBadPricing) {
		t.Fatalf("zero day3: got %v; want ErrBadPricing", err)
	}

	b = validBook()
	b.Stock = model.Stock{Total: 3, Available: 4}
	if err := booksvc.Validate(b); !errors.Is(err, booksvc.ErrBadStock) {
		t.Fatalf("available > total: got %v; want ErrBadStock", err)
	}
}

func TestCreate_DefaultsCategory(t *testing.T) {
	var got *model.Book
	m := &repoMock{
		createFn: func(ctx context.Context, b *model.Book) error {
			got = b
			return nil
		},
	}
	s := booksvc.New(m)

	if err := s.Create(context.Background(), validBook()); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.Category == nil {
		t.Fatal("nil category should be normalized to empty slice")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	m := &repoMock{
		updateFn: func(ctx context.Context, b *model.Book) error { return bookrepo.ErrNotFound },
	}
	s := booksvc.New(m)

	if err := s.Update(context.Background(), validBook()); !errors.Is(err, booksvc.ErrNotFound) {
		t.Fatalf("got %v; want ErrNotFound", err)
	}
}

func TestPassThroughs(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context, search, category string) ([]model.Book, error) {
			return []model.Book{{ID: 1}}, nil
		},
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error { return nil },
	}
	s := booksvc.New(m)

	if out, err := s.List(context.Background(), "clean", "programming"); err != nil || len(out) != 1 {
		t.Fatalf("List got %v %v; want one book", out, err)
	}
	if b, err := s.Detail(context.Background(), 99); err != nil || b.ID != 99 {
		t.Fatalf("Detail got %v %v", b, err)
	}
	if err := s.Delete(context.Background(), 99); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDetail_NotFound(t *testing.T) {
	m := &repoMock{
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return nil, bookrepo.ErrNotFound
		},
	}
	s := booksvc.New(m)

	if _, err := s.Detail(context.Background(), 99); !errors.Is(err, booksvc.ErrNotFound) {
		t.Fatalf("got %v; want ErrNotFound", err)
	}
}
