package usersvc

import (
	"context"
	"testing"

	"bookrental/model"
	"bookrental/util/hash"

	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	byIDFn   func(ctx context.Context, id int64) (*model.User, error)
	listFn   func(ctx context.Context) ([]model.User, error)
	updateFn func(ctx context.Context, u *model.User) error
}

var _ Repo = (*mockRepo)(nil)

func (m *mockRepo) ByID(ctx context.Context, id int64) (*model.User, error) {
	return m.byIDFn(ctx, id)
}
func (m *mockRepo) List(ctx context.Context) ([]model.User, error) { return m.listFn(ctx) }
func (m *mockRepo) Update(ctx context.Context, u *model.User) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, u)
}

func TestList(t *testing.T) {
	m := &mockRepo{
		listFn: func(ctx context.Context) ([]model.User, error) {
			return []model.User{
				{ID: 1, Username: "somchai", Email: "somchai@example.com"},
				{ID: 2, Username: "admin", Email: "admin@example.com", Role: "admin"},
			}, nil
		},
	}
	svc := New(m)

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "somchai", users[0].Username)
}

func updateReq() model.UpdateUserReq {
	return model.UpdateUserReq{
		Username:    "somchai",
		Email:       "Somchai@Example.com",
		PhoneNumber: "089-123-4567",
		Address:     "99/1 Sukhumvit Rd. Bangkok",
		Zipcode:     "10110",
	}
}

func TestUpdate_KeepsPasswordWhenEmpty(t *testing.T) {
	stored := &model.User{ID: 7, PasswordHash: "$existing"}
	var saved *model.User
	m := &mockRepo{
		byIDFn: func(ctx context.Context, id int64) (*model.User, error) { return stored, nil },
		updateFn: func(ctx context.Context, u *model.User) error {
			saved = u
			return nil
		},
	}
	svc := New(m)

	u, err := svc.Update(context.Background(), 7, updateReq())
	require.NoError(t, err)
	require.Equal(t, "$existing", u.PasswordHash)
	require.Equal(t, "somchai@example.com", saved.Email)
	require.Equal(t, "0891234567", saved.PhoneNumber)
}

func TestUpdate_RehashesNewPassword(t *testing.T) {
	stored := &model.User{ID: 7, PasswordHash: "$existing"}
	m := &mockRepo{
		byIDFn: func(ctx context.Context, id int64) (*model.User, error) { return stored, nil },
	}
	svc := New(m)

	req := updateReq()
	req.Password = "newsecret"

	u, err := svc.Update(context.Background(), 7, req)
	require.NoError(t, err)
	require.NotEqual(t, "$existing", u.PasswordHash)
	require.True(t, hash.Check(u.PasswordHash, "newsecret"))
}
