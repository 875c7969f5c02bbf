package fakestore

import (
	"context"

	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

// UserReadStore serves committed users to queries.UserReadStore consumers.
func (s *Store) UserReadStore() queries.UserReadStore {
	return userReadStore{s}
}

type userReadStore struct{ s *Store }

func toUserView(u *user.User) *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       u.ID(),
		Email:    u.Email().Value(),
		Role:     u.Role().String(),
		IsActive: u.IsActive(),
	}
}

func (r userReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.state.users[id]
	if !ok {
		return nil, notFound("user not found")
	}
	return toUserView(u), nil
}

func (r userReadStore) FindByEmail(_ context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.state.users {
		if u.Email().Value() == email {
			return toUserView(u), u.PasswordHash(), nil
		}
	}
	return nil, "", notFound("user not found")
}
