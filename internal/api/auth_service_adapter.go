package api

import (
	"github.com/quizmaster/quizmaster/internal/services"
)

type authStoreAdapter struct {
	store Store
}

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func toServiceUser(u *User) *services.User {
	if u == nil {
		return nil
	}
	return &services.User{ID: u.ID, Username: u.Username, Email: u.Email, PassHash: u.PassHash, Role: u.Role, CreatedAt: u.CreatedAt}
}

func fromServiceUser(u *services.User) *User {
	return &User{ID: u.ID, Username: u.Username, Email: u.Email, PassHash: u.PassHash, Role: u.Role, CreatedAt: u.CreatedAt}
}

func (a *authStoreAdapter) FindUserByEmail(email string) (*services.User, error) {
	return toServiceUser(a.store.FindUserByEmail(email)), nil
}

func (a *authStoreAdapter) FindUserByUsername(username string) (*services.User, error) {
	return toServiceUser(a.store.FindUserByUsername(username)), nil
}

func (a *authStoreAdapter) AddUser(u *services.User) error {
	if u == nil {
		return services.NewInvalidError("user required")
	}
	a.store.AddUser(fromServiceUser(u))
	return nil
}

var _ services.AuthStore = (*authStoreAdapter)(nil)
