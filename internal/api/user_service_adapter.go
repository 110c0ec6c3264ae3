package api

import (
	"github.com/quizmaster/quizmaster/internal/services"
)

type userStoreAdapter struct {
	store Store
}

func newUserStoreAdapter(store Store) services.UserStore {
	return &userStoreAdapter{store: store}
}

func (a *userStoreAdapter) GetUser(id string) (*services.User, error) {
	return toServiceUser(a.store.GetUser(id)), nil
}

func (a *userStoreAdapter) ListUsers() ([]*services.User, error) {
	users := a.store.ListUsers()
	out := make([]*services.User, 0, len(users))
	for _, u := range users {
		out = append(out, toServiceUser(u))
	}
	return out, nil
}

func (a *userStoreAdapter) UpdateUserRole(id, role string) (bool, error) {
	return a.store.UpdateUserRole(id, role), nil
}

func (a *userStoreAdapter) DeleteUserCascade(id string) (bool, error) {
	return a.store.DeleteUserCascade(id), nil
}

func (a *userStoreAdapter) ListResultsByUser(userID string) ([]*services.ResultView, error) {
	results := a.store.ListResultsByUser(userID)
	out := make([]*services.ResultView, 0, len(results))
	for _, r := range results {
		out = append(out, &services.ResultView{
			ID:        r.ID,
			QuizID:    r.QuizID,
			QuizTitle: r.QuizTitle,
			Score:     r.Score,
			Total:     r.Total,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

var _ services.UserStore = (*userStoreAdapter)(nil)
