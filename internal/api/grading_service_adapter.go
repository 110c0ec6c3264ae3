package api

import (
	"github.com/quizmaster/quizmaster/internal/services"
)

type gradingStoreAdapter struct {
	store Store
}

func newGradingStoreAdapter(store Store) services.GradingStore {
	return &gradingStoreAdapter{store: store}
}

func (a *gradingStoreAdapter) GetQuiz(id string) (*services.Quiz, error) {
	return toServiceQuiz(a.store.GetQuiz(id)), nil
}

func (a *gradingStoreAdapter) AddResult(r *services.Result) error {
	if r == nil {
		return services.NewInvalidError("result required")
	}
	a.store.AddResult(&Result{ID: r.ID, UserID: r.UserID, QuizID: r.QuizID, Score: r.Score, Total: r.Total, CreatedAt: r.CreatedAt})
	return nil
}

var _ services.GradingStore = (*gradingStoreAdapter)(nil)
