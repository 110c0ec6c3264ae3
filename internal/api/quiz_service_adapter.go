package api

import (
	"github.com/quizmaster/quizmaster/internal/services"
)

type quizStoreAdapter struct {
	store Store
}

func newQuizStoreAdapter(store Store) services.QuizStore {
	return &quizStoreAdapter{store: store}
}

func toServiceQuiz(q *Quiz) *services.Quiz {
	if q == nil {
		return nil
	}
	questions := make([]services.Question, 0, len(q.Questions))
	for _, sq := range q.Questions {
		questions = append(questions, services.Question{Text: sq.QuestionText, Options: sq.Options, CorrectIndex: sq.CorrectOptionIndex})
	}
	return &services.Quiz{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Questions:   questions,
		CreatedBy:   q.CreatedBy,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func fromServiceQuiz(q *services.Quiz) *Quiz {
	questions := make([]Question, 0, len(q.Questions))
	for _, sq := range q.Questions {
		questions = append(questions, Question{QuestionText: sq.Text, Options: sq.Options, CorrectOptionIndex: sq.CorrectIndex})
	}
	return &Quiz{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Questions:   questions,
		CreatedBy:   q.CreatedBy,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func (a *quizStoreAdapter) InsertQuiz(q *services.Quiz) error {
	if q == nil {
		return services.NewInvalidError("quiz required")
	}
	a.store.AddQuiz(fromServiceQuiz(q))
	return nil
}

func (a *quizStoreAdapter) GetQuiz(id string) (*services.Quiz, error) {
	return toServiceQuiz(a.store.GetQuiz(id)), nil
}

func (a *quizStoreAdapter) ListQuizzes() ([]*services.Quiz, error) {
	quizzes := a.store.ListQuizzes()
	out := make([]*services.Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, toServiceQuiz(q))
	}
	return out, nil
}

func (a *quizStoreAdapter) UpdateQuiz(q *services.Quiz) error {
	if q == nil {
		return services.NewInvalidError("quiz required")
	}
	if !a.store.UpdateQuiz(fromServiceQuiz(q)) {
		return services.NewNotFoundError("quiz not found")
	}
	return nil
}

func (a *quizStoreAdapter) DeleteQuizCascade(id string) (bool, error) {
	return a.store.DeleteQuizCascade(id), nil
}

var _ services.QuizStore = (*quizStoreAdapter)(nil)
