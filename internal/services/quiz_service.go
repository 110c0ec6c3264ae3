package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type QuizStore interface {
	InsertQuiz(q *Quiz) error
	GetQuiz(id string) (*Quiz, error)
	ListQuizzes() ([]*Quiz, error)
	UpdateQuiz(q *Quiz) error
	DeleteQuizCascade(id string) (bool, error)
}

type QuizService struct {
	store QuizStore
	now   func() time.Time
	idGen func(prefix string, n int) string
}

// QuizUpdate carries a partial update: nil pointer fields are left untouched,
// a non-nil Questions slice replaces the whole question set.
type QuizUpdate struct {
	Title       *string
	Description *string
	Questions   []Question
}

func NewQuizService(store QuizStore) *QuizService {
	return &QuizService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func(prefix string, n int) string { return prefix + shortID(n) },
	}
}

func validateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return NewInvalidError("a quiz must have at least one question")
	}
	for _, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return NewInvalidError("each question needs text, at least two non-empty options, and a selected correct answer")
		}
		if len(q.Options) < 2 {
			return NewInvalidError("each question needs text, at least two non-empty options, and a selected correct answer")
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return NewInvalidError("each question needs text, at least two non-empty options, and a selected correct answer")
			}
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return NewInvalidError("correct option index is out of bounds")
		}
	}
	return nil
}

func (s *QuizService) Create(createdBy, title, description string, questions []Question) (*Quiz, error) {
	if strings.TrimSpace(createdBy) == "" {
		return nil, NewForbiddenError("unauthorized")
	}
	if strings.TrimSpace(title) == "" {
		return nil, NewInvalidError("please enter a quiz title and at least one question")
	}
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}
	now := s.now()
	q := &Quiz{
		ID:          s.idGen("q", 8),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Questions:   questions,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertQuiz(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuizService) Get(id string) (*Quiz, error) {
	q, err := s.store.GetQuiz(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, NewNotFoundError("quiz not found")
	}
	return q, nil
}

func (s *QuizService) List() ([]*Quiz, error) {
	return s.store.ListQuizzes()
}

// Update applies a partial update. A provided questions array replaces the
// existing one and is re-validated with the same rules as Create.
// Concurrent updates follow last-writer-wins; there is no version check.
func (s *QuizService) Update(id string, upd QuizUpdate) (*Quiz, error) {
	q, err := s.store.GetQuiz(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, NewNotFoundError("quiz not found")
	}
	updated := *q
	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return nil, NewInvalidError("quiz title must not be empty")
		}
		updated.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		updated.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Questions != nil {
		if err := validateQuestions(upd.Questions); err != nil {
			return nil, err
		}
		updated.Questions = upd.Questions
	}
	updated.UpdatedAt = s.now()
	if err := s.store.UpdateQuiz(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the quiz together with every result referencing it.
func (s *QuizService) Delete(id string) error {
	ok, err := s.store.DeleteQuizCascade(id)
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("quiz not found")
	}
	return nil
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
