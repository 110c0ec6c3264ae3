package services

import (
	"testing"
	"time"
)

type quizStubStore struct {
	quizzes map[string]*Quiz
	order   []string
}

func newQuizStubStore() *quizStubStore {
	return &quizStubStore{quizzes: map[string]*Quiz{}}
}

func (s *quizStubStore) InsertQuiz(q *Quiz) error {
	copy := *q
	s.quizzes[q.ID] = &copy
	s.order = append(s.order, q.ID)
	return nil
}

func (s *quizStubStore) GetQuiz(id string) (*Quiz, error) {
	if q, ok := s.quizzes[id]; ok {
		copy := *q
		return &copy, nil
	}
	return nil, nil
}

func (s *quizStubStore) ListQuizzes() ([]*Quiz, error) {
	out := make([]*Quiz, 0, len(s.order))
	for _, id := range s.order {
		copy := *s.quizzes[id]
		out = append(out, &copy)
	}
	return out, nil
}

func (s *quizStubStore) UpdateQuiz(q *Quiz) error {
	copy := *q
	s.quizzes[q.ID] = &copy
	return nil
}

func (s *quizStubStore) DeleteQuizCascade(id string) (bool, error) {
	if _, ok := s.quizzes[id]; !ok {
		return false, nil
	}
	delete(s.quizzes, id)
	return true, nil
}

func capitalsQuestions() []Question {
	return []Question{
		{Text: "Capital of France?", Options: []string{"Paris", "Lyon", "Rome"}, CorrectIndex: 0},
	}
}

func TestQuizCreateAndGet(t *testing.T) {
	store := newQuizStubStore()
	svc := NewQuizService(store)
	svc.now = func() time.Time { return time.Unix(100, 0).UTC() }

	q, err := svc.Create("u1", "Capitals", "European capitals", capitalsQuestions())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if q.ID == "" || q.CreatedBy != "u1" {
		t.Fatalf("unexpected quiz: %+v", q)
	}
	got, err := svc.Get(q.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != "Capitals" || len(got.Questions) != 1 {
		t.Fatalf("unexpected quiz from Get: %+v", got)
	}
	if _, err := svc.Get("missing"); err == nil {
		t.Fatalf("expected not found for missing quiz")
	}
}

func TestQuizCreateValidation(t *testing.T) {
	store := newQuizStubStore()
	svc := NewQuizService(store)

	cases := []struct {
		name      string
		title     string
		questions []Question
	}{
		{"empty title", "", capitalsQuestions()},
		{"no questions", "Capitals", nil},
		{"empty question text", "Capitals", []Question{{Text: " ", Options: []string{"a", "b"}, CorrectIndex: 0}}},
		{"single option", "Capitals", []Question{{Text: "Q", Options: []string{"a"}, CorrectIndex: 0}}},
		{"blank option", "Capitals", []Question{{Text: "Q", Options: []string{"a", " "}, CorrectIndex: 0}}},
		{"index out of bounds", "Capitals", []Question{{Text: "Q", Options: []string{"a", "b"}, CorrectIndex: 2}}},
		{"negative index", "Capitals", []Question{{Text: "Q", Options: []string{"a", "b"}, CorrectIndex: -1}}},
	}
	for _, tc := range cases {
		if _, err := svc.Create("u1", tc.title, "", tc.questions); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		} else if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
			t.Fatalf("%s: expected invalid code, got %v", tc.name, err)
		}
	}
}

func TestQuizPartialUpdate(t *testing.T) {
	store := newQuizStubStore()
	svc := NewQuizService(store)

	q, err := svc.Create("u1", "Capitals", "old description", capitalsQuestions())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	title := "World Capitals"
	updated, err := svc.Update(q.ID, QuizUpdate{Title: &title})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "World Capitals" || updated.Description != "old description" {
		t.Fatalf("partial update touched unrelated fields: %+v", updated)
	}

	newQs := []Question{
		{Text: "Capital of Italy?", Options: []string{"Rome", "Milan"}, CorrectIndex: 0},
		{Text: "Capital of Spain?", Options: []string{"Seville", "Madrid"}, CorrectIndex: 1},
	}
	updated, err = svc.Update(q.ID, QuizUpdate{Questions: newQs})
	if err != nil {
		t.Fatalf("Update with questions returned error: %v", err)
	}
	if len(updated.Questions) != 2 {
		t.Fatalf("expected full question replacement, got %d", len(updated.Questions))
	}

	bad := []Question{{Text: "Q", Options: []string{"only"}, CorrectIndex: 0}}
	if _, err := svc.Update(q.ID, QuizUpdate{Questions: bad}); err == nil {
		t.Fatalf("expected validation error on invalid replacement questions")
	}

	if _, err := svc.Update("missing", QuizUpdate{Title: &title}); err == nil {
		t.Fatalf("expected not found for missing quiz")
	}
}

func TestQuizDelete(t *testing.T) {
	store := newQuizStubStore()
	svc := NewQuizService(store)

	q, _ := svc.Create("u1", "Capitals", "", capitalsQuestions())
	if err := svc.Delete(q.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(q.ID); err == nil {
		t.Fatalf("expected not found on second delete")
	}
}
