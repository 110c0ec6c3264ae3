package api

import (
	"testing"
	"time"
)

func seedStore(t *testing.T) *memoryStore {
	t.Helper()
	s := newMemoryStore()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.AddUser(&User{ID: "u1", Username: "alice", Email: "a@x.com", Role: "user", CreatedAt: base})
	s.AddUser(&User{ID: "u2", Username: "bob", Email: "b@x.com", Role: "user", CreatedAt: base.Add(time.Minute)})
	s.AddQuiz(&Quiz{ID: "q1", Title: "Capitals", CreatedBy: "admin", CreatedAt: base})
	s.AddQuiz(&Quiz{ID: "q2", Title: "Rivers", CreatedBy: "admin", CreatedAt: base.Add(time.Minute)})
	s.AddResult(&Result{ID: "r1", UserID: "u1", QuizID: "q1", Score: 1, Total: 3, CreatedAt: base})
	s.AddResult(&Result{ID: "r2", UserID: "u1", QuizID: "q2", Score: 2, Total: 2, CreatedAt: base.Add(time.Minute)})
	s.AddResult(&Result{ID: "r3", UserID: "u2", QuizID: "q1", Score: 3, Total: 3, CreatedAt: base.Add(2 * time.Minute)})
	return s
}

func TestFindUserByEmailCaseInsensitive(t *testing.T) {
	s := seedStore(t)
	if u := s.FindUserByEmail("A@X.COM"); u == nil || u.ID != "u1" {
		t.Fatalf("expected u1, got %+v", u)
	}
}

func TestListQuizzesInsertionOrder(t *testing.T) {
	s := seedStore(t)
	quizzes := s.ListQuizzes()
	if len(quizzes) != 2 || quizzes[0].ID != "q1" || quizzes[1].ID != "q2" {
		t.Fatalf("unexpected order: %+v", quizzes)
	}
}

func TestListResultsByUserNewestFirstWithTitles(t *testing.T) {
	s := seedStore(t)
	results := s.ListResultsByUser("u1")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "r2" || results[0].QuizTitle != "Rivers" {
		t.Fatalf("expected newest result first with title, got %+v", results[0])
	}
	if results[1].ID != "r1" || results[1].QuizTitle != "Capitals" {
		t.Fatalf("unexpected second result: %+v", results[1])
	}
}

func TestDeleteQuizCascadeRemovesResults(t *testing.T) {
	s := seedStore(t)
	if !s.DeleteQuizCascade("q1") {
		t.Fatalf("expected delete to succeed")
	}
	if s.GetQuiz("q1") != nil {
		t.Fatalf("quiz still present after delete")
	}
	if got := s.ListResultsByUser("u2"); len(got) != 0 {
		t.Fatalf("expected u2 results gone with quiz, got %+v", got)
	}
	if got := s.ListResultsByUser("u1"); len(got) != 1 || got[0].QuizID != "q2" {
		t.Fatalf("expected only q2 result for u1, got %+v", got)
	}
	if s.DeleteQuizCascade("q1") {
		t.Fatalf("second delete should report missing")
	}
}

func TestDeleteUserCascadeRemovesResultsAndIndexes(t *testing.T) {
	s := seedStore(t)
	if !s.DeleteUserCascade("u1") {
		t.Fatalf("expected delete to succeed")
	}
	if s.FindUserByEmail("a@x.com") != nil || s.FindUserByUsername("alice") != nil {
		t.Fatalf("user indexes not cleaned up")
	}
	if got := s.ListResultsByUser("u1"); len(got) != 0 {
		t.Fatalf("expected u1 results gone, got %+v", got)
	}
	if got := s.ListResultsByUser("u2"); len(got) != 1 {
		t.Fatalf("expected u2 results untouched, got %+v", got)
	}
}

func TestListUsersSortedByCreation(t *testing.T) {
	s := seedStore(t)
	users := s.ListUsers()
	if len(users) != 2 || users[0].ID != "u1" || users[1].ID != "u2" {
		t.Fatalf("unexpected user order: %+v", users)
	}
}
