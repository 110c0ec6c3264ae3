package db

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quizmaster/quizmaster/internal/api"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if cerr := sqliteDB.Close(); cerr != nil {
			t.Errorf("close sqlite: %v", cerr)
		}
	})
	if err := RunMigrations(sqliteDB, ""); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	store, err := NewSQLiteStore(sqliteDB)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestFindUserByEmailIsCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	s.AddUser(&api.User{
		ID:        "u1",
		Username:  "admin",
		Email:     "Admin@X.com",
		PassHash:  []byte("hash"),
		Role:      "admin",
		CreatedAt: time.Now().UTC(),
	})
	u := s.FindUserByEmail("admin@x.com")
	if u == nil {
		t.Fatalf("mixed-case stored email not found by lowercased lookup")
	}
	if u.ID != "u1" {
		t.Fatalf("expected u1, got %+v", u)
	}
}

func TestSQLiteDeleteQuizCascadeRemovesResults(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.AddUser(&api.User{ID: "u1", Username: "alice", Email: "a@x.com", PassHash: []byte("h"), Role: "user", CreatedAt: base})
	s.AddQuiz(&api.Quiz{
		ID:        "q1",
		Title:     "Capitals",
		Questions: []api.Question{{QuestionText: "Capital of France?", Options: []string{"Paris", "Lyon"}, CorrectOptionIndex: 0}},
		CreatedBy: "admin",
		CreatedAt: base,
		UpdatedAt: base,
	})
	s.AddResult(&api.Result{ID: "r1", UserID: "u1", QuizID: "q1", Score: 1, Total: 1, CreatedAt: base})

	if !s.DeleteQuizCascade("q1") {
		t.Fatalf("expected delete to succeed")
	}
	if s.GetQuiz("q1") != nil {
		t.Fatalf("quiz still present after delete")
	}
	if got := s.ListResultsByUser("u1"); len(got) != 0 {
		t.Fatalf("expected results gone with quiz, got %+v", got)
	}
	if s.DeleteQuizCascade("q1") {
		t.Fatalf("second delete should report missing")
	}
}

func TestSQLiteDeleteUserCascadeRemovesResults(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.AddUser(&api.User{ID: "u1", Username: "alice", Email: "a@x.com", PassHash: []byte("h"), Role: "user", CreatedAt: base})
	s.AddUser(&api.User{ID: "u2", Username: "bob", Email: "b@x.com", PassHash: []byte("h"), Role: "user", CreatedAt: base.Add(time.Minute)})
	s.AddQuiz(&api.Quiz{
		ID:        "q1",
		Title:     "Capitals",
		Questions: []api.Question{{QuestionText: "Capital of France?", Options: []string{"Paris", "Lyon"}, CorrectOptionIndex: 0}},
		CreatedBy: "admin",
		CreatedAt: base,
		UpdatedAt: base,
	})
	s.AddResult(&api.Result{ID: "r1", UserID: "u1", QuizID: "q1", Score: 1, Total: 1, CreatedAt: base})
	s.AddResult(&api.Result{ID: "r2", UserID: "u2", QuizID: "q1", Score: 0, Total: 1, CreatedAt: base.Add(time.Minute)})

	if !s.DeleteUserCascade("u1") {
		t.Fatalf("expected delete to succeed")
	}
	if s.GetUser("u1") != nil {
		t.Fatalf("user still present after delete")
	}
	if got := s.ListResultsByUser("u1"); len(got) != 0 {
		t.Fatalf("expected u1 results gone, got %+v", got)
	}
	if got := s.ListResultsByUser("u2"); len(got) != 1 {
		t.Fatalf("expected u2 results untouched, got %+v", got)
	}
	if s.DeleteUserCascade("missing") {
		t.Fatalf("delete of missing user should report false")
	}
}

func TestSQLiteListResultsByUserNewestFirstWithTitles(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.AddUser(&api.User{ID: "u1", Username: "alice", Email: "a@x.com", PassHash: []byte("h"), Role: "user", CreatedAt: base})
	for i, title := range []string{"Capitals", "Rivers"} {
		s.AddQuiz(&api.Quiz{
			ID:        fmt.Sprintf("q%d", i+1),
			Title:     title,
			Questions: []api.Question{{QuestionText: "x?", Options: []string{"a", "b"}, CorrectOptionIndex: 0}},
			CreatedBy: "admin",
			CreatedAt: base,
			UpdatedAt: base,
		})
	}
	s.AddResult(&api.Result{ID: "r1", UserID: "u1", QuizID: "q1", Score: 1, Total: 1, CreatedAt: base})
	s.AddResult(&api.Result{ID: "r2", UserID: "u1", QuizID: "q2", Score: 0, Total: 1, CreatedAt: base.Add(time.Minute)})

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
