package api

import (
	"sort"
	"strings"
	"sync"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Question keeps the correct answer as an index into Options only; the
// per-option correctness flag clients see is derived when rendering.
type Question struct {
	QuestionText       string   `json:"questionText"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
}

type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Result struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	QuizID    string    `json:"quizId"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResultWithQuiz joins a result with its quiz title for profile views.
type ResultWithQuiz struct {
	Result
	QuizTitle string `json:"quizTitle"`
}

type memoryStore struct {
	mu           sync.RWMutex
	users        map[string]*User
	usersByEmail map[string]*User
	usersByName  map[string]*User
	quizzes      map[string]*Quiz
	quizOrder    []string
	results      []*Result
}

func NewMemoryStore() Store {
	return newMemoryStore()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:        map[string]*User{},
		usersByEmail: map[string]*User{},
		usersByName:  map[string]*User{},
		quizzes:      map[string]*Quiz{},
		results:      []*Result{},
	}
}

// --- users ---

func (s *memoryStore) AddUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	s.usersByEmail[strings.ToLower(u.Email)] = u
	s.usersByName[u.Username] = u
}

func (s *memoryStore) GetUser(id string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[id]
}

func (s *memoryStore) FindUserByEmail(email string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usersByEmail[strings.ToLower(email)]
}

func (s *memoryStore) FindUserByUsername(username string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usersByName[username]
}

func (s *memoryStore) ListUsers() []*User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *memoryStore) UpdateUserRole(id, role string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[id]
	if u == nil {
		return false
	}
	u.Role = role
	return true
}

func (s *memoryStore) DeleteUserCascade(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[id]
	if u == nil {
		return false
	}
	delete(s.users, id)
	delete(s.usersByEmail, strings.ToLower(u.Email))
	delete(s.usersByName, u.Username)
	nr := make([]*Result, 0, len(s.results))
	for _, r := range s.results {
		if r.UserID != id {
			nr = append(nr, r)
		}
	}
	s.results = nr
	return true
}

// --- quizzes ---

func (s *memoryStore) AddQuiz(q *Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[q.ID] = q
	s.quizOrder = append(s.quizOrder, q.ID)
}

func (s *memoryStore) GetQuiz(id string) *Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quizzes[id]
}

func (s *memoryStore) ListQuizzes() []*Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Quiz, 0, len(s.quizOrder))
	for _, id := range s.quizOrder {
		if q := s.quizzes[id]; q != nil {
			out = append(out, q)
		}
	}
	return out
}

func (s *memoryStore) UpdateQuiz(q *Quiz) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[q.ID]; !ok {
		return false
	}
	s.quizzes[q.ID] = q
	return true
}

func (s *memoryStore) DeleteQuizCascade(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[id]; !ok {
		return false
	}
	delete(s.quizzes, id)
	nr := make([]*Result, 0, len(s.results))
	for _, r := range s.results {
		if r.QuizID != id {
			nr = append(nr, r)
		}
	}
	s.results = nr
	return true
}

// --- results ---

func (s *memoryStore) AddResult(r *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

// ListResultsByUser returns the user's results newest first.
func (s *memoryStore) ListResultsByUser(userID string) []*ResultWithQuiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*ResultWithQuiz{}
	for i := len(s.results) - 1; i >= 0; i-- {
		r := s.results[i]
		if r.UserID != userID {
			continue
		}
		title := ""
		if q := s.quizzes[r.QuizID]; q != nil {
			title = q.Title
		}
		out = append(out, &ResultWithQuiz{Result: *r, QuizTitle: title})
	}
	return out
}
