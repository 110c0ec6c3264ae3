package services

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        string
	Username  string
	Email     string
	PassHash  []byte
	Role      string
	CreatedAt time.Time
}

// PublicUser is a User with the password hash stripped, safe to return to callers.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

// Question stores the correct answer as an index only; any per-option
// "is correct" flag is derived from it at read time.
type Question struct {
	Text         string
	Options      []string
	CorrectIndex int
}

type Quiz struct {
	ID          string
	Title       string
	Description string
	Questions   []Question
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Result struct {
	ID        string
	UserID    string
	QuizID    string
	Score     int
	Total     int
	CreatedAt time.Time
}

// ResultView is a Result joined with its quiz title for profile rendering.
type ResultView struct {
	ID        string    `json:"id"`
	QuizID    string    `json:"quizId"`
	QuizTitle string    `json:"quizTitle"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}
