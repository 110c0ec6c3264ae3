package api

type Store interface {
	AddUser(u *User)
	GetUser(id string) *User
	FindUserByEmail(email string) *User
	FindUserByUsername(username string) *User
	ListUsers() []*User
	UpdateUserRole(id, role string) bool
	DeleteUserCascade(id string) bool

	AddQuiz(q *Quiz)
	GetQuiz(id string) *Quiz
	ListQuizzes() []*Quiz
	UpdateQuiz(q *Quiz) bool
	DeleteQuizCascade(id string) bool

	AddResult(r *Result)
	ListResultsByUser(userID string) []*ResultWithQuiz
}

var _ Store = (*memoryStore)(nil)
