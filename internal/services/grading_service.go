package services

import "time"

// GradingStore abstracts persistence operations required by GradingService.
type GradingStore interface {
	GetQuiz(id string) (*Quiz, error)
	AddResult(r *Result) error
}

type GradingService struct {
	store GradingStore
	now   func() time.Time
	idGen func(prefix string, n int) string
}

type SubmitResult struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

func NewGradingService(store GradingStore) *GradingService {
	return &GradingService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func(prefix string, n int) string { return prefix + shortID(n) },
	}
}

// Submit grades an answer set against the quiz's correct indices and appends
// one Result. Grading is exact and order-sensitive: answers[i] scores a point
// only when it equals question i's correct index; out-of-range values simply
// never match. Resubmission is allowed and appends another Result.
func (s *GradingService) Submit(quizID, userID string, answers []int) (*SubmitResult, error) {
	quiz, err := s.store.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, NewNotFoundError("quiz not found")
	}
	if len(answers) != len(quiz.Questions) {
		return nil, NewInvalidError("invalid answers array provided")
	}
	score := 0
	for i, q := range quiz.Questions {
		if answers[i] == q.CorrectIndex {
			score++
		}
	}
	total := len(quiz.Questions)
	res := &Result{
		ID:        s.idGen("r", 8),
		UserID:    userID,
		QuizID:    quiz.ID,
		Score:     score,
		Total:     total,
		CreatedAt: s.now(),
	}
	if err := s.store.AddResult(res); err != nil {
		return nil, err
	}
	return &SubmitResult{Score: score, Total: total}, nil
}
