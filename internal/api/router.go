package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quizmaster/quizmaster/internal/middleware"
	"github.com/quizmaster/quizmaster/internal/services"
)

type Router struct {
	store   Store
	auth    *services.AuthService
	quizzes *services.QuizService
	grading *services.GradingService
	users   *services.UserService
}

func NewRouter(store Store) *Router {
	return &Router{
		store:   store,
		auth:    services.NewAuthService(newAuthStoreAdapter(store), middleware.SignToken),
		quizzes: services.NewQuizService(newQuizStoreAdapter(store)),
		grading: services.NewGradingService(newGradingStoreAdapter(store)),
		users:   services.NewUserService(newUserStoreAdapter(store)),
	}
}

func (rt *Router) Register(r *mux.Router) {
	r.Use(mux.MiddlewareFunc(middleware.WithAuth))

	r.HandleFunc("/register", rt.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", rt.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", rt.handleLogout).Methods(http.MethodPost)

	auth := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }
	r.Handle("/me", auth(rt.handleMe)).Methods(http.MethodGet)
	r.Handle("/quizzes", auth(rt.handleListQuizzes)).Methods(http.MethodGet)
	r.Handle("/quizzes/{id}", auth(rt.handleGetQuiz)).Methods(http.MethodGet)
	r.Handle("/quiz/{id}/submit", auth(rt.handleSubmitQuiz)).Methods(http.MethodPost)

	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdmin(h) }
	r.Handle("/admin/quiz", admin(rt.handleCreateQuiz)).Methods(http.MethodPost)
	r.Handle("/admin/quiz/{id}", admin(rt.handleUpdateQuiz)).Methods(http.MethodPut)
	r.Handle("/admin/quiz/{id}", admin(rt.handleDeleteQuiz)).Methods(http.MethodDelete)
	r.Handle("/admin/users", admin(rt.handleListUsers)).Methods(http.MethodGet)
	r.Handle("/admin/user/{id}", admin(rt.handleUpdateUserRole)).Methods(http.MethodPatch)
	r.Handle("/admin/user/{id}", admin(rt.handleDeleteUser)).Methods(http.MethodDelete)
}

// --- wire payloads and views ---

type optionPayload struct {
	Text string `json:"text"`
	// Accepted for backward compatibility with older clients; the
	// correctOptionIndex is the single source of truth.
	IsCorrect bool `json:"isCorrect"`
}

type questionPayload struct {
	QuestionText       string          `json:"questionText"`
	Options            []optionPayload `json:"options"`
	CorrectOptionIndex int             `json:"correctOptionIndex"`
}

type quizCreatePayload struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []questionPayload `json:"questions"`
}

type quizUpdatePayload struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Questions   []questionPayload `json:"questions"`
}

type optionView struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type questionView struct {
	QuestionText       string       `json:"questionText"`
	Options            []optionView `json:"options"`
	CorrectOptionIndex int          `json:"correctOptionIndex"`
}

type quizView struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Questions   []questionView `json:"questions"`
	CreatedBy   string         `json:"createdBy"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

func toServiceQuestions(in []questionPayload) []services.Question {
	out := make([]services.Question, 0, len(in))
	for _, qp := range in {
		opts := make([]string, 0, len(qp.Options))
		for _, op := range qp.Options {
			opts = append(opts, op.Text)
		}
		out = append(out, services.Question{Text: qp.QuestionText, Options: opts, CorrectIndex: qp.CorrectOptionIndex})
	}
	return out
}

func toQuizView(q *services.Quiz) quizView {
	questions := make([]questionView, 0, len(q.Questions))
	for _, sq := range q.Questions {
		opts := make([]optionView, 0, len(sq.Options))
		for i, text := range sq.Options {
			opts = append(opts, optionView{Text: text, IsCorrect: i == sq.CorrectIndex})
		}
		questions = append(questions, questionView{QuestionText: sq.Text, Options: opts, CorrectOptionIndex: sq.CorrectIndex})
	}
	return quizView{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Questions:   questions,
		CreatedBy:   q.CreatedBy,
		CreatedAt:   q.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		UpdatedAt:   q.UpdatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

// --- handlers ---

func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid request body"})
		return
	}
	if _, err := rt.auth.Register(req.Username, req.Email, req.Password, req.Role); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "User registered successfully"})
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid request body"})
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	middleware.SetSessionCookie(w, res.Token)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Login successful",
		"role":     res.Role,
		"userId":   res.UserID,
		"username": res.Username,
	})
}

func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out successfully"})
}

func (rt *Router) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	profile, err := rt.users.Profile(claims.UID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (rt *Router) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := rt.quizzes.List()
	if err != nil {
		writeErr(w, err)
		return
	}
	out := make([]quizView, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, toQuizView(q))
	}
	writeJSON(w, http.StatusOK, out)
}

func (rt *Router) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := rt.quizzes.Get(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuizView(q))
}

func (rt *Router) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	var req struct {
		Answers []int `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid answers array provided"})
		return
	}
	res, err := rt.grading.Submit(mux.Vars(r)["id"], claims.UID, req.Answers)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Quiz submitted successfully",
		"score":   res.Score,
		"total":   res.Total,
	})
}

func (rt *Router) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	var req quizCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid request body"})
		return
	}
	q, err := rt.quizzes.Create(claims.UID, req.Title, req.Description, toServiceQuestions(req.Questions))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Quiz created successfully!", "quiz": toQuizView(q)})
}

func (rt *Router) handleUpdateQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid request body"})
		return
	}
	upd := services.QuizUpdate{Title: req.Title, Description: req.Description}
	if req.Questions != nil {
		upd.Questions = toServiceQuestions(req.Questions)
	}
	q, err := rt.quizzes.Update(mux.Vars(r)["id"], upd)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Quiz updated successfully!", "quiz": toQuizView(q)})
}

func (rt *Router) handleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := rt.quizzes.Delete(mux.Vars(r)["id"]); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Quiz and associated results deleted successfully"})
}

func (rt *Router) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := rt.users.ListUsers()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (rt *Router) handleUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid request body"})
		return
	}
	u, err := rt.users.UpdateRole(claims.UID, mux.Vars(r)["id"], req.Role)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "User role updated successfully", "user": u.Username, "newRole": u.Role})
}

func (rt *Router) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	if err := rt.users.DeleteUser(claims.UID, mux.Vars(r)["id"]); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "User and associated results deleted successfully"})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		writeJSON(w, statusForCode(se.Code), map[string]any{"message": se.Message})
		return
	}
	log.Printf("api: internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "Server error"})
}

func statusForCode(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid:
		return http.StatusBadRequest
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorForbidden:
		return http.StatusForbidden
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
