package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/quizmaster/quizmaster/internal/api"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

var _ api.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		log.Printf("sqlite store: %s: %v", prefix, err)
	}
}

func toNullString(v string) sql.NullString {
	if strings.TrimSpace(v) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func encodeQuestions(qs []api.Question) (string, error) {
	b, err := json.Marshal(qs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeQuestions(raw string) []api.Question {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []api.Question
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Printf("sqlite store: decode questions: %v", err)
		return nil
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// --- Users ---

func (s *SQLiteStore) AddUser(u *api.User) {
	if u == nil {
		return
	}
	_, err := s.db.Exec(`INSERT INTO users (id, username, email, pass_hash, role, created_at)
      VALUES (?, ?, ?, ?, ?, ?)`, u.ID, u.Username, u.Email, u.PassHash, u.Role, formatTime(u.CreatedAt))
	s.logErr("AddUser", err)
}

func (s *SQLiteStore) scanUser(row *sql.Row) *api.User {
	var u api.User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PassHash, &u.Role, &created); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("scan user", err)
		}
		return nil
	}
	u.CreatedAt = parseTime(created)
	return &u
}

func (s *SQLiteStore) GetUser(id string) *api.User {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return s.scanUser(s.db.QueryRow(`SELECT id, username, email, pass_hash, role, created_at FROM users WHERE id = ?`, id))
}

func (s *SQLiteStore) FindUserByEmail(email string) *api.User {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	return s.scanUser(s.db.QueryRow(`SELECT id, username, email, pass_hash, role, created_at FROM users WHERE email = ?`, email))
}

func (s *SQLiteStore) FindUserByUsername(username string) *api.User {
	if strings.TrimSpace(username) == "" {
		return nil
	}
	return s.scanUser(s.db.QueryRow(`SELECT id, username, email, pass_hash, role, created_at FROM users WHERE username = ?`, username))
}

func (s *SQLiteStore) ListUsers() []*api.User {
	rows, err := s.db.Query(`SELECT id, username, email, pass_hash, role, created_at FROM users ORDER BY created_at ASC, id ASC`)
	if err != nil {
		s.logErr("ListUsers: query", err)
		return nil
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logErr("ListUsers: rows.Close", cerr)
		}
	}()
	out := []*api.User{}
	for rows.Next() {
		var u api.User
		var created string
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PassHash, &u.Role, &created); err != nil {
			s.logErr("ListUsers: scan", err)
			continue
		}
		u.CreatedAt = parseTime(created)
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		s.logErr("ListUsers: rows.Err", err)
	}
	return out
}

func (s *SQLiteStore) UpdateUserRole(id, role string) bool {
	res, err := s.db.Exec(`UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		s.logErr("UpdateUserRole", err)
		return false
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.logErr("UpdateUserRole: rows affected", err)
		return false
	}
	return n > 0
}

// DeleteUserCascade removes the user and every result they recorded in a
// single transaction so a crash cannot leave orphaned results behind.
func (s *SQLiteStore) DeleteUserCascade(id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}
	tx, err := s.db.Begin()
	if err != nil {
		s.logErr("DeleteUserCascade: begin", err)
		return false
	}
	if _, err := tx.Exec(`DELETE FROM results WHERE user_id = ?`, id); err != nil {
		s.logErr("DeleteUserCascade: results", err)
		_ = tx.Rollback()
		return false
	}
	res, err := tx.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		s.logErr("DeleteUserCascade: user", err)
		_ = tx.Rollback()
		return false
	}
	n, err := res.RowsAffected()
	if err != nil || n == 0 {
		s.logErr("DeleteUserCascade: rows affected", err)
		_ = tx.Rollback()
		return false
	}
	if err := tx.Commit(); err != nil {
		s.logErr("DeleteUserCascade: commit", err)
		return false
	}
	return true
}

// --- Quizzes ---

func (s *SQLiteStore) AddQuiz(q *api.Quiz) {
	if q == nil {
		return
	}
	questions, err := encodeQuestions(q.Questions)
	if err != nil {
		s.logErr("AddQuiz: encode questions", err)
		return
	}
	_, err = s.db.Exec(`INSERT INTO quizzes (id, title, description, questions, created_by, created_at, updated_at)
      VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Title, toNullString(q.Description), questions, q.CreatedBy, formatTime(q.CreatedAt), formatTime(q.UpdatedAt))
	s.logErr("AddQuiz", err)
}

func (s *SQLiteStore) scanQuiz(row *sql.Row) *api.Quiz {
	var q api.Quiz
	var desc sql.NullString
	var questions, created, updated string
	if err := row.Scan(&q.ID, &q.Title, &desc, &questions, &q.CreatedBy, &created, &updated); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("scan quiz", err)
		}
		return nil
	}
	q.Description = desc.String
	q.Questions = decodeQuestions(questions)
	q.CreatedAt = parseTime(created)
	q.UpdatedAt = parseTime(updated)
	return &q
}

func (s *SQLiteStore) GetQuiz(id string) *api.Quiz {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return s.scanQuiz(s.db.QueryRow(`SELECT id, title, description, questions, created_by, created_at, updated_at FROM quizzes WHERE id = ?`, id))
}

func (s *SQLiteStore) ListQuizzes() []*api.Quiz {
	rows, err := s.db.Query(`SELECT id, title, description, questions, created_by, created_at, updated_at FROM quizzes ORDER BY created_at ASC, id ASC`)
	if err != nil {
		s.logErr("ListQuizzes: query", err)
		return nil
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logErr("ListQuizzes: rows.Close", cerr)
		}
	}()
	out := []*api.Quiz{}
	for rows.Next() {
		var q api.Quiz
		var desc sql.NullString
		var questions, created, updated string
		if err := rows.Scan(&q.ID, &q.Title, &desc, &questions, &q.CreatedBy, &created, &updated); err != nil {
			s.logErr("ListQuizzes: scan", err)
			continue
		}
		q.Description = desc.String
		q.Questions = decodeQuestions(questions)
		q.CreatedAt = parseTime(created)
		q.UpdatedAt = parseTime(updated)
		out = append(out, &q)
	}
	if err := rows.Err(); err != nil {
		s.logErr("ListQuizzes: rows.Err", err)
	}
	return out
}

func (s *SQLiteStore) UpdateQuiz(q *api.Quiz) bool {
	if q == nil {
		return false
	}
	questions, err := encodeQuestions(q.Questions)
	if err != nil {
		s.logErr("UpdateQuiz: encode questions", err)
		return false
	}
	res, err := s.db.Exec(`UPDATE quizzes SET title = ?, description = ?, questions = ?, updated_at = ? WHERE id = ?`,
		q.Title, toNullString(q.Description), questions, formatTime(q.UpdatedAt), q.ID)
	if err != nil {
		s.logErr("UpdateQuiz", err)
		return false
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.logErr("UpdateQuiz: rows affected", err)
		return false
	}
	return n > 0
}

// DeleteQuizCascade removes the quiz and its results atomically.
func (s *SQLiteStore) DeleteQuizCascade(id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}
	tx, err := s.db.Begin()
	if err != nil {
		s.logErr("DeleteQuizCascade: begin", err)
		return false
	}
	if _, err := tx.Exec(`DELETE FROM results WHERE quiz_id = ?`, id); err != nil {
		s.logErr("DeleteQuizCascade: results", err)
		_ = tx.Rollback()
		return false
	}
	res, err := tx.Exec(`DELETE FROM quizzes WHERE id = ?`, id)
	if err != nil {
		s.logErr("DeleteQuizCascade: quiz", err)
		_ = tx.Rollback()
		return false
	}
	n, err := res.RowsAffected()
	if err != nil || n == 0 {
		s.logErr("DeleteQuizCascade: rows affected", err)
		_ = tx.Rollback()
		return false
	}
	if err := tx.Commit(); err != nil {
		s.logErr("DeleteQuizCascade: commit", err)
		return false
	}
	return true
}

// --- Results ---

func (s *SQLiteStore) AddResult(r *api.Result) {
	if r == nil {
		return
	}
	_, err := s.db.Exec(`INSERT INTO results (id, user_id, quiz_id, score, total, created_at)
      VALUES (?, ?, ?, ?, ?, ?)`, r.ID, r.UserID, r.QuizID, r.Score, r.Total, formatTime(r.CreatedAt))
	s.logErr("AddResult", err)
}

func (s *SQLiteStore) ListResultsByUser(userID string) []*api.ResultWithQuiz {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	rows, err := s.db.Query(`SELECT r.id, r.user_id, r.quiz_id, r.score, r.total, r.created_at, COALESCE(q.title, '')
      FROM results r LEFT JOIN quizzes q ON q.id = r.quiz_id
      WHERE r.user_id = ? ORDER BY r.created_at DESC, r.id DESC`, userID)
	if err != nil {
		s.logErr("ListResultsByUser: query", err)
		return nil
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logErr("ListResultsByUser: rows.Close", cerr)
		}
	}()
	out := []*api.ResultWithQuiz{}
	for rows.Next() {
		var r api.ResultWithQuiz
		var created string
		if err := rows.Scan(&r.ID, &r.UserID, &r.QuizID, &r.Score, &r.Total, &created, &r.QuizTitle); err != nil {
			s.logErr("ListResultsByUser: scan", err)
			continue
		}
		r.CreatedAt = parseTime(created)
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		s.logErr("ListResultsByUser: rows.Err", err)
	}
	return out
}
