package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizmaster/quizmaster/internal/api"
	dbstore "github.com/quizmaster/quizmaster/internal/db"
	"github.com/quizmaster/quizmaster/internal/middleware"
	"github.com/quizmaster/quizmaster/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	addr := utils.SafeEnv("QUIZMASTER_ADDR", ":8080")
	sqlitePath := utils.SafeEnv("QUIZMASTER_SQLITE_PATH", "data/quizmaster.db")
	migrationsDir := os.Getenv("QUIZMASTER_MIGRATIONS_DIR")

	store, closeDB, err := openStore(sqlitePath, migrationsDir)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closeDB()

	if err := seedAdmin(store); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	r := mux.NewRouter()
	api.NewRouter(store).Register(r)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "name": "QuizMaster API"})
	})

	handler := handlers.CombinedLoggingHandler(os.Stdout, middleware.NoStore(middleware.SecureHeaders(r)))

	log.Printf("QuizMaster server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func openStore(sqlitePath, migrationsDir string) (api.Store, func(), error) {
	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		return nil, nil, err
	}
	dsn := "file:" + filepath.ToSlash(sqlitePath) + "?cache=shared&_busy_timeout=5000"
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if cerr := sqliteDB.Close(); cerr != nil {
			log.Printf("warning: failed to close sqlite db: %v", cerr)
		}
	}
	if err := sqliteDB.Ping(); err != nil {
		closeDB()
		return nil, nil, err
	}
	if err := dbstore.RunMigrations(sqliteDB, migrationsDir); err != nil {
		closeDB()
		return nil, nil, err
	}
	store, err := dbstore.NewStore(sqliteDB)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return store, closeDB, nil
}

// seedAdmin creates the bootstrap admin account from the environment on
// first start. Skipped when unset or when the email is already registered.
func seedAdmin(store api.Store) error {
	// Emails are stored lowercased; login lowercases its input, so the seed
	// must do the same or a mixed-case configured address could never log in.
	email := strings.ToLower(strings.TrimSpace(os.Getenv("QUIZMASTER_ADMIN_EMAIL")))
	password := os.Getenv("QUIZMASTER_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	if store.FindUserByEmail(email) != nil {
		return nil
	}
	username := utils.SafeEnv("QUIZMASTER_ADMIN_USERNAME", "admin")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	store.AddUser(&api.User{
		ID:        "u" + strings.ReplaceAll(uuid.NewString(), "-", "")[:7],
		Username:  username,
		Email:     email,
		PassHash:  hash,
		Role:      "admin",
		CreatedAt: time.Now().UTC(),
	})
	log.Printf("seeded admin account %s", email)
	return nil
}
