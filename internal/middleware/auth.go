package middleware

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type authCtxKey int

const authKey authCtxKey = 7

// SessionCookieName is the HTTP-only cookie carrying the signed session token.
const SessionCookieName = "token"

// SessionTTL is the fixed token lifetime; the cookie MaxAge matches it.
const SessionTTL = 24 * time.Hour

type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func secret() []byte {
	s := os.Getenv("QUIZMASTER_JWT_SECRET")
	if s == "" {
		s = "quizmaster-dev-secret"
	}
	return []byte(s)
}

func isProduction() bool {
	return os.Getenv("QUIZMASTER_ENV") == "production"
}

func SignToken(uid, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{UID: uid, Role: role, RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now), ExpiresAt: jwt.NewNumericDate(now.Add(ttl))}}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

func parseToken(tok string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (interface{}, error) { return secret(), nil })
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// SetSessionCookie attaches the signed token as an HTTP-only cookie.
// SameSite=None requires Secure, so the pair switches together on QUIZMASTER_ENV.
func SetSessionCookie(w http.ResponseWriter, token string) {
	sameSite := http.SameSiteLaxMode
	if isProduction() {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   isProduction(),
		SameSite: sameSite,
	})
}

// ClearSessionCookie instructs the client to discard the session token.
// Stateless tokens cannot be revoked server-side; logout only clears the cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	sameSite := http.SameSiteLaxMode
	if isProduction() {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProduction(),
		SameSite: sameSite,
	})
}

// WithAuth attaches auth claims to the context if a valid session cookie is
// present. An invalid or expired cookie is cleared so the client stops
// presenting it.
func WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie(SessionCookieName); err == nil && ck.Value != "" {
			if c, perr := parseToken(ck.Value); perr == nil {
				ctx := context.WithValue(r.Context(), authKey, c)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			ClearSessionCookie(w)
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Value(authKey).(*Claims); !ok {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := r.Context().Value(authKey).(*Claims)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}
		if c.Role != "admin" {
			writeJSONError(w, http.StatusForbidden, "Forbidden: Admins only access")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromContext returns the verified identity attached by WithAuth.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(authKey).(*Claims)
	return c, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"message":"` + msg + `"}`))
}
