package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// loginFailureLimit failed attempts per login within loginFailureWindow
// trigger a 429 on the next try.
const (
	loginFailureLimit  = 5
	loginFailureWindow = time.Minute
)

type ctxKey string

const ctxUserKey ctxKey = "user"

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !strings.Contains(creds.Login, "@") {
		s.writeError(w, http.StatusBadRequest, "login must be an email address")
		return
	}
	if len(creds.Password) < 6 {
		s.writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[creds.Login]; exists {
		s.writeError(w, http.StatusConflict, "account already exists")
		return
	}
	s.users[creds.Login] = creds.Password

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "account created",
		"userId":  creds.Login,
		"email":   creds.Login,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.throttled(creds.Login) {
		s.writeError(w, http.StatusTooManyRequests, "too many attempts")
		return
	}

	stored, ok := s.users[creds.Login]
	if !ok || stored != creds.Password {
		s.loginFailures[creds.Login] = append(s.loginFailures[creds.Login], s.clock())
		s.writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	delete(s.loginFailures, creds.Login)

	now := s.clock()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": creds.Login,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.TokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "token signing failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}

// throttled reports whether the login has exhausted its failure budget.
// Callers must hold s.mu.
func (s *Server) throttled(login string) bool {
	cutoff := s.clock().Add(-loginFailureWindow)
	recent := s.loginFailures[login][:0]
	for _, t := range s.loginFailures[login] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	s.loginFailures[login] = recent
	return len(recent) >= loginFailureLimit
}

// authMiddleware validates the bearer token and stashes the user login in
// the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			s.writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(s.cfg.JWTSecret), nil
		}, jwt.WithTimeFunc(s.clock))
		if err != nil || !token.Valid {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			s.writeError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey, sub)))
	})
}

func userFrom(ctx context.Context) string {
	user, _ := ctx.Value(ctxUserKey).(string)
	return user
}
