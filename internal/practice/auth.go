package practice

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/promptdojo/promptdojo/internal/i18n"
	"github.com/promptdojo/promptdojo/internal/model"
)

const tokenTTL = 24 * time.Hour

type userRecord struct {
	ID           int
	Username     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

func (u *userRecord) profile() model.User {
	return model.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// userStore holds registered accounts in memory. Practice sessions are
// throwaway; nothing persists across restarts.
type userStore struct {
	mu     sync.Mutex
	byName map[string]*userRecord
	nextID int
}

func newUserStore() *userStore {
	return &userStore{byName: make(map[string]*userRecord), nextID: 1}
}

func (s *userStore) create(username, email, password string) (*userRecord, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byName[username]; exists {
		return nil, errUsernameTaken
	}
	u := &userRecord{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	s.nextID++
	s.byName[username] = u
	return u, nil
}

func (s *userStore) authenticate(username, password string) (*userRecord, error) {
	s.mu.Lock()
	u, ok := s.byName[username]
	s.mu.Unlock()
	if !ok {
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	return u, nil
}

func (s *userStore) lookup(username string) (*userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byName[username]
	return u, ok
}

var (
	errUsernameTaken  = fmt.Errorf("username already registered")
	errBadCredentials = fmt.Errorf("incorrect username or password")
)

func newSigningKey() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(fmt.Sprintf("practice: read random key: %v", err))
	}
	return key
}

func (s *Server) issueToken(username string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Server) parseToken(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

type ctxKey int

const userKey ctxKey = iota

// requireAuth rejects requests without a valid bearer token and stores the
// authenticated account in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			writeDetail(w, http.StatusUnauthorized, i18n.T(r.Context(), "api.not_authenticated"))
			return
		}
		username, err := s.parseToken(raw)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, i18n.T(r.Context(), "api.invalid_credentials"))
			return
		}
		u, found := s.users.lookup(username)
		if !found {
			writeDetail(w, http.StatusUnauthorized, i18n.T(r.Context(), "api.invalid_credentials"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

func userFrom(ctx context.Context) *userRecord {
	u, _ := ctx.Value(userKey).(*userRecord)
	return u
}
