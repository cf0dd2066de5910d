// Package mockapi is an in-process stand-in for the upstream admin API, used by tests and
// the mock-backend example. It implements the admin-login exchange and one bearer-guarded
// endpoint; nothing is persisted.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	LoginPath = "/api/auth/admin-login"
	MePath    = "/api/auth/me"
)

// ErrUserExists is returned by AddUser for a duplicate email.
var ErrUserExists = errors.New("user already exists")

// Config configures a [Server].
type Config struct {
	Secret   []byte
	TokenTTL time.Duration
	Issuer   string
	Logger   *zap.Logger

	// BcryptCost defaults to bcrypt.MinCost, which keeps tests fast.
	BcryptCost int
}

type user struct {
	id           string
	name         string
	email        string
	role         string
	passwordHash []byte
}

// Server serves the mock API over a gorilla/mux router.
type Server struct {
	router *mux.Router
	tokens *tokenIssuer
	logger *zap.Logger
	cost   int

	mu    sync.RWMutex
	users map[string]*user
}

// New builds a [Server] with no users.
func New(cfg Config) (*Server, error) {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.MinCost
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	tokens, err := newTokenIssuer(cfg.Secret, cfg.TokenTTL, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: mux.NewRouter(),
		tokens: tokens,
		logger: cfg.Logger,
		cost:   cfg.BcryptCost,
		users:  make(map[string]*user),
	}

	s.router.HandleFunc(LoginPath, s.handleAdminLogin).Methods(http.MethodPost)
	s.router.Handle(MePath, s.guard(http.HandlerFunc(s.handleMe))).Methods(http.MethodGet)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})

	return s, nil
}

// AddUser registers an operator and returns the generated id. The role is stored as
// given, so tests can register roles the console does not recognize.
func (s *Server) AddUser(name, email, password, role string) (string, error) {
	email = normalizeEmail(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; ok {
		return "", ErrUserExists
	}
	u := &user{
		id:           uuid.NewString(),
		name:         name,
		email:        email,
		role:         role,
		passwordHash: hash,
	}
	s.users[email] = u
	return u.id, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    userPayload `json:"user"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.RLock()
	u, ok := s.users[normalizeEmail(req.Email)]
	s.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)) != nil {
		s.logger.Info("admin login rejected", zap.String("email", req.Email))
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.tokens.issue(u.id, u.role)
	if err != nil {
		s.logger.Error("token issue failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info("admin login", zap.String("user_id", u.id), zap.String("role", u.role))
	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token,
		User:    u.payload(),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.id == claims.UID {
			writeJSON(w, http.StatusOK, map[string]userPayload{"user": u.payload()})
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "User not found")
}

type claimsContextKey struct{}

func claimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsContextKey{}).(*Claims)
	return c, ok
}

func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := s.tokens.parse(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

func (u *user) payload() userPayload {
	return userPayload{ID: u.id, Name: u.name, Email: u.email, Role: u.role}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
