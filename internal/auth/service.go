package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medicore/hospital-portal/internal/audit"
	"github.com/medicore/hospital-portal/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidUserData    = errors.New("invalid user data")
)

// Roles known to the portal. Only "admin" gates anything today; "staff"
// exists so future roles don't need a schema change.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	Name         string    `json:"name" bson:"name"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Roles        []string  `json:"roles" bson:"roles"`
	Status       string    `json:"status" bson:"status"`
	LastLogin    time.Time `json:"last_login" bson:"lastLogin"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updatedAt"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type Service interface {
	Register(ctx context.Context, email, name, password string, roles []string) (*User, error)
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	DeactivateUser(ctx context.Context, userID string) error
}

type service struct {
	store       store.Store
	audit       audit.Service
	jwtSecret   []byte
	tokenExpiry time.Duration
}

type ServiceConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
}

func NewService(st store.Store, auditService audit.Service, cfg ServiceConfig) Service {
	return &service{
		store:       st,
		audit:       auditService,
		jwtSecret:   []byte(cfg.JWTSecret),
		tokenExpiry: cfg.TokenExpiry,
	}
}

func (s *service) Register(ctx context.Context, email, name, password string, roles []string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || name == "" {
		return nil, ErrInvalidUserData
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidUserData)
	}
	if len(roles) == 0 {
		roles = []string{RoleStaff}
	}

	if _, err := s.findByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
		Roles:        roles,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, store.CollectionUsers, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	details, _ := json.Marshal(map[string]interface{}{
		"email": email,
		"roles": roles,
	})
	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType:  audit.EventModify,
		UserID:     user.ID,
		Action:     "REGISTER",
		Resource:   "user",
		ResourceID: user.ID,
		Status:     "success",
		Details:    json.RawMessage(details),
	})

	return user, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != "active" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		details, _ := json.Marshal(map[string]interface{}{"reason": "invalid_password"})
		s.audit.LogEvent(ctx, &audit.AuditEvent{
			EventType: audit.EventLogin,
			Action:    "LOGIN",
			Resource:  "user",
			Status:    "failure",
			Details:   json.RawMessage(details),
		})
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	// Best effort; a failed lastLogin update must not block the login.
	_ = s.store.Update(ctx, store.CollectionUsers, user.ID, map[string]interface{}{
		"lastLogin": time.Now().UTC(),
	})

	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType:  audit.EventLogin,
		UserID:     user.ID,
		Action:     "LOGIN",
		Resource:   "user",
		ResourceID: user.ID,
		Status:     "success",
	})

	return &LoginResponse{Token: token, User: user}, nil
}

func (s *service) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	var user User
	if err := s.store.Get(ctx, store.CollectionUsers, userID, &user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidUserData)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.store.Update(ctx, store.CollectionUsers, userID, map[string]interface{}{
		"passwordHash": string(hashed),
		"updatedAt":    time.Now().UTC(),
	})
}

func (s *service) DeactivateUser(ctx context.Context, userID string) error {
	if err := s.store.Update(ctx, store.CollectionUsers, userID, map[string]interface{}{
		"status":    "inactive",
		"updatedAt": time.Now().UTC(),
	}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType:  audit.EventModify,
		Action:     "DEACTIVATE",
		Resource:   "user",
		ResourceID: userID,
		Status:     "success",
	})
	return nil
}

func (s *service) findByEmail(ctx context.Context, email string) (*User, error) {
	var users []User
	err := s.store.List(ctx, store.CollectionUsers, store.ListOptions{
		Filter: map[string]interface{}{"email": email},
	}, &users)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return &users[0], nil
}

func (s *service) generateToken(user *User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.Roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
