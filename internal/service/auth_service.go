package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kitchen-api/internal/domain"
	"kitchen-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for password hashing
	BcryptCost = 10
	// BootstrapBcryptCost is the higher cost used for the seeded admin
	BootstrapBcryptCost = 12
)

var (
	// ErrInvalidCredentials is returned for unknown identifiers and wrong
	// passwords alike, so callers cannot enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers every token failure uniformly; callers are not
	// told whether a token was malformed, expired or forged.
	ErrInvalidToken = errors.New("invalid token")
)

// IdentifierKind tags the result of classifying a login identifier
type IdentifierKind int

const (
	IdentifierUsername IdentifierKind = iota
	IdentifierEmail
	IdentifierPhone
)

// ClassifyIdentifier decides how a login identifier should be looked up:
// anything containing @ is an email, digits/punctuation-only is a phone
// number, everything else is a username.
func ClassifyIdentifier(identifier string) IdentifierKind {
	if strings.Contains(identifier, "@") {
		return IdentifierEmail
	}
	if identifier != "" && strings.Trim(identifier, "0123456789 +-().") == "" {
		return IdentifierPhone
	}
	return IdentifierUsername
}

// Claims represents the JWT claims carried by a bearer token
type Claims struct {
	Role string `json:"role"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*domain.User, string, error)
	Login(ctx context.Context, identifier, password string) (*domain.User, string, error)
	IssueToken(user *domain.User) (string, error)
	VerifyToken(tokenString string) (*domain.Principal, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// EnsureAdmin seeds or refreshes the bootstrap admin account
	EnsureAdmin(ctx context.Context, username, password string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtSecret  string
	expiryDays int
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, expiryDays int) AuthService {
	if expiryDays <= 0 {
		expiryDays = 7
	}
	return &authService{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		expiryDays: expiryDays,
	}
}

// Register creates a new user account with a hashed password. Duplicate
// usernames (case-sensitive exact match) are rejected with
// repository.ErrUsernameTaken.
func (s *authService) Register(ctx context.Context, username, password, email string) (*domain.User, string, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil && err != repository.ErrUserNotFound {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", repository.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// Login authenticates an identifier/password pair and returns a signed
// token. Unknown identifier and wrong password produce the identical error.
func (s *authService) Login(ctx context.Context, identifier, password string) (*domain.User, string, error) {
	var user *domain.User
	var err error

	switch ClassifyIdentifier(identifier) {
	case IdentifierEmail:
		user, err = s.userRepo.FindByEmail(ctx, strings.ToLower(identifier))
	case IdentifierPhone:
		user, err = s.userRepo.FindByPhone(ctx, identifier)
	default:
		user, err = s.userRepo.FindByUsername(ctx, identifier)
	}

	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// IssueToken signs a bearer token carrying {sub, role, kind}
func (s *authService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: user.Role,
		Kind: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expiryDays) * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// VerifyToken validates a bearer token and returns the principal it carries
func (s *authService) VerifyToken(tokenString string) (*domain.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &domain.Principal{
		ID:   subject,
		Role: claims.Role,
		Kind: claims.Kind,
	}, nil
}

// GetUserByID retrieves a user by ID
func (s *authService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// EnsureAdmin upserts the bootstrap admin user. No-op when credentials are
// not configured.
func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BootstrapBcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	return s.userRepo.UpsertAdmin(ctx, username, string(hashedPassword))
}
