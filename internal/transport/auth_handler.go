package transport

import (
	"errors"
	"net/http"

	"kitchen-api/internal/domain"
	"kitchen-api/internal/middleware"
	"kitchen-api/internal/repository"
	"kitchen-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// LoginRequest represents the login request payload. Identifier is matched
// as username, email or phone by format; Username is kept as an accepted
// alias for older clients.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Password   string `json:"password" validate:"required"`
}

// AuthResponse carries a signed token and the user's public profile
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// UserProfile represents user profile data
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

func newUserProfile(user *domain.User) UserProfile {
	return UserProfile{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth routes. The rate limiter guards the
// login endpoint against credential stuffing; the auth middleware guards
// the profile endpoint.
func (h *AuthHandler) RegisterRoutes(r chi.Router, rateLimiter, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.With(rateLimiter).Post("/login", h.Login)
		r.With(authMiddleware).Get("/me", h.Me)
	})
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Registration validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authService.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		if err == repository.ErrUsernameTaken {
			middleware.RespondWithError(w, http.StatusConflict, "username already taken")
			return
		}

		h.logger.Error("Registration failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	h.logger.Info("User registered successfully", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, AuthResponse{
		Token: token,
		User:  newUserProfile(user),
	})
}

// Login handles authentication for any identifier kind
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "identifier is required")
		return
	}

	user, token, err := h.authService.Login(r.Context(), identifier, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.logger.Info("User logged in successfully", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, AuthResponse{
		Token: token,
		User:  newUserProfile(user),
	})
}

// Me returns the authenticated caller's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// the account was deleted after the token was issued
			middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		h.logger.Error("Failed to load profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"user": newUserProfile(user)})
}
