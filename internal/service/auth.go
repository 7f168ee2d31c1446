package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const AuthCookieName = "auth_token"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrSignupDisabled     = errors.New("sign up is disabled")
	ErrPasswordless       = errors.New("this account signs in with OAuth")
)

type AuthService struct {
	userRepository repository.UserRepository
	jwtSecret      string
	jwtExpiry      time.Duration
	isProduction   bool
	allowSignup    bool
}

func NewAuthService(
	userRepository repository.UserRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
	isProduction bool,
	allowSignup bool,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
		isProduction:   isProduction,
		allowSignup:    allowSignup,
	}
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrPasswordless
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
	}

	slog.Info("user signed in", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (*model.User, error) {
	if !s.allowSignup {
		return nil, ErrSignupDisabled
	}

	email = normalizeEmail(email)
	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, validation.Field("password", err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user signed up", "user_id", user.ID)
	return user, nil
}

// EnsureOwner makes sure the site owner account exists. A non-empty password
// is (re)applied so the owner can always sign in with the configured one.
func (s *AuthService) EnsureOwner(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)

	var hash *string
	if password != "" {
		h, err := s.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash owner password: %w", err)
		}
		hash = &h
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err == nil {
		if hash != nil && (!user.HasPassword() || s.ComparePassword(password, *user.PasswordHash) != nil) {
			user.PasswordHash = hash
			err = s.userRepository.Update(ctx, user)
			if err != nil {
				return nil, fmt.Errorf("failed to set owner password: %w", err)
			}
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}

	now := time.Now().UTC()
	user = &model.User{
		ID:              uuid.New().String(),
		Email:           email,
		PasswordHash:    hash,
		EmailVerifiedAt: &now,
		CreatedAt:       now,
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create owner: %w", err)
	}

	slog.Info("site owner created", "user_id", user.ID, "email", email)
	return user, nil
}

// AuthenticateOAuth signs in the account for a provider-verified email.
// New accounts are only created when sign up is allowed.
func (s *AuthService) AuthenticateOAuth(ctx context.Context, email, provider string) (*model.User, error) {
	email = normalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to lookup user: %w", err)
		}
		if !s.allowSignup {
			return nil, ErrSignupDisabled
		}

		now := time.Now().UTC()
		user = &model.User{
			ID:              uuid.New().String(),
			Email:           email,
			EmailVerifiedAt: &now, // OAuth provider has verified email
			CreatedAt:       now,
		}

		err = s.userRepository.Create(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		slog.Info("new OAuth user created", "user_id", user.ID, "provider", provider)
		return user, nil
	}

	if user.EmailVerifiedAt == nil {
		now := time.Now().UTC()
		user.EmailVerifiedAt = &now
		err = s.userRepository.Update(ctx, user)
		if err != nil {
			slog.Warn("failed to mark email as verified", "error", err, "user_id", user.ID)
		}
	}

	slog.Info("user authenticated via OAuth", "user_id", user.ID, "provider", provider)
	return user, nil
}

// UserFromToken resolves a JWT to its user. The password hash is stripped.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.VerifyJWT(token)
	if err != nil {
		return nil, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, errors.New("token has no user_id")
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = nil
	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// TokenExpiry is when a token issued now stops being valid.
func (s *AuthService) TokenExpiry() time.Time {
	return time.Now().Add(s.jwtExpiry)
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
