package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/martijn/miniblog/internal/core/domain"
	"github.com/martijn/miniblog/internal/core/repository"
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 10

var (
	loginPattern    = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	passwordPattern = regexp.MustCompile(`^[A-Za-z0-9@#$%^&+=!]+$`)
)

// AuthService handles registration, credential verification and the session
// lifecycle. Session tokens handed to clients are signed JWTs whose sid claim
// names a server-side session row, so revocation is immediate.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	jwtSecret   []byte
	sessionTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	jwtSecret string,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   []byte(jwtSecret),
		sessionTTL:  sessionTTL,
	}
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Register creates a new non-admin user. Checks run in a fixed order and the
// first failure wins; nothing is written unless every check passes.
func (s *AuthService) Register(ctx context.Context, login, password, name, email, about string) error {
	if login == "" || password == "" || name == "" || email == "" {
		return domain.ErrMissingFields
	}
	if !loginPattern.MatchString(login) {
		return domain.ErrInvalidLogin
	}
	if !passwordPattern.MatchString(password) {
		return domain.ErrInvalidPassword
	}

	if _, err := s.userRepo.FindByLogin(ctx, login); err == nil {
		return domain.ErrLoginExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("failed to check login: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}

	user := domain.NewUser(login, email, name, about, hash)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Login verifies credentials, opens a session and returns the signed session
// token. Unknown login and wrong password fail identically so the response
// does not leak which one was wrong.
func (s *AuthService) Login(ctx context.Context, login, password string) (string, *domain.User, error) {
	if login == "" || password == "" {
		return "", nil, domain.ErrMissingCredentials
	}

	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.VerifyPassword(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	session := domain.NewSession(user.ID, s.sessionTTL)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Opportunistic cleanup of stale sessions
	_ = s.sessionRepo.DeleteExpired(ctx)

	token, err := s.signToken(session)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout deletes the caller's session. Logging out an anonymous or already
// logged-out caller succeeds as well.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}

// Authenticate resolves a session token to its user. It returns the session
// ID alongside so callers can revoke the session later.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, "", err
	}

	session, err := s.sessionRepo.FindByID(ctx, claims.SessionID)
	if err != nil {
		return nil, "", fmt.Errorf("session revoked: %w", err)
	}
	if session.IsExpired() {
		_ = s.sessionRepo.Delete(ctx, session.ID)
		return nil, "", errors.New("session expired")
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("session user gone: %w", err)
	}
	return user, session.ID, nil
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (s *AuthService) signToken(session *domain.Session) (string, error) {
	claims := sessionClaims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(session.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			Issuer:    "miniblog",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString string) (*sessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
