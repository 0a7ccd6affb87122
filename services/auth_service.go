package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

const sessionTTL = 7 * 24 * time.Hour

// AuthService handles registration, login, and session lifecycle. Tokens are
// JWTs backed by a server-side session row so logout revokes them for real.
type AuthService struct {
	repos     *repositories.Repos
	hasher    PasswordHasher
	email     EmailSender
	jwtSecret string
	log       *logrus.Logger
}

func NewAuthService(repos *repositories.Repos, hasher PasswordHasher, email EmailSender, jwtSecret string, log *logrus.Logger) *AuthService {
	return &AuthService{repos: repos, hasher: hasher, email: email, jwtSecret: jwtSecret, log: log}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new visitor account and sends the welcome email
// best-effort.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (user *models.User, err error) {
	defer recoverGuard(&err)

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, errs.Validation("Name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.Validation("A valid email is required")
	}
	if len(input.Password) < 6 {
		return nil, errs.Validation("Password must be at least 6 characters")
	}

	existing, err := s.repos.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fetchErr("Failed to check email", err)
	}
	if existing != nil {
		return nil, errs.Conflict("Email already registered")
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, errs.Internal("Failed to hash password", err)
	}

	user = &models.User{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     models.RoleVisitor,
		Status:   models.UserStatusActive,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, writeErr("Failed to create user", err)
	}

	if s.email != nil {
		if mailErr := s.email.SendWelcomeEmail(user.Email, user.Name); mailErr != nil {
			s.log.WithError(mailErr).WithField("email", user.Email).Warn("failed to send welcome email")
		}
	}
	return user, nil
}

// Login checks credentials and opens a session. The returned token carries
// the session and is valid until logout or expiry.
func (s *AuthService) Login(ctx context.Context, email, password string) (token string, user *models.User, err error) {
	defer recoverGuard(&err)

	email = strings.ToLower(strings.TrimSpace(email))
	user, err = s.repos.Users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fetchErr("Failed to load user", err)
	}
	// A single message for both failure modes so login does not reveal
	// which emails are registered.
	if user == nil || !s.hasher.Compare(user.Password, password) {
		return "", nil, errs.Validation("Invalid credentials")
	}
	if user.Status != models.UserStatusActive {
		return "", nil, errs.PermissionRequired("Account is not active")
	}

	expiresAt := time.Now().Add(sessionTTL)
	token, err = s.generateJWT(user.ID, user.Email, expiresAt)
	if err != nil {
		return "", nil, errs.Internal("Failed to generate token", err)
	}

	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.repos.Sessions.Create(ctx, session); err != nil {
		return "", nil, writeErr("Failed to create session", err)
	}
	return token, user, nil
}

// Logout revokes the session behind the token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) (err error) {
	defer recoverGuard(&err)

	if err := s.repos.Sessions.DeleteByToken(ctx, token); err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			return nil
		}
		return writeErr("Failed to delete session", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user. The JWT signature, the
// session row, and both expiries must all check out.
func (s *AuthService) Authenticate(ctx context.Context, token string) (user *models.User, err error) {
	defer recoverGuard(&err)

	claims := jwt.MapClaims{}
	parsed, parseErr := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if parseErr != nil || !parsed.Valid {
		return nil, errs.PermissionRequired("Invalid or expired token")
	}

	session, err := s.repos.Sessions.FindByToken(ctx, token)
	if err != nil {
		return nil, fetchErr("Failed to load session", err)
	}
	if session == nil || time.Now().After(session.ExpiresAt) {
		return nil, errs.PermissionRequired("Session expired")
	}

	user, err = s.repos.Users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fetchErr("Failed to load user", err)
	}
	if user == nil || user.Status != models.UserStatusActive {
		return nil, errs.PermissionRequired("Account is not active")
	}
	return user, nil
}

func (s *AuthService) generateJWT(userID, email string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     expiresAt.Unix(),
		"jti":     uuid.New().String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// CleanupExpiredSessions removes sessions past their expiry. Called by the
// background job.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (removed int64, err error) {
	defer recoverGuard(&err)

	removed, err = s.repos.Sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, writeErr("Failed to clean up sessions", err)
	}
	return removed, nil
}
