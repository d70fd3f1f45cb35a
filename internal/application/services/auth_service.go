package services

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskmanager/web/internal/domain/entities"
	"github.com/taskmanager/web/internal/infrastructure/config"
	"github.com/taskmanager/web/internal/infrastructure/logger"
	"github.com/taskmanager/web/internal/ports"
)

// AuthService handles registration, login, and session resolution. Sessions
// are rows in the session store; the token handed to the browser is an
// HS256-signed JWT whose ID (jti) is the session row and whose subject is
// the user. Both the signature and the row must check out.
type AuthService struct {
	userRepo    ports.UserRepository
	sessionRepo ports.SessionRepository
	cfg         config.SessionConfig
	logger      *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo ports.UserRepository, sessionRepo ports.SessionRepository, cfg config.SessionConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req ports.RegisterRequest) (*entities.User, error) {
	user, err := entities.NewUser(req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	// The unique index is the authority on duplicates; the repository maps
	// the violation to ErrUsernameTaken.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Infow("User registered", "user_id", user.ID, "username", user.Username)

	return user, nil
}

// Login authenticates a user, creates a session, and returns the signed
// session token. Unknown usernames and wrong passwords are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*entities.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		s.logger.Warnw("Login attempt with unknown username", "username", req.Username)
		return nil, "", entities.ErrInvalidCredentials
	}

	if !user.CheckPassword(req.Password) {
		s.logger.Warnw("Login attempt with invalid password", "username", req.Username, "user_id", user.ID)
		return nil, "", entities.ErrInvalidCredentials
	}

	session := entities.NewSession(user.ID, s.cfg.TTL)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.signSession(session)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}

	s.logger.Infow("User logged in", "user_id", user.ID, "session_id", session.ID)

	return user, token, nil
}

// ResolveSession validates a session token and returns the authenticated
// user. Expired sessions are removed on sight.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*entities.User, error) {
	sessionID, err := s.parseSessionID(token)
	if err != nil {
		return nil, entities.ErrSessionNotFound
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, entities.ErrSessionNotFound
	}

	if session.IsExpired() {
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			s.logger.Warnw("Failed to remove expired session", "error", err, "session_id", session.ID)
		}
		return nil, entities.ErrSessionExpired
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, entities.ErrSessionNotFound
	}

	return user, nil
}

// Logout invalidates the session behind the token. An already-invalid token
// is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sessionID, err := s.parseSessionID(token)
	if err != nil {
		return nil
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Infow("User logged out", "session_id", sessionID)
	return nil
}

// PurgeExpiredSessions removes expired session rows and reports how many
// were dropped. ResolveSession already deletes expired sessions it sees;
// this sweeps the rows whose users simply never came back.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	removed, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired sessions: %w", err)
	}

	if removed > 0 {
		s.logger.Infow("Expired sessions purged", "count", removed)
	}

	return removed, nil
}

func (s *AuthService) signSession(session *entities.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        session.ID.String(),
		Subject:   session.UserID.String(),
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *AuthService) parseSessionID(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid session token claims")
	}

	return uuid.Parse(claims.ID)
}
