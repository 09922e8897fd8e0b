package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-authgate/eventgate/internal/core"
	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/redirect"
	"github.com/go-authgate/eventgate/internal/siteurl"
	"github.com/go-authgate/eventgate/internal/store"
	"github.com/go-authgate/eventgate/internal/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
)

// Password reset stages and results used as metric labels.
const (
	ResetStageRequested = "requested"
	ResetStageCompleted = "completed"
)

// dummyHash is compared against when the email is unknown, so a failed login
// costs the same bcrypt work whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("eventgate-timing-guard"), bcrypt.DefaultCost)

// AccountConfig holds the settings AccountService needs from config.Config.
type AccountConfig struct {
	BaseURL  string
	MailFrom string
}

// AccountService implements sign up, login, account updates and password
// recovery.
type AccountService struct {
	store   *store.Store
	tokens  *token.ResetTokenProvider
	mailer  core.Mailer
	audit   *AuditService
	metrics core.Recorder
	cfg     AccountConfig
	now     func() time.Time
}

func NewAccountService(
	s *store.Store,
	tokens *token.ResetTokenProvider,
	mailer core.Mailer,
	audit *AuditService,
	metrics core.Recorder,
	cfg AccountConfig,
) *AccountService {
	return &AccountService{
		store:   s,
		tokens:  tokens,
		mailer:  mailer,
		audit:   audit,
		metrics: metrics,
		cfg:     cfg,
		now:     time.Now,
	}
}

// SignUp creates a local account. ErrEmailTaken when the email is in use.
func (s *AccountService) SignUp(ctx context.Context, email, password, fullName string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		s.metrics.RecordSignup(false)
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		s.metrics.RecordDatabaseQueryError("create_user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.RecordSignup(true)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventUserSignedUp,
		ActorUserID:  user.ID,
		ActorEmail:   user.Email,
		ResourceType: models.ResourceUser,
		ResourceID:   user.ID,
		ResourceName: user.Email,
		Action:       "User signed up",
		Success:      true,
	})

	return user, nil
}

// Authenticate checks email and password. Unknown emails and wrong passwords
// both return ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	start := time.Now()

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		s.metrics.RecordDatabaseQueryError("get_user_by_email")
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	hash := dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(password))

	if user == nil || cmpErr != nil {
		s.metrics.RecordLogin(false, time.Since(start))
		s.audit.Log(ctx, AuditLogEntry{
			EventType:    models.EventAuthenticationFailure,
			Severity:     models.SeverityWarning,
			ActorEmail:   strings.ToLower(strings.TrimSpace(email)),
			ResourceType: models.ResourceUser,
			Action:       "Login failed",
			Success:      false,
			ErrorMessage: ErrInvalidCredentials.Error(),
		})
		return nil, ErrInvalidCredentials
	}

	s.metrics.RecordLogin(true, time.Since(start))
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventAuthenticationSuccess,
		ActorUserID:  user.ID,
		ActorEmail:   user.Email,
		ResourceType: models.ResourceUser,
		ResourceID:   user.ID,
		Action:       "Login succeeded",
		Success:      true,
	})

	return user, nil
}

// RecordLogout audits a logout and the length of the session it ended.
func (s *AccountService) RecordLogout(ctx context.Context, userID string, sessionAge time.Duration) {
	s.metrics.RecordLogout(sessionAge)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventLogout,
		ActorUserID:  userID,
		ResourceType: models.ResourceUser,
		ResourceID:   userID,
		Action:       "User logged out",
		Success:      true,
	})
}

func (s *AccountService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateEmail changes the user's email. ErrEmailTaken when in use.
func (s *AccountService) UpdateEmail(ctx context.Context, user *models.User, email string) error {
	previous := user.Email

	err := s.store.UpdateUserEmail(ctx, user.ID, email)
	s.metrics.RecordAccountUpdate("email", err == nil)
	switch {
	case errors.Is(err, store.ErrEmailTaken):
		return ErrEmailTaken
	case errors.Is(err, store.ErrRecordNotFound):
		return ErrUserNotFound
	case err != nil:
		return fmt.Errorf("failed to update email: %w", err)
	}

	user.Email = strings.ToLower(strings.TrimSpace(email))
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventEmailUpdated,
		ActorUserID:  user.ID,
		ActorEmail:   user.Email,
		ResourceType: models.ResourceUser,
		ResourceID:   user.ID,
		Action:       "Email address changed",
		Details:      models.AuditDetails{"previous_email": previous},
		Success:      true,
	})
	return nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, user *models.User, fullName string) error {
	fullName = strings.TrimSpace(fullName)

	err := s.store.UpdateUserFullName(ctx, user.ID, fullName)
	s.metrics.RecordAccountUpdate("profile", err == nil)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	user.FullName = fullName
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventProfileUpdated,
		ActorUserID:  user.ID,
		ActorEmail:   user.Email,
		ResourceType: models.ResourceUser,
		ResourceID:   user.ID,
		Action:       "Profile updated",
		Success:      true,
	})
	return nil
}

// RequestPasswordReset mails a reset link when email belongs to an account.
// Unknown emails return nil so callers cannot tell the two apart. returnTo
// is sanitised and carried on the link when it is not the site root.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email, returnTo string) error {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrRecordNotFound) {
		s.metrics.RecordPasswordReset(ResetStageRequested, "unknown_email")
		slog.InfoContext(ctx, "password reset requested for unknown email")
		return nil
	}
	if err != nil {
		s.metrics.RecordDatabaseQueryError("get_user_by_email")
		return fmt.Errorf("failed to load user: %w", err)
	}

	issued, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.metrics.RecordPasswordReset(ResetStageRequested, "error")
		return err
	}

	reset := &models.PasswordReset{
		ID:        issued.ID,
		UserID:    user.ID,
		TokenHash: token.Hash(issued.TokenString),
		ExpiresAt: issued.ExpiresAt,
	}
	if err := s.store.ReplacePasswordReset(ctx, reset); err != nil {
		s.metrics.RecordPasswordReset(ResetStageRequested, "error")
		return fmt.Errorf("failed to store password reset: %w", err)
	}

	if err := s.mailer.Send(ctx, core.Message{
		To:      user.Email,
		From:    s.cfg.MailFrom,
		Subject: "Reset your EventGate password",
		Text:    s.resetMailBody(user, issued, returnTo),
	}); err != nil {
		s.metrics.RecordPasswordReset(ResetStageRequested, "mail_failed")
		return fmt.Errorf("failed to send password reset mail: %w", err)
	}

	s.metrics.RecordPasswordReset(ResetStageRequested, "sent")
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventPasswordResetRequested,
		ActorUserID:  user.ID,
		ActorEmail:   user.Email,
		ResourceType: models.ResourcePasswordReset,
		ResourceID:   reset.ID,
		Action:       "Password reset link sent",
		Success:      true,
	})
	return nil
}

// ResetLink builds the absolute reset URL mailed to the user.
func (s *AccountService) ResetLink(tokenString, returnTo string) string {
	q := url.Values{"token": {tokenString}}
	if safe := redirect.Sanitize(returnTo); safe != redirect.Default {
		q.Set("redirect", safe)
	}
	return siteurl.Absolute(s.cfg.BaseURL, "/reset-password?"+q.Encode())
}

func (s *AccountService) resetMailBody(user *models.User, issued *token.Issued, returnTo string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", user.DisplayName())
	b.WriteString("Someone asked to reset the password of your EventGate account.\n")
	b.WriteString("Open this link to choose a new one:\n\n")
	b.WriteString(s.ResetLink(issued.TokenString, returnTo))
	fmt.Fprintf(&b, "\n\nThe link expires at %s and works once.\n",
		issued.ExpiresAt.UTC().Format(time.RFC1123))
	b.WriteString("If you did not ask for this, you can ignore this email.\n")
	return b.String()
}

// CheckResetToken verifies a reset token against its stored row without
// consuming it.
func (s *AccountService) CheckResetToken(ctx context.Context, tokenString string) (*models.PasswordReset, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	reset, err := s.store.GetPasswordReset(ctx, claims.ID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, token.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load password reset: %w", err)
	}

	if reset.UserID != claims.Subject || reset.TokenHash != token.Hash(tokenString) {
		return nil, token.ErrInvalidToken
	}
	if reset.IsUsed() {
		return nil, token.ErrTokenUsed
	}
	if reset.IsExpired(s.now()) {
		return nil, token.ErrExpiredToken
	}

	return reset, nil
}

// ResetPassword sets a new password using a reset token and consumes the
// token. Returns the token errors of package token.
func (s *AccountService) ResetPassword(ctx context.Context, tokenString, password string) (*models.User, error) {
	reset, err := s.CheckResetToken(ctx, tokenString)
	if err != nil {
		s.metrics.RecordPasswordReset(ResetStageCompleted, resetFailureLabel(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.store.CompletePasswordReset(ctx, reset.ID, reset.UserID, string(hash), s.now())
	if errors.Is(err, store.ErrResetAlreadyUsed) {
		s.metrics.RecordPasswordReset(ResetStageCompleted, "used")
		return nil, token.ErrTokenUsed
	}
	if err != nil {
		s.metrics.RecordPasswordReset(ResetStageCompleted, "error")
		return nil, fmt.Errorf("failed to complete password reset: %w", err)
	}

	user, err := s.GetUser(ctx, reset.UserID)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPasswordReset(ResetStageCompleted, "success")
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventPasswordResetCompleted,
		ActorUserID:  user.ID,
		ActorEmail:   user.Email,
		ResourceType: models.ResourcePasswordReset,
		ResourceID:   reset.ID,
		Action:       "Password reset completed",
		Success:      true,
	})
	return user, nil
}

// CleanupExpiredResets deletes reset rows whose tokens expired.
func (s *AccountService) CleanupExpiredResets(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredPasswordResets(ctx, s.now())
}

func resetFailureLabel(err error) string {
	switch {
	case errors.Is(err, token.ErrExpiredToken):
		return "expired"
	case errors.Is(err, token.ErrTokenUsed):
		return "used"
	case errors.Is(err, token.ErrInvalidToken):
		return "invalid"
	default:
		return "error"
	}
}
