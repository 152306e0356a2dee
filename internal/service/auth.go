package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backend/internal/events"
	"github.com/Skotchmaster/shop_backend/internal/hash"
	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/mail"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Manager
	Mailer mail.Sender
	Events events.Publisher
	// Base of the links put into verification and reset emails.
	PublicURL string
}

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	Password  string `json:"password"`
}

func (in *RegisterInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	in.Mobile = strings.TrimSpace(in.Mobile)
}

type RegisterResult struct {
	Token string
	User  *models.User
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register creates an unverified account and mails a verification link.
// The account is deleted again when the email cannot be sent.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	in.normalize()
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Mobile == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: please enter all fields", ErrValidation)
	}

	taken, err := s.Repo.EmailTaken(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: user with that email already exists", ErrDuplicate)
	}
	taken, err = s.Repo.MobileTaken(ctx, in.Mobile, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: user with that mobile already exists", ErrDuplicate)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Mobile:       in.Mobile,
		PasswordHash: pwHash,
	}

	if err := s.Repo.CreateUser(ctx, user); err != nil {
		l.Warn("register_error", "error", err)
		return nil, duplicate(err, "user with that email or mobile already exists")
	}

	token, err := s.sendVerification(ctx, user)
	if err != nil {
		l.Warn("register_error", "user_id", user.ID, "error", err)
		if derr := s.Repo.DeleteUser(ctx, user.ID); derr != nil {
			l.Error("register_rollback_error", "user_id", user.ID, "error", derr)
		}
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicUserEvents, user.ID.String(), events.UserEvent{
		Type:   events.UserRegistered,
		UserID: user.ID.String(),
		Email:  user.Email,
	})
	l.Info("register_success", "user_id", user.ID)
	return &RegisterResult{Token: token, User: user}, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *models.User) (string, error) {
	token, err := s.Tokens.IssueAccess(user.ID)
	if err != nil {
		return "", err
	}
	msg, err := mail.VerificationEmail(user.Email, user.FirstName, s.link("/auth/verify-me/", token))
	if err != nil {
		return "", err
	}
	if _, err := s.Mailer.Send(ctx, msg); err != nil {
		return "", fmt.Errorf("send verification email: %w", err)
	}
	return token, nil
}

// Verify marks the account behind a verification token as verified. Calling
// it again for a verified account is a no-op.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.User, error) {
	id, err := s.Tokens.Verify(token, tokens.KindAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if user.IsVerified {
		return user, nil
	}

	user, err = s.Repo.UpdateUser(ctx, id, map[string]any{"is_verified": true})
	if err != nil {
		return nil, notFound(err, "user")
	}

	events.Emit(ctx, s.Events, events.TopicUserEvents, user.ID.String(), events.UserEvent{
		Type:   events.UserVerified,
		UserID: user.ID.String(),
	})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	return s.login(ctx, email, password, false)
}

// AdminLogin is Login restricted to admin accounts.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	return s.login(ctx, email, password, true)
}

func (s *AuthService) login(ctx context.Context, email, password string, adminOnly bool) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "admin", adminOnly)

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: please enter all fields", ErrValidation)
	}

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, "user does not exist")
	}

	// existence, verification, role, block state, then credentials
	if !user.IsVerified {
		l.Warn("login_failed", "user_id", user.ID, "reason", "unverified")
		return nil, fmt.Errorf("%w: please verify your account first", ErrUnverified)
	}
	if adminOnly && !user.IsAdmin {
		l.Warn("login_failed", "user_id", user.ID, "reason", "not admin")
		return nil, fmt.Errorf("%w: not authorised", ErrForbidden)
	}
	if user.IsBlocked {
		l.Warn("login_failed", "user_id", user.ID, "reason", "blocked")
		return nil, fmt.Errorf("%w: account is blocked", ErrBlocked)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "user_id", user.ID, "reason", "bad password")
		return nil, fmt.Errorf("%w: incorrect credentials", ErrInvalidCredentials)
	}

	refreshToken, err := s.Tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, notFound(err, "user")
	}
	user.RefreshToken = refreshToken

	accessToken, err := s.Tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// Refresh issues a new access token for the holder of a stored refresh
// token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", fmt.Errorf("%w: no refresh token in cookie", ErrUnauthorized)
	}

	user, err := s.Repo.FindUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", notFound(err, "user with refresh token not found")
	}

	id, err := s.Tokens.Verify(refreshToken, tokens.KindRefresh)
	if err != nil || id != user.ID {
		return "", ErrInvalidToken
	}

	return s.Tokens.IssueAccess(user.ID)
}

// Logout revokes the stored refresh token. Unknown or empty tokens are not
// an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	user, err := s.Repo.FindUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.Repo.SetRefreshToken(ctx, user.ID, "")
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		return notFound(err, "user with this email not found")
	}

	token, err := s.Tokens.IssueReset(user.ID)
	if err != nil {
		return err
	}
	msg, err := mail.PasswordResetEmail(user.Email, user.FirstName, s.link("/auth/reset/", token))
	if err != nil {
		return err
	}
	if _, err := s.Mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	id, issued, err := s.Tokens.VerifyIssued(token, tokens.KindReset)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return notFound(err, "user")
	}
	// a link stops working once the password has changed after it was sent
	if user.PasswordChangedAt != nil && !issued.After(user.PasswordChangedAt.Truncate(time.Second)) {
		return ErrInvalidToken
	}
	return s.setPassword(ctx, id, newPassword)
}

func (s *AuthService) ChangePassword(ctx context.Context, actor Actor, current, newPassword string) error {
	if current == "" || newPassword == "" {
		return fmt.Errorf("%w: please enter all fields", ErrValidation)
	}
	user, err := s.Repo.GetUser(ctx, actor.UserID)
	if err != nil {
		return notFound(err, "user")
	}
	if !hash.CheckPassword(user.PasswordHash, current) {
		return fmt.Errorf("%w: current password is wrong", ErrInvalidCredentials)
	}
	return s.setPassword(ctx, user.ID, newPassword)
}

func (s *AuthService) setPassword(ctx context.Context, id uuid.UUID, password string) error {
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.Repo.UpdateUser(ctx, id, map[string]any{
		"password_hash":       pwHash,
		"password_changed_at": time.Now().UTC(),
	})
	return notFound(err, "user")
}

func (s *AuthService) link(path, token string) string {
	return strings.TrimRight(s.PublicURL, "/") + path + token
}
