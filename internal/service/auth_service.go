package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/auth"
	"github.com/careerhub/career-api/internal/config"
	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/repository"
	"github.com/careerhub/career-api/internal/store"
	apperrors "github.com/careerhub/career-api/pkg/util"
)

const invalidCredentials = "Invalid email or password"

// AuthService coordinates registration, login and account token flows.
type AuthService struct {
	users           repository.UserRepository
	institutions    repository.InstitutionRepository
	notifier        *NotificationService
	tokenMgr        *auth.TokenManager
	logger          *zap.Logger
	bcryptCost      int
	verificationTTL time.Duration
	resetTTL        time.Duration
	now             func() time.Time
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo        repository.UserRepository
	InstitutionRepo repository.InstitutionRepository
	Notifier        *NotificationService
	TokenManager    *auth.TokenManager
	Logger          *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	tokenMgr := deps.TokenManager
	if tokenMgr == nil {
		tokenMgr = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:           deps.UserRepo,
		institutions:    deps.InstitutionRepo,
		notifier:        deps.Notifier,
		tokenMgr:        tokenMgr,
		logger:          logger,
		bcryptCost:      cfg.Auth.BcryptCost,
		verificationTTL: cfg.Auth.VerificationTTL(),
		resetTTL:        cfg.Auth.PasswordResetTTL(),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// RegisterInput carries sign-up data.
type RegisterInput struct {
	Email           string
	Password        string
	Name            string
	Role            domain.Role
	Phone           string
	InstitutionName string
	CompanyName     string
}

// RegisterResult is a created, unverified account. No session is issued.
type RegisterResult struct {
	User  *domain.User
	Email EmailResult
}

// Register creates an unverified account and mails its verification link.
// Institution accounts also get a pending institution record.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if !in.Role.Registrable() {
		return nil, apperrors.NewValidationError("Invalid or missing fields: role",
			map[string]any{"errors": map[string]any{"role": "must be one of: student, institution, company"}})
	}

	email := domain.NormalizeEmail(in.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("User with this email already exists", nil)
	} else if !isNotFound(err) {
		return nil, err
	}
	if in.Role == domain.RoleInstitution {
		if _, err := s.institutions.GetByEmail(ctx, email); err == nil {
			return nil, apperrors.NewConflict("An institution with this email already exists", nil)
		} else if !isNotFound(err) {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user, err := domain.NewUser(domain.NewUserInput{
		Email:           email,
		PasswordHash:    hash,
		Name:            in.Name,
		Role:            in.Role,
		InstitutionName: in.InstitutionName,
		CompanyName:     in.CompanyName,
		Phone:           in.Phone,
	})
	if err != nil {
		return nil, err
	}

	token, err := auth.NewOpaqueToken()
	if err != nil {
		return nil, err
	}
	user.SetVerificationToken(token, s.now().Add(s.verificationTTL))

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.NewConflict("User with this email already exists", nil)
		}
		return nil, err
	}

	if user.Role == domain.RoleInstitution {
		if err := s.attachInstitution(ctx, user, in.Phone); err != nil {
			// An account without its institution would block re-registration.
			if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
				s.logger.Error("remove account after failed institution setup",
					zap.String("user_id", user.ID), zap.Error(delErr))
			}
			return nil, err
		}
	}

	result := &RegisterResult{User: user}
	if s.notifier != nil {
		result.Email = s.notifier.SendVerificationEmail(ctx, user, token)
	}
	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Bool("verification_sent", result.Email.Success))
	return result, nil
}

func (s *AuthService) attachInstitution(ctx context.Context, user *domain.User, phone string) error {
	institution, err := domain.NewInstitution(user.InstitutionName, user.Email)
	if err != nil {
		return err
	}
	institution.Phone = strings.TrimSpace(phone)
	institution.OwnerID = user.ID
	if err := s.institutions.Create(ctx, institution); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperrors.NewConflict("An institution with this email already exists", nil)
		}
		return err
	}
	user.InstitutionID = institution.ID
	if err := s.users.Update(ctx, user); err != nil {
		if delErr := s.institutions.Delete(ctx, institution.ID); delErr != nil {
			s.logger.Error("remove institution after failed account link",
				zap.String("institution_id", institution.ID), zap.Error(delErr))
		}
		return err
	}
	return nil
}

// LoginResult is an issued session.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Login checks credentials and issues a session token. Unknown email and
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.Password, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, err
	}

	if !user.IsVerified {
		return nil, apperrors.NewUnauthorizedWithDetails(
			"Please verify your email before logging in",
			map[string]any{"needsVerification": true},
		)
	}
	switch user.Status {
	case domain.UserStatusSuspended:
		return nil, apperrors.NewForbidden("Your account has been suspended. Please contact support.")
	case domain.UserStatusPending:
		return nil, apperrors.NewForbidden("Your account is pending approval")
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// VerifyEmail redeems a verification token and sends the welcome email.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.NewBadRequest("Verification token is required")
	}
	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewBadRequest("Invalid or expired verification token")
		}
		return nil, err
	}
	if user.VerificationExpires == nil || !s.now().Before(*user.VerificationExpires) {
		return nil, apperrors.NewBadRequest("Verification token has expired. Please request a new one.")
	}

	user.MarkVerified()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.SendWelcomeEmail(ctx, user)
	}
	return user, nil
}

// ResendVerification issues a fresh verification token for an unverified account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (EmailResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return EmailResult{}, storeError(err, "User")
	}
	if user.IsVerified {
		return EmailResult{}, apperrors.NewBadRequest("Email is already verified")
	}

	token, err := auth.NewOpaqueToken()
	if err != nil {
		return EmailResult{}, err
	}
	user.SetVerificationToken(token, s.now().Add(s.verificationTTL))
	if err := s.users.Update(ctx, user); err != nil {
		return EmailResult{}, err
	}
	if s.notifier == nil {
		return EmailResult{}, nil
	}
	return s.notifier.SendVerificationEmail(ctx, user, token), nil
}

// ForgotPassword arms a reset token when the account exists. It reports
// success either way so callers cannot probe for registered addresses.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}

	token, err := auth.NewOpaqueToken()
	if err != nil {
		return err
	}
	user.SetResetToken(token, s.now().Add(s.resetTTL))
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.SendPasswordResetEmail(ctx, user, token)
	}
	return nil
}

// ResetPassword redeems a reset token and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.NewBadRequest("Reset token is required")
	}
	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return apperrors.NewBadRequest("Invalid or expired reset token")
		}
		return err
	}
	if user.ResetExpires == nil || !s.now().Before(*user.ResetExpires) {
		return apperrors.NewBadRequest("Reset token has expired. Please request a new one.")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	user.Password = hash
	user.ClearResetToken()
	return s.users.Update(ctx, user)
}

// ChangePassword verifies the current password before storing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return storeError(err, "User")
	}
	if err := auth.ComparePassword(user.Password, currentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return apperrors.NewBadRequest("Current password is incorrect")
		}
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.Password = hash
	return s.users.Update(ctx, user)
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	return user, storeError(err, "User")
}

// ProfileUpdate holds optional profile changes. Nil fields are left alone.
type ProfileUpdate struct {
	Name            *string
	Phone           *string
	Address         *string
	Bio             *string
	Avatar          *string
	InstitutionName *string
	CompanyName     *string
}

// UpdateProfile applies profile changes to the caller's account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User")
	}
	if err := applyProfileUpdate(user, in); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func applyProfileUpdate(user *domain.User, in ProfileUpdate) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return apperrors.NewValidationError("Invalid or missing fields: name",
				map[string]any{"errors": map[string]any{"name": "is required"}})
		}
		user.Name = name
	}
	setTrimmed(&user.Profile.Phone, in.Phone)
	setTrimmed(&user.Profile.Address, in.Address)
	setTrimmed(&user.Profile.Bio, in.Bio)
	setTrimmed(&user.Profile.Avatar, in.Avatar)
	if user.Role == domain.RoleInstitution {
		setTrimmed(&user.InstitutionName, in.InstitutionName)
	}
	if user.Role == domain.RoleCompany {
		setTrimmed(&user.CompanyName, in.CompanyName)
	}
	return nil
}

func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
