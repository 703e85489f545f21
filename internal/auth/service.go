package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/clientdesk/clientdesk/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrResetTokenInvalid  = errors.New("reset token is invalid or expired")
)

// ResetMailer delivers password-reset emails. Delivery is best effort: the
// reset flow never fails or blocks on it.
type ResetMailer interface {
	SendResetEmail(ctx context.Context, toEmail, fullName, resetURL string) error
}

type Service struct {
	db          *gorm.DB
	jwt         *JWTService
	mailer      ResetMailer
	resetTTL    time.Duration
	frontendURL string
	logger      *slog.Logger
}

func NewService(db *gorm.DB, jwt *JWTService, mailer ResetMailer, resetTTL time.Duration, frontendURL string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:          db,
		jwt:         jwt,
		mailer:      mailer,
		resetTTL:    resetTTL,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

type SignupInput struct {
	Email    string
	Password string
	FullName string
	Company  string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Service) Signup(ctx context.Context, input SignupInput) (*AuthResponse, error) {
	// Fast-path existence check; the unique constraint below is the authority.
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        input.Email,
		PasswordHash: hash,
		FullName:     input.FullName,
		Company:      input.Company,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User:  &user,
	}, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", input.Email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User:  &user,
	}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ForgotPassword starts the reset flow. An unknown email is a silent no-op so
// the endpoint cannot be used to probe which addresses are registered.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return err
	}

	raw, err := GenerateResetToken()
	if err != nil {
		return err
	}

	token := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     raw,
		ExpiresAt: time.Now().Add(s.resetTTL),
	}

	// Invalidate any in-flight reset, then persist the new token. The
	// delete-then-insert pair is transactional but does not serialize
	// concurrent requests for the same user; see DESIGN.md.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&token).Error
	})
	if err != nil {
		return err
	}

	if s.mailer != nil {
		url := ResetURL(s.frontendURL, raw)
		if err := s.mailer.SendResetEmail(ctx, user.Email, user.FullName, url); err != nil {
			s.logger.Error("failed to dispatch reset email", "user_id", user.ID, "error", err)
		}
	}

	return nil
}

// ResetPassword redeems a reset token. Unknown, already-used and expired
// tokens are indistinguishable to the caller. Expiry is checked here, lazily;
// expired rows are never swept.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	var record models.PasswordResetToken
	if err := s.db.WithContext(ctx).
		Where("token = ? AND used = ?", token, false).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	if time.Now().After(record.ExpiresAt) {
		return ErrResetTokenInvalid
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	// Flip the password and consume the token as one unit.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", record.UserID).
			Update("password_hash", hash).Error; err != nil {
			return err
		}
		return tx.Model(&record).Update("used", true).Error
	})
}

// ChangePassword is the authenticated path, independent of the reset flow.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !CheckPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(user).Update("password_hash", hash).Error
}
