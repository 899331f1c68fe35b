package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pixelpost/internal/config"
	"pixelpost/internal/mail"
	"pixelpost/internal/media"
	"pixelpost/internal/middleware"
	"pixelpost/internal/models"
	"pixelpost/internal/repository"
	"pixelpost/internal/validation"
)

// resetTokenTTL bounds how long a mailed password-reset link stays valid.
const resetTokenTTL = 10 * time.Minute

// UserService handles account identity: registration, login,
// credential and profile updates, and password reset.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	store      media.Store
	mailer     mail.Mailer
	cfg        *config.Config
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository, store media.Store, mailer mail.Mailer, cfg *config.Config) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		store:      store,
		mailer:     mailer,
		cfg:        cfg,
	}
}

// RegisterInput carries the fields accepted at registration. Avatar is
// an optional base64 data URI.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Avatar   string `json:"avatar"`
}

// Register creates a new account and returns the stored user.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := validation.Struct(input); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.userRepo.GetByEmail(ctx, input.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
	}

	if input.Avatar != "" {
		raw, err := media.DecodeDataURI(input.Avatar)
		if err != nil {
			return nil, models.NewValidationError("Invalid avatar image")
		}
		asset, err := s.store.Upload(ctx, "avatars", raw)
		if err != nil {
			return nil, models.NewDependencyError("image storage", err)
		}
		user.AvatarPublicID = asset.PublicID
		user.AvatarURL = asset.URL
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the user on success. Unknown
// email and wrong password produce the same error so the response does
// not leak which accounts exist.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewInvalidCredentialsError("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewInvalidCredentialsError("Invalid email or password")
	}

	// Clients render the whole profile straight from the login
	// response, so resolve posts and the follow graph here.
	return s.GetProfile(ctx, user.ID)
}

// UpdatePassword changes userID's password after verifying the old one.
func (s *UserService) UpdatePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return models.NewValidationError("Both old and new passwords are required")
	}
	if len(newPassword) < 6 {
		return models.NewValidationError("Password must be at least 6 characters")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return models.NewInvalidCredentialsError("Old password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hashed)
	return s.userRepo.Update(ctx, user)
}

// UpdateProfileInput carries partial profile updates. Empty fields are
// left unchanged; Avatar replaces the stored avatar asset.
type UpdateProfileInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// UpdateProfile applies a partial profile update and returns the user.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		if len(name) < 2 || len(name) > 50 {
			return nil, models.NewValidationError("Name must be between 2 and 50 characters")
		}
		user.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != user.Email {
		if err := validation.Struct(struct {
			Email string `validate:"required,email"`
		}{Email: email}); err != nil {
			return nil, models.NewValidationError("Invalid email address")
		}
		user.Email = email
	}

	if input.Avatar != "" {
		raw, err := media.DecodeDataURI(input.Avatar)
		if err != nil {
			return nil, models.NewValidationError("Invalid avatar image")
		}
		asset, err := s.store.Upload(ctx, "avatars", raw)
		if err != nil {
			return nil, models.NewDependencyError("image storage", err)
		}
		if user.AvatarPublicID != "" {
			if err := s.store.Destroy(ctx, user.AvatarPublicID); err != nil {
				middleware.Logger.WarnContext(ctx, "failed to destroy replaced avatar",
					"public_id", user.AvatarPublicID, "error", err)
			}
		}
		user.AvatarPublicID = asset.PublicID
		user.AvatarURL = asset.URL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ForgotPassword generates a reset token for the account with the given
// email and mails a reset link. Only the sha256 of the token is stored;
// the plaintext goes out in the mail alone. The plaintext token is also
// returned for tests.
func (s *UserService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewNotFoundError("User", email)
	}

	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", models.NewInternalError(err)
	}
	token := hex.EncodeToString(buf)

	hash := sha256.Sum256([]byte(token))
	expire := time.Now().Add(resetTokenTTL)
	user.ResetPasswordToken = hex.EncodeToString(hash[:])
	user.ResetPasswordExpire = &expire
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}

	resetURL := fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.ResetBaseURL, "/"), token)
	body := fmt.Sprintf("You requested a password reset.\n\nFollow this link to choose a new password:\n\n%s\n\nThe link expires in %d minutes. If you did not request this, ignore this mail.",
		resetURL, int(resetTokenTTL.Minutes()))

	if err := s.mailer.Send(ctx, user.Email, "Password reset", body); err != nil {
		// Clear the token so the failed request leaves no usable state.
		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = nil
		if clearErr := s.userRepo.Update(ctx, user); clearErr != nil {
			middleware.Logger.ErrorContext(ctx, "failed to clear reset token after send failure",
				"user_id", user.ID, "error", clearErr)
		}
		return "", models.NewDependencyError("mail relay", err)
	}
	return token, nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) (*models.User, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("Invalid or expired reset token")
	}
	if len(newPassword) < 6 {
		return nil, models.NewValidationError("Password must be at least 6 characters")
	}

	hash := sha256.Sum256([]byte(token))
	user, err := s.userRepo.GetByResetToken(ctx, hex.EncodeToString(hash[:]), time.Now())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid or expired reset token")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user.Password = string(hashed)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile returns a user with posts and the derived follower and
// following lists attached.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithPosts(ctx, userID)
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.Following(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Followers = followers
	user.Following = following
	return user, nil
}

// SearchUsers finds users by (case-insensitive) name fragment. An empty
// query returns all users.
func (s *UserService) SearchUsers(ctx context.Context, name string) ([]models.User, error) {
	return s.userRepo.SearchByName(ctx, strings.TrimSpace(name))
}
