package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/SundayYogurt/store_service/internal/dto"
	"github.com/SundayYogurt/store_service/internal/helper"
	"github.com/SundayYogurt/store_service/internal/interfaces"
	"github.com/SundayYogurt/store_service/internal/repository"
	"github.com/SundayYogurt/store_service/pkg/apperr"
	"github.com/google/uuid"
)

const msgEmailTaken = "User already exists with this email"

type AuthService interface {
	// Auth
	Register(ctx context.Context, input dto.RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, input dto.UserLogin) (*domain.User, string, error)
	LoginWithGoogle(ctx context.Context, profile dto.GoogleProfile) (*domain.User, string, error)
	CreateAdmin(ctx context.Context, input dto.CreateAdminRequest) (*domain.User, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Profile
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateUserProfile) (*domain.User, error)
}

type authService struct {
	repo     repository.UserRepository
	auth     helper.Auth
	producer interfaces.ProducerHandler

	decoyOnce sync.Once
	decoyHash string
}

func NewAuthService(repo repository.UserRepository, auth helper.Auth, producer interfaces.ProducerHandler) AuthService {
	return &authService{
		repo:     repo,
		auth:     auth,
		producer: producer,
	}
}

// AUTH
func (s *authService) Register(ctx context.Context, input dto.RegisterRequest) (*domain.User, string, error) {
	email := helper.NormalizeEmail(input.Email)

	_, err := s.repo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", apperr.Conflict(msgEmailTaken)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, "", err
	}

	hashed, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: &hashed,
		Provider:     domain.ProviderLocal,
		Name:         strings.TrimSpace(input.Name),
		Role:         domain.RoleUser,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", apperr.Conflict(msgEmailTaken)
		}
		return nil, "", err
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	publish(s.producer, dto.EventUserRegistered, dto.UserRegisteredEvent{
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
	})
	slog.InfoContext(ctx, "user registered", "user_id", user.ID)

	return user, token, nil
}

// Login fails the same way for an unknown email, a Google-only account and
// a wrong password.
func (s *authService) Login(ctx context.Context, input dto.UserLogin) (*domain.User, string, error) {
	user, err := s.repo.FindUserByEmail(ctx, helper.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.compareDecoy(input.Password)
			return nil, "", apperr.InvalidCredentials()
		}
		return nil, "", err
	}
	if !user.HasPassword() {
		s.compareDecoy(input.Password)
		return nil, "", apperr.InvalidCredentials()
	}
	if err := s.auth.VerifyPassword(input.Password, *user.PasswordHash); err != nil {
		return nil, "", apperr.InvalidCredentials()
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// compareDecoy spends the same bcrypt work as a real password check, so a
// failed login takes as long whether or not the account has a password.
func (s *authService) compareDecoy(plain string) {
	s.decoyOnce.Do(func() {
		hashed, err := s.auth.HashPassword(uuid.NewString())
		if err != nil {
			slog.Error("hash decoy password", "error", err)
			return
		}
		s.decoyHash = hashed
	})
	if s.decoyHash != "" {
		_ = s.auth.VerifyPassword(plain, s.decoyHash)
	}
}

// LoginWithGoogle resolves the Google profile to an account: by Google id,
// then by email (linking the Google id to it), else a new Google account.
func (s *authService) LoginWithGoogle(ctx context.Context, profile dto.GoogleProfile) (*domain.User, string, error) {
	if profile.ID == "" || profile.Email == "" {
		return nil, "", apperr.Unauthorized("Authentication failed")
	}

	user, err := s.findOrLinkGoogleUser(ctx, profile)
	if err != nil {
		return nil, "", err
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) findOrLinkGoogleUser(ctx context.Context, profile dto.GoogleProfile) (*domain.User, error) {
	user, err := s.repo.FindUserByGoogleID(ctx, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	googleID := profile.ID
	email := helper.NormalizeEmail(profile.Email)

	user, err = s.repo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		fields := map[string]interface{}{"google_id": googleID}
		if profile.Picture != "" {
			fields["avatar"] = profile.Picture
		}
		linked, err := s.repo.UpdateUserFields(ctx, user.ID, fields)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "linked google account", "user_id", linked.ID)
		return linked, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user = &domain.User{
		Email:      email,
		GoogleID:   &googleID,
		Provider:   domain.ProviderGoogle,
		Name:       name,
		Avatar:     profile.Picture,
		Role:       domain.RoleUser,
		IsVerified: true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	publish(s.producer, dto.EventUserRegistered, dto.UserRegisteredEvent{
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
	})
	return user, nil
}

func (s *authService) CreateAdmin(ctx context.Context, input dto.CreateAdminRequest) (*domain.User, error) {
	hashed, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	admin := &domain.User{
		Email:        helper.NormalizeEmail(input.Email),
		PasswordHash: &hashed,
		Provider:     domain.ProviderLocal,
		Name:         strings.TrimSpace(input.Name),
		IsVerified:   true,
	}

	err = s.repo.CreateFirstAdmin(ctx, admin)
	switch {
	case errors.Is(err, repository.ErrAdminExists):
		return nil, apperr.Conflict("An admin user already exists.")
	case errors.Is(err, repository.ErrDuplicate):
		return nil, apperr.Conflict(msgEmailTaken)
	case err != nil:
		return nil, err
	}

	slog.InfoContext(ctx, "admin user created", "user_id", admin.ID)
	return admin, nil
}

// Authenticate resolves a bearer token to its user.
func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	id, err := s.auth.VerifyToken(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeUnauthorized, "Invalid or expired token", err)
	}

	user, err := s.repo.FindUserById(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid or expired token")
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.FindUserById(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// PROFILE
func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateUserProfile) (*domain.User, error) {
	fields := map[string]interface{}{}
	setIfPresent(fields, "name", input.Name)
	setIfPresent(fields, "phone", input.Phone)
	if a := input.Address; a != nil {
		setIfPresent(fields, "address_street", a.Street)
		setIfPresent(fields, "address_city", a.City)
		setIfPresent(fields, "address_state", a.State)
		setIfPresent(fields, "address_zip_code", a.ZipCode)
		setIfPresent(fields, "address_country", a.Country)
	}

	user, err := s.repo.UpdateUserFields(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

func setIfPresent(fields map[string]interface{}, column string, v *string) {
	if v != nil {
		fields[column] = strings.TrimSpace(*v)
	}
}
