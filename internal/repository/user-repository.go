package repository

import (
	"context"
	"errors"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	CreateFirstAdmin(ctx context.Context, user *domain.User) error
	AdminExists(ctx context.Context) (bool, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserById(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	UpdateUserFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	return translate("create user", r.db.WithContext(ctx).Create(user).Error)
}

// CreateFirstAdmin inserts user as the admin unless one already exists. The
// check and insert share a transaction and the partial unique index on role
// rejects a concurrent second admin.
func (r *userRepository) CreateFirstAdmin(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	user.Role = domain.RoleAdmin

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAdminExists
		}
		return tx.Create(user).Error
	})
	if err == nil || errors.Is(err, ErrAdminExists) {
		return err
	}

	err = translate("create admin", err)
	if errors.Is(err, ErrDuplicate) {
		// lost the race to another admin, or the email is taken
		if exists, existsErr := r.AdminExists(ctx); existsErr == nil && exists {
			return ErrAdminExists
		}
	}
	return err
}

func (r *userRepository) AdminExists(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error
	if err != nil {
		return false, translate("count admins", err)
	}
	return count > 0, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.WithContext(ctx).First(user, "email = ?", email).Error; err != nil {
		return nil, translate("find user by email", err)
	}
	return user, nil
}

func (r *userRepository) FindUserById(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.WithContext(ctx).First(user, "id = ?", id).Error; err != nil {
		return nil, translate("find user by id", err)
	}
	return user, nil
}

func (r *userRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.WithContext(ctx).First(user, "google_id = ?", googleID).Error; err != nil {
		return nil, translate("find user by google id", err)
	}
	return user, nil
}

// UpdateUserFields writes only the given columns and returns the stored user.
func (r *userRepository) UpdateUserFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*domain.User, error) {
	if len(fields) == 0 {
		return r.FindUserById(ctx, id)
	}
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translate("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindUserById(ctx, id)
}
