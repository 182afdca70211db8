package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "User", err)
	}
	return &user, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).Take(&user).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "User", err)
	}
	return &user, nil
}

// EnsureAdmin creates the administrator account when no user has email yet.
// It reports whether a row was created; an existing account is left untouched.
func (r *UserRepo) EnsureAdmin(ctx context.Context, email, passwordHash string) (bool, error) {
	email = NormalizeEmail(email)
	var existing models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, errs.NewDatabaseError("find", "User", err)
	}
	user := models.User{Email: email, PasswordHash: passwordHash, Role: "admin"}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return false, errs.NewDatabaseError("create", "User", err)
	}
	return true, nil
}
