package repository

import (
	"context"
	"orphancare/domain"
	"strings"

	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	guard *Guard
}

func NewUserRepository(database *gorm.DB, guard *Guard) domain.UserRepo {
	return &userRepository{
		db:    database,
		guard: guard,
	}
}

func (ur *userRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	err := ur.guard.do(func() error {
		return ur.db.WithContext(ctx).Create(user).Error
	})
	return rename(err, domain.KindConflict, "User already exists with this email")
}

func (ur *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := ur.guard.do(func() error {
		return ur.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		return nil, rename(err, domain.KindNotFound, "User not found")
	}
	return &user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := ur.guard.do(func() error {
		return ur.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	})
	if err != nil {
		return nil, rename(err, domain.KindNotFound, "User not found")
	}
	return &user, nil
}

func (ur *userRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return ur.guard.do(func() error {
		res := ur.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("User not found")
		}
		return nil
	})
}

func (ur *userRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := ur.guard.do(func() error {
		return ur.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
