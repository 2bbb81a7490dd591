package repositories

import (
	"context"
	"errors"
	"time"

	"shebeka_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	FindPublicApplier(ctx context.Context, id string) (*models.User, error)
	FindAppliersWithSkills(ctx context.Context) ([]models.User, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	if user.Skills == nil {
		user.Skills = []string{}
	}
	if err := conn(ctx, r.db).Create(user).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// FindPublicApplier - публичный профиль есть только у кандидатов
func (r *UserRepositoryImpl) FindPublicApplier(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).
		Where("id = ? AND role = ?", id, models.UserRoleApplier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindAppliersWithSkills - кандидаты для подбора вакансий; пересечение навыков считается в сервисе
func (r *UserRepositoryImpl) FindAppliersWithSkills(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := conn(ctx, r.db).
		Select("id", "name", "skills").
		Where("role = ?", models.UserRoleApplier).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	result := users[:0]
	for _, u := range users {
		if len(u.Skills) > 0 {
			result = append(result, u)
		}
	}
	return result, nil
}

func (r *UserRepositoryImpl) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	result := conn(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
