package repository

import (
	"context"

	"feedback-go/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CreateUser registers a user in a new organization named after them.
func (r *Repository) CreateUser(ctx context.Context, email, password, firstName, lastName, organizationName string) (*models.User, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:     normalizeEmail(email),
		Password:  hashed,
		FirstName: firstName,
		LastName:  lastName,
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := emailAvailable(tx, user.Email); err != nil {
			return err
		}
		org := &models.Organization{Name: organizationName}
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		user.OrganizationID = org.ID
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail matches the address case-insensitively.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "LOWER(email) = ?", normalizeEmail(email)).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func emailAvailable(tx *gorm.DB, email string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("LOWER(email) = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// ListMembers returns the users of an organization ordered by email.
func (r *Repository) ListMembers(ctx context.Context, organizationID string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("organization_id = ?", organizationID).Order("email").Find(&users).Error
	return users, err
}
