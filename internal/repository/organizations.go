package repository

import (
	"context"
	"errors"
	"time"

	"feedback-go/internal/models"

	"gorm.io/gorm"
)

// ErrInvitationClosed is returned when accepting an invitation that is no longer pending.
var ErrInvitationClosed = errors.New("invitation is no longer pending")

func (r *Repository) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	if inv.Status == "" {
		inv.Status = models.InvitationPending
	}
	inv.Email = normalizeEmail(inv.Email)
	return r.db.WithContext(ctx).Create(inv).Error
}

// AcceptInvitation creates the invited user inside the inviting organization.
func (r *Repository) AcceptInvitation(ctx context.Context, token, password, firstName, lastName string, now time.Time) (*models.User, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Invitation
		if err := tx.First(&inv, "token = ?", token).Error; err != nil {
			return notFound(err)
		}
		if inv.Status != models.InvitationPending || now.After(inv.ExpiresAt) {
			return ErrInvitationClosed
		}
		email := normalizeEmail(inv.Email)
		if err := emailAvailable(tx, email); err != nil {
			return err
		}

		user = &models.User{
			Email:          email,
			Password:       hashed,
			FirstName:      firstName,
			LastName:       lastName,
			OrganizationID: inv.OrganizationID,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Model(&inv).Update("status", models.InvitationAccepted).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ExpireInvitations marks pending invitations past their expiry and reports how many changed.
func (r *Repository) ExpireInvitations(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Invitation{}).
		Where("status = ? AND expires_at < ?", models.InvitationPending, now).
		Update("status", models.InvitationExpired)
	return res.RowsAffected, res.Error
}
