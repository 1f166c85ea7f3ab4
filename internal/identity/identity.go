// Package identity carries the signed-in user through a request's context.
package identity

import (
	"context"

	"feedback-go/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// User is the principal a session resolves to.
type User struct {
	ID             uint   `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	OrganizationID string `json:"organizationId"`
}

// ContextWithUser stores the user into ctx.
func ContextWithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the user from ctx.
func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userContextKey).(User)
	return user, ok
}

// FromModel projects a stored user onto the fields a request needs.
func FromModel(u *models.User) User {
	return User{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		OrganizationID: u.OrganizationID,
	}
}
