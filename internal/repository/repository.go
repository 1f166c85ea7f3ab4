package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when an account already uses the email address.
var ErrEmailTaken = errors.New("email already registered")

// Repository is the postgres-backed store for surveys, responses and accounts.
type Repository struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// validID reports whether id can be compared against a uuid column.
// Anything else cannot match a row and would make postgres reject the query.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
