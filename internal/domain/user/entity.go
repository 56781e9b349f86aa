package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBlankName    = errors.New("user name must not be blank")
	ErrInvalidEmail = errors.New("invalid email address")
)

type User struct {
	id        uuid.UUID
	name      string
	email     string
	createdAt time.Time
}

func New(now time.Time, name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrBlankName
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	return &User{
		id:        uuid.New(),
		name:      name,
		email:     email,
		createdAt: now,
	}, nil
}

func Reconstruct(id uuid.UUID, name, email string, createdAt time.Time) *User {
	return &User{id: id, name: name, email: email, createdAt: createdAt}
}

// Patch applies the non-nil fields.
func (u *User) Patch(name, email *string) error {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return ErrBlankName
		}
		u.name = trimmed
	}
	if email != nil {
		normalized, err := normalizeEmail(*email)
		if err != nil {
			return err
		}
		u.email = normalized
	}
	return nil
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) CreatedAt() time.Time { return u.createdAt }

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return "", ErrInvalidEmail
	}
	return email, nil
}
