package item

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBlankName        = errors.New("item name must not be blank")
	ErrBlankDescription = errors.New("item description must not be blank")
	ErrNotOwner         = errors.New("only the owner may change an item")
)

type Item struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	name        string
	description string
	available   bool
	createdAt   time.Time
}

func New(now time.Time, ownerID uuid.UUID, name, description string, available bool) (*Item, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return nil, ErrBlankName
	}
	if description == "" {
		return nil, ErrBlankDescription
	}
	return &Item{
		id:          uuid.New(),
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		createdAt:   now,
	}, nil
}

func Reconstruct(id, ownerID uuid.UUID, name, description string, available bool, createdAt time.Time) *Item {
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		createdAt:   createdAt,
	}
}

// Patch applies the non-nil fields. Only the owner may patch.
func (i *Item) Patch(actorID uuid.UUID, name, description *string, available *bool) error {
	if actorID != i.ownerID {
		return ErrNotOwner
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return ErrBlankName
		}
		i.name = trimmed
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if trimmed == "" {
			return ErrBlankDescription
		}
		i.description = trimmed
	}
	if available != nil {
		i.available = *available
	}
	return nil
}

func (i *Item) ID() uuid.UUID        { return i.id }
func (i *Item) OwnerID() uuid.UUID   { return i.ownerID }
func (i *Item) Name() string         { return i.name }
func (i *Item) Description() string  { return i.description }
func (i *Item) Available() bool      { return i.available }
func (i *Item) CreatedAt() time.Time { return i.createdAt }
