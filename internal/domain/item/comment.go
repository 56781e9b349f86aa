package item

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBlankComment      = errors.New("comment text must not be blank")
	ErrNoFinishedBooking = errors.New("comment requires a finished booking of the item")
)

// Comment is feedback left on an item by a renter whose booking of it has
// already ended.
type Comment struct {
	id        uuid.UUID
	itemID    uuid.UUID
	authorID  uuid.UUID
	text      string
	createdAt time.Time
}

// NewComment creates a comment. hasFinishedBooking is the caller's answer to
// "did authorID have a booking of this item that ended before now".
func NewComment(now time.Time, itemID, authorID uuid.UUID, text string, hasFinishedBooking bool) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrBlankComment
	}
	if !hasFinishedBooking {
		return nil, ErrNoFinishedBooking
	}
	return &Comment{
		id:        uuid.New(),
		itemID:    itemID,
		authorID:  authorID,
		text:      text,
		createdAt: now,
	}, nil
}

func ReconstructComment(id, itemID, authorID uuid.UUID, text string, createdAt time.Time) *Comment {
	return &Comment{id: id, itemID: itemID, authorID: authorID, text: text, createdAt: createdAt}
}

func (c *Comment) ID() uuid.UUID        { return c.id }
func (c *Comment) ItemID() uuid.UUID    { return c.itemID }
func (c *Comment) AuthorID() uuid.UUID  { return c.authorID }
func (c *Comment) Text() string         { return c.text }
func (c *Comment) CreatedAt() time.Time { return c.createdAt }
