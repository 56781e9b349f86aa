package shared

import (
	"time"

	"github.com/google/uuid"
)

// Write-side snapshots for command validation; the read side has its own
// view types under usecase/queries.

type UserSnapshot struct {
	ID    uuid.UUID
	Name  string
	Email string
}

type ItemSnapshot struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Available   bool
	CreatedAt   time.Time
}

type BookingSnapshot struct {
	ID        uuid.UUID
	ItemID    uuid.UUID
	OwnerID   uuid.UUID
	RenterID  uuid.UUID
	StartAt   time.Time
	EndAt     time.Time
	Status    string
	CreatedAt time.Time
}
