package request

import (
	"time"

	"lendloop/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ItemID uuid.UUID `json:"itemId" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

func (r CreateBookingRequest) ToCommand() commands.CreateBookingRequest {
	return commands.CreateBookingRequest{
		ItemID: r.ItemID,
		Start:  r.Start,
		End:    r.End,
	}
}
