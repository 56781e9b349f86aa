package response

import (
	"time"

	"lendloop/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ItemRefResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type UserRefResponse struct {
	ID uuid.UUID `json:"id"`
}

type BookingResponse struct {
	ID     uuid.UUID       `json:"id"`
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Status string          `json:"status"`
	Item   ItemRefResponse `json:"item"`
	Booker UserRefResponse `json:"booker"`
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromBookingViews(views []*queries.BookingView) []*BookingResponse {
	resps := make([]*BookingResponse, len(views))
	for i, view := range views {
		resps[i] = FromBookingView(view)
	}
	return resps
}
