package response

import (
	"time"

	"lendloop/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CommentResponse struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"created"`
}

type BookingRefResponse struct {
	ID       uuid.UUID `json:"id"`
	BookerID uuid.UUID `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type ItemResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Available   bool                `json:"available"`
	Comments    []*CommentResponse  `json:"comments"`
	LastBooking *BookingRefResponse `json:"lastBooking,omitempty"`
	NextBooking *BookingRefResponse `json:"nextBooking,omitempty"`
}

func FromItemView(view *queries.ItemView) *ItemResponse {
	var resp ItemResponse
	_ = copier.Copy(&resp, view)
	if resp.Comments == nil {
		resp.Comments = []*CommentResponse{}
	}
	return &resp
}

func FromItemViews(views []*queries.ItemView) []*ItemResponse {
	resps := make([]*ItemResponse, len(views))
	for i, view := range views {
		resps[i] = FromItemView(view)
	}
	return resps
}
