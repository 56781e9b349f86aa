package response

import (
	"lendloop/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func FromUserView(view *queries.UserView) *UserResponse {
	var resp UserResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromUserViews(views []*queries.UserView) []*UserResponse {
	resps := make([]*UserResponse, len(views))
	for i, view := range views {
		resps[i] = FromUserView(view)
	}
	return resps
}
