package request

import (
	"lendloop/internal/usecase/commands"
)

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
}

func (r CreateItemRequest) ToCommand() commands.CreateItemRequest {
	return commands.CreateItemRequest{
		Name:        r.Name,
		Description: r.Description,
		Available:   *r.Available,
	}
}

type PatchItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

func (r PatchItemRequest) ToCommand() commands.PatchItemRequest {
	return commands.PatchItemRequest{
		Name:        r.Name,
		Description: r.Description,
		Available:   r.Available,
	}
}

type PostCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (r PostCommentRequest) ToCommand() commands.PostCommentRequest {
	return commands.PostCommentRequest{Text: r.Text}
}
