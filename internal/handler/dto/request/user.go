package request

import (
	"lendloop/internal/usecase/commands"
)

type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

func (r CreateUserRequest) ToCommand() commands.CreateUserRequest {
	return commands.CreateUserRequest{Name: r.Name, Email: r.Email}
}

type PatchUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (r PatchUserRequest) ToCommand() commands.PatchUserRequest {
	return commands.PatchUserRequest{Name: r.Name, Email: r.Email}
}
