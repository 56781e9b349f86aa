package api

import (
	"net/http"

	reqdto "lendloop/internal/handler/dto/request"
	resdto "lendloop/internal/handler/dto/response"
	"lendloop/internal/handler/middleware"
	"lendloop/internal/usecase/commands"
	"lendloop/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userCommands commands.UserCommands
	userQueries  queries.UserQueries
}

func NewUserHandler(userCommands commands.UserCommands, userQueries queries.UserQueries) *UserHandler {
	return &UserHandler{
		userCommands: userCommands,
		userQueries:  userQueries,
	}
}

// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param request body reqdto.CreateUserRequest true "User"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req reqdto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.userCommands.Create(c.Request.Context(), req.ToCommand())
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body reqdto.PatchUserRequest true "Fields to change"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /users/{id} [patch]
func (h *UserHandler) Patch(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	var req reqdto.PatchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.userCommands.Patch(c.Request.Context(), userID, req.ToCommand()); err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} resdto.UserResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	view, err := h.userQueries.GetByID(c.Request.Context(), userID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromUserView(view))
}

// @Summary List users
// @Tags users
// @Produce json
// @Param from query int false "Offset of the first result"
// @Param size query int false "Page size"
// @Success 200 {array} resdto.UserResponse
// @Failure 400 {object} httperr.Response
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	page, err := pageParams(c)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	views, err := h.userQueries.List(c.Request.Context(), page)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromUserViews(views))
}

// @Summary Delete user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	if err := h.userCommands.Delete(c.Request.Context(), userID); err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
