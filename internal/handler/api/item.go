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

type ItemHandler struct {
	itemCommands commands.ItemCommands
	itemQueries  queries.ItemQueries
}

func NewItemHandler(itemCommands commands.ItemCommands, itemQueries queries.ItemQueries) *ItemHandler {
	return &ItemHandler{
		itemCommands: itemCommands,
		itemQueries:  itemQueries,
	}
}

// @Summary Create item
// @Description Register an item owned by the caller
// @Tags items
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Acting user id"
// @Param request body reqdto.CreateItemRequest true "Item"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.itemCommands.Create(c.Request.Context(), req.ToCommand(), callerID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Update item
// @Description Partially update an item; owner only
// @Tags items
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Acting user id"
// @Param id path string true "Item ID"
// @Param request body reqdto.PatchItemRequest true "Fields to change"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /items/{id} [patch]
func (h *ItemHandler) Patch(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	itemID, err := pathID(c, "id")
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	var req reqdto.PatchItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.itemCommands.Patch(c.Request.Context(), itemID, req.ToCommand(), callerID); err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get item
// @Description Get an item with its comments; the owner also sees last/next booking
// @Tags items
// @Produce json
// @Param X-Sharer-User-Id header string true "Acting user id"
// @Param id path string true "Item ID"
// @Success 200 {object} resdto.ItemResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /items/{id} [get]
func (h *ItemHandler) Get(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	itemID, err := pathID(c, "id")
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	view, err := h.itemQueries.GetByID(c.Request.Context(), itemID, callerID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromItemView(view))
}

// @Summary List own items
// @Description List the caller's items with booking decoration
// @Tags items
// @Produce json
// @Param X-Sharer-User-Id header string true "Acting user id"
// @Param from query int false "Offset of the first result"
// @Param size query int false "Page size"
// @Success 200 {array} resdto.ItemResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /items [get]
func (h *ItemHandler) ListOwn(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	page, err := pageParams(c)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	views, err := h.itemQueries.ListByOwner(c.Request.Context(), callerID, page)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromItemViews(views))
}

// @Summary Search items
// @Description Keyword search over available items; blank text matches nothing
// @Tags items
// @Produce json
// @Param X-Sharer-User-Id header string true "Acting user id"
// @Param text query string true "Search text"
// @Param from query int false "Offset of the first result"
// @Param size query int false "Page size"
// @Success 200 {array} resdto.ItemResponse
// @Failure 400 {object} httperr.Response
// @Router /items/search [get]
func (h *ItemHandler) Search(c *gin.Context) {
	page, err := pageParams(c)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	views, err := h.itemQueries.Search(c.Request.Context(), c.Query("text"), page)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromItemViews(views))
}

// @Summary Comment on item
// @Description Post a comment; requires a finished booking of the item by the caller
// @Tags items
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Acting user id"
// @Param id path string true "Item ID"
// @Param request body reqdto.PostCommentRequest true "Comment"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /items/{id}/comment [post]
func (h *ItemHandler) PostComment(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	itemID, err := pathID(c, "id")
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	var req reqdto.PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.itemCommands.PostComment(c.Request.Context(), itemID, req.ToCommand(), callerID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}
