package api

import (
	"context"
	"net/http"

	reqdto "lendloop/internal/handler/dto/request"
	resdto "lendloop/internal/handler/dto/response"
	"lendloop/internal/handler/middleware"
	"lendloop/internal/pkg/paging"
	"lendloop/internal/usecase/commands"
	"lendloop/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Request a booking of an item for a period
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Acting user id"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.bookingCommands.Create(c.Request.Context(), req.ToCommand(), callerID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Decide booking
// @Description Approve or reject a waiting booking; only the item owner may decide
// @Tags bookings
// @Produce json
// @Param X-Sharer-User-Id header string true "Acting user id"
// @Param id path string true "Booking ID"
// @Param approved query bool true "true approves, false rejects"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [patch]
func (h *BookingHandler) Decide(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	bookingID, err := pathID(c, "id")
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	approved, err := boolQuery(c, "approved")
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	if err := h.bookingCommands.Decide(c.Request.Context(), bookingID, callerID, approved); err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get booking
// @Description Get a booking; visible to the booker and the item owner only
// @Tags bookings
// @Produce json
// @Param X-Sharer-User-Id header string true "Acting user id"
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	bookingID, err := pathID(c, "id")
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), bookingID, callerID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List own bookings
// @Description List the caller's bookings filtered by state, newest start first
// @Tags bookings
// @Produce json
// @Param X-Sharer-User-Id header string true "Acting user id"
// @Param state query string false "ALL, CURRENT, PAST, FUTURE, WAITING or REJECTED" default(ALL)
// @Param from query int false "Offset of the first result"
// @Param size query int false "Page size"
// @Success 200 {array} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) ListForRenter(c *gin.Context) {
	h.list(c, h.bookingQueries.ListForRenter)
}

// @Summary List bookings on own items
// @Description List bookings of every item the caller owns, filtered by state
// @Tags bookings
// @Produce json
// @Param X-Sharer-User-Id header string true "Acting user id"
// @Param state query string false "ALL, CURRENT, PAST, FUTURE, WAITING or REJECTED" default(ALL)
// @Param from query int false "Offset of the first result"
// @Param size query int false "Page size"
// @Success 200 {array} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/owner [get]
func (h *BookingHandler) ListForOwner(c *gin.Context) {
	h.list(c, h.bookingQueries.ListForOwner)
}

func (h *BookingHandler) list(c *gin.Context, listFn func(ctx context.Context, userID uuid.UUID, state queries.StateFilter, page paging.PageRequest) ([]*queries.BookingView, error)) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	state, err := queries.ParseStateFilter(c.Query("state"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	page, err := pageParams(c)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	views, err := listFn(c.Request.Context(), callerID, state, page)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}
