package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "wishmanager-backend/internal/common/errors"
	"wishmanager-backend/internal/common/middleware"
	"wishmanager-backend/internal/features/wish/models"
	"wishmanager-backend/internal/features/wish/service"
)

type WishHandler struct {
	service service.WishService
}

func NewWishHandler(service service.WishService) *WishHandler {
	return &WishHandler{service: service}
}

func (h *WishHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/wishlists/:id/wishes", h.create)

	wishes := router.Group("/wishes")
	{
		wishes.PUT("/:id", h.update)
		wishes.DELETE("/:id", h.delete)
		wishes.POST("/:id/book", h.book)
		wishes.POST("/:id/unbook", h.unbook)
		wishes.POST("/:id/gift", h.gift)
		wishes.POST("/:id/ungift", h.ungift)
	}
}

// @Summary Add a wish
// @Description Adds a wish to the wishlist. Requires at least the editor role.
// @Tags wishes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wishlist ID"
// @Param input body models.WishCreate true "Wish fields"
// @Success 201 {object} models.WishResponse
// @Failure 400 {object} middleware.ErrorResponse "Validation error"
// @Failure 403 {object} middleware.ErrorResponse "Insufficient role"
// @Failure 404 {object} middleware.ErrorResponse "Wishlist not found"
// @Router /wishlists/{id}/wishes [post]
func (h *WishHandler) create(c *gin.Context) {
	var input models.WishCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid wish payload"))
		return
	}

	wish, err := h.service.Create(c.Request.Context(), middleware.GetActorID(c), c.Param("id"), &input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, wish)
}

// @Summary Update a wish
// @Description Rewrites the descriptive fields. Status and booking state are untouched.
// @Tags wishes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wish ID"
// @Param input body models.WishUpdate true "Wish fields"
// @Success 200 {object} models.WishResponse
// @Failure 403 {object} middleware.ErrorResponse "Insufficient role"
// @Failure 404 {object} middleware.ErrorResponse "Wish not found"
// @Router /wishes/{id} [put]
func (h *WishHandler) update(c *gin.Context) {
	var input models.WishUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid wish payload"))
		return
	}

	wish, err := h.service.Update(c.Request.Context(), middleware.GetActorID(c), c.Param("id"), &input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, wish)
}

// @Summary Delete a wish
// @Tags wishes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wish ID"
// @Success 204 "Deleted"
// @Failure 403 {object} middleware.ErrorResponse "Insufficient role"
// @Failure 404 {object} middleware.ErrorResponse "Wish not found"
// @Router /wishes/{id} [delete]
func (h *WishHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.GetActorID(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Book a wish
// @Description Claims a free wish for the caller. Losing a race against another booker returns ALREADY_BOOKED; booking a wish that is not free returns INVALID_STATE_TRANSITION.
// @Tags wishes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wish ID"
// @Param input body models.BookRequest false "Booking options"
// @Success 200 {object} models.WishResponse
// @Failure 403 {object} middleware.ErrorResponse "Not a member"
// @Failure 404 {object} middleware.ErrorResponse "Wish not found"
// @Failure 409 {object} middleware.ErrorResponse "Already booked or illegal transition"
// @Router /wishes/{id}/book [post]
func (h *WishHandler) book(c *gin.Context) {
	var input models.BookRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid booking payload"))
			return
		}
	}

	wish, err := h.service.Book(c.Request.Context(), middleware.GetActorID(c), c.Param("id"), input.HideBookerName)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, wish)
}

// @Summary Release a booked wish
// @Description Moves a booked wish back to free. Any member may release a booking.
// @Tags wishes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wish ID"
// @Success 200 {object} models.WishResponse
// @Failure 403 {object} middleware.ErrorResponse "Not a member"
// @Failure 404 {object} middleware.ErrorResponse "Wish not found"
// @Failure 409 {object} middleware.ErrorResponse "Illegal transition"
// @Router /wishes/{id}/unbook [post]
func (h *WishHandler) unbook(c *gin.Context) {
	wish, err := h.service.Unbook(c.Request.Context(), middleware.GetActorID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, wish)
}

// @Summary Mark a wish as gifted
// @Description Moves a booked wish to gifted. The booker record is kept.
// @Tags wishes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wish ID"
// @Success 200 {object} models.WishResponse
// @Failure 403 {object} middleware.ErrorResponse "Not a member"
// @Failure 404 {object} middleware.ErrorResponse "Wish not found"
// @Failure 409 {object} middleware.ErrorResponse "Illegal transition"
// @Router /wishes/{id}/gift [post]
func (h *WishHandler) gift(c *gin.Context) {
	wish, err := h.service.MarkGifted(c.Request.Context(), middleware.GetActorID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, wish)
}

// @Summary Revert a gift mark
// @Description Moves a gifted wish back to booked, keeping the original claim.
// @Tags wishes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wish ID"
// @Success 200 {object} models.WishResponse
// @Failure 403 {object} middleware.ErrorResponse "Not a member"
// @Failure 404 {object} middleware.ErrorResponse "Wish not found"
// @Failure 409 {object} middleware.ErrorResponse "Illegal transition"
// @Router /wishes/{id}/ungift [post]
func (h *WishHandler) ungift(c *gin.Context) {
	wish, err := h.service.UnmarkGifted(c.Request.Context(), middleware.GetActorID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, wish)
}
