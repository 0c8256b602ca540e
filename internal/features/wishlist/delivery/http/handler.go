package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "wishmanager-backend/internal/common/errors"
	"wishmanager-backend/internal/common/middleware"
	"wishmanager-backend/internal/features/wishlist/models"
	"wishmanager-backend/internal/features/wishlist/service"
)

type WishlistHandler struct {
	service service.WishlistService
}

func NewWishlistHandler(service service.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: service}
}

func (h *WishlistHandler) RegisterRoutes(router *gin.RouterGroup) {
	wishlists := router.Group("/wishlists")
	{
		wishlists.POST("", h.create)
		wishlists.GET("", h.list)
		wishlists.GET("/:id", h.getByID)
		wishlists.POST("/:id/join", h.join)
		wishlists.POST("/:id/invite", h.invite)
		wishlists.POST("/:id/leave", h.leave)
	}
}

// @Summary Create a wishlist
// @Description Creates a wishlist owned by the caller. The owner membership is written in the same step.
// @Tags wishlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body models.WishlistCreate true "Wishlist fields"
// @Success 201 {object} models.WishlistResponse
// @Failure 400 {object} middleware.ErrorResponse "Validation error"
// @Failure 401 {object} middleware.ErrorResponse "Not authenticated"
// @Router /wishlists [post]
func (h *WishlistHandler) create(c *gin.Context) {
	var input models.WishlistCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid wishlist payload"))
		return
	}

	wishlist, err := h.service.Create(c.Request.Context(), middleware.GetActorID(c), &input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, wishlist)
}

// @Summary List wishlists
// @Description Without filters lists the wishlists the caller is a member of. owner_id narrows to one owner (private ones only for the owner themselves); public=true lists all public wishlists.
// @Tags wishlists
// @Produce json
// @Security BearerAuth
// @Param owner_id query string false "Filter by owner"
// @Param public query bool false "Only public wishlists"
// @Success 200 {array} models.WishlistResponse
// @Router /wishlists [get]
func (h *WishlistHandler) list(c *gin.Context) {
	filter := models.ListFilter{
		OwnerID:    c.Query("owner_id"),
		PublicOnly: c.Query("public") == "true",
	}

	wishlists, err := h.service.List(c.Request.Context(), middleware.GetActorID(c), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, wishlists)
}

// @Summary Get a wishlist
// @Description Returns the wishlist with its wishes and members. Private wishlists require membership.
// @Tags wishlists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wishlist ID"
// @Success 200 {object} models.WishlistDetailResponse
// @Failure 403 {object} middleware.ErrorResponse "No access"
// @Failure 404 {object} middleware.ErrorResponse "Not found"
// @Router /wishlists/{id} [get]
func (h *WishlistHandler) getByID(c *gin.Context) {
	detail, err := h.service.GetByID(c.Request.Context(), middleware.GetActorID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// @Summary Join a public wishlist
// @Description Adds the caller as a viewer. Private wishlists reject joining; use an invitation instead.
// @Tags wishlists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wishlist ID"
// @Success 200 {object} models.MembershipResponse
// @Failure 403 {object} middleware.ErrorResponse "Wishlist is private"
// @Failure 404 {object} middleware.ErrorResponse "Not found"
// @Failure 409 {object} middleware.ErrorResponse "Already a member"
// @Router /wishlists/{id}/join [post]
func (h *WishlistHandler) join(c *gin.Context) {
	membership, err := h.service.Join(c.Request.Context(), middleware.GetActorID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, membership)
}

// @Summary Invite a user
// @Description Adds the named user as a viewer. Requires at least the editor role.
// @Tags wishlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wishlist ID"
// @Param input body models.InviteRequest true "User to invite"
// @Success 200 {object} models.MembershipResponse
// @Failure 403 {object} middleware.ErrorResponse "Insufficient role"
// @Failure 404 {object} middleware.ErrorResponse "Wishlist or user not found"
// @Failure 409 {object} middleware.ErrorResponse "Already a member"
// @Router /wishlists/{id}/invite [post]
func (h *WishlistHandler) invite(c *gin.Context) {
	var input models.InviteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid invite payload"))
		return
	}

	membership, err := h.service.Invite(c.Request.Context(), middleware.GetActorID(c), c.Param("id"), input.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, membership)
}

// @Summary Leave a wishlist
// @Description Removes the caller's membership. The owner cannot leave their own wishlist.
// @Tags wishlists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Wishlist ID"
// @Success 204 "Left the wishlist"
// @Failure 404 {object} middleware.ErrorResponse "Not found or not a member"
// @Failure 409 {object} middleware.ErrorResponse "Owner cannot leave"
// @Router /wishlists/{id}/leave [post]
func (h *WishlistHandler) leave(c *gin.Context) {
	if err := h.service.Leave(c.Request.Context(), middleware.GetActorID(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
