package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "wishmanager-backend/internal/common/errors"
	usermodels "wishmanager-backend/internal/features/user/models"
	wishmodels "wishmanager-backend/internal/features/wish/models"
	"wishmanager-backend/internal/features/wishlist/models"
	"wishmanager-backend/internal/features/wishlist/repository"
)

// WishProvider supplies the wishes embedded in a wishlist detail view.
type WishProvider interface {
	ListByWishlist(ctx context.Context, wishlistID string) ([]*wishmodels.Wish, error)
}

// UserProvider resolves users referenced by invitations.
type UserProvider interface {
	GetUser(ctx context.Context, id string) (*usermodels.UserResponse, error)
}

// Notifier delivers membership events. Implementations handle their own
// delivery failures; a notification must never fail the operation that
// produced it.
type Notifier interface {
	NotifyInvited(ctx context.Context, wishlist *models.Wishlist, inviterID, inviteeID string)
}

type WishlistService interface {
	Create(ctx context.Context, actorID string, req *models.WishlistCreate) (*models.WishlistResponse, error)
	List(ctx context.Context, actorID string, filter models.ListFilter) ([]*models.WishlistResponse, error)
	GetByID(ctx context.Context, actorID, wishlistID string) (*models.WishlistDetailResponse, error)
	Join(ctx context.Context, actorID, wishlistID string) (*models.MembershipResponse, error)
	Invite(ctx context.Context, actorID, wishlistID, userID string) (*models.MembershipResponse, error)
	Leave(ctx context.Context, actorID, wishlistID string) error

	// Authorize loads the wishlist and checks the actor holds at least the
	// required role. Existence is checked before privilege, so an actor
	// never learns about a wishlist through the shape of a denial.
	Authorize(ctx context.Context, actorID, wishlistID string, required models.Role) (*models.Wishlist, error)
}

type wishlistService struct {
	repo     repository.WishlistRepository
	wishes   WishProvider
	users    UserProvider
	notifier Notifier
}

func NewWishlistService(repo repository.WishlistRepository, wishes WishProvider, users UserProvider, notifier Notifier) WishlistService {
	return &wishlistService{
		repo:     repo,
		wishes:   wishes,
		users:    users,
		notifier: notifier,
	}
}

func (s *wishlistService) Create(ctx context.Context, actorID string, req *models.WishlistCreate) (*models.WishlistResponse, error) {
	now := time.Now()
	wishlist := &models.Wishlist{
		ID:          uuid.New().String(),
		OwnerID:     actorID,
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	owner := &models.Membership{
		ID:         uuid.New().String(),
		UserID:     actorID,
		WishlistID: wishlist.ID,
		Role:       models.RoleOwner,
		CreatedAt:  now,
	}

	if err := s.repo.Create(ctx, wishlist, owner); err != nil {
		return nil, apperrors.NewStoreFailure("create wishlist", err)
	}
	return wishlist.ToResponse(), nil
}

func (s *wishlistService) List(ctx context.Context, actorID string, filter models.ListFilter) ([]*models.WishlistResponse, error) {
	var (
		wishlists []*models.Wishlist
		err       error
	)
	switch {
	case filter.OwnerID != "":
		// Foreign owners only expose their public wishlists.
		publicOnly := filter.OwnerID != actorID
		wishlists, err = s.repo.ListByOwner(ctx, filter.OwnerID, publicOnly)
	case filter.PublicOnly:
		wishlists, err = s.repo.ListPublic(ctx)
	default:
		wishlists, err = s.repo.ListByMember(ctx, actorID)
	}
	if err != nil {
		return nil, apperrors.NewStoreFailure("list wishlists", err)
	}

	responses := make([]*models.WishlistResponse, 0, len(wishlists))
	for _, w := range wishlists {
		responses = append(responses, w.ToResponse())
	}
	return responses, nil
}

func (s *wishlistService) GetByID(ctx context.Context, actorID, wishlistID string) (*models.WishlistDetailResponse, error) {
	wishlist, err := s.getWishlist(ctx, wishlistID)
	if err != nil {
		return nil, err
	}

	if !wishlist.IsPublic {
		if _, err := s.requireMembership(ctx, actorID, wishlistID, models.RoleViewer); err != nil {
			return nil, err
		}
	}

	wishes, err := s.wishes.ListByWishlist(ctx, wishlistID)
	if err != nil {
		return nil, apperrors.NewStoreFailure("list wishes", err)
	}
	memberships, err := s.repo.ListMemberships(ctx, wishlistID)
	if err != nil {
		return nil, apperrors.NewStoreFailure("list memberships", err)
	}

	detail := &models.WishlistDetailResponse{
		WishlistResponse: *wishlist.ToResponse(),
		Wishes:           make([]*wishmodels.WishResponse, 0, len(wishes)),
		Members:          make([]*models.MembershipResponse, 0, len(memberships)),
	}
	for _, w := range wishes {
		detail.Wishes = append(detail.Wishes, w.ToResponse())
	}
	for _, m := range memberships {
		detail.Members = append(detail.Members, m.ToResponse())
	}
	return detail, nil
}

func (s *wishlistService) Join(ctx context.Context, actorID, wishlistID string) (*models.MembershipResponse, error) {
	wishlist, err := s.getWishlist(ctx, wishlistID)
	if err != nil {
		return nil, err
	}
	if !wishlist.IsPublic {
		return nil, apperrors.New(apperrors.ErrCodePrivateWishlist, "wishlist is private, ask a member for an invitation").
			WithDetail("wishlist_id", wishlistID)
	}
	return s.addMember(ctx, wishlistID, actorID)
}

func (s *wishlistService) Invite(ctx context.Context, actorID, wishlistID, userID string) (*models.MembershipResponse, error) {
	wishlist, err := s.Authorize(ctx, actorID, wishlistID, models.RoleEditor)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	membership, err := s.addMember(ctx, wishlistID, userID)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyInvited(ctx, wishlist, actorID, userID)
	return membership, nil
}

func (s *wishlistService) addMember(ctx context.Context, wishlistID, userID string) (*models.MembershipResponse, error) {
	membership := &models.Membership{
		ID:         uuid.New().String(),
		UserID:     userID,
		WishlistID: wishlistID,
		Role:       models.RoleViewer,
		CreatedAt:  time.Now(),
	}

	applied, err := s.repo.AddMembership(ctx, membership)
	if err != nil {
		return nil, apperrors.NewStoreFailure("add membership", err)
	}
	if !applied {
		return nil, apperrors.New(apperrors.ErrCodeAlreadyMember, "user is already a member of this wishlist").
			WithDetail("wishlist_id", wishlistID).
			WithDetail("user_id", userID)
	}
	return membership.ToResponse(), nil
}

func (s *wishlistService) Leave(ctx context.Context, actorID, wishlistID string) error {
	if _, err := s.getWishlist(ctx, wishlistID); err != nil {
		return err
	}

	membership, err := s.repo.GetMembership(ctx, wishlistID, actorID)
	if errors.Is(err, repository.ErrMembershipNotFound) {
		return apperrors.New(apperrors.ErrCodeNotMember, "user is not a member of this wishlist").
			WithDetail("wishlist_id", wishlistID)
	}
	if err != nil {
		return apperrors.NewStoreFailure("get membership", err)
	}

	if membership.Role == models.RoleOwner {
		return apperrors.New(apperrors.ErrCodeOwnerCannotLeave, "the owner cannot leave their own wishlist").
			WithDetail("wishlist_id", wishlistID)
	}

	if err := s.repo.DeleteMembership(ctx, wishlistID, actorID); err != nil {
		if errors.Is(err, repository.ErrMembershipNotFound) {
			return apperrors.New(apperrors.ErrCodeNotMember, "user is not a member of this wishlist").
				WithDetail("wishlist_id", wishlistID)
		}
		return apperrors.NewStoreFailure("delete membership", err)
	}
	return nil
}

func (s *wishlistService) Authorize(ctx context.Context, actorID, wishlistID string, required models.Role) (*models.Wishlist, error) {
	wishlist, err := s.getWishlist(ctx, wishlistID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMembership(ctx, actorID, wishlistID, required); err != nil {
		return nil, err
	}
	return wishlist, nil
}

func (s *wishlistService) getWishlist(ctx context.Context, wishlistID string) (*models.Wishlist, error) {
	wishlist, err := s.repo.GetByID(ctx, wishlistID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.New(apperrors.ErrCodeWishlistNotFound, "wishlist not found").
			WithDetail("wishlist_id", wishlistID)
	}
	if err != nil {
		return nil, apperrors.NewStoreFailure("get wishlist", err)
	}
	return wishlist, nil
}

func (s *wishlistService) requireMembership(ctx context.Context, actorID, wishlistID string, required models.Role) (*models.Membership, error) {
	membership, err := s.repo.GetMembership(ctx, wishlistID, actorID)
	if errors.Is(err, repository.ErrMembershipNotFound) {
		return nil, apperrors.New(apperrors.ErrCodePermissionDenied, "user has no access to this wishlist").
			WithDetail("wishlist_id", wishlistID)
	}
	if err != nil {
		return nil, apperrors.NewStoreFailure("get membership", err)
	}
	if !membership.Role.AtLeast(required) {
		return nil, apperrors.New(apperrors.ErrCodePermissionDenied, "insufficient role for this operation").
			WithDetail("wishlist_id", wishlistID).
			WithDetail("required_role", string(required))
	}
	return membership, nil
}
