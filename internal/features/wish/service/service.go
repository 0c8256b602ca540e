package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "wishmanager-backend/internal/common/errors"
	"wishmanager-backend/internal/features/wish/models"
	"wishmanager-backend/internal/features/wish/repository"
	wishlistmodels "wishmanager-backend/internal/features/wishlist/models"
)

// Authorizer checks the actor's role on a wishlist and returns it.
// Satisfied by the wishlist service.
type Authorizer interface {
	Authorize(ctx context.Context, actorID, wishlistID string, required wishlistmodels.Role) (*wishlistmodels.Wishlist, error)
}

// Notifier delivers claim events. Implementations handle their own
// delivery failures; a notification must never fail the transition that
// produced it.
type Notifier interface {
	NotifyBooked(ctx context.Context, wishlist *wishlistmodels.Wishlist, wish *models.Wish, bookerID string)
	NotifyGifted(ctx context.Context, wishlist *wishlistmodels.Wishlist, wish *models.Wish)
}

type WishService interface {
	Create(ctx context.Context, actorID, wishlistID string, req *models.WishCreate) (*models.WishResponse, error)
	Update(ctx context.Context, actorID, wishID string, req *models.WishUpdate) (*models.WishResponse, error)
	Delete(ctx context.Context, actorID, wishID string) error

	// Book claims a FREE wish for the actor. A wish that is already
	// claimed reads as a conflict: AlreadyBooked when another booker beat
	// this one to a FREE wish, InvalidStateTransition otherwise.
	Book(ctx context.Context, actorID, wishID string, hideBookerName bool) (*models.WishResponse, error)
	Unbook(ctx context.Context, actorID, wishID string) (*models.WishResponse, error)
	MarkGifted(ctx context.Context, actorID, wishID string) (*models.WishResponse, error)
	UnmarkGifted(ctx context.Context, actorID, wishID string) (*models.WishResponse, error)

	// ListByWishlist feeds the wishlist detail view; access is checked by
	// the caller.
	ListByWishlist(ctx context.Context, wishlistID string) ([]*models.Wish, error)
}

type wishService struct {
	repo     repository.WishRepository
	authz    Authorizer
	notifier Notifier
}

func NewWishService(repo repository.WishRepository, authz Authorizer, notifier Notifier) WishService {
	return &wishService{
		repo:     repo,
		authz:    authz,
		notifier: notifier,
	}
}

func (s *wishService) Create(ctx context.Context, actorID, wishlistID string, req *models.WishCreate) (*models.WishResponse, error) {
	if _, err := s.authz.Authorize(ctx, actorID, wishlistID, wishlistmodels.RoleEditor); err != nil {
		return nil, err
	}

	now := time.Now()
	wish := &models.Wish{
		ID:          uuid.New().String(),
		WishlistID:  wishlistID,
		Name:        req.Name,
		Description: req.Description,
		Links:       req.Links,
		Status:      models.StatusFree,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, wish); err != nil {
		return nil, apperrors.NewStoreFailure("create wish", err)
	}
	return wish.ToResponse(), nil
}

func (s *wishService) Update(ctx context.Context, actorID, wishID string, req *models.WishUpdate) (*models.WishResponse, error) {
	wish, err := s.loadAuthorized(ctx, actorID, wishID, wishlistmodels.RoleEditor)
	if err != nil {
		return nil, err
	}

	wish.Name = req.Name
	wish.Description = req.Description
	wish.Links = req.Links
	wish.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, wish); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.notFound(wishID)
		}
		return nil, apperrors.NewStoreFailure("update wish", err)
	}
	return wish.ToResponse(), nil
}

func (s *wishService) Delete(ctx context.Context, actorID, wishID string) error {
	if _, err := s.loadAuthorized(ctx, actorID, wishID, wishlistmodels.RoleEditor); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, wishID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.notFound(wishID)
		}
		return apperrors.NewStoreFailure("delete wish", err)
	}
	return nil
}

func (s *wishService) Book(ctx context.Context, actorID, wishID string, hideBookerName bool) (*models.WishResponse, error) {
	wish, err := s.repo.GetByID(ctx, wishID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, s.notFound(wishID)
	}
	if err != nil {
		return nil, apperrors.NewStoreFailure("get wish", err)
	}

	wishlist, err := s.authz.Authorize(ctx, actorID, wish.WishlistID, wishlistmodels.RoleViewer)
	if err != nil {
		return nil, err
	}

	if wish.Status != models.StatusFree {
		return nil, s.invalidTransition(wish.Status, models.StatusBooked)
	}

	applied, err := s.repo.Book(ctx, wishID, actorID, hideBookerName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.notFound(wishID)
		}
		return nil, apperrors.NewStoreFailure("book wish", err)
	}
	if !applied {
		// The wish was FREE moments ago, so a concurrent booker won the
		// write. This is the one conflict that reads as AlreadyBooked.
		return nil, apperrors.New(apperrors.ErrCodeAlreadyBooked, "wish was booked by someone else").
			WithDetail("wish_id", wishID)
	}

	wish.Status = models.StatusBooked
	wish.BookedBy = actorID
	wish.HideBookerName = hideBookerName

	s.notifier.NotifyBooked(ctx, wishlist, wish, actorID)
	return wish.ToResponse(), nil
}

func (s *wishService) Unbook(ctx context.Context, actorID, wishID string) (*models.WishResponse, error) {
	return s.transition(ctx, actorID, wishID, models.StatusBooked, models.StatusFree,
		func(ctx context.Context, id string) (bool, error) { return s.repo.Unbook(ctx, id) },
		func(wish *models.Wish) {
			wish.BookedBy = ""
			wish.HideBookerName = false
		}, nil)
}

func (s *wishService) MarkGifted(ctx context.Context, actorID, wishID string) (*models.WishResponse, error) {
	return s.transition(ctx, actorID, wishID, models.StatusBooked, models.StatusGifted,
		func(ctx context.Context, id string) (bool, error) {
			return s.repo.SetStatusIf(ctx, id, models.StatusBooked, models.StatusGifted)
		},
		nil, s.notifier.NotifyGifted)
}

func (s *wishService) UnmarkGifted(ctx context.Context, actorID, wishID string) (*models.WishResponse, error) {
	// The booker is preserved across GIFTED <-> BOOKED, so reverting a
	// premature gift mark keeps the claim.
	return s.transition(ctx, actorID, wishID, models.StatusGifted, models.StatusBooked,
		func(ctx context.Context, id string) (bool, error) {
			return s.repo.SetStatusIf(ctx, id, models.StatusGifted, models.StatusBooked)
		},
		nil, nil)
}

// transition runs one conditional status edge: load, authorize as member,
// check the expected status, write conditionally. A failed condition at
// either point is InvalidStateTransition.
func (s *wishService) transition(
	ctx context.Context,
	actorID, wishID string,
	from, to models.WishStatus,
	write func(context.Context, string) (bool, error),
	afterApply func(*models.Wish),
	notify func(context.Context, *wishlistmodels.Wishlist, *models.Wish),
) (*models.WishResponse, error) {
	wish, err := s.repo.GetByID(ctx, wishID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, s.notFound(wishID)
	}
	if err != nil {
		return nil, apperrors.NewStoreFailure("get wish", err)
	}

	wishlist, err := s.authz.Authorize(ctx, actorID, wish.WishlistID, wishlistmodels.RoleViewer)
	if err != nil {
		return nil, err
	}

	if wish.Status != from {
		return nil, s.invalidTransition(wish.Status, to)
	}

	applied, err := write(ctx, wishID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.notFound(wishID)
		}
		return nil, apperrors.NewStoreFailure("transition wish", err)
	}
	if !applied {
		// A concurrent writer moved the wish off the expected status;
		// re-read so the error names the status that blocked the edge.
		if current, rerr := s.repo.GetByID(ctx, wishID); rerr == nil {
			wish = current
		}
		return nil, s.invalidTransition(wish.Status, to)
	}

	wish.Status = to
	if afterApply != nil {
		afterApply(wish)
	}
	if notify != nil {
		notify(ctx, wishlist, wish)
	}
	return wish.ToResponse(), nil
}

func (s *wishService) ListByWishlist(ctx context.Context, wishlistID string) ([]*models.Wish, error) {
	return s.repo.ListByWishlist(ctx, wishlistID)
}

// loadAuthorized fetches the wish and checks the actor's role on its
// wishlist, existence first.
func (s *wishService) loadAuthorized(ctx context.Context, actorID, wishID string, required wishlistmodels.Role) (*models.Wish, error) {
	wish, err := s.repo.GetByID(ctx, wishID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, s.notFound(wishID)
	}
	if err != nil {
		return nil, apperrors.NewStoreFailure("get wish", err)
	}
	if _, err := s.authz.Authorize(ctx, actorID, wish.WishlistID, required); err != nil {
		return nil, err
	}
	return wish, nil
}

func (s *wishService) notFound(wishID string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeWishNotFound, "wish not found").
		WithDetail("wish_id", wishID)
}

func (s *wishService) invalidTransition(from, to models.WishStatus) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeInvalidTransition,
		fmt.Sprintf("cannot move wish from %s to %s", from, to)).
		WithDetail("from", string(from)).
		WithDetail("to", string(to))
}
