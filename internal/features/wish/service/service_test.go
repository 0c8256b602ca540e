package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wishmanager-backend/internal/common/errors"
	"wishmanager-backend/internal/features/wish/models"
	"wishmanager-backend/internal/features/wish/repository/memory"
	wishlistmodels "wishmanager-backend/internal/features/wishlist/models"
)

type stubAuthorizer struct {
	wishlists map[string]*wishlistmodels.Wishlist
	roles     map[string]wishlistmodels.Role // actorID -> role
}

func (a *stubAuthorizer) Authorize(ctx context.Context, actorID, wishlistID string, required wishlistmodels.Role) (*wishlistmodels.Wishlist, error) {
	wishlist, ok := a.wishlists[wishlistID]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeWishlistNotFound, "wishlist not found")
	}
	role, ok := a.roles[actorID]
	if !ok || !role.AtLeast(required) {
		return nil, apperrors.New(apperrors.ErrCodePermissionDenied, "insufficient role")
	}
	return wishlist, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	booked int
	gifted int
}

func (n *recordingNotifier) NotifyBooked(ctx context.Context, wishlist *wishlistmodels.Wishlist, wish *models.Wish, bookerID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.booked++
}

func (n *recordingNotifier) NotifyGifted(ctx context.Context, wishlist *wishlistmodels.Wishlist, wish *models.Wish) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gifted++
}

type fixture struct {
	repo     *memory.Repository
	authz    *stubAuthorizer
	notifier *recordingNotifier
	svc      WishService

	wishlistID string
	ownerID    string
	viewerID   string
}

func newFixture() *fixture {
	wishlistID := uuid.New().String()
	ownerID := uuid.New().String()
	viewerID := uuid.New().String()

	authz := &stubAuthorizer{
		wishlists: map[string]*wishlistmodels.Wishlist{
			wishlistID: {ID: wishlistID, OwnerID: ownerID, Title: "birthday"},
		},
		roles: map[string]wishlistmodels.Role{
			ownerID:  wishlistmodels.RoleOwner,
			viewerID: wishlistmodels.RoleViewer,
		},
	}
	repo := memory.NewRepository()
	notifier := &recordingNotifier{}

	return &fixture{
		repo:       repo,
		authz:      authz,
		notifier:   notifier,
		svc:        NewWishService(repo, authz, notifier),
		wishlistID: wishlistID,
		ownerID:    ownerID,
		viewerID:   viewerID,
	}
}

func (f *fixture) createWish(t *testing.T) string {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.ownerID, f.wishlistID, &models.WishCreate{Name: "lego set"})
	require.NoError(t, err)
	return resp.ID
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperrors.CodeOf(err))
}

func TestCreateWishStartsFree(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), f.ownerID, f.wishlistID, &models.WishCreate{Name: "lego set"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusFree, resp.Status)
	assert.Empty(t, resp.BookedBy)
}

func TestCreateWishRequiresEditor(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), f.viewerID, f.wishlistID, &models.WishCreate{Name: "lego set"})
	assertCode(t, err, apperrors.ErrCodePermissionDenied)
}

func TestBookFreeWish(t *testing.T) {
	f := newFixture()
	wishID := f.createWish(t)

	resp, err := f.svc.Book(context.Background(), f.viewerID, wishID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, resp.Status)
	assert.Equal(t, f.viewerID, resp.BookedBy)
	assert.Equal(t, 1, f.notifier.booked)
}

func TestBookUnknownWish(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Book(context.Background(), f.viewerID, uuid.New().String(), false)
	assertCode(t, err, apperrors.ErrCodeWishNotFound)
}

func TestBookByNonMemberDenied(t *testing.T) {
	f := newFixture()
	wishID := f.createWish(t)

	_, err := f.svc.Book(context.Background(), uuid.New().String(), wishID, false)
	assertCode(t, err, apperrors.ErrCodePermissionDenied)
	assert.Zero(t, f.notifier.booked)
}

func TestBookBookedWishIsInvalidTransition(t *testing.T) {
	f := newFixture()
	wishID := f.createWish(t)

	_, err := f.svc.Book(context.Background(), f.viewerID, wishID, false)
	require.NoError(t, err)

	// The second booker sees BOOKED at read time: this is a transition
	// failure, not a lost race.
	_, err = f.svc.Book(context.Background(), f.ownerID, wishID, false)
	assertCode(t, err, apperrors.ErrCodeInvalidTransition)
}

func TestConcurrentBookExactlyOneWins(t *testing.T) {
	f := newFixture()
	wishID := f.createWish(t)

	const bookers = 16
	for i := 0; i < bookers; i++ {
		f.authz.roles[bookerID(i)] = wishlistmodels.RoleViewer
	}

	errs := make([]error, bookers)
	var wg sync.WaitGroup
	for i := 0; i < bookers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Book(context.Background(), bookerID(i), wishID, false)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		code := apperrors.CodeOf(err)
		assert.Contains(t,
			[]apperrors.ErrorCode{apperrors.ErrCodeAlreadyBooked, apperrors.ErrCodeInvalidTransition},
			code)
	}
	assert.Equal(t, 1, wins, "exactly one booker must win")
	assert.Equal(t, 1, f.notifier.booked, "only the winner notifies")

	wish, err := f.repo.GetByID(context.Background(), wishID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, wish.Status)
	assert.NotEmpty(t, wish.BookedBy)
}

func bookerID(i int) string {
	return "booker-" + string(rune('a'+i))
}

// lostRaceRepo reads like the normal store but always loses the booking
// write, as if a concurrent booker landed between read and write.
type lostRaceRepo struct {
	*memory.Repository
}

func (r *lostRaceRepo) Book(ctx context.Context, id, userID string, hideBookerName bool) (bool, error) {
	return false, nil
}

func TestBookLostRaceIsAlreadyBooked(t *testing.T) {
	f := newFixture()
	wishID := f.createWish(t)
	svc := NewWishService(&lostRaceRepo{f.repo}, f.authz, f.notifier)

	// The wish reads FREE, so the only explanation for the failed write
	// is another booker winning the race: AlreadyBooked, never
	// InvalidStateTransition.
	_, err := svc.Book(context.Background(), f.viewerID, wishID, false)
	assertCode(t, err, apperrors.ErrCodeAlreadyBooked)
	assert.Zero(t, f.notifier.booked)
}

func TestStateMachineEdges(t *testing.T) {
	type step struct {
		op       string
		wantCode apperrors.ErrorCode // empty means success
	}
	cases := []struct {
		name  string
		steps []step
	}{
		{"unbook free wish", []step{
			{"unbook", apperrors.ErrCodeInvalidTransition},
		}},
		{"gift free wish", []step{
			{"gift", apperrors.ErrCodeInvalidTransition},
		}},
		{"ungift free wish", []step{
			{"ungift", apperrors.ErrCodeInvalidTransition},
		}},
		{"book then unbook", []step{
			{"book", ""},
			{"unbook", ""},
			{"book", ""},
		}},
		{"book then gift", []step{
			{"book", ""},
			{"gift", ""},
		}},
		{"unbook gifted wish", []step{
			{"book", ""},
			{"gift", ""},
			{"unbook", apperrors.ErrCodeInvalidTransition},
		}},
		{"gift twice", []step{
			{"book", ""},
			{"gift", ""},
			{"gift", apperrors.ErrCodeInvalidTransition},
		}},
		{"ungift restores booked", []step{
			{"book", ""},
			{"gift", ""},
			{"ungift", ""},
			{"gift", ""},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			wishID := f.createWish(t)
			ctx := context.Background()

			for _, st := range tc.steps {
				var err error
				switch st.op {
				case "book":
					_, err = f.svc.Book(ctx, f.viewerID, wishID, false)
				case "unbook":
					_, err = f.svc.Unbook(ctx, f.viewerID, wishID)
				case "gift":
					_, err = f.svc.MarkGifted(ctx, f.viewerID, wishID)
				case "ungift":
					_, err = f.svc.UnmarkGifted(ctx, f.viewerID, wishID)
				}
				if st.wantCode == "" {
					require.NoError(t, err, st.op)
				} else {
					assertCode(t, err, st.wantCode)
				}
			}
		})
	}
}

func TestBookedByTracksStatus(t *testing.T) {
	f := newFixture()
	wishID := f.createWish(t)
	ctx := context.Background()

	_, err := f.svc.Book(ctx, f.viewerID, wishID, false)
	require.NoError(t, err)

	gifted, err := f.svc.MarkGifted(ctx, f.viewerID, wishID)
	require.NoError(t, err)
	assert.Equal(t, f.viewerID, gifted.BookedBy, "gifting keeps the booker")

	reverted, err := f.svc.UnmarkGifted(ctx, f.viewerID, wishID)
	require.NoError(t, err)
	assert.Equal(t, f.viewerID, reverted.BookedBy, "reverting a gift keeps the claim")

	freed, err := f.svc.Unbook(ctx, f.viewerID, wishID)
	require.NoError(t, err)
	assert.Empty(t, freed.BookedBy, "a free wish has no booker")
	assert.False(t, freed.HideBookerName)
}

func TestGiftNotifiesOnce(t *testing.T) {
	f := newFixture()
	wishID := f.createWish(t)
	ctx := context.Background()

	_, err := f.svc.Book(ctx, f.viewerID, wishID, false)
	require.NoError(t, err)
	_, err = f.svc.MarkGifted(ctx, f.viewerID, wishID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.notifier.gifted)

	_, err = f.svc.MarkGifted(ctx, f.viewerID, wishID)
	assertCode(t, err, apperrors.ErrCodeInvalidTransition)
	assert.Equal(t, 1, f.notifier.gifted, "failed transitions must not notify")
}

func TestUpdateRequiresEditorAndKeepsClaim(t *testing.T) {
	f := newFixture()
	wishID := f.createWish(t)
	ctx := context.Background()

	_, err := f.svc.Book(ctx, f.viewerID, wishID, true)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.viewerID, wishID, &models.WishUpdate{Name: "bigger lego set"})
	assertCode(t, err, apperrors.ErrCodePermissionDenied)

	resp, err := f.svc.Update(ctx, f.ownerID, wishID, &models.WishUpdate{Name: "bigger lego set"})
	require.NoError(t, err)
	assert.Equal(t, "bigger lego set", resp.Name)

	wish, err := f.repo.GetByID(ctx, wishID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, wish.Status)
	assert.Equal(t, f.viewerID, wish.BookedBy)
	assert.True(t, wish.HideBookerName)
}

func TestDeleteWish(t *testing.T) {
	f := newFixture()
	wishID := f.createWish(t)
	ctx := context.Background()

	err := f.svc.Delete(ctx, f.viewerID, wishID)
	assertCode(t, err, apperrors.ErrCodePermissionDenied)

	require.NoError(t, f.svc.Delete(ctx, f.ownerID, wishID))

	err = f.svc.Delete(ctx, f.ownerID, wishID)
	assertCode(t, err, apperrors.ErrCodeWishNotFound)
}

func TestBookStoreFailure(t *testing.T) {
	f := newFixture()
	wishID := f.createWish(t)
	f.repo.FailBook = assert.AnError

	_, err := f.svc.Book(context.Background(), f.viewerID, wishID, false)
	assertCode(t, err, apperrors.ErrCodeStoreFailure)
	assert.Zero(t, f.notifier.booked)
}
