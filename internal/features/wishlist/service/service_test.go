package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wishmanager-backend/internal/common/errors"
	usermodels "wishmanager-backend/internal/features/user/models"
	wishmodels "wishmanager-backend/internal/features/wish/models"
	"wishmanager-backend/internal/features/wishlist/models"
	"wishmanager-backend/internal/features/wishlist/repository/memory"
)

type stubWishProvider struct {
	wishes []*wishmodels.Wish
}

func (p *stubWishProvider) ListByWishlist(ctx context.Context, wishlistID string) ([]*wishmodels.Wish, error) {
	return p.wishes, nil
}

type stubUserProvider struct {
	known map[string]bool
}

func (p *stubUserProvider) GetUser(ctx context.Context, id string) (*usermodels.UserResponse, error) {
	if !p.known[id] {
		return nil, apperrors.New(apperrors.ErrCodeUserNotFound, "user not found")
	}
	return &usermodels.UserResponse{ID: id}, nil
}

type recordingNotifier struct {
	invited int
}

func (n *recordingNotifier) NotifyInvited(ctx context.Context, wishlist *models.Wishlist, inviterID, inviteeID string) {
	n.invited++
}

type fixture struct {
	repo     *memory.Repository
	users    *stubUserProvider
	notifier *recordingNotifier
	svc      WishlistService
}

func newFixture() *fixture {
	repo := memory.NewRepository()
	users := &stubUserProvider{known: map[string]bool{}}
	notifier := &recordingNotifier{}
	return &fixture{
		repo:     repo,
		users:    users,
		notifier: notifier,
		svc:      NewWishlistService(repo, &stubWishProvider{}, users, notifier),
	}
}

func (f *fixture) createWishlist(t *testing.T, ownerID string, isPublic bool) string {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), ownerID, &models.WishlistCreate{
		Title:    "birthday",
		IsPublic: isPublic,
	})
	require.NoError(t, err)
	return resp.ID
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperrors.CodeOf(err))
}

func TestCreateWishlistGrantsOwnerMembership(t *testing.T) {
	f := newFixture()
	ownerID := uuid.New().String()

	resp, err := f.svc.Create(context.Background(), ownerID, &models.WishlistCreate{Title: "birthday"})
	require.NoError(t, err)
	assert.Equal(t, ownerID, resp.OwnerID)

	membership, err := f.repo.GetMembership(context.Background(), resp.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, membership.Role)
}

func TestCreateWishlistStoreFailureWritesNothing(t *testing.T) {
	f := newFixture()
	f.repo.FailCreate = errors.New("connection reset")

	_, err := f.svc.Create(context.Background(), uuid.New().String(), &models.WishlistCreate{Title: "birthday"})
	assertCode(t, err, apperrors.ErrCodeStoreFailure)

	// Neither the wishlist nor a dangling owner membership may survive.
	assert.Zero(t, f.repo.WishlistCount())
	assert.Zero(t, f.repo.TotalMemberships())
}

func TestJoinPublicWishlist(t *testing.T) {
	f := newFixture()
	wishlistID := f.createWishlist(t, uuid.New().String(), true)
	joinerID := uuid.New().String()

	membership, err := f.svc.Join(context.Background(), joinerID, wishlistID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, membership.Role)
	assert.Equal(t, joinerID, membership.UserID)
}

func TestJoinPrivateWishlistRejected(t *testing.T) {
	f := newFixture()
	wishlistID := f.createWishlist(t, uuid.New().String(), false)

	_, err := f.svc.Join(context.Background(), uuid.New().String(), wishlistID)
	assertCode(t, err, apperrors.ErrCodePrivateWishlist)
}

func TestJoinTwiceRejected(t *testing.T) {
	f := newFixture()
	wishlistID := f.createWishlist(t, uuid.New().String(), true)
	joinerID := uuid.New().String()

	_, err := f.svc.Join(context.Background(), joinerID, wishlistID)
	require.NoError(t, err)

	_, err = f.svc.Join(context.Background(), joinerID, wishlistID)
	assertCode(t, err, apperrors.ErrCodeAlreadyMember)

	// Owner plus joiner: the rejected second join must not add a row.
	assert.Equal(t, 2, f.repo.MembershipCount(wishlistID))
}

func TestJoinUnknownWishlist(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Join(context.Background(), uuid.New().String(), uuid.New().String())
	assertCode(t, err, apperrors.ErrCodeWishlistNotFound)
}

func TestInviteByEditorNotifiesOnce(t *testing.T) {
	f := newFixture()
	ownerID := uuid.New().String()
	inviteeID := uuid.New().String()
	f.users.known[inviteeID] = true
	wishlistID := f.createWishlist(t, ownerID, false)

	membership, err := f.svc.Invite(context.Background(), ownerID, wishlistID, inviteeID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, membership.Role)
	assert.Equal(t, 1, f.notifier.invited)
}

func TestInviteByViewerDenied(t *testing.T) {
	f := newFixture()
	ownerID := uuid.New().String()
	viewerID := uuid.New().String()
	inviteeID := uuid.New().String()
	f.users.known[viewerID] = true
	f.users.known[inviteeID] = true
	wishlistID := f.createWishlist(t, ownerID, false)

	_, err := f.svc.Invite(context.Background(), ownerID, wishlistID, viewerID)
	require.NoError(t, err)

	_, err = f.svc.Invite(context.Background(), viewerID, wishlistID, inviteeID)
	assertCode(t, err, apperrors.ErrCodePermissionDenied)
	assert.Equal(t, 1, f.notifier.invited, "denied invite must not notify")
}

func TestInviteUnknownUser(t *testing.T) {
	f := newFixture()
	ownerID := uuid.New().String()
	wishlistID := f.createWishlist(t, ownerID, false)

	_, err := f.svc.Invite(context.Background(), ownerID, wishlistID, uuid.New().String())
	assertCode(t, err, apperrors.ErrCodeUserNotFound)
	assert.Zero(t, f.notifier.invited)
}

func TestInviteExistingMemberRejected(t *testing.T) {
	f := newFixture()
	ownerID := uuid.New().String()
	inviteeID := uuid.New().String()
	f.users.known[inviteeID] = true
	wishlistID := f.createWishlist(t, ownerID, false)

	_, err := f.svc.Invite(context.Background(), ownerID, wishlistID, inviteeID)
	require.NoError(t, err)

	_, err = f.svc.Invite(context.Background(), ownerID, wishlistID, inviteeID)
	assertCode(t, err, apperrors.ErrCodeAlreadyMember)
	assert.Equal(t, 1, f.notifier.invited)
}

func TestLeaveWishlist(t *testing.T) {
	f := newFixture()
	wishlistID := f.createWishlist(t, uuid.New().String(), true)
	memberID := uuid.New().String()

	_, err := f.svc.Join(context.Background(), memberID, wishlistID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Leave(context.Background(), memberID, wishlistID))

	err = f.svc.Leave(context.Background(), memberID, wishlistID)
	assertCode(t, err, apperrors.ErrCodeNotMember)
}

func TestOwnerCannotLeave(t *testing.T) {
	f := newFixture()
	ownerID := uuid.New().String()
	wishlistID := f.createWishlist(t, ownerID, true)

	err := f.svc.Leave(context.Background(), ownerID, wishlistID)
	assertCode(t, err, apperrors.ErrCodeOwnerCannotLeave)

	// The owner membership is untouched.
	membership, err := f.repo.GetMembership(context.Background(), wishlistID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, membership.Role)
}

func TestAuthorizeOrdersExistenceBeforePrivilege(t *testing.T) {
	f := newFixture()
	actorID := uuid.New().String()

	// Unknown wishlist reads as not found, never as a privilege failure.
	_, err := f.svc.Authorize(context.Background(), actorID, uuid.New().String(), models.RoleViewer)
	assertCode(t, err, apperrors.ErrCodeWishlistNotFound)

	wishlistID := f.createWishlist(t, uuid.New().String(), true)
	_, err = f.svc.Authorize(context.Background(), actorID, wishlistID, models.RoleViewer)
	assertCode(t, err, apperrors.ErrCodePermissionDenied)
}

func TestAuthorizeRoleRanking(t *testing.T) {
	f := newFixture()
	ownerID := uuid.New().String()
	viewerID := uuid.New().String()
	wishlistID := f.createWishlist(t, ownerID, true)

	_, err := f.svc.Join(context.Background(), viewerID, wishlistID)
	require.NoError(t, err)

	cases := []struct {
		name     string
		actorID  string
		required models.Role
		wantErr  bool
	}{
		{"owner satisfies owner", ownerID, models.RoleOwner, false},
		{"owner satisfies editor", ownerID, models.RoleEditor, false},
		{"owner satisfies viewer", ownerID, models.RoleViewer, false},
		{"viewer satisfies viewer", viewerID, models.RoleViewer, false},
		{"viewer denied editor", viewerID, models.RoleEditor, true},
		{"viewer denied owner", viewerID, models.RoleOwner, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Authorize(context.Background(), tc.actorID, wishlistID, tc.required)
			if tc.wantErr {
				assertCode(t, err, apperrors.ErrCodePermissionDenied)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetByIDPrivateRequiresMembership(t *testing.T) {
	f := newFixture()
	ownerID := uuid.New().String()
	wishlistID := f.createWishlist(t, ownerID, false)

	_, err := f.svc.GetByID(context.Background(), uuid.New().String(), wishlistID)
	assertCode(t, err, apperrors.ErrCodePermissionDenied)

	detail, err := f.svc.GetByID(context.Background(), ownerID, wishlistID)
	require.NoError(t, err)
	assert.Len(t, detail.Members, 1)
}

func TestGetByIDPublicOpenToAnyone(t *testing.T) {
	f := newFixture()
	wishlistID := f.createWishlist(t, uuid.New().String(), true)

	detail, err := f.svc.GetByID(context.Background(), uuid.New().String(), wishlistID)
	require.NoError(t, err)
	assert.Equal(t, wishlistID, detail.ID)
	assert.NotNil(t, detail.Wishes)
}

func TestListSemantics(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	aliceID := uuid.New().String()
	bobID := uuid.New().String()

	publicID := f.createWishlist(t, aliceID, true)
	privateID := f.createWishlist(t, aliceID, false)
	f.createWishlist(t, bobID, true)

	t.Run("own wishlists include private", func(t *testing.T) {
		lists, err := f.svc.List(ctx, aliceID, models.ListFilter{OwnerID: aliceID})
		require.NoError(t, err)
		assert.Len(t, lists, 2)
	})

	t.Run("foreign owner filter hides private", func(t *testing.T) {
		lists, err := f.svc.List(ctx, bobID, models.ListFilter{OwnerID: aliceID})
		require.NoError(t, err)
		require.Len(t, lists, 1)
		assert.Equal(t, publicID, lists[0].ID)
	})

	t.Run("member listing follows memberships", func(t *testing.T) {
		_, err := f.svc.Join(ctx, bobID, publicID)
		require.NoError(t, err)

		lists, err := f.svc.List(ctx, bobID, models.ListFilter{})
		require.NoError(t, err)
		assert.Len(t, lists, 2)
	})

	t.Run("public listing", func(t *testing.T) {
		lists, err := f.svc.List(ctx, bobID, models.ListFilter{PublicOnly: true})
		require.NoError(t, err)
		assert.Len(t, lists, 2)
		for _, l := range lists {
			assert.NotEqual(t, privateID, l.ID)
		}
	})
}
