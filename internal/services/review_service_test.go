package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peerlink_backend/internal/cache"
	"peerlink_backend/internal/models"
	"peerlink_backend/internal/services"
	"peerlink_backend/internal/services/dto"
	"peerlink_backend/pkg/apperrors"
)

type reviewTestEnv struct {
	svc       services.ReviewService
	users     *fakeUserRepo
	reviews   *fakeReviewRepo
	favorites *fakeFavoriteRepo
	redis     *miniredis.Miniredis
}

func setupReviewService(t *testing.T) *reviewTestEnv {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	users := newFakeUserRepo()
	reviews := newFakeReviewRepo()
	favorites := newFakeFavoriteRepo()
	ratingsCache := cache.NewRedisRatingsCache(client)

	return &reviewTestEnv{
		svc:       services.NewReviewService(reviews, users, favorites, ratingsCache),
		users:     users,
		reviews:   reviews,
		favorites: favorites,
		redis:     mr,
	}
}

func validReviewRequest() *dto.SubmitReviewRequest {
	return &dto.SubmitReviewRequest{
		Professionalism: 5,
		Reliability:     4,
		Communication:   3,
		Comment:         "Great to work with",
	}
}

func requireAppCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestSubmitReview_Identified(t *testing.T) {
	env := setupReviewService(t)
	ctx := context.Background()

	author := env.users.addUser("Alice", "alice@test.com")
	recipient := env.users.addUser("Bob", "bob@test.com")

	resp, err := env.svc.SubmitReview(ctx, author.ID, recipient.ID, validReviewRequest())
	require.NoError(t, err)

	assert.Equal(t, recipient.ID, resp.RecipientID)
	assert.False(t, resp.Anonymous)
	require.NotNil(t, resp.Author)
	assert.Equal(t, author.ID, resp.Author.ID)
	assert.True(t, resp.IsOwnReview)
	assert.False(t, resp.IsFavorite, "a fresh review cannot be favorited yet")
}

func TestSubmitReview_AnonymousNullsAuthor(t *testing.T) {
	env := setupReviewService(t)
	ctx := context.Background()

	author := env.users.addUser("Alice", "alice@test.com")
	recipient := env.users.addUser("Bob", "bob@test.com")

	req := validReviewRequest()
	req.Anonymous = true

	resp, err := env.svc.SubmitReview(ctx, author.ID, recipient.ID, req)
	require.NoError(t, err)

	assert.True(t, resp.Anonymous)
	assert.Nil(t, resp.Author, "anonymous reviews must not expose author identity")
	assert.True(t, resp.IsOwnReview)

	// The stored row itself carries no author id.
	stored, err := env.reviews.FindByRecipient(ctx, recipient.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Nil(t, stored[0].AuthorID)
}

func TestSubmitReview_SelfReviewRejected(t *testing.T) {
	env := setupReviewService(t)
	ctx := context.Background()

	user := env.users.addUser("Alice", "alice@test.com")

	_, err := env.svc.SubmitReview(ctx, user.ID, user.ID, validReviewRequest())
	requireAppCode(t, err, apperrors.CodeInvalidOperation)

	count, _ := env.reviews.CountByRecipient(ctx, user.ID)
	assert.Zero(t, count, "self-review must never reach persistence")
}

func TestSubmitReview_RecipientNotFound(t *testing.T) {
	env := setupReviewService(t)
	ctx := context.Background()

	author := env.users.addUser("Alice", "alice@test.com")

	_, err := env.svc.SubmitReview(ctx, author.ID, "no-such-id", validReviewRequest())
	requireAppCode(t, err, apperrors.CodeNotFound)

	count, _ := env.reviews.CountByRecipient(ctx, "no-such-id")
	assert.Zero(t, count)
}

func TestSubmitReview_NonExistentSelfIDReportsNotFound(t *testing.T) {
	env := setupReviewService(t)
	ctx := context.Background()

	// Existence is checked before the self-review rule, so a caller
	// whose own id no longer exists gets NotFound, not a validation error.
	_, err := env.svc.SubmitReview(ctx, "ghost-id", "ghost-id", validReviewRequest())
	requireAppCode(t, err, apperrors.CodeNotFound)
}

func TestGetAverageRating_NoReviewsIsZero(t *testing.T) {
	env := setupReviewService(t)
	ctx := context.Background()

	user := env.users.addUser("Bob", "bob@test.com")

	rating, err := env.svc.GetAverageRating(ctx, user.ID)
	require.NoError(t, err)

	assert.Zero(t, rating.Professionalism)
	assert.Zero(t, rating.Reliability)
	assert.Zero(t, rating.Communication)
	assert.Zero(t, rating.Overall)
	assert.Zero(t, rating.TotalReviews)

	// The zero aggregate was cached with a TTL.
	assert.True(t, env.redis.Exists(cache.RatingsKeyPrefix+user.ID))
	assert.Greater(t, env.redis.TTL(cache.RatingsKeyPrefix+user.ID), time.Duration(0), "ttl must be set")
}

func TestGetAverageRating_ZeroValuedCacheEntryIsAHit(t *testing.T) {
	env := setupReviewService(t)
	ctx := context.Background()

	user := env.users.addUser("Bob", "bob@test.com")

	// Populate the cache with the legitimate all-zero aggregate.
	_, err := env.svc.GetAverageRating(ctx, user.ID)
	require.NoError(t, err)

	// Write reviews directly, bypassing the write-through.
	author := env.users.addUser("Alice", "alice@test.com")
	require.NoError(t, env.reviews.Create(ctx, &models.Review{
		RecipientID:     user.ID,
		AuthorID:        &author.ID,
		Professionalism: 5, Reliability: 5, Communication: 5,
	}))

	// The stale zero entry is still served: key presence decides the
	// hit, not value truthiness.
	rating, err := env.svc.GetAverageRating(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, rating.Professionalism)
	assert.Zero(t, rating.TotalReviews)
}

func TestSubmitReview_RefreshesCachedAggregate(t *testing.T) {
	env := setupReviewService(t)
	ctx := context.Background()

	author := env.users.addUser("Alice", "alice@test.com")
	recipient := env.users.addUser("Bob", "bob@test.com")

	// Prime the cache with the empty aggregate.
	_, err := env.svc.GetAverageRating(ctx, recipient.ID)
	require.NoError(t, err)

	req := &dto.SubmitReviewRequest{Professionalism: 4, Reliability: 2, Communication: 3}
	_, err = env.svc.SubmitReview(ctx, author.ID, recipient.ID, req)
	require.NoError(t, err)

	// The write path overwrote the cache, so the read is immediately fresh.
	rating, err := env.svc.GetAverageRating(ctx, recipient.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, rating.Professionalism, 1e-9)
	assert.InDelta(t, 2.0, rating.Reliability, 1e-9)
	assert.InDelta(t, 3.0, rating.Communication, 1e-9)
	assert.InDelta(t, 3.0, rating.Overall, 1e-9)
	assert.Equal(t, int64(1), rating.TotalReviews)
}

func TestGetAverageRating_MalformedCacheFallsBack(t *testing.T) {
	env := setupReviewService(t)
	ctx := context.Background()

	author := env.users.addUser("Alice", "alice@test.com")
	recipient := env.users.addUser("Bob", "bob@test.com")

	req := &dto.SubmitReviewRequest{Professionalism: 5, Reliability: 5, Communication: 5}
	_, err := env.svc.SubmitReview(ctx, author.ID, recipient.ID, req)
	require.NoError(t, err)

	// Corrupt the cached payload; the read must recompute from rows.
	require.NoError(t, env.redis.Set(cache.RatingsKeyPrefix+recipient.ID, "not-json"))

	rating, err := env.svc.GetAverageRating(ctx, recipient.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, rating.Overall, 1e-9)
	assert.Equal(t, int64(1), rating.TotalReviews)
}

func TestGetUserReviews_NewestFirstAndShaped(t *testing.T) {
	env := setupReviewService(t)
	ctx := context.Background()

	alice := env.users.addUser("Alice", "alice@test.com")
	carol := env.users.addUser("Carol", "carol@test.com")
	bob := env.users.addUser("Bob", "bob@test.com")

	first, err := env.svc.SubmitReview(ctx, alice.ID, bob.ID, validReviewRequest())
	require.NoError(t, err)

	anonReq := validReviewRequest()
	anonReq.Anonymous = true
	second, err := env.svc.SubmitReview(ctx, carol.ID, bob.ID, anonReq)
	require.NoError(t, err)

	// Alice favorites her own review.
	_, err = env.svc.FavoriteReview(ctx, alice.ID, first.ID)
	require.NoError(t, err)

	// As Alice: newest first, anonymous author hidden, own review flagged.
	list, err := env.svc.GetUserReviews(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, list.Reviews, 2)

	assert.Equal(t, second.ID, list.Reviews[0].ID, "newest review comes first")
	assert.Nil(t, list.Reviews[0].Author)
	assert.False(t, list.Reviews[0].IsOwnReview)

	assert.Equal(t, first.ID, list.Reviews[1].ID)
	require.NotNil(t, list.Reviews[1].Author)
	assert.Equal(t, alice.ID, list.Reviews[1].Author.ID)
	assert.True(t, list.Reviews[1].IsOwnReview)
	assert.True(t, list.Reviews[1].IsFavorite)
}

func TestGetUserReviews_UnknownRecipient(t *testing.T) {
	env := setupReviewService(t)

	acting := env.users.addUser("Alice", "alice@test.com")

	_, err := env.svc.GetUserReviews(context.Background(), acting.ID, "no-such-id")
	requireAppCode(t, err, apperrors.CodeNotFound)
}

func TestFavoriteReview_Idempotent(t *testing.T) {
	env := setupReviewService(t)
	ctx := context.Background()

	alice := env.users.addUser("Alice", "alice@test.com")
	bob := env.users.addUser("Bob", "bob@test.com")

	review, err := env.svc.SubmitReview(ctx, alice.ID, bob.ID, validReviewRequest())
	require.NoError(t, err)

	resp1, err := env.svc.FavoriteReview(ctx, bob.ID, review.ID)
	require.NoError(t, err)
	resp2, err := env.svc.FavoriteReview(ctx, bob.ID, review.ID)
	require.NoError(t, err)

	assert.True(t, resp1.IsFavorite)
	assert.True(t, resp2.IsFavorite)
	assert.Equal(t, 1, env.favorites.rowCount(), "double favorite must leave exactly one row")
}

func TestFavoriteReview_UnknownReview(t *testing.T) {
	env := setupReviewService(t)

	alice := env.users.addUser("Alice", "alice@test.com")

	_, err := env.svc.FavoriteReview(context.Background(), alice.ID, "no-such-review")
	requireAppCode(t, err, apperrors.CodeNotFound)
}

func TestUnfavoriteReview_StrictDelete(t *testing.T) {
	env := setupReviewService(t)
	ctx := context.Background()

	alice := env.users.addUser("Alice", "alice@test.com")
	bob := env.users.addUser("Bob", "bob@test.com")

	review, err := env.svc.SubmitReview(ctx, alice.ID, bob.ID, validReviewRequest())
	require.NoError(t, err)

	// Unfavoriting before favoriting fails and changes nothing.
	_, err = env.svc.UnfavoriteReview(ctx, bob.ID, review.ID)
	requireAppCode(t, err, apperrors.CodeNotFound)
	assert.Zero(t, env.favorites.rowCount())

	_, err = env.svc.FavoriteReview(ctx, bob.ID, review.ID)
	require.NoError(t, err)

	resp, err := env.svc.UnfavoriteReview(ctx, bob.ID, review.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsFavorite)
	assert.Zero(t, env.favorites.rowCount())
}
