package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"peerlink_backend/internal/models"
	"peerlink_backend/internal/repositories"
)

// In-memory repository fakes. The services only see the repository
// interfaces, so tests run without a database.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) addUser(name, email string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := &models.User{
		BaseModel: models.BaseModel{ID: uuid.NewString(), CreatedAt: time.Now()},
		Name:      name,
		Email:     email,
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.VerificationToken == token && token != "" {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdatePictureURL(ctx context.Context, userID, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.PictureURL = url
	return nil
}

func (r *fakeUserRepo) VerifyUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.IsVerified = true
	user.VerificationToken = ""
	return nil
}

func (r *fakeUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) Search(ctx context.Context, query string, limit, offset int) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToLower(strings.TrimSpace(query))

	var matched []models.User
	for _, user := range r.users {
		if strings.Contains(strings.ToLower(user.Name), needle) ||
			strings.Contains(strings.ToLower(user.Email), needle) {
			matched = append(matched, *user)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := int64(len(matched))
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]*models.Review
	seq     int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*models.Review)}
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	r.seq++
	// Monotonic timestamps keep the newest-first ordering deterministic.
	review.CreatedAt = time.Unix(int64(r.seq), 0)
	copied := *review
	r.reviews[review.ID] = &copied
	return nil
}

func (r *fakeReviewRepo) FindByID(ctx context.Context, id string) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if review, ok := r.reviews[id]; ok {
		copied := *review
		return &copied, nil
	}
	return nil, repositories.ErrReviewNotFound
}

func (r *fakeReviewRepo) FindByRecipient(ctx context.Context, recipientID string) ([]models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Review
	for _, review := range r.reviews {
		if review.RecipientID == recipientID {
			out = append(out, *review)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeReviewRepo) CountByRecipient(ctx context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, review := range r.reviews {
		if review.RecipientID == recipientID {
			count++
		}
	}
	return count, nil
}

func (r *fakeReviewRepo) ComputeAggregate(ctx context.Context, recipientID string) (*models.RatingAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agg := models.ZeroRatingAggregate()
	var prof, rel, comm float64
	for _, review := range r.reviews {
		if review.RecipientID != recipientID {
			continue
		}
		agg.TotalReviews++
		prof += float64(review.Professionalism)
		rel += float64(review.Reliability)
		comm += float64(review.Communication)
	}
	if agg.TotalReviews > 0 {
		n := float64(agg.TotalReviews)
		agg.Professionalism = prof / n
		agg.Reliability = rel / n
		agg.Communication = comm / n
		agg.Overall = (agg.Professionalism + agg.Reliability + agg.Communication) / 3
	}
	return agg, nil
}

type fakeFavoriteRepo struct {
	mu    sync.Mutex
	pairs map[string]bool // userID + "/" + reviewID
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{pairs: make(map[string]bool)}
}

func favoriteKey(userID, reviewID string) string {
	return userID + "/" + reviewID
}

func (r *fakeFavoriteRepo) Upsert(ctx context.Context, userID, reviewID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs[favoriteKey(userID, reviewID)] = true
	return nil
}

func (r *fakeFavoriteRepo) Delete(ctx context.Context, userID, reviewID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := favoriteKey(userID, reviewID)
	if !r.pairs[key] {
		return repositories.ErrFavoriteNotFound
	}
	delete(r.pairs, key)
	return nil
}

func (r *fakeFavoriteRepo) Exists(ctx context.Context, userID, reviewID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pairs[favoriteKey(userID, reviewID)], nil
}

func (r *fakeFavoriteRepo) FavoritedReviewIDs(ctx context.Context, userID string, reviewIDs []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool)
	for _, reviewID := range reviewIDs {
		if r.pairs[favoriteKey(userID, reviewID)] {
			out[reviewID] = true
		}
	}
	return out, nil
}

func (r *fakeFavoriteRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key := range r.pairs {
		if strings.HasPrefix(key, userID+"/") {
			count++
		}
	}
	return count, nil
}

// rowCount reports the total number of favorite rows, for idempotence checks.
func (r *fakeFavoriteRepo) rowCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pairs)
}

type fakeSocialRepo struct {
	mu       sync.Mutex
	accounts []*models.SocialAccount
}

func newFakeSocialRepo() *fakeSocialRepo {
	return &fakeSocialRepo{}
}

func (r *fakeSocialRepo) Create(ctx context.Context, account *models.SocialAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.CreatedAt = time.Now()
	copied := *account
	r.accounts = append(r.accounts, &copied)
	return nil
}

func (r *fakeSocialRepo) FindByEmail(ctx context.Context, email string) (*models.SocialAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, repositories.ErrSocialAccountNotFound
}

func (r *fakeSocialRepo) FindByUser(ctx context.Context, userID string) ([]models.SocialAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SocialAccount
	for _, account := range r.accounts {
		if account.UserID == userID {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (r *fakeSocialRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, account := range r.accounts {
		if account.UserID == userID {
			count++
		}
	}
	return count, nil
}

// fakeStorage implements storage.Storage in memory and can be told to fail.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Save(ctx context.Context, path string, reader io.Reader, contentType string) error {
	if s.failPut {
		return errors.New("storage provider unavailable")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	return nil
}

func (s *fakeStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

func (s *fakeStorage) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok, nil
}

func (s *fakeStorage) GetURL(ctx context.Context, path string) (string, error) {
	return fmt.Sprintf("https://cdn.test/%s", path), nil
}
