package business

import (
	"context"
	"testing"
	"time"

	"taplink/internal/database"
	"taplink/internal/domain"
	"taplink/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubFeedbackCounter struct {
	last7  int64
	last30 int64
}

func (s *stubFeedbackCounter) CountSince(_ context.Context, _ int64, since time.Time) (int64, error) {
	if time.Since(since) < 10*24*time.Hour {
		return s.last7, nil
	}
	return s.last30, nil
}

type stubQR struct{}

func (stubQR) PagePNG(_ string, _ int) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	// A fresh connection would see a fresh in-memory database, so keep
	// the pool at one connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := testDB(t)
	svc := NewService(repository.NewBusinessRepository(db), &stubFeedbackCounter{}, stubQR{})
	return svc, db
}

func TestService_Create_Success(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.Create(context.Background(), 1, CreateBusinessRequest{
		Name:          "Salon Nour",
		Slug:          "Salon-Nour",
		WhatsappPhone: "+971501234567",
	})

	require.NoError(t, err)
	assert.Equal(t, "salon-nour", b.Slug)
	assert.Equal(t, int64(1), b.OwnerID)
	assert.Equal(t, 30, b.RewardExpiryDays)
}

func TestService_Create_InvalidSlug(t *testing.T) {
	svc, _ := newTestService(t)

	for _, slug := range []string{"Bad Slug", "-leading", "trailing-", "double--hyphen", "emoji😀", ""} {
		_, err := svc.Create(context.Background(), 1, CreateBusinessRequest{Name: "X", Slug: slug})
		assert.ErrorIs(t, err, ErrInvalidSlug, "slug %q should be rejected", slug)
	}
}

func TestService_Create_SlugTaken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), 1, CreateBusinessRequest{Name: "First", Slug: "cafe-one"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 2, CreateBusinessRequest{Name: "Second", Slug: "cafe-one"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestService_GetPublicBySlug_HidesPrivateFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), 1, CreateBusinessRequest{
		Name:           "Salon Nour",
		Slug:           "salon-nour",
		ComplaintPhone: "+971509999999",
	})
	require.NoError(t, err)

	resp, err := svc.GetPublicBySlug(context.Background(), "salon-nour")
	require.NoError(t, err)
	assert.Equal(t, "Salon Nour", resp.Name)
	assert.Equal(t, "salon-nour", resp.Slug)
}

func TestService_GetPublicBySlug_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetPublicBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateRewards(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), 1, CreateBusinessRequest{Name: "Cafe", Slug: "cafe"})
	require.NoError(t, err)

	enabled := true
	typ := "discount"
	val := "20%"
	days := 14
	updated, err := svc.UpdateRewards(context.Background(), created.ID, UpdateRewardsRequest{
		RewardsEnabled:   &enabled,
		Reward5Type:      &typ,
		Reward5Value:     &val,
		RewardExpiryDays: &days,
	})

	require.NoError(t, err)
	assert.True(t, updated.RewardsEnabled)
	assert.Equal(t, "discount", updated.Reward5Type)
	assert.Equal(t, "20%", updated.Reward5Value)
	assert.Equal(t, 14, updated.RewardExpiryDays)

	tier, ok := updated.RewardTierFor(5)
	require.True(t, ok)
	assert.Equal(t, "discount", tier.Type)
}

func TestService_Stats_DistributionMatchesCounters(t *testing.T) {
	svc, db := newTestService(t)

	created, err := svc.Create(context.Background(), 1, CreateBusinessRequest{Name: "Cafe", Slug: "cafe"})
	require.NoError(t, err)

	repo := repository.NewBusinessRepository(db)
	for _, rating := range []int{5, 5, 4, 1} {
		require.NoError(t, repo.ApplyFeedbackStats(context.Background(), created.ID, rating))
	}

	stats, err := svc.Stats(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalFeedback)
	assert.Equal(t, int64(2), stats.Distribution["5"])
	assert.Equal(t, int64(1), stats.Distribution["4"])
	assert.Equal(t, int64(1), stats.Distribution["1"])
	assert.InDelta(t, 3.75, stats.AverageRating, 0.0001)
}

func TestService_QRCode(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), 1, CreateBusinessRequest{Name: "Cafe", Slug: "cafe"})
	require.NoError(t, err)

	png, err := svc.QRCode(context.Background(), created.ID, 256)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestRepository_ApplyFeedbackStats_RecomputesAverage(t *testing.T) {
	db := testDB(t)
	repo := repository.NewBusinessRepository(db)

	b := &domain.Business{OwnerID: 1, Slug: "avg", Name: "Avg"}
	require.NoError(t, repo.Create(context.Background(), b))

	want := domain.BusinessAggregates{}
	for _, rating := range []int{1, 5, 3, 3, 4, 2, 5, 5} {
		require.NoError(t, repo.ApplyFeedbackStats(context.Background(), b.ID, rating))
		want = want.ApplyFeedback(rating)
	}

	got, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, want.TotalFeedback, got.TotalFeedback)
	assert.Equal(t, want.CounterSum(), got.TotalFeedback)
	assert.InDelta(t, want.AverageRating, got.AverageRating, 0.0001)
}
