package coupon

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"taplink/internal/database"
	"taplink/internal/domain"
	"taplink/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var codeFormat = regexp.MustCompile(`^STAR[A-Z0-9]{7}$`)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := testDB(t)
	svc := NewService(
		repository.NewCouponRepository(db),
		repository.NewBusinessRepository(db),
		repository.NewFeedbackRepository(db),
	)
	return svc, db
}

func seedRewardedBusiness(t *testing.T, db *gorm.DB) *domain.Business {
	t.Helper()
	b := &domain.Business{
		OwnerID:          7,
		Slug:             "salon-nour",
		Name:             "Salon Nour",
		RewardsEnabled:   true,
		Reward5Type:      "discount",
		Reward5Value:     "20%",
		Reward5Details:   "على الزيارة القادمة",
		RewardExpiryDays: 14,
	}
	require.NoError(t, repository.NewBusinessRepository(db).Create(context.Background(), b))
	return b
}

func seedFeedback(t *testing.T, db *gorm.DB, businessID int64, rating int) *domain.Feedback {
	t.Helper()
	f := &domain.Feedback{
		BusinessID:  businessID,
		Rating:      rating,
		VisitorName: "Ahmed",
	}
	require.NoError(t, repository.NewFeedbackRepository(db).Create(context.Background(), f))
	return f
}

func TestService_IssueForFeedback_SnapshotsTier(t *testing.T) {
	svc, db := newTestService(t)
	b := seedRewardedBusiness(t, db)
	f := seedFeedback(t, db, b.ID, 5)

	tier, ok := b.RewardTierFor(5)
	require.True(t, ok)

	c, err := svc.IssueForFeedback(context.Background(), b, f, tier)
	require.NoError(t, err)
	assert.Regexp(t, codeFormat, c.Code)
	assert.Equal(t, "discount", c.RewardType)
	assert.Equal(t, "20%", c.RewardValue)
	assert.Equal(t, "Ahmed", c.CustomerName)
	assert.False(t, c.IsUsed)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), c.ExpiresAt, time.Minute)
}

func TestService_IssueForFeedback_OncePerFeedback(t *testing.T) {
	svc, db := newTestService(t)
	b := seedRewardedBusiness(t, db)
	f := seedFeedback(t, db, b.ID, 5)

	tier, _ := b.RewardTierFor(5)
	_, err := svc.IssueForFeedback(context.Background(), b, f, tier)
	require.NoError(t, err)

	_, err = svc.IssueForFeedback(context.Background(), b, f, tier)
	assert.ErrorIs(t, err, ErrAlreadyIssued)
}

func TestService_Create_EligibilityRules(t *testing.T) {
	svc, db := newTestService(t)
	b := seedRewardedBusiness(t, db)

	low := seedFeedback(t, db, b.ID, 2)
	_, err := svc.Create(context.Background(), CreateCouponRequest{
		BusinessSlug: b.Slug,
		FeedbackID:   low.ID,
	})
	assert.ErrorIs(t, err, ErrNotEligible, "ratings 1-2 have no reward tier")

	// Tier 4 is unconfigured on this business.
	mid := seedFeedback(t, db, b.ID, 4)
	_, err = svc.Create(context.Background(), CreateCouponRequest{
		BusinessSlug: b.Slug,
		FeedbackID:   mid.ID,
	})
	assert.ErrorIs(t, err, ErrNotEligible)

	high := seedFeedback(t, db, b.ID, 5)
	c, err := svc.Create(context.Background(), CreateCouponRequest{
		BusinessSlug:  b.Slug,
		FeedbackID:    high.ID,
		CustomerPhone: "+971501112233",
	})
	require.NoError(t, err)
	assert.Equal(t, "+971501112233", c.CustomerPhone)

	stored, err := repository.NewFeedbackRepository(db).GetByID(context.Background(), high.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Code, stored.CouponCode)
}

func TestService_Create_RewardsDisabled(t *testing.T) {
	svc, db := newTestService(t)
	b := seedRewardedBusiness(t, db)
	require.NoError(t, repository.NewBusinessRepository(db).UpdateFields(
		context.Background(), b.ID, map[string]any{"rewards_enabled": false}))

	f := seedFeedback(t, db, b.ID, 5)
	_, err := svc.Create(context.Background(), CreateCouponRequest{
		BusinessSlug: b.Slug,
		FeedbackID:   f.ID,
	})
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestService_Redeem_Lifecycle(t *testing.T) {
	svc, db := newTestService(t)
	b := seedRewardedBusiness(t, db)
	f := seedFeedback(t, db, b.ID, 5)

	tier, _ := b.RewardTierFor(5)
	c, err := svc.IssueForFeedback(context.Background(), b, f, tier)
	require.NoError(t, err)

	redeemed, err := svc.Redeem(context.Background(), c.Code)
	require.NoError(t, err)
	assert.True(t, redeemed.IsUsed)
	require.NotNil(t, redeemed.UsedAt)

	_, err = svc.Redeem(context.Background(), c.Code)
	assert.ErrorIs(t, err, ErrAlreadyUsed)

	_, err = svc.Redeem(context.Background(), "STARNOPENOP")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Redeem_Expired(t *testing.T) {
	svc, db := newTestService(t)
	b := seedRewardedBusiness(t, db)
	f := seedFeedback(t, db, b.ID, 5)

	tier, _ := b.RewardTierFor(5)
	c, err := svc.IssueForFeedback(context.Background(), b, f, tier)
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.Coupon{}).Where("id = ?", c.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = svc.Redeem(context.Background(), c.Code)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestService_Redeem_UsedTakesPrecedenceOverExpired(t *testing.T) {
	svc, db := newTestService(t)
	b := seedRewardedBusiness(t, db)
	f := seedFeedback(t, db, b.ID, 5)

	tier, _ := b.RewardTierFor(5)
	c, err := svc.IssueForFeedback(context.Background(), b, f, tier)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, db.Model(&domain.Coupon{}).Where("id = ?", c.ID).Updates(map[string]any{
		"is_used":    true,
		"used_at":    now.Add(-2 * time.Hour),
		"expires_at": now.Add(-time.Hour),
	}).Error)

	_, err = svc.Redeem(context.Background(), c.Code)
	assert.ErrorIs(t, err, ErrAlreadyUsed)
}

func TestService_Redeem_ExactlyOnceUnderConcurrency(t *testing.T) {
	svc, db := newTestService(t)
	b := seedRewardedBusiness(t, db)
	f := seedFeedback(t, db, b.ID, 5)

	tier, _ := b.RewardTierFor(5)
	c, err := svc.IssueForFeedback(context.Background(), b, f, tier)
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	failures := map[error]int{}

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Redeem(context.Background(), c.Code)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else {
				failures[err]++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes, "exactly one concurrent redeem must win")
	assert.Equal(t, n-1, failures[ErrAlreadyUsed])
}

func TestService_Verify_Ownership(t *testing.T) {
	svc, db := newTestService(t)
	b := seedRewardedBusiness(t, db)
	f := seedFeedback(t, db, b.ID, 5)

	tier, _ := b.RewardTierFor(5)
	c, err := svc.IssueForFeedback(context.Background(), b, f, tier)
	require.NoError(t, err)

	view, err := svc.Verify(context.Background(), b.OwnerID, c.Code, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", view.Status)

	// Verify is read-only, so a second call sees the same state.
	again, err := svc.Verify(context.Background(), b.OwnerID, c.Code, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", again.Status)
	assert.False(t, again.IsUsed)

	_, err = svc.Verify(context.Background(), 999, c.Code, 0)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Verify_RejectsCouponFromAnotherBusiness(t *testing.T) {
	svc, db := newTestService(t)
	b := seedRewardedBusiness(t, db)
	f := seedFeedback(t, db, b.ID, 5)

	// Same owner, second location.
	other := &domain.Business{OwnerID: b.OwnerID, Slug: "salon-nour-marina", Name: "Salon Nour Marina"}
	require.NoError(t, repository.NewBusinessRepository(db).Create(context.Background(), other))

	tier, _ := b.RewardTierFor(5)
	c, err := svc.IssueForFeedback(context.Background(), b, f, tier)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), b.OwnerID, c.Code, other.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Without a business pin the owner-level check still passes.
	view, err := svc.Verify(context.Background(), b.OwnerID, c.Code, 0)
	require.NoError(t, err)
	assert.Equal(t, "active", view.Status)
}

func TestService_ListByBusiness_StatsAndFilters(t *testing.T) {
	svc, db := newTestService(t)
	b := seedRewardedBusiness(t, db)
	tier, _ := b.RewardTierFor(5)

	var redeemCode string
	for i := 0; i < 3; i++ {
		f := seedFeedback(t, db, b.ID, 5)
		c, err := svc.IssueForFeedback(context.Background(), b, f, tier)
		require.NoError(t, err)
		if i == 0 {
			redeemCode = c.Code
		}
	}
	_, err := svc.Redeem(context.Background(), redeemCode)
	require.NoError(t, err)

	views, total, stats, err := svc.ListByBusiness(context.Background(), b.ID, repository.CouponFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, views, 3)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Used)
	assert.Equal(t, int64(2), stats.Active)
	assert.Equal(t, int64(0), stats.Expired)

	used, usedTotal, _, err := svc.ListByBusiness(context.Background(), b.ID, repository.CouponFilter{Status: "used"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), usedTotal)
	require.Len(t, used, 1)
	assert.Equal(t, "used", used[0].Status)
}
