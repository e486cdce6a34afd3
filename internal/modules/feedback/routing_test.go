package feedback

import (
	"net/url"
	"strings"
	"testing"

	"taplink/internal/domain"

	"github.com/stretchr/testify/assert"
)

func rewardedBusiness() *domain.Business {
	return &domain.Business{
		Name:           "Salon Nour",
		WhatsappPhone:  "+971 50 123 4567",
		ComplaintPhone: "",
		GooglePlaceID:  "ChIJabc123",
		RewardsEnabled: true,
		Reward5Type:    "discount",
		Reward5Value:   "20%",
		Reward4Type:    "gift",
		Reward4Value:   "free coffee",
		Reward3Type:    "",
	}
}

func TestDecide_LowRatingGoesToWhatsApp(t *testing.T) {
	b := rewardedBusiness()

	for _, rating := range []int{1, 2} {
		out := Decide(b, rating, "", "")
		assert.Equal(t, ActionComplaint, out.Action, "rating %d", rating)
		assert.True(t, strings.HasPrefix(out.RedirectURL, "https://wa.me/971501234567?text="))
		assert.False(t, out.GrantReward, "complaints never grant rewards")
	}
}

func TestDecide_ComplaintMessageCarriesDetails(t *testing.T) {
	b := rewardedBusiness()

	out := Decide(b, 1, "late service", "Ahmed")
	assert.Contains(t, out.RedirectURL, url.QueryEscape("late service"))
	assert.Contains(t, out.RedirectURL, url.QueryEscape("Ahmed"))
}

func TestDecide_ComplaintPhonePreferred(t *testing.T) {
	b := rewardedBusiness()
	b.ComplaintPhone = "+971 55 999 8877"

	out := Decide(b, 1, "", "")
	assert.Contains(t, out.RedirectURL, "wa.me/971559998877")
}

func TestDecide_LowRatingWithoutAnyPhone(t *testing.T) {
	b := rewardedBusiness()
	b.WhatsappPhone = ""
	b.ComplaintPhone = ""

	out := Decide(b, 2, "", "")
	assert.Equal(t, ActionNone, out.Action)
	assert.Empty(t, out.RedirectURL)
}

func TestDecide_ThresholdBoundary(t *testing.T) {
	b := rewardedBusiness()

	assert.Equal(t, ActionComplaint, Decide(b, 2, "", "").Action)
	assert.Equal(t, ActionGoogleReview, Decide(b, 3, "", "").Action)
}

func TestDecide_HighRatingUsesPlaceID(t *testing.T) {
	b := rewardedBusiness()

	out := Decide(b, 5, "", "")
	assert.Equal(t, ActionGoogleReview, out.Action)
	assert.Equal(t, "https://search.google.com/local/writereview?placeid=ChIJabc123", out.RedirectURL)
}

func TestDecide_ExplicitReviewURLWins(t *testing.T) {
	b := rewardedBusiness()
	b.GoogleReviewURL = "https://g.page/r/salon-nour/review"

	out := Decide(b, 4, "", "")
	assert.Equal(t, "https://g.page/r/salon-nour/review", out.RedirectURL)
}

func TestDecide_RewardIndependentOfRedirect(t *testing.T) {
	b := rewardedBusiness()
	b.GooglePlaceID = ""
	b.GoogleReviewURL = ""

	out := Decide(b, 5, "", "")
	assert.Equal(t, ActionNone, out.Action)
	assert.True(t, out.GrantReward, "no Google listing must not block the reward")
	assert.Equal(t, "discount", out.RewardTier.Type)
}

func TestDecide_TierSelectionPerRating(t *testing.T) {
	b := rewardedBusiness()

	out5 := Decide(b, 5, "", "")
	assert.True(t, out5.GrantReward)
	assert.Equal(t, "discount", out5.RewardTier.Type)

	out4 := Decide(b, 4, "", "")
	assert.True(t, out4.GrantReward)
	assert.Equal(t, "gift", out4.RewardTier.Type)

	// Tier 3 is unconfigured, so no reward even though rewards are on.
	out3 := Decide(b, 3, "", "")
	assert.False(t, out3.GrantReward)
	assert.Equal(t, ActionGoogleReview, out3.Action)
}

func TestDecide_RewardsDisabled(t *testing.T) {
	b := rewardedBusiness()
	b.RewardsEnabled = false

	out := Decide(b, 5, "", "")
	assert.False(t, out.GrantReward)
	assert.Equal(t, ActionGoogleReview, out.Action, "redirect still happens without rewards")
}

func TestDecide_MidRatingWithNothingConfigured(t *testing.T) {
	b := rewardedBusiness()
	b.GooglePlaceID = ""
	b.GoogleReviewURL = ""
	b.RewardsEnabled = false

	out := Decide(b, 3, "", "")
	assert.Equal(t, ActionNone, out.Action)
	assert.Empty(t, out.RedirectURL)
	assert.False(t, out.GrantReward)
}

func TestDecide_PlaceIDIsEscaped(t *testing.T) {
	b := rewardedBusiness()
	b.GooglePlaceID = "ChIJ+a b&c"

	out := Decide(b, 4, "", "")
	assert.NotContains(t, out.RedirectURL, " ")
	assert.NotContains(t, out.RedirectURL, "&c")
}
