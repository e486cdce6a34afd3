package feedback

import (
	"fmt"
	"net/url"
	"strings"

	"taplink/internal/domain"
)

// RoutingAction says where the visitor goes right after submitting.
type RoutingAction string

const (
	// ActionComplaint sends 1-2 star visitors to the owner's WhatsApp.
	ActionComplaint RoutingAction = "whatsapp_complaint"
	// ActionGoogleReview sends 3-5 star visitors to the Google review page.
	ActionGoogleReview RoutingAction = "google_review"
	// ActionNone means the business has no destination configured; the
	// frontend shows a plain thank-you screen.
	ActionNone RoutingAction = "none"
)

// Outcome is the full routing decision for one submission. GrantReward is
// independent of the redirect: a 5-star visitor still earns a coupon when
// the business has no Google listing configured.
type Outcome struct {
	Action      RoutingAction     `json:"action"`
	RedirectURL string            `json:"redirectUrl,omitempty"`
	GrantReward bool              `json:"grantReward"`
	RewardTier  domain.RewardTier `json:"-"`
}

// Decide maps a validated rating onto the routing outcome for a business.
// Pure function of its inputs; rating must already be in [1,5]. comment and
// visitorName only feed the complaint message and may be empty.
func Decide(b *domain.Business, rating int, comment, visitorName string) Outcome {
	if rating <= 2 {
		phone := b.ComplaintPhone
		if phone == "" {
			phone = b.WhatsappPhone
		}
		if digits := phoneDigits(phone); digits != "" {
			return Outcome{
				Action:      ActionComplaint,
				RedirectURL: whatsappURL(digits, b.Name, rating, comment, visitorName),
			}
		}
		return Outcome{Action: ActionNone}
	}

	out := Outcome{Action: ActionNone}
	if tier, ok := b.RewardTierFor(rating); ok && b.RewardsEnabled && tier.Type != "" {
		out.GrantReward = true
		out.RewardTier = tier
	}

	switch {
	case b.GoogleReviewURL != "":
		out.Action = ActionGoogleReview
		out.RedirectURL = b.GoogleReviewURL
	case b.GooglePlaceID != "":
		out.Action = ActionGoogleReview
		out.RedirectURL = "https://search.google.com/local/writereview?placeid=" + url.QueryEscape(b.GooglePlaceID)
	}
	return out
}

func whatsappURL(digits, businessName string, rating int, comment, visitorName string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("مرحباً، قمت بتقييم %s بـ %s (%d من 5) وأود مشاركة ملاحظاتي معكم.",
		businessName, strings.Repeat("⭐", rating), rating))
	if comment != "" {
		sb.WriteString("\nالتعليق: " + comment)
	}
	if visitorName != "" {
		sb.WriteString("\nالاسم: " + visitorName)
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(sb.String()))
}

func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
