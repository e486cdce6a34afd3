package business

import "taplink/internal/domain"

type CreateBusinessRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Slug            string `json:"slug" validate:"required,min=2,max=50"`
	Email           string `json:"email" validate:"omitempty,email"`
	WhatsappPhone   string `json:"whatsappPhone"`
	ComplaintPhone  string `json:"complaintPhone"`
	GooglePlaceID   string `json:"googlePlaceId"`
	GoogleReviewURL string `json:"googleReviewUrl" validate:"omitempty,url"`
}

type UpdateBusinessRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email           *string `json:"email" binding:"omitempty,email"`
	WhatsappPhone   *string `json:"whatsappPhone"`
	ComplaintPhone  *string `json:"complaintPhone"`
	GooglePlaceID   *string `json:"googlePlaceId"`
	GoogleReviewURL *string `json:"googleReviewUrl" binding:"omitempty,url"`
}

type UpdateRewardsRequest struct {
	RewardsEnabled   *bool   `json:"rewardsEnabled"`
	Reward5Type      *string `json:"reward5Type"`
	Reward5Value     *string `json:"reward5Value"`
	Reward5Details   *string `json:"reward5Details"`
	Reward4Type      *string `json:"reward4Type"`
	Reward4Value     *string `json:"reward4Value"`
	Reward4Details   *string `json:"reward4Details"`
	Reward3Type      *string `json:"reward3Type"`
	Reward3Value     *string `json:"reward3Value"`
	Reward3Details   *string `json:"reward3Details"`
	RewardExpiryDays *int    `json:"rewardExpiryDays" binding:"omitempty,gte=1,lte=365"`
}

// PublicBusinessResponse is the shape served to anonymous visitors on the
// rating page. Contact routing details and counters stay private.
type PublicBusinessResponse struct {
	Slug           string  `json:"slug"`
	Name           string  `json:"name"`
	LogoURL        string  `json:"logoUrl,omitempty"`
	RewardsEnabled bool    `json:"rewardsEnabled"`
	AverageRating  float64 `json:"averageRating"`
	TotalFeedback  int64   `json:"totalFeedback"`
}

type StatsResponse struct {
	TotalViews     int64            `json:"totalViews"`
	TotalFeedback  int64            `json:"totalFeedback"`
	AverageRating  float64          `json:"averageRating"`
	Distribution   map[string]int64 `json:"distribution"`
	FeedbackLast7  int64            `json:"feedbackLast7Days"`
	FeedbackLast30 int64            `json:"feedbackLast30Days"`
}

func toPublicResponse(b *domain.Business) PublicBusinessResponse {
	return PublicBusinessResponse{
		Slug:           b.Slug,
		Name:           b.Name,
		LogoURL:        b.LogoURL,
		RewardsEnabled: b.RewardsEnabled,
		AverageRating:  b.AverageRating,
		TotalFeedback:  b.TotalFeedback,
	}
}
