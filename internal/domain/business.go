package domain

import "time"

// Business is the tenant root. Feedback, coupons and views all hang off one
// business; the aggregate counters on it are the durable contract the
// dashboard and analytics read.
type Business struct {
	ID      int64  `gorm:"column:id;primaryKey" json:"id"`
	OwnerID int64  `gorm:"column:owner_id;index" json:"-"`
	Slug    string `gorm:"column:slug;uniqueIndex;size:50" json:"slug"`
	Name    string `gorm:"column:name;size:100" json:"name"`
	Email   string `gorm:"column:email" json:"email"`

	WhatsappPhone   string `gorm:"column:whatsapp_phone" json:"whatsappPhone"`
	ComplaintPhone  string `gorm:"column:complaint_phone" json:"complaintPhone"`
	GooglePlaceID   string `gorm:"column:google_place_id" json:"googlePlaceId"`
	GoogleReviewURL string `gorm:"column:google_review_url" json:"googleReviewUrl"`
	LogoURL         string `gorm:"column:logo_url" json:"logoUrl"`

	RewardsEnabled   bool   `gorm:"column:rewards_enabled" json:"rewardsEnabled"`
	Reward5Type      string `gorm:"column:reward5_type" json:"reward5Type"`
	Reward5Value     string `gorm:"column:reward5_value" json:"reward5Value"`
	Reward5Details   string `gorm:"column:reward5_details" json:"reward5Details"`
	Reward4Type      string `gorm:"column:reward4_type" json:"reward4Type"`
	Reward4Value     string `gorm:"column:reward4_value" json:"reward4Value"`
	Reward4Details   string `gorm:"column:reward4_details" json:"reward4Details"`
	Reward3Type      string `gorm:"column:reward3_type" json:"reward3Type"`
	Reward3Value     string `gorm:"column:reward3_value" json:"reward3Value"`
	Reward3Details   string `gorm:"column:reward3_details" json:"reward3Details"`
	RewardExpiryDays int    `gorm:"column:reward_expiry_days;default:30" json:"rewardExpiryDays"`

	TotalViews    int64   `gorm:"column:total_views" json:"totalViews"`
	TotalFeedback int64   `gorm:"column:total_feedback" json:"totalFeedback"`
	AverageRating float64 `gorm:"column:average_rating" json:"averageRating"`
	Rating1       int64   `gorm:"column:rating1" json:"rating1"`
	Rating2       int64   `gorm:"column:rating2" json:"rating2"`
	Rating3       int64   `gorm:"column:rating3" json:"rating3"`
	Rating4       int64   `gorm:"column:rating4" json:"rating4"`
	Rating5       int64   `gorm:"column:rating5" json:"rating5"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Business) TableName() string { return "businesses" }

// RewardTier is a snapshot of one reward configuration. Coupons copy these
// fields at issuance time, so later edits never alter already issued coupons.
type RewardTier struct {
	Type    string `json:"rewardType"`
	Value   string `json:"rewardValue"`
	Details string `json:"rewardDetails"`
}

// RewardTierFor selects the tier for a rating. Tiers exist only for 3, 4
// and 5; ratings 1-2 are routed to the complaint channel before any reward
// lookup happens.
func (b *Business) RewardTierFor(rating int) (RewardTier, bool) {
	switch rating {
	case 3:
		return RewardTier{Type: b.Reward3Type, Value: b.Reward3Value, Details: b.Reward3Details}, true
	case 4:
		return RewardTier{Type: b.Reward4Type, Value: b.Reward4Value, Details: b.Reward4Details}, true
	case 5:
		return RewardTier{Type: b.Reward5Type, Value: b.Reward5Value, Details: b.Reward5Details}, true
	default:
		return RewardTier{}, false
	}
}

func (b *Business) Aggregates() BusinessAggregates {
	return BusinessAggregates{
		TotalFeedback: b.TotalFeedback,
		AverageRating: b.AverageRating,
		Rating1:       b.Rating1,
		Rating2:       b.Rating2,
		Rating3:       b.Rating3,
		Rating4:       b.Rating4,
		Rating5:       b.Rating5,
	}
}
