package domain

import "time"

// Coupon is a reward grant tied to exactly one feedback event. The reward
// fields are copied from the business tier configuration at issuance time.
type Coupon struct {
	ID            int64      `gorm:"column:id;primaryKey" json:"id"`
	BusinessID    int64      `gorm:"column:business_id;index" json:"businessId"`
	FeedbackID    int64      `gorm:"column:feedback_id;uniqueIndex" json:"feedbackId"`
	Code          string     `gorm:"column:code;uniqueIndex;size:16" json:"code"`
	RewardType    string     `gorm:"column:reward_type" json:"rewardType"`
	RewardValue   string     `gorm:"column:reward_value" json:"rewardValue"`
	RewardDetails string     `gorm:"column:reward_details" json:"rewardDetails,omitempty"`
	CustomerName  string     `gorm:"column:customer_name" json:"customerName,omitempty"`
	CustomerPhone string     `gorm:"column:customer_phone" json:"customerPhone,omitempty"`
	ExpiresAt     time.Time  `gorm:"column:expires_at" json:"expiresAt"`
	IsUsed        bool       `gorm:"column:is_used" json:"isUsed"`
	UsedAt        *time.Time `gorm:"column:used_at" json:"usedAt,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"createdAt"`
}

func (Coupon) TableName() string { return "coupons" }

// IsActive reports whether the coupon can still be redeemed at t.
func (c *Coupon) IsActive(t time.Time) bool {
	return !c.IsUsed && !t.After(c.ExpiresAt)
}
