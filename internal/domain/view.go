package domain

import "time"

// View is one public-page visit. Purely additive; feeds totalViews and the
// source/daily breakdowns on the dashboard.
type View struct {
	ID         int64     `gorm:"column:id;primaryKey" json:"id"`
	BusinessID int64     `gorm:"column:business_id;index" json:"businessId"`
	VisitorIP  string    `gorm:"column:visitor_ip" json:"-"`
	UserAgent  string    `gorm:"column:user_agent" json:"-"`
	Referrer   string    `gorm:"column:referrer" json:"referrer,omitempty"`
	Source     string    `gorm:"column:source" json:"source"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (View) TableName() string { return "views" }
