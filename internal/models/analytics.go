package models

import (
	"time"

	"gorm.io/datatypes"
)

// FraudAnalytics is an aggregation row keyed by (period, course code) or
// (period, department). Rows are upserted by matching key, not appended.
type FraudAnalytics struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	Period     string  `json:"period" gorm:"not null;size:20;index:idx_analytics_key,unique" validate:"required"`
	CourseCode *string `json:"course_code" gorm:"size:50;index:idx_analytics_key,unique"`
	Department *string `json:"department" gorm:"size:100;index"`

	TotalSessions      int `json:"total_sessions"`
	FlaggedSessions    int `json:"flagged_sessions"`
	ConfirmedIncidents int `json:"confirmed_incidents"`
	DismissedIncidents int `json:"dismissed_incidents"`

	FraudRate        float64        `json:"fraud_rate" gorm:"type:decimal(5,2)"` // percentage
	CommonAlertTypes datatypes.JSON `json:"common_alert_types"`
	AvgConfidence    *float64       `json:"avg_confidence" gorm:"type:decimal(5,2)"`
	AvgScore         *float64       `json:"avg_score" gorm:"type:decimal(6,2)"`
	PassRate         *float64       `json:"pass_rate" gorm:"type:decimal(5,2)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FraudAnalytics) TableName() string {
	return "fraud_analytics"
}
