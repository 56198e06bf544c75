package models

import (
	"time"

	"gorm.io/gorm"
)

// WeeklyDigest is a snapshot built from finalized daily summaries, one per
// (user, week). Read-only consumer of the aggregation core.
type WeeklyDigest struct {
	gorm.Model
	UserID        uint   `gorm:"not null;uniqueIndex:idx_weekly_digests_user_week"`
	WeekStartDate string `gorm:"type:date;not null;uniqueIndex:idx_weekly_digests_user_week"` // Monday
	WeekEndDate   string `gorm:"type:date;not null"`

	DaysLogged       int
	AvgDailyCalories float64
	CalorieTarget    int
	DaysUnderTarget  int
	DaysOverTarget   int

	TotalProteinG float64
	TotalCarbsG   float64
	TotalFatG     float64

	SentAt *time.Time
}
