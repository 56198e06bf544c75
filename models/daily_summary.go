package models

import (
	"gorm.io/gorm"
)

// DailySummary is the derived aggregate for one (user, date). Outside an
// in-flight recompute it always equals the pure aggregation of that date's
// live food entries; there is no independently settable total.
type DailySummary struct {
	gorm.Model
	UserID      uint   `gorm:"not null;uniqueIndex:idx_daily_summaries_user_date" json:"user_id"`
	SummaryDate string `gorm:"type:date;not null;uniqueIndex:idx_daily_summaries_user_date" json:"summary_date"` // YYYY-MM-DD

	TotalCalories float64 `json:"total_calories"`
	TotalProteinG float64 `json:"total_protein_g"`
	TotalCarbsG   float64 `json:"total_carbs_g"`
	TotalFatG     float64 `json:"total_fat_g"`
	TotalFiberG   float64 `json:"total_fiber_g"`
	TotalSugarG   float64 `json:"total_sugar_g"`

	TotalEntries    int `json:"total_entries"`
	MealsLogged     int `json:"meals_logged"`
	SnacksLogged    int `json:"snacks_logged"`
	BeveragesLogged int `json:"beverages_logged"`

	HasBreakfast bool `json:"has_breakfast"`
	HasLunch     bool `json:"has_lunch"`
	HasDinner    bool `json:"has_dinner"`

	CompletenessScore float64 `json:"completeness_score"` // fraction of anchor meals present, in [0,1]

	CalorieTarget int     `json:"calorie_target"`
	Variance      float64 `json:"variance"`     // total_calories - calorie_target
	VariancePct   float64 `json:"variance_pct"` // 0 when target is 0

	// Trailing averages as of this date; nil when no day in the window has a
	// summary row.
	RollingAvg7Day  *float64 `gorm:"column:rolling_avg_7day" json:"rolling_avg_7day,omitempty"`
	RollingAvg30Day *float64 `gorm:"column:rolling_avg_30day" json:"rolling_avg_30day,omitempty"`
}
