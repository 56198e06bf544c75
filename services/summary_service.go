package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/tiansito98/calorie-vision-tracker/models"
	"github.com/tiansito98/calorie-vision-tracker/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SummaryService derives daily summaries from food entries and answers the
// windowed read queries over them. Recomputation is always total: the row for
// a (user, date) is rebuilt from all live entries and replaced wholesale, so
// individual fields can never drift apart.
type SummaryService struct{ db *gorm.DB }

func NewSummaryService(db *gorm.DB) *SummaryService { return &SummaryService{db: db} }

var ErrBadWindow = errors.New("window must be 7 or 30 days")

// Recompute rebuilds the summary for one (user, date) inside the caller's
// transaction. The caller (the coordinator) is responsible for serializing
// invocations per key; the read of entries and the write of the summary share
// tx so they are atomic with respect to other writers.
func (s *SummaryService) Recompute(tx *gorm.DB, userID uint, date string) (*models.DailySummary, error) {
	var entries []models.FoodEntry
	if err := tx.
		Where("user_id = ? AND entry_date = ? AND is_deleted = ?", userID, date, false).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load entries for %s: %w", date, err)
	}

	target := s.currentTarget(tx, userID)
	summary := buildDailySummary(userID, date, entries, target)

	// Refresh this date's stored trailing averages. Prior days come from
	// their summary rows; the in-flight date contributes its fresh total.
	avg7, err := s.windowAverage(tx, userID, date, 7, summary.TotalCalories)
	if err != nil {
		return nil, err
	}
	avg30, err := s.windowAverage(tx, userID, date, 30, summary.TotalCalories)
	if err != nil {
		return nil, err
	}
	summary.RollingAvg7Day = avg7
	summary.RollingAvg30Day = avg30

	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "summary_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"updated_at",
			"total_calories", "total_protein_g", "total_carbs_g", "total_fat_g",
			"total_fiber_g", "total_sugar_g",
			"total_entries", "meals_logged", "snacks_logged", "beverages_logged",
			"has_breakfast", "has_lunch", "has_dinner",
			"completeness_score",
			"calorie_target", "variance", "variance_pct",
			"rolling_avg_7day", "rolling_avg_30day",
		}),
	}).Create(summary).Error; err != nil {
		return nil, fmt.Errorf("upsert summary for %s: %w", date, err)
	}
	return summary, nil
}

// buildDailySummary is the pure aggregation over one day's live entries.
func buildDailySummary(userID uint, date string, entries []models.FoodEntry, target int) *models.DailySummary {
	sum := &models.DailySummary{
		UserID:        userID,
		SummaryDate:   date,
		CalorieTarget: target,
	}

	for i := range entries {
		e := &entries[i]
		sum.TotalCalories += e.FinalCalories()
		sum.TotalProteinG += e.FinalProteinG()
		sum.TotalCarbsG += e.FinalCarbsG()
		sum.TotalFatG += e.FinalFatG()
		// No override path exists for fiber and sugar; the estimate stands.
		sum.TotalFiberG += e.EstimatedFiberG
		sum.TotalSugarG += e.EstimatedSugarG

		sum.TotalEntries++
		switch e.MealType.Class() {
		case models.ClassMeal:
			sum.MealsLogged++
		case models.ClassSnack:
			sum.SnacksLogged++
		case models.ClassBeverage:
			sum.BeveragesLogged++
		}
		switch e.MealType {
		case models.MealTypeBreakfast:
			sum.HasBreakfast = true
		case models.MealTypeLunch:
			sum.HasLunch = true
		case models.MealTypeDinner:
			sum.HasDinner = true
		}
	}

	anchors := 0
	for _, present := range []bool{sum.HasBreakfast, sum.HasLunch, sum.HasDinner} {
		if present {
			anchors++
		}
	}
	sum.CompletenessScore = math.Min(1.0, round2(float64(anchors)/3.0))

	sum.Variance = sum.TotalCalories - float64(target)
	if target > 0 {
		sum.VariancePct = round1(sum.Variance / float64(target) * 100.0)
	}
	return sum
}

// currentTarget reads the user's configured daily target. A missing profile
// is treated as target 0 so a summary is always producible.
func (s *SummaryService) currentTarget(tx *gorm.DB, userID uint) int {
	var user models.User
	if err := tx.Select("calorie_target").First(&user, userID).Error; err != nil {
		return 0
	}
	return user.CalorieTarget
}

// windowAverage computes the trailing average ending at asOf, substituting
// currentTotal for the asOf date itself (its row may not be written yet).
// Returns nil when no day in the window has data.
func (s *SummaryService) windowAverage(tx *gorm.DB, userID uint, asOf string, windowDays int, currentTotal float64) (*float64, error) {
	start := utils.AddDays(asOf, -(windowDays - 1))

	var rows []models.DailySummary
	if err := tx.
		Select("summary_date", "total_calories").
		Where("user_id = ? AND summary_date >= ? AND summary_date < ?", userID, start, asOf).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load window summaries: %w", err)
	}

	total := currentTotal
	count := len(rows) + 1
	for _, r := range rows {
		total += r.TotalCalories
	}
	avg := round1(total / float64(count))
	return &avg, nil
}

// Preview derives a summary without persisting it. Used by the read path for
// dates that were never logged: a summary is always producible, but rows are
// only created by entry mutations, so a read of an empty date must not leave
// a zero row behind to be counted by rolling windows.
func (s *SummaryService) Preview(ctx context.Context, userID uint, date string) (*models.DailySummary, error) {
	var entries []models.FoodEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND entry_date = ? AND is_deleted = ?", userID, date, false).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load entries for %s: %w", date, err)
	}
	target := s.currentTarget(s.db.WithContext(ctx), userID)
	sum := buildDailySummary(userID, date, entries, target)
	if err := s.attachRollingAverages(ctx, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// attachRollingAverages recomputes a summary's trailing means from the rows
// as they stand now. The stored columns are only refreshed when their own
// date is recomputed, so a later mutation to an earlier day in the window
// stales them; reads go through here instead of trusting the columns.
func (s *SummaryService) attachRollingAverages(ctx context.Context, sum *models.DailySummary) error {
	avg7, err := s.RollingAverage(ctx, sum.UserID, sum.SummaryDate, 7)
	if err != nil {
		return err
	}
	avg30, err := s.RollingAverage(ctx, sum.UserID, sum.SummaryDate, 30)
	if err != nil {
		return err
	}
	sum.RollingAvg7Day = avg7
	sum.RollingAvg30Day = avg30
	return nil
}

// HasLiveEntries reports whether any non-deleted entry exists for the date.
func (s *SummaryService) HasLiveEntries(ctx context.Context, userID uint, date string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.FoodEntry{}).
		Where("user_id = ? AND entry_date = ? AND is_deleted = ?", userID, date, false).
		Count(&n).Error
	return n > 0, err
}

// RollingAverage is the lazy read-path variant: the trailing mean of
// total_calories over [asOf-windowDays+1, asOf], counting only dates with an
// existing summary row. Nil means no day in the window has data; callers must
// not coerce that to zero.
func (s *SummaryService) RollingAverage(ctx context.Context, userID uint, asOf string, windowDays int) (*float64, error) {
	if windowDays != 7 && windowDays != 30 {
		return nil, ErrBadWindow
	}
	if _, err := utils.ParseDate(asOf); err != nil {
		return nil, err
	}
	start := utils.AddDays(asOf, -(windowDays - 1))

	var rows []models.DailySummary
	if err := s.db.WithContext(ctx).
		Select("total_calories").
		Where("user_id = ? AND summary_date BETWEEN ? AND ?", userID, start, asOf).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load window summaries: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var total float64
	for _, r := range rows {
		total += r.TotalCalories
	}
	avg := round1(total / float64(len(rows)))
	return &avg, nil
}

// Summary reads the stored row for one (user, date); gorm.ErrRecordNotFound
// when the date has never been aggregated.
func (s *SummaryService) Summary(ctx context.Context, userID uint, date string) (*models.DailySummary, error) {
	var row models.DailySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND summary_date = ?", userID, date).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// SummariesRange returns summaries between two dates inclusive, ascending.
func (s *SummaryService) SummariesRange(ctx context.Context, userID uint, from, to string) ([]models.DailySummary, error) {
	var rows []models.DailySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND summary_date BETWEEN ? AND ?", userID, from, to).
		Order("summary_date ASC").
		Find(&rows).Error
	return rows, err
}

// CalorieTrend returns the last N days of summaries for dashboards.
func (s *SummaryService) CalorieTrend(ctx context.Context, userID uint, days int) ([]models.DailySummary, error) {
	if days <= 0 {
		days = 30
	}
	to := utils.Today()
	from := utils.AddDays(to, -(days - 1))
	return s.SummariesRange(ctx, userID, from, to)
}

type StreakInfo struct {
	CurrentStreak   int `json:"current_streak"`
	TotalDaysLogged int `json:"total_days_logged"`
}

// streakScanDays bounds the streak walk; CurrentStreak saturates here.
const streakScanDays = 100

// Streak counts consecutive logged days ending today or yesterday.
// TotalDaysLogged is exact; CurrentStreak is scanned over the most recent
// streakScanDays logged days and caps there.
func (s *SummaryService) Streak(ctx context.Context, userID uint) (*StreakInfo, error) {
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&models.DailySummary{}).
		Where("user_id = ? AND total_entries > 0", userID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.DailySummary
	if err := s.db.WithContext(ctx).
		Select("summary_date").
		Where("user_id = ? AND total_entries > 0", userID).
		Order("summary_date DESC").
		Limit(streakScanDays).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	info := &StreakInfo{TotalDaysLogged: int(total)}
	if len(rows) == 0 {
		return info, nil
	}

	// A streak not yet extended today still counts if it ran through yesterday.
	check := utils.Today()
	if rows[0].SummaryDate != check {
		check = utils.AddDays(check, -1)
	}
	for _, r := range rows {
		if r.SummaryDate != check {
			break
		}
		info.CurrentStreak++
		check = utils.AddDays(check, -1)
	}
	return info, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
