package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/tiansito98/calorie-vision-tracker/models"
)

func TestRecomputeAggregatesFinalValues(t *testing.T) {
	db, summaries, _, entries := newTestStack(t)
	user := seedUser(t, db, 2000)
	ctx := context.Background()
	date := "2026-03-02"

	breakfast := manualEntry(models.MealTypeBreakfast, date, 300)
	breakfast.EstimatedProteinG = 12
	if _, err := entries.CreateEntry(ctx, user.ID, breakfast); err != nil {
		t.Fatalf("create breakfast: %v", err)
	}

	lunch := manualEntry(models.MealTypeLunch, date, 650)
	lunch.ManualCalories = fptr(600)
	lunch.AdjustmentReason = "smaller portion than pictured"
	if _, err := entries.CreateEntry(ctx, user.ID, lunch); err != nil {
		t.Fatalf("create lunch: %v", err)
	}

	sum, err := summaries.Summary(ctx, user.ID, date)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}

	if sum.TotalCalories != 900 {
		t.Errorf("TotalCalories = %v, want 900 (override replaces estimate)", sum.TotalCalories)
	}
	if sum.TotalEntries != 2 || sum.MealsLogged != 2 {
		t.Errorf("counts = %d entries / %d meals, want 2/2", sum.TotalEntries, sum.MealsLogged)
	}
	if !sum.HasBreakfast || !sum.HasLunch || sum.HasDinner {
		t.Errorf("anchor flags = %v/%v/%v, want true/true/false",
			sum.HasBreakfast, sum.HasLunch, sum.HasDinner)
	}
	if sum.CompletenessScore != 0.67 {
		t.Errorf("CompletenessScore = %v, want 0.67", sum.CompletenessScore)
	}
	if sum.Variance != -1100 {
		t.Errorf("Variance = %v, want -1100", sum.Variance)
	}
	if sum.VariancePct != -55.0 {
		t.Errorf("VariancePct = %v, want -55.0", sum.VariancePct)
	}
	if sum.CalorieTarget != 2000 {
		t.Errorf("CalorieTarget = %d, want 2000", sum.CalorieTarget)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	db, summaries, coordinator, entries := newTestStack(t)
	user := seedUser(t, db, 2000)
	ctx := context.Background()
	date := "2026-03-03"

	if _, err := entries.CreateEntry(ctx, user.ID, manualEntry(models.MealTypeDinner, date, 700)); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := summaries.Summary(ctx, user.ID, date)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if _, err := coordinator.RecomputeDate(ctx, user.ID, date); err != nil {
		t.Fatalf("recompute again: %v", err)
	}
	second, err := summaries.Summary(ctx, user.ID, date)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("recompute created a new row: id %d then %d", first.ID, second.ID)
	}
	if second.TotalCalories != 700 || second.TotalEntries != 1 {
		t.Errorf("totals drifted after idempotent recompute: %+v", second)
	}

	var count int64
	if err := db.Model(&models.DailySummary{}).
		Where("user_id = ? AND summary_date = ?", user.ID, date).
		Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("summary rows = %d, want 1", count)
	}
}

func TestDeletingLastEntryLeavesZeroRow(t *testing.T) {
	db, summaries, _, entries := newTestStack(t)
	user := seedUser(t, db, 1800)
	ctx := context.Background()
	date := "2026-03-04"

	entry, err := entries.CreateEntry(ctx, user.ID, manualEntry(models.MealTypeLunch, date, 500))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := entries.DeleteEntry(ctx, user.ID, entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	sum, err := summaries.Summary(ctx, user.ID, date)
	if err != nil {
		t.Fatalf("the zero row must survive the delete: %v", err)
	}
	if sum.TotalCalories != 0 || sum.TotalEntries != 0 {
		t.Errorf("summary after deleting all entries = %+v, want all-zero totals", sum)
	}
	if sum.CompletenessScore != 0 {
		t.Errorf("CompletenessScore = %v, want 0", sum.CompletenessScore)
	}
	if sum.Variance != -1800 {
		t.Errorf("Variance = %v, want -1800 (zero intake against target)", sum.Variance)
	}
}

func TestVariancePctZeroWhenNoTarget(t *testing.T) {
	db, summaries, _, entries := newTestStack(t)
	user := seedUser(t, db, 0)
	ctx := context.Background()
	date := "2026-03-05"

	if _, err := entries.CreateEntry(ctx, user.ID, manualEntry(models.MealTypeBreakfast, date, 400)); err != nil {
		t.Fatalf("create: %v", err)
	}

	sum, err := summaries.Summary(ctx, user.ID, date)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if sum.Variance != 400 {
		t.Errorf("Variance = %v, want 400", sum.Variance)
	}
	if sum.VariancePct != 0 {
		t.Errorf("VariancePct = %v, want 0 when target is 0", sum.VariancePct)
	}
}

func TestCompletenessScoreSteps(t *testing.T) {
	cases := []struct {
		name  string
		types []models.MealType
		want  float64
	}{
		{"snacks only", []models.MealType{models.MealTypeMorningSnack, models.MealTypeBeverage}, 0},
		{"one anchor", []models.MealType{models.MealTypeBreakfast}, 0.33},
		{"two anchors", []models.MealType{models.MealTypeBreakfast, models.MealTypeDinner}, 0.67},
		{"all anchors", []models.MealType{models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner}, 1.0},
		{"duplicate anchor counts once", []models.MealType{models.MealTypeLunch, models.MealTypeLunch}, 0.33},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var entries []models.FoodEntry
			for _, mt := range c.types {
				entries = append(entries, models.FoodEntry{MealType: mt, EstimatedCalories: 100})
			}
			sum := buildDailySummary(1, "2026-03-06", entries, 2000)
			if sum.CompletenessScore != c.want {
				t.Errorf("CompletenessScore = %v, want %v", sum.CompletenessScore, c.want)
			}
		})
	}
}

func TestFiberAndSugarAlwaysFromEstimates(t *testing.T) {
	entry := models.FoodEntry{
		MealType:          models.MealTypeLunch,
		EstimatedCalories: 650,
		EstimatedFiberG:   8,
		EstimatedSugarG:   12,
		ManualCalories:    fptr(600),
	}
	sum := buildDailySummary(1, "2026-03-07", []models.FoodEntry{entry}, 2000)
	if sum.TotalCalories != 600 {
		t.Errorf("TotalCalories = %v, want 600", sum.TotalCalories)
	}
	if sum.TotalFiberG != 8 || sum.TotalSugarG != 12 {
		t.Errorf("fiber/sugar = %v/%v, want 8/12 (no override path exists)", sum.TotalFiberG, sum.TotalSugarG)
	}
}

func TestSummaryUsesCurrentTargetNotHistorical(t *testing.T) {
	db, summaries, coordinator, entries := newTestStack(t)
	user := seedUser(t, db, 2000)
	ctx := context.Background()
	date := "2026-03-08"

	if _, err := entries.CreateEntry(ctx, user.ID, manualEntry(models.MealTypeDinner, date, 1500)); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := db.Model(user).Update("calorie_target", 1600).Error; err != nil {
		t.Fatalf("change target: %v", err)
	}
	if _, err := coordinator.RecomputeDate(ctx, user.ID, date); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	sum, err := summaries.Summary(ctx, user.ID, date)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if sum.CalorieTarget != 1600 {
		t.Errorf("CalorieTarget = %d, want the current 1600", sum.CalorieTarget)
	}
	if sum.Variance != -100 {
		t.Errorf("Variance = %v, want -100 against the current target", sum.Variance)
	}
}

func TestSummaryNotFoundForUnaggregatedDate(t *testing.T) {
	db, summaries, _, _ := newTestStack(t)
	user := seedUser(t, db, 2000)

	_, err := summaries.Summary(context.Background(), user.ID, "2026-03-09")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}
