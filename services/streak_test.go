package services

import (
	"context"
	"testing"

	"github.com/tiansito98/calorie-vision-tracker/models"
	"github.com/tiansito98/calorie-vision-tracker/utils"
)

func TestStreakCountsConsecutiveRecentDays(t *testing.T) {
	db, summaries, _, entries := newTestStack(t)
	user := seedUser(t, db, 2000)
	ctx := context.Background()

	today := utils.Today()
	for _, date := range []string{
		utils.AddDays(today, -4), // gap at -3 breaks the streak here
		utils.AddDays(today, -2),
		utils.AddDays(today, -1),
		today,
	} {
		if _, err := entries.CreateEntry(ctx, user.ID, manualEntry(models.MealTypeLunch, date, 500)); err != nil {
			t.Fatalf("create %s: %v", date, err)
		}
	}

	info, err := summaries.Streak(ctx, user.ID)
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if info.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3 (gap two days wide ends it)", info.CurrentStreak)
	}
	if info.TotalDaysLogged != 4 {
		t.Errorf("TotalDaysLogged = %d, want 4", info.TotalDaysLogged)
	}
}

func TestStreakAllowsYesterdayAnchor(t *testing.T) {
	db, summaries, _, entries := newTestStack(t)
	user := seedUser(t, db, 2000)
	ctx := context.Background()

	yesterday := utils.AddDays(utils.Today(), -1)
	if _, err := entries.CreateEntry(ctx, user.ID, manualEntry(models.MealTypeDinner, yesterday, 700)); err != nil {
		t.Fatalf("create: %v", err)
	}

	info, err := summaries.Streak(ctx, user.ID)
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if info.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1 (not yet logged today)", info.CurrentStreak)
	}
}

func TestStreakTotalExactBeyondScanWindow(t *testing.T) {
	db, summaries, _, _ := newTestStack(t)
	user := seedUser(t, db, 2000)
	ctx := context.Background()

	// 105 consecutive logged days ending today, seeded as summary rows.
	today := utils.Today()
	for i := 0; i < 105; i++ {
		row := models.DailySummary{
			UserID:       user.ID,
			SummaryDate:  utils.AddDays(today, -i),
			TotalEntries: 1,
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed day %d: %v", i, err)
		}
	}

	info, err := summaries.Streak(ctx, user.ID)
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if info.TotalDaysLogged != 105 {
		t.Errorf("TotalDaysLogged = %d, want the exact 105", info.TotalDaysLogged)
	}
	if info.CurrentStreak != streakScanDays {
		t.Errorf("CurrentStreak = %d, want the documented cap %d", info.CurrentStreak, streakScanDays)
	}
}

func TestStreakZeroWhenStale(t *testing.T) {
	db, summaries, _, entries := newTestStack(t)
	user := seedUser(t, db, 2000)
	ctx := context.Background()

	if _, err := entries.CreateEntry(ctx, user.ID,
		manualEntry(models.MealTypeDinner, utils.AddDays(utils.Today(), -5), 700)); err != nil {
		t.Fatalf("create: %v", err)
	}

	info, err := summaries.Streak(ctx, user.ID)
	if err != nil {
		t.Fatalf("streak: %v", err)
	}
	if info.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", info.CurrentStreak)
	}
	if info.TotalDaysLogged != 1 {
		t.Errorf("TotalDaysLogged = %d, want 1", info.TotalDaysLogged)
	}
}
