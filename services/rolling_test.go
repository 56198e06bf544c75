package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tiansito98/calorie-vision-tracker/models"
)

func TestRollingAverageCountsOnlyExistingDays(t *testing.T) {
	db, summaries, _, entries := newTestStack(t)
	user := seedUser(t, db, 2000)
	ctx := context.Background()

	// Two logged days inside a 7-day window; the other five days have no
	// summary rows and must not drag the mean toward zero.
	if _, err := entries.CreateEntry(ctx, user.ID, manualEntry(models.MealTypeLunch, "2026-04-01", 500)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := entries.CreateEntry(ctx, user.ID, manualEntry(models.MealTypeDinner, "2026-04-03", 700)); err != nil {
		t.Fatalf("create: %v", err)
	}

	avg, err := summaries.RollingAverage(ctx, user.ID, "2026-04-07", 7)
	if err != nil {
		t.Fatalf("rolling average: %v", err)
	}
	if avg == nil {
		t.Fatal("avg = nil, want mean of the two logged days")
	}
	if *avg != 600 {
		t.Errorf("avg = %v, want 600 (mean of 500 and 700, not /7)", *avg)
	}
}

func TestRollingAverageNilWhenWindowEmpty(t *testing.T) {
	db, summaries, _, _ := newTestStack(t)
	user := seedUser(t, db, 2000)

	avg, err := summaries.RollingAverage(context.Background(), user.ID, "2026-04-07", 30)
	if err != nil {
		t.Fatalf("rolling average: %v", err)
	}
	if avg != nil {
		t.Errorf("avg = %v, want nil for an empty window", *avg)
	}
}

func TestRollingAverageRejectsBadWindow(t *testing.T) {
	db, summaries, _, _ := newTestStack(t)
	user := seedUser(t, db, 2000)

	if _, err := summaries.RollingAverage(context.Background(), user.ID, "2026-04-07", 14); !errors.Is(err, ErrBadWindow) {
		t.Fatalf("err = %v, want ErrBadWindow", err)
	}
}

func TestRollingAverageCountsZeroDays(t *testing.T) {
	db, summaries, _, entries := newTestStack(t)
	user := seedUser(t, db, 2000)
	ctx := context.Background()

	if _, err := entries.CreateEntry(ctx, user.ID, manualEntry(models.MealTypeLunch, "2026-04-10", 500)); err != nil {
		t.Fatalf("create: %v", err)
	}
	// A day whose entries were all removed keeps its zero summary row, and
	// that zero is real data for the window.
	entry, err := entries.CreateEntry(ctx, user.ID, manualEntry(models.MealTypeDinner, "2026-04-11", 900))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := entries.DeleteEntry(ctx, user.ID, entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	avg, err := summaries.RollingAverage(ctx, user.ID, "2026-04-12", 7)
	if err != nil {
		t.Fatalf("rolling average: %v", err)
	}
	if avg == nil || *avg != 250 {
		t.Fatalf("avg = %v, want 250 (mean of 500 and the retained 0)", avg)
	}
}

func TestReadRefreshesTrailingAveragesStaledByEarlierDay(t *testing.T) {
	db, _, coordinator, entries := newTestStack(t)
	user := seedUser(t, db, 2000)
	ctx := context.Background()

	if _, err := entries.CreateEntry(ctx, user.ID, manualEntry(models.MealTypeDinner, "2026-04-22", 1000)); err != nil {
		t.Fatalf("create: %v", err)
	}
	// A later mutation to an earlier day in the window: 04-22's stored
	// trailing columns are not rewritten by it.
	if _, err := entries.CreateEntry(ctx, user.ID, manualEntry(models.MealTypeLunch, "2026-04-20", 2000)); err != nil {
		t.Fatalf("create: %v", err)
	}

	sum, err := coordinator.GetDailySummary(ctx, user.ID, "2026-04-22")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if sum.RollingAvg7Day == nil || *sum.RollingAvg7Day != 1500 {
		t.Errorf("RollingAvg7Day = %v, want 1500 (mean of 1000 and 2000)", sum.RollingAvg7Day)
	}
	if sum.RollingAvg30Day == nil || *sum.RollingAvg30Day != 1500 {
		t.Errorf("RollingAvg30Day = %v, want 1500", sum.RollingAvg30Day)
	}
}

func TestRecomputeStoresTrailingAverages(t *testing.T) {
	db, summaries, _, entries := newTestStack(t)
	user := seedUser(t, db, 2000)
	ctx := context.Background()

	days := []struct {
		date     string
		calories float64
	}{
		{"2026-04-20", 1800},
		{"2026-04-21", 2100},
		{"2026-04-22", 1500},
	}
	for _, d := range days {
		if _, err := entries.CreateEntry(ctx, user.ID, manualEntry(models.MealTypeDinner, d.date, d.calories)); err != nil {
			t.Fatalf("create %s: %v", d.date, err)
		}
	}

	sum, err := summaries.Summary(ctx, user.ID, "2026-04-22")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if sum.RollingAvg7Day == nil {
		t.Fatal("RollingAvg7Day = nil, want stored trailing mean")
	}
	if *sum.RollingAvg7Day != 1800 {
		t.Errorf("RollingAvg7Day = %v, want 1800 (mean of 1800, 2100, 1500)", *sum.RollingAvg7Day)
	}
	if sum.RollingAvg30Day == nil || *sum.RollingAvg30Day != 1800 {
		t.Errorf("RollingAvg30Day = %v, want 1800", sum.RollingAvg30Day)
	}
}
