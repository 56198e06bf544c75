package models

import "testing"

func fptr(v float64) *float64 { return &v }

func TestFinalValuesUseEstimateWithoutOverride(t *testing.T) {
	e := FoodEntry{
		EstimatedCalories: 650,
		EstimatedProteinG: 32.5,
		EstimatedCarbsG:   70,
		EstimatedFatG:     21,
	}

	if got := e.FinalCalories(); got != 650 {
		t.Fatalf("FinalCalories = %v, want 650", got)
	}
	if got := e.FinalProteinG(); got != 32.5 {
		t.Fatalf("FinalProteinG = %v, want 32.5", got)
	}
	if got := e.FinalCarbsG(); got != 70 {
		t.Fatalf("FinalCarbsG = %v, want 70", got)
	}
	if got := e.FinalFatG(); got != 21 {
		t.Fatalf("FinalFatG = %v, want 21", got)
	}
}

func TestFinalValuesPreferOverride(t *testing.T) {
	e := FoodEntry{
		EstimatedCalories: 650,
		EstimatedProteinG: 32.5,
		ManualCalories:    fptr(600),
		ManualProteinG:    fptr(30),
	}

	if got := e.FinalCalories(); got != 600 {
		t.Fatalf("FinalCalories = %v, want 600", got)
	}
	if got := e.FinalProteinG(); got != 30 {
		t.Fatalf("FinalProteinG = %v, want 30", got)
	}
}

func TestOverrideToZeroIsDistinctFromUnset(t *testing.T) {
	// A manual override of 0 is valid and must not fall back to the estimate.
	e := FoodEntry{
		EstimatedCalories: 250,
		ManualCalories:    fptr(0),
	}
	if got := e.FinalCalories(); got != 0 {
		t.Fatalf("FinalCalories = %v, want 0 (explicit zero override)", got)
	}

	// Partial override: only the overridden nutrient changes.
	if got := e.FinalProteinG(); got != e.EstimatedProteinG {
		t.Fatalf("FinalProteinG = %v, want estimate %v", got, e.EstimatedProteinG)
	}
}
