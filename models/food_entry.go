package models

import (
	"gorm.io/gorm"
)

// FoodEntry is one logged item. The estimated_* columns come from the vision
// estimator (or directly from the user for manual entries); the manual_*
// columns are an optional override. Entries are soft-deleted only.
type FoodEntry struct {
	gorm.Model
	UserID   uint     `gorm:"index:idx_food_entries_user_date;not null" json:"user_id"`
	MealType MealType `gorm:"size:32;not null" json:"meal_type"`

	EntryDate string `gorm:"type:date;index:idx_food_entries_user_date;not null" json:"entry_date"` // YYYY-MM-DD
	EntryTime string `gorm:"size:8" json:"entry_time"`                                              // HH:MM:SS

	Description string `json:"description"`
	Notes       string `gorm:"type:text" json:"notes,omitempty"`
	ImagePath   string `json:"image_path,omitempty"`
	SourceType  string `gorm:"size:20" json:"source_type"` // "photo_analysis" | "manual_entry"

	EstimatedCalories float64 `json:"estimated_calories"`
	EstimatedProteinG float64 `json:"estimated_protein_g"`
	EstimatedCarbsG   float64 `json:"estimated_carbs_g"`
	EstimatedFatG     float64 `json:"estimated_fat_g"`
	EstimatedFiberG   float64 `json:"estimated_fiber_g"`
	EstimatedSugarG   float64 `json:"estimated_sugar_g"`
	ConfidenceScore   float64 `json:"confidence_score"` // estimator confidence in [0,1]

	// Manual override. Pointers so that "no override" and "overridden to zero"
	// stay distinct; nil means the estimate stands.
	ManualCalories      *float64 `json:"manual_calories,omitempty"`
	ManualProteinG      *float64 `json:"manual_protein_g,omitempty"`
	ManualCarbsG        *float64 `json:"manual_carbs_g,omitempty"`
	ManualFatG          *float64 `json:"manual_fat_g,omitempty"`
	AdjustmentReason    string   `gorm:"type:text" json:"adjustment_reason,omitempty"`
	WasManuallyAdjusted bool     `json:"was_manually_adjusted"`

	IsDeleted bool `gorm:"index;default:false" json:"is_deleted"`
}

// The Final* accessors resolve the value used everywhere downstream:
// override if present, else estimate. The source system kept these as stored
// generated columns; here they are plain functions of the row so they can
// never diverge from their inputs.

func (e *FoodEntry) FinalCalories() float64 {
	if e.ManualCalories != nil {
		return *e.ManualCalories
	}
	return e.EstimatedCalories
}

func (e *FoodEntry) FinalProteinG() float64 {
	if e.ManualProteinG != nil {
		return *e.ManualProteinG
	}
	return e.EstimatedProteinG
}

func (e *FoodEntry) FinalCarbsG() float64 {
	if e.ManualCarbsG != nil {
		return *e.ManualCarbsG
	}
	return e.EstimatedCarbsG
}

func (e *FoodEntry) FinalFatG() float64 {
	if e.ManualFatG != nil {
		return *e.ManualFatG
	}
	return e.EstimatedFatG
}
