package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tiansito98/calorie-vision-tracker/models"
	"github.com/tiansito98/calorie-vision-tracker/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrInvalidEntry is returned for malformed input on the mutation path; the
// aggregator never sees an entry that failed validation.
var ErrInvalidEntry = errors.New("invalid food entry")

const (
	SourcePhotoAnalysis = "photo_analysis"
	SourceManualEntry   = "manual_entry"
)

// EntryService owns the food-entry write path. Every committed mutation
// reports the affected date(s) to the coordinator; a mutation that fails
// before commit triggers nothing.
type EntryService struct {
	db          *gorm.DB
	coordinator *Coordinator
	log         *logrus.Logger
}

func NewEntryService(db *gorm.DB, coordinator *Coordinator, log *logrus.Logger) *EntryService {
	if log == nil {
		log = logrus.New()
	}
	return &EntryService{db: db, coordinator: coordinator, log: log}
}

type CreateEntryInput struct {
	MealType    models.MealType `json:"meal_type"`
	EntryDate   string          `json:"entry_date"`
	EntryTime   string          `json:"entry_time"`
	Description string          `json:"description"`
	Notes       string          `json:"notes"`
	ImagePath   string          `json:"image_path"`
	SourceType  string          `json:"source_type"`

	EstimatedCalories float64 `json:"estimated_calories"`
	EstimatedProteinG float64 `json:"estimated_protein_g"`
	EstimatedCarbsG   float64 `json:"estimated_carbs_g"`
	EstimatedFatG     float64 `json:"estimated_fat_g"`
	EstimatedFiberG   float64 `json:"estimated_fiber_g"`
	EstimatedSugarG   float64 `json:"estimated_sugar_g"`
	ConfidenceScore   float64 `json:"confidence_score"`

	ManualCalories   *float64 `json:"manual_calories"`
	ManualProteinG   *float64 `json:"manual_protein_g"`
	ManualCarbsG     *float64 `json:"manual_carbs_g"`
	ManualFatG       *float64 `json:"manual_fat_g"`
	AdjustmentReason string   `json:"adjustment_reason"`
}

func (in *CreateEntryInput) validate() error {
	if !in.MealType.Valid() {
		return fmt.Errorf("%w: unknown meal type %q", ErrInvalidEntry, in.MealType)
	}
	if _, err := utils.ParseDate(in.EntryDate); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if in.SourceType != SourcePhotoAnalysis && in.SourceType != SourceManualEntry {
		return fmt.Errorf("%w: unknown source type %q", ErrInvalidEntry, in.SourceType)
	}
	if in.ConfidenceScore < 0 || in.ConfidenceScore > 1 {
		return fmt.Errorf("%w: confidence %.2f out of [0,1]", ErrInvalidEntry, in.ConfidenceScore)
	}
	for name, v := range map[string]float64{
		"estimated_calories":  in.EstimatedCalories,
		"estimated_protein_g": in.EstimatedProteinG,
		"estimated_carbs_g":   in.EstimatedCarbsG,
		"estimated_fat_g":     in.EstimatedFatG,
		"estimated_fiber_g":   in.EstimatedFiberG,
		"estimated_sugar_g":   in.EstimatedSugarG,
	} {
		if v < 0 {
			return fmt.Errorf("%w: negative %s", ErrInvalidEntry, name)
		}
	}
	for name, v := range map[string]*float64{
		"manual_calories":  in.ManualCalories,
		"manual_protein_g": in.ManualProteinG,
		"manual_carbs_g":   in.ManualCarbsG,
		"manual_fat_g":     in.ManualFatG,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: negative %s", ErrInvalidEntry, name)
		}
	}
	return nil
}

func (s *EntryService) CreateEntry(ctx context.Context, userID uint, in CreateEntryInput) (*models.FoodEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	entry := &models.FoodEntry{
		UserID:            userID,
		MealType:          in.MealType,
		EntryDate:         in.EntryDate,
		EntryTime:         in.EntryTime,
		Description:       in.Description,
		Notes:             in.Notes,
		ImagePath:         in.ImagePath,
		SourceType:        in.SourceType,
		EstimatedCalories: in.EstimatedCalories,
		EstimatedProteinG: in.EstimatedProteinG,
		EstimatedCarbsG:   in.EstimatedCarbsG,
		EstimatedFatG:     in.EstimatedFatG,
		EstimatedFiberG:   in.EstimatedFiberG,
		EstimatedSugarG:   in.EstimatedSugarG,
		ConfidenceScore:   in.ConfidenceScore,
		ManualCalories:    in.ManualCalories,
		ManualProteinG:    in.ManualProteinG,
		ManualCarbsG:      in.ManualCarbsG,
		ManualFatG:        in.ManualFatG,
		AdjustmentReason:  in.AdjustmentReason,
	}
	entry.WasManuallyAdjusted = in.ManualCalories != nil || in.ManualProteinG != nil ||
		in.ManualCarbsG != nil || in.ManualFatG != nil

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	if err := s.coordinator.EntryMutated(ctx, userID, entry.EntryDate); err != nil {
		// Entry itself committed; staleness is bounded by the next read.
		s.log.WithError(err).WithField("entry_id", entry.ID).Warn("summary refresh deferred")
		return entry, err
	}
	return entry, nil
}

type UpdateEntryInput struct {
	MealType  *models.MealType `json:"meal_type"`
	EntryDate *string          `json:"entry_date"`
	EntryTime *string          `json:"entry_time"`
	Notes     *string          `json:"notes"`

	ManualCalories   *float64 `json:"manual_calories"`
	ManualProteinG   *float64 `json:"manual_protein_g"`
	ManualCarbsG     *float64 `json:"manual_carbs_g"`
	ManualFatG       *float64 `json:"manual_fat_g"`
	AdjustmentReason *string  `json:"adjustment_reason"`

	// ClearOverride drops every manual_* value so the estimate stands again.
	ClearOverride bool `json:"clear_override"`
}

func (s *EntryService) UpdateEntry(ctx context.Context, userID, entryID uint, in UpdateEntryInput) (*models.FoodEntry, error) {
	var entry models.FoodEntry
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_deleted = ?", entryID, userID, false).
		First(&entry).Error; err != nil {
		return nil, err
	}
	oldDate := entry.EntryDate

	if in.MealType != nil {
		if !in.MealType.Valid() {
			return nil, fmt.Errorf("%w: unknown meal type %q", ErrInvalidEntry, *in.MealType)
		}
		entry.MealType = *in.MealType
	}
	if in.EntryDate != nil {
		if _, err := utils.ParseDate(*in.EntryDate); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
		}
		entry.EntryDate = *in.EntryDate
	}
	if in.EntryTime != nil {
		entry.EntryTime = *in.EntryTime
	}
	if in.Notes != nil {
		entry.Notes = *in.Notes
	}

	if in.ClearOverride {
		entry.ManualCalories = nil
		entry.ManualProteinG = nil
		entry.ManualCarbsG = nil
		entry.ManualFatG = nil
		entry.AdjustmentReason = ""
		entry.WasManuallyAdjusted = false
	}
	for name, pair := range map[string]struct {
		in  *float64
		dst **float64
	}{
		"manual_calories":  {in.ManualCalories, &entry.ManualCalories},
		"manual_protein_g": {in.ManualProteinG, &entry.ManualProteinG},
		"manual_carbs_g":   {in.ManualCarbsG, &entry.ManualCarbsG},
		"manual_fat_g":     {in.ManualFatG, &entry.ManualFatG},
	} {
		if pair.in == nil {
			continue
		}
		if *pair.in < 0 {
			return nil, fmt.Errorf("%w: negative %s", ErrInvalidEntry, name)
		}
		v := *pair.in
		*pair.dst = &v
		entry.WasManuallyAdjusted = true
	}
	if in.AdjustmentReason != nil {
		entry.AdjustmentReason = *in.AdjustmentReason
	}

	if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	// A date move dirties both days.
	dates := []string{entry.EntryDate}
	if oldDate != entry.EntryDate {
		dates = append(dates, oldDate)
	}
	if err := s.coordinator.EntryMutated(ctx, userID, dates...); err != nil {
		s.log.WithError(err).WithField("entry_id", entry.ID).Warn("summary refresh deferred")
		return &entry, err
	}
	return &entry, nil
}

// DeleteEntry soft-deletes: the row stays for history but drops out of
// aggregation. Deleting the last entry of a day leaves an all-zero summary.
func (s *EntryService) DeleteEntry(ctx context.Context, userID, entryID uint) error {
	var entry models.FoodEntry
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_deleted = ?", entryID, userID, false).
		First(&entry).Error; err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).
		Model(&entry).
		Update("is_deleted", true).Error; err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if err := s.coordinator.EntryMutated(ctx, userID, entry.EntryDate); err != nil {
		s.log.WithError(err).WithField("entry_id", entry.ID).Warn("summary refresh deferred")
		return err
	}
	return nil
}

// ListByDate returns the live entries for one date ordered by entry time.
func (s *EntryService) ListByDate(ctx context.Context, userID uint, date string) ([]models.FoodEntry, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	var entries []models.FoodEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND entry_date = ? AND is_deleted = ?", userID, date, false).
		Order("entry_time ASC").
		Find(&entries).Error
	return entries, err
}

func (s *EntryService) ListRange(ctx context.Context, userID uint, from, to string) ([]models.FoodEntry, error) {
	var entries []models.FoodEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND entry_date BETWEEN ? AND ? AND is_deleted = ?", userID, from, to, false).
		Order("entry_date DESC, entry_time DESC").
		Find(&entries).Error
	return entries, err
}

func (s *EntryService) ListRecent(ctx context.Context, userID uint, limit int) ([]models.FoodEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	var entries []models.FoodEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
