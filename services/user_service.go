package services

import (
	"context"
	"fmt"
	"math"

	"github.com/tiansito98/calorie-vision-tracker/models"
	"github.com/tiansito98/calorie-vision-tracker/utils"

	"gorm.io/gorm"
)

type UserService struct{ db *gorm.DB }

func NewUserService(db *gorm.DB) *UserService { return &UserService{db: db} }

type ProfileInput struct {
	DisplayName   *string  `json:"display_name"`
	Gender        *string  `json:"gender"`
	Birthdate     *string  `json:"birthdate"` // YYYY-MM-DD
	HeightCm      *float64 `json:"height_cm"`
	WeightKg      *float64 `json:"weight_kg"`
	ActivityLevel *string  `json:"activity_level"`
	CalorieTarget *int     `json:"calorie_target"`
	Timezone      *string  `json:"timezone"`
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (map[string]any, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}

	age := 0
	if user.Birthdate != "" {
		if bd, err := utils.ParseDate(user.Birthdate); err == nil {
			age = utils.CalculateAge(bd)
		}
	}

	profile := map[string]any{
		"id":             user.ID,
		"email":          user.Email,
		"display_name":   user.DisplayName,
		"gender":         user.Gender,
		"birthdate":      user.Birthdate,
		"age":            age,
		"height_cm":      user.HeightCm,
		"weight_kg":      user.WeightKg,
		"activity_level": user.ActivityLevel,
		"calorie_target": user.CalorieTarget,
		"timezone":       user.Timezone,
	}
	if bmi, err := utils.CalculateBMI(user.HeightCm, user.WeightKg); err == nil {
		profile["bmi"] = math.Round(bmi*10) / 10
		profile["bmi_category"] = utils.BMICategory(bmi)
	}
	return profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return err
	}

	if in.DisplayName != nil {
		user.DisplayName = *in.DisplayName
	}
	if in.Gender != nil {
		user.Gender = *in.Gender
	}
	if in.Birthdate != nil {
		if _, err := utils.ParseDate(*in.Birthdate); err != nil {
			return err
		}
		user.Birthdate = *in.Birthdate
	}
	if in.HeightCm != nil {
		user.HeightCm = *in.HeightCm
	}
	if in.WeightKg != nil {
		user.WeightKg = *in.WeightKg
	}
	if in.ActivityLevel != nil {
		if _, ok := utils.ActivityMultipliers[*in.ActivityLevel]; !ok {
			return fmt.Errorf("unknown activity level %q", *in.ActivityLevel)
		}
		user.ActivityLevel = *in.ActivityLevel
	}
	if in.CalorieTarget != nil {
		if *in.CalorieTarget < 0 {
			return fmt.Errorf("calorie target must be non-negative")
		}
		user.CalorieTarget = *in.CalorieTarget
	}
	if in.Timezone != nil {
		user.Timezone = *in.Timezone
	}

	return s.db.WithContext(ctx).Save(&user).Error
}

// CalorieTargets computes TDEE-based presets from the stored profile.
func (s *UserService) CalorieTargets(ctx context.Context, userID uint) (*utils.TDEEResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	if user.HeightCm <= 0 || user.WeightKg <= 0 || user.Birthdate == "" {
		return nil, fmt.Errorf("profile incomplete: height, weight and birthdate required")
	}
	bd, err := utils.ParseDate(user.Birthdate)
	if err != nil {
		return nil, err
	}
	res := utils.CalculateTDEE(user.WeightKg, user.HeightCm, utils.CalculateAge(bd), user.Gender, user.ActivityLevel)
	return &res, nil
}
