package utils

import (
	"math"
	"time"
)

// ActivityMultipliers maps activity level to TDEE multiplier.
var ActivityMultipliers = map[string]float64{
	"sedentary":   1.2,   // little or no exercise, desk job
	"light":       1.375, // light exercise 1-3 days/week
	"moderate":    1.55,  // moderate exercise 3-5 days/week
	"active":      1.725, // hard exercise 6-7 days/week
	"very_active": 1.9,   // very hard exercise, physical job
}

// CalculateBMR uses the Mifflin-St Jeor equation.
func CalculateBMR(weightKg, heightCm float64, ageYears int, gender string) float64 {
	bmr := (10 * weightKg) + (6.25 * heightCm) - (5 * float64(ageYears))
	if gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	return math.Round(bmr)
}

type TDEEResult struct {
	BMR                int            `json:"bmr"`
	TDEE               int            `json:"tdee"`
	ActivityMultiplier float64        `json:"activity_multiplier"`
	Targets            map[string]int `json:"targets"`
}

// CalculateTDEE returns total daily energy expenditure plus goal-based
// calorie target presets.
func CalculateTDEE(weightKg, heightCm float64, ageYears int, gender, activityLevel string) TDEEResult {
	bmr := CalculateBMR(weightKg, heightCm, ageYears, gender)
	mult, ok := ActivityMultipliers[activityLevel]
	if !ok {
		mult = 1.2
	}
	tdee := math.Round(bmr * mult)

	return TDEEResult{
		BMR:                int(bmr),
		TDEE:               int(tdee),
		ActivityMultiplier: mult,
		Targets: map[string]int{
			"aggressive_loss": int(tdee) - 750,
			"moderate_loss":   int(tdee) - 500,
			"mild_loss":       int(tdee) - 250,
			"maintenance":     int(tdee),
			"mild_gain":       int(tdee) + 250,
			"moderate_gain":   int(tdee) + 500,
		},
	}
}

func CalculateAge(birthdate time.Time) int {
	now := time.Now()
	age := now.Year() - birthdate.Year()
	if now.Month() < birthdate.Month() ||
		(now.Month() == birthdate.Month() && now.Day() < birthdate.Day()) {
		age--
	}
	return age
}
