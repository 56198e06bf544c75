package utils

import "fmt"

// WHO adult BMI bands, as reported on the profile.
const (
	BMIUnderweight = "underweight"
	BMINormal      = "normal"
	BMIOverweight  = "overweight"
	BMIObese       = "obese"
)

// CalculateBMI computes body mass index from height in centimeters and
// weight in kilograms. Inputs outside the range a profile could plausibly
// hold are rejected rather than producing a nonsense index.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm < 50 || heightCm > 250 {
		return 0, fmt.Errorf("height %.0fcm out of range", heightCm)
	}
	if weightKg < 10 || weightKg > 400 {
		return 0, fmt.Errorf("weight %.0fkg out of range", weightKg)
	}
	m := heightCm / 100
	return weightKg / (m * m), nil
}

// BMICategory maps an index to its WHO band.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}
