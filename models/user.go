package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null"`
	Password    string `gorm:"not null"`
	DisplayName string

	// Profile fields used by the TDEE calculator.
	Gender        string  `gorm:"size:10"`
	Birthdate     string  `gorm:"type:date"`
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string `gorm:"size:20"` // sedentary | light | moderate | active | very_active

	CalorieTarget int    `gorm:"default:2000"` // daily target in kcal
	Timezone      string `gorm:"size:64"`
}
