package models

// MealType is the fixed meal-type dimension. The set and its ordering are
// static; users pick from it but never edit it.
type MealType string

const (
	MealTypeBreakfast      MealType = "breakfast"
	MealTypeMorningSnack   MealType = "morning_snack"
	MealTypeLunch          MealType = "lunch"
	MealTypeAfternoonSnack MealType = "afternoon_snack"
	MealTypeDinner         MealType = "dinner"
	MealTypeEveningSnack   MealType = "evening_snack"
	MealTypeBeverage       MealType = "beverage"
)

// MealClass groups meal types for the daily counters.
type MealClass string

const (
	ClassMeal     MealClass = "meal"
	ClassSnack    MealClass = "snack"
	ClassBeverage MealClass = "beverage"
)

// MealTypes lists all meal types in display order.
var MealTypes = []MealType{
	MealTypeBreakfast,
	MealTypeMorningSnack,
	MealTypeLunch,
	MealTypeAfternoonSnack,
	MealTypeDinner,
	MealTypeEveningSnack,
	MealTypeBeverage,
}

var mealClasses = map[MealType]MealClass{
	MealTypeBreakfast:      ClassMeal,
	MealTypeMorningSnack:   ClassSnack,
	MealTypeLunch:          ClassMeal,
	MealTypeAfternoonSnack: ClassSnack,
	MealTypeDinner:         ClassMeal,
	MealTypeEveningSnack:   ClassSnack,
	MealTypeBeverage:       ClassBeverage,
}

func (m MealType) Valid() bool {
	_, ok := mealClasses[m]
	return ok
}

func (m MealType) Class() MealClass {
	return mealClasses[m]
}

// IsAnchor reports whether the meal type counts toward the completeness
// score (breakfast, lunch, dinner).
func (m MealType) IsAnchor() bool {
	return m == MealTypeBreakfast || m == MealTypeLunch || m == MealTypeDinner
}
