package models

// UserDietaryOption links a user to a dietary option they follow.
type UserDietaryOption struct {
	UserID          uint `gorm:"primaryKey;autoIncrement:false"`
	DietaryOptionID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (UserDietaryOption) TableName() string {
	return "user_dietary_options"
}

// UserAllergyOption links a user to an allergy they declared.
type UserAllergyOption struct {
	UserID          uint `gorm:"primaryKey;autoIncrement:false"`
	AllergyOptionID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (UserAllergyOption) TableName() string {
	return "user_allergy_options"
}
