package models

// DietaryOption is an entry of the dietary catalog (e.g. "Vegan").
type DietaryOption struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

func (DietaryOption) TableName() string {
	return "dietary_options"
}

// AllergyOption is an entry of the allergy catalog (e.g. "Peanuts").
type AllergyOption struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

func (AllergyOption) TableName() string {
	return "allergy_options"
}

// Option is the read shape shared by both catalogs.
type Option struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
