package types

import (
	"time"

	"github.com/mealmajor/mealmajor/backend/internal/models"
)

// UserProfile is the public view of an account
type UserProfile struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserProfile projects a stored user onto its public view.
func NewUserProfile(u *models.User) UserProfile {
	return UserProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AuthResponse is returned by sign-in
type AuthResponse struct {
	Token   string      `json:"token"`
	Profile UserProfile `json:"profile"`
}

// Preferences lists the options a user selected in each catalog
type Preferences struct {
	DietaryOptions []models.Option `json:"dietaryOptions"`
	AllergyOptions []models.Option `json:"allergyOptions"`
}

// PreferenceIDs returns the selected ids of each catalog in ascending order.
func (p Preferences) PreferenceIDs() (dietary, allergy []uint) {
	dietary = make([]uint, 0, len(p.DietaryOptions))
	for _, o := range p.DietaryOptions {
		dietary = append(dietary, o.ID)
	}
	allergy = make([]uint, 0, len(p.AllergyOptions))
	for _, o := range p.AllergyOptions {
		allergy = append(allergy, o.ID)
	}
	return dietary, allergy
}

// OptionCatalogs lists both catalogs, each ordered by name
type OptionCatalogs struct {
	DietaryOptions []models.Option `json:"dietaryOptions"`
	AllergyOptions []models.Option `json:"allergyOptions"`
}
