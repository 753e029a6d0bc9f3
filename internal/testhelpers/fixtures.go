package testhelpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mealmajor/mealmajor/backend/internal/models"
)

// TestPassword is the password of every user made by CreateTestUser
const TestPassword = "password123"

// CreateTestUser inserts a user whose password is TestPassword
func CreateTestUser(t *testing.T, db *gorm.DB, firstName, lastName, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

// CreateDietaryOptions inserts dietary options and returns their ids in order
func CreateDietaryOptions(t *testing.T, db *gorm.DB, names ...string) []uint {
	t.Helper()
	ids := make([]uint, len(names))
	for i, name := range names {
		option := models.DietaryOption{Name: name}
		if err := db.Create(&option).Error; err != nil {
			t.Fatalf("failed to create dietary option %s: %v", name, err)
		}
		ids[i] = option.ID
	}
	return ids
}

// CreateAllergyOptions inserts allergy options and returns their ids in order
func CreateAllergyOptions(t *testing.T, db *gorm.DB, names ...string) []uint {
	t.Helper()
	ids := make([]uint, len(names))
	for i, name := range names {
		option := models.AllergyOption{Name: name}
		if err := db.Create(&option).Error; err != nil {
			t.Fatalf("failed to create allergy option %s: %v", name, err)
		}
		ids[i] = option.ID
	}
	return ids
}
