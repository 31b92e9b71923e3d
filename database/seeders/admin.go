package seeders

import (
	"errors"
	"fmt"
	"strings"

	"farmhith/constants"
	"farmhith/logger"
	"farmhith/models/user"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates an admin account, or promotes and re-keys an existing one with the same email.
func SeedAdmin(db *gorm.DB, email, password string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 6 {
		return nil, fmt.Errorf("admin email and a password of at least 6 characters are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var existing user.User
	err = db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		existing.PasswordHash = string(hash)
		existing.Role = constants.RoleAdmin
		if err := db.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("update admin: %w", err)
		}
		logger.Success("Updated admin account " + email)
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin := user.User{
			Email:        &email,
			PasswordHash: string(hash),
			Role:         constants.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			return nil, fmt.Errorf("create admin: %w", err)
		}
		logger.Success("Created admin account " + email)
		return &admin, nil
	default:
		return nil, fmt.Errorf("look up admin: %w", err)
	}
}
