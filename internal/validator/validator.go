package validator

import (
	"errors"
	"regexp"
	"strings"

	"rental/internal/models"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidPhone    = errors.New("invalid phone")
)

var (
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9 ().-]{6,20}$`)
)

var unitTypes = map[string]bool{
	"apartment":  true,
	"studio":     true,
	"house":      true,
	"commercial": true,
}

var occupancyStatuses = map[string]bool{
	models.StatusAvailable:   true,
	models.StatusOccupied:    true,
	models.StatusMaintenance: true,
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateOptionalEmail accepts an empty address.
func ValidateOptionalEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	return ValidateEmail(email)
}

func ValidatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return nil
	}
	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func IsUnitType(value string) bool {
	return unitTypes[value]
}

func IsOccupancyStatus(value string) bool {
	return occupancyStatuses[value]
}
