package security

import (
	"unicode"

	"github.com/notehq/notehub/internal/apperrors"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 30
)

// ValidateStrength enforces the signup password rules: length in [8,30],
// at least one lowercase, uppercase, digit and special character, and not a
// known common password. All failed rules are reported at once.
func ValidateStrength(password string) error {
	var problems []string

	if len(password) < minPasswordLength {
		problems = append(problems, "must be at least 8 characters")
	}

	if len(password) > maxPasswordLength {
		problems = append(problems, "must not be more than 30 characters")
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool

	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if !hasLower {
		problems = append(problems, "must contain at least one lowercase letter")
	}

	if !hasUpper {
		problems = append(problems, "must contain at least one uppercase letter")
	}

	if !hasDigit {
		problems = append(problems, "must contain at least one number")
	}

	if !hasSpecial {
		problems = append(problems, "must contain at least one special character")
	}

	if IsCommonPassword(password) {
		problems = append(problems, "is too common")
	}

	if len(problems) > 0 {
		return apperrors.WithDetails(apperrors.KindValidation, "password does not meet security requirements", problems)
	}

	return nil
}
