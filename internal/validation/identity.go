package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	maxEmailLength    = 254 // RFC 5321
	maxNameLength     = 100
	minPasswordLength = 12
	maxPasswordLength = 72 // bcrypt ignores anything longer
)

var commonPasswordFragments = []string{
	"password", "123456", "qwerty", "admin", "letmein",
	"welcome", "monkey", "dragon", "master", "sunshine",
	"portfolio",
}

// ValidateEmail accepts a bare address. Display-name forms such as
// "Ada <ada@example.com>" are rejected.
func ValidateEmail(email string) error {
	switch {
	case email == "":
		return errors.New("email address is required")
	case len(email) > maxEmailLength:
		return fmt.Errorf("email address is too long (max %d characters)", maxEmailLength)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email address format")
	}
	return nil
}

// ValidateName checks the profile display name, counted in characters.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	switch {
	case n == 0:
		return errors.New("display name is required")
	case n > maxNameLength:
		return fmt.Errorf("display name is too long (max %d characters)", maxNameLength)
	}
	return nil
}

// ValidatePassword applies the sign-up and password-change rules: 12 to 72
// bytes and no well-known fragment.
func ValidatePassword(password string) error {
	switch {
	case len(password) < minPasswordLength:
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	case len(password) > maxPasswordLength:
		return fmt.Errorf("password must not exceed %d characters", maxPasswordLength)
	}

	lower := strings.ToLower(password)
	for _, fragment := range commonPasswordFragments {
		if strings.Contains(lower, fragment) {
			return errors.New("password is too common, please choose a stronger one")
		}
	}
	return nil
}
