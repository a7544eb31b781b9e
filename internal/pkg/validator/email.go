package validator

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrInvalidEmail     = errors.New("value is not a valid email address")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrOrgNameRequired  = errors.New("organization_name is required")
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// NormalizeEmail validates the address and lowercases its domain part.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", ErrInvalidEmail
	}

	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]
	if local == "" || !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", ErrInvalidEmail
	}
	return local + "@" + strings.ToLower(domain), nil
}

// ValidatePassword checks the constraints the password hasher can honour.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func ValidateOrganizationName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrOrgNameRequired
	}
	return nil
}
