package auth

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mcoot/musicchallenge/internal/model"
)

// Validation errors
var (
	ErrInvalidName     = errors.New("name is required and must be at most 32 characters")
	ErrInvalidCountry  = errors.New("country is required")
	ErrInvalidGender   = errors.New("gender must be male or female")
	ErrInvalidPassword = errors.New("password is required")
	ErrWeakPassword    = errors.New("password must be at least 8 characters with an uppercase letter, a lowercase letter and a digit")
)

const (
	maxCountryLength = 64
	// bcrypt ignores input past this length
	maxPasswordBytes = 72
)

// IsValidationError reports whether err was caused by bad registration input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidCountry) ||
		errors.Is(err, ErrInvalidGender) ||
		errors.Is(err, ErrInvalidPassword) ||
		errors.Is(err, ErrWeakPassword)
}

// validate trims and checks registration input, returning the normalized copy
func (s *Service) validate(in RegisterInput) (RegisterInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Country = strings.TrimSpace(in.Country)
	in.Gender = model.Gender(strings.ToLower(strings.TrimSpace(string(in.Gender))))

	if in.Name == "" || utf8.RuneCountInString(in.Name) > s.cfg.MaxNameLength {
		return in, ErrInvalidName
	}
	if in.Country == "" || utf8.RuneCountInString(in.Country) > maxCountryLength {
		return in, ErrInvalidCountry
	}
	if !in.Gender.Valid() {
		return in, ErrInvalidGender
	}
	if in.Password == "" || len(in.Password) > maxPasswordBytes {
		return in, ErrInvalidPassword
	}
	if s.cfg.RequireStrongPassword && !isStrongPassword(in.Password) {
		return in, ErrWeakPassword
	}
	return in, nil
}

func isStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
