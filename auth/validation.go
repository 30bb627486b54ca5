package auth

import (
	"regexp"
	"strings"

	"github.com/ztrustlabs/go-inspector-client/apierr"
)

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	otpRE   = regexp.MustCompile(`^\d{6}$`)

	upperRE = regexp.MustCompile(`[A-Z]`)
	lowerRE = regexp.MustCompile(`[a-z]`)
	digitRE = regexp.MustCompile(`\d`)
)

// validateEmail checks a standard address format.
func validateEmail(email string) error {
	if !emailRE.MatchString(email) {
		return apierr.Validationf("please enter a valid email address")
	}
	return nil
}

// validateLoginPassword only requires presence; the server judges the rest.
func validateLoginPassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return apierr.Validationf("please enter your password")
	}
	return nil
}

// validatePasswordStrength enforces the signup policy locally before any
// network call.
func validatePasswordStrength(password string) error {
	if len(password) < 8 || !upperRE.MatchString(password) ||
		!lowerRE.MatchString(password) || !digitRE.MatchString(password) {
		return apierr.Validationf("password must be at least 8 characters with uppercase, lowercase and numbers")
	}
	return nil
}

// validateOTP requires exactly six digits.
func validateOTP(otp string) error {
	if !otpRE.MatchString(otp) {
		return apierr.Validationf("please enter a valid 6-digit verification code")
	}
	return nil
}
