// Package validate holds the shared client-side field rules.
//
// Every form consumes the same rule set, configured per field, so login,
// registration, profile editing, and upload cannot drift apart.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// MaxUploadBytes is the largest CSV the server accepts.
const MaxUploadBytes = 5 * 1024 * 1024

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var namePattern = regexp.MustCompile(`^[A-Za-z ]+$`)

// PasswordRules configures the password checks for one form.
type PasswordRules struct {
	MinLength      int
	RequireClasses bool // uppercase, lowercase, and digit
}

// LoginPasswordRules are the checks applied before a login request.
var LoginPasswordRules = PasswordRules{MinLength: 8}

// RegisterPasswordRules are the stricter checks applied before registration.
var RegisterPasswordRules = PasswordRules{MinLength: 8, RequireClasses: true}

// Identifier checks the login identifier. A value containing "@" must be a
// well-formed email address; anything else only has to be non-empty.
func Identifier(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("identifier is required")
	}
	if strings.Contains(value, "@") && !emailPattern.MatchString(value) {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

// Email checks an email address for the standard local@domain shape.
func Email(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(value) {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

// FullName checks the registration display name.
func FullName(value string) error {
	value = strings.TrimSpace(value)
	if len(value) < 2 {
		return fmt.Errorf("full name must be at least 2 characters")
	}
	if !namePattern.MatchString(value) {
		return fmt.Errorf("full name must use letters only")
	}
	return nil
}

// Password checks a password against the given rules.
func Password(value string, rules PasswordRules) error {
	if value == "" {
		return fmt.Errorf("password is required")
	}
	if value != strings.TrimSpace(value) {
		return fmt.Errorf("password must not start or end with whitespace")
	}
	if len(value) < rules.MinLength {
		return fmt.Errorf("password must be at least %d characters", rules.MinLength)
	}
	if !rules.RequireClasses {
		return nil
	}
	var hasUpper, hasLower, hasDigit, hasSpace bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsSpace(r):
			hasSpace = true
		}
	}
	if hasSpace {
		return fmt.Errorf("password must not contain spaces")
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("password must include uppercase, lowercase, and a number")
	}
	return nil
}

// ConfirmPassword checks that the confirmation matches.
func ConfirmPassword(password, confirm string) error {
	if confirm == "" {
		return fmt.Errorf("confirm your password")
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}

// CSVFile checks the upload preconditions: the file must exist, carry a
// .csv extension, and not exceed MaxUploadBytes. No network call is made
// for a file that fails these checks.
func CSVFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("select a CSV file to upload")
	}
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return fmt.Errorf("file must have a .csv extension")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("CSV file is empty")
	}
	if info.Size() > MaxUploadBytes {
		return fmt.Errorf("file exceeds maximum size (5 MB)")
	}
	return nil
}
