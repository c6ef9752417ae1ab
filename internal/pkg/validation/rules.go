package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Student number pattern, e.g. 2021-00123
	StudentNoPattern = `^\d{4}-\d{5}$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email     *regexp.Regexp
	StudentNo *regexp.Regexp
}{
	Email:     regexp.MustCompile(EmailPattern),
	StudentNo: regexp.MustCompile(StudentNoPattern),
}

// IsValidEmail reports whether the value matches the email pattern
func IsValidEmail(value string) bool {
	return CompiledPatterns.Email.MatchString(value)
}

// IsValidStudentNo reports whether the value matches the student number pattern
func IsValidStudentNo(value string) bool {
	return CompiledPatterns.StudentNo.MatchString(value)
}

// IsValidPassword reports whether the value satisfies the password policy
func IsValidPassword(value string) bool {
	return len(value) >= PasswordMinLength
}
