// Package validate holds the pure form-validation helpers.
package validate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mdjaved24/mlplay/internal/api"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// PasswordStrength scores a password 0-5: one point each for non-empty,
// length of at least 8, an upper-case letter, a digit, and a symbol.
func PasswordStrength(password string) int {
	score := 0
	if len(password) > 0 {
		score++
	}
	if len(password) >= 8 {
		score++
	}
	hasUpper, hasDigit, hasSymbol := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			hasSymbol = true
		}
	}
	if hasUpper {
		score++
	}
	if hasDigit {
		score++
	}
	if hasSymbol {
		score++
	}
	return score
}

// MinSignupStrength is the lowest score the signup form accepts.
// MaxPasswordStrength is the top of the strength scale.
const (
	MinSignupStrength   = 3
	MaxPasswordStrength = 5
)

// NormalizeAnswer lower-cases and trims a security answer before it is
// sent, so verification is insensitive to case and padding.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// FilterModels returns the saved models whose name, algorithm, or problem
// type contains query case-insensitively, restricted to problemType when
// it is not "all". An empty query matches everything.
func FilterModels(models []api.SavedModel, query, problemType string) []api.SavedModel {
	query = strings.ToLower(strings.TrimSpace(query))
	problemType = strings.ToLower(problemType)
	out := make([]api.SavedModel, 0, len(models))
	for _, m := range models {
		if problemType != "" && problemType != "all" && strings.ToLower(m.ProblemType) != problemType {
			continue
		}
		if query != "" && !matchesQuery(m, query) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesQuery(m api.SavedModel, query string) bool {
	return strings.Contains(strings.ToLower(m.Name), query) ||
		strings.Contains(strings.ToLower(m.Algorithm), query) ||
		strings.Contains(strings.ToLower(m.ProblemType), query)
}
