// Package strength rates passwords locally with the same criteria the
// console's strength meter shows.
package strength

import (
	"strings"
	"unicode/utf8"
)

// Level is a strength bucket.
type Level string

const (
	Empty      Level = "empty"
	Weak       Level = "weak"
	Medium     Level = "medium"
	Strong     Level = "strong"
	VeryStrong Level = "very-strong"
)

// MaxScore is the number of criteria.
const MaxScore = 6

const specialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// Criteria records which checks a password passed.
type Criteria struct {
	MinLength      bool `json:"minLength"`
	Uppercase      bool `json:"uppercase"`
	Lowercase      bool `json:"lowercase"`
	Numbers        bool `json:"numbers"`
	Special        bool `json:"special"`
	ExtendedLength bool `json:"extendedLength"`
}

// Score counts the criteria met.
func (c Criteria) Score() int {
	score := 0
	for _, ok := range []bool{c.MinLength, c.Uppercase, c.Lowercase, c.Numbers, c.Special, c.ExtendedLength} {
		if ok {
			score++
		}
	}
	return score
}

// Report is the result of rating a password.
type Report struct {
	Level      Level    `json:"level"`
	Score      int      `json:"score"`
	Feedback   string   `json:"feedback"`
	Percentage int      `json:"percentage"`
	Criteria   Criteria `json:"criteria"`
}

// Evaluate rates password against six criteria: at least 8 characters,
// an ASCII uppercase letter, an ASCII lowercase letter, a digit, a special
// character, and at least 12 characters.
func Evaluate(password string) Report {
	if password == "" {
		return newReport(Empty, 0, Criteria{})
	}

	length := utf8.RuneCountInString(password)
	var c Criteria
	c.MinLength = length >= 8
	c.ExtendedLength = length >= 12
	for _, r := range password {
		switch {
		case 'A' <= r && r <= 'Z':
			c.Uppercase = true
		case 'a' <= r && r <= 'z':
			c.Lowercase = true
		case '0' <= r && r <= '9':
			c.Numbers = true
		case strings.ContainsRune(specialChars, r):
			c.Special = true
		}
	}

	score := c.Score()
	return newReport(levelForScore(score), score, c)
}

// FromAPI builds a report from a strength label and score returned by the
// API. Unknown labels map to Empty.
func FromAPI(label string, score int) Report {
	return newReport(ParseLevel(label), score, Criteria{})
}

// ParseLevel normalizes an API strength label. "very-strong", "very strong"
// and "very_strong" are the same level.
func ParseLevel(label string) Level {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "weak":
		return Weak
	case "medium":
		return Medium
	case "strong":
		return Strong
	case "very-strong", "very strong", "very_strong":
		return VeryStrong
	default:
		return Empty
	}
}

func levelForScore(score int) Level {
	switch {
	case score <= 2:
		return Weak
	case score <= 4:
		return Medium
	case score <= 5:
		return Strong
	default:
		return VeryStrong
	}
}

func newReport(level Level, score int, c Criteria) Report {
	return Report{
		Level:      level,
		Score:      score,
		Feedback:   level.Feedback(),
		Percentage: level.Percentage(),
		Criteria:   c,
	}
}

// Feedback is the sentence shown under the meter.
func (l Level) Feedback() string {
	switch l {
	case Weak:
		return "Weak password. Add more complexity."
	case Medium:
		return "Medium password. Keep improving."
	case Strong:
		return "Strong password. Good choice!"
	case VeryStrong:
		return "Very strong password. Excellent!"
	default:
		return "Enter a password to evaluate"
	}
}

// Percentage is the meter fill for the level.
func (l Level) Percentage() int {
	switch l {
	case Weak:
		return 25
	case Medium:
		return 50
	case Strong:
		return 75
	case VeryStrong:
		return 100
	default:
		return 0
	}
}

// Label is the human-readable level name.
func (l Level) Label() string {
	switch l {
	case VeryStrong:
		return "Very strong"
	case Empty:
		return "Empty"
	default:
		s := string(l)
		return strings.ToUpper(s[:1]) + s[1:]
	}
}
