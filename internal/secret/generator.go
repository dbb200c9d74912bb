// Package secret generates credentials for new masked-email logins and
// scores password strength. All randomness comes from crypto/rand; the
// output is used as real login secrets.
package secret

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars     = "0123456789"
	symbolChars    = "!@#$%^&*()-_=+[]{}|;:,.<>?"

	// ambiguousChars are glyphs easily confused in many terminal fonts.
	ambiguousChars = "0O1lI|"
)

// PasswordOptions configures random password generation.
type PasswordOptions struct {
	Length           int
	Lowercase        bool
	Uppercase        bool
	Digits           bool
	Symbols          bool
	ExcludeAmbiguous bool
}

// DefaultPasswordOptions returns the options used for new logins:
// 24 characters, all classes enabled, ambiguous glyphs excluded.
func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{
		Length:           24,
		Lowercase:        true,
		Uppercase:        true,
		Digits:           true,
		Symbols:          true,
		ExcludeAmbiguous: true,
	}
}

// Generate produces a random password of exactly opts.Length characters,
// each drawn independently and uniformly from the configured alphabet.
// No per-class coverage is guaranteed. A non-positive length is clamped
// to 1. If every class is disabled (or exclusion empties the alphabet),
// letters plus digits are used instead.
func Generate(opts PasswordOptions) string {
	length := opts.Length
	if length < 1 {
		length = 1
	}

	var alphabet strings.Builder
	if opts.Lowercase {
		alphabet.WriteString(lowercaseChars)
	}
	if opts.Uppercase {
		alphabet.WriteString(uppercaseChars)
	}
	if opts.Digits {
		alphabet.WriteString(digitChars)
	}
	if opts.Symbols {
		alphabet.WriteString(symbolChars)
	}

	chars := alphabet.String()

	// Ambiguous glyphs are removed only after the full alphabet is
	// assembled, so the fallback check below sees the real class set.
	if opts.ExcludeAmbiguous {
		chars = strings.Map(func(r rune) rune {
			if strings.ContainsRune(ambiguousChars, r) {
				return -1
			}
			return r
		}, chars)
	}

	if chars == "" {
		chars = lowercaseChars + uppercaseChars + digitChars
	}

	password := make([]byte, length)
	for i := range password {
		password[i] = randChar(chars)
	}

	return string(password)
}

// memorableWords is the fixed word list for memorable passwords.
var memorableWords = []string{
	"apple", "banana", "cherry", "dragon", "eagle", "forest",
	"galaxy", "harbor", "island", "jungle", "koala", "lemon",
	"mango", "nebula", "ocean", "planet", "quartz", "river",
	"sunset", "thunder", "umbrella", "violet", "whisper", "xylophone",
	"yellow", "zenith", "anchor", "bridge", "castle", "diamond",
	"emerald", "falcon", "garden", "hunter", "indigo", "jasper",
	"kiwi", "lantern", "marble", "ninja", "orange", "phoenix",
	"quantum", "rainbow", "silver", "tiger", "ultra", "velvet",
	"willow", "xenon", "yacht", "zephyr", "alpine", "blazer",
	"cosmic", "delta", "echo", "frost", "glider", "horizon",
}

// GenerateMemorable produces a password of numWords random words joined
// by sep, with a random number in [0, 99] appended as a final segment,
// e.g. "correct-horse-battery-staple-42". A non-positive numWords is
// clamped to 1.
func GenerateMemorable(numWords int, sep string) string {
	if numWords < 1 {
		numWords = 1
	}

	segments := make([]string, 0, numWords+1)
	for i := 0; i < numWords; i++ {
		segments = append(segments, memorableWords[randIndex(len(memorableWords))])
	}
	segments = append(segments, strconv.Itoa(randIndex(100)))

	return strings.Join(segments, sep)
}

// StrengthReport describes the result of scoring a password.
type StrengthReport struct {
	// Score is the additive strength score in [0, MaxScore].
	Score int `json:"score"`

	// MaxScore is always 8: four length thresholds plus four classes.
	MaxScore int `json:"max_score"`

	// Label is one of weak, moderate, good, strong.
	Label string `json:"strength"`

	// Color is an advisory hex color for rendering the label.
	Color string `json:"color"`

	Length int `json:"length"`

	HasLowercase bool `json:"has_lowercase"`
	HasUppercase bool `json:"has_uppercase"`
	HasDigits    bool `json:"has_digits"`
	HasSymbols   bool `json:"has_symbols"`
}

// strengthColors maps labels to the theme colors used by the UI.
var strengthColors = map[string]string{
	"strong":   "#00FF88",
	"good":     "#00D4FF",
	"moderate": "#FFB800",
	"weak":     "#FF4444",
}

// asciiSymbols is the symbol class used for scoring. It is the full
// ASCII punctuation set, a superset of symbolChars, so passwords from
// other generators still get symbol credit.
const asciiSymbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Strength scores a password on a fixed rubric: one point for each
// length threshold met among 8, 12, 16, and 24 characters, and one
// point for each character class present. Length is counted in runes,
// and only ASCII characters count toward a class. Deterministic and
// total.
func Strength(password string) StrengthReport {
	report := StrengthReport{
		MaxScore: 8,
		Length:   utf8.RuneCountInString(password),
	}

	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			report.HasLowercase = true
		case r >= 'A' && r <= 'Z':
			report.HasUppercase = true
		case r >= '0' && r <= '9':
			report.HasDigits = true
		case strings.ContainsRune(asciiSymbols, r):
			report.HasSymbols = true
		}
	}

	for _, threshold := range []int{8, 12, 16, 24} {
		if report.Length >= threshold {
			report.Score++
		}
	}
	for _, present := range []bool{
		report.HasLowercase, report.HasUppercase,
		report.HasDigits, report.HasSymbols,
	} {
		if present {
			report.Score++
		}
	}

	switch {
	case report.Score >= 7:
		report.Label = "strong"
	case report.Score >= 5:
		report.Label = "good"
	case report.Score >= 3:
		report.Label = "moderate"
	default:
		report.Label = "weak"
	}
	report.Color = strengthColors[report.Label]

	return report
}

// randChar picks a random character from charset using crypto/rand.
func randChar(charset string) byte {
	return charset[randIndex(len(charset))]
}

// randIndex returns a uniform random int in [0, n) from crypto/rand.
// crypto/rand.Int only fails when the entropy source is broken, which
// is not a recoverable condition for a credential generator.
func randIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("secret: crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}
