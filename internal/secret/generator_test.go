package secret

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerateLength(t *testing.T) {
	tests := []struct {
		name string
		opts PasswordOptions
		want int
	}{
		{"default options", DefaultPasswordOptions(), 24},
		{"custom length", PasswordOptions{Length: 32, Lowercase: true}, 32},
		{"single character", PasswordOptions{Length: 1, Digits: true}, 1},
		{"zero length clamps to one", PasswordOptions{Length: 0, Lowercase: true}, 1},
		{"negative length clamps to one", PasswordOptions{Length: -5, Lowercase: true}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.opts); len(got) != tt.want {
				t.Errorf("Generate() length = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestGenerateRespectsDisabledClasses(t *testing.T) {
	opts := PasswordOptions{
		Length:    20,
		Lowercase: true,
		Uppercase: true,
		Digits:    true,
		Symbols:   false,
	}

	for i := 0; i < 20; i++ {
		password := Generate(opts)
		if strings.ContainsAny(password, symbolChars) {
			t.Fatalf("password %q contains a symbol with symbols disabled", password)
		}
	}
}

func TestGenerateSingleClassOnly(t *testing.T) {
	tests := []struct {
		name    string
		opts    PasswordOptions
		charset string
	}{
		{"lowercase only", PasswordOptions{Length: 32, Lowercase: true}, lowercaseChars},
		{"uppercase only", PasswordOptions{Length: 32, Uppercase: true}, uppercaseChars},
		{"digits only", PasswordOptions{Length: 32, Digits: true}, digitChars},
		{"symbols only", PasswordOptions{Length: 32, Symbols: true}, symbolChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			password := Generate(tt.opts)
			for _, ch := range password {
				if !strings.ContainsRune(tt.charset, ch) {
					t.Errorf("password contains %q, not in %q", string(ch), tt.charset)
				}
			}
		})
	}
}

func TestGenerateExcludesAmbiguous(t *testing.T) {
	opts := DefaultPasswordOptions()
	opts.Length = 64

	for i := 0; i < 50; i++ {
		password := Generate(opts)
		if strings.ContainsAny(password, ambiguousChars) {
			t.Fatalf("password %q contains an ambiguous character", password)
		}
	}
}

func TestGenerateAllClassesDisabledFallsBack(t *testing.T) {
	password := Generate(PasswordOptions{Length: 16})
	if len(password) != 16 {
		t.Fatalf("Generate() length = %d, want 16", len(password))
	}
	for _, ch := range password {
		if !strings.ContainsRune(lowercaseChars+uppercaseChars+digitChars, ch) {
			t.Errorf("fallback alphabet produced unexpected character %q", string(ch))
		}
	}
}

func TestGenerateProducesUniquePasswords(t *testing.T) {
	opts := DefaultPasswordOptions()
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		password := Generate(opts)
		if seen[password] {
			t.Errorf("duplicate password generated: %q", password)
		}
		seen[password] = true
	}
}

func TestGenerateMemorable(t *testing.T) {
	password := GenerateMemorable(4, "-")

	parts := strings.Split(password, "-")
	if len(parts) != 5 {
		t.Fatalf("GenerateMemorable(4) has %d segments, want 5: %q", len(parts), password)
	}

	numeral := regexp.MustCompile(`^\d{1,2}$`)
	if !numeral.MatchString(parts[len(parts)-1]) {
		t.Errorf("trailing segment %q is not a 1-2 digit numeral", parts[len(parts)-1])
	}

	for _, word := range parts[:4] {
		found := false
		for _, w := range memorableWords {
			if w == word {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("segment %q is not from the word list", word)
		}
	}
}

func TestGenerateMemorableCustomSeparator(t *testing.T) {
	password := GenerateMemorable(3, ".")
	if got := len(strings.Split(password, ".")); got != 4 {
		t.Errorf("GenerateMemorable(3, \".\") has %d segments, want 4", got)
	}
}

func TestStrength(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		wantScore int
		wantLabel string
	}{
		{"empty", "", 0, "weak"},
		{"short lowercase", "abc", 1, "weak"},
		{"eight lowercase", "abcdefgh", 2, "weak"},
		{"twelve mixed case", "abcdefGHIJKL", 4, "moderate"},
		{"sixteen with digits", "abcdefGHIJKL1234", 6, "good"},
		{"all classes at 24", "abcdefGH12!@abcdefGH12!@", 8, "strong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Strength(tt.password)
			if report.Score != tt.wantScore {
				t.Errorf("Strength(%q).Score = %d, want %d", tt.password, report.Score, tt.wantScore)
			}
			if report.Label != tt.wantLabel {
				t.Errorf("Strength(%q).Label = %q, want %q", tt.password, report.Label, tt.wantLabel)
			}
			if report.MaxScore != 8 {
				t.Errorf("MaxScore = %d, want 8", report.MaxScore)
			}
			if report.Length != len(tt.password) {
				t.Errorf("Length = %d, want %d", report.Length, len(tt.password))
			}
		})
	}
}

func TestStrengthClassDetection(t *testing.T) {
	report := Strength("aB3!")
	if !report.HasLowercase || !report.HasUppercase || !report.HasDigits || !report.HasSymbols {
		t.Errorf("class flags = %+v, want all true", report)
	}

	report = Strength("1234")
	if report.HasLowercase || report.HasUppercase || report.HasSymbols {
		t.Errorf("class flags = %+v, want only digits", report)
	}
}

func TestStrengthNonASCII(t *testing.T) {
	// Length counts characters, not bytes, and non-ASCII characters
	// never satisfy a class.
	report := Strength("héllo wörld")
	if report.Length != 11 {
		t.Errorf("Length = %d, want 11", report.Length)
	}
	if !report.HasLowercase {
		t.Error("HasLowercase = false, want true")
	}

	report = Strength("日本語のパスワード")
	if report.Length != 9 {
		t.Errorf("Length = %d, want 9", report.Length)
	}
	if report.HasLowercase || report.HasUppercase || report.HasDigits || report.HasSymbols {
		t.Errorf("class flags = %+v, want all false", report)
	}
}

func TestStrengthColorMatchesLabel(t *testing.T) {
	for _, password := range []string{"", "abcdefGHIJKL", "abcdefGH12!@abcdefGH12!@"} {
		report := Strength(password)
		if report.Color != strengthColors[report.Label] {
			t.Errorf("Strength(%q).Color = %q, want %q", password, report.Color, strengthColors[report.Label])
		}
	}
}

func TestGeneratedPasswordScoresStrong(t *testing.T) {
	// A 24-character generated password always meets every length
	// threshold; class coverage is probabilistic but the score floor
	// from length alone keeps it out of "weak".
	report := Strength(Generate(DefaultPasswordOptions()))
	if report.Score < 5 {
		t.Errorf("generated password score = %d, want >= 5", report.Score)
	}
}
