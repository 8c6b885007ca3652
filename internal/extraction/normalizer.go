package extraction

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// A digit run followed by ".digits" is a decimal, never a count.
	intPattern     = regexp.MustCompile(`\d+(\.\d+)?`)
	decimalPattern = regexp.MustCompile(`\d+\.\d+`)

	// Unit suffixes seen next to counts on profile pages.
	unitSuffixes = []string{"회", "건", "개", "명", "점"}

	wrapperReplacer = strings.NewReplacer("(", " ", ")", " ", "[", " ", "]", " ", "（", " ", "）", " ")
)

func clean(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, ",", "")
	text = wrapperReplacer.Replace(text)
	for _, unit := range unitSuffixes {
		text = strings.ReplaceAll(text, unit, " ")
	}
	return strings.TrimSpace(text)
}

// NormalizeInt returns the first non-negative integer in text, skipping
// decimals such as a "4.9" rating. The second result is false when text is
// empty or carries no whole number.
func NormalizeInt(text string) (int, bool) {
	text = clean(text)
	if text == "" {
		return 0, false
	}
	for _, m := range intPattern.FindAllStringSubmatch(text, -1) {
		if m[1] != "" {
			continue
		}
		n, err := strconv.Atoi(m[0])
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// NormalizeDecimal returns the first "digits.digits" value in text. Integer
// only text is rejected so a bare count is never read as a rating.
func NormalizeDecimal(text string) (float64, bool) {
	text = clean(text)
	if text == "" {
		return 0, false
	}
	match := decimalPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

const MaxRating = 5.0

// NormalizeRating is NormalizeDecimal restricted to the 0..5 star scale.
func NormalizeRating(text string) (float64, bool) {
	v, ok := NormalizeDecimal(text)
	if !ok || v < 0 || v > MaxRating {
		return 0, false
	}
	return v, true
}
