package dialogue

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sandevgo/loopbot/internal/core"
)

var cityPattern = regexp.MustCompile(`(?i)\b(?:around|in|near|from)\s+([A-Za-z]{3,20})\b`)

var cityStoplist = map[string]struct{}{
	"database": {},
	"network":  {},
	"my":       {},
	"the":      {},
	"this":     {},
	"that":     {},
	"these":    {},
	"those":    {},
}

var cityAliases = map[string]string{
	"bangalore": "Bengaluru",
	"bengaluru": "Bengaluru",
}

// ExtractCity returns the first non-stoplisted word following a location
// preposition, normalized. Empty when nothing matches.
func ExtractCity(text string) string {
	for _, m := range cityPattern.FindAllStringSubmatch(text, -1) {
		candidate := strings.ToLower(m[1])
		if _, stop := cityStoplist[candidate]; stop {
			continue
		}
		return NormalizeCity(m[1])
	}
	return ""
}

// NormalizeCity trims, title-cases and resolves aliases. It is idempotent.
func NormalizeCity(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	if alias, ok := cityAliases[n]; ok {
		return alias
	}
	// cases.Caser is stateful, one per call.
	return cases.Title(language.English).String(n)
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

type quantityRule struct {
	name  string
	re    *regexp.Regexp
	parse func(string) (int, bool)
}

var quantityRules = []quantityRule{
	{
		name: "digits",
		re:   regexp.MustCompile(`(?i)\b(\d+)\s+hospitals?\b`),
		parse: func(s string) (int, bool) {
			n, err := strconv.Atoi(s)
			return n, err == nil
		},
	},
	{
		name: "words",
		re:   regexp.MustCompile(`(?i)\b(one|two|three|four|five|six|seven|eight|nine|ten)\s+hospitals?\b`),
		parse: func(s string) (int, bool) {
			n, ok := numberWords[strings.ToLower(s)]
			return n, ok
		},
	},
}

// ExtractQuantity returns the requested number of hospitals, digits first.
func ExtractQuantity(text string) *int {
	for _, rule := range quantityRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if n, ok := rule.parse(m[1]); ok {
			return &n
		}
	}
	return nil
}

var quantityStyle = []*regexp.Regexp{
	quantityRules[0].re,
	quantityRules[1].re,
	regexp.MustCompile(`(?i)\b(?:give|tell|show)\s+me\b.*\bhospital`),
}

// IsQuantityStyle reports whether text reads as a request for a number of
// hospitals rather than a specific one.
func IsQuantityStyle(text string) bool {
	for _, re := range quantityStyle {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

type nameRule struct {
	name string
	re   *regexp.Regexp
}

// Order matters, the first rule yielding a usable candidate wins.
var nameRules = []nameRule{
	{
		name: "any_capitalized",
		re:   regexp.MustCompile(`(?i:\bis there any|\bany)\s+((?:[A-Z][\w'&.-]*\s+)*(?:Hospital|Centre|Center|Clinic|Medical)\b(?:\s+[A-Z][\w'&.-]*)*)`),
	},
	{
		name: "confirm_if",
		re:   regexp.MustCompile(`(?i)\bconfirm if\s+([A-Za-z0-9\s'\-]+?)\s+(?:in|at)\s+`),
	},
	{
		name: "is_in",
		re:   regexp.MustCompile(`(?i)\b(?:is|are)\s+([A-Za-z0-9\s'\-]+?)\s+(?:in|at)\s+`),
	},
	{
		name: "bare_capitalized",
		re:   regexp.MustCompile(`\b((?:[A-Z][\w'&.-]*\s+)+(?:Hospital|Centre|Center|Clinic|Medical))\b`),
	},
}

var nameFillers = map[string]struct{}{
	"there": {}, "the": {}, "any": {}, "some": {}, "a": {}, "an": {},
}

var genericNames = map[string]struct{}{
	"hospital": {}, "hospitals": {}, "it": {}, "they": {}, "this": {}, "that": {},
}

// ExtractHospitalName returns a hospital name or brand mentioned in text.
// Quantity-style requests never yield a name.
func ExtractHospitalName(text string) string {
	if IsQuantityStyle(text) {
		return ""
	}
	for _, rule := range nameRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if name := cleanHospitalName(m[1]); name != "" {
			return name
		}
	}
	return ""
}

func cleanHospitalName(candidate string) string {
	candidate = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(candidate), "?.,!"))
	if strings.Contains(strings.ToLower(candidate), "manipal") {
		return core.CanonicalBrand
	}

	words := strings.Fields(candidate)
	for len(words) > 0 {
		if _, filler := nameFillers[strings.ToLower(words[0])]; !filler {
			break
		}
		words = words[1:]
	}
	name := strings.Join(words, " ")
	if _, generic := genericNames[strings.ToLower(name)]; generic {
		return ""
	}
	return name
}

// Extract bundles every entity found in text.
func Extract(text string) core.Extraction {
	return core.Extraction{
		City:         ExtractCity(text),
		HospitalName: ExtractHospitalName(text),
		Quantity:     ExtractQuantity(text),
	}
}

var allHospitalsTriggers = []string{
	"all hospital",
	"all hospitals",
	"every hospital",
	"entire list",
	"complete list",
	"whole list",
}

var wordAll = regexp.MustCompile(`\ball\b`)

// WantsAllHospitals detects an explicit request for every hospital in a city.
func WantsAllHospitals(text string) bool {
	q := strings.ToLower(text)
	if q == "" {
		return false
	}
	if containsAny(q, allHospitalsTriggers) {
		return true
	}
	return wordAll.MatchString(q) && strings.Contains(q, "hospital")
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
