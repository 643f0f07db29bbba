package schedule

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Dimensions holds parsed measurements in millimeters. A nil field was
// not present in the text.
type Dimensions struct {
	Width  *int
	Length *int
	Height *int
}

const unitAlternatives = `mm|millimet(?:er|re)s?|cm|centimet(?:er|re)s?|m|met(?:er|re)s?`

var (
	numberWithUnitRE = regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)\s*(` + unitAlternatives + `)?$`)
	gluedUnitRE      = regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)(mm|cm|m)$`)
	innerUnitRE      = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(` + unitAlternatives + `)\b`)
	innerNumberRE    = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

	labeledDimsRE = regexp.MustCompile(
		`(?i)(\d+(?:[.,]\d+)?)\s*([WLHDT])\s*X\s*(\d+(?:[.,]\d+)?)\s*([WLHDT])` +
			`(?:\s*X\s*(\d+(?:[.,]\d+)?)\s*([WLHDT]))?\s*(` + unitAlternatives + `)?\b`)

	unlabeledDimsRE = regexp.MustCompile(
		`(?i)(\d+(?:[.,]\d+)?)\s*X\s*(\d+(?:[.,]\d+)?)(?:\s*X\s*(\d+(?:[.,]\d+)?))?\s*(` + unitAlternatives + `)\b`)
)

func dimKeyPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + key + `\b\s*[:=\-]?\s*([0-9]+(?:[.,][0-9]+)?\s*(?:` + unitAlternatives + `)?)`)
}

var explicitDimPatterns = []struct {
	key string
	re  *regexp.Regexp
}{
	{"WIDTH", dimKeyPattern("WIDTH")},
	{"LENGTH", dimKeyPattern("LENGTH")},
	{"HEIGHT", dimKeyPattern("HEIGHT")},
	{"DEPTH", dimKeyPattern("DEPTH")},
	{"THICKNESS", dimKeyPattern("THICKNESS")},
}

// toMM converts a numeric string and optional unit to rounded
// millimeters. Comma decimal separators are tolerated; negatives and
// unknown units are rejected.
func toMM(value, unit string) *int {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	number, err := strconv.ParseFloat(value, 64)
	if err != nil || number < 0 {
		return nil
	}

	factor := 1.0
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "":
	case "mm", "millimeter", "millimeters", "millimetre", "millimetres":
	case "cm", "centimeter", "centimeters", "centimetre", "centimetres":
		factor = 10
	case "m", "meter", "meters", "metre", "metres":
		factor = 1000
	default:
		return nil
	}

	mm := int(math.Round(number * factor))
	return &mm
}

// parseNumberWithUnit extracts one millimeter value from text. Glued
// forms like "10MM" and numbers buried in longer strings are salvaged;
// a bare number is taken as millimeters.
func parseNumberWithUnit(text string) *int {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if m := gluedUnitRE.FindStringSubmatch(text); m != nil {
		return toMM(m[1], m[2])
	}
	if m := numberWithUnitRE.FindStringSubmatch(text); m != nil {
		return toMM(m[1], m[2])
	}
	if m := innerUnitRE.FindStringSubmatch(text); m != nil {
		return toMM(m[1], m[2])
	}
	if num := innerNumberRE.FindString(text); num != "" {
		return toMM(num, "")
	}
	return nil
}

// ParseDimensions extracts width/length/height in millimeters from
// free-form dimension text. Three passes, earlier passes win:
//
//  1. Explicit keys (WIDTH/LENGTH/HEIGHT/DEPTH/THICKNESS); DEPTH and
//     THICKNESS stand in for a missing HEIGHT.
//  2. Labeled blocks like "220 W X 2200 L MM"; fills missing axes only.
//  3. Unlabeled "A X B" with a required unit, taken as width and
//     length. An unlabeled block with a third number assigns nothing:
//     without axis labels the order is a guess.
func ParseDimensions(text string) Dimensions {
	var result Dimensions
	if strings.TrimSpace(text) == "" {
		return result
	}

	normalized := strings.ReplaceAll(text, "×", "X")

	explicit := make(map[string]*int)
	for _, p := range explicitDimPatterns {
		m := p.re.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		if mm := parseNumberWithUnit(m[1]); mm != nil {
			explicit[p.key] = mm
		}
	}
	result.Width = explicit["WIDTH"]
	result.Length = explicit["LENGTH"]
	switch {
	case explicit["HEIGHT"] != nil:
		result.Height = explicit["HEIGHT"]
	case explicit["DEPTH"] != nil:
		result.Height = explicit["DEPTH"]
	case explicit["THICKNESS"] != nil:
		result.Height = explicit["THICKNESS"]
	}

	if m := labeledDimsRE.FindStringSubmatch(normalized); m != nil {
		unit := m[7]
		setLabeled := func(num, label string) {
			mm := toMM(num, unit)
			if mm == nil {
				return
			}
			switch strings.ToUpper(label) {
			case "W":
				if result.Width == nil {
					result.Width = mm
				}
			case "L":
				if result.Length == nil {
					result.Length = mm
				}
			case "H", "D", "T":
				if result.Height == nil {
					result.Height = mm
				}
			}
		}
		setLabeled(m[1], m[2])
		setLabeled(m[3], m[4])
		if m[5] != "" && m[6] != "" {
			setLabeled(m[5], m[6])
		}
	}

	if result.Width == nil || result.Length == nil {
		if m := unlabeledDimsRE.FindStringSubmatch(normalized); m != nil && m[3] == "" {
			a, b := toMM(m[1], m[4]), toMM(m[2], m[4])
			if result.Width == nil {
				result.Width = a
			}
			if result.Length == nil {
				result.Length = b
			}
		}
	}

	return result
}

var (
	nonNumericPriceRE = regexp.MustCompile(`(?i)^\s*(?:tbc|tba|poa|n/?a|na|nil|-\s*)\s*$`)

	// Explicit currency marker like "$25+GST" or "$45.50 PER SQM".
	dollarAmountRE = regexp.MustCompile(`\$\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?|\d+(?:\.\d+)?)`)

	// Amount near a price context word when "$" is absent.
	contextAmountRE = regexp.MustCompile(`(?i)\b(?:rrp|price|cost|unit\s*cost|rate)\b[^\d$]{0,20}(\d{1,3}(?:,\d{3})*(?:\.\d+)?|\d+(?:\.\d+)?)`)
)

// ParsePrice extracts a unit price from messy schedule text. Placeholder
// tokens like TBC or POA give nil. Deliberately conservative for text
// with no currency or context marker, so dimensions and phone numbers
// are not mistaken for prices.
func ParsePrice(text string) *float64 {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil
	}
	if nonNumericPriceRE.MatchString(raw) {
		return nil
	}

	if value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64); err == nil {
		if value < 0 {
			return nil
		}
		return &value
	}

	m := dollarAmountRE.FindStringSubmatch(raw)
	if m == nil {
		m = contextAmountRE.FindStringSubmatch(raw)
	}
	if m == nil {
		return nil
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || value < 0 {
		return nil
	}
	return &value
}

var firstIntRE = regexp.MustCompile(`\d+`)

// ParseQty extracts the first integer in the text, discarding qualifier
// words ("2 + 2 spare" is 2, "12 No." is 12).
func ParseQty(text string) *int {
	m := firstIntRE.FindString(strings.TrimSpace(text))
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}
