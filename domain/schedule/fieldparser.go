package schedule

import (
	"regexp"
	"strings"
)

// keyAliases maps uppercase spec keys to canonical names. Keys absent
// from the table pass through unchanged.
var keyAliases = map[string]string{
	"PRODUCT": "PRODUCT",
	"NAME":    "NAME",
	"ITEM":    "ITEM",
	"RANGE":   "RANGE",

	"COLOR":       "COLOUR",
	"COLOUR":      "COLOUR",
	"COIR COLOUR": "COLOUR",
	"COIR COLOR":  "COLOUR",

	"FINISH":         "FINISH",
	"SURFACE":        "FINISH",
	"SURFACE FINISH": "FINISH",

	"MATERIAL":    "MATERIAL",
	"COMPOSITION": "MATERIAL",
	"SPECIES":     "MATERIAL",

	"WIDTH":     "WIDTH",
	"W":         "WIDTH",
	"WIDE":      "WIDTH",
	"LENGTH":    "LENGTH",
	"L":         "LENGTH",
	"LEN":       "LENGTH",
	"LONG":      "LENGTH",
	"DEPTH":     "DEPTH",
	"D":         "DEPTH",
	"HEIGHT":    "HEIGHT",
	"H":         "HEIGHT",
	"HT":        "HEIGHT",
	"THICKNESS": "THICKNESS",
	"THK":       "THICKNESS",

	"SIZE":           "SIZE",
	"DIMENSIONS":     "SIZE",
	"DIMS":           "SIZE",
	"DIM":            "SIZE",
	"SHEET SIZE":     "SIZE",
	"SHEET SIZE MAX": "SIZE",

	"MAKER":        "MAKER",
	"BRAND":        "BRAND",
	"MANUFACTURER": "MANUFACTURER",
	"SUPPLIER":     "SUPPLIER",

	"CODE":         "CODE",
	"REF":          "CODE",
	"REFERENCE":    "CODE",
	"PRODUCT CODE": "CODE",
	"ITEM CODE":    "CODE",
	"SKU":          "CODE",

	"STYLE":     "STYLE",
	"LEAD TIME": "LEAD_TIME",
	"LEADTIME":  "LEAD_TIME",
	"NOTES":     "NOTES",
	"NOTE":      "NOTES",
	"COMMENTS":  "NOTES",
	"COMMENT":   "NOTES",

	"CARPET THICKNESS": "CARPET_THICKNESS",
	"PILE HEIGHT":      "PILE_HEIGHT",
	"PILE WEIGHT":      "PILE_WEIGHT",
	"INSTALLATION":     "INSTALLATION",

	"QTY":      "QTY",
	"QUANTITY": "QTY",
}

// kvPatterns are tried in order; the more specific separators come
// first so "FINISH - MATT" is not consumed by the equals pattern.
var kvPatterns = []*regexp.Regexp{
	// KEY: VALUE
	regexp.MustCompile(`(?i)^([A-Z][A-Z0-9\s/&\-]*?)\s*:\s*(.+)$`),
	// KEY - VALUE
	regexp.MustCompile(`(?i)^([A-Z][A-Z0-9\s/&]*?)\s+-\s+(.+)$`),
	// KEY- VALUE
	regexp.MustCompile(`(?i)^([A-Z][A-Z0-9\s/&]*?)-\s+(.+)$`),
	// KEY = VALUE
	regexp.MustCompile(`(?i)^([A-Z][A-Z0-9\s/&\-]*?)\s*=\s*(.+)$`),
}

// A matched key longer than this is treated as prose, not a field key.
const maxKVKeyLen = 30

// NormalizeKey uppercases a spec key and resolves aliases, so COLOR and
// COIR COLOUR both land on COLOUR.
func NormalizeKey(key string) string {
	if key == "" {
		return ""
	}
	normalized := strings.ToUpper(strings.TrimSpace(key))
	if canonical, ok := keyAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// parseLine matches one line against the KV patterns. Keys that are too
// long or start with a digit are prose or measurements, not keys; the
// next pattern gets a chance.
func parseLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", false
	}
	for _, pattern := range kvPatterns {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rawKey := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])
		if len(rawKey) > maxKVKeyLen {
			continue
		}
		if rawKey != "" && rawKey[0] >= '0' && rawKey[0] <= '9' {
			continue
		}
		return NormalizeKey(rawKey), value, true
	}
	return "", "", false
}

// KVBlock holds parsed KEY: VALUE pairs in first-seen order. The first
// occurrence of a key wins; later repeats are dropped.
type KVBlock struct {
	keys   []string
	values map[string]string
}

func newKVBlock() *KVBlock {
	return &KVBlock{values: make(map[string]string)}
}

func (b *KVBlock) set(key, value string) {
	if _, ok := b.values[key]; ok {
		return
	}
	b.keys = append(b.keys, key)
	b.values[key] = value
}

// Len returns the number of distinct keys.
func (b *KVBlock) Len() int { return len(b.keys) }

// Keys returns the keys in first-seen order.
func (b *KVBlock) Keys() []string { return b.keys }

// Get looks up a key, normalizing it first.
func (b *KVBlock) Get(key string) (string, bool) {
	v, ok := b.values[NormalizeKey(key)]
	return v, ok
}

// First returns the value of the first present key, trying each in
// order.
func (b *KVBlock) First(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := b.values[NormalizeKey(k)]; ok {
			return v, true
		}
	}
	return "", false
}

// FormatDetails renders the block as "KEY: VALUE | KEY: VALUE" in key
// order, skipping excluded keys. Returns "" when nothing remains.
func (b *KVBlock) FormatDetails(exclude map[string]bool) string {
	var parts []string
	for _, k := range b.keys {
		if exclude[k] {
			continue
		}
		parts = append(parts, k+": "+b.values[k])
	}
	return strings.Join(parts, " | ")
}

// ParseKVBlock parses a multi-line text block of KEY: VALUE pairs.
// Non-matching lines are skipped.
func ParseKVBlock(text string) *KVBlock {
	b := newKVBlock()
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := parseLine(line)
		if ok && key != "" && value != "" {
			b.set(key, value)
		}
	}
	return b
}

// ParseKVMultiValue parses like ParseKVBlock but collects every value
// seen for a repeated key.
func ParseKVMultiValue(text string) map[string][]string {
	result := make(map[string][]string)
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := parseLine(line)
		if ok && key != "" && value != "" {
			result[key] = append(result[key], value)
		}
	}
	return result
}

// ExtractNonKVLines returns the non-empty lines that match no KV
// pattern. These carry free-form description text.
func ExtractNonKVLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, _, ok := parseLine(line); !ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// MergeKV merges blocks keeping the first occurrence of each key, in
// argument then key order.
func MergeKV(blocks ...*KVBlock) *KVBlock {
	merged := newKVBlock()
	for _, b := range blocks {
		if b == nil {
			continue
		}
		for _, k := range b.keys {
			merged.set(k, b.values[k])
		}
	}
	return merged
}

// HasKVContent reports whether text contains at least one KV pair.
func HasKVContent(text string) bool {
	return ParseKVBlock(text).Len() > 0
}
