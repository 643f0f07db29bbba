package schedule

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"schedex/domain/grid"
)

// MatchType records how a header was resolved to a canonical column.
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchPartial MatchType = "partial"
	MatchFuzzy   MatchType = "fuzzy"
	MatchNone    MatchType = "none"
)

// Headers are mapped across a wider window than detection scans: once a
// header row is trusted, even far-right columns are worth naming.
const defaultMapScanCols = 30

// fuzzyMatchThreshold is the minimum normalized edit similarity for a
// fuzzy header match. Below this, typos are indistinguishable from
// unrelated words.
const fuzzyMatchThreshold = 0.75

// A synonym needs at least this many characters to participate in
// partial matching, otherwise "w" and "l" would claim half the sheet.
const minPartialSynonymLen = 3

type synonymRef struct {
	text      string
	canonical string
	boundary  *regexp.Regexp
}

// ColumnMapper resolves each header cell of a detected header row to a
// canonical field name. Matching runs in three stages: exact lookup,
// partial (prefix or whole-word containment), then fuzzy edit-distance.
// The first registered synonym wins ties at every stage.
type ColumnMapper struct {
	vocab     *Vocabulary
	maxCols   int
	useFuzzy  bool
	threshold float64

	ordered  []synonymRef
	byLength []synonymRef
}

// NewColumnMapper returns a mapper with the default vocabulary, window
// and fuzzy matching enabled.
func NewColumnMapper() *ColumnMapper {
	return newColumnMapper(MapperVocabulary(), true)
}

func newColumnMapper(vocab *Vocabulary, useFuzzy bool) *ColumnMapper {
	m := &ColumnMapper{
		vocab:     vocab,
		maxCols:   defaultMapScanCols,
		useFuzzy:  useFuzzy,
		threshold: fuzzyMatchThreshold,
	}
	for _, e := range vocab.Entries() {
		for _, syn := range e.Synonyms {
			ref := synonymRef{text: syn, canonical: e.Canonical}
			if len(syn) >= minPartialSynonymLen {
				ref.boundary = regexp.MustCompile(`\b` + regexp.QuoteMeta(syn) + `\b`)
			}
			m.ordered = append(m.ordered, ref)
		}
	}
	m.byLength = make([]synonymRef, len(m.ordered))
	copy(m.byLength, m.ordered)
	sort.SliceStable(m.byLength, func(i, j int) bool {
		return len(m.byLength[i].text) > len(m.byLength[j].text)
	})
	return m
}

// MappingDetail describes how one header column was resolved. Used by
// parse reports to explain mapping decisions.
type MappingDetail struct {
	Column     int       `json:"column"`
	Original   string    `json:"original"`
	Normalized string    `json:"normalized"`
	Canonical  string    `json:"canonical"`
	Match      MatchType `json:"match_type"`
}

// MapColumns maps the header row to canonical column names. Only the
// first occurrence of each canonical is kept; unrecognized headers are
// simply absent from the result.
func (m *ColumnMapper) MapColumns(s *grid.Sheet, headerRow int) map[string]int {
	columns := make(map[string]int)

	limit := m.maxCols
	if mc := s.MaxCol(); mc < limit {
		limit = mc
	}

	for col := 1; col <= limit; col++ {
		c := s.Cell(headerRow, col)
		if c.IsEmpty() {
			continue
		}
		normalized := normalizeHeader(c.Display())
		if normalized == "" {
			continue
		}
		canonical, _ := m.matchColumn(normalized)
		if canonical == "" {
			continue
		}
		if _, seen := columns[canonical]; !seen {
			columns[canonical] = col
		}
	}
	return columns
}

// MappingDetails returns a per-column account of the mapping decision
// for every column in the scan window.
func (m *ColumnMapper) MappingDetails(s *grid.Sheet, headerRow int) []MappingDetail {
	limit := m.maxCols
	if mc := s.MaxCol(); mc < limit {
		limit = mc
	}

	details := make([]MappingDetail, 0, limit)
	for col := 1; col <= limit; col++ {
		c := s.Cell(headerRow, col)
		d := MappingDetail{Column: col, Match: MatchNone}
		if !c.IsEmpty() {
			d.Original = c.Display()
			d.Normalized = normalizeHeader(d.Original)
			if d.Normalized != "" {
				d.Canonical, d.Match = m.matchColumn(d.Normalized)
			}
		}
		details = append(details, d)
	}
	return details
}

func (m *ColumnMapper) matchColumn(normalized string) (string, MatchType) {
	if c, ok := m.vocab.Canonical(normalized); ok {
		return c, MatchExact
	}
	if c, ok := m.partialMatch(normalized); ok {
		return c, MatchPartial
	}
	if m.useFuzzy {
		if c, ok := m.fuzzyMatch(normalized); ok {
			return c, MatchFuzzy
		}
	}
	return "", MatchNone
}

// partialMatch tries longer synonyms first so "total cost" cannot be
// claimed by "cost". A synonym matches as a prefix ending on a word
// boundary, or as a whole word anywhere in the text.
func (m *ColumnMapper) partialMatch(text string) (string, bool) {
	for _, ref := range m.byLength {
		if len(ref.text) < minPartialSynonymLen {
			continue
		}
		if strings.HasPrefix(text, ref.text) && boundaryAfter(text, len(ref.text)) {
			return ref.canonical, true
		}
		if ref.boundary != nil && ref.boundary.MatchString(text) {
			return ref.canonical, true
		}
	}
	return "", false
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}

// fuzzyMatch compares the text against every synonym by normalized edit
// similarity and keeps the strictly best score in registration order.
func (m *ColumnMapper) fuzzyMatch(text string) (string, bool) {
	best := 0.0
	bestCanonical := ""
	for _, ref := range m.ordered {
		if sim := editSimilarity(text, ref.text); sim > best {
			best = sim
			bestCanonical = ref.canonical
		}
	}
	if best >= m.threshold {
		return bestCanonical, true
	}
	return "", false
}

// editSimilarity is 1 minus the Levenshtein distance normalized by the
// longer string's rune length.
func editSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
