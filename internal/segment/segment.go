// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment partitions normalized paper text into canonical academic
// sections plus an open set of additional sections. Header recognition is
// data-driven: an ordered table maps section names to prioritized pattern
// sets, and one scanning routine consults it uniformly.
package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/papervisor/pkg/types"
)

// DefaultMinWords is the minimum content length, in words, for a matched
// section to count as found. Shorter matches are table-of-contents or
// running-header echoes, not real sections.
const DefaultMinWords = 10

// WarnNoCanonicalSections is the quality signal recorded when a document
// yields no canonical section at all. It is a warning, not an error.
const WarnNoCanonicalSections = "no canonical sections found"

// Result holds the segmentation of one document.
type Result struct {
	// Canonical always contains exactly the six fixed keys; an empty
	// value means the section was not found.
	Canonical map[types.SectionName]string

	// Additional holds non-canonical sections keyed by free-form names.
	Additional map[string]string

	// Found lists section names with content: canonical names in their
	// fixed order, then additional names in document order.
	Found []string

	// Warnings carries non-fatal quality signals.
	Warnings []string
}

// SectionChars returns the total characters captured inside sections.
func (r *Result) SectionChars() int {
	n := 0
	for _, c := range r.Canonical {
		n += len(c)
	}
	for _, c := range r.Additional {
		n += len(c)
	}
	return n
}

// entry is one row of the section table: a target name and its prioritized
// header patterns. Canonical rows come first so their patterns win over
// additional-section rows.
type entry struct {
	name      string
	canonical bool
	patterns  []*regexp.Regexp
}

// numbered prefixes ("3.", "3.1", "IV.") are accepted in front of every
// header phrase.
func headerPatterns(phrases ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(phrases))
	for i, p := range phrases {
		res[i] = regexp.MustCompile(`(?i)^(?:\d+(?:\.\d+)*\.?\s+|[IVX]+\.?\s+)?(?:` + p + `)\s*:?\s*$`)
	}
	return res
}

// sectionTable is the ordered header-matching policy. For a candidate
// header line, rows are consulted top to bottom and within a row patterns
// are tried in priority order; the first match claims the line.
var sectionTable = []entry{
	{string(types.SectionAbstract), true, headerPatterns(
		`abstract`,
		`(?:paper\s+)?summary`,
		`executive summary`,
	)},
	{string(types.SectionIntroduction), true, headerPatterns(
		`introduction`,
		`background`,
		`motivation`,
	)},
	{string(types.SectionMethods), true, headerPatterns(
		`methods?|methodology`,
		`materials? and methods?`,
		`experimental (?:setup|design)`,
		`approach|framework`,
		`problem (?:statement|definition)`,
		`(?:mathematical )?(?:model|formulation)`,
	)},
	{string(types.SectionResults), true, headerPatterns(
		`results?`,
		`results and discussion`,
		`experimental results?`,
		`findings?`,
		`evaluation`,
	)},
	{string(types.SectionDiscussion), true, headerPatterns(
		`discussion`,
		`analysis`,
		`(?:comparison|comparative analysis)`,
	)},
	{string(types.SectionConclusion), true, headerPatterns(
		`conclusions?`,
		`concluding remarks?`,
		`summary and conclusions?`,
		`final remarks?`,
	)},
	{"literature_review", false, headerPatterns(
		`literature review|related work`,
		`state of the art|prior work|previous work`,
	)},
	{"future_work", false, headerPatterns(
		`future (?:work|research|directions)`,
	)},
	{"experiments", false, headerPatterns(`experiments?`)},
	{"case_study", false, headerPatterns(`case stud(?:y|ies)`)},
	{"implementation", false, headerPatterns(`implementation`)},
	{"limitations", false, headerPatterns(`limitations?`)},
	{"acknowledgments", false, headerPatterns(`acknowledge?ments?`)},
	{"references", false, headerPatterns(`references?|bibliography`)},
}

// occurrence is one recognized header line in document order.
type occurrence struct {
	name      string
	canonical bool
	line      int
}

// Split partitions normalized text into sections. Content for a section
// runs from its header to the next recognized header of any kind, or end
// of text. Matches shorter than minWords words are discarded as false
// positives. The first sufficiently long occurrence of a name wins; later
// long occurrences are kept as additional sections under disambiguated
// keys. minWords <= 0 selects DefaultMinWords.
func Split(text string, minWords int) *Result {
	if minWords <= 0 {
		minWords = DefaultMinWords
	}

	result := &Result{
		Canonical:  make(map[types.SectionName]string, len(types.CanonicalSections())),
		Additional: make(map[string]string),
	}
	for _, name := range types.CanonicalSections() {
		result.Canonical[name] = ""
	}

	lines := strings.Split(text, "\n")
	occurrences := scanHeaders(lines)

	// Content between consecutive recognized headers, regardless of which
	// section each header belongs to.
	additionalOrder := []string{}
	seen := map[string]int{}
	for i, occ := range occurrences {
		end := len(lines)
		if i+1 < len(occurrences) {
			end = occurrences[i+1].line
		}
		content := cleanContent(strings.Join(lines[occ.line+1:end], "\n"))
		if len(strings.Fields(content)) < minWords {
			continue
		}

		seen[occ.name]++
		switch {
		case seen[occ.name] == 1 && occ.canonical:
			result.Canonical[types.SectionName(occ.name)] = content
		case seen[occ.name] == 1:
			result.Additional[occ.name] = content
			additionalOrder = append(additionalOrder, occ.name)
		default:
			// A later echo of an already-claimed header with enough
			// independent content of its own.
			key := fmt.Sprintf("%s_%d", occ.name, seen[occ.name])
			result.Additional[key] = content
			additionalOrder = append(additionalOrder, key)
		}
	}

	// Abstracts often precede the first recognizable header.
	if result.Canonical[types.SectionAbstract] == "" {
		if fallback := abstractFallback(lines); fallback != "" {
			result.Canonical[types.SectionAbstract] = fallback
		}
	}

	canonicalFound := false
	for _, name := range types.CanonicalSections() {
		if result.Canonical[name] != "" {
			result.Found = append(result.Found, string(name))
			canonicalFound = true
		}
	}
	result.Found = append(result.Found, additionalOrder...)

	if !canonicalFound {
		result.Warnings = append(result.Warnings, WarnNoCanonicalSections)
	}

	return result
}

// scanHeaders walks the lines once and returns recognized headers in
// document order. A line must first look like a header structurally; only
// then is the section table consulted.
func scanHeaders(lines []string) []occurrence {
	var occurrences []occurrence
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !isHeaderLine(trimmed) {
			continue
		}
		for _, row := range sectionTable {
			matched := false
			for _, re := range row.patterns {
				if re.MatchString(trimmed) {
					occurrences = append(occurrences, occurrence{
						name:      row.name,
						canonical: row.canonical,
						line:      i,
					})
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
	}
	return occurrences
}

var headerShapes = []*regexp.Regexp{
	regexp.MustCompile(`^\d+(?:\.\d+)*\.?\s+\S`),             // 1. Introduction, 3.2 Analysis
	regexp.MustCompile(`^[IVX]+\.?\s+\S`),                    // IV. Results
	regexp.MustCompile(`^[A-Z][A-Z \t]+$`),                   // RESULTS AND DISCUSSION
	regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Za-z][a-z]*)*$`), // Concluding Remarks
	regexp.MustCompile(`^\w+$`),                              // Abstract
}

// isHeaderLine applies structural cues only: short line, 1-8 words, a
// numbered/roman/caps/title-case shape, and no sentence punctuation at the
// end. Content matching against the section table happens separately.
func isHeaderLine(line string) bool {
	if len(line) < 3 || len(line) > 150 {
		return false
	}
	words := len(strings.Fields(line))
	if words < 1 || words > 8 {
		return false
	}
	if strings.HasSuffix(line, ",") || strings.HasSuffix(line, ";") ||
		strings.HasSuffix(line, "!") || strings.HasSuffix(line, "?") {
		return false
	}
	line = strings.TrimSuffix(line, ":")
	for _, re := range headerShapes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// abstractFallback looks for an abstract-shaped paragraph near the start
// of the document when no abstract header was recognized: a long opening
// line followed by its paragraph, totalling 50-500 words.
func abstractFallback(lines []string) string {
	limit := len(lines)
	if limit > 200 {
		limit = 200
	}

	for i := 0; i < limit; i++ {
		line := strings.TrimSpace(lines[i])
		lower := strings.ToLower(line)

		if len(line) < 100 || len(strings.Fields(line)) <= 15 {
			continue
		}
		if hasAnyPrefix(lower, "figure", "table", "section", "chapter",
			"keywords", "doi:", "published", "copyright", "author", "correspondence") {
			continue
		}

		paragraph := []string{line}
		for j := i + 1; j < len(lines) && j < i+20; j++ {
			next := strings.TrimSpace(lines[j])
			if len(next) < 10 {
				break
			}
			if hasAnyPrefix(strings.ToLower(next), "keywords", "introduction", "1.", "doi:") {
				break
			}
			paragraph = append(paragraph, next)
		}

		candidate := strings.Join(paragraph, " ")
		if n := len(strings.Fields(candidate)); n >= 50 && n <= 500 {
			return candidate
		}
	}
	return ""
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
