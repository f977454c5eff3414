// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package infer derives bibliographic metadata for a paper from its text,
// preferring side-channel values when present. Fields that cannot be
// determined confidently are left absent, never guessed.
package infer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/papervisor/pkg/types"
)

// Metadata is the inference result. Zero values mean the field could not
// be determined; Gaps names those fields.
type Metadata struct {
	Title   string
	Authors []string
	Year    int
	DOI     string
	Source  string
	URL     string
	Gaps    []string
}

// headerRegion bounds how far into the text year and DOI inference looks.
// Both live near the document header or a copyright line, and scanning the
// whole body invites false positives from references.
const headerRegion = 2000

var (
	reYear = regexp.MustCompile(`(?:19|20)\d{2}`)
	reDOI  = regexp.MustCompile(`(?i)(?:doi:?\s*|https?://(?:dx\.)?doi\.org/)?(10\.\d{4,}/\S+)`)

	venuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:published in|proceedings of|journal of|conference on)\s+([^\n]+)`),
		regexp.MustCompile(`([A-Z][a-z]+ (?:Journal|Conference|Proceedings|Review))[^\n]*`),
		regexp.MustCompile(`(IEEE [^,\n]+)`),
		regexp.MustCompile(`(ACM [^,\n]+)`),
	}
)

// Paper infers metadata from normalized text and an optional side-channel
// record. Priority per field: a non-empty side-channel value wins; text
// inference is the fallback. pdfPath is the last-resort canonical URL.
func Paper(text string, bib *types.BibRecord, pdfPath string) Metadata {
	var m Metadata

	if bib != nil && strings.TrimSpace(bib.Title) != "" {
		m.Title = strings.TrimSpace(bib.Title)
	} else {
		m.Title = titleFromText(text)
	}

	if bib != nil && strings.TrimSpace(bib.Authors) != "" {
		m.Authors = ParseAuthors(bib.Authors)
	} else {
		m.Authors = authorsFromText(text)
	}

	if bib != nil {
		m.Year = yearToken(bib.Year)
	}
	if m.Year == 0 {
		m.Year = yearFromText(text)
	}

	if bib != nil && strings.TrimSpace(bib.DOI) != "" {
		m.DOI = NormalizeDOI(bib.DOI)
	}
	if m.DOI == "" {
		m.DOI = doiFromText(text)
	}

	if bib != nil && strings.TrimSpace(bib.Source) != "" {
		m.Source = strings.TrimSpace(bib.Source)
	} else {
		m.Source = sourceFromText(text)
	}

	// Canonical URL priority: DOI resolver, explicit article page, local
	// PDF reference.
	switch {
	case m.DOI != "":
		m.URL = "https://doi.org/" + m.DOI
	case bib != nil && strings.TrimSpace(bib.ArticleURL) != "":
		m.URL = strings.TrimSpace(bib.ArticleURL)
	default:
		m.URL = pdfPath
	}

	for _, gap := range []struct {
		name   string
		absent bool
	}{
		{"title", m.Title == ""},
		{"authors", len(m.Authors) == 0},
		{"year", m.Year == 0},
		{"doi", m.DOI == ""},
		{"source", m.Source == ""},
	} {
		if gap.absent {
			m.Gaps = append(m.Gaps, gap.name)
		}
	}

	return m
}

// titleFromText returns the first meaningful line: long enough, not a page
// artifact, not an all-caps running header.
func titleFromText(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) > 10 && line != strings.ToUpper(line) && !isNumeric(line) {
			return line
		}
	}
	return ""
}

// authorsFromText applies the author-line heuristic: a short line shortly
// after the title block holding capitalized name-like tokens.
func authorsFromText(text string) []string {
	lines := strings.Split(text, "\n")
	titleAt := -1
	for i, line := range lines {
		if i >= 10 {
			break
		}
		line = strings.TrimSpace(line)
		if len(line) > 10 && line != strings.ToUpper(line) && !isNumeric(line) {
			titleAt = i
			break
		}
	}
	if titleAt < 0 {
		return nil
	}

	checked := 0
	for i := titleAt + 1; i < len(lines) && checked < 5; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		checked++
		if len(line) > 150 || !looksLikeAuthorLine(line) {
			continue
		}
		authors := ParseAuthors(line)
		if len(authors) >= 1 && len(authors) <= 15 {
			return authors
		}
	}
	return nil
}

var reNameToken = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

// looksLikeAuthorLine requires at least two capitalized name tokens and no
// sentence-length prose.
func looksLikeAuthorLine(line string) bool {
	if strings.ContainsAny(line, "@0123456789") {
		return false
	}
	if len(strings.Fields(line)) > 20 {
		return false
	}
	return len(reNameToken.FindAllString(line, -1)) >= 2
}

var reParenthetical = regexp.MustCompile(`\([^)]*\)`)

// ParseAuthors splits a raw author string on the common separators,
// strips parenthesized affiliations, and de-duplicates exact repeats
// while preserving order.
func ParseAuthors(raw string) []string {
	parts := []string{raw}
	for _, sep := range []string{";", ",", " and ", " & ", "\n"} {
		var next []string
		for _, p := range parts {
			for _, piece := range strings.Split(p, sep) {
				if piece = strings.TrimSpace(piece); piece != "" {
					next = append(next, piece)
				}
			}
		}
		parts = next
	}

	var authors []string
	seen := make(map[string]bool)
	for _, p := range parts {
		p = strings.TrimSpace(reParenthetical.ReplaceAllString(p, ""))
		p = reSpaceRun.ReplaceAllString(p, " ")
		if len(p) < 2 || seen[p] {
			continue
		}
		seen[p] = true
		authors = append(authors, p)
	}
	return authors
}

var reSpaceRun = regexp.MustCompile(`\s+`)

// yearToken extracts a plausible 4-digit year from a raw value like
// "2019" or "2019.0".
func yearToken(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if loc := reYear.FindStringIndex(raw); loc != nil {
		if y := validYear(raw[loc[0]:loc[1]]); y != 0 {
			return y
		}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return validYear(strconv.Itoa(int(f)))
	}
	return 0
}

// yearFromText finds the first plausible year token near the document
// header, skipping tokens embedded in larger numbers such as page ranges,
// ISSNs, and DOIs.
func yearFromText(text string) int {
	region := text
	if len(region) > headerRegion {
		region = region[:headerRegion]
	}
	for _, loc := range reYear.FindAllStringIndex(region, -1) {
		if embeddedInNumber(region, loc[0], loc[1]) {
			continue
		}
		if y := validYear(region[loc[0]:loc[1]]); y != 0 {
			return y
		}
	}
	return 0
}

func validYear(s string) int {
	y, err := strconv.Atoi(s)
	if err != nil || y < 1900 || y > time.Now().Year() {
		return 0
	}
	return y
}

// embeddedInNumber reports whether the token at [start,end) is part of a
// longer numeric run: digits touch it directly, or a separator character
// connects it to more digits ("1998-2004", "10.1234/ex.2024.001").
func embeddedInNumber(s string, start, end int) bool {
	isDigit := func(b byte) bool { return b >= '0' && b <= '9' }
	isSep := func(b byte) bool { return b == '-' || b == '/' || b == '.' }

	if start > 0 {
		b := s[start-1]
		if isDigit(b) || (isSep(b) && start > 1 && isDigit(s[start-2])) {
			return true
		}
	}
	if end < len(s) {
		b := s[end]
		if isDigit(b) || (isSep(b) && end+1 < len(s) && isDigit(s[end+1])) {
			return true
		}
	}
	return false
}

// doiFromText matches the standard DOI prefix pattern anywhere in the text
// and returns the normalized bare DOI.
func doiFromText(text string) string {
	m := reDOI.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return NormalizeDOI(m[1])
}

// doiPrefixes are stripped case-insensitively when normalizing.
var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi.org/",
	"doi:",
}

// NormalizeDOI strips resolver prefixes and surrounding punctuation,
// yielding the bare DOI.
func NormalizeDOI(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	for _, prefix := range doiPrefixes {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".,;)")
	return s
}

// sourceFromText extracts a journal or conference name from common venue
// phrasings.
func sourceFromText(text string) string {
	for _, re := range venuePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
