// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"regexp"
	"strings"
)

// Text extracted from PDFs arrives with page furniture and line-break
// artifacts that confuse header detection. Normalize strips the furniture
// while keeping paragraph boundaries, which the segmenter uses as its
// substrate.
var (
	// reHyphenBreak rejoins words hyphenated across a line break.
	reHyphenBreak = regexp.MustCompile(`(\w)-[ \t]*\n[ \t]*(\w)`)

	// rePageNumber matches lines holding nothing but a page number.
	rePageNumber = regexp.MustCompile(`(?m)^[ \t]*\d+[ \t]*$`)

	// reRunningHeader matches long all-caps lines, the usual shape of a
	// running header or footer repeated on every page.
	reRunningHeader = regexp.MustCompile(`(?m)^[A-Z][A-Z \t]{9,}$`)

	// reMissingSpace reinserts a space the extractor dropped between a
	// lowercase letter and an uppercase one.
	reMissingSpace = regexp.MustCompile(`([a-z])([A-Z])`)

	// reSpaceRun collapses runs of spaces and tabs.
	reSpaceRun = regexp.MustCompile(`[ \t]+`)

	// reBlankRun collapses three or more newlines into one paragraph break.
	reBlankRun = regexp.MustCompile(`\n[ \t]*\n([ \t]*\n)+`)
)

// Normalize cleans raw decoder output for segmentation: hyphenated
// line-break words are rejoined, page-number tokens and running
// headers/footers are stripped, missing inter-word spaces are restored,
// and whitespace is collapsed with paragraph breaks preserved.
func Normalize(text string) string {
	text = reHyphenBreak.ReplaceAllString(text, "$1$2")
	text = rePageNumber.ReplaceAllString(text, "")
	text = reRunningHeader.ReplaceAllString(text, "")
	text = reMissingSpace.ReplaceAllString(text, "$1 $2")
	text = reSpaceRun.ReplaceAllString(text, " ")
	text = reBlankRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// cleanContent tidies a sliced section body: page artifacts that survived
// normalization are dropped and whitespace runs collapsed.
func cleanContent(content string) string {
	content = rePageNumber.ReplaceAllString(content, "")
	content = reRunningHeader.ReplaceAllString(content, "")
	content = reSpaceRun.ReplaceAllString(content, " ")
	content = reBlankRun.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
