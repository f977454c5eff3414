// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SectionName identifies one of the canonical academic paper sections.
type SectionName string

const (
	SectionAbstract     SectionName = "abstract"
	SectionIntroduction SectionName = "introduction"
	SectionMethods      SectionName = "methods"
	SectionResults      SectionName = "results"
	SectionDiscussion   SectionName = "discussion"
	SectionConclusion   SectionName = "conclusion"
)

// CanonicalSections lists the fixed section set in document order. Every
// ExtractedRecord carries exactly these keys in its Sections map, populated
// or empty.
func CanonicalSections() []SectionName {
	return []SectionName{
		SectionAbstract,
		SectionIntroduction,
		SectionMethods,
		SectionResults,
		SectionDiscussion,
		SectionConclusion,
	}
}

// ExtractionMethod tags records with the decoder and parser in use so
// downstream tools can tell extraction generations apart.
const ExtractionMethod = "ledongthuc-pdf/academic-parser-v1"

// ExtractionMetadata holds technical metadata embedded in each record.
type ExtractionMetadata struct {
	// PDFFile is the base name of the source PDF.
	PDFFile string `json:"pdf_file" yaml:"pdf_file"`

	// ExtractedAt is the record creation timestamp (UTC).
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`

	// TotalPages is the page count reported by the decoder.
	TotalPages int `json:"total_pages" yaml:"total_pages"`

	// TextLength is the length in characters of the normalized text.
	TextLength int `json:"text_length" yaml:"text_length"`

	// SectionTextChars is the character count captured inside sections.
	SectionTextChars int `json:"section_text_chars" yaml:"section_text_chars"`

	// SectionCoverage is SectionTextChars as a percentage of TextLength,
	// rounded to one decimal place.
	SectionCoverage float64 `json:"section_extraction_percentage" yaml:"section_extraction_percentage"`

	// SectionsFound lists every section name with captured content,
	// canonical names first in document order.
	SectionsFound []string `json:"sections_found" yaml:"sections_found"`

	// Method is the extraction method tag (ExtractionMethod).
	Method string `json:"extraction_method" yaml:"extraction_method"`

	// Warnings carries non-fatal quality signals, e.g. a segmentation
	// pass that found no canonical sections.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ExtractedRecord is the structured output for one paper. It is built whole
// in memory and persisted as a single JSON file; a re-extraction replaces
// the previous record entirely.
type ExtractedRecord struct {
	// PaperID is the stable identifier shared across pipeline stages.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Title is the paper title, side-channel value preferred.
	Title string `json:"title" yaml:"title"`

	// Authors lists individual author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year, or 0 when it could not be determined.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// DOI is the bare DOI without resolver prefix, empty when unknown.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Source is the journal or conference name, empty when unknown.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// URL is the canonical link for the paper: DOI resolver first, then
	// article page, then the local PDF path.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Sections maps every canonical section name to its content. All six
	// keys are always present; an empty string means not found.
	Sections map[SectionName]string `json:"sections" yaml:"sections"`

	// AdditionalSections holds non-canonical sections keyed by free-form
	// names (e.g. "literature_review", "acknowledgments").
	AdditionalSections map[string]string `json:"additional_sections" yaml:"additional_sections"`

	// Metadata is the embedded extraction metadata.
	Metadata ExtractionMetadata `json:"extraction_metadata" yaml:"extraction_metadata"`
}

// BibRecord is a side-channel bibliographic record for a paper, sourced
// outside the PDF (an imported search-result row). Fields hold the raw
// exported values; parsing and normalization happen at inference time.
type BibRecord struct {
	PaperID        string `json:"paper_id" yaml:"paper_id"`
	Title          string `json:"title" yaml:"title"`
	Authors        string `json:"authors" yaml:"authors"`
	Year           string `json:"year" yaml:"year"`
	Source         string `json:"source,omitempty" yaml:"source,omitempty"`
	Publisher      string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	DOI            string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ArticleURL     string `json:"article_url,omitempty" yaml:"article_url,omitempty"`
	Citations      int    `json:"citations,omitempty" yaml:"citations,omitempty"`
	DownloadedFile string `json:"downloaded_file,omitempty" yaml:"downloaded_file,omitempty"`
	DownloadSource string `json:"download_source,omitempty" yaml:"download_source,omitempty"`
}

// Document pairs a paper identifier with its source PDF and optional
// side-channel record. The document store (library CSV + pdfs directory)
// produces these; the batch runner consumes them.
type Document struct {
	ID      string
	PDFPath string
	Bib     *BibRecord
}
