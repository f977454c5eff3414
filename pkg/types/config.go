// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "path/filepath"

// Project layout subpaths, relative to the project directory. The layout
// mirrors what the acquisition and import collaborators produce: raw PDFs
// under pdfs/<source>/, the consolidated bibliography CSV under pdfs/, and
// extraction output under pdfs/extracted_texts/.
const (
	PDFDir        = "pdfs"
	RecordsDir    = "extracted_texts"
	IndexDir      = "index"
	LibraryCSV    = "consolidated_papers.csv"
	LedgerFile    = "extraction_status.json"
	IndexExport   = "export.yaml"
	IndexDatabase = "papervisor.db"
)

// ExtractionConfig holds settings for the extraction pipeline.
type ExtractionConfig struct {
	// ProjectDir is the literature review project directory (contains
	// pdfs/ and extraction_status.json).
	ProjectDir string `json:"project_dir" yaml:"project_dir"`

	// LibraryPath overrides the default consolidated CSV location.
	LibraryPath string `json:"library_path,omitempty" yaml:"library_path,omitempty"`

	// MinSectionWords is the minimum word count for matched section
	// content; shorter matches are discarded as false positives
	// (default 10).
	MinSectionWords int `json:"min_section_words" yaml:"min_section_words"`

	// Workers bounds in-flight document processing within a batch
	// (default 1, i.e. sequential).
	Workers int `json:"workers" yaml:"workers"`
}

// PDFRoot returns the directory holding downloaded PDFs and the CSV.
func (c ExtractionConfig) PDFRoot() string {
	return filepath.Join(c.ProjectDir, PDFDir)
}

// RecordsRoot returns the directory where record JSON files are written.
func (c ExtractionConfig) RecordsRoot() string {
	return filepath.Join(c.ProjectDir, PDFDir, RecordsDir)
}

// LedgerPath returns the status ledger file location.
func (c ExtractionConfig) LedgerPath() string {
	return filepath.Join(c.ProjectDir, LedgerFile)
}

// CSVPath returns the consolidated bibliography CSV location.
func (c ExtractionConfig) CSVPath() string {
	if c.LibraryPath != "" {
		return c.LibraryPath
	}
	return filepath.Join(c.ProjectDir, PDFDir, LibraryCSV)
}

// IndexConfig holds settings for the record index.
type IndexConfig struct {
	// ProjectDir is the literature review project directory.
	ProjectDir string `json:"project_dir" yaml:"project_dir"`

	// MaxResults is the default maximum number of search results
	// (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// IndexRoot returns the directory holding the SQLite database and export.
func (c IndexConfig) IndexRoot() string {
	return filepath.Join(c.ProjectDir, IndexDir)
}
