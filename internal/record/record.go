// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record assembles decoder, segmenter, and inference outputs into
// one self-contained extraction record and persists it as JSON. A record
// is always built whole in memory first; a failed write never leaves a
// truncated file behind.
package record

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/papervisor/internal/infer"
	"github.com/pdiddy/papervisor/internal/segment"
	"github.com/pdiddy/papervisor/pkg/types"
)

// Filename returns the record file name for a paper identifier.
func Filename(paperID string) string {
	return fmt.Sprintf("paper_%s_extracted.json", paperID)
}

// Build assembles the extraction record for one document. textLength is
// the normalized text length in characters; totalPages comes from the
// decoder. The canonical sections map always carries all six keys.
func Build(doc types.Document, totalPages, textLength int, seg *segment.Result, meta infer.Metadata) *types.ExtractedRecord {
	sectionChars := seg.SectionChars()
	coverage := 0.0
	if textLength > 0 {
		coverage = math.Round(float64(sectionChars)/float64(textLength)*1000) / 10
	}

	warnings := append([]string(nil), seg.Warnings...)
	if len(meta.Gaps) > 0 {
		warnings = append(warnings, "metadata gaps: "+strings.Join(meta.Gaps, ", "))
	}

	return &types.ExtractedRecord{
		PaperID:            doc.ID,
		Title:              meta.Title,
		Authors:            meta.Authors,
		Year:               meta.Year,
		DOI:                meta.DOI,
		Source:             meta.Source,
		URL:                meta.URL,
		Sections:           seg.Canonical,
		AdditionalSections: seg.Additional,
		Metadata: types.ExtractionMetadata{
			PDFFile:          filepath.Base(doc.PDFPath),
			ExtractedAt:      time.Now().UTC(),
			TotalPages:       totalPages,
			TextLength:       textLength,
			SectionTextChars: sectionChars,
			SectionCoverage:  coverage,
			SectionsFound:    seg.Found,
			Method:           types.ExtractionMethod,
			Warnings:         warnings,
		},
	}
}

// Write persists the record under dir, replacing any previous record for
// the same paper wholesale. The JSON is written to a temporary file and
// renamed into place so readers never observe a partial record. It
// returns the record's base file name.
func Write(dir string, rec *types.ExtractedRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating records directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling record for %s: %w", rec.PaperID, err)
	}

	name := Filename(rec.PaperID)
	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("writing record for %s: %w", rec.PaperID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("replacing record for %s: %w", rec.PaperID, err)
	}
	return name, nil
}

// Read loads a persisted record. The index uses it when re-ingesting
// extraction output.
func Read(path string) (*types.ExtractedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", path, err)
	}
	var rec types.ExtractedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing record %s: %w", path, err)
	}
	return &rec, nil
}
