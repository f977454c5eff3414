// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library reads the consolidated bibliography CSV that the import
// collaborator writes into a project (a Publish or Perish style export).
// It is the pipeline's document store: it pairs each paper identifier with
// its downloaded PDF and side-channel bibliographic record.
package library

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/papervisor/pkg/types"
)

// columnAliases maps canonical field names to the header spellings seen in
// exports: raw tool headers and already-normalized ones.
var columnAliases = map[string][]string{
	"paper_id":        {"paper_id", "id"},
	"title":           {"title"},
	"authors":         {"authors"},
	"year":            {"year"},
	"source":          {"source"},
	"publisher":       {"publisher"},
	"doi":             {"doi"},
	"article_url":     {"article_url", "articleurl"},
	"citations":       {"citations", "cites"},
	"downloaded_file": {"downloaded_file"},
	"download_source": {"download_source"},
}

// Load parses the CSV at path into ordered side-channel records. Rows
// without an explicit paper_id column get their 1-based row number as
// identifier, matching how the import stage numbers papers.
func Load(path string) ([]types.BibRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening library CSV %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing library CSV %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := mapColumns(rows[0])
	records := make([]types.BibRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		get := func(field string) string {
			idx, ok := cols[field]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		rec := types.BibRecord{
			PaperID:        get("paper_id"),
			Title:          get("title"),
			Authors:        get("authors"),
			Year:           get("year"),
			Source:         get("source"),
			Publisher:      get("publisher"),
			DOI:            get("doi"),
			ArticleURL:     get("article_url"),
			DownloadedFile: get("downloaded_file"),
			DownloadSource: get("download_source"),
		}
		if rec.PaperID == "" {
			rec.PaperID = strconv.Itoa(i + 1)
		}
		if n, err := strconv.Atoi(get("citations")); err == nil {
			rec.Citations = n
		}
		records = append(records, rec)
	}
	return records, nil
}

// mapColumns resolves the header row to canonical field indices,
// case-insensitively.
func mapColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for field, aliases := range columnAliases {
			if _, taken := cols[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if h == alias {
					cols[field] = i
					break
				}
			}
		}
	}
	return cols
}

// Documents returns the processable documents for a project: every library
// row with a downloaded PDF file name. PDFs live under
// pdfs/<download_source>/ with "automatic" as the default source
// directory. Rows without a downloaded file are not documents yet and are
// skipped; a listed file missing on disk surfaces later as that paper's
// decode failure, not as an enumeration error.
func Documents(cfg types.ExtractionConfig) ([]types.Document, error) {
	records, err := Load(cfg.CSVPath())
	if err != nil {
		return nil, err
	}

	var docs []types.Document
	for i := range records {
		rec := &records[i]
		if rec.DownloadedFile == "" {
			continue
		}
		source := rec.DownloadSource
		if source == "" {
			source = "automatic"
		}
		pdfPath := filepath.Join(cfg.PDFRoot(), source, rec.DownloadedFile)
		docs = append(docs, types.Document{
			ID:      rec.PaperID,
			PDFPath: pdfPath,
			Bib:     rec,
		})
	}
	return docs, nil
}
