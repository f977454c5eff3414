// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/papervisor/pkg/types"
)

// ExportPaper is one paper's summary row in the export file.
type ExportPaper struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Authors     []string `yaml:"authors,omitempty"`
	Year        int      `yaml:"year,omitempty"`
	DOI         string   `yaml:"doi,omitempty"`
	Source      string   `yaml:"source,omitempty"`
	URL         string   `yaml:"url,omitempty"`
	Sections    []string `yaml:"sections,omitempty"`
	ExtractedAt string   `yaml:"extracted_at,omitempty"`
}

// exportFile is the export.yaml document shape.
type exportFile struct {
	GeneratedAt string        `yaml:"generated_at"`
	Papers      []ExportPaper `yaml:"papers"`
}

// Export writes a human-reviewable summary of every indexed paper to
// <index>/export.yaml, replacing the previous export.
func (s *Store) Export(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, year, doi, source, url, extracted_at
		 FROM papers ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []ExportPaper
	for rows.Next() {
		var p ExportPaper
		var authorsJSON string
		var year sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Title, &authorsJSON, &year, &p.DOI, &p.Source, &p.URL, &p.ExtractedAt); err != nil {
			return fmt.Errorf("scanning paper: %w", err)
		}
		p.Year = int(year.Int64)
		json.Unmarshal([]byte(authorsJSON), &p.Authors)
		papers = append(papers, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range papers {
		sections, err := s.paperSections(ctx, papers[i].ID)
		if err != nil {
			return err
		}
		papers[i].Sections = sections
	}

	doc := exportFile{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Papers:      papers,
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}
	return os.WriteFile(filepath.Join(s.indexDir, types.IndexExport), data, 0o644)
}

func (s *Store) paperSections(ctx context.Context, paperID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sections WHERE paper_id = ? ORDER BY rowid`, paperID)
	if err != nil {
		return nil, fmt.Errorf("querying sections for %s: %w", paperID, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
