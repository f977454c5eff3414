package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/papervisor/pkg/types"
)

func writeCSV(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMapsExportHeaders(t *testing.T) {
	// Raw Publish or Perish style headers, no paper_id column.
	path := filepath.Join(t.TempDir(), "consolidated_papers.csv")
	writeCSV(t, path, `Cites,Authors,Title,Year,Source,Publisher,ArticleURL,DOI
12,"John Smith; Jane Doe",Adaptive Scheduling,2020,Journal of Systems,ACM,https://example.org/p1,10.1234/x
3,Bob Lee,Streaming Workloads,2021,,,https://example.org/p2,
`)

	records, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("loaded %d records, want 2", len(records))
	}

	first := records[0]
	if first.PaperID != "1" {
		t.Errorf("paper id = %q, want row number fallback", first.PaperID)
	}
	if first.Title != "Adaptive Scheduling" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Authors != "John Smith; Jane Doe" {
		t.Errorf("authors = %q", first.Authors)
	}
	if first.Year != "2020" {
		t.Errorf("year = %q", first.Year)
	}
	if first.Citations != 12 {
		t.Errorf("citations = %d", first.Citations)
	}
	if first.ArticleURL != "https://example.org/p1" {
		t.Errorf("article url = %q", first.ArticleURL)
	}
	if first.DOI != "10.1234/x" {
		t.Errorf("doi = %q", first.DOI)
	}

	if records[1].PaperID != "2" {
		t.Errorf("second paper id = %q", records[1].PaperID)
	}
	if records[1].Citations != 3 {
		t.Errorf("second citations = %d", records[1].Citations)
	}
}

func TestLoadExplicitPaperID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consolidated_papers.csv")
	writeCSV(t, path, `paper_id,title,downloaded_file,download_source
17,Adaptive Scheduling,paper_17.pdf,manual
`)

	records, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("loaded %d records, want 1", len(records))
	}
	if records[0].PaperID != "17" {
		t.Errorf("paper id = %q, want 17", records[0].PaperID)
	}
	if records[0].DownloadedFile != "paper_17.pdf" {
		t.Errorf("downloaded file = %q", records[0].DownloadedFile)
	}
	if records[0].DownloadSource != "manual" {
		t.Errorf("download source = %q", records[0].DownloadSource)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing CSV")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consolidated_papers.csv")
	writeCSV(t, path, "")

	records, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("loaded %d records from empty file", len(records))
	}
}

func TestDocumentsPairsPDFPaths(t *testing.T) {
	cfg := types.ExtractionConfig{ProjectDir: t.TempDir()}
	writeCSV(t, cfg.CSVPath(), `paper_id,title,downloaded_file,download_source
1,First Paper,paper_1.pdf,manual
2,No Download Yet,,
3,Default Source,paper_3.pdf,
`)

	docs, err := Documents(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}

	if docs[0].ID != "1" {
		t.Errorf("first doc id = %q", docs[0].ID)
	}
	if want := filepath.Join(cfg.PDFRoot(), "manual", "paper_1.pdf"); docs[0].PDFPath != want {
		t.Errorf("first doc path = %q, want %q", docs[0].PDFPath, want)
	}
	if docs[0].Bib == nil || docs[0].Bib.Title != "First Paper" {
		t.Errorf("first doc bib = %+v", docs[0].Bib)
	}

	// Rows without an explicit source fall under the automatic directory.
	if want := filepath.Join(cfg.PDFRoot(), "automatic", "paper_3.pdf"); docs[1].PDFPath != want {
		t.Errorf("second doc path = %q, want %q", docs[1].PDFPath, want)
	}
}

func TestDocumentsHonorsLibraryOverride(t *testing.T) {
	cfg := types.ExtractionConfig{
		ProjectDir:  t.TempDir(),
		LibraryPath: filepath.Join(t.TempDir(), "elsewhere.csv"),
	}
	writeCSV(t, cfg.LibraryPath, `paper_id,title,downloaded_file
5,Override Paper,paper_5.pdf
`)

	docs, err := Documents(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != "5" {
		t.Fatalf("docs = %+v", docs)
	}
}
