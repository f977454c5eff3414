package infer

import (
	"reflect"
	"testing"

	"github.com/pdiddy/papervisor/pkg/types"
)

func TestPaperSideChannelWins(t *testing.T) {
	// The text disagrees with the imported record on every field; the
	// imported values must win.
	text := "A Completely Different Title In The Text\n" +
		"Alice Example and Bob Sample\n" +
		"Copyright 2023 Some Publisher\n" +
		"doi:10.9999/other.123\n"
	bib := &types.BibRecord{
		Title:   "Side Channel Title",
		Authors: "John Smith; Jane Doe",
		Year:    "2019",
		DOI:     "https://doi.org/10.1234/ex.2024.001",
		Source:  "Journal of Testing",
	}

	m := Paper(text, bib, "pdfs/automatic/p1.pdf")

	if m.Title != "Side Channel Title" {
		t.Errorf("title = %q", m.Title)
	}
	if want := []string{"John Smith", "Jane Doe"}; !reflect.DeepEqual(m.Authors, want) {
		t.Errorf("authors = %v, want %v", m.Authors, want)
	}
	if m.Year != 2019 {
		t.Errorf("year = %d, want 2019", m.Year)
	}
	if m.DOI != "10.1234/ex.2024.001" {
		t.Errorf("doi = %q, want bare DOI", m.DOI)
	}
	if m.URL != "https://doi.org/10.1234/ex.2024.001" {
		t.Errorf("url = %q, want DOI resolver link", m.URL)
	}
	if m.Source != "Journal of Testing" {
		t.Errorf("source = %q", m.Source)
	}
	if len(m.Gaps) != 0 {
		t.Errorf("gaps = %v, want none", m.Gaps)
	}
}

func TestPaperTextFallback(t *testing.T) {
	text := "Efficient Attention Mechanisms for Modern Transformers\n" +
		"John Smith and Jane Doe\n" +
		"Published 2021\n" +
		"doi:10.5555/abc.123\n" +
		"Proceedings of the Conference on Learning\n"

	m := Paper(text, nil, "pdfs/automatic/p2.pdf")

	if m.Title != "Efficient Attention Mechanisms for Modern Transformers" {
		t.Errorf("title = %q", m.Title)
	}
	if want := []string{"John Smith", "Jane Doe"}; !reflect.DeepEqual(m.Authors, want) {
		t.Errorf("authors = %v, want %v", m.Authors, want)
	}
	if m.Year != 2021 {
		t.Errorf("year = %d, want 2021", m.Year)
	}
	if m.DOI != "10.5555/abc.123" {
		t.Errorf("doi = %q", m.DOI)
	}
	if m.URL != "https://doi.org/10.5555/abc.123" {
		t.Errorf("url = %q", m.URL)
	}
	if m.Source == "" {
		t.Error("venue not inferred from proceedings line")
	}
	if len(m.Gaps) != 0 {
		t.Errorf("gaps = %v, want none", m.Gaps)
	}
}

func TestPaperGapsNamedInOrder(t *testing.T) {
	m := Paper("", nil, "pdfs/automatic/p3.pdf")

	want := []string{"title", "authors", "year", "doi", "source"}
	if !reflect.DeepEqual(m.Gaps, want) {
		t.Errorf("gaps = %v, want %v", m.Gaps, want)
	}
	if m.URL != "pdfs/automatic/p3.pdf" {
		t.Errorf("url = %q, want the PDF path fallback", m.URL)
	}
}

func TestURLPriority(t *testing.T) {
	bib := &types.BibRecord{ArticleURL: "https://example.org/paper"}

	if m := Paper("", bib, "p.pdf"); m.URL != "https://example.org/paper" {
		t.Errorf("url = %q, want article page", m.URL)
	}

	bib.DOI = "10.1234/x"
	if m := Paper("", bib, "p.pdf"); m.URL != "https://doi.org/10.1234/x" {
		t.Errorf("url = %q, want DOI resolver over article page", m.URL)
	}
}

func TestYearFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"copyright line", "Copyright 2019 ACM", 2019},
		{"page range skipped", "pages 1998-2004 of the proceedings", 0},
		{"issn skipped", "ISSN 2049-3630", 0},
		{"doi component skipped", "doi 10.1234/ex.2024.001", 0},
		{"embedded then standalone", "pp. 2010-2023, volume 9\nPublished 2021", 2021},
		{"future year rejected", "Copyright 2099", 0},
		{"no year", "no numbers of interest here", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := yearFromText(tt.text); got != tt.want {
				t.Errorf("yearFromText(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestYearToken(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"2019", 2019},
		{"2019.0", 2019},
		{" 2020 ", 2020},
		{"n.d.", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := yearToken(tt.raw); got != tt.want {
			t.Errorf("yearToken(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"10.1234/x", "10.1234/x"},
		{"https://doi.org/10.1234/x", "10.1234/x"},
		{"http://dx.doi.org/10.1234/x", "10.1234/x"},
		{"DOI: 10.1234/x", "10.1234/x"},
		{"doi.org/10.9999/y;", "10.9999/y"},
		{"10.1234/x.", "10.1234/x"},
		{"  10.1234/x)  ", "10.1234/x"},
	}
	for _, tt := range tests {
		if got := NormalizeDOI(tt.raw); got != tt.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseAuthors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "semicolons with initials",
			raw:  "Smith, J.; Doe, A.",
			want: []string{"Smith", "J.", "Doe", "A."},
		},
		{
			name: "and plus ampersand",
			raw:  "John Smith and Jane Doe & Bob Lee",
			want: []string{"John Smith", "Jane Doe", "Bob Lee"},
		},
		{
			name: "affiliations stripped and repeats dropped",
			raw:  "Jane Doe (MIT); Jane Doe",
			want: []string{"Jane Doe"},
		},
		{
			name: "empty",
			raw:  "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAuthors(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAuthors(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTitleFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "first meaningful line",
			text: "Adaptive Scheduling for Streaming Workloads\nJohn Smith",
			want: "Adaptive Scheduling for Streaming Workloads",
		},
		{
			name: "running header skipped",
			text: "PROCEEDINGS OF THE CONFERENCE\nAdaptive Scheduling for Streaming Workloads",
			want: "Adaptive Scheduling for Streaming Workloads",
		},
		{
			name: "page number skipped",
			text: "1234567890123\nAdaptive Scheduling for Streaming Workloads",
			want: "Adaptive Scheduling for Streaming Workloads",
		},
		{
			name: "nothing usable",
			text: "short\n42",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := titleFromText(tt.text); got != tt.want {
				t.Errorf("titleFromText = %q, want %q", got, tt.want)
			}
		})
	}
}
