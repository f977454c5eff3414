package segment

import (
	"strings"
	"testing"

	"github.com/pdiddy/papervisor/pkg/types"
)

// words produces filler content of n words.
func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "word"
	}
	return strings.Join(parts, " ")
}

func TestSplitCanonicalSections(t *testing.T) {
	text := strings.Join([]string{
		"Abstract",
		words(20),
		"1. Introduction",
		words(25),
		"2. Methods",
		words(30),
		"3. Results",
		words(15),
		"4. Discussion",
		words(12),
		"5. Conclusion",
		words(11),
		"References",
		words(40),
	}, "\n")

	res := Split(text, 0)

	for _, name := range types.CanonicalSections() {
		if res.Canonical[name] == "" {
			t.Errorf("canonical section %q not found", name)
		}
	}
	if res.Additional["references"] == "" {
		t.Error("references not captured as additional section")
	}

	wantFound := []string{
		"abstract", "introduction", "methods", "results",
		"discussion", "conclusion", "references",
	}
	if len(res.Found) != len(wantFound) {
		t.Fatalf("found %v, want %v", res.Found, wantFound)
	}
	for i, name := range wantFound {
		if res.Found[i] != name {
			t.Errorf("found[%d] = %q, want %q", i, res.Found[i], name)
		}
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestSplitCanonicalAlwaysSixKeys(t *testing.T) {
	res := Split("", 0)

	if len(res.Canonical) != len(types.CanonicalSections()) {
		t.Fatalf("canonical map has %d keys, want %d",
			len(res.Canonical), len(types.CanonicalSections()))
	}
	for _, name := range types.CanonicalSections() {
		content, ok := res.Canonical[name]
		if !ok {
			t.Errorf("missing canonical key %q", name)
		}
		if content != "" {
			t.Errorf("canonical %q = %q, want empty", name, content)
		}
	}
	if len(res.Found) != 0 {
		t.Errorf("found = %v, want none", res.Found)
	}
}

func TestSplitShortContentDiscarded(t *testing.T) {
	// A header echo with almost no content under it is a table-of-contents
	// or running-header artifact, not a section.
	text := strings.Join([]string{
		"Methods",
		"too short here",
		"Results",
		words(15),
	}, "\n")

	res := Split(text, 0)

	if res.Canonical[types.SectionMethods] != "" {
		t.Errorf("short methods content kept: %q", res.Canonical[types.SectionMethods])
	}
	if res.Canonical[types.SectionResults] == "" {
		t.Error("results section not found")
	}
	for _, name := range res.Found {
		if name == "methods" {
			t.Error("methods listed in found despite short content")
		}
	}
}

func TestSplitMinWordsOverride(t *testing.T) {
	text := "Methods\n" + words(5)

	if res := Split(text, 3); res.Canonical[types.SectionMethods] == "" {
		t.Error("five words rejected with minWords 3")
	}
	if res := Split(text, 0); res.Canonical[types.SectionMethods] != "" {
		t.Error("five words accepted with default minWords")
	}
}

func TestSplitDuplicateHeaders(t *testing.T) {
	first := strings.TrimSpace(strings.Repeat("alpha ", 12))
	second := strings.TrimSpace(strings.Repeat("beta ", 12))
	text := strings.Join([]string{
		"Discussion",
		first,
		"Discussion",
		second,
	}, "\n")

	res := Split(text, 0)

	if got := res.Canonical[types.SectionDiscussion]; got != first {
		t.Errorf("first occurrence = %q, want %q", got, first)
	}
	if got := res.Additional["discussion_2"]; got != second {
		t.Errorf("second occurrence = %q, want %q under discussion_2", got, second)
	}
}

func TestSplitNoCanonicalSectionsWarning(t *testing.T) {
	// Recognizable additional section only; no canonical section at all.
	text := "References\n" + words(20)

	res := Split(text, 0)

	if res.Additional["references"] == "" {
		t.Error("references not captured")
	}
	warned := false
	for _, w := range res.Warnings {
		if w == WarnNoCanonicalSections {
			warned = true
		}
	}
	if !warned {
		t.Errorf("warnings = %v, want %q", res.Warnings, WarnNoCanonicalSections)
	}
}

func TestSplitAbstractFallback(t *testing.T) {
	opening := strings.TrimSpace(strings.Repeat("streaming workloads need adaptive scheduling across heterogeneous clusters ", 3))
	continuation := strings.TrimSpace(strings.Repeat("evaluation shows consistent latency gains under varied load ", 5))
	if len(opening) <= 100 {
		t.Fatalf("test fixture opening too short: %d chars", len(opening))
	}

	text := strings.Join([]string{
		"Short Title Line",
		opening,
		continuation,
		"1. Introduction",
		words(25),
	}, "\n")

	res := Split(text, 0)

	want := opening + " " + continuation
	if got := res.Canonical[types.SectionAbstract]; got != want {
		t.Errorf("fallback abstract = %q, want %q", got, want)
	}
	if res.Canonical[types.SectionIntroduction] == "" {
		t.Error("introduction not found")
	}
}

func TestSplitNumberedAndRomanHeaders(t *testing.T) {
	text := strings.Join([]string{
		"IV. Results",
		words(12),
		"3.1 Methodology",
		words(12),
	}, "\n")

	res := Split(text, 0)

	if res.Canonical[types.SectionResults] == "" {
		t.Error("roman-numbered results header not recognized")
	}
	if res.Canonical[types.SectionMethods] == "" {
		t.Error("subsection-numbered methodology header not recognized")
	}
}

func TestIsHeaderLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Abstract", true},
		{"1. Introduction", true},
		{"3.2 Experimental Setup", true},
		{"IV. Results", true},
		{"RESULTS AND DISCUSSION", true},
		{"Concluding Remarks", true},
		{"Methods:", true},
		{"we describe the approach below", false},
		{"is this a header?", false},
		{"trailing comma means prose,", false},
		{"ab", false},
		{"One Two Three Four Five Six Seven Eight Nine", false},
	}
	for _, tt := range tests {
		if got := isHeaderLine(tt.line); got != tt.want {
			t.Errorf("isHeaderLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "hyphenated line break rejoined",
			input: "climate fore-\ncasting model",
			want:  "climate forecasting model",
		},
		{
			name:  "page number line stripped",
			input: "end of page text\n42\nstart of next page",
			want:  "end of page text\n\nstart of next page",
		},
		{
			name:  "running header stripped",
			input: "JOURNAL OF CLIMATE INFORMATICS\nactual paragraph text",
			want:  "actual paragraph text",
		},
		{
			name:  "missing inter-word space restored",
			input: "the trained modelThe evaluation",
			want:  "the trained model The evaluation",
		},
		{
			name:  "space runs collapsed",
			input: "spaced   out \t words",
			want:  "spaced out words",
		},
		{
			name:  "blank runs collapsed to paragraph break",
			input: "first paragraph\n\n\n\nsecond paragraph",
			want:  "first paragraph\n\nsecond paragraph",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
