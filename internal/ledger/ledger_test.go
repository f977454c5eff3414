package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papervisor/pkg/types"
)

func testLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extraction_status.json")
	led, err := Open(path)
	require.NoError(t, err)
	return led, path
}

func successEntry(recordFile string) types.StatusEntry {
	return types.StatusEntry{
		Outcome:    types.OutcomeSuccess,
		Sections:   []string{"abstract", "introduction", "conclusion"},
		RecordFile: recordFile,
		UpdatedAt:  time.Now().UTC(),
	}
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	led, _ := testLedger(t)
	assert.Empty(t, led.List())
}

func TestSetPersistsAcrossReopen(t *testing.T) {
	led, path := testLedger(t)

	entry := successEntry("paper_1_extracted.json")
	require.NoError(t, led.Set("1", entry))

	reopened, err := Open(path)
	require.NoError(t, err)

	got, ok := reopened.Get("1")
	require.True(t, ok)
	assert.Equal(t, types.OutcomeSuccess, got.Outcome)
	assert.Equal(t, entry.Sections, got.Sections)
	assert.Equal(t, entry.RecordFile, got.RecordFile)
	assert.True(t, got.UpdatedAt.Equal(entry.UpdatedAt))
}

func TestSetOverwritesPriorEntry(t *testing.T) {
	led, _ := testLedger(t)

	require.NoError(t, led.Set("1", successEntry("paper_1_extracted.json")))
	require.NoError(t, led.Set("1", types.StatusEntry{
		Outcome: types.OutcomeFailed,
		Error:   "decoding pdfs/automatic/1.pdf (paper 1): malformed PDF",
	}))

	got, ok := led.Get("1")
	require.True(t, ok)
	assert.Equal(t, types.OutcomeFailed, got.Outcome)
	assert.Empty(t, got.Sections)
	assert.Contains(t, got.Error, "malformed PDF")
}

func TestClear(t *testing.T) {
	led, path := testLedger(t)

	require.NoError(t, led.Set("1", successEntry("paper_1_extracted.json")))
	require.NoError(t, led.Set("2", successEntry("paper_2_extracted.json")))

	require.NoError(t, led.Clear("1"))
	_, ok := led.Get("1")
	assert.False(t, ok)
	_, ok = led.Get("2")
	assert.True(t, ok)

	// Clearing an absent entry is a no-op.
	require.NoError(t, led.Clear("nope"))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Len(t, reopened.List(), 1)
}

func TestClearAll(t *testing.T) {
	led, path := testLedger(t)

	require.NoError(t, led.Set("1", successEntry("paper_1_extracted.json")))
	require.NoError(t, led.Set("2", successEntry("paper_2_extracted.json")))
	require.NoError(t, led.ClearAll())

	assert.Empty(t, led.List())

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, reopened.List())
}

func TestIDsSorted(t *testing.T) {
	led, _ := testLedger(t)

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, led.Set(id, successEntry("paper_"+id+"_extracted.json")))
	}
	assert.Equal(t, []string{"a", "b", "c"}, led.IDs())
}

func TestWriteErrorEscalates(t *testing.T) {
	// A ledger whose directory vanishes cannot persist; the failure must
	// come back typed so the batch runner can abort.
	path := filepath.Join(t.TempDir(), "missing", "extraction_status.json")
	led, err := Open(path)
	require.NoError(t, err)

	err = led.Set("1", successEntry("paper_1_extracted.json"))
	require.Error(t, err)

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, path, writeErr.Path)
}
