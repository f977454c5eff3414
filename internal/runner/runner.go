// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner orchestrates batch extraction: it walks a project's
// documents through decode, segmentation, inference, and record building,
// records every outcome in the status ledger, and publishes a live
// progress snapshot. One batch runs per project at a time, in the
// background of whatever triggered it.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/papervisor/internal/decode"
	"github.com/pdiddy/papervisor/internal/infer"
	"github.com/pdiddy/papervisor/internal/ledger"
	"github.com/pdiddy/papervisor/internal/record"
	"github.com/pdiddy/papervisor/internal/segment"
	"github.com/pdiddy/papervisor/pkg/types"
)

// ErrBatchAlreadyRunning rejects a start request that arrives while a
// batch is in flight. Requests are rejected, never queued.
var ErrBatchAlreadyRunning = errors.New("a batch is already running for this project")

// State is the batch lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateAborted   State = "aborted"
)

// Scope selects which documents a batch covers.
type Scope string

const (
	// ScopeAll processes every document regardless of prior outcome.
	ScopeAll Scope = "all"

	// ScopeUnprocessed processes only documents without a success entry
	// in the ledger; partial and failed attempts are retried.
	ScopeUnprocessed Scope = "unprocessed"
)

// Progress is the advisory snapshot of a batch. It is reset when a batch
// starts and is not persisted; after a restart the ledger is the source
// of truth.
type Progress struct {
	RunID      string    `json:"run_id"`
	State      State     `json:"state"`
	Running    bool      `json:"running"`
	Total      int       `json:"total"`
	Processed  int       `json:"processed"`
	Succeeded  int       `json:"succeeded"`
	Partial    int       `json:"partial"`
	Failed     int       `json:"failed"`
	Current    string    `json:"current_paper,omitempty"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Decoder turns a PDF path into raw page text. Tests substitute a stub;
// production uses decode.File.
type Decoder func(path, paperID string) (*decode.Result, error)

// Runner owns the batch lifecycle for one project.
type Runner struct {
	cfg    types.ExtractionConfig
	ledger *ledger.Ledger
	decode Decoder
	out    io.Writer

	mu       sync.Mutex
	progress Progress
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a Runner writing per-document progress lines to out.
func New(cfg types.ExtractionConfig, led *ledger.Ledger, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		cfg:      cfg,
		ledger:   led,
		decode:   decode.File,
		out:      out,
		progress: Progress{State: StateIdle},
	}
}

// SetDecoder replaces the PDF decoder. Tests use it to process synthetic
// documents without real PDFs.
func (r *Runner) SetDecoder(d Decoder) {
	r.decode = d
}

// Start launches a batch over docs filtered by scope and returns
// immediately. It fails with ErrBatchAlreadyRunning if a batch is in
// flight. The caller observes completion via Snapshot or Wait.
func (r *Runner) Start(ctx context.Context, docs []types.Document, scope Scope) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress.Running {
		return ErrBatchAlreadyRunning
	}

	inScope := r.selectScope(docs, scope)

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.progress = Progress{
		RunID:     uuid.New().String(),
		State:     StateRunning,
		Running:   true,
		Total:     len(inScope),
		StartedAt: time.Now().UTC(),
	}

	go r.run(runCtx, inScope, r.done)
	return nil
}

// Stop requests cooperative cancellation: in-flight documents finish and
// are recorded, no further documents are dispatched, and the batch ends
// aborted. Stopping an idle runner is a no-op.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

// Wait blocks until the current batch finishes. It returns immediately if
// no batch has been started.
func (r *Runner) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Snapshot returns a copy of the live progress. Readers may observe a
// snapshot slightly behind the latest completion; that is acceptable for
// progress display.
func (r *Runner) Snapshot() Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

// selectScope filters docs for the batch. Callers hold r.mu.
func (r *Runner) selectScope(docs []types.Document, scope Scope) []types.Document {
	if scope != ScopeUnprocessed {
		return docs
	}
	var out []types.Document
	for _, doc := range docs {
		if entry, ok := r.ledger.Get(doc.ID); ok && entry.Outcome == types.OutcomeSuccess {
			continue
		}
		out = append(out, doc)
	}
	return out
}

func (r *Runner) run(ctx context.Context, docs []types.Document, done chan struct{}) {
	defer close(done)

	workers := r.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, doc := range docs {
		doc := doc
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			return r.processOne(doc)
		})
	}

	err := g.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress.Running = false
	r.progress.Current = ""
	r.progress.FinishedAt = time.Now().UTC()
	switch {
	case err != nil:
		// Only ledger write failures propagate here; per-document
		// problems are recorded and swallowed.
		r.progress.State = StateAborted
		fmt.Fprintf(r.out, "\nbatch aborted: %v\n", err)
	case ctx.Err() != nil:
		r.progress.State = StateAborted
		fmt.Fprintf(r.out, "\nbatch stopped: %d of %d processed\n",
			r.progress.Processed, r.progress.Total)
	default:
		r.progress.State = StateCompleted
		fmt.Fprintf(r.out, "\nBatch summary: %d succeeded, %d partial, %d failed (total: %d)\n",
			r.progress.Succeeded, r.progress.Partial, r.progress.Failed, r.progress.Total)
	}
	r.cancel = nil
}

// processOne runs the full pipeline for a single document and records the
// outcome. It returns an error only for ledger write failures, which
// abort the batch; everything else becomes a status entry.
func (r *Runner) processOne(doc types.Document) error {
	r.mu.Lock()
	r.progress.Current = doc.ID
	r.mu.Unlock()

	entry := r.extract(doc)
	entry.UpdatedAt = time.Now().UTC()

	if err := r.ledger.Set(doc.ID, entry); err != nil {
		return err
	}

	r.mu.Lock()
	r.progress.Processed++
	switch entry.Outcome {
	case types.OutcomeSuccess:
		r.progress.Succeeded++
		fmt.Fprintf(r.out, "extracted %s (%d sections)\n", doc.ID, len(entry.Sections))
	case types.OutcomePartial:
		r.progress.Partial++
		fmt.Fprintf(r.out, "partial  %s\n", doc.ID)
	default:
		r.progress.Failed++
		fmt.Fprintf(r.out, "failed   %s: %s\n", doc.ID, entry.Error)
	}
	r.mu.Unlock()

	return nil
}

// extract runs decode → segment → infer → build → persist for one
// document and classifies the outcome.
func (r *Runner) extract(doc types.Document) types.StatusEntry {
	dec, err := r.decode(doc.PDFPath, doc.ID)
	if err != nil {
		// Decode failures never abort the batch; the cause is preserved
		// verbatim for diagnostics.
		return types.StatusEntry{Outcome: types.OutcomeFailed, Error: err.Error()}
	}

	text := segment.Normalize(dec.Text())
	seg := segment.Split(text, r.cfg.MinSectionWords)
	meta := infer.Paper(text, doc.Bib, doc.PDFPath)

	rec := record.Build(doc, dec.TotalPages, len(text), seg, meta)
	name, err := record.Write(r.cfg.RecordsRoot(), rec)
	if err != nil {
		return types.StatusEntry{Outcome: types.OutcomeFailed, Error: err.Error()}
	}

	outcome := types.OutcomeSuccess
	minWords := r.cfg.MinSectionWords
	if minWords <= 0 {
		minWords = segment.DefaultMinWords
	}
	if len(strings.Fields(text)) < minWords || len(seg.Found) == 0 {
		// Metadata-only extraction: an empty or near-empty text body
		// (scanned PDF) or a body in which no section could be located.
		outcome = types.OutcomePartial
	}

	return types.StatusEntry{
		Outcome:    outcome,
		Sections:   seg.Found,
		RecordFile: name,
	}
}
