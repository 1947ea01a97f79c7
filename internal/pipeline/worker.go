package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/mdquery/internal/element"
	"github.com/dgallion1/mdquery/internal/extract"
	"github.com/dgallion1/mdquery/internal/mdparse"
	"github.com/dgallion1/mdquery/internal/section"
	"github.com/dgallion1/mdquery/internal/store"
)

// Worker processes a single document job.
type Worker struct {
	store    *store.Store
	log      *slog.Logger
	sectOpts section.Options
}

func NewWorker(st *store.Store, log *slog.Logger, sectOpts section.Options) *Worker {
	return &Worker{
		store:    st,
		log:      log,
		sectOpts: sectOpts,
	}
}

// Process runs the full ingest pipeline for a job: parse, decompose,
// sectionize, store.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	source := extract.Normalize(job.Source())
	job.ContentHash = ContentHashHex(source)

	// Dedup check before any parsing work.
	existing, err := w.store.DocumentByHash(ctx, job.ContentHash)
	if err == nil {
		log.Info("duplicate document, skipping", "existing_doc_id", existing.ID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Warn("dedup check failed, proceeding", "error", err)
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	doc, err := mdparse.Parse(source)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Decompose into elements.
	job.SetStatus(StatusDecomposing, "decomposing")
	elements := element.FromDocument(doc)

	// Phase 3: Extract sections.
	job.SetStatus(StatusSectioning, "sectioning")
	sections := section.FromDocument(doc, w.sectOpts)
	job.SetCounts(len(elements), len(sections))
	log.Info("document processed", "elements", len(elements), "sections", len(sections))

	// Phase 4: Store.
	job.SetStatus(StatusStoring, "storing")
	record := store.Document{
		ID:          job.DocID,
		Name:        job.Filename,
		ContentHash: job.ContentHash,
		CharCount:   len(source),
		IngestedAt:  job.CreatedAt,
		Content:     string(source),
	}
	if err := w.store.SaveDocument(ctx, record, elements, sections); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	job.SetStatus(StatusCompleted, "done")
}
