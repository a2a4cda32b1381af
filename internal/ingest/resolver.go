package ingest

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/model"
)

// Store is the persistence surface the pipeline writes through. *data.Data
// satisfies it; tests inject fakes.
type Store interface {
	DocumentByFilename(ctx context.Context, filename string) (*model.Document, error)
	DeleteDocumentsByFilename(ctx context.Context, names []string) ([]string, error)
	DeleteStaleDocuments(ctx context.Context, category string, cutoff time.Time) ([]string, error)
	SaveDocument(ctx context.Context, doc *model.Document, chunks []model.Chunk, members []model.MemberRecord, fins []model.FinancialRecord) error
}

// ObjectStore is the raw-blob backing store.
type ObjectStore interface {
	UploadObject(ctx context.Context, localPath, objectName, contentType string) (string, error)
	RemoveObject(ctx context.Context, storagePath string) error
}

// Resolver enforces one current document per category: among dated
// candidates of a category the maximum period wins, everything older is
// deleted from the store (cascading chunks and structured rows) and its
// backing object removed, before any upload begins.
type Resolver struct {
	store   Store
	objects ObjectStore
}

// NewResolver builds a Resolver.
func NewResolver(store Store, objects ObjectStore) *Resolver {
	return &Resolver{store: store, objects: objects}
}

// Plan is the outcome of freshness resolution: what to upload, in a
// deterministic order.
type Plan struct {
	Upload  []Candidate
	Stale   []Candidate
	Skipped []Candidate
}

// Resolve partitions candidates and commits stale deletions. Static
// candidates are never superseded here; they are only skipped when an
// identically named processed document already exists.
func (r *Resolver) Resolve(ctx context.Context, cands []Candidate) (Plan, error) {
	var plan Plan

	dated := map[string][]Candidate{}
	var statics []Candidate
	for _, c := range cands {
		if c.Period == nil {
			statics = append(statics, c)
		} else {
			dated[c.Category] = append(dated[c.Category], c)
		}
	}

	categories := make([]string, 0, len(dated))
	for cat := range dated {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		group := dated[cat]
		current := pickCurrent(group)

		var staleNames []string
		for _, c := range group {
			if c.Path != current.Path {
				plan.Stale = append(plan.Stale, c)
				staleNames = append(staleNames, c.Name)
			}
		}

		// Stale candidates out of the store first, then the sweep for
		// previously stored documents of older periods.
		paths, err := r.store.DeleteDocumentsByFilename(ctx, staleNames)
		if err != nil {
			return Plan{}, err
		}
		r.removeObjects(ctx, paths)

		paths, err = r.store.DeleteStaleDocuments(ctx, cat, *current.Period)
		if err != nil {
			return Plan{}, err
		}
		r.removeObjects(ctx, paths)

		skip, err := r.alreadyProcessed(ctx, current.Name)
		if err != nil {
			return Plan{}, err
		}
		if skip {
			plan.Skipped = append(plan.Skipped, current)
		} else {
			plan.Upload = append(plan.Upload, current)
		}
	}

	for _, c := range statics {
		skip, err := r.alreadyProcessed(ctx, c.Name)
		if err != nil {
			return Plan{}, err
		}
		if skip {
			plan.Skipped = append(plan.Skipped, c)
		} else {
			plan.Upload = append(plan.Upload, c)
		}
	}

	return plan, nil
}

// pickCurrent selects the candidate with the maximum period. Equal
// periods tie-break on the lexicographically greatest path; filename
// alone does not define an order, so this keeps resolution a
// deterministic total order.
func pickCurrent(group []Candidate) Candidate {
	current := group[0]
	for _, c := range group[1:] {
		if c.Period.After(*current.Period) {
			current = c
		} else if c.Period.Equal(*current.Period) && c.Path > current.Path {
			current = c
		}
	}
	return current
}

func (r *Resolver) alreadyProcessed(ctx context.Context, name string) (bool, error) {
	doc, err := r.store.DocumentByFilename(ctx, name)
	if err != nil {
		return false, err
	}
	return doc != nil && doc.Processed, nil
}

// removeObjects is best effort: a leftover blob is harmless, a failed run
// is not.
func (r *Resolver) removeObjects(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := r.objects.RemoveObject(ctx, p); err != nil {
			log.Printf("⚠️ could not remove stale object %s: %v", p, err)
		}
	}
}
