package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/chunker"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/classify"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/embedding"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/extract"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/model"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/tabular"
)

// ErrNothingToIngest marks a file whose extraction produced no usable
// text. The file is skipped, not failed.
var ErrNothingToIngest = errors.New("nothing to ingest")

// ErrAlreadyProcessed marks a file whose processed document already
// exists under the same display name.
var ErrAlreadyProcessed = errors.New("already processed")

// Embedder is the embedding collaborator. Batch calls are retried by the
// orchestrator, never internally.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// TextExtractor is the content-extraction collaborator.
type TextExtractor interface {
	Extract(path string) extract.Result
}

const defaultEmbedBatchSize = 64

// Orchestrator sequences extraction, chunking, embedding, structured
// extraction and the atomic commit for each file. Files are processed
// strictly one at a time; a failure in one file's unit never aborts the
// rest of the run.
type Orchestrator struct {
	store     Store
	objects   ObjectStore
	embedder  Embedder
	extractor TextExtractor
	chunker   *chunker.Chunker
	retry     embedding.RetryPolicy
	batchSize int
}

// NewOrchestrator wires the pipeline with explicit collaborators.
func NewOrchestrator(store Store, objects ObjectStore, emb Embedder, ext TextExtractor, ch *chunker.Chunker, retry embedding.RetryPolicy) *Orchestrator {
	return &Orchestrator{
		store:     store,
		objects:   objects,
		embedder:  emb,
		extractor: ext,
		chunker:   ch,
		retry:     retry,
		batchSize: defaultEmbedBatchSize,
	}
}

// Summary is the run report.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Chunks    int
}

// Run resolves freshness across all candidates, then ingests the
// resulting upload plan file by file.
func (o *Orchestrator) Run(ctx context.Context, cands []Candidate) (Summary, error) {
	var s Summary

	plan, err := NewResolver(o.store, o.objects).Resolve(ctx, cands)
	if err != nil {
		return s, fmt.Errorf("freshness resolution: %w", err)
	}
	s.Skipped += len(plan.Skipped)
	for _, c := range plan.Skipped {
		log.Printf("⏭️ skipping (already in store): %s", c.Name)
	}

	for _, c := range plan.Upload {
		n, err := o.IngestFile(ctx, c)
		switch {
		case errors.Is(err, ErrNothingToIngest), errors.Is(err, ErrAlreadyProcessed):
			log.Printf("⏭️ skipping %s: %v", c.Name, err)
			s.Skipped++
		case err != nil:
			log.Printf("❌ ingest failed for %s: %v", c.Name, err)
			s.Failed++
		default:
			log.Printf("✅ uploaded, chunked & embedded: %s (%d chunks)", c.Name, n)
			s.Processed++
			s.Chunks += n
		}
	}
	return s, nil
}

// IngestUpload runs freshness resolution over a single candidate before
// ingesting it, so an API upload sweeps stale stored documents of its
// category the same way a batch run does.
func (o *Orchestrator) IngestUpload(ctx context.Context, cand Candidate) (int, error) {
	plan, err := NewResolver(o.store, o.objects).Resolve(ctx, []Candidate{cand})
	if err != nil {
		return 0, fmt.Errorf("freshness resolution: %w", err)
	}
	if len(plan.Upload) == 0 {
		return 0, ErrAlreadyProcessed
	}
	return o.IngestFile(ctx, plan.Upload[0])
}

// IngestFile runs one file's unit end to end and returns the number of
// chunks stored. The document plus its chunks and structured rows commit
// atomically; on any failure the document is entirely absent.
func (o *Orchestrator) IngestFile(ctx context.Context, cand Candidate) (int, error) {
	existing, err := o.store.DocumentByFilename(ctx, cand.Name)
	if err != nil {
		return 0, err
	}
	if existing != nil && existing.Processed {
		return 0, ErrAlreadyProcessed
	}
	if existing != nil {
		// Leftover unprocessed row from an interrupted run: clear it so
		// this attempt starts clean.
		if _, err := o.store.DeleteDocumentsByFilename(ctx, []string{cand.Name}); err != nil {
			return 0, err
		}
	}

	res := o.extractor.Extract(cand.Path)
	if res.Text == "" {
		return 0, ErrNothingToIngest
	}

	pieces := o.chunker.Split(res.Text)
	if len(pieces) == 0 {
		return 0, ErrNothingToIngest
	}

	texts, vectors := o.embedChunks(ctx, pieces)
	if len(texts) == 0 {
		return 0, fmt.Errorf("no chunk produced a valid embedding")
	}

	summary := meanVector(vectors)

	storagePath, err := o.objects.UploadObject(ctx, cand.Path, cand.Name, cand.MimeType)
	if err != nil {
		return 0, err
	}

	meta := fmt.Sprintf(`{"file_type":%q,"processed_date":%q}`, cand.Category, time.Now().UTC().Format(time.RFC3339))

	sum := pgvector.NewVector(summary)
	doc := &model.Document{
		ID:            uuid.New(),
		Filename:      cand.Name,
		OriginalName:  cand.Name,
		MimeType:      cand.MimeType,
		FileSize:      cand.Size,
		StoragePath:   storagePath,
		ExtractedText: res.Text,
		Category:      cand.Category,
		Period:        cand.Period,
		Metadata:      datatypes.JSON(meta),
		Embedding:     &sum,
	}

	chunks := make([]model.Chunk, len(texts))
	for i := range texts {
		chunks[i] = model.Chunk{
			ChunkIndex: i,
			ChunkText:  texts[i],
			Embedding:  pgvector.NewVector(vectors[i]),
		}
	}

	members, fins := o.extractStructured(cand, res.Sheets)

	if err := o.store.SaveDocument(ctx, doc, chunks, members, fins); err != nil {
		// The unit failed; leave no orphan blob behind.
		if rmErr := o.objects.RemoveObject(ctx, storagePath); rmErr != nil {
			log.Printf("⚠️ could not remove orphan object %s: %v", storagePath, rmErr)
		}
		return 0, err
	}
	return len(chunks), nil
}

// embedChunks embeds pieces in bounded batches. A batch whose retries
// exhaust simply drops its chunks, as do vectors that come back short of
// full dimension; what survives is re-indexed densely by the caller.
func (o *Orchestrator) embedChunks(ctx context.Context, pieces []string) ([]string, [][]float32) {
	var (
		texts   []string
		vectors [][]float32
	)

	for start := 0; start < len(pieces); start += o.batchSize {
		end := start + o.batchSize
		if end > len(pieces) {
			end = len(pieces)
		}
		batch := pieces[start:end]

		var out [][]float32
		err := o.retry.Do(func() error {
			var callErr error
			out, callErr = o.embedder.EmbedBatch(ctx, batch)
			return callErr
		})
		if err != nil {
			log.Printf("⚠️ embedding batch of %d chunks dropped: %v", len(batch), err)
			continue
		}

		for i, vec := range out {
			if len(vec) != o.embedder.Dimension() {
				log.Printf("⚠️ dropping chunk with %d-dim embedding (want %d)", len(vec), o.embedder.Dimension())
				continue
			}
			texts = append(texts, batch[i])
			vectors = append(vectors, vec)
		}
	}
	return texts, vectors
}

func (o *Orchestrator) extractStructured(cand Candidate, sheets []tabular.Sheet) ([]model.MemberRecord, []model.FinancialRecord) {
	var (
		members []model.MemberRecord
		fins    []model.FinancialRecord
	)
	switch cand.Category {
	case classify.CategoryMember:
		for _, sheet := range sheets {
			for _, row := range tabular.ExtractMembers(sheet) {
				members = append(members, model.MemberRecord{
					MemberName: row.Name,
					Dividend:   row.Dividend,
					Period:     cand.Period,
					Sheet:      row.Sheet,
				})
			}
		}
	case classify.CategoryFinancial:
		for _, sheet := range sheets {
			for _, row := range tabular.ExtractFinancial(sheet) {
				fins = append(fins, model.FinancialRecord{
					LineItem: row.Item,
					Amount:   row.Amount,
					Period:   cand.Period,
					Sheet:    row.Sheet,
				})
			}
		}
	}
	return members, fins
}

func meanVector(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	acc := make([]float64, dim)
	for _, v := range vectors {
		for i := range v {
			acc[i] += float64(v[i])
		}
	}
	mean := make([]float32, dim)
	for i := range acc {
		mean[i] = float32(acc[i] / float64(len(vectors)))
	}
	return mean
}
