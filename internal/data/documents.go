package data

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/model"
)

// ChunkHit is one retrieval match with its score: cosine similarity for
// vector hits, a fixed weight for keyword hits.
type ChunkHit struct {
	ChunkID  uint
	Filename string
	Text     string
	Score    float64
}

// DocumentInfo is the listing projection used by the files API.
type DocumentInfo struct {
	ID         uuid.UUID  `json:"id"`
	Filename   string     `json:"filename"`
	MimeType   string     `json:"mime_type"`
	FileSize   int64      `json:"file_size"`
	Category   string     `json:"category"`
	Period     *time.Time `json:"period,omitempty"`
	Processed  bool       `json:"processed"`
	TextLength int        `json:"text_length"`
	ChunkCount int        `json:"chunk_count"`
	UploadedAt time.Time  `json:"uploaded_at"`
}

// SaveDocument commits one ingestion unit atomically: the document, its
// chunks and its structured rows go in together and the processed flag is
// flipped last, inside the same transaction. On any failure the document
// is entirely absent, never partially present.
func (d *Data) SaveDocument(ctx context.Context, doc *model.Document, chunks []model.Chunk, members []model.MemberRecord, fins []model.FinancialRecord) error {
	if len(chunks) == 0 {
		return fmt.Errorf("document %s has no retrievable chunks", doc.Filename)
	}

	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc.Processed = false
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		for i := range chunks {
			chunks[i].DocumentID = doc.ID
		}
		if err := tx.CreateInBatches(chunks, 200).Error; err != nil {
			return err
		}
		for i := range members {
			members[i].DocumentID = doc.ID
		}
		if len(members) > 0 {
			if err := tx.CreateInBatches(members, 200).Error; err != nil {
				return err
			}
		}
		for i := range fins {
			fins[i].DocumentID = doc.ID
		}
		if len(fins) > 0 {
			if err := tx.CreateInBatches(fins, 200).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Document{}).Where("id = ?", doc.ID).Update("processed", true).Error
	})
}

// DocumentByFilename returns nil without error when no document matches.
func (d *Data) DocumentByFilename(ctx context.Context, filename string) (*model.Document, error) {
	var doc model.Document
	err := d.DB.WithContext(ctx).Where("filename = ?", filename).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument cascades one document and returns its storage path so
// the caller can clean up the backing object.
func (d *Data) DeleteDocument(ctx context.Context, id uuid.UUID) (string, error) {
	var doc model.Document
	err := d.DB.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if err := d.deleteDocuments(ctx, []uuid.UUID{id}); err != nil {
		return "", err
	}
	return doc.StoragePath, nil
}

// DeleteDocumentsByFilename cascades every document whose display name is
// in names, returning the storage paths of what was removed.
func (d *Data) DeleteDocumentsByFilename(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var docs []model.Document
	if err := d.DB.WithContext(ctx).Where("filename IN ?", names).Find(&docs).Error; err != nil {
		return nil, err
	}
	return d.cascade(ctx, docs)
}

// DeleteStaleDocuments cascades dated documents of one category whose
// period is strictly before cutoff. This is the freshness sweep: it runs
// before uploads so a stale current-document is never queryable alongside
// its replacement.
func (d *Data) DeleteStaleDocuments(ctx context.Context, category string, cutoff time.Time) ([]string, error) {
	var docs []model.Document
	err := d.DB.WithContext(ctx).
		Where("category = ? AND period IS NOT NULL AND period < ?", category, cutoff).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return d.cascade(ctx, docs)
}

func (d *Data) cascade(ctx context.Context, docs []model.Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(docs))
	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
		if doc.StoragePath != "" {
			paths = append(paths, doc.StoragePath)
		}
	}
	if err := d.deleteDocuments(ctx, ids); err != nil {
		return nil, err
	}
	return paths, nil
}

func (d *Data) deleteDocuments(ctx context.Context, ids []uuid.UUID) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id IN ?", ids).Delete(&model.Chunk{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id IN ?", ids).Delete(&model.MemberRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id IN ?", ids).Delete(&model.FinancialRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&model.Document{}).Error
	})
}

// ListDocuments returns the listing projection, newest first.
func (d *Data) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	var infos []DocumentInfo
	err := d.DB.WithContext(ctx).Model(&model.Document{}).
		Select(`documents.id, documents.filename, documents.mime_type, documents.file_size,
			documents.category, documents.period, documents.processed, documents.uploaded_at,
			length(documents.extracted_text) AS text_length,
			(SELECT count(*) FROM chunks WHERE chunks.document_id = documents.id) AS chunk_count`).
		Order("documents.uploaded_at DESC").
		Scan(&infos).Error
	return infos, err
}

// SearchChunksByVector returns the top-limit chunks of processed
// documents by cosine similarity to vec.
func (d *Data) SearchChunksByVector(ctx context.Context, vec []float32, limit int) ([]ChunkHit, error) {
	var hits []ChunkHit
	v := pgvector.NewVector(vec)
	err := d.DB.WithContext(ctx).Raw(`
		SELECT c.id AS chunk_id, d.original_name AS filename, c.chunk_text AS text,
		       1 - (c.embedding <=> ?) AS score
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.processed = true
		ORDER BY c.embedding <=> ?
		LIMIT ?`, v, v, limit).Scan(&hits).Error
	return hits, err
}

// SearchChunksByKeyword returns chunks containing any of the tokens,
// case-insensitively. Scoring is the caller's concern.
func (d *Data) SearchChunksByKeyword(ctx context.Context, tokens []string, limit int) ([]ChunkHit, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	conds := make([]string, 0, len(tokens))
	args := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		conds = append(conds, "c.chunk_text ILIKE ?")
		args = append(args, "%"+tok+"%")
	}
	args = append(args, limit)

	var hits []ChunkHit
	query := fmt.Sprintf(`
		SELECT c.id AS chunk_id, d.original_name AS filename, c.chunk_text AS text, 0 AS score
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.processed = true AND (%s)
		ORDER BY c.created_at DESC
		LIMIT ?`, strings.Join(conds, " OR "))
	err := d.DB.WithContext(ctx).Raw(query, args...).Scan(&hits).Error
	return hits, err
}
