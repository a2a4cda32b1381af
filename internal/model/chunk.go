package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Chunk is an overlapping slice of a document's extracted text, the atomic
// unit of semantic retrieval. Indices are dense and 0-based per document;
// a chunk is only ever stored with a valid full-dimensional embedding.
type Chunk struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	DocumentID uuid.UUID       `gorm:"type:uuid;index;not null" json:"document_id"`
	ChunkIndex int             `json:"chunk_index"`
	ChunkText  string          `gorm:"type:text" json:"chunk_text"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
}
