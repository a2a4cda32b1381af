package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Document is one uploaded SACCO file. It is created unprocessed and only
// flipped to processed once all of its chunks and structured rows have
// committed in the same transaction.
type Document struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Filename     string    `gorm:"uniqueIndex;not null" json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	FileSize     int64     `json:"file_size"`

	// minio://bucket/object
	StoragePath string `json:"storage_path"`

	ExtractedText string `gorm:"type:text" json:"-"`

	// Inferred classification
	Category string     `gorm:"index" json:"category"`
	Period   *time.Time `gorm:"index" json:"period,omitempty"`

	Metadata datatypes.JSON `json:"metadata,omitempty"`

	// Summary embedding: mean of the document's chunk embeddings
	Embedding *pgvector.Vector `gorm:"type:vector(1536)" json:"-"`

	Processed  bool      `gorm:"default:false;index" json:"processed"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	Chunks []Chunk `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"-"`
}
