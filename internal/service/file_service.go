package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/data"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/dto"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/ingest"
)

// FileService handles upload, listing and deletion of SACCO documents.
// An upload is ingested synchronously: when the response returns, the
// document is either fully searchable or fully absent.
type FileService struct {
	data         *data.Data
	orchestrator *ingest.Orchestrator
}

func NewFileService(d *data.Data, orch *ingest.Orchestrator) *FileService {
	return &FileService{data: d, orchestrator: orch}
}

// Upload stages the multipart file on disk under its original name, so
// filename classification sees what the uploader sees, then runs the
// full ingestion pipeline on it.
func (s *FileService) Upload(ctx context.Context, file *multipart.FileHeader) (*dto.UploadResp, error) {
	tmpDir, err := os.MkdirTemp("", "sacco-upload-*")
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	localPath := filepath.Join(tmpDir, filepath.Base(file.Filename))
	if err := saveMultipart(file, localPath); err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}

	cand := ingest.NewCandidate(localPath, file.Size)
	if cand.MimeType == "" {
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(file.Filename))
	}

	chunks, err := s.orchestrator.IngestUpload(ctx, cand)
	if errors.Is(err, ingest.ErrAlreadyProcessed) {
		log.Printf("⏭️ %s already processed, skipping", cand.Name)
		return &dto.UploadResp{Filename: cand.Name, Category: cand.Category, Status: "skipped"}, nil
	}
	if err != nil {
		return nil, err
	}

	resp := &dto.UploadResp{
		Filename: cand.Name,
		Category: cand.Category,
		Period:   formatPeriod(cand.Period),
		Chunks:   chunks,
		Status:   "processed",
	}
	if doc, err := s.data.DocumentByFilename(ctx, cand.Name); err == nil && doc != nil {
		resp.ID = doc.ID.String()
	}
	return resp, nil
}

// List returns the stored document inventory.
func (s *FileService) List(ctx context.Context) ([]data.DocumentInfo, error) {
	return s.data.ListDocuments(ctx)
}

// Delete removes a document and everything derived from it, including
// its blob. A missing blob is logged, not an error.
func (s *FileService) Delete(ctx context.Context, id uuid.UUID) error {
	storagePath, err := s.data.DeleteDocument(ctx, id)
	if err != nil {
		return err
	}
	if storagePath != "" {
		if err := s.data.RemoveObject(ctx, storagePath); err != nil {
			log.Printf("⚠️ blob cleanup failed for %s: %v", storagePath, err)
		}
	}
	return nil
}

func saveMultipart(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

func formatPeriod(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.Format("2006-01")
}
