// Package ingest implements the ingestion pipeline: discovery feeds the
// freshness resolver, whose deletions commit before the orchestrator
// uploads anything.
package ingest

import (
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/classify"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/extract"
)

// Candidate is one discovered file with its classification.
type Candidate struct {
	Path     string
	Name     string // display name, unique per stored document
	MimeType string
	Size     int64
	Category string
	Period   *time.Time
}

// NewCandidate classifies a file path into a candidate.
func NewCandidate(path string, size int64) Candidate {
	res := classify.Classify(path)
	return Candidate{
		Path:     path,
		Name:     filepath.Base(path),
		MimeType: extract.SupportedExtensions[strings.ToLower(filepath.Ext(path))],
		Size:     size,
		Category: res.Category,
		Period:   res.Period,
	}
}

// Discover walks dirs for supported files and returns them as classified
// candidates. Unreadable directories are logged and skipped.
func Discover(dirs []string) []Candidate {
	var cands []Candidate
	seen := map[string]bool{}

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if _, ok := extract.SupportedExtensions[ext]; !ok {
				return nil
			}
			if seen[path] {
				return nil
			}
			seen[path] = true

			info, err := d.Info()
			if err != nil {
				return nil
			}
			cands = append(cands, NewCandidate(path, info.Size()))
			return nil
		})
		if err != nil {
			log.Printf("⚠️ scan %s skipped: %v", dir, err)
		}
	}
	return cands
}
