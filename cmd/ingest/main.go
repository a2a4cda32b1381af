// Command ingest scans the configured directories and runs the full
// ingestion pipeline over every supported file, resolving freshness
// across the batch first.
package main

import (
	"context"
	"log"

	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/chunker"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/conf"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/data"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/embedding"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/extract"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/ingest"
)

func main() {
	cfg := conf.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ invalid configuration: %v", err)
	}

	d, cleanup, err := data.NewData(cfg)
	if err != nil {
		log.Fatalf("❌ data layer init failed: %v", err)
	}
	defer cleanup()

	embedder, err := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.AI.BaseURL,
		APIKey:    cfg.AI.APIKey,
		Model:     cfg.AI.Model,
		Dimension: cfg.AI.Dimension,
	})
	if err != nil {
		log.Fatalf("❌ embeddings client init failed: %v", err)
	}

	ch := chunker.New(
		chunker.WithSize(cfg.Ingest.ChunkSizeWords),
		chunker.WithOverlap(cfg.Ingest.ChunkOverlapWords),
		chunker.WithMinWords(cfg.Ingest.ChunkMinWords),
	)
	orchestrator := ingest.NewOrchestrator(d, d, embedder, extract.New(), ch, embedding.DefaultRetryPolicy())

	log.Printf("🚀 scanning %v", cfg.Ingest.ScanDirs)
	cands := ingest.Discover(cfg.Ingest.ScanDirs)
	log.Printf("📂 found %d candidate files", len(cands))

	summary, err := orchestrator.Run(context.Background(), cands)
	if err != nil {
		log.Fatalf("❌ ingestion run failed: %v", err)
	}

	log.Printf("🎉 done: %d processed (%d chunks), %d skipped, %d failed",
		summary.Processed, summary.Chunks, summary.Skipped, summary.Failed)
}
