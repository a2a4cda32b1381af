package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/chunker"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/conf"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/data"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/embedding"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/extract"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/handler"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/ingest"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/retrieval"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/service"
)

func main() {
	// 1. Configuration
	cfg := conf.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ invalid configuration: %v", err)
	}

	// 2. Data layer (Postgres + pgvector, MinIO, Redis)
	d, cleanup, err := data.NewData(cfg)
	if err != nil {
		log.Fatalf("❌ data layer init failed: %v", err)
	}
	defer cleanup()

	// 3. Embeddings client
	embedder, err := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.AI.BaseURL,
		APIKey:    cfg.AI.APIKey,
		Model:     cfg.AI.Model,
		Dimension: cfg.AI.Dimension,
	})
	if err != nil {
		log.Fatalf("❌ embeddings client init failed: %v", err)
	}

	// 4. Pipeline and retrieval services
	ch := chunker.New(
		chunker.WithSize(cfg.Ingest.ChunkSizeWords),
		chunker.WithOverlap(cfg.Ingest.ChunkOverlapWords),
		chunker.WithMinWords(cfg.Ingest.ChunkMinWords),
	)
	orchestrator := ingest.NewOrchestrator(d, d, embedder, extract.New(), ch, embedding.DefaultRetryPolicy())
	engine := retrieval.NewEngine(d, embedder, cfg.Search.SimilarityFloor)

	chatService := service.NewChatService(engine, d.Redis, cfg.Search.CacheTTL, cfg.Search.TopK)
	fileService := service.NewFileService(d, orchestrator)

	// 5. Handlers
	askHandler := handler.NewAskHandler(chatService)
	fileHandler := handler.NewFileHandler(fileService)

	// 6. Gin web server
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 7. Routes
	api := r.Group("/api/v1")
	{
		api.POST("/ask", askHandler.Ask)
		api.POST("/files/upload", fileHandler.Upload)
		api.GET("/files", fileHandler.List)
		api.DELETE("/files/:id", fileHandler.Delete)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	log.Printf("🚀 SACCO assistant backend listening on :%s", cfg.App.Port)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("❌ server failed: %v", err)
	}
}
