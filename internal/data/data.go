// Package data wires the persistent stores (Postgres with pgvector,
// MinIO for raw blobs, Redis for the ask cache) and implements the
// store queries the pipeline and retrieval engine depend on.
package data

import (
	"context"
	"fmt"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/conf"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/model"
)

// Data holds all store handles.
type Data struct {
	DB     *gorm.DB
	Minio  *minio.Client
	Redis  *redis.Client
	bucket string
}

// NewData connects Postgres (running migrations and enabling pgvector),
// MinIO and Redis. Postgres and MinIO are mandatory; a dead Redis only
// disables the ask cache and is logged, not fatal.
func NewData(cfg *conf.Config) (*Data, func(), error) {
	// 1. Postgres
	db, err := gorm.Open(postgres.Open(cfg.Data.DatabaseSource), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, nil, fmt.Errorf("enable pgvector: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Document{},
		&model.Chunk{},
		&model.MemberRecord{},
		&model.FinancialRecord{},
	); err != nil {
		return nil, nil, fmt.Errorf("schema migration failed: %w", err)
	}
	log.Println("✅ database schema migrated")

	// 2. MinIO
	minioClient, err := minio.New(cfg.Data.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Data.MinioAccessKey, cfg.Data.MinioSecretKey, ""),
		Secure: false,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("minio init: %w", err)
	}

	bucket := cfg.Data.MinioBucket
	if bucket == "" {
		bucket = "sacco-docs"
	}
	exists, err := minioClient.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, nil, fmt.Errorf("check minio bucket: %w", err)
	}
	if !exists {
		if err := minioClient.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, nil, fmt.Errorf("create minio bucket: %w", err)
		}
		log.Printf("🎉 minio bucket %q created", bucket)
	} else {
		log.Printf("✅ minio connected (bucket %q)", bucket)
	}

	// 3. Redis (ask cache, best effort)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Data.RedisAddr,
		Password: cfg.Data.RedisPassword,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("⚠️ redis unavailable, ask cache disabled: %v", err)
	} else {
		log.Println("✅ redis connected")
	}

	d := &Data{DB: db, Minio: minioClient, Redis: rdb, bucket: bucket}

	cleanup := func() {
		log.Println("closing data layer resources...")
		if sqlDB, err := d.DB.DB(); err == nil {
			sqlDB.Close()
		}
		d.Redis.Close()
	}

	return d, cleanup, nil
}
