package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Answerer produces the fused retrieval context for one question.
type Answerer interface {
	Answer(ctx context.Context, question string, topK int) string
}

// ChatService runs retrieval with a best-effort Redis cache in front.
// Cache failures are logged and the question goes to the engine anyway.
type ChatService struct {
	engine Answerer
	cache  *redis.Client
	ttl    time.Duration
	topK   int
}

func NewChatService(engine Answerer, cache *redis.Client, ttl time.Duration, topK int) *ChatService {
	return &ChatService{engine: engine, cache: cache, ttl: ttl, topK: topK}
}

// Ask returns the retrieval context for a question and whether it was
// served from cache.
func (s *ChatService) Ask(ctx context.Context, question string, topK int) (string, bool) {
	if topK <= 0 {
		topK = s.topK
	}
	key := cacheKey(question, topK)

	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key).Result(); err == nil {
			return hit, true
		} else if err != redis.Nil {
			log.Printf("⚠️ ask cache read failed: %v", err)
		}
	}

	answer := s.engine.Answer(ctx, question, topK)

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, answer, s.ttl).Err(); err != nil {
			log.Printf("⚠️ ask cache write failed: %v", err)
		}
	}
	return answer, false
}

// cacheKey normalizes the question so trivially different phrasings of
// the same text share an entry.
func cacheKey(question string, topK int) string {
	norm := strings.Join(strings.Fields(strings.ToLower(question)), " ")
	sum := sha256.Sum256([]byte(norm))
	return fmt.Sprintf("ask:%d:%s", topK, hex.EncodeToString(sum[:16]))
}
