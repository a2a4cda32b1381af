// Package retrieval answers a question by fusing vector similarity,
// keyword matches and structured aggregates into one ranked context.
package retrieval

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/data"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/model"
)

// NoContextMarker is returned when nothing at all matched. It is an
// explicit answer, never an error: query-time failures degrade, they do
// not surface.
const NoContextMarker = "NO_CONTEXT: no relevant SACCO documents found for this question."

// keywordScore is the fixed high-confidence weight for exact-term hits,
// so they are never crowded out by weak semantic matches.
const keywordScore = 0.95

// structuredLimit bounds structured aggregate queries.
const structuredLimit = 200

// Store is the read surface of the document store.
type Store interface {
	SearchChunksByVector(ctx context.Context, vec []float32, limit int) ([]data.ChunkHit, error)
	SearchChunksByKeyword(ctx context.Context, tokens []string, limit int) ([]data.ChunkHit, error)
	LatestMemberDividends(ctx context.Context, limit int) ([]data.MemberDividend, error)
	MemberRecordsByName(ctx context.Context, name string, limit int) ([]model.MemberRecord, error)
	RecentFinancialLines(ctx context.Context, limit int) ([]model.FinancialRecord, error)
}

// Embedder embeds a single question.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Engine is the hybrid retrieval engine. Collaborators are injected so
// the fusion logic is testable with fakes.
type Engine struct {
	store    Store
	embedder Embedder
	floor    float64
}

// NewEngine builds an Engine with the given similarity floor.
func NewEngine(store Store, embedder Embedder, similarityFloor float64) *Engine {
	return &Engine{store: store, embedder: embedder, floor: similarityFloor}
}

// capitalizedRunRe matches a run of two or more capitalized words, the
// cue for a member lookup. Every adjacent pair in a run is a candidate
// name, so a sentence-initial capital ("Has Jane Wanjiku...") does not
// shadow the real one.
var capitalizedRunRe = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)+\b`)

func nameCandidates(question string) []string {
	var names []string
	for _, run := range capitalizedRunRe.FindAllString(question, -1) {
		words := strings.Fields(run)
		for i := 0; i+1 < len(words); i++ {
			names = append(names, words[i]+" "+words[i+1])
		}
	}
	return names
}

// Answer produces the fused context for one question. Fuzzy matches are
// competitively ranked and truncated to topK; the structured block is
// authoritative and appended verbatim, outside the ranking.
func (e *Engine) Answer(ctx context.Context, question string, topK int) string {
	if topK <= 0 {
		topK = 15
	}

	structured := e.structuredContext(ctx, question)

	hits := e.vectorHits(ctx, question, topK)
	hits = append(hits, e.keywordHits(ctx, question, topK)...)
	fused := fuse(hits, topK)

	var b strings.Builder
	for _, h := range fused {
		fmt.Fprintf(&b, "=== %s ===\n%s\n\n", h.Filename, h.Text)
	}
	if structured != "" {
		b.WriteString(structured)
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return NoContextMarker
	}
	return out
}

// vectorHits embeds the question and returns chunks above the similarity
// floor. An embedding failure degrades to no vector hits.
func (e *Engine) vectorHits(ctx context.Context, question string, topK int) []data.ChunkHit {
	vec, err := e.embedder.Embed(ctx, question)
	if err != nil {
		log.Printf("⚠️ question embedding failed, vector search skipped: %v", err)
		return nil
	}

	hits, err := e.store.SearchChunksByVector(ctx, vec, topK*3)
	if err != nil {
		log.Printf("⚠️ vector search failed: %v", err)
		return nil
	}

	var kept []data.ChunkHit
	for _, h := range hits {
		if h.Score >= e.floor {
			kept = append(kept, h)
		}
	}
	return kept
}

func (e *Engine) keywordHits(ctx context.Context, question string, topK int) []data.ChunkHit {
	tokens := queryTokens(question)
	if len(tokens) == 0 {
		return nil
	}

	hits, err := e.store.SearchChunksByKeyword(ctx, tokens, topK)
	if err != nil {
		log.Printf("⚠️ keyword search failed: %v", err)
		return nil
	}
	for i := range hits {
		hits[i].Score = keywordScore
	}
	return hits
}

// fuse dedupes by chunk, keeping the best score, then ranks and
// truncates.
func fuse(hits []data.ChunkHit, topK int) []data.ChunkHit {
	best := map[uint]data.ChunkHit{}
	for _, h := range hits {
		if cur, ok := best[h.ChunkID]; !ok || h.Score > cur.Score {
			best[h.ChunkID] = h
		}
	}

	fused := make([]data.ChunkHit, 0, len(best))
	for _, h := range best {
		fused = append(fused, h)
	}
	sort.SliceStable(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return fused[i].ChunkID < fused[j].ChunkID
	})

	if len(fused) > topK {
		fused = fused[:topK]
	}
	return fused
}

// structuredContext pattern-matches the question against intent keywords
// and renders the matching aggregate as labeled lines. Structured data is
// authoritative; errors here degrade to an empty block.
func (e *Engine) structuredContext(ctx context.Context, question string) string {
	lower := strings.ToLower(question)

	for _, name := range nameCandidates(question) {
		if block := e.memberByName(ctx, name); block != "" {
			return block
		}
	}

	if strings.Contains(lower, "member") || strings.Contains(lower, "dividend") {
		if block := e.memberRoster(ctx); block != "" {
			return block
		}
	}

	if containsAny(lower, []string{"financial", "audit", "income", "expense", "balance"}) {
		return e.financialLines(ctx)
	}

	return ""
}

func (e *Engine) memberByName(ctx context.Context, name string) string {
	records, err := e.store.MemberRecordsByName(ctx, name, structuredLimit)
	if err != nil {
		log.Printf("⚠️ member lookup failed: %v", err)
		return ""
	}
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("=== MEMBER RECORDS ===\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%s: dividend KES %.2f%s\n", r.MemberName, r.Dividend, periodSuffix(r.Period))
	}
	return b.String()
}

func (e *Engine) memberRoster(ctx context.Context) string {
	members, err := e.store.LatestMemberDividends(ctx, structuredLimit)
	if err != nil {
		log.Printf("⚠️ member roster query failed: %v", err)
		return ""
	}
	if len(members) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== ALL MEMBERS (%d) ===\n", len(members))
	for _, m := range members {
		fmt.Fprintf(&b, "%s: dividend KES %.2f%s\n", m.MemberName, m.Dividend, periodSuffix(m.Period))
	}
	return b.String()
}

func (e *Engine) financialLines(ctx context.Context) string {
	lines, err := e.store.RecentFinancialLines(ctx, structuredLimit)
	if err != nil {
		log.Printf("⚠️ financial lines query failed: %v", err)
		return ""
	}
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("=== FINANCIAL LINES ===\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "%s: KES %.2f%s\n", l.LineItem, l.Amount, periodSuffix(l.Period))
	}
	return b.String()
}

func queryTokens(question string) []string {
	fields := strings.Fields(strings.ToLower(question))
	seen := map[string]bool{}
	var tokens []string
	for _, f := range fields {
		f = strings.Trim(f, ".,!?\"'()")
		if len(f) <= 2 || seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}

func periodSuffix(p *time.Time) string {
	if p == nil {
		return ""
	}
	return " (" + p.Format("Jan 2006") + ")"
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
