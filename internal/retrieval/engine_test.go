package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/data"
	"github.com/nylageneralsuppliesltd-lab/soyosoyosacco123/internal/model"
)

type fakeStore struct {
	vectorHits  []data.ChunkHit
	keywordHits []data.ChunkHit
	members     []data.MemberDividend
	byName      map[string][]model.MemberRecord
	financial   []model.FinancialRecord

	keywordTokens []string
	vectorLimit   int
}

func (f *fakeStore) SearchChunksByVector(_ context.Context, _ []float32, limit int) ([]data.ChunkHit, error) {
	f.vectorLimit = limit
	return f.vectorHits, nil
}

func (f *fakeStore) SearchChunksByKeyword(_ context.Context, tokens []string, _ int) ([]data.ChunkHit, error) {
	f.keywordTokens = tokens
	return f.keywordHits, nil
}

func (f *fakeStore) LatestMemberDividends(_ context.Context, _ int) ([]data.MemberDividend, error) {
	return f.members, nil
}

func (f *fakeStore) MemberRecordsByName(_ context.Context, name string, _ int) ([]model.MemberRecord, error) {
	return f.byName[name], nil
}

func (f *fakeStore) RecentFinancialLines(_ context.Context, _ int) ([]model.FinancialRecord, error) {
	return f.financial, nil
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return f.vec, f.err
}

func TestAnswerFusesAndRanks(t *testing.T) {
	store := &fakeStore{
		vectorHits: []data.ChunkHit{
			{ChunkID: 1, Filename: "bylaws.pdf", Text: "strong match", Score: 0.9},
			{ChunkID: 2, Filename: "bylaws.pdf", Text: "weak match", Score: 0.1}, // below floor
			{ChunkID: 3, Filename: "policy.txt", Text: "medium match", Score: 0.4},
		},
		keywordHits: []data.ChunkHit{
			{ChunkID: 3, Filename: "policy.txt", Text: "medium match"}, // dup of vector hit
			{ChunkID: 4, Filename: "loans.csv", Text: "exact term hit"},
		},
	}
	e := NewEngine(store, &fakeEmbedder{vec: []float32{1, 0}}, 0.25)

	out := e.Answer(context.Background(), "what does the bylaw say about loans", 10)

	// the below-floor hit is gone
	assert.NotContains(t, out, "weak match")

	// chunk 3 appears in both result sets: dedupe keeps the keyword
	// weight, so it and chunk 4 outrank the 0.9 vector hit
	iMedium := strings.Index(out, "medium match")
	iExact := strings.Index(out, "exact term hit")
	iStrong := strings.Index(out, "strong match")
	require.True(t, iMedium >= 0 && iExact >= 0 && iStrong >= 0)
	assert.Less(t, iMedium, iExact, "equal scores break ties by chunk id")
	assert.Less(t, iExact, iStrong, "keyword weight beats 0.9 vector hit")

	// and only once
	assert.Equal(t, strings.LastIndex(out, "medium match"), iMedium)

	// fetches extra before filtering
	assert.Equal(t, 30, store.vectorLimit)

	// short tokens are not searched
	for _, tok := range store.keywordTokens {
		assert.Greater(t, len(tok), 2)
	}
}

// Scenario D: a question naming a member returns that member's structured
// record verbatim, regardless of what vector search finds.
func TestAnswerMemberNameLookup(t *testing.T) {
	aug := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{
		byName: map[string][]model.MemberRecord{
			"Jane Wanjiku": {{MemberName: "Jane Wanjiku", Dividend: 1250, Period: &aug}},
		},
	}
	e := NewEngine(store, &fakeEmbedder{err: errors.New("down")}, 0.25)

	out := e.Answer(context.Background(), "How much was Jane Wanjiku paid?", 5)

	assert.Contains(t, out, "=== MEMBER RECORDS ===")
	assert.Contains(t, out, "Jane Wanjiku: dividend KES 1250.00 (Aug 2025)")
}

// A sentence-initial capitalized word must not shadow the member's name:
// every adjacent capitalized pair is tried until one has records.
func TestAnswerMemberNameAfterLeadingCapital(t *testing.T) {
	aug := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{
		byName: map[string][]model.MemberRecord{
			"Jane Wanjiku": {{MemberName: "Jane Wanjiku", Dividend: 1250, Period: &aug}},
			"John Mwangi":  {{MemberName: "John Mwangi", Dividend: 800}},
		},
	}
	e := NewEngine(store, &fakeEmbedder{err: errors.New("down")}, 0.25)

	out := e.Answer(context.Background(), "Has Jane Wanjiku been paid?", 5)
	assert.Contains(t, out, "Jane Wanjiku: dividend KES 1250.00 (Aug 2025)")

	out = e.Answer(context.Background(), "Was John Mwangi paid?", 5)
	assert.Contains(t, out, "John Mwangi: dividend KES 800.00")
}

func TestAnswerMemberRoster(t *testing.T) {
	store := &fakeStore{
		members: []data.MemberDividend{
			{MemberName: "Jane Wanjiku", Dividend: 1250},
			{MemberName: "John Mwangi", Dividend: 800},
		},
	}
	e := NewEngine(store, &fakeEmbedder{vec: []float32{1}}, 0.25)

	out := e.Answer(context.Background(), "list all members and their dividends", 5)
	assert.Contains(t, out, "=== ALL MEMBERS (2) ===")
	assert.Contains(t, out, "John Mwangi: dividend KES 800.00")
}

func TestAnswerFinancialIntent(t *testing.T) {
	store := &fakeStore{
		financial: []model.FinancialRecord{
			{LineItem: "Interest income", Amount: 125000},
		},
	}
	e := NewEngine(store, &fakeEmbedder{vec: []float32{1}}, 0.25)

	out := e.Answer(context.Background(), "summarize the financial position", 5)
	assert.Contains(t, out, "=== FINANCIAL LINES ===")
	assert.Contains(t, out, "Interest income: KES 125000.00")
}

// Structured block comes after ranked chunks, verbatim and unranked.
func TestAnswerStructuredAppended(t *testing.T) {
	store := &fakeStore{
		vectorHits: []data.ChunkHit{{ChunkID: 1, Filename: "f.pdf", Text: "chunk text", Score: 0.8}},
		members:    []data.MemberDividend{{MemberName: "Jane Wanjiku", Dividend: 1250}},
	}
	e := NewEngine(store, &fakeEmbedder{vec: []float32{1}}, 0.25)

	out := e.Answer(context.Background(), "member dividends overview", 5)
	require.Contains(t, out, "chunk text")
	assert.Greater(t, strings.Index(out, "=== ALL MEMBERS"), strings.Index(out, "chunk text"))
}

// Embedding down, no keyword or structured matches either: an explicit
// marker, never an error.
func TestAnswerDegradesToMarker(t *testing.T) {
	e := NewEngine(&fakeStore{}, &fakeEmbedder{err: errors.New("down")}, 0.25)
	out := e.Answer(context.Background(), "anything at all", 5)
	assert.Equal(t, NoContextMarker, out)
}

func TestAnswerTruncatesToTopK(t *testing.T) {
	var hits []data.ChunkHit
	for i := uint(1); i <= 30; i++ {
		hits = append(hits, data.ChunkHit{ChunkID: i, Filename: "f.pdf", Text: "t", Score: 0.5})
	}
	store := &fakeStore{vectorHits: hits}
	e := NewEngine(store, &fakeEmbedder{vec: []float32{1}}, 0.25)

	out := e.Answer(context.Background(), "question words here", 4)
	assert.Equal(t, 4, strings.Count(out, "=== f.pdf ==="))
}
