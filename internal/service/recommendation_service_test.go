package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/repository/contract"
	"ai-concierge-be/internal/repository/memory"
	"ai-concierge-be/internal/repository/specification"
	"ai-concierge-be/internal/repository/unitofwork"
	"ai-concierge-be/pkg/catalog"
	"ai-concierge-be/pkg/embedding"
	"ai-concierge-be/pkg/llm"
	"ai-concierge-be/pkg/reco/disclosure"
	"ai-concierge-be/pkg/reco/retrieval"
	"ai-concierge-be/pkg/reco/session"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// stubEmbedder counts calls so tests can tell a cache hit from a fresh
// retrieval. gate, when set, blocks Generate until the channel closes.
type stubEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
	gate  chan struct{}
}

func (s *stubEmbedder) Generate(_ string, _ string) (*embedding.EmbeddingResponse, error) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	res := &embedding.EmbeddingResponse{}
	res.Embedding.Values = []float32{1, 0}
	return res, nil
}

func (s *stubEmbedder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubServiceRepo struct {
	services []*entity.Service
}

func (s *stubServiceRepo) Create(context.Context, *entity.Service) error { return nil }
func (s *stubServiceRepo) Update(context.Context, *entity.Service) error { return nil }
func (s *stubServiceRepo) Delete(context.Context, uuid.UUID) error       { return nil }
func (s *stubServiceRepo) UpdateEmbedding(context.Context, uuid.UUID, []float32) error {
	return nil
}
func (s *stubServiceRepo) FindOne(context.Context, ...specification.Specification) (*entity.Service, error) {
	return nil, nil
}
func (s *stubServiceRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Service, error) {
	return s.services, nil
}
func (s *stubServiceRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(s.services)), nil
}
func (s *stubServiceRepo) SearchSimilarWithScore(context.Context, []float32, int) ([]*contract.ScoredServiceRow, error) {
	return nil, nil
}

type stubChatEventRepo struct {
	events []*entity.ChatEvent
}

func (s *stubChatEventRepo) Create(context.Context, *entity.ChatEvent) error { return nil }
func (s *stubChatEventRepo) FindOne(context.Context, ...specification.Specification) (*entity.ChatEvent, error) {
	return nil, nil
}
func (s *stubChatEventRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.ChatEvent, error) {
	return s.events, nil
}
func (s *stubChatEventRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(s.events)), nil
}
func (s *stubChatEventRepo) NextOrdinal(context.Context, string, string) (int, error) {
	return len(s.events), nil
}

type stubUow struct {
	services *stubServiceRepo
	events   *stubChatEventRepo
}

func (u *stubUow) Begin(context.Context) error { return nil }
func (u *stubUow) Commit() error               { return nil }
func (u *stubUow) Rollback() error             { return nil }
func (u *stubUow) ServiceRepository() contract.ServiceRepository {
	return u.services
}
func (u *stubUow) ChatEventRepository() contract.ChatEventRepository {
	return u.events
}

type stubFactory struct {
	uow *stubUow
}

func (f *stubFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type stubLLM struct {
	out string
	err error
}

func (s *stubLLM) Chat(context.Context, []llm.Message, ...llm.Option) (string, error) {
	return s.out, s.err
}

func (s *stubLLM) Generate(context.Context, string, ...llm.Option) (string, error) {
	return s.out, s.err
}

type recoFixture struct {
	svc      IRecommendationService
	embedder *stubEmbedder
	cache    *memory.RecommendationCache
	factory  *stubFactory
}

func newRecoFixture(t *testing.T, provider llm.LLMProvider) *recoFixture {
	return newRecoFixtureWithDefaultLimit(t, provider, 3)
}

func newRecoFixtureWithDefaultLimit(t *testing.T, provider llm.LLMProvider, defaultLimit int) *recoFixture {
	t.Helper()

	idx := catalog.NewMemoryIndex()
	vectors := [][]float32{
		{1, 0},
		{0, 1},
		{-1, 0},
	}
	services := make([]*entity.Service, len(vectors))
	for i, vec := range vectors {
		id := uuid.MustParse("00000000-0000-0000-0000-00000000000" + string(rune('1'+i)))
		services[i] = &entity.Service{
			Id:          id,
			Name:        "svc-" + string(rune('1'+i)),
			Category:    "security",
			Description: "Security audit service. Covers ISO27001 gap analysis.",
			Features:    []string{"gap analysis"},
		}
		if err := idx.Upsert(context.Background(), catalog.Entry{ServiceID: id, Vector: vec}); err != nil {
			t.Fatal(err)
		}
	}

	embedder := &stubEmbedder{}
	factory := &stubFactory{uow: &stubUow{
		services: &stubServiceRepo{services: services},
		events:   &stubChatEventRepo{},
	}}
	cache := memory.NewRecommendationCache()

	svc := NewRecommendationService(
		factory,
		retrieval.NewEngine(embedder, idx),
		disclosure.NewEnricher(provider),
		cache,
		defaultLimit,
		nopLogger{},
	)
	return &recoFixture{svc: svc, embedder: embedder, cache: cache, factory: factory}
}

func securitySession(id string) *session.Session {
	return session.New(id, []session.Turn{
		{Role: "user", Text: "We need a security audit"},
	})
}

func TestGetRecommendationsCachesPerSessionAndMode(t *testing.T) {
	f := newRecoFixture(t, &stubLLM{out: "Ask about audits.\n---\nHigh-margin retainer."})
	ctx := context.Background()
	sess := securitySession("S1")

	first, err := f.svc.GetRecommendations(ctx, sess, disclosure.ModeUser, 2)
	if err != nil {
		t.Fatalf("GetRecommendations() = %v", err)
	}
	if len(first.Recommendations) != 2 {
		t.Fatalf("len(Recommendations) = %d, want 2", len(first.Recommendations))
	}

	second, err := f.svc.GetRecommendations(ctx, sess, disclosure.ModeUser, 2)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Error("second call did not serve the cached set")
	}
	if f.embedder.callCount() != 1 {
		t.Errorf("embedder called %d times, want 1", f.embedder.callCount())
	}

	// Admin mode is a separate cache entry, so it retrieves again
	if _, err := f.svc.GetRecommendations(ctx, sess, disclosure.ModeAdmin, 2); err != nil {
		t.Fatal(err)
	}
	if f.embedder.callCount() != 2 {
		t.Errorf("embedder called %d times after admin request, want 2", f.embedder.callCount())
	}
}

func TestGetRecommendationsNewTurnInvalidatesCache(t *testing.T) {
	f := newRecoFixture(t, &stubLLM{out: "a\n---\nb"})
	ctx := context.Background()
	sess := securitySession("S1")

	if _, err := f.svc.GetRecommendations(ctx, sess, disclosure.ModeUser, 2); err != nil {
		t.Fatal(err)
	}

	sess.Append("user", "Also our bank needs compliance help")
	if _, err := f.svc.GetRecommendations(ctx, sess, disclosure.ModeUser, 2); err != nil {
		t.Fatal(err)
	}
	if f.embedder.callCount() != 2 {
		t.Errorf("embedder called %d times, want 2 after new turn", f.embedder.callCount())
	}
}

func TestGetRecommendationsDifferentLimitBypassesCache(t *testing.T) {
	f := newRecoFixture(t, &stubLLM{out: "a\n---\nb"})
	ctx := context.Background()
	sess := securitySession("S1")

	set, err := f.svc.GetRecommendations(ctx, sess, disclosure.ModeUser, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Recommendations) != 1 {
		t.Fatalf("len(Recommendations) = %d, want 1", len(set.Recommendations))
	}

	set, err = f.svc.GetRecommendations(ctx, sess, disclosure.ModeUser, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Recommendations) != 3 {
		t.Errorf("len(Recommendations) = %d, want 3 after limit change", len(set.Recommendations))
	}
	if f.embedder.callCount() != 2 {
		t.Errorf("embedder called %d times, want 2", f.embedder.callCount())
	}
}

func TestGetRecommendationsCoalescesConcurrentRequests(t *testing.T) {
	f := newRecoFixture(t, &stubLLM{out: "a\n---\nb"})
	f.embedder.gate = make(chan struct{})
	sess := securitySession("S1")

	const n = 8
	results := make([]*disclosure.Set, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			set, err := f.svc.GetRecommendations(context.Background(), sess, disclosure.ModeUser, 2)
			if err != nil {
				t.Errorf("GetRecommendations() = %v", err)
				return
			}
			results[i] = set
		}(i)
	}

	// Let every request reach the in-flight window before releasing
	time.Sleep(50 * time.Millisecond)
	close(f.embedder.gate)
	wg.Wait()

	if f.embedder.callCount() != 1 {
		t.Errorf("embedder called %d times under concurrency, want 1", f.embedder.callCount())
	}
	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatal("coalesced requests returned different sets")
		}
	}
}

func TestGetRecommendationsRetrievalFailurePropagates(t *testing.T) {
	f := newRecoFixture(t, &stubLLM{out: "a\n---\nb"})
	f.embedder.err = errors.New("provider down")
	sess := securitySession("S1")

	_, err := f.svc.GetRecommendations(context.Background(), sess, disclosure.ModeUser, 2)
	if !errors.Is(err, retrieval.ErrRetrievalUnavailable) {
		t.Fatalf("GetRecommendations() = %v, want ErrRetrievalUnavailable", err)
	}

	// Failure must not poison the cache
	if _, ok := f.cache.Get("S1", disclosure.ModeUser); ok {
		t.Error("failed generation left an entry in the cache")
	}
}

func TestGetRecommendationsDegradedSetNotCached(t *testing.T) {
	f := newRecoFixture(t, &stubLLM{err: errors.New("connection refused")})
	ctx := context.Background()
	sess := securitySession("S1")

	set, err := f.svc.GetRecommendations(ctx, sess, disclosure.ModeAdmin, 2)
	if err != nil {
		t.Fatalf("GetRecommendations() = %v, degraded generation must still serve", err)
	}
	for i, rec := range set.Recommendations {
		if rec.Admin == nil || !rec.Admin.Degraded {
			t.Errorf("Recommendations[%d] not marked degraded", i)
		}
	}

	// Next request retries generation instead of serving the gap
	if _, err := f.svc.GetRecommendations(ctx, sess, disclosure.ModeAdmin, 2); err != nil {
		t.Fatal(err)
	}
	if f.embedder.callCount() != 2 {
		t.Errorf("embedder called %d times, want 2 when degraded sets stay uncached", f.embedder.callCount())
	}
}

func TestGetRecommendationsConfiguredDefaultLimit(t *testing.T) {
	f := newRecoFixtureWithDefaultLimit(t, &stubLLM{out: "a\n---\nb"}, 2)
	sess := securitySession("S1")

	set, err := f.svc.GetRecommendations(context.Background(), sess, disclosure.ModeUser, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Recommendations) != 2 {
		t.Errorf("len(Recommendations) = %d, want the configured default 2", len(set.Recommendations))
	}
}

func TestGetRecommendationsAnonymousSessionUncached(t *testing.T) {
	f := newRecoFixture(t, &stubLLM{out: "a\n---\nb"})
	ctx := context.Background()

	sess := session.New("", []session.Turn{{Role: "user", Text: "security audit"}})
	for i := 0; i < 2; i++ {
		if _, err := f.svc.GetRecommendations(ctx, sess, disclosure.ModeUser, 2); err != nil {
			t.Fatal(err)
		}
	}
	if f.embedder.callCount() != 2 {
		t.Errorf("embedder called %d times for anonymous session, want 2", f.embedder.callCount())
	}
}

func TestLoadSessionMapsQuestionAndAnswerRoles(t *testing.T) {
	f := newRecoFixture(t, &stubLLM{out: "a\n---\nb"})
	f.factory.uow.events.events = []*entity.ChatEvent{
		{SessionId: "S1", Question: "What challenge are you facing?", Answer: "Security audit backlog", Ordinal: 0},
		{SessionId: "S1", Question: "How large is your team?", Answer: "250 employees", Ordinal: 1},
	}

	sess, err := f.svc.LoadSession(context.Background(), "S1")
	if err != nil {
		t.Fatalf("LoadSession() = %v", err)
	}
	if sess.ID != "S1" {
		t.Errorf("ID = %q", sess.ID)
	}

	turns := sess.Turns
	if len(turns) != 4 {
		t.Fatalf("len(turns) = %d, want 4", len(turns))
	}
	if turns[0].Role != "assistant" || turns[0].Text != "What challenge are you facing?" {
		t.Errorf("turns[0] = %+v", turns[0])
	}
	if turns[1].Role != "user" || turns[1].Text != "Security audit backlog" {
		t.Errorf("turns[1] = %+v", turns[1])
	}
	if turns[3].Role != "user" || turns[3].Text != "250 employees" {
		t.Errorf("turns[3] = %+v", turns[3])
	}
}
