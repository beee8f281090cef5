package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/repository/contract"
	"ai-concierge-be/internal/repository/specification"
	"ai-concierge-be/internal/repository/unitofwork"
	"ai-concierge-be/pkg/catalog"
	"ai-concierge-be/pkg/embedding"
	"ai-concierge-be/pkg/reco/session"

	"github.com/google/uuid"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	seen   []string
}

func (f *fakeEmbedder) Generate(text, _ string) (*embedding.EmbeddingResponse, error) {
	f.seen = append(f.seen, text)
	if f.err != nil {
		return nil, f.err
	}
	res := &embedding.EmbeddingResponse{}
	res.Embedding.Values = f.vector
	return res, nil
}

type fakeServiceRepo struct {
	services []*entity.Service
	err      error
}

func (f *fakeServiceRepo) Create(context.Context, *entity.Service) error  { return nil }
func (f *fakeServiceRepo) Update(context.Context, *entity.Service) error  { return nil }
func (f *fakeServiceRepo) Delete(context.Context, uuid.UUID) error        { return nil }
func (f *fakeServiceRepo) UpdateEmbedding(context.Context, uuid.UUID, []float32) error {
	return nil
}
func (f *fakeServiceRepo) FindOne(context.Context, ...specification.Specification) (*entity.Service, error) {
	return nil, nil
}
func (f *fakeServiceRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Service, error) {
	return f.services, f.err
}
func (f *fakeServiceRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(f.services)), nil
}
func (f *fakeServiceRepo) SearchSimilarWithScore(context.Context, []float32, int) ([]*contract.ScoredServiceRow, error) {
	return nil, nil
}

type fakeChatEventRepo struct{}

func (fakeChatEventRepo) Create(context.Context, *entity.ChatEvent) error { return nil }
func (fakeChatEventRepo) FindOne(context.Context, ...specification.Specification) (*entity.ChatEvent, error) {
	return nil, nil
}
func (fakeChatEventRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.ChatEvent, error) {
	return nil, nil
}
func (fakeChatEventRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return 0, nil
}
func (fakeChatEventRepo) NextOrdinal(context.Context, string, string) (int, error) { return 0, nil }

type fakeUow struct {
	serviceRepo contract.ServiceRepository
}

func (f *fakeUow) Begin(context.Context) error { return nil }
func (f *fakeUow) Commit() error               { return nil }
func (f *fakeUow) Rollback() error             { return nil }
func (f *fakeUow) ServiceRepository() contract.ServiceRepository {
	return f.serviceRepo
}
func (f *fakeUow) ChatEventRepository() contract.ChatEventRepository {
	return fakeChatEventRepo{}
}

var _ unitofwork.UnitOfWork = (*fakeUow)(nil)

func newTestCatalog(t *testing.T) (catalog.Index, []*entity.Service) {
	t.Helper()
	idx := catalog.NewMemoryIndex()

	vectors := [][]float32{
		{1, 0},
		{0.9, 0.1},
		{0, 1},
		{-1, 0},
		{-0.5, -0.5},
	}

	services := make([]*entity.Service, len(vectors))
	for i, vec := range vectors {
		id := uuid.MustParse("00000000-0000-0000-0000-00000000000" + string(rune('1'+i)))
		services[i] = &entity.Service{Id: id, Name: "svc"}
		if err := idx.Upsert(context.Background(), catalog.Entry{ServiceID: id, Vector: vec}); err != nil {
			t.Fatal(err)
		}
	}
	return idx, services
}

func TestRetrieveRanksAndTruncates(t *testing.T) {
	idx, services := newTestCatalog(t)
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	engine := NewEngine(embedder, idx)
	uow := &fakeUow{serviceRepo: &fakeServiceRepo{services: services}}

	sess := session.New("S1", []session.Turn{{Role: "user", Text: "cloud migration"}})

	candidates, err := engine.Retrieve(context.Background(), uow, sess, 3)
	if err != nil {
		t.Fatalf("Retrieve() = %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("len(candidates) = %d, want 3", len(candidates))
	}

	for i, c := range candidates {
		if c.Rank != i+1 {
			t.Errorf("candidates[%d].Rank = %d, want %d", i, c.Rank, i+1)
		}
		if i > 0 && c.Score > candidates[i-1].Score {
			t.Errorf("scores not non-increasing at %d", i)
		}
	}
	if candidates[0].Service.Id != services[0].Id {
		t.Errorf("top candidate = %s, want %s", candidates[0].Service.Id, services[0].Id)
	}
}

func TestRetrieveEmbeddingFailureIsTyped(t *testing.T) {
	idx, services := newTestCatalog(t)
	embedder := &fakeEmbedder{err: errors.New("provider down")}
	engine := NewEngine(embedder, idx)
	uow := &fakeUow{serviceRepo: &fakeServiceRepo{services: services}}

	_, err := engine.Retrieve(context.Background(), uow, session.New("S1", nil), 3)
	if !errors.Is(err, ErrRetrievalUnavailable) {
		t.Errorf("Retrieve() = %v, want ErrRetrievalUnavailable", err)
	}
}

func TestRetrieveHydrationFailureIsTyped(t *testing.T) {
	idx, _ := newTestCatalog(t)
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	engine := NewEngine(embedder, idx)
	uow := &fakeUow{serviceRepo: &fakeServiceRepo{err: errors.New("db down")}}

	_, err := engine.Retrieve(context.Background(), uow, session.New("S1", nil), 3)
	if !errors.Is(err, ErrRetrievalUnavailable) {
		t.Errorf("Retrieve() = %v, want ErrRetrievalUnavailable", err)
	}
}

func TestRetrieveSkipsRecordsMissingFromStore(t *testing.T) {
	idx, services := newTestCatalog(t)
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	engine := NewEngine(embedder, idx)
	// Store only knows the second-best record
	uow := &fakeUow{serviceRepo: &fakeServiceRepo{services: services[1:2]}}

	candidates, err := engine.Retrieve(context.Background(), uow, session.New("S1", nil), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(candidates))
	}
	if candidates[0].Service.Id != services[1].Id || candidates[0].Rank != 1 {
		t.Errorf("candidate = %+v", candidates[0])
	}
}

func TestRetrieveZeroLimit(t *testing.T) {
	idx, services := newTestCatalog(t)
	engine := NewEngine(&fakeEmbedder{vector: []float32{1, 0}}, idx)
	uow := &fakeUow{serviceRepo: &fakeServiceRepo{services: services}}

	candidates, err := engine.Retrieve(context.Background(), uow, session.New("S1", nil), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 0 {
		t.Errorf("len(candidates) = %d, want 0", len(candidates))
	}
}

func TestBuildQueryTextDeterministic(t *testing.T) {
	turns := []session.Turn{
		{Role: "user", Text: "We run a factory"},
		{Role: "assistant", Text: "Tell me more"},
		{Role: "user", Text: "Security audit is overdue"},
	}
	sess := session.New("S1", turns)

	first := BuildQueryText(sess)
	for i := 0; i < 20; i++ {
		if got := BuildQueryText(sess); got != first {
			t.Fatalf("BuildQueryText not deterministic: %q vs %q", got, first)
		}
	}

	if first == "" {
		t.Fatal("BuildQueryText returned empty query")
	}
	// Assistant turns stay out of the query body
	if contains := "Tell me more"; len(first) > 0 && strings.Contains(first, contains) {
		t.Errorf("query includes assistant turn: %q", first)
	}
	if !strings.Contains(first, "Needs: security") {
		t.Errorf("query missing needs line: %q", first)
	}
	if !strings.Contains(first, "Industry: manufacturing") {
		t.Errorf("query missing industry line: %q", first)
	}
}

func TestBuildQueryTextBoundsTurns(t *testing.T) {
	sess := session.New("S1", nil)
	for i := 0; i < 20; i++ {
		sess.Append("user", "turn number "+string(rune('a'+i)))
	}

	query := BuildQueryText(sess)
	if strings.Contains(query, "turn number a") {
		t.Errorf("query retained a turn past the window: %q", query)
	}
	if !strings.Contains(query, "turn number "+string(rune('a'+19))) {
		t.Errorf("query missing the latest turn: %q", query)
	}
}
