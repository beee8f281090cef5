package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/repository/specification"
	"ai-concierge-be/internal/repository/unitofwork"
	"ai-concierge-be/pkg/catalog"
	"ai-concierge-be/pkg/embedding"
	"ai-concierge-be/pkg/reco/session"

	"github.com/google/uuid"
)

// ErrRetrievalUnavailable marks an embedding/index capability failure.
// Callers must surface it, never substitute an empty candidate list: an
// outage has to stay distinguishable from "no relevant services found".
var ErrRetrievalUnavailable = errors.New("retrieval unavailable")

// Candidate is one ranked catalog hit.
type Candidate struct {
	Service *entity.Service
	Score   float64 // 0..100
	Rank    int     // 1-based
}

// Engine turns session state into ranked candidates.
type Engine struct {
	embedder embedding.EmbeddingProvider
	index    catalog.Index
}

func NewEngine(embedder embedding.EmbeddingProvider, index catalog.Index) *Engine {
	return &Engine{
		embedder: embedder,
		index:    index,
	}
}

// Recent user turns folded into the query; bounded so long sessions stay
// within embedding input limits.
const maxQueryTurns = 6

// BuildQueryText derives the retrieval query from session state. It must be
// deterministic for identical turns, otherwise the per-session cache would
// serve stale sets against a changed query.
func BuildQueryText(sess *session.Session) string {
	var userTurns []string
	for _, t := range sess.Turns {
		if t.Role == "user" {
			userTurns = append(userTurns, strings.TrimSpace(t.Text))
		}
	}
	if len(userTurns) > maxQueryTurns {
		userTurns = userTurns[len(userTurns)-maxQueryTurns:]
	}

	var b strings.Builder
	b.WriteString(strings.Join(userTurns, "\n"))

	if needs := sess.Needs(); len(needs) > 0 {
		b.WriteString("\nNeeds: ")
		b.WriteString(strings.Join(needs, ", "))
	}
	if company := sess.Company(); company.Industry != "" {
		b.WriteString("\nIndustry: ")
		b.WriteString(company.Industry)
	}

	return b.String()
}

// Retrieve embeds the session query and ranks catalog hits, truncated to
// limit. Candidates come back score-descending with 1-based ranks; ties were
// already broken by the index (ascending id).
func (e *Engine) Retrieve(ctx context.Context, uow unitofwork.UnitOfWork, sess *session.Session, limit int) ([]Candidate, error) {
	if limit <= 0 {
		return []Candidate{}, nil
	}

	queryText := BuildQueryText(sess)

	embeddingRes, err := e.embedder.Generate(queryText, embedding.TaskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding generation failed: %v", ErrRetrievalUnavailable, err)
	}

	matches, err := e.index.Query(ctx, embeddingRes.Embedding.Values, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: index query failed: %v", ErrRetrievalUnavailable, err)
	}
	if len(matches) == 0 {
		return []Candidate{}, nil
	}

	records, err := e.hydrate(ctx, uow, matches)
	if err != nil {
		return nil, fmt.Errorf("%w: candidate hydration failed: %v", ErrRetrievalUnavailable, err)
	}

	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		svc, ok := records[m.ServiceID]
		if !ok {
			continue // removed from catalog after indexing
		}
		candidates = append(candidates, Candidate{
			Service: svc,
			Score:   m.Score,
			Rank:    len(candidates) + 1,
		})
	}

	return candidates, nil
}

func (e *Engine) hydrate(ctx context.Context, uow unitofwork.UnitOfWork, matches []catalog.Match) (map[uuid.UUID]*entity.Service, error) {
	ids := make([]uuid.UUID, len(matches))
	for i, m := range matches {
		ids[i] = m.ServiceID
	}

	services, err := uow.ServiceRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}

	records := make(map[uuid.UUID]*entity.Service, len(services))
	for _, s := range services {
		records[s.Id] = s
	}
	return records, nil
}
