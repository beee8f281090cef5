package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-concierge-be/internal/constant"
	"ai-concierge-be/internal/pkg/logger"
	"ai-concierge-be/internal/repository/memory"
	"ai-concierge-be/internal/repository/specification"
	"ai-concierge-be/internal/repository/unitofwork"
	"ai-concierge-be/pkg/reco/disclosure"
	"ai-concierge-be/pkg/reco/retrieval"
	"ai-concierge-be/pkg/reco/session"

	"golang.org/x/sync/singleflight"
)

type IRecommendationService interface {
	GetRecommendations(ctx context.Context, sess *session.Session, mode disclosure.Mode, limit int) (*disclosure.Set, error)
	// LoadSession rebuilds session turns from the stored chat events, for
	// callers that send only a session id.
	LoadSession(ctx context.Context, sessionID string) (*session.Session, error)
}

// recommendationService assembles disclosure-shaped recommendation sets with
// per-(session, mode) caching and single-flight coalescing.
type recommendationService struct {
	uowFactory   unitofwork.RepositoryFactory
	engine       *retrieval.Engine
	enricher     *disclosure.Enricher
	cache        *memory.RecommendationCache
	group        singleflight.Group
	defaultLimit int
	log          logger.ILogger
}

func NewRecommendationService(
	uowFactory unitofwork.RepositoryFactory,
	engine *retrieval.Engine,
	enricher *disclosure.Enricher,
	cache *memory.RecommendationCache,
	defaultLimit int,
	log logger.ILogger,
) IRecommendationService {
	if defaultLimit <= 0 {
		defaultLimit = constant.DefaultRecommendationLimit
	}
	return &recommendationService{
		uowFactory:   uowFactory,
		engine:       engine,
		enricher:     enricher,
		cache:        cache,
		defaultLimit: defaultLimit,
		log:          log,
	}
}

func (s *recommendationService) GetRecommendations(ctx context.Context, sess *session.Session, mode disclosure.Mode, limit int) (*disclosure.Set, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	// Anonymous one-shot: nothing to key a cache on
	if sess.ID == "" {
		return s.generate(ctx, sess, mode, limit)
	}

	if cached, ok := s.cache.Get(sess.ID, mode); ok && cached.TurnCount == sess.TurnCount() && cached.Limit == limit {
		return cached.Set, nil
	}

	// Coalesce concurrent identical requests into one retrieval. The key
	// includes turn count so a request racing a new turn computes fresh.
	key := fmt.Sprintf("%s|%s|%d|%d", sess.ID, mode, sess.TurnCount(), limit)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		set, degraded, genErr := s.generateChecked(ctx, sess, mode, limit)
		if genErr != nil {
			return nil, genErr
		}
		// A degraded set stays uncached so the next request can retry
		// generation instead of serving the gap for an hour
		if !degraded {
			s.cache.Save(sess.ID, mode, &memory.CachedSet{
				Set:       set,
				TurnCount: sess.TurnCount(),
				Limit:     limit,
			})
		}
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*disclosure.Set), nil
}

func (s *recommendationService) generate(ctx context.Context, sess *session.Session, mode disclosure.Mode, limit int) (*disclosure.Set, error) {
	set, _, err := s.generateChecked(ctx, sess, mode, limit)
	return set, err
}

func (s *recommendationService) generateChecked(ctx context.Context, sess *session.Session, mode disclosure.Mode, limit int) (*disclosure.Set, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	candidates, err := s.engine.Retrieve(ctx, uow, sess, limit)
	if err != nil {
		// Typed: ErrRetrievalUnavailable must reach the error middleware
		return nil, false, err
	}

	recs, err := disclosure.Apply(candidates, sess.Needs(), mode)
	if err != nil {
		return nil, false, err
	}

	degraded := false
	if mode == disclosure.ModeAdmin && len(recs) > 0 {
		if err := s.enricher.Enrich(ctx, sess, recs); err != nil {
			if !errors.Is(err, disclosure.ErrGenerationDegraded) {
				return nil, false, err
			}
			degraded = true
			s.log.Warn("recommendation", "generation degraded, serving structural set", map[string]interface{}{
				"session_id": sess.ID,
				"error":      err.Error(),
			})
		}
	}

	return &disclosure.Set{
		SessionID:       sess.ID,
		Mode:            mode,
		Recommendations: recs,
		GeneratedAt:     time.Now(),
	}, degraded, nil
}

func (s *recommendationService) LoadSession(ctx context.Context, sessionID string) (*session.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chatEvents, err := uow.ChatEventRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	// Question is what the widget asked, answer is the visitor's reply
	sess := session.New(sessionID, nil)
	for _, e := range chatEvents {
		if e.Question != "" {
			sess.Append(constant.ConversationRoleAssistant, e.Question)
		}
		if e.Answer != "" {
			sess.Append(constant.ConversationRoleUser, e.Answer)
		}
	}
	return sess, nil
}
