package controller

import (
	"ai-concierge-be/internal/constant"
	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/pkg/serverutils"
	"ai-concierge-be/internal/service"
	"ai-concierge-be/pkg/reco/disclosure"
	"ai-concierge-be/pkg/reco/session"

	"github.com/gofiber/fiber/v2"
)

type IRagController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
}

type ragController struct {
	recommendationService service.IRecommendationService
}

func NewRagController(recommendationService service.IRecommendationService) IRagController {
	return &ragController{
		recommendationService: recommendationService,
	}
}

func (c *ragController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/rag")
	h.Post("search", c.Search)
}

func (c *ragController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	mode, err := disclosure.ParseMode(req.Mode)
	if err != nil {
		return &serverutils.ValidationError{Message: err.Error()}
	}

	turns := make([]session.Turn, 0, len(req.ConversationHistory)+1)
	for _, t := range req.ConversationHistory {
		turns = append(turns, session.Turn{Role: t.Role, Text: t.Content})
	}
	if req.Query != "" {
		turns = append(turns, session.Turn{Role: constant.ConversationRoleUser, Text: req.Query})
	}

	sess := session.New(req.SessionId, turns)

	set, err := c.recommendationService.GetRecommendations(ctx.Context(), sess, mode, req.Limit)
	if err != nil {
		return err
	}

	res := dto.SearchResponse{
		Recommendations: toRecommendationItems(set.Recommendations),
	}
	if mode == disclosure.ModeUser {
		res.CtaMessage = constant.UserModeCTAMessage
	}

	return ctx.JSON(res)
}

func toRecommendationItems(recs []disclosure.Recommendation) []dto.RecommendationItem {
	items := make([]dto.RecommendationItem, 0, len(recs))
	for _, rec := range recs {
		item := dto.RecommendationItem{
			Rank:        rec.Rank,
			ServiceId:   rec.ServiceID.String(),
			ServiceName: rec.ServiceName,
			Category:    rec.Category,
			Summary:     rec.Summary,
			Score:       rec.Score,
		}
		if rec.Admin != nil {
			item.Admin = &dto.AdminRecommendationDetail{
				MatchReason:    rec.Admin.MatchReason,
				Features:       rec.Admin.Features,
				Pricing:        rec.Admin.Pricing,
				PartnerBenefit: rec.Admin.PartnerBenefit,
				CaseStudies:    rec.Admin.CaseStudies,
				TalkScript:     rec.Admin.TalkScript,
				CEBenefit:      rec.Admin.CEBenefit,
				Degraded:       rec.Admin.Degraded,
			}
		}
		items = append(items, item)
	}
	return items
}
