package controller

import (
	"strings"

	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/pkg/serverutils"
	"ai-concierge-be/internal/service"
	"ai-concierge-be/pkg/reco/disclosure"
	"ai-concierge-be/pkg/reco/session"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Log(ctx *fiber.Ctx) error
	Recommendations(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatEventService      service.IChatEventService
	recommendationService service.IRecommendationService
}

func NewChatbotController(
	chatEventService service.IChatEventService,
	recommendationService service.IRecommendationService,
) IChatbotController {
	return &chatbotController{
		chatEventService:      chatEventService,
		recommendationService: recommendationService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chatbot")
	h.Post("log", c.Log)
	h.Post("recommendations", c.Recommendations)
}

func (c *chatbotController) Log(ctx *fiber.Ctx) error {
	var req dto.LogEventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatEventService.Log(ctx.Context(), &req)
	if err != nil {
		return err
	}

	// Ack reflects persistence only; notification outcome is the relay's
	return ctx.JSON(serverutils.SuccessResponse("Event logged", res))
}

// Recommendations is the email-bridge projection: always admin-shaped
// upstream, reprojected to the bridge's flat format.
func (c *chatbotController) Recommendations(ctx *fiber.Ctx) error {
	var req dto.EmailRecommendationsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sess, err := c.buildSession(ctx, &req)
	if err != nil {
		return err
	}

	set, err := c.recommendationService.GetRecommendations(ctx.Context(), sess, disclosure.ModeAdmin, 0)
	if err != nil {
		return err
	}

	items := make([]dto.EmailRecommendation, 0, len(set.Recommendations))
	for _, rec := range set.Recommendations {
		item := dto.EmailRecommendation{
			Rank:        rec.Rank,
			ServiceName: rec.ServiceName,
			Category:    rec.Category,
			Summary:     rec.Summary,
		}
		if rec.Admin != nil && !rec.Admin.Degraded && rec.Admin.CEBenefit != "" {
			benefit := rec.Admin.CEBenefit
			item.CEBenefit = &benefit
		}
		items = append(items, item)
	}

	return ctx.JSON(dto.EmailRecommendationsResponse{
		Success:         true,
		Recommendations: items,
		EmailSnippet:    buildEmailSnippet(req.UserInfo, items),
	})
}

func (c *chatbotController) buildSession(ctx *fiber.Ctx, req *dto.EmailRecommendationsRequest) (*session.Session, error) {
	if len(req.Conversation) > 0 {
		turns := make([]session.Turn, 0, len(req.Conversation))
		for _, t := range req.Conversation {
			turns = append(turns, session.Turn{Role: t.Role, Text: t.Content})
		}
		return session.New(req.SessionId, turns), nil
	}
	return c.recommendationService.LoadSession(ctx.Context(), req.SessionId)
}

func buildEmailSnippet(user dto.UserInfo, items []dto.EmailRecommendation) string {
	var b strings.Builder
	name := user.Name
	if name == "" {
		name = "there"
	}
	b.WriteString("Hi " + name + ",\n\n")
	b.WriteString("Based on your conversation, these services look like the best fit:\n\n")
	for _, item := range items {
		b.WriteString(item.ServiceName + " (" + item.Category + ")\n")
		b.WriteString("  " + item.Summary + "\n")
	}
	b.WriteString("\nReply to this email and we'll set up a walkthrough.\n")
	return b.String()
}
