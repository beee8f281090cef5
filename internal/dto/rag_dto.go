package dto

// ConversationTurn mirrors the widget's chat history format.
type ConversationTurn struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content"`
}

// SearchRequest drives /api/rag/search. SessionId is optional: with it the
// per-session cache applies, without it the search is a one-shot.
type SearchRequest struct {
	Query               string             `json:"query"`
	ConversationHistory []ConversationTurn `json:"conversation_history"`
	Mode                string             `json:"mode" validate:"required"`
	Limit               int                `json:"limit"`
	SessionId           string             `json:"session_id"`
}

// AdminRecommendationDetail is present only in admin-mode responses.
type AdminRecommendationDetail struct {
	MatchReason    string   `json:"match_reason"`
	Features       []string `json:"features"`
	Pricing        string   `json:"pricing"`
	PartnerBenefit string   `json:"partner_benefit"`
	CaseStudies    []string `json:"case_studies"`
	TalkScript     string   `json:"talk_script,omitempty"`
	CEBenefit      string   `json:"ce_benefit,omitempty"`
	Degraded       bool     `json:"degraded,omitempty"`
}

type RecommendationItem struct {
	Rank        int     `json:"rank"`
	ServiceId   string  `json:"service_id"`
	ServiceName string  `json:"service_name"`
	Category    string  `json:"category"`
	Summary     string  `json:"summary"`
	Score       float64 `json:"score"`

	Admin *AdminRecommendationDetail `json:"admin,omitempty"`
}

type SearchResponse struct {
	Recommendations []RecommendationItem `json:"recommendations"`
	CtaMessage      string               `json:"cta_message,omitempty"`
}
