package dto

// LogEventRequest is the chat widget's event payload. Sequence is optional:
// retrying clients resend the same value so dispatch stays idempotent; when
// omitted the server assigns the next per-(session, question) ordinal.
type LogEventRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
	Status    string `json:"status" validate:"required"`
	Question  string `json:"question" validate:"required"`
	Answer    string `json:"answer"`
	Sequence  *int   `json:"sequence"`
}

type LogEventResponse struct {
	EventId  string `json:"event_id"`
	Sequence int    `json:"sequence"`
}

// UserInfo identifies the lead for the email bridge.
type UserInfo struct {
	CompanyName string `json:"company_name"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

// EmailRecommendationsRequest feeds the email-bridge projection endpoint.
type EmailRecommendationsRequest struct {
	SessionId    string            `json:"session_id" validate:"required"`
	Conversation []ConversationTurn `json:"conversation"`
	UserInfo     UserInfo          `json:"user_info"`
}

// EmailRecommendation is the admin set reprojected for the email bridge.
// CEBenefit is a pointer so degradation serializes as null, not "".
type EmailRecommendation struct {
	Rank        int     `json:"rank"`
	ServiceName string  `json:"service_name"`
	Category    string  `json:"category"`
	Summary     string  `json:"summary"`
	CEBenefit   *string `json:"ce_benefit"`
}

type EmailRecommendationsResponse struct {
	Success         bool                  `json:"success"`
	Recommendations []EmailRecommendation `json:"recommendations"`
	EmailSnippet    string                `json:"email_snippet"`
}
