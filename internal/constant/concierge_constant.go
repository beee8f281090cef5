package constant

const (
	ConversationRoleUser      = "user"
	ConversationRoleAssistant = "assistant"

	// Recognized chat log event tags. The classifier table is open: new tags
	// are registered at wiring time, these are just the built-ins.
	QuestionDocumentEmailSent   = "document_email_sent"
	QuestionDocumentEmailFailed = "document_email_failed"

	// Fixed call-to-action attached to every user-mode recommendation reply.
	UserModeCTAMessage = "Want a detailed service guide? Leave your company name and email and we'll send one over."

	// Default candidate count when the request omits a limit.
	DefaultRecommendationLimit = 3
)
