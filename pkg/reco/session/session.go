package session

// Turn is one message of the widget conversation.
type Turn struct {
	Role string `json:"role"` // "user" | "assistant"
	Text string `json:"content"`
}

// Session is the conversational state a recommendation request is computed
// from. ID is an opaque token minted by the front-end and never parsed.
// Needs and company info are derived views: they are recomputed from the
// turns on every request, never incrementally patched.
type Session struct {
	ID    string
	Turns []Turn
}

// CompanyInfo holds the optional firmographics extracted from conversation.
type CompanyInfo struct {
	Industry string
	Size     string
}

func New(id string, turns []Turn) *Session {
	return &Session{ID: id, Turns: turns}
}

// Append adds a turn. Derived fields need no invalidation because they are
// computed on demand.
func (s *Session) Append(role, text string) {
	s.Turns = append(s.Turns, Turn{Role: role, Text: text})
}

// TurnCount is the cache-invalidation trigger for recommendation sets.
func (s *Session) TurnCount() int {
	return len(s.Turns)
}

// Needs returns the extracted-needs list for the current turns.
func (s *Session) Needs() []string {
	return ExtractNeeds(s.Turns)
}

// Company returns the derived company-info mapping for the current turns.
func (s *Session) Company() CompanyInfo {
	return ExtractCompanyInfo(s.Turns)
}
