package disclosure

import (
	"strings"
	"time"

	"ai-concierge-be/pkg/reco/retrieval"
	"ai-concierge-be/pkg/reco/session"
	"ai-concierge-be/pkg/utils"

	"github.com/google/uuid"
)

// Recommendation is one disclosed candidate. The user-visible fields live at
// the top level; everything restricted sits behind Admin, which Apply leaves
// nil for user mode. There is no way to serialize pricing, partner benefit,
// case studies, talk script or match reason out of a user-mode set.
type Recommendation struct {
	Rank        int
	ServiceID   uuid.UUID
	ServiceName string
	Category    string
	Summary     string
	Score       float64

	Admin *AdminDetail
}

// AdminDetail carries the restricted fields. TalkScript and CEBenefit are
// filled by the Enricher; Degraded marks that generation was unavailable and
// those two were omitted rather than fabricated.
type AdminDetail struct {
	MatchReason    string
	Features       []string
	Pricing        string
	PartnerBenefit string
	CaseStudies    []string
	TalkScript     string
	CEBenefit      string
	Degraded       bool
}

// Set is one generated recommendation response for a (session, mode) pair.
type Set struct {
	SessionID       string
	Mode            Mode
	Recommendations []Recommendation
	GeneratedAt     time.Time
}

// Apply projects ranked candidates into the mode's field subset. Pure
// function, no I/O; admin enrichment (LLM) happens separately so this stays
// trivially testable.
func Apply(candidates []retrieval.Candidate, needs []string, mode Mode) ([]Recommendation, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		rec := Recommendation{
			Rank:        c.Rank,
			ServiceID:   c.Service.Id,
			ServiceName: c.Service.Name,
			Category:    c.Service.Category,
			Summary:     utils.FirstSentences(c.Service.Description, 2),
			Score:       c.Score,
		}

		if mode == ModeAdmin {
			rec.Admin = &AdminDetail{
				MatchReason:    matchReason(c, needs),
				Features:       c.Service.Features,
				Pricing:        c.Service.Pricing,
				PartnerBenefit: c.Service.PartnerBenefit,
				CaseStudies:    c.Service.CaseStudies,
			}
		}

		recs = append(recs, rec)
	}

	return recs, nil
}

// matchReason names which extracted needs the candidate's features satisfy.
// Deterministic, derived only from stored fields; no generation involved.
func matchReason(c retrieval.Candidate, needs []string) string {
	haystack := c.Service.Description + "\n" + strings.Join(c.Service.Features, "\n")

	var satisfied []string
	for _, need := range needs {
		if session.NeedMatchesText(need, haystack) {
			satisfied = append(satisfied, need)
		}
	}

	if len(satisfied) == 0 {
		return "High semantic similarity to the conversation"
	}
	return "Addresses stated needs: " + strings.Join(satisfied, ", ")
}
