package disclosure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-concierge-be/pkg/llm"
	"ai-concierge-be/pkg/reco/session"
)

// ErrGenerationDegraded reports that the LLM was unavailable while enriching
// an admin set. Recoverable: callers keep the structural recommendations and
// serve them with the generated fields omitted.
var ErrGenerationDegraded = errors.New("recommendation generation degraded")

// Enricher fills the generated admin fields (talk script, CE benefit pitch)
// on top of the structural ones Apply produced.
type Enricher struct {
	llmProvider llm.LLMProvider
}

func NewEnricher(llmProvider llm.LLMProvider) *Enricher {
	return &Enricher{llmProvider: llmProvider}
}

// Enrich populates TalkScript and CEBenefit for every admin-mode
// recommendation in place. On the first provider failure it marks all
// remaining recommendations degraded and returns ErrGenerationDegraded;
// partial results already generated are kept.
func (e *Enricher) Enrich(ctx context.Context, sess *session.Session, recs []Recommendation) error {
	if e.llmProvider == nil {
		markDegraded(recs)
		return fmt.Errorf("%w: no llm provider configured", ErrGenerationDegraded)
	}

	company := sess.Company()
	needs := sess.Needs()

	for i := range recs {
		if recs[i].Admin == nil {
			continue
		}

		prompt := buildEnrichPrompt(recs[i], needs, company)
		out, err := e.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.4))
		if err != nil {
			markDegraded(recs[i:])
			return fmt.Errorf("%w: %v", ErrGenerationDegraded, err)
		}

		script, benefit := splitEnrichOutput(out)
		recs[i].Admin.TalkScript = script
		recs[i].Admin.CEBenefit = benefit
	}

	return nil
}

func markDegraded(recs []Recommendation) {
	for i := range recs {
		if recs[i].Admin != nil && recs[i].Admin.TalkScript == "" {
			recs[i].Admin.Degraded = true
		}
	}
}

func buildEnrichPrompt(rec Recommendation, needs []string, company session.CompanyInfo) string {
	var b strings.Builder
	b.WriteString("You are assisting a customer engineer preparing a sales conversation.\n")
	b.WriteString("Service: ")
	b.WriteString(rec.ServiceName)
	b.WriteString(" (")
	b.WriteString(rec.Category)
	b.WriteString(")\n")
	b.WriteString("Summary: ")
	b.WriteString(rec.Summary)
	b.WriteString("\n")
	if rec.Admin != nil {
		if len(rec.Admin.Features) > 0 {
			b.WriteString("Features: ")
			b.WriteString(strings.Join(rec.Admin.Features, "; "))
			b.WriteString("\n")
		}
		if rec.Admin.PartnerBenefit != "" {
			b.WriteString("Partner benefit: ")
			b.WriteString(rec.Admin.PartnerBenefit)
			b.WriteString("\n")
		}
	}
	if len(needs) > 0 {
		b.WriteString("Customer needs: ")
		b.WriteString(strings.Join(needs, ", "))
		b.WriteString("\n")
	}
	if company.Industry != "" {
		b.WriteString("Customer industry: ")
		b.WriteString(company.Industry)
		b.WriteString("\n")
	}
	if company.Size != "" {
		b.WriteString("Customer size: ")
		b.WriteString(company.Size)
		b.WriteString("\n")
	}
	b.WriteString("\nWrite two sections separated by the line '---'.\n")
	b.WriteString("Section 1: a short talk script (3-4 sentences) the engineer can open with.\n")
	b.WriteString("Section 2: one sentence on why introducing this service benefits the partner, personalized to the customer above.\n")
	return b.String()
}

// splitEnrichOutput separates the two prompt sections. A model that ignores
// the separator still yields a usable script with an empty benefit line.
func splitEnrichOutput(out string) (script, benefit string) {
	parts := strings.SplitN(out, "---", 2)
	script = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		benefit = strings.TrimSpace(parts[1])
	}
	return script, benefit
}
