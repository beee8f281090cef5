package disclosure

import (
	"strings"
	"testing"

	"ai-concierge-be/internal/entity"
	"ai-concierge-be/pkg/reco/retrieval"

	"github.com/google/uuid"
)

func sampleCandidates() []retrieval.Candidate {
	return []retrieval.Candidate{
		{
			Service: &entity.Service{
				Id:             uuid.MustParse("00000000-0000-0000-0000-000000000001"),
				Name:           "SentinelDesk Security Audit",
				Category:       "security",
				Description:    "Annual security audit with ISO27001 gap analysis. Includes penetration test. Remediation roadmap ships within two weeks.",
				Features:       []string{"ISO27001 gap analysis", "External penetration test"},
				Pricing:        "$8,500 flat",
				PartnerBenefit: "Fixed finder fee per closed audit",
				CaseStudies:    []string{"Regional bank passed its first audit"},
			},
			Score: 92.5,
			Rank:  1,
		},
		{
			Service: &entity.Service{
				Id:          uuid.MustParse("00000000-0000-0000-0000-000000000002"),
				Name:        "InsightBoard Analytics",
				Category:    "data-analytics",
				Description: "Managed KPI dashboards.",
				Pricing:     "$1,200/month",
			},
			Score: 71.0,
			Rank:  2,
		},
	}
}

func TestApplyUserModeWithholdsRestrictedFields(t *testing.T) {
	recs, err := Apply(sampleCandidates(), []string{"security"}, ModeUser)
	if err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}

	for i, rec := range recs {
		if rec.Admin != nil {
			t.Errorf("recs[%d].Admin = %+v, want nil in user mode", i, rec.Admin)
		}
	}

	first := recs[0]
	if first.Rank != 1 || first.ServiceName != "SentinelDesk Security Audit" || first.Category != "security" {
		t.Errorf("unexpected user fields: %+v", first)
	}
	if first.Score != 92.5 {
		t.Errorf("Score = %v, want 92.5", first.Score)
	}
}

func TestApplySummaryIsTwoSentences(t *testing.T) {
	recs, err := Apply(sampleCandidates(), nil, ModeUser)
	if err != nil {
		t.Fatal(err)
	}

	want := "Annual security audit with ISO27001 gap analysis. Includes penetration test."
	if recs[0].Summary != want {
		t.Errorf("Summary = %q, want %q", recs[0].Summary, want)
	}
	if strings.Contains(recs[0].Summary, "Remediation roadmap") {
		t.Error("summary leaked a third sentence")
	}
}

func TestApplyAdminModeExposesDetail(t *testing.T) {
	recs, err := Apply(sampleCandidates(), []string{"security"}, ModeAdmin)
	if err != nil {
		t.Fatal(err)
	}

	admin := recs[0].Admin
	if admin == nil {
		t.Fatal("Admin detail missing in admin mode")
	}
	if admin.Pricing != "$8,500 flat" {
		t.Errorf("Pricing = %q", admin.Pricing)
	}
	if admin.PartnerBenefit == "" || len(admin.Features) != 2 || len(admin.CaseStudies) != 1 {
		t.Errorf("structured fields incomplete: %+v", admin)
	}
	if !strings.Contains(admin.MatchReason, "security") {
		t.Errorf("MatchReason = %q, want mention of satisfied need", admin.MatchReason)
	}

	// Candidate with no need overlap falls back to the similarity wording
	if got := recs[1].Admin.MatchReason; !strings.Contains(got, "similarity") {
		t.Errorf("fallback MatchReason = %q", got)
	}
}

func TestApplyRejectsUnknownMode(t *testing.T) {
	if _, err := Apply(sampleCandidates(), nil, Mode("root")); err == nil {
		t.Error("Apply with unknown mode should fail")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "user", want: ModeUser},
		{in: "admin", want: ModeAdmin},
		{in: "", wantErr: true},
		{in: "superuser", wantErr: true},
		{in: "Admin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseMode(%q) expected error", tt.in)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseMode(%q) = (%v, %v), want %v", tt.in, got, err, tt.want)
			}
		})
	}
}
