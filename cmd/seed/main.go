package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/repository/implementation"
	"ai-concierge-be/internal/repository/specification"
	"ai-concierge-be/pkg/database"
	"ai-concierge-be/pkg/reco/session"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Starter catalog so a fresh environment has something to recommend.
// Embeddings are not seeded; run the reindex endpoint (or create via the API)
// to populate vectors.
func starterCatalog() []entity.Service {
	return []entity.Service{
		{
			Name:           "CloudLift Migration Suite",
			Category:       "cloud",
			Description:    "Assessment-driven migration of on-premise workloads to AWS. Covers inventory, dependency mapping and phased cutover.",
			Features:       []string{"Workload assessment", "Automated dependency mapping", "Phased cutover planning", "Post-migration cost review"},
			Pricing:        "From $12,000 per migration wave",
			CompanySize:    "mid",
			Industries:     []string{"manufacturing", "retail", "software"},
			PartnerBenefit: "20% referral margin on the first-year contract",
			CaseStudies:    []string{"Regional retailer moved 40 workloads with zero downtime"},
		},
		{
			Name:           "SentinelDesk Security Audit",
			Category:       "security",
			Description:    "Annual security audit with ISO27001 gap analysis. Includes penetration test and compliance reporting.",
			Features:       []string{"ISO27001 gap analysis", "External penetration test", "Compliance report pack", "Remediation roadmap"},
			Pricing:        "$8,500 flat, annual retainer available",
			CompanySize:    "enterprise",
			Industries:     []string{"finance", "healthcare"},
			PartnerBenefit: "Fixed $1,500 finder fee per closed audit",
			CaseStudies:    []string{"Regional bank passed its first ISO27001 audit after the remediation roadmap"},
		},
		{
			Name:           "FlowBot RPA Starter",
			Category:       "automation",
			Description:    "Robotic process automation for back-office spreadsheet work. Ships with 10 prebuilt workflow templates.",
			Features:       []string{"10 prebuilt workflow templates", "No-code workflow editor", "Audit trail", "Spreadsheet connectors"},
			Pricing:        "$490/month per department",
			CompanySize:    "small",
			Industries:     []string{"logistics", "manufacturing"},
			PartnerBenefit: "Recurring 15% of subscription revenue",
			CaseStudies:    []string{"Logistics firm cut invoice processing from 3 days to 4 hours"},
		},
		{
			Name:           "TalentBridge Recruiting",
			Category:       "recruiting",
			Description:    "Engineer-focused recruiting service with a vetted talent pool. Success-fee pricing, no retainer.",
			Features:       []string{"Vetted engineering talent pool", "Technical screening included", "Success-fee only pricing"},
			Pricing:        "25% of first-year salary, success fee",
			CompanySize:    "mid",
			Industries:     []string{"software"},
			PartnerBenefit: "10% of the success fee for referred placements",
			CaseStudies:    []string{"SaaS startup filled 5 backend roles in 8 weeks"},
		},
		{
			Name:           "InsightBoard Analytics",
			Category:       "data-analytics",
			Description:    "Managed KPI dashboards on top of your existing data warehouse. Weekly reporting pack included.",
			Features:       []string{"Managed dashboard build", "Weekly KPI reporting pack", "Warehouse integration", "Anomaly alerts"},
			Pricing:        "$1,200/month",
			CompanySize:    "mid",
			Industries:     []string{"retail", "finance"},
			PartnerBenefit: "12% recurring margin while the subscription is active",
			CaseStudies:    []string{"E-commerce chain consolidated 9 spreadsheets into one dashboard"},
		},
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	repo := implementation.NewServiceRepository(db)
	ctx := context.Background()

	color.Cyan("Seeding service catalog...")

	created, skipped := 0, 0
	for _, svc := range starterCatalog() {
		existing, err := repo.FindAll(ctx, specification.ByCategory{Category: svc.Category})
		if err != nil {
			color.Red("Error checking category %s: %v", svc.Category, err)
			continue
		}
		if containsName(existing, svc.Name) {
			color.Yellow("Service %q already exists, skipping", svc.Name)
			skipped++
			continue
		}

		svc.Id = uuid.New()
		svc.CreatedAt = time.Now()
		if err := repo.Create(ctx, &svc); err != nil {
			color.Red("Error creating %q: %v", svc.Name, err)
			continue
		}
		color.Green("Created service: %s (%s)", svc.Name, svc.Category)
		created++

		// A service whose text matches no registered need tag can only be
		// found through raw semantic similarity, never need-based reasons
		if tags := matchedNeedTags(&svc); len(tags) == 0 {
			color.Yellow("Warning: %q matches no registered need tag", svc.Name)
		}
	}

	color.Cyan("Catalog seeding completed: %d created, %d skipped", created, skipped)
	color.Cyan("Run POST /api/catalog/v1/:id/reindex (or restart with the embed consumer) to build embeddings.")
}

func matchedNeedTags(svc *entity.Service) []string {
	text := svc.Category + "\n" + svc.Description + "\n" + strings.Join(svc.Features, "\n")

	var tags []string
	for _, tag := range session.RegisteredNeedTags() {
		if session.NeedMatchesText(tag, text) {
			tags = append(tags, tag)
		}
	}
	return tags
}

func containsName(services []*entity.Service, name string) bool {
	for _, s := range services {
		if s.Name == name {
			return true
		}
	}
	return false
}
