package session

import (
	"regexp"
	"sort"
	"strings"
)

// Keyword tables for need extraction. Deterministic by construction: output
// order follows the fixed order of needTags, not map iteration.
var needKeywords = map[string][]string{
	"cost-reduction":   {"cost", "expensive", "budget", "cheaper", "saving"},
	"security":         {"security", "breach", "compliance", "audit", "iso27001"},
	"recruiting":       {"hiring", "recruit", "talent", "engineer shortage", "staffing"},
	"marketing":        {"marketing", "leads", "seo", "advertising", "branding"},
	"automation":       {"automation", "manual work", "spreadsheet", "rpa", "workflow"},
	"data-analytics":   {"analytics", "dashboard", "data", "kpi", "reporting"},
	"cloud-migration":  {"cloud", "aws", "migration", "on-premise", "infrastructure"},
	"customer-support": {"support", "helpdesk", "inquiries", "call center", "chatbot"},
}

// needTags fixes the emission order of extracted needs.
var needTags = []string{
	"cost-reduction",
	"security",
	"recruiting",
	"marketing",
	"automation",
	"data-analytics",
	"cloud-migration",
	"customer-support",
}

var industryKeywords = map[string][]string{
	"manufacturing": {"manufacturing", "factory", "plant"},
	"retail":        {"retail", "store", "e-commerce", "ecommerce"},
	"finance":       {"bank", "finance", "insurance", "fintech"},
	"healthcare":    {"hospital", "clinic", "healthcare", "medical"},
	"software":      {"saas", "software", "startup", "tech company"},
	"logistics":     {"logistics", "warehouse", "shipping", "delivery"},
}

var industryOrder = []string{"manufacturing", "retail", "finance", "healthcare", "software", "logistics"}

var employeeCountPattern = regexp.MustCompile(`(\d+)\s*(?:employees|people|staff)`)

// ExtractNeeds scans user turns for the need-keyword table and returns the
// matched tags in table order. Assistant turns are ignored so the engine's
// own replies can't amplify themselves.
func ExtractNeeds(turns []Turn) []string {
	text := joinUserTurns(turns)
	if text == "" {
		return nil
	}

	matched := make(map[string]bool)
	for tag, words := range needKeywords {
		for _, w := range words {
			if strings.Contains(text, w) {
				matched[tag] = true
				break
			}
		}
	}

	var needs []string
	for _, tag := range needTags {
		if matched[tag] {
			needs = append(needs, tag)
		}
	}
	return needs
}

// ExtractCompanyInfo derives industry and size from user turns. Both fields
// stay empty when nothing matches; callers treat them as optional.
func ExtractCompanyInfo(turns []Turn) CompanyInfo {
	text := joinUserTurns(turns)
	info := CompanyInfo{}
	if text == "" {
		return info
	}

	for _, industry := range industryOrder {
		for _, w := range industryKeywords[industry] {
			if strings.Contains(text, w) {
				info.Industry = industry
				break
			}
		}
		if info.Industry != "" {
			break
		}
	}

	if m := employeeCountPattern.FindStringSubmatch(text); m != nil {
		info.Size = sizeBand(m[1])
	} else if strings.Contains(text, "startup") || strings.Contains(text, "small business") {
		info.Size = "small"
	} else if strings.Contains(text, "enterprise") {
		info.Size = "enterprise"
	}

	return info
}

func sizeBand(digits string) string {
	// Compare numerically without strconv noise: pad-free digit strings
	// sort correctly by (length, value).
	n := len(digits)
	switch {
	case n <= 2: // < 100
		return "small"
	case n == 3: // 100-999
		return "mid"
	default:
		return "enterprise"
	}
}

func joinUserTurns(turns []Turn) string {
	var parts []string
	for _, t := range turns {
		if t.Role == "user" {
			parts = append(parts, strings.ToLower(t.Text))
		}
	}
	return strings.Join(parts, "\n")
}

// NeedMatchesText reports whether free text (a feature line, a description)
// satisfies a need tag, using the same keyword table as extraction. The tag
// itself also counts, so catalogs tagged with the canonical names match.
func NeedMatchesText(tag, text string) bool {
	text = strings.ToLower(text)
	if strings.Contains(text, tag) {
		return true
	}
	for _, w := range needKeywords[tag] {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// RegisteredNeedTags exposes the known tags, sorted, for seeding and admin
// introspection.
func RegisteredNeedTags() []string {
	tags := make([]string, len(needTags))
	copy(tags, needTags)
	sort.Strings(tags)
	return tags
}
