package content

import "strings"

// Category labels assigned by Classify.
const (
	CategoryStrategy   = "Strategy & Consulting"
	CategoryLeadership = "Leadership & Culture"
	CategoryData       = "Data & Analytics"
	CategoryRisk       = "Risk & Compliance"
	CategoryProduct    = "Product & UX"
	CategoryEducation  = "Education & Certifications"
	CategoryAI         = "AI & Automation"
	CategoryTechnology = "Technology & Operations"
	CategoryProjects   = "Project Portfolio"
)

// DefaultCategory is assigned when no rule matches.
const DefaultCategory = CategoryStrategy

type categoryRule struct {
	keywords []string
	label    string
}

// categoryRules is evaluated in order, first match wins. Order is load
// bearing: "governance" must resolve to Strategy & Consulting even though it
// would plausibly fit Risk & Compliance.
var categoryRules = []categoryRule{
	{[]string{"strategy", "consulting", "governance"}, CategoryStrategy},
	{[]string{"leadership", "culture", "talent", "team"}, CategoryLeadership},
	{[]string{"data", "analytics", "insight"}, CategoryData},
	{[]string{"risk", "compliance", "audit", "security"}, CategoryRisk},
	{[]string{"product", "ux", "design"}, CategoryProduct},
	{[]string{"education", "certification", "learning"}, CategoryEducation},
	{[]string{"ai", "automation", "llm"}, CategoryAI},
	{[]string{"devops", "cloud", "technology", "operations", "engineering", "infrastructure"}, CategoryTechnology},
	{[]string{"project", "portfolio", "case-study"}, CategoryProjects},
}

// Classify maps an item's tags and filename to a category label using the
// ordered substring ruleset. Pure and deterministic.
func Classify(tags []string, filename string) string {
	haystack := strings.ToLower(strings.Join(tags, " ") + " " + filename)

	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(haystack, keyword) {
				return rule.label
			}
		}
	}

	return DefaultCategory
}

// Categories returns every label Classify can produce.
func Categories() []string {
	labels := make([]string, 0, len(categoryRules))
	for _, rule := range categoryRules {
		labels = append(labels, rule.label)
	}
	return labels
}
