package assistant

// Category is a legal document class with the analysis points shown for it
type Category struct {
	Name    string   `json:"name"`
	Metrics []string `json:"metrics"`
}

// Category names
const (
	CategoryLegalNotice      = "Legal Notice"
	CategoryOwnership        = "Ownership Documents"
	CategoryContracts        = "Contracts & Agreements"
	CategoryFinancial        = "Financial Documents"
	CategoryTermsPrivacy     = "Terms & Conditions / Privacy Policies"
	CategoryIntellectualProp = "Intellectual Property Documents"
	CategoryCriminalOffense  = "Criminal Offense Documents"
	CategoryRegulatory       = "Regulatory Compliance Documents"
	CategoryEmployment       = "Employment Documents"
	CategoryCourtJudgments   = "Court Judgments & Legal Precedents"
	FallbackCategory         = CategoryContracts
)

var categories = []Category{
	{CategoryLegalNotice, []string{
		"Severity Score", "Violations & Broken Rules", "Legal Consequences", "Actionable Steps",
		"Urgency Detection", "Tone Analysis", "Recommended Actions",
	}},
	{CategoryOwnership, []string{
		"Ownership Rights & Obligations", "Transfer, Leasing, Sale, Mortgaging Clauses",
		"Financial Liabilities", "Terms & Conditions", "Important Dates", "Document Validity", "Summary Type",
	}},
	{CategoryContracts, []string{
		"Parties Involved & Roles", "Terms & Conditions", "Termination Clauses", "Penalties for Breach",
		"Severity Score", "Obligations & Rights", "Actionable Steps",
	}},
	{CategoryFinancial, []string{
		"Financial Obligations", "Coverage Details", "Deadlines & Payment Schedules",
		"Legal Implications", "Severity Score", "Urgency Detection", "Risk Analysis",
	}},
	{CategoryTermsPrivacy, []string{
		"User Rights & Restrictions", "Data Usage & Privacy Clauses", "Liability Clauses",
		"Termination & Suspension Rules", "Severity Score", "Personal Implications", "Suggested Actions",
	}},
	{CategoryIntellectualProp, []string{
		"Ownership & Usage Rights", "Infringement Clauses", "Exclusivity & Licensing Terms",
		"Penalties for Violation", "Severity Score", "Urgency Detection", "Recommended Actions",
	}},
	{CategoryCriminalOffense, []string{
		"Charges Filed", "Potential Penalties", "Required Actions", "Severity Score",
		"Urgency Detection", "Tone Analysis", "Suggested Actions",
	}},
	{CategoryRegulatory, []string{
		"Compliance Requirements", "Penalties for Non-Compliance", "Renewal Deadlines & Conditions",
		"Guidelines for Rectification", "Severity Score", "Urgency Detection", "Recommended Actions",
	}},
	{CategoryEmployment, []string{
		"Terms of Employment", "Termination Conditions", "Confidentiality Clauses",
		"Breach Consequences", "Severity Score", "Urgency Detection", "Suggested Actions",
	}},
	{CategoryCourtJudgments, []string{
		"Summary of Judgment", "Legal Basis", "Potential Consequences",
		"Severity Score", "Urgency Detection", "Recommended Actions",
	}},
}

// Categories returns the known categories in display order
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Name: c.Name, Metrics: append([]string(nil), c.Metrics...)}
	}
	return out
}

// CategoryNames returns the category names in display order
func CategoryNames() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// IsCategory reports whether name is a known category
func IsCategory(name string) bool {
	for _, c := range categories {
		if c.Name == name {
			return true
		}
	}
	return false
}
