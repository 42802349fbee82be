package models

type CustomerType string

const (
	CustomerTypeUniversity        CustomerType = "University"
	CustomerTypeResearchInstitute CustomerType = "Research Institute"
	CustomerTypeCorporateRD       CustomerType = "Corporate R&D"
	CustomerTypePublicLibrary     CustomerType = "Public Library"
)

type Book struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

type Customer struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Type             CustomerType `json:"type"`
	Interests        []string     `json:"interests"`
	PurchasedBookIDs []string     `json:"purchasedBookIds"`
}

// LeadAnalysis is one structured record emitted by the model for a single
// customer. Field names match the declared response schema.
type LeadAnalysis struct {
	ID                 string   `json:"id"`
	PriorityScore      float64  `json:"priorityScore"`
	Justification      string   `json:"justification"`
	RecommendedBookIDs []string `json:"recommendedBookIds"`
	PotentialRevenue   float64  `json:"potentialRevenue"`
}

// Narrative is the tagged optional outreach text of a lead. The zero value
// means no narrative has been generated yet.
type Narrative struct {
	Present bool   `json:"present"`
	Text    string `json:"text,omitempty"`
}

// Lead is a Customer with analysis results attached. Its ID is always the ID
// of the customer it was merged from.
type Lead struct {
	Customer
	PriorityScore      float64   `json:"priorityScore"`
	Justification      string    `json:"justification"`
	RecommendedBookIDs []string  `json:"recommendedBookIds"`
	PotentialRevenue   float64   `json:"potentialRevenue"`
	Narrative          Narrative `json:"narrative"`
}

// Clone returns a deep copy so callers can hand leads out without sharing
// the underlying slices.
func (l Lead) Clone() Lead {
	out := l
	out.Interests = append([]string(nil), l.Interests...)
	out.PurchasedBookIDs = append([]string(nil), l.PurchasedBookIDs...)
	out.RecommendedBookIDs = append([]string(nil), l.RecommendedBookIDs...)
	return out
}

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}
