package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meridianpress/leadscout/backend/internal/models"
)

// leadAnalysisRecord mirrors models.LeadAnalysis with pointer fields so that
// missing required keys can be told apart from zero values.
type leadAnalysisRecord struct {
	ID                 *string   `json:"id"`
	PriorityScore      *float64  `json:"priorityScore"`
	Justification      *string   `json:"justification"`
	RecommendedBookIDs *[]string `json:"recommendedBookIds"`
	PotentialRevenue   *float64  `json:"potentialRevenue"`
}

// parseLeadAnalyses validates the model's JSON payload against the declared
// record shape. Validation is independent of the transport: any schema the
// model was asked for is re-checked here before records reach the workspace.
func parseLeadAnalyses(data []byte) ([]models.LeadAnalysis, error) {
	text := stripCodeFence(strings.TrimSpace(string(data)))
	if text == "" {
		return nil, fmt.Errorf("empty response payload")
	}

	var raw []leadAnalysisRecord
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("response is not a JSON array of lead records: %w", err)
	}

	out := make([]models.LeadAnalysis, 0, len(raw))
	for i, r := range raw {
		if missing := missingFields(r); len(missing) > 0 {
			return nil, fmt.Errorf("record %d missing required fields: %s", i, strings.Join(missing, ", "))
		}
		out = append(out, models.LeadAnalysis{
			ID:                 *r.ID,
			PriorityScore:      *r.PriorityScore,
			Justification:      *r.Justification,
			RecommendedBookIDs: *r.RecommendedBookIDs,
			PotentialRevenue:   *r.PotentialRevenue,
		})
	}
	return out, nil
}

func missingFields(r leadAnalysisRecord) []string {
	var missing []string
	if r.ID == nil || *r.ID == "" {
		missing = append(missing, "id")
	}
	if r.PriorityScore == nil {
		missing = append(missing, "priorityScore")
	}
	if r.Justification == nil {
		missing = append(missing, "justification")
	}
	if r.RecommendedBookIDs == nil {
		missing = append(missing, "recommendedBookIds")
	}
	if r.PotentialRevenue == nil {
		missing = append(missing, "potentialRevenue")
	}
	return missing
}

// stripCodeFence removes a surrounding markdown code fence, which some model
// responses carry even when JSON output was requested.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
