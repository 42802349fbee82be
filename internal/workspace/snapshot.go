package workspace

import "github.com/meridianpress/leadscout/backend/internal/models"

// Snapshot is an immutable view of the workspace for the presentation layer.
// Everything in it is a copy; rendering code cannot reach the live state.
type Snapshot struct {
	PrioritizedLeads []models.Lead        `json:"prioritizedLeads"`
	ActiveLeads      []models.Lead        `json:"activeLeads"`
	SelectedLeadID   string               `json:"selectedLeadId,omitempty"`
	SelectedLead     *models.Lead         `json:"selectedLead,omitempty"`
	Analyzing        bool                 `json:"analyzing"`
	NarrativePending bool                 `json:"narrativePending"`
	AnalysisError    string               `json:"analysisError,omitempty"`
	ChatOpen         bool                 `json:"chatOpen"`
	ChatPending      bool                 `json:"chatPending"`
	ChatMessages     []models.ChatMessage `json:"chatMessages"`
}

// Snapshot returns the current state. The selected lead is resolved from
// whichever sequence it currently lives in, never a stale copy.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		PrioritizedLeads: cloneLeads(w.prioritized),
		ActiveLeads:      cloneLeads(w.active),
		SelectedLeadID:   w.selectedID,
		Analyzing:        w.analyzing,
		NarrativePending: w.narrativePending > 0,
		AnalysisError:    w.analysisErr,
		ChatOpen:         w.chatOpen,
		ChatPending:      w.chatPending > 0,
		ChatMessages:     append([]models.ChatMessage(nil), w.transcript...),
	}
	if w.selectedID != "" {
		if lead, ok := w.findLead(w.selectedID); ok {
			snap.SelectedLead = &lead
		}
	}
	return snap
}
