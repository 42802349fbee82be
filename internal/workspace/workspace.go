package workspace

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/meridianpress/leadscout/backend/internal/ai"
	"github.com/meridianpress/leadscout/backend/internal/catalog"
	"github.com/meridianpress/leadscout/backend/internal/models"
)

var (
	// ErrAnalysisInProgress is returned when an analysis is triggered while
	// a previous one is still in flight.
	ErrAnalysisInProgress = errors.New("analysis already in progress")

	// ErrLeadNotFound is returned when an operation references a lead that
	// is in neither the prioritized nor the active sequence.
	ErrLeadNotFound = errors.New("lead not found")
)

const chatGreeting = "Hello! How can I help you analyze your sales leads today?"

// Workspace owns the two lead sequences, the selection, the chat transcript,
// and the single conversational session slot. Model-call failures never
// escape it: analysis failures land in the error field, chat failures become
// assistant turns, narrative failures are logged.
//
// All mutations happen under one mutex; model calls run outside of it and
// their results are re-applied afterwards. The session slot carries the
// generation it was granted, so a reply from a session that is no longer the
// installed one is discarded instead of being appended to the new session's
// transcript.
type Workspace struct {
	ai      ai.Client
	catalog *catalog.Store
	logger  zerolog.Logger

	mu               sync.Mutex
	prioritized      []models.Lead
	active           []models.Lead
	selectedID       string
	analyzing        bool
	narrativePending int
	chatPending      int
	chatOpen         bool
	analysisErr      string
	transcript       []models.ChatMessage
	session          *liveSession
	sessionGen       uint64
}

// liveSession pairs a session with the generation it was granted. The pair is
// assigned atomically under w.mu, so a send that captured it can later tell
// whether its session is still the installed one.
type liveSession struct {
	s   ai.Session
	gen uint64
}

func New(client ai.Client, store *catalog.Store, logger zerolog.Logger) *Workspace {
	initial := store.InitialActiveLead()
	return &Workspace{
		ai:         client,
		catalog:    store,
		logger:     logger,
		active:     []models.Lead{initial},
		selectedID: initial.ID,
		transcript: []models.ChatMessage{
			{Role: models.ChatRoleAssistant, Content: chatGreeting},
		},
	}
}

// TriggerAnalysis runs the gap analysis over all candidate customers and
// replaces the prioritized sequence with the merged, score-sorted result.
// Records referencing unknown customer ids are dropped. On model failure the
// existing sequences are left untouched and the error is recorded in the
// snapshot; the returned error is non-nil only when another analysis is
// already running.
func (w *Workspace) TriggerAnalysis(ctx context.Context) error {
	w.mu.Lock()
	if w.analyzing {
		w.mu.Unlock()
		return ErrAnalysisInProgress
	}
	w.analyzing = true
	w.analysisErr = ""
	w.selectedID = ""
	w.mu.Unlock()

	customers := w.catalog.Customers()
	records, err := w.ai.AnalyzeCustomers(ctx, customers, w.catalog.Books())

	w.mu.Lock()
	defer w.mu.Unlock()
	w.analyzing = false

	if err != nil {
		w.analysisErr = err.Error()
		w.logger.Error().Err(err).Msg("lead analysis failed")
		return nil
	}

	merged := w.mergeLeads(records)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PriorityScore > merged[j].PriorityScore
	})
	w.prioritized = merged

	switch {
	case len(merged) > 0:
		w.selectedID = merged[0].ID
	case len(w.active) > 0:
		w.selectedID = w.active[0].ID
	}
	w.logger.Info().Int("leads", len(merged)).Msg("analysis complete")
	return nil
}

// mergeLeads joins analysis records with their customer records. Caller must
// hold w.mu.
func (w *Workspace) mergeLeads(records []models.LeadAnalysis) []models.Lead {
	merged := make([]models.Lead, 0, len(records))
	for _, r := range records {
		customer, ok := w.catalog.CustomerByID(r.ID)
		if !ok {
			w.logger.Warn().Str("id", r.ID).Msg("dropping analysis record for unknown customer")
			continue
		}
		merged = append(merged, models.Lead{
			Customer:           customer,
			PriorityScore:      r.PriorityScore,
			Justification:      r.Justification,
			RecommendedBookIDs: append([]string(nil), r.RecommendedBookIDs...),
			PotentialRevenue:   r.PotentialRevenue,
		})
	}
	return merged
}

// SelectLead sets the selection. The id does not have to resolve to a lead
// yet; an unresolvable selection simply renders as none.
func (w *Workspace) SelectLead(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selectedID = id
}

// MoveLead moves the lead with the given id from the prioritized sequence to
// the front of the active sequence. Moving a lead that is already active is
// a no-op, so the lead ends up in the active sequence exactly once. A lead
// found in neither sequence is an error.
func (w *Workspace) MoveLead(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, l := range w.prioritized {
		if l.ID == id {
			w.prioritized = append(w.prioritized[:i:i], w.prioritized[i+1:]...)
			w.active = append([]models.Lead{l}, withoutLead(w.active, id)...)
			return nil
		}
	}
	for _, l := range w.active {
		if l.ID == id {
			return nil
		}
	}
	return ErrLeadNotFound
}

// GenerateNarrative asks the model for an outreach paragraph and writes it
// onto the lead wherever it currently resides. A model failure is logged and
// leaves the lead unmodified so the trigger can be retried.
func (w *Workspace) GenerateNarrative(ctx context.Context, id string) error {
	w.mu.Lock()
	lead, ok := w.findLead(id)
	if !ok {
		w.mu.Unlock()
		return ErrLeadNotFound
	}
	w.narrativePending++
	w.mu.Unlock()

	text, err := w.ai.GenerateNarrative(ctx, lead, w.catalog.Books())

	w.mu.Lock()
	defer w.mu.Unlock()
	w.narrativePending--

	if err != nil {
		w.logger.Error().Err(err).Str("lead", id).Msg("narrative generation failed")
		return nil
	}
	narrative := models.Narrative{Present: true, Text: text}
	setNarrative(w.prioritized, id, narrative)
	setNarrative(w.active, id, narrative)
	return nil
}

// OpenChat primes a fresh conversational session with the current lead set
// and marks the chat open. The visible transcript is kept; only the model's
// context is rebuilt. Any previously live session is superseded.
func (w *Workspace) OpenChat(ctx context.Context) error {
	w.mu.Lock()
	w.sessionGen++
	gen := w.sessionGen
	leads := append(cloneLeads(w.prioritized), cloneLeads(w.active)...)
	w.mu.Unlock()

	session, err := w.ai.StartSession(ctx, leads, w.catalog.Books())

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.sessionGen {
		// A later OpenChat won the slot.
		return nil
	}
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to start chat session")
		return err
	}
	w.session = &liveSession{s: session, gen: gen}
	w.chatOpen = true
	w.logger.Debug().Str("session", session.ID()).Msg("chat session started")
	return nil
}

func (w *Workspace) CloseChat() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chatOpen = false
}

// SendMessage appends the user turn immediately, obtains the assistant reply
// from the live session, and appends it. Failures, including a missing
// session, are converted into an assistant turn describing the problem, so
// every send grows the transcript by exactly two entries.
func (w *Workspace) SendMessage(ctx context.Context, content string) {
	w.mu.Lock()
	w.transcript = append(w.transcript, models.ChatMessage{Role: models.ChatRoleUser, Content: content})

	if w.session == nil {
		w.transcript = append(w.transcript, models.ChatMessage{
			Role:    models.ChatRoleAssistant,
			Content: "Sorry, I encountered an error: " + ai.ErrSessionNotInitialized.Error() + ". Please reopen the chat.",
		})
		w.mu.Unlock()
		return
	}

	live := w.session
	w.chatPending++
	w.mu.Unlock()

	reply, err := live.s.Send(ctx, content)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.chatPending--

	if w.session == nil || w.session.gen != live.gen {
		w.logger.Warn().Str("session", live.s.ID()).Msg("discarding reply from superseded chat session")
		return
	}
	if err != nil {
		w.logger.Error().Err(err).Msg("chat turn failed")
		w.transcript = append(w.transcript, models.ChatMessage{
			Role:    models.ChatRoleAssistant,
			Content: "Sorry, I encountered an error: " + err.Error(),
		})
		return
	}
	w.transcript = append(w.transcript, models.ChatMessage{Role: models.ChatRoleAssistant, Content: reply})
}

// findLead looks the lead up in both sequences. Caller must hold w.mu.
func (w *Workspace) findLead(id string) (models.Lead, bool) {
	for _, l := range w.prioritized {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	for _, l := range w.active {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	return models.Lead{}, false
}

func withoutLead(leads []models.Lead, id string) []models.Lead {
	out := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

func setNarrative(leads []models.Lead, id string, n models.Narrative) {
	for i := range leads {
		if leads[i].ID == id {
			leads[i].Narrative = n
		}
	}
}

func cloneLeads(leads []models.Lead) []models.Lead {
	out := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.Clone())
	}
	return out
}
