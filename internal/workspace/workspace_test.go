package workspace

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/meridianpress/leadscout/backend/internal/ai"
	"github.com/meridianpress/leadscout/backend/internal/catalog"
	"github.com/meridianpress/leadscout/backend/internal/models"
)

type narrativeResult struct {
	text string
	err  error
}

type stubClient struct {
	analyses       []models.LeadAnalysis
	analyzeErr     error
	analyzeStarted chan struct{}
	analyzeBlock   chan struct{}

	narrativeResults []narrativeResult
	narrativeCalls   int

	sessionReply string
	sessionErr   error
	startStarted chan struct{}
	startBlock   chan struct{}
	sendStarted  chan struct{}
	sendBlock    chan struct{}
	sessions     []*stubSession
}

func (s *stubClient) AnalyzeCustomers(ctx context.Context, customers []models.Customer, books []models.Book) ([]models.LeadAnalysis, error) {
	if s.analyzeStarted != nil {
		s.analyzeStarted <- struct{}{}
	}
	if s.analyzeBlock != nil {
		<-s.analyzeBlock
	}
	return s.analyses, s.analyzeErr
}

func (s *stubClient) GenerateNarrative(ctx context.Context, lead models.Lead, books []models.Book) (string, error) {
	i := s.narrativeCalls
	s.narrativeCalls++
	if i < len(s.narrativeResults) {
		return s.narrativeResults[i].text, s.narrativeResults[i].err
	}
	return "generated narrative", nil
}

func (s *stubClient) StartSession(ctx context.Context, leads []models.Lead, books []models.Book) (ai.Session, error) {
	if s.startStarted != nil {
		s.startStarted <- struct{}{}
	}
	if s.startBlock != nil {
		<-s.startBlock
	}
	sess := &stubSession{
		id:      fmt.Sprintf("session-%d", len(s.sessions)+1),
		reply:   s.sessionReply,
		err:     s.sessionErr,
		started: s.sendStarted,
		block:   s.sendBlock,
	}
	s.sessions = append(s.sessions, sess)
	return sess, nil
}

type stubSession struct {
	id      string
	reply   string
	err     error
	started chan struct{}
	block   chan struct{}
	calls   int
}

func (s *stubSession) ID() string { return s.id }

func (s *stubSession) Send(ctx context.Context, message string) (string, error) {
	s.calls++
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	return s.reply, s.err
}

func newTestWorkspace(client ai.Client) *Workspace {
	return New(client, catalog.NewStore(), zerolog.Nop())
}

func TestInitialState(t *testing.T) {
	w := newTestWorkspace(&stubClient{})
	snap := w.Snapshot()

	if len(snap.ActiveLeads) != 1 {
		t.Fatalf("expected 1 initial active lead, got %d", len(snap.ActiveLeads))
	}
	if len(snap.PrioritizedLeads) != 0 {
		t.Fatalf("expected empty prioritized list, got %d", len(snap.PrioritizedLeads))
	}
	if snap.SelectedLead == nil || snap.SelectedLead.ID != snap.ActiveLeads[0].ID {
		t.Fatalf("expected initial active lead to be selected")
	}
	if len(snap.ChatMessages) != 1 || snap.ChatMessages[0].Role != models.ChatRoleAssistant {
		t.Fatalf("expected a single assistant greeting, got %+v", snap.ChatMessages)
	}
}

func TestTriggerAnalysisMergesAndSorts(t *testing.T) {
	client := &stubClient{
		analyses: []models.LeadAnalysis{
			{ID: "cust-101", PriorityScore: 80, Justification: "gap a", RecommendedBookIDs: []string{"bk-001"}, PotentialRevenue: 5000},
			{ID: "cust-999", PriorityScore: 99, Justification: "unknown customer", RecommendedBookIDs: []string{"bk-002"}, PotentialRevenue: 9000},
			{ID: "cust-102", PriorityScore: 80, Justification: "gap b", RecommendedBookIDs: []string{"bk-009"}, PotentialRevenue: 4000},
			{ID: "cust-103", PriorityScore: 90, Justification: "gap c", RecommendedBookIDs: []string{"bk-002"}, PotentialRevenue: 7000},
		},
	}
	w := newTestWorkspace(client)

	if err := w.TriggerAnalysis(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := w.Snapshot()

	if snap.AnalysisError != "" {
		t.Fatalf("unexpected analysis error: %s", snap.AnalysisError)
	}
	ids := leadIDs(snap.PrioritizedLeads)
	// cust-999 is not a known customer and must be dropped; ties keep
	// emission order.
	want := []string{"cust-103", "cust-101", "cust-102"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Fatalf("expected order %v, got %v", want, ids)
	}
	if snap.SelectedLead == nil || snap.SelectedLead.ID != "cust-103" {
		t.Fatalf("expected top-scored lead selected, got %+v", snap.SelectedLead)
	}

	top := snap.PrioritizedLeads[0]
	if top.Name == "" || top.Type == "" {
		t.Fatalf("merged lead is missing customer fields: %+v", top)
	}
	if top.Narrative.Present {
		t.Fatalf("new lead must not have a narrative")
	}
}

func TestTriggerAnalysisEmptyResultSelectsActive(t *testing.T) {
	w := newTestWorkspace(&stubClient{})

	if err := w.TriggerAnalysis(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := w.Snapshot()
	if len(snap.PrioritizedLeads) != 0 {
		t.Fatalf("expected empty prioritized list")
	}
	if snap.SelectedLead == nil || snap.SelectedLead.ID != snap.ActiveLeads[0].ID {
		t.Fatalf("expected fallback selection of first active lead")
	}
}

func TestTriggerAnalysisFailureKeepsExistingLeads(t *testing.T) {
	client := &stubClient{
		analyses: []models.LeadAnalysis{
			{ID: "cust-101", PriorityScore: 80, Justification: "gap", RecommendedBookIDs: []string{"bk-001"}, PotentialRevenue: 5000},
		},
	}
	w := newTestWorkspace(client)
	if err := w.TriggerAnalysis(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client.analyses = nil
	client.analyzeErr = &ai.GenerationError{Op: "analyze", Err: fmt.Errorf("model overloaded")}
	if err := w.TriggerAnalysis(context.Background()); err != nil {
		t.Fatalf("model failure must be absorbed, got %v", err)
	}

	snap := w.Snapshot()
	if snap.AnalysisError == "" {
		t.Fatalf("expected analysis error to be recorded")
	}
	if len(snap.PrioritizedLeads) != 1 || snap.PrioritizedLeads[0].ID != "cust-101" {
		t.Fatalf("expected prior leads to survive a failed analysis, got %v", leadIDs(snap.PrioritizedLeads))
	}
	if snap.Analyzing {
		t.Fatalf("analyzing flag must be cleared after failure")
	}
}

func TestTriggerAnalysisRejectsConcurrentRun(t *testing.T) {
	client := &stubClient{
		analyzeStarted: make(chan struct{}),
		analyzeBlock:   make(chan struct{}),
	}
	w := newTestWorkspace(client)

	done := make(chan error, 1)
	go func() { done <- w.TriggerAnalysis(context.Background()) }()
	<-client.analyzeStarted

	if err := w.TriggerAnalysis(context.Background()); err != ErrAnalysisInProgress {
		t.Fatalf("expected ErrAnalysisInProgress, got %v", err)
	}
	if !w.Snapshot().Analyzing {
		t.Fatalf("expected analyzing flag while in flight")
	}

	close(client.analyzeBlock)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Snapshot().Analyzing {
		t.Fatalf("analyzing flag must clear after completion")
	}
}

func TestMoveLeadIsIdempotentOnActiveMembership(t *testing.T) {
	client := &stubClient{
		analyses: []models.LeadAnalysis{
			{ID: "cust-101", PriorityScore: 80, Justification: "gap", RecommendedBookIDs: []string{"bk-001"}, PotentialRevenue: 5000},
		},
	}
	w := newTestWorkspace(client)
	if err := w.TriggerAnalysis(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.MoveLead("cust-101"); err != nil {
		t.Fatalf("first move failed: %v", err)
	}
	if err := w.MoveLead("cust-101"); err != nil {
		t.Fatalf("second move must be a no-op, got %v", err)
	}

	snap := w.Snapshot()
	if n := countID(snap.ActiveLeads, "cust-101"); n != 1 {
		t.Fatalf("expected lead exactly once in active list, found %d", n)
	}
	if n := countID(snap.PrioritizedLeads, "cust-101"); n != 0 {
		t.Fatalf("expected lead removed from prioritized list, found %d", n)
	}
	if snap.ActiveLeads[0].ID != "cust-101" {
		t.Fatalf("moved lead must be at the front of the active list")
	}
}

func TestMoveLeadKeepsSelection(t *testing.T) {
	client := &stubClient{
		analyses: []models.LeadAnalysis{
			{ID: "cust-101", PriorityScore: 80, Justification: "gap", RecommendedBookIDs: []string{"bk-001"}, PotentialRevenue: 5000},
		},
	}
	w := newTestWorkspace(client)
	if err := w.TriggerAnalysis(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.SelectLead("cust-101")

	if err := w.MoveLead("cust-101"); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	snap := w.Snapshot()
	if snap.SelectedLead == nil || snap.SelectedLead.ID != "cust-101" {
		t.Fatalf("selection must follow the moved lead")
	}
	if countID(snap.PrioritizedLeads, "cust-101") != 0 || countID(snap.ActiveLeads, "cust-101") != 1 {
		t.Fatalf("selected lead must now reside in the active list")
	}
}

func TestMoveLeadUnknown(t *testing.T) {
	w := newTestWorkspace(&stubClient{})
	if err := w.MoveLead("nope"); err != ErrLeadNotFound {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestNarrativeFailureThenSuccess(t *testing.T) {
	client := &stubClient{
		analyses: []models.LeadAnalysis{
			{ID: "cust-101", PriorityScore: 80, Justification: "gap", RecommendedBookIDs: []string{"bk-001"}, PotentialRevenue: 5000},
		},
		narrativeResults: []narrativeResult{
			{err: &ai.GenerationError{Op: "narrative", Err: fmt.Errorf("timeout")}},
			{text: "A tailored pitch."},
		},
	}
	w := newTestWorkspace(client)
	if err := w.TriggerAnalysis(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.GenerateNarrative(context.Background(), "cust-101"); err != nil {
		t.Fatalf("narrative failure must be absorbed, got %v", err)
	}
	snap := w.Snapshot()
	if snap.PrioritizedLeads[0].Narrative.Present {
		t.Fatalf("failed generation must not set a narrative")
	}
	if snap.NarrativePending {
		t.Fatalf("pending flag must clear after failure")
	}

	if err := w.GenerateNarrative(context.Background(), "cust-101"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap = w.Snapshot()
	got := snap.PrioritizedLeads[0].Narrative
	if !got.Present || got.Text != "A tailored pitch." {
		t.Fatalf("expected narrative from second call, got %+v", got)
	}
	if snap.NarrativePending {
		t.Fatalf("pending flag must clear after success")
	}
}

func TestNarrativeWrittenToActiveLead(t *testing.T) {
	w := newTestWorkspace(&stubClient{})
	snap := w.Snapshot()
	id := snap.ActiveLeads[0].ID

	if err := w.GenerateNarrative(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap = w.Snapshot()
	if !snap.ActiveLeads[0].Narrative.Present {
		t.Fatalf("expected narrative on the active lead")
	}
	if snap.SelectedLead == nil || !snap.SelectedLead.Narrative.Present {
		t.Fatalf("selection must observe the narrative")
	}
}

func TestNarrativeUnknownLead(t *testing.T) {
	w := newTestWorkspace(&stubClient{})
	if err := w.GenerateNarrative(context.Background(), "nope"); err != ErrLeadNotFound {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestSendMessageWithoutSession(t *testing.T) {
	client := &stubClient{}
	w := newTestWorkspace(client)
	before := len(w.Snapshot().ChatMessages)

	w.SendMessage(context.Background(), "hello")

	snap := w.Snapshot()
	if len(snap.ChatMessages) != before+2 {
		t.Fatalf("expected exactly two new turns, got %d", len(snap.ChatMessages)-before)
	}
	last := snap.ChatMessages[len(snap.ChatMessages)-1]
	if last.Role != models.ChatRoleAssistant || !strings.Contains(last.Content, "not initialized") {
		t.Fatalf("expected assistant turn about missing session, got %+v", last)
	}
	if len(client.sessions) != 0 {
		t.Fatalf("no session must be created or reached without OpenChat")
	}
}

func TestSendMessageAppendsBothTurns(t *testing.T) {
	client := &stubClient{sessionReply: "Focus on the top lead."}
	w := newTestWorkspace(client)
	if err := w.OpenChat(context.Background()); err != nil {
		t.Fatalf("open chat: %v", err)
	}
	before := len(w.Snapshot().ChatMessages)

	w.SendMessage(context.Background(), "who should I call first?")

	snap := w.Snapshot()
	msgs := snap.ChatMessages[before:]
	if len(msgs) != 2 {
		t.Fatalf("expected two new turns, got %d", len(msgs))
	}
	if msgs[0].Role != models.ChatRoleUser || msgs[0].Content != "who should I call first?" {
		t.Fatalf("unexpected user turn: %+v", msgs[0])
	}
	if msgs[1].Role != models.ChatRoleAssistant || msgs[1].Content != "Focus on the top lead." {
		t.Fatalf("unexpected assistant turn: %+v", msgs[1])
	}
	if snap.ChatPending {
		t.Fatalf("chat pending flag must clear")
	}
}

func TestSendMessageFailureFabricatesAssistantTurn(t *testing.T) {
	client := &stubClient{sessionErr: &ai.GenerationError{Op: "chat", Err: fmt.Errorf("quota exceeded")}}
	w := newTestWorkspace(client)
	if err := w.OpenChat(context.Background()); err != nil {
		t.Fatalf("open chat: %v", err)
	}
	before := len(w.Snapshot().ChatMessages)

	w.SendMessage(context.Background(), "x")

	snap := w.Snapshot()
	msgs := snap.ChatMessages[before:]
	if len(msgs) != 2 {
		t.Fatalf("expected exactly one user and one assistant turn, got %d", len(msgs))
	}
	if msgs[1].Role != models.ChatRoleAssistant || !strings.Contains(msgs[1].Content, "error") {
		t.Fatalf("expected fabricated assistant error turn, got %+v", msgs[1])
	}
	if snap.ChatPending {
		t.Fatalf("chat pending flag must clear after failure")
	}
}

func TestOpenChatReprimesSessionKeepsTranscript(t *testing.T) {
	client := &stubClient{sessionReply: "ok"}
	w := newTestWorkspace(client)

	if err := w.OpenChat(context.Background()); err != nil {
		t.Fatalf("open chat: %v", err)
	}
	w.SendMessage(context.Background(), "first question")
	w.CloseChat()

	if err := w.OpenChat(context.Background()); err != nil {
		t.Fatalf("reopen chat: %v", err)
	}
	snap := w.Snapshot()

	if len(client.sessions) != 2 {
		t.Fatalf("expected a fresh session per open, got %d", len(client.sessions))
	}
	if len(snap.ChatMessages) != 3 {
		t.Fatalf("transcript must survive reopening, got %d messages", len(snap.ChatMessages))
	}
	if !snap.ChatOpen {
		t.Fatalf("chat must be open")
	}
}

func TestStaleSessionReplyDiscarded(t *testing.T) {
	client := &stubClient{
		sessionReply: "stale reply",
		sendStarted:  make(chan struct{}),
		sendBlock:    make(chan struct{}),
	}
	w := newTestWorkspace(client)
	if err := w.OpenChat(context.Background()); err != nil {
		t.Fatalf("open chat: %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.SendMessage(context.Background(), "slow question")
		close(done)
	}()
	<-client.sendStarted

	// A reopen supersedes the session while its reply is still in flight.
	client.sendStarted = nil
	client.sendBlock = nil
	if err := w.OpenChat(context.Background()); err != nil {
		t.Fatalf("reopen chat: %v", err)
	}
	close(client.sessions[0].block)
	<-done

	snap := w.Snapshot()
	last := snap.ChatMessages[len(snap.ChatMessages)-1]
	if last.Role != models.ChatRoleUser {
		t.Fatalf("stale reply must be discarded, transcript ends with %+v", last)
	}
	if snap.ChatPending {
		t.Fatalf("chat pending flag must clear even for discarded replies")
	}
}

func TestSendDuringReopenDiscardsOldSessionReply(t *testing.T) {
	client := &stubClient{
		sessionReply: "reply from the superseded session",
		sendStarted:  make(chan struct{}),
		sendBlock:    make(chan struct{}),
	}
	w := newTestWorkspace(client)
	if err := w.OpenChat(context.Background()); err != nil {
		t.Fatalf("open chat: %v", err)
	}

	// Hold the reopen inside StartSession so the send below runs in the
	// window where the old session is still installed but already
	// superseded.
	client.startStarted = make(chan struct{})
	client.startBlock = make(chan struct{})
	reopened := make(chan error, 1)
	go func() { reopened <- w.OpenChat(context.Background()) }()
	<-client.startStarted

	sent := make(chan struct{})
	go func() {
		w.SendMessage(context.Background(), "question during reopen")
		close(sent)
	}()
	<-client.sendStarted

	// Install the fresh session, then release the old session's reply.
	close(client.startBlock)
	if err := <-reopened; err != nil {
		t.Fatalf("reopen chat: %v", err)
	}
	close(client.sendBlock)
	<-sent

	snap := w.Snapshot()
	last := snap.ChatMessages[len(snap.ChatMessages)-1]
	if last.Role != models.ChatRoleUser {
		t.Fatalf("old session's reply must not land on the new session's transcript, ends with %+v", last)
	}
	if len(client.sessions) != 2 {
		t.Fatalf("expected two sessions, got %d", len(client.sessions))
	}
	if client.sessions[1].calls != 0 {
		t.Fatalf("fresh session must not have been used")
	}
	if snap.ChatPending {
		t.Fatalf("chat pending flag must clear for discarded replies")
	}
}

func leadIDs(leads []models.Lead) []string {
	out := make([]string, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.ID)
	}
	return out
}

func countID(leads []models.Lead, id string) int {
	n := 0
	for _, l := range leads {
		if l.ID == id {
			n++
		}
	}
	return n
}
