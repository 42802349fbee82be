package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/meridianpress/leadscout/backend/internal/models"
)

// Client is the orchestration boundary to the generative model service.
// Implementations translate domain data into prompts and model output back
// into domain data; they perform no retries and hold no workspace state.
type Client interface {
	// AnalyzeCustomers asks the model for a content-gap analysis of every
	// candidate customer against the catalog. The model may omit customers;
	// callers must not assume one record per input customer.
	AnalyzeCustomers(ctx context.Context, customers []models.Customer, books []models.Book) ([]models.LeadAnalysis, error)

	// GenerateNarrative produces a short outreach paragraph for one lead,
	// trimmed of surrounding whitespace.
	GenerateNarrative(ctx context.Context, lead models.Lead, books []models.Book) (string, error)

	// StartSession opens a new conversational session primed with the given
	// leads and catalog. The returned session is independent of any session
	// returned earlier; ownership of the single live slot is the caller's.
	StartSession(ctx context.Context, leads []models.Lead, books []models.Book) (Session, error)
}

// Session is one conversational context. Each Send sees all prior turns of
// this session.
type Session interface {
	ID() string
	Send(ctx context.Context, message string) (string, error)
}

// ErrSessionNotInitialized is returned when a conversational turn is
// attempted before any session has been established.
var ErrSessionNotInitialized = errors.New("chat session not initialized")

// GenerationError is the single failure type at the model boundary. Callers
// do not distinguish transport failures from schema violations; both surface
// as a GenerationError wrapping the cause.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("ai: %s failed: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func generationErr(op string, err error) *GenerationError {
	return &GenerationError{Op: op, Err: err}
}
