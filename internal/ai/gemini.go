package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/meridianpress/leadscout/backend/internal/models"
)

// leadAnalysisSchema constrains the analysis call to emit parseable
// structured records instead of free text.
var leadAnalysisSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id": {
				Type:        genai.TypeString,
				Description: "The ID of the potential customer from the input list.",
			},
			"priorityScore": {
				Type:        genai.TypeNumber,
				Description: "A score from 0 to 100 indicating the lead priority. Higher is better.",
			},
			"justification": {
				Type:        genai.TypeString,
				Description: "A brief explanation for why this customer is a high-priority lead, specifically mentioning the content gaps identified.",
			},
			"recommendedBookIds": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "An array of book IDs from the catalog that are most relevant to this customer and are NOT in their purchased list.",
			},
			"potentialRevenue": {
				Type:        genai.TypeNumber,
				Description: "An estimated potential revenue figure in USD for the initial sale based on the recommended books.",
			},
		},
		Required: []string{"id", "priorityScore", "justification", "recommendedBookIds", "potentialRevenue"},
	},
}

// GeminiClient implements Client against the hosted Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
	logger    zerolog.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string, logger zerolog.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func (g *GeminiClient) AnalyzeCustomers(ctx context.Context, customers []models.Customer, books []models.Book) ([]models.LeadAnalysis, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.GenerationConfig.ResponseSchema = leadAnalysisSchema

	prompt := buildAnalysisPrompt(customers, books)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, generationErr("analyze", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return nil, generationErr("analyze", err)
	}
	records, err := parseLeadAnalyses([]byte(text))
	if err != nil {
		return nil, generationErr("analyze", err)
	}
	g.logger.Debug().Int("records", len(records)).Msg("lead analysis generated")
	return records, nil
}

func (g *GeminiClient) GenerateNarrative(ctx context.Context, lead models.Lead, books []models.Book) (string, error) {
	model := g.client.GenerativeModel(g.modelName)

	resp, err := model.GenerateContent(ctx, genai.Text(buildNarrativePrompt(lead, books)))
	if err != nil {
		return "", generationErr("narrative", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return "", generationErr("narrative", err)
	}
	return strings.TrimSpace(text), nil
}

func (g *GeminiClient) StartSession(ctx context.Context, leads []models.Lead, books []models.Book) (Session, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(buildSessionInstruction(leads, books))},
	}
	return &geminiSession{
		id:   uuid.NewString(),
		chat: model.StartChat(),
	}, nil
}

type geminiSession struct {
	id   string
	chat *genai.ChatSession
}

func (s *geminiSession) ID() string {
	return s.id
}

func (s *geminiSession) Send(ctx context.Context, message string) (string, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", generationErr("chat", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return "", generationErr("chat", err)
	}
	return strings.TrimSpace(text), nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty model response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("model response contained no text parts")
	}
	return sb.String(), nil
}
