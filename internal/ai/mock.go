package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/meridianpress/leadscout/backend/internal/models"
	"github.com/meridianpress/leadscout/backend/internal/utils"
)

// MockClient is a deterministic stand-in for the hosted model, used when no
// API key is configured and in tests. It performs an actual local gap
// analysis so the dashboard behaves sensibly offline.
type MockClient struct {
	ModelVersion string
}

func (m MockClient) AnalyzeCustomers(ctx context.Context, customers []models.Customer, books []models.Book) ([]models.LeadAnalysis, error) {
	var out []models.LeadAnalysis
	for _, c := range customers {
		gaps := gapBooks(c, books)
		if len(gaps) == 0 {
			continue
		}
		h := utils.HashStringToUint64(c.ID)
		score := float64(40 + 12*len(gaps) + int(h%9))
		if score > 100 {
			score = 100
		}
		revenue := float64(len(gaps)) * float64(1200+int(h%800))

		ids := make([]string, 0, len(gaps))
		subjects := make([]string, 0, len(gaps))
		for _, b := range gaps {
			ids = append(ids, b.ID)
			subjects = append(subjects, b.Subject)
		}
		out = append(out, models.LeadAnalysis{
			ID:                 c.ID,
			PriorityScore:      score,
			Justification:      fmt.Sprintf("No coverage of %s despite declared interest.", strings.Join(subjects, ", ")),
			RecommendedBookIDs: ids,
			PotentialRevenue:   revenue,
		})
	}
	return out, nil
}

func (m MockClient) GenerateNarrative(ctx context.Context, lead models.Lead, books []models.Book) (string, error) {
	titles := make([]string, 0, len(lead.RecommendedBookIDs))
	for _, b := range books {
		for _, id := range lead.RecommendedBookIDs {
			if b.ID == id {
				titles = append(titles, b.Title)
			}
		}
	}
	return fmt.Sprintf(
		"Given %s's focus on %s, our recent titles %s would close the most significant gaps in your collection. %s We would welcome the chance to arrange institutional access.",
		lead.Name, strings.Join(lead.Interests, " and "), strings.Join(titles, ", "), lead.Justification,
	), nil
}

func (m MockClient) StartSession(ctx context.Context, leads []models.Lead, books []models.Book) (Session, error) {
	return &mockSession{id: uuid.NewString(), leads: len(leads), books: len(books)}, nil
}

type mockSession struct {
	id    string
	leads int
	books int
	turns int
}

func (s *mockSession) ID() string {
	return s.id
}

func (s *mockSession) Send(ctx context.Context, message string) (string, error) {
	s.turns++
	return fmt.Sprintf("I'm tracking %d leads against a catalog of %d titles. Regarding %q: the prioritized list is sorted by score, so start at the top.", s.leads, s.books, message), nil
}

// gapBooks returns catalog books matching one of the customer's interests
// that are absent from their purchased set.
func gapBooks(c models.Customer, books []models.Book) []models.Book {
	purchased := map[string]bool{}
	for _, id := range c.PurchasedBookIDs {
		purchased[id] = true
	}
	var out []models.Book
	for _, b := range books {
		if purchased[b.ID] {
			continue
		}
		for _, interest := range c.Interests {
			if strings.EqualFold(strings.TrimSpace(interest), b.Subject) {
				out = append(out, b)
				break
			}
		}
	}
	return out
}
