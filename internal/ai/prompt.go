package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meridianpress/leadscout/backend/internal/models"
)

// catalogEntry is the reduced view of a book embedded in the analysis prompt.
// Descriptions and authors are left out to keep the prompt small.
type catalogEntry struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Subject string `json:"subject"`
}

func buildAnalysisPrompt(customers []models.Customer, books []models.Book) string {
	entries := make([]catalogEntry, 0, len(books))
	for _, b := range books {
		entries = append(entries, catalogEntry{ID: b.ID, Title: b.Title, Subject: b.Subject})
	}
	catalogJSON, _ := json.MarshalIndent(entries, "", "  ")
	customersJSON, _ := json.MarshalIndent(customers, "", "  ")

	var sb strings.Builder
	sb.WriteString("You are a sales analyst for a publisher. Your task is to analyze a list of potential institutional customers and a catalog of books.\n")
	sb.WriteString("Identify high-priority sales leads by performing a gap analysis. A gap exists if a book in our catalog aligns with a customer's interests but is NOT in their 'purchasedBookIds' list.\n\n")
	sb.WriteString("For each customer, you must provide:\n")
	sb.WriteString("1. A 'priorityScore' (0-100) based on the number and relevance of the identified gaps.\n")
	sb.WriteString("2. A concise 'justification' explaining the primary content gaps you found.\n")
	sb.WriteString("3. A list of 'recommendedBookIds' from our catalog to fill these gaps.\n")
	sb.WriteString("4. An estimated 'potentialRevenue' in USD for an initial bulk sale of the recommended books.\n\n")
	sb.WriteString("Here is the full book catalog:\n")
	sb.Write(catalogJSON)
	sb.WriteString("\n\nHere is the list of potential customers to analyze. The 'purchasedBookIds' field lists the book IDs they already own. Your goal is to recommend books they DON'T own.\n")
	sb.Write(customersJSON)
	sb.WriteString("\n\nRespond with a JSON array that matches the provided schema.\n")
	return sb.String()
}

func buildNarrativePrompt(lead models.Lead, books []models.Book) string {
	recommended := map[string]bool{}
	for _, id := range lead.RecommendedBookIDs {
		recommended[id] = true
	}
	var titles []string
	for _, b := range books {
		if recommended[b.ID] {
			titles = append(titles, fmt.Sprintf("- %s by %s (%s)", b.Title, b.Author, b.Subject))
		}
	}

	var sb strings.Builder
	sb.WriteString("You are a senior sales executive at a publishing house. Write a personalized, tailored sales outreach narrative for a potential customer.\n")
	sb.WriteString("The narrative should be a concise, compelling paragraph that a sales representative can use in an email or a call.\n\n")
	sb.WriteString("Customer Details:\n")
	sb.WriteString(fmt.Sprintf("- Name: %s\n", lead.Name))
	sb.WriteString(fmt.Sprintf("- Type: %s\n", lead.Type))
	sb.WriteString(fmt.Sprintf("- Key Interests: %s\n\n", strings.Join(lead.Interests, ", ")))
	sb.WriteString("Analysis Justification:\n")
	sb.WriteString(lead.Justification)
	sb.WriteString("\n\nRecommended Titles for Them:\n")
	sb.WriteString(strings.Join(titles, "\n"))
	sb.WriteString("\n\nBased on all this information, write a compelling outreach narrative. Start by acknowledging their focus areas, then connect their needs to the specific, high-value titles you've identified. Highlight why these books are a crucial addition to their collection. Keep it professional, insightful, and under 150 words.\n")
	return sb.String()
}

func buildSessionInstruction(leads []models.Lead, books []models.Book) string {
	leadsJSON, _ := json.MarshalIndent(leads, "", "  ")
	booksJSON, _ := json.MarshalIndent(books, "", "  ")

	var sb strings.Builder
	sb.WriteString("You are a helpful AI assistant for a book publisher's sales team.\n")
	sb.WriteString("You have access to the current list of prioritized leads and the book catalog.\n")
	sb.WriteString("Your job is to answer questions about the leads and books to help the sales team.\n")
	sb.WriteString("Be concise and professional.\n\n")
	sb.WriteString("Current Leads Data:\n")
	sb.Write(leadsJSON)
	sb.WriteString("\n\nBook Catalog:\n")
	sb.Write(booksJSON)
	sb.WriteString("\n")
	return sb.String()
}
