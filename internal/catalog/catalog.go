package catalog

import (
	"github.com/meridianpress/leadscout/backend/internal/models"
)

// Store holds the static reference data the dashboard works against: the book
// catalog, the candidate customer list, and the one lead that starts out in
// the actively-managed list. Nothing in here is ever mutated after startup;
// every accessor returns copies.
type Store struct {
	books       []models.Book
	customers   []models.Customer
	initialLead models.Lead

	customerByID map[string]models.Customer
	bookByID     map[string]models.Book
}

func NewStore() *Store {
	s := &Store{
		books:        seedBooks(),
		customers:    seedCustomers(),
		initialLead:  seedInitialActiveLead(),
		customerByID: map[string]models.Customer{},
		bookByID:     map[string]models.Book{},
	}
	for _, c := range s.customers {
		s.customerByID[c.ID] = c
	}
	for _, b := range s.books {
		s.bookByID[b.ID] = b
	}
	return s
}

func (s *Store) Books() []models.Book {
	return append([]models.Book(nil), s.books...)
}

func (s *Store) Customers() []models.Customer {
	return append([]models.Customer(nil), s.customers...)
}

func (s *Store) CustomerByID(id string) (models.Customer, bool) {
	c, ok := s.customerByID[id]
	return c, ok
}

func (s *Store) BookByID(id string) (models.Book, bool) {
	b, ok := s.bookByID[id]
	return b, ok
}

// BooksByIDs resolves ids into books, skipping ids that are not in the
// catalog. Order follows the input ids.
func (s *Store) BooksByIDs(ids []string) []models.Book {
	var out []models.Book
	for _, id := range ids {
		if b, ok := s.bookByID[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) InitialActiveLead() models.Lead {
	return s.initialLead.Clone()
}
