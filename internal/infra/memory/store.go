package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"transparency-service/internal/domain"
)

// Store is an in-memory implementation of app.Store, used by tests and for
// running the service without Postgres.
type Store struct {
	mu        sync.RWMutex
	products  map[string]domain.Product
	questions map[string][]domain.Question
	answers   map[string]map[string]domain.Answer
	reports   map[string]domain.Report
	clock     func() time.Time
}

func NewStore() *Store {
	return &Store{
		products:  make(map[string]domain.Product),
		questions: make(map[string][]domain.Question),
		answers:   make(map[string]map[string]domain.Answer),
		reports:   make(map[string]domain.Report),
		clock:     time.Now,
	}
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	product.CreatedAt = s.clock()
	s.products[product.ID] = product
	return product, nil
}

func (s *Store) GetProduct(_ context.Context, productID string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (s *Store) CreateQuestions(_ context.Context, productID string, qs []domain.Question) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.Question, len(qs))
	for i, q := range qs {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		q.ProductID = productID
		stored[i] = q
	}
	s.questions[productID] = append(s.questions[productID], stored...)
	return stored, nil
}

func (s *Store) ListQuestions(_ context.Context, productID string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	qs := s.questions[productID]
	out := make([]domain.Question, len(qs))
	copy(out, qs)
	return out, nil
}

func (s *Store) UpsertAnswer(_ context.Context, productID string, answer domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byQuestion, ok := s.answers[productID]
	if !ok {
		byQuestion = make(map[string]domain.Answer)
		s.answers[productID] = byQuestion
	}
	byQuestion[answer.QuestionID] = answer
	return nil
}

func (s *Store) ListAnswers(_ context.Context, productID string) ([]domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byQuestion := s.answers[productID]
	out := make([]domain.Answer, 0, len(byQuestion))
	// Answers come back in question order so scoring input is reproducible.
	for _, q := range s.questions[productID] {
		if a, ok := byQuestion[q.ID]; ok {
			out = append(out, a)
		}
	}
	if len(out) < len(byQuestion) {
		for id, a := range byQuestion {
			if !containsQuestion(s.questions[productID], id) {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (s *Store) SaveReport(_ context.Context, productID string, report domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[productID] = report
	return nil
}

func (s *Store) GetReport(_ context.Context, productID string) (domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[productID]
	if !ok {
		return domain.Report{}, domain.ErrReportNotFound
	}
	return report, nil
}

func containsQuestion(qs []domain.Question, id string) bool {
	for _, q := range qs {
		if q.ID == id {
			return true
		}
	}
	return false
}
