package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"time"

	"transparency-service/internal/domain"
	"transparency-service/internal/questions"
	"transparency-service/internal/scoring"
)

// Store abstracts how submissions, questions, answers and reports are
// persisted (Postgres in production, in-memory for tests and demos).
type Store interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	CreateQuestions(ctx context.Context, productID string, qs []domain.Question) ([]domain.Question, error)
	ListQuestions(ctx context.Context, productID string) ([]domain.Question, error)
	UpsertAnswer(ctx context.Context, productID string, answer domain.Answer) error
	ListAnswers(ctx context.Context, productID string) ([]domain.Answer, error)
	SaveReport(ctx context.Context, productID string, report domain.Report) error
	GetReport(ctx context.Context, productID string) (domain.Report, error)
}

// ReportReader serves report lookups, possibly through a cache in front of
// the store.
type ReportReader interface {
	GetReport(ctx context.Context, productID string) (domain.Report, error)
}

// ReportInvalidator drops a cached report after a recompute supersedes it.
type ReportInvalidator interface {
	Invalidate(ctx context.Context, productID string) error
}

// TransparencyService contains the transparency pipeline use cases.
type TransparencyService struct {
	store     Store
	assembler *questions.Assembler
	reports   ReportReader
	cache     ReportInvalidator
	hub       *watchHub
	now       func() time.Time
	rnd       *rand.Rand
}

// Option customizes a TransparencyService.
type Option func(*TransparencyService)

// WithReportCache routes report reads through reader and invalidates it on save.
func WithReportCache(reader ReportReader, invalidator ReportInvalidator) Option {
	return func(s *TransparencyService) {
		s.reports = reader
		s.cache = invalidator
	}
}

// WithClock is test-only for deterministic report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *TransparencyService) { s.now = now }
}

func NewTransparencyService(store Store, assembler *questions.Assembler, opts ...Option) *TransparencyService {
	s := &TransparencyService{
		store:     store,
		assembler: assembler,
		hub:       newWatchHub(),
		now:       time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reports == nil {
		s.reports = store
	}
	return s
}

// SubmitProduct validates and persists a new product submission.
func (s *TransparencyService) SubmitProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if strings.TrimSpace(product.Name) == "" || strings.TrimSpace(product.Category) == "" {
		return domain.Product{}, domain.ErrInvalidProduct
	}
	if !domain.ValidCategory(product.Category) {
		return domain.Product{}, domain.ErrInvalidCategory
	}
	created, err := s.store.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

// GenerateQuestions assembles and persists the question set for a product.
// It is idempotent: questions are generated once per product, so an existing
// set is returned unchanged rather than regenerated.
func (s *TransparencyService) GenerateQuestions(ctx context.Context, productID string) ([]domain.Question, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ListQuestions(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(existing) > 0 {
		sortQuestions(existing)
		return existing, nil
	}

	drafts := s.assembler.Assemble(ctx, product)
	qs := make([]domain.Question, len(drafts))
	for i, d := range drafts {
		qs[i] = domain.Question{
			ProductID:   productID,
			Text:        d.Text,
			Type:        d.Type,
			Options:     d.Options,
			AIGenerated: d.AIGenerated,
			OrderIndex:  d.OrderIndex,
			Priority:    d.Priority,
		}
	}
	created, err := s.store.CreateQuestions(ctx, productID, qs)
	if err != nil {
		return nil, fmt.Errorf("save questions: %w", err)
	}
	sortQuestions(created)
	return created, nil
}

// ListQuestions returns a product's stored questions in presentation order.
func (s *TransparencyService) ListQuestions(ctx context.Context, productID string) ([]domain.Question, error) {
	qs, err := s.store.ListQuestions(ctx, productID)
	if err != nil {
		return nil, err
	}
	sortQuestions(qs)
	return qs, nil
}

// SubmitAnswers records answers keyed by question; resubmitting a question
// replaces its previous value.
func (s *TransparencyService) SubmitAnswers(ctx context.Context, productID string, answers []domain.Answer) error {
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		return err
	}
	for _, answer := range answers {
		if err := s.store.UpsertAnswer(ctx, productID, answer); err != nil {
			return fmt.Errorf("save answer for question %s: %w", answer.QuestionID, err)
		}
	}
	return nil
}

// GenerateReport runs the authoritative scoring pipeline over the current
// answer snapshot, persists the resulting report (superseding the previous
// one) and notifies watchers. A store failure is propagated and leaves the
// previously persisted report untouched.
func (s *TransparencyService) GenerateReport(ctx context.Context, productID string) (domain.Report, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return domain.Report{}, err
	}
	answers, err := s.store.ListAnswers(ctx, productID)
	if err != nil {
		return domain.Report{}, fmt.Errorf("list answers: %w", err)
	}

	breakdown := scoring.Score(answers, product)
	total := breakdown.Total()
	insights := scoring.Insights(answers, total)
	recommendations := scoring.Recommendations(breakdown, total)
	report := AssembleReport(product, answers, breakdown, insights, recommendations, s.now())

	if err := s.store.SaveReport(ctx, productID, report); err != nil {
		return domain.Report{}, fmt.Errorf("save report: %w", err)
	}
	if s.cache != nil {
		// Stale cache entries expire on their own; invalidation is best-effort.
		if err := s.cache.Invalidate(ctx, productID); err != nil {
			log.Printf("invalidate cached report for product %s: %v", productID, err)
		}
	}
	s.hub.broadcast(productID, report)
	return report, nil
}

// GetReport returns the latest persisted report for a product.
func (s *TransparencyService) GetReport(ctx context.Context, productID string) (domain.Report, error) {
	return s.reports.GetReport(ctx, productID)
}

// WatchReports streams every freshly generated report for a product.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *TransparencyService) WatchReports(_ context.Context, productID string) (<-chan domain.Report, func()) {
	return s.hub.subscribe(productID)
}

// QuickEstimate is the provisional score shown while the authoritative
// calculation runs. It is display-only and is never persisted; the stored
// score always comes from the deterministic calculator.
func (s *TransparencyService) QuickEstimate(answerCount int) int {
	estimate := 60 + answerCount*5 + s.rnd.Intn(20)
	if estimate > 90 {
		return 90
	}
	return estimate
}

func sortQuestions(qs []domain.Question) {
	sort.Slice(qs, func(i, j int) bool { return qs[i].OrderIndex < qs[j].OrderIndex })
}
