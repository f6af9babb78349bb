package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"transparency-service/internal/domain"
)

// Store persists products, questions, answers and reports in Postgres.
// Question options and the full report payload live in JSONB columns.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO products (id, name, brand, category, description, submitted_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		product.ID, product.Name, product.Brand, product.Category, product.Description, product.SubmittedBy,
	).Scan(&product.CreatedAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return product, nil
}

func (s *Store) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	var p domain.Product
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, brand, category, description, submitted_by, created_at
		 FROM products WHERE id=$1`, productID,
	).Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.Description, &p.SubmittedBy, &p.CreatedAt)
	if err == pgx.ErrNoRows {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (s *Store) CreateQuestions(ctx context.Context, productID string, qs []domain.Question) ([]domain.Question, error) {
	stored := make([]domain.Question, len(qs))
	for i, q := range qs {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		q.ProductID = productID

		var options []byte
		if q.Type == domain.QuestionTypeSelect && len(q.Options) > 0 {
			data, err := json.Marshal(q.Options)
			if err != nil {
				return nil, fmt.Errorf("marshal options: %w", err)
			}
			options = data
		}
		_, err := s.pool.Exec(ctx,
			`INSERT INTO questions (id, product_id, question_text, question_type, options, ai_generated, order_index, priority)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))`,
			q.ID, productID, q.Text, string(q.Type), options, q.AIGenerated, q.OrderIndex, string(q.Priority),
		)
		if err != nil {
			return nil, fmt.Errorf("insert question: %w", err)
		}
		stored[i] = q
	}
	return stored, nil
}

func (s *Store) ListQuestions(ctx context.Context, productID string) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, product_id, question_text, question_type, options, ai_generated, order_index, COALESCE(priority, '')
		 FROM questions WHERE product_id=$1 ORDER BY order_index`, productID)
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	defer rows.Close()

	var qs []domain.Question
	for rows.Next() {
		var q domain.Question
		var qType, priority string
		var options []byte
		if err := rows.Scan(&q.ID, &q.ProductID, &q.Text, &qType, &options, &q.AIGenerated, &q.OrderIndex, &priority); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Type = domain.QuestionType(qType)
		q.Priority = domain.Priority(priority)
		if len(options) > 0 {
			if err := json.Unmarshal(options, &q.Options); err != nil {
				return nil, fmt.Errorf("unmarshal options: %w", err)
			}
		}
		qs = append(qs, q)
	}
	return qs, rows.Err()
}

func (s *Store) UpsertAnswer(ctx context.Context, productID string, answer domain.Answer) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO answers (product_id, question_id, answer_value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (product_id, question_id) DO UPDATE SET answer_value=EXCLUDED.answer_value`,
		productID, answer.QuestionID, answer.Value)
	if err != nil {
		return fmt.Errorf("upsert answer: %w", err)
	}
	return nil
}

func (s *Store) ListAnswers(ctx context.Context, productID string) ([]domain.Answer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT a.question_id, a.answer_value
		 FROM answers a
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.product_id=$1
		 ORDER BY q.order_index`, productID)
	if err != nil {
		return nil, fmt.Errorf("select answers: %w", err)
	}
	defer rows.Close()

	var answers []domain.Answer
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.QuestionID, &a.Value); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// SaveReport stores the latest report for a product, replacing any previous
// one in a single statement so a failure never leaves a partial overwrite.
func (s *Store) SaveReport(ctx context.Context, productID string, report domain.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO transparency_reports (product_id, transparency_score, report_data, generated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (product_id) DO UPDATE
		 SET transparency_score=EXCLUDED.transparency_score,
		     report_data=EXCLUDED.report_data,
		     generated_at=EXCLUDED.generated_at`,
		productID, report.TotalScore, data, report.GeneratedAt)
	if err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, productID string) (domain.Report, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT report_data FROM transparency_reports WHERE product_id=$1`, productID,
	).Scan(&raw)
	if err == pgx.ErrNoRows {
		return domain.Report{}, domain.ErrReportNotFound
	}
	if err != nil {
		return domain.Report{}, fmt.Errorf("select report: %w", err)
	}
	var report domain.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return domain.Report{}, fmt.Errorf("unmarshal report: %w", err)
	}
	return report, nil
}
