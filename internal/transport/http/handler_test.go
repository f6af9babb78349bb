package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"transparency-service/internal/app"
	"transparency-service/internal/domain"
	"transparency-service/internal/infra/memory"
	"transparency-service/internal/questions"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.TransparencyService) {
	t.Helper()
	service := app.NewTransparencyService(memory.NewStore(), questions.NewAssembler(nil))
	mux := http.NewServeMux()
	NewHandler(service).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, service
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestProductReportFlow(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/products", map[string]string{
		"name":     "Granola Bar",
		"category": "Food & Beverages",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	product := decode[domain.Product](t, resp)
	if product.ID == "" {
		t.Fatalf("expected product id, got %+v", product)
	}

	resp = postJSON(t, server.URL+"/products/"+product.ID+"/questions", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for questions, got %d", resp.StatusCode)
	}
	questionsResp := decode[struct {
		Questions []domain.Question `json:"questions"`
	}](t, resp)
	if len(questionsResp.Questions) != 6 {
		t.Fatalf("expected 6 questions, got %d", len(questionsResp.Questions))
	}

	answers := make([]domain.Answer, 0, len(questionsResp.Questions))
	for _, q := range questionsResp.Questions {
		answers = append(answers, domain.Answer{
			QuestionID: q.ID,
			Value:      "Certified organic ingredients sourced from family farms in Oregon.",
		})
	}
	resp = postJSON(t, server.URL+"/products/"+product.ID+"/answers", map[string]any{"answers": answers})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for answers, got %d", resp.StatusCode)
	}
	submitted := decode[struct {
		Submitted     int `json:"submitted"`
		QuickEstimate int `json:"quick_estimate"`
	}](t, resp)
	if submitted.Submitted != len(answers) {
		t.Fatalf("expected %d submitted, got %d", len(answers), submitted.Submitted)
	}
	if submitted.QuickEstimate < 60 || submitted.QuickEstimate > 90 {
		t.Fatalf("quick estimate out of display range: %d", submitted.QuickEstimate)
	}

	resp = postJSON(t, server.URL+"/products/"+product.ID+"/report", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for report, got %d", resp.StatusCode)
	}
	report := decode[domain.Report](t, resp)
	if report.TotalScore == 0 || report.QuestionsAnswered != len(answers) {
		t.Fatalf("unexpected report: %+v", report)
	}
	// The persisted score is the deterministic one, not the estimate.
	if report.TotalScore != report.Breakdown.Total() {
		t.Fatalf("total %d does not match breakdown %+v", report.TotalScore, report.Breakdown)
	}

	getResp, err := http.Get(server.URL + "/products/" + product.ID + "/report")
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	fetched := decode[domain.Report](t, getResp)
	if fetched.TotalScore != report.TotalScore {
		t.Fatalf("stored report differs: %d vs %d", fetched.TotalScore, report.TotalScore)
	}
}

func TestSubmitProductRejectsBadRequests(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/products", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/products", map[string]string{"name": "Widget", "category": "Not A Category"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", resp.StatusCode)
	}
}

func TestUnknownProductReturnsNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/products/nope/report", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	getResp, err := http.Get(server.URL + "/products/nope/report")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing report, got %d", getResp.StatusCode)
	}
}
