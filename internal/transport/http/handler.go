package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"transparency-service/internal/app"
	"transparency-service/internal/domain"
)

// Handler exposes the transparency pipeline as a JSON API.
type Handler struct {
	service *app.TransparencyService
}

func NewHandler(service *app.TransparencyService) *Handler {
	return &Handler{service: service}
}

// Register mounts all routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /products", h.submitProduct)
	mux.HandleFunc("POST /products/{id}/questions", h.generateQuestions)
	mux.HandleFunc("GET /products/{id}/questions", h.listQuestions)
	mux.HandleFunc("POST /products/{id}/answers", h.submitAnswers)
	mux.HandleFunc("POST /products/{id}/report", h.generateReport)
	mux.HandleFunc("GET /products/{id}/report", h.getReport)
}

type submitProductRequest struct {
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Description string `json:"description"`
	SubmittedBy string `json:"submitted_by"`
}

func (h *Handler) submitProduct(w http.ResponseWriter, r *http.Request) {
	var req submitProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product, err := h.service.SubmitProduct(r.Context(), domain.Product{
		Name:        req.Name,
		Brand:       req.Brand,
		Category:    req.Category,
		Description: req.Description,
		SubmittedBy: req.SubmittedBy,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) generateQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := h.service.GenerateQuestions(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"questions": qs})
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := h.service.ListQuestions(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": qs})
}

type submitAnswersRequest struct {
	Answers []domain.Answer `json:"answers"`
}

type submitAnswersResponse struct {
	Submitted     int `json:"submitted"`
	QuickEstimate int `json:"quick_estimate"`
}

func (h *Handler) submitAnswers(w http.ResponseWriter, r *http.Request) {
	var req submitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.service.SubmitAnswers(r.Context(), r.PathValue("id"), req.Answers); err != nil {
		writeServiceError(w, err)
		return
	}
	// The estimate is a transient display hint; the persisted score always
	// comes from the report calculation.
	writeJSON(w, http.StatusOK, submitAnswersResponse{
		Submitted:     len(req.Answers),
		QuickEstimate: h.service.QuickEstimate(len(req.Answers)),
	})
}

func (h *Handler) generateReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.GenerateReport(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.GetReport(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrReportNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidProduct), errors.Is(err, domain.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "report generation failed")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
