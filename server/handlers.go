package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"competitive-intel/models"
	"competitive-intel/services"
	"competitive-intel/storage"
	"competitive-intel/utils"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxBodyBytes     = 8 << 20
)

// AnalysisHandler serves the analysis endpoints.
type AnalysisHandler struct {
	pipeline *services.Pipeline
	reader   storage.ResultReader
	logger   *utils.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(pipeline *services.Pipeline, reader storage.ResultReader, logger *utils.Logger) *AnalysisHandler {
	return &AnalysisHandler{pipeline: pipeline, reader: reader, logger: logger}
}

type analysisResponse struct {
	Result          *models.AnalysisResult  `json:"result"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// CreateAnalysis runs one analysis request and returns the result together
// with its recommendations.
func (h *AnalysisHandler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var raw models.RawAnalysisRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, recs, err := h.pipeline.Run(r.Context(), raw)
	if err != nil {
		h.respondWithError(w, statusFor(err), err.Error(), err)
		return
	}

	if recs == nil {
		recs = []models.Recommendation{}
	}
	respondWithJSON(w, http.StatusCreated, analysisResponse{Result: result, Recommendations: recs})
}

// ListAnalyses returns the most recent stored results for a subject.
func (h *AnalysisHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	if h.reader == nil {
		h.respondWithError(w, http.StatusNotImplemented, "No result store configured", nil)
		return
	}

	subjectID := r.URL.Query().Get("subject_id")
	if subjectID == "" {
		h.respondWithError(w, http.StatusBadRequest, "Missing subject_id", nil)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	results, err := h.reader.FetchResults(r.Context(), subjectID, limit)
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to fetch analyses", fmt.Errorf("fetch results for %q: %w", subjectID, err))
		return
	}
	if results == nil {
		results = []*models.AnalysisResult{}
	}
	respondWithJSON(w, http.StatusOK, results)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnsupportedMode):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInsufficientData), errors.Is(err, services.ErrMissingUserCorpus):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrAnalysisAborted):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError writes the JSON error body. The underlying error is logged
// at error level for server faults and at debug level for client mistakes.
func (h *AnalysisHandler) respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		if code >= http.StatusInternalServerError {
			h.logger.Error("[http] %d %s: %v", code, message, err)
		} else {
			h.logger.Debug("[http] %d %s: %v", code, message, err)
		}
	}
	respondWithJSON(w, code, map[string]string{"error": message})
}
