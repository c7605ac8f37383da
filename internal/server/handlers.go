package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/cv-analyzer/internal/features"
	"github.com/jonathan/cv-analyzer/internal/types"
)

// maxRequestBody bounds request payloads at 5 MB; CVs are small.
const maxRequestBody = 5 << 20

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Analysis     types.AnalysisResult `json:"analysis"`
	QualityScore float64              `json:"quality_score"`
}

type matchRequest struct {
	CVText  string `json:"cv_text"`
	JobText string `json:"job_text"`
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	types.PredictionResult
	Classes []string `json:"classes"`
}

type scoreJobRequest struct {
	CVText         string `json:"cv_text"`
	JobDescription string `json:"job_description"`
	TargetCategory string `json:"target_category,omitempty"`
}

// decodeJSON reads and validates a JSON request body.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// handleAnalyze extracts structured features from CV text.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Text == "" {
		s.errorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	analysis := s.analyzer.Analyze(r.Context(), req.Text)
	s.jsonResponse(w, http.StatusOK, analyzeResponse{
		Analysis: analysis,
		QualityScore: features.QualityScore(
			analysis.Skills,
			analysis.Experience.YearsOfExperience,
			len(req.Text)),
	})
}

// handleMatch computes the composite CV-to-job match score.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.CVText == "" || req.JobText == "" {
		s.errorResponse(w, http.StatusBadRequest, "cv_text and job_text are required")
		return
	}

	result, err := s.matcher.Score(r.Context(), req.CVText, req.JobText)
	if err != nil {
		s.logger.Warn("match scoring failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handlePredict classifies CV text into a job-family category.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Text == "" {
		s.errorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := s.predictor.Predict(r.Context(), req.Text)
	if err != nil {
		s.logger.Warn("prediction failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, predictResponse{
		PredictionResult: *result,
		Classes:          s.predictor.Classes(),
	})
}

// handleScoreJob computes the job-fit score for a CV against a job
// description and optional target category.
func (s *Server) handleScoreJob(w http.ResponseWriter, r *http.Request) {
	var req scoreJobRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.CVText == "" || req.JobDescription == "" {
		s.errorResponse(w, http.StatusBadRequest, "cv_text and job_description are required")
		return
	}

	result, err := s.predictor.ScoreForJob(r.Context(), req.CVText, req.JobDescription, req.TargetCategory)
	if err != nil {
		s.logger.Warn("job-fit scoring failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
