package dto

import (
	"time"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
)

// Fixed response text for the NDVI endpoint.
const (
	NDVIUnit           = "normalized (0-1)"
	NDVIInterpretation = "Higher values indicate healthier vegetation"
)

// PredictRequest is the input of every prediction use case: the raw JSON
// object of the request body.
type PredictRequest struct {
	Features map[string]any
}

// NDVIResponse is the output DTO of PredictNDVI.
type NDVIResponse struct {
	Unit           string  `json:"unit"`
	Interpretation string  `json:"interpretation"`
	NDVIForecast   float64 `json:"ndvi_forecast"`
	Success        bool    `json:"success"`
}

// ChangeResponse is the output DTO of PredictChange.
type ChangeResponse struct {
	Severity       string  `json:"severity"`
	Confidence     float64 `json:"confidence"`
	ChangeDetected bool    `json:"change_detected"`
	Success        bool    `json:"success"`
}

// RiskResponse is the output DTO of PredictRisk.
type RiskResponse struct {
	RiskLabel      string  `json:"risk_label"`
	ActionRequired string  `json:"action_required"`
	Confidence     float64 `json:"confidence"`
	RiskLevel      int     `json:"risk_level"`
	Success        bool    `json:"success"`
}

// ChangeDetectionDTO is the change result nested in AllResponse.
type ChangeDetectionDTO struct {
	Confidence float64 `json:"confidence"`
	IsChange   bool    `json:"is_change"`
}

// RiskAssessmentDTO is the risk result nested in AllResponse.
type RiskAssessmentDTO struct {
	RiskLabel  string  `json:"risk_label"`
	Confidence float64 `json:"confidence"`
	RiskLevel  int     `json:"risk_level"`
}

// PredictionsDTO groups the three results of PredictAll.
type PredictionsDTO struct {
	ChangeDetection ChangeDetectionDTO `json:"change_detection"`
	RiskAssessment  RiskAssessmentDTO  `json:"risk_assessment"`
	NDVIForecast    float64            `json:"ndvi_forecast"`
}

// AllResponse is the output DTO of PredictAll.
type AllResponse struct {
	InputFeatures map[string]any `json:"input_features"`
	Timestamp     string         `json:"timestamp"`
	Predictions   PredictionsDTO `json:"predictions"`
	Success       bool           `json:"success"`
}

// ErrorResponse is returned by every prediction endpoint on failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

// FromNDVI maps an NDVI forecast to its response.
func FromNDVI(f model.NDVIForecast) NDVIResponse {
	return NDVIResponse{
		Success:        true,
		NDVIForecast:   f.Value,
		Unit:           NDVIUnit,
		Interpretation: NDVIInterpretation,
	}
}

// FromChange maps a change detection to its response.
func FromChange(c model.ChangeDetection) ChangeResponse {
	return ChangeResponse{
		Success:        true,
		ChangeDetected: c.IsChange,
		Confidence:     c.Confidence,
		Severity:       string(c.Severity()),
	}
}

// FromRisk maps a risk assessment to its response.
func FromRisk(r model.RiskAssessment) RiskResponse {
	return RiskResponse{
		Success:        true,
		RiskLevel:      r.Level.Code(),
		RiskLabel:      r.Level.String(),
		Confidence:     r.Confidence,
		ActionRequired: string(r.Level.ActionRequired()),
	}
}

// FromPrediction maps a complete Prediction aggregate and the request that
// produced it to the combined response.
func FromPrediction(p *model.Prediction, input map[string]any) AllResponse {
	resp := AllResponse{
		Success:       true,
		Timestamp:     p.CreatedAt().Format(time.RFC3339Nano),
		InputFeatures: input,
	}
	if f := p.NDVI(); f != nil {
		resp.Predictions.NDVIForecast = f.Value
	}
	if c := p.Change(); c != nil {
		resp.Predictions.ChangeDetection = ChangeDetectionDTO{IsChange: c.IsChange, Confidence: c.Confidence}
	}
	if r := p.Risk(); r != nil {
		resp.Predictions.RiskAssessment = RiskAssessmentDTO{
			RiskLevel:  r.Level.Code(),
			RiskLabel:  r.Level.String(),
			Confidence: r.Confidence,
		}
	}
	return resp
}
