package controllers

import (
	"net/http"
	"time"

	"github.com/gaonbazar/gaonbazar-backend/api/responses"
	"github.com/gaonbazar/gaonbazar-backend/api/validators"
	"github.com/gaonbazar/gaonbazar-backend/internal/pricing"
	"github.com/gaonbazar/gaonbazar-backend/internal/quality"
	"github.com/gaonbazar/gaonbazar-backend/internal/voice"
	"github.com/gaonbazar/gaonbazar-backend/pkg/logger"
)

type PredictPriceRequest struct {
	Crop  string `json:"crop" validate:"required,max=64"`
	Month *int   `json:"month,omitempty"`
}

type AssessQualityRequest struct {
	Temperature *float64 `json:"temperature" validate:"required"`
	Humidity    *float64 `json:"humidity" validate:"required,gte=0,lte=100"`
}

type VoiceExtractRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

type VoiceExtractResponse struct {
	voice.Extraction
	Recognized bool `json:"recognized"`
}

// PredictPrice suggests a per-kg price band. The month defaults to the current one.
func PredictPrice(now func() time.Time, logg *logger.Logger) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var payload PredictPriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		month := int(now().Month())
		if payload.Month != nil {
			month = *payload.Month
		}

		prediction, err := pricing.Predict(payload.Crop, month)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prediction)
	}
}

// QualitySample returns a simulated sensor reading with its verdict.
func QualitySample(scorer *quality.Scorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, scorer.Simulate())
	}
}

// QualityAssess scores a reading supplied by the client.
func QualityAssess(scorer *quality.Scorer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload AssessQualityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, scorer.Assess(quality.Reading{
			Temperature: *payload.Temperature,
			Humidity:    *payload.Humidity,
		}))
	}
}

// VoiceExtract reads a crop and quantity out of a transcribed utterance.
func VoiceExtract(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload VoiceExtractRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		extraction := voice.Extract(payload.Text)
		responses.WriteSuccess(w, VoiceExtractResponse{
			Extraction: extraction,
			Recognized: extraction.Crop != voice.UnknownCrop,
		})
	}
}
