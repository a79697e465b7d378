// Package ai wraps the external text-extraction collaborator. The backend
// treats its output as a trusted contract: malformed or low-confidence
// extraction is the collaborator's problem, not ours.
package ai

import (
	"alcyxob/gymbuddy-app/internal/domain"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Extractor turns a raw activity report into a StructuredLog.
type Extractor interface {
	StructureActivityText(ctx context.Context, text string) (*domain.StructuredLog, error)
}

// HTTPExtractorConfig configures the hosted extraction endpoint.
type HTTPExtractorConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

type httpExtractor struct {
	cfg    HTTPExtractorConfig
	client *http.Client
}

// NewHTTPExtractor creates an Extractor backed by the hosted extraction service.
func NewHTTPExtractor(cfg HTTPExtractorConfig) Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &httpExtractor{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type extractRequest struct {
	Text string `json:"text"`
}

// wireLog mirrors domain.StructuredLog but carries the scheduled date as
// the plain yyyy-mm-dd string the service emits.
type wireLog struct {
	Sets        []domain.LoggedSet    `json:"sets"`
	Cardio      []domain.LoggedCardio `json:"cardio"`
	Note        string                `json:"note"`
	WorkoutType string                `json:"workout_type"`
	Visibility  domain.Visibility     `json:"visibility"`

	UpdatedWeight        *float64 `json:"updated_weight"`
	UpdatedFatPercentage *float64 `json:"updated_fat_percentage"`
	UpdatedBench1RM      *float64 `json:"updated_bench_1rm"`
	UpdatedSquat1RM      *float64 `json:"updated_squat_1rm"`
	UpdatedDeadlift1RM   *float64 `json:"updated_deadlift_1rm"`

	ScheduledDate string `json:"scheduled_date"`
	Comment       string `json:"comment"`
}

func (e *httpExtractor) StructureActivityText(ctx context.Context, text string) (*domain.StructuredLog, error) {
	body, err := json.Marshal(extractRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction service returned status %d", resp.StatusCode)
	}

	var wire wireLog
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}

	structured := &domain.StructuredLog{
		Sets:                 wire.Sets,
		Cardio:               wire.Cardio,
		Note:                 wire.Note,
		WorkoutType:          wire.WorkoutType,
		Visibility:           wire.Visibility,
		UpdatedWeight:        wire.UpdatedWeight,
		UpdatedFatPercentage: wire.UpdatedFatPercentage,
		UpdatedBench1RM:      wire.UpdatedBench1RM,
		UpdatedSquat1RM:      wire.UpdatedSquat1RM,
		UpdatedDeadlift1RM:   wire.UpdatedDeadlift1RM,
		Comment:              wire.Comment,
	}
	if structured.Visibility == "" {
		structured.Visibility = domain.VisibilityPrivate
	}
	if wire.ScheduledDate != "" {
		day, err := time.Parse("2006-01-02", wire.ScheduledDate)
		if err != nil {
			return nil, fmt.Errorf("parse scheduled date %q: %w", wire.ScheduledDate, err)
		}
		structured.ScheduledDate = &day
	}
	return structured, nil
}
