// Package pipeline talks to the external AI analysis service over HTTP.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/salescribe/salescribe-server/internal/logger"
	"github.com/salescribe/salescribe-server/internal/model"
)

var _ model.AnalysisPipeline = (*Client)(nil)

const requestTimeout = 60 * time.Second

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *logger.Logger
}

func NewClient(baseURL, apiKey string, l *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  l,
	}
}

type triggerRequest struct {
	RecordingID uuid.UUID `json:"recording_id"`
	AudioKey    string    `json:"audio_key"`
}

// Trigger asks the pipeline to start analyzing an uploaded recording. The
// pipeline reports back asynchronously through the results callback.
func (c *Client) Trigger(ctx context.Context, recordingID uuid.UUID, audioKey string) error {
	body := triggerRequest{RecordingID: recordingID, AudioKey: audioKey}

	resp, err := c.post(ctx, "/analyze", body)
	if err != nil {
		return fmt.Errorf("failed to trigger analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("pipeline rejected analysis request: status %d", resp.StatusCode)
	}

	c.logger.Info("analysis triggered", "recording_id", recordingID)
	return nil
}

type questionRequest struct {
	RecordingID uuid.UUID `json:"recording_id"`
	Question    string    `json:"question"`
}

type questionResponse struct {
	Answer string `json:"answer"`
}

// Ask sends an interactive question about a completed recording and returns
// the pipeline's answer.
func (c *Client) Ask(ctx context.Context, recordingID uuid.UUID, question string) (string, error) {
	body := questionRequest{RecordingID: recordingID, Question: question}

	resp, err := c.post(ctx, "/question", body)
	if err != nil {
		return "", fmt.Errorf("failed to ask question: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pipeline rejected question: status %d", resp.StatusCode)
	}

	var answer questionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&answer); err != nil {
		return "", fmt.Errorf("failed to decode pipeline answer: %w", err)
	}

	return answer.Answer, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	return c.http.Do(req)
}
