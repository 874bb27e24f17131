// Package classifier talks to the remote exoplanet classification service. It
// sends one feature vector (or a CSV of them) and returns the predicted class,
// its confidence and the per-class probability breakdown.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRequestFailed is wrapped by every error caused by the remote service
// rather than by the caller.
var ErrRequestFailed = errors.New("classifier request failed")

const (
	// DefaultTimeout bounds a single prediction round trip.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody is how much of an error response is kept in the error text.
	maxErrorBody = 256
)

// Config describes where the classifier lives.
type Config struct {
	Endpoint      string
	BatchEndpoint string
	Timeout       time.Duration
}

// Client is a classifier API client. It is safe for concurrent use.
type Client struct {
	endpoint      string
	batchEndpoint string
	httpClient    *http.Client
	logger        *zap.SugaredLogger
}

// NewClient returns a Client for cfg. The batch endpoint defaults to the
// single prediction endpoint.
func NewClient(cfg Config, logger *zap.SugaredLogger) (*Client, error) {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("classifier endpoint is required")
	}
	batch := strings.TrimRight(cfg.BatchEndpoint, "/")
	if batch == "" {
		batch = endpoint
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Client{
		endpoint:      endpoint,
		batchEndpoint: batch,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logger,
	}, nil
}

// Endpoint returns the base URL used for single predictions.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Predict classifies one feature vector. Exactly one request is made; there
// are no retries.
func (c *Client) Predict(ctx context.Context, f FeatureVector) (*Prediction, error) {
	body, err := json.Marshal(predictRequest{Inputs: f.Inputs()})
	if err != nil {
		return nil, fmt.Errorf("error encoding prediction request: %w", err)
	}

	requestID := uuid.NewString()
	url := c.endpoint + "/predict"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debugw("requesting prediction", "url", url, "request_id", requestID, "inputs", f.Inputs())

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var pr predictResponse
	if err := json.Unmarshal(respBody, &pr); err != nil {
		return nil, fmt.Errorf("%w: unable to decode prediction response: %v", ErrRequestFailed, err)
	}
	if pr.Error != nil {
		return nil, fmt.Errorf("%w: classifier error: %s", ErrRequestFailed, *pr.Error)
	}

	p := &Prediction{
		RequestID:     requestID,
		Label:         "N/A",
		Probabilities: pr.Breakdown,
		Inputs:        f,
	}
	if pr.OverallPrediction != nil {
		p.Label = *pr.OverallPrediction
	}
	if pr.Confidence != nil {
		p.Confidence = *pr.Confidence
	}

	c.logger.Infow("prediction received", "request_id", requestID, "label", p.Label, "confidence", p.Confidence)
	return p, nil
}

// BatchResult is the classifier's answer to a CSV upload.
type BatchResult struct {
	RequestID string             `json:"request_id" msgpack:"request_id"`
	Summary   map[string]float64 `json:"summary" msgpack:"summary"`
	CSV       string             `json:"csv" msgpack:"csv"`
}

// AnalyzeCSV uploads a CSV of candidate systems as the multipart field "file"
// and returns the backend summary plus the annotated CSV.
func (c *Client) AnalyzeCSV(ctx context.Context, filename string, r io.Reader) (*BatchResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("error creating multipart field: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("error reading upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("error finishing multipart body: %w", err)
	}

	requestID := uuid.NewString()
	url := c.batchEndpoint + "/predict_csv"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("error creating batch request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debugw("uploading dataset", "url", url, "request_id", requestID, "filename", filename)

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result struct {
		Summary map[string]float64 `json:"summary"`
		CSV     string             `json:"csv"`
		Error   *string            `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: unable to decode batch response: %v", ErrRequestFailed, err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("%w: classifier error: %s", ErrRequestFailed, *result.Error)
	}

	c.logger.Infow("dataset analyzed", "request_id", requestID, "summary", result.Summary)
	return &BatchResult{RequestID: requestID, Summary: result.Summary, CSV: result.CSV}, nil
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: error reading response body: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody] + "..."
		}
		return nil, fmt.Errorf("%w: %s returned %s: %s", ErrRequestFailed, req.URL.Path, resp.Status, strings.TrimSpace(snippet))
	}
	return body, nil
}
