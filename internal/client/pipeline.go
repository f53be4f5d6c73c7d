// Package client provides an HTTP client for the igen pipeline API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// UploadResult is the subset of the upload response the pipeline reports on.
type UploadResult struct {
	UploadBatchID     string `json:"upload_batch_id"`
	Uploaded          int    `json:"uploaded"`
	SkippedDuplicates int    `json:"skipped_duplicates"`
	ErrorsCount       int    `json:"errors_count"`
	BalanceContinuity string `json:"balance_continuity"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s: %s", e.StatusCode, e.Code, e.Detail)
}

// PipelineClient uploads statements through the pipeline API.
type PipelineClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewPipelineClient creates a new pipeline API client.
func NewPipelineClient(baseURL, apiKey string, httpClient *http.Client) *PipelineClient {
	return &PipelineClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// UploadStatement posts one CSV statement for bankAccountID.
func (c *PipelineClient) UploadStatement(ctx context.Context, bankAccountID, fileName string, content io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("bank_account_id", bankAccountID); err != nil {
		return nil, fmt.Errorf("writing form: %w", err)
	}
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("writing form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("reading %s: %w", fileName, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("writing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/pipeline/bank-uploads/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", fileName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return nil, fmt.Errorf("uploading %s: %w", fileName, apiErr)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	return &result, nil
}
