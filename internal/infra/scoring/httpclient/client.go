package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/scoring"
)

const (
	analyzePath        = "/api/analyze"
	testExtractionPath = "/api/test-extraction"

	// Remote text extraction can be slow; keep the scoring timeout generous.
	defaultTimeout      = 90 * time.Second
	defaultProbeTimeout = 3 * time.Second
)

// Client calls the external resume scoring API. Expected remote failures
// (unreachable, timeout, 4xx/5xx, malformed body) come back as a failed
// Outcome, never as a Go error.
type Client struct {
	baseURL string
	http    *http.Client
	probe   *http.Client
}

func New(baseURL string, timeout, probeTimeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		probe:   &http.Client{Timeout: probeTimeout},
	}
}

// Available probes the scorer root with a short timeout. Any non-OK status
// or transport error means unavailable.
func (c *Client) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.probe.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// Score uploads one resume with the job description and normalized weights.
func (c *Client) Score(ctx context.Context, req scoring.ScoreRequest) scoring.Outcome {
	weights, err := req.Weights.Normalized()
	if err != nil {
		return scoring.Failure(req.Filename, scoring.CodeScoringFailed, fmt.Sprintf("invalid weights: %v", err))
	}

	body, contentType, err := buildAnalyzeForm(req, weights)
	if err != nil {
		return scoring.Failure(req.Filename, scoring.CodeScoringFailed, fmt.Sprintf("building request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyzePath, body)
	if err != nil {
		return scoring.Failure(req.Filename, scoring.CodeScoringFailed, fmt.Sprintf("building request: %v", err))
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return scoring.Failure(req.Filename, scoring.CodeScoringFailed, fmt.Sprintf("scoring request failed: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return scoring.Failure(req.Filename, scoring.CodeScoringFailed, fmt.Sprintf("reading response: %v", err))
	}
	if resp.StatusCode != http.StatusOK {
		return scoring.Failure(req.Filename, scoring.CodeScoringFailed, remoteErrorMessage(resp.StatusCode, raw))
	}

	out, err := decodeOutcome(raw)
	if err != nil {
		return scoring.Failure(req.Filename, scoring.CodeScoringFailed, fmt.Sprintf("malformed scoring response: %v", err))
	}
	if out.Filename == "" {
		out.Filename = req.Filename
	}
	scoring.ApplyFallbacks(&out)
	return out
}

// TestExtraction is a diagnostic passthrough to the extraction test
// endpoint; not part of the scoring pipeline.
func (c *Client) TestExtraction(ctx context.Context, filename string, content []byte) (map[string]any, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("resume", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+testExtractionPath, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction test failed: %s", remoteErrorMessage(resp.StatusCode, raw))
	}
	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("malformed extraction response: %w", err)
	}
	return result, nil
}

func buildAnalyzeForm(req scoring.ScoreRequest, weights scoring.AspectWeights) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("resume", req.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Content); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"job_description":            req.JobDescription,
		"folder_id":                  req.FolderID,
		"user_id":                    req.UserID,
		"use_distilbert":             strconv.FormatBool(req.UseDistilBERT),
		"enable_fallback_extraction": "true",
	}
	if req.FileID != "" {
		fields["file_id"] = req.FileID
	}
	weightsJSON, err := json.Marshal(weights)
	if err != nil {
		return nil, "", err
	}
	fields["weights"] = string(weightsJSON)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// remoteErrorMessage pulls a human message out of the error body when the
// scorer supplied one.
func remoteErrorMessage(status int, raw []byte) string {
	var body struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, msg := range []string{body.Detail, body.Error, body.Message} {
			if msg != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("scoring service returned status %d", status)
}
