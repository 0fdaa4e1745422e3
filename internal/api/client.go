// Package api is the HTTP client for the PCB analysis service: image
// pair submission, report retrieval, template management, and health.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/vraq/scene/internal/channel"
	"github.com/vraq/scene/internal/geo"
	"github.com/vraq/scene/internal/session"
	"github.com/vraq/scene/internal/upload"
	"github.com/vraq/scene/pkg/core"
)

// Client handles communication with the PCB analysis service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Context
	mapper     geo.Mapper
	validator  *upload.Validator
	progress   channel.Sender[ProgressUpdate]

	roundtrip metric.Float64Histogram
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithProgress routes progress milestones to the given sender.
func WithProgress(p channel.Sender[ProgressUpdate]) Option {
	return func(c *Client) { c.progress = p }
}

// WithValidator replaces the default pre-upload file validator.
func WithValidator(v *upload.Validator) Option {
	return func(c *Client) { c.validator = v }
}

// WithMapper replaces the default board mapper used for bundle building.
func WithMapper(m geo.Mapper) Option {
	return func(c *Client) { c.mapper = m }
}

// New creates a new API client.
func New(baseURL string, sess *session.Context, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    sess,
		mapper:     geo.Default(),
		validator:  upload.NewValidator(nil, 0),
	}
	for _, opt := range opts {
		opt(c)
	}

	// Global meter; no-op unless an OTel provider is installed.
	c.roundtrip, _ = meter().Float64Histogram(
		"analysis.roundtrip_seconds",
		metric.WithDescription("Analysis submit round-trip time"),
	)

	return c
}

func (c *Client) notify(p ProgressUpdate) {
	if c.progress != nil {
		c.progress.Send(p)
	}
}

// fail emits the terminal error milestone and returns err unchanged.
func (c *Client) fail(err error) error {
	c.notify(progressError)
	return err
}

// SubmitForAnalysis uploads a reference and a test image and returns
// the visualization bundle for the resulting report. Both files are
// validated before any transport; validation failures never reach the
// service. Progress milestones are delivered on the configured channel;
// any transport or non-2xx failure ends with the terminal error
// milestone.
func (c *Client) SubmitForAnalysis(ctx context.Context, referencePath, testPath string) (*session.Bundle, error) {
	if err := c.validator.Validate(referencePath); err != nil {
		return nil, err
	}
	if err := c.validator.Validate(testPath); err != nil {
		return nil, err
	}

	c.notify(progressUploading)
	start := time.Now()

	refFile, err := os.Open(referencePath)
	if err != nil {
		return nil, c.fail(fmt.Errorf("failed to open reference image: %w", err))
	}
	defer refFile.Close()

	testFile, err := os.Open(testPath)
	if err != nil {
		return nil, c.fail(fmt.Errorf("failed to open test image: %w", err))
	}
	defer testFile.Close()

	// Create multipart form
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	// Write both files in goroutine
	errCh := make(chan error, 1)
	go func() {
		defer pw.Close()
		defer writer.Close()

		for _, part := range []struct {
			field string
			path  string
			file  *os.File
		}{
			{"reference_image", referencePath, refFile},
			{"test_image", testPath, testFile},
		} {
			fw, err := writer.CreateFormFile(part.field, filepath.Base(part.path))
			if err != nil {
				errCh <- fmt.Errorf("failed to create form file %s: %w", part.field, err)
				return
			}
			if _, err := io.Copy(fw, part.file); err != nil {
				errCh <- fmt.Errorf("failed to copy %s: %w", part.field, err)
				return
			}
		}
		errCh <- nil
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze", pr)
	if err != nil {
		return nil, c.fail(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(fmt.Errorf("analysis request failed: %w", err))
	}
	defer resp.Body.Close()

	// Check goroutine error
	if writeErr := <-errCh; writeErr != nil {
		return nil, c.fail(writeErr)
	}

	c.notify(progressUploaded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(&StatusError{StatusCode: resp.StatusCode, Endpoint: "/api/analyze"})
	}

	var report core.AnalysisReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, c.fail(fmt.Errorf("failed to decode analysis report: %w", err))
	}

	c.notify(progressProcessed)
	c.roundtrip.Record(ctx, time.Since(start).Seconds())

	c.session.PutReport(&report)

	bundle := session.BuildBundle(&report, c.mapper)
	c.notify(progressFormatted)
	c.notify(progressComplete)

	return bundle, nil
}

// FetchReport retrieves a report by analysis id. The session cache is
// checked first; a cache hit never reaches the transport boundary.
func (c *Client) FetchReport(ctx context.Context, id string) (*core.AnalysisReport, error) {
	if report, ok := c.session.GetReport(id); ok {
		return report, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/analysis/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("report request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Endpoint: "/analysis/" + id}
	}

	var report core.AnalysisReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode analysis report: %w", err)
	}

	c.session.PutReport(&report)
	return &report, nil
}

// HealthStatus is the analysis service's health response.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// Health checks if the analysis service is reachable.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var hs HealthStatus

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return hs, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return hs, fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return hs, &StatusError{StatusCode: resp.StatusCode, Endpoint: "/api/health"}
	}

	if err := json.NewDecoder(resp.Body).Decode(&hs); err != nil {
		return hs, fmt.Errorf("failed to decode health response: %w", err)
	}
	return hs, nil
}
