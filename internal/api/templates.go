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
)

// TemplateInfo describes one reference template known to the analysis
// service.
type TemplateInfo struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

// ListTemplates returns the reference templates available on the
// analysis service.
func (c *Client) ListTemplates(ctx context.Context) ([]TemplateInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/templates", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("templates request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Endpoint: "/api/templates"}
	}

	var payload struct {
		Templates []TemplateInfo `json:"templates"`
		Count     int            `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode template list: %w", err)
	}
	return payload.Templates, nil
}

// UploadTemplates pushes one or more reference template images to the
// analysis service and returns the filenames the service stored. All
// paths are validated locally first.
func (c *Client) UploadTemplates(ctx context.Context, paths ...string) ([]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no template files given")
	}
	for _, path := range paths {
		if err := c.validator.Validate(path); err != nil {
			return nil, err
		}
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	errCh := make(chan error, 1)
	go func() {
		defer pw.Close()
		defer writer.Close()

		for _, path := range paths {
			f, err := os.Open(path)
			if err != nil {
				errCh <- fmt.Errorf("failed to open template %s: %w", filepath.Base(path), err)
				return
			}
			fw, err := writer.CreateFormFile("template_files", filepath.Base(path))
			if err != nil {
				f.Close()
				errCh <- fmt.Errorf("failed to create form file: %w", err)
				return
			}
			_, err = io.Copy(fw, f)
			f.Close()
			if err != nil {
				errCh <- fmt.Errorf("failed to copy template %s: %w", filepath.Base(path), err)
				return
			}
		}
		errCh <- nil
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload_template", pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("template upload failed: %w", err)
	}
	defer resp.Body.Close()

	if writeErr := <-errCh; writeErr != nil {
		return nil, writeErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Endpoint: "/api/upload_template"}
	}

	var payload struct {
		UploadedFiles []string `json:"uploaded_files"`
		Count         int      `json:"count"`
		Message       string   `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return payload.UploadedFiles, nil
}
