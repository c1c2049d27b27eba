package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/chemviz/chemviz-tui/internal/model"
)

type summariesResponse struct {
	Results []model.UploadRecord `json:"results"`
}

// Upload POSTs a CSV as multipart form data. The optional name becomes
// the dataset's display name; the server falls back to the filename.
func (c *Client) Upload(ctx context.Context, filePath, name string) (model.UploadRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return model.UploadRecord{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort file close.
			_ = cerr
		}
	}()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return model.UploadRecord{}, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return model.UploadRecord{}, fmt.Errorf("failed to read file: %w", err)
	}
	if name != "" {
		if err := writer.WriteField("name", name); err != nil {
			return model.UploadRecord{}, fmt.Errorf("failed to build form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return model.UploadRecord{}, fmt.Errorf("failed to finish form: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/datasets/upload/", writer.FormDataContentType(), &buf)
	if err != nil {
		return model.UploadRecord{}, err
	}
	defer closeBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.UploadRecord{}, decodeError(resp)
	}
	var record model.UploadRecord
	if err := decodeJSON(resp.Body, &record); err != nil {
		return model.UploadRecord{}, err
	}
	return record, nil
}

// Summaries lists prior uploads in the server's order, most recent first.
func (c *Client) Summaries(ctx context.Context) ([]model.UploadRecord, error) {
	var resp summariesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/datasets/summaries/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Report fetches the generated PDF for an upload.
func (c *Client) Report(ctx context.Context, uploadID int64) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/datasets/report/%d/", uploadID), "", nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return data, nil
}

// LatestRows fetches a sample of the most recently uploaded rows.
func (c *Client) LatestRows(ctx context.Context) (model.LatestDataset, error) {
	var latest model.LatestDataset
	if err := c.doJSON(ctx, http.MethodGet, "/api/datasets/latest/", nil, &latest); err != nil {
		return model.LatestDataset{}, err
	}
	return latest, nil
}
