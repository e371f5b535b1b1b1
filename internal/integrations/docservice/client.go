package docservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DocumentKind selects which document the generator renders.
type DocumentKind string

const (
	KindProforma   DocumentKind = "proforma"
	KindTaxInvoice DocumentKind = "tax_invoice"
)

// GenerateRequest asks the document service to render a document for a work order.
type GenerateRequest struct {
	Kind        DocumentKind `json:"kind"`
	WorkOrderID int64        `json:"work_order_id"`
}

// GenerateResponse carries the opaque file reference of the rendered document.
type GenerateResponse struct {
	FileRef string `json:"file_ref"`
}

// Logger is the logging surface the client needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client talks to the document generation service. The core stores only the
// returned reference; rendering is entirely external.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient creates a document service client.
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Generate renders a document and returns its file reference.
func (c *Client) Generate(ctx context.Context, kind DocumentKind, workOrderID int64) (string, error) {
	url := fmt.Sprintf("%s/internal/documents", c.baseURL)

	body, err := json.Marshal(GenerateRequest{Kind: kind, WorkOrderID: workOrderID})
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// continue
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var result GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return result.FileRef, nil
}
