package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// maxAttempts bounds transport-level retries per prediction call.
	maxAttempts = 2
	retryWait   = 500 * time.Millisecond
)

// ImageResult is one per-image entry from the prediction service. Entries
// carrying Error were rejected upstream and produce no record.
type ImageResult struct {
	Damage        string  `json:"damage"`
	Confidence    float64 `json:"confidence"` // percentage, 0..100
	EstimatedCost float64 `json:"estimated_cost"`
	CostRange     string  `json:"cost_range"`
	Filename      string  `json:"filename"`
	Error         string  `json:"error,omitempty"`
}

// Response is the parsed body of a successful upstream call. Raw preserves
// the verbatim bytes so the proxy can relay them unmodified.
type Response struct {
	Status  string        `json:"status"`
	Results []ImageResult `json:"results"`
	Raw     []byte        `json:"-"`
}

// Client calls the external damage prediction service.
type Client struct {
	http *resty.Client
	url  string
}

// New builds a prediction client with an explicit per-attempt timeout.
func New(url string, timeout time.Duration) *Client {
	httpClient := resty.New().SetTimeout(timeout)
	return &Client{http: httpClient, url: url}
}

type imagePayload struct {
	name string
	data []byte
}

// Predict forwards vehicle metadata and image files as a multipart request
// and returns the upstream response. Image bytes are buffered up front and
// each attempt gets fresh readers, so a retried request carries the same
// payload as the original. Only transport failures are retried; an HTTP
// error status from the service fails immediately.
func (c *Client) Predict(ctx context.Context, vehicleName, vehicleModel string, images []*multipart.FileHeader) (*Response, error) {
	payloads := make([]imagePayload, 0, len(images))
	for _, header := range images {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open image %s: %w", header.Filename, err)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", header.Filename, err)
		}
		payloads = append(payloads, imagePayload{name: header.Filename, data: data})
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryWait):
			}
		}

		req := c.http.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"vehicle_name":  vehicleName,
				"vehicle_model": vehicleModel,
			})
		for _, p := range payloads {
			req.SetFileReader("images", p.name, bytes.NewReader(p.data))
		}

		resp, err := req.Post(c.url)
		if err != nil {
			lastErr = fmt.Errorf("call prediction service: %w", err)
			continue
		}
		if resp.IsError() {
			return nil, fmt.Errorf("prediction service returned %d: %s", resp.StatusCode(), resp.String())
		}

		var parsed Response
		if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
			return nil, fmt.Errorf("decode prediction response: %w", err)
		}
		parsed.Raw = resp.Body()

		return &parsed, nil
	}

	return nil, lastErr
}
