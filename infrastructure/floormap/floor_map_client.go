package floormap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Maps larger than this are rejected rather than buffered.
const maxDocumentBytes = 16 << 20

// FloorMapClient downloads floor map documents by URL
type FloorMapClient struct {
	httpClient *http.Client
}

// NewFloorMapClient creates a new floor map client
func NewFloorMapClient(timeout time.Duration) *FloorMapClient {
	return &FloorMapClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchFloorMap downloads the document at url
func (c *FloorMapClient) FetchFloorMap(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/svg+xml, text/xml;q=0.9, */*;q=0.1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch floor map: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("floor map request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read floor map: %w", err)
	}
	if len(body) > maxDocumentBytes {
		return nil, fmt.Errorf("floor map exceeds %d bytes", maxDocumentBytes)
	}

	return body, nil
}

// Probe checks that url is reachable without downloading the document
func (c *FloorMapClient) Probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach floor map: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("floor map probe failed with status %d", resp.StatusCode)
	}
	return nil
}
