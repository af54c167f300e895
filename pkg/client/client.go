// Package client talks to the data layer that owns the device inventory and
// health metrics.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/braunma/netmap/internal/constants"
	"github.com/braunma/netmap/pkg/loader"
	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/utils"
)

// SourceClient fetches device trees and health metrics over HTTP
type SourceClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *utils.Logger
}

// NewClient creates a new data-layer client. insecure skips TLS
// verification for self-signed appliances.
func NewClient(baseURL, token string, insecure bool, logger *utils.Logger) (*SourceClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("source URL not configured")
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}
	if insecure {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &SourceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
		logger:     utils.OrNop(logger),
	}, nil
}

// Request makes an HTTP request to the data layer and returns the raw body
func (c *SourceClient) Request(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("→ %s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return respBody, nil
}

// FetchTree downloads the current device tree
func (c *SourceClient) FetchTree(ctx context.Context) (*models.DeviceNode, error) {
	body, err := c.Request(ctx, http.MethodGet, constants.SourceTreePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tree: %w", err)
	}
	root, err := loader.ParseTree(body)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tree: %w", err)
	}
	return root, nil
}

// FetchHealth downloads the latest health metrics
func (c *SourceClient) FetchHealth(ctx context.Context) ([]models.HealthMetric, error) {
	body, err := c.Request(ctx, http.MethodGet, constants.SourceHealthPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch health: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	metrics, err := loader.ParseHealth(body)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch health: %w", err)
	}
	return metrics, nil
}
