// Package userdirectory is the outbound client for the user directory
// service, which owns user records referenced by customer audit fields.
package userdirectory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/erp/customer-service/internal/domain/directory"
	"github.com/google/uuid"
)

// maxResponseSize is the maximum allowed response size from the directory (10MB)
const maxResponseSize = 10 * 1024 * 1024

// HTTPResolver resolves user summaries over the directory's batch endpoint
type HTTPResolver struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPResolver creates a resolver against the given directory base URL
func NewHTTPResolver(baseURL string, timeout time.Duration) *HTTPResolver {
	return &HTTPResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type batchRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// FindSummaries resolves the given user ids in one batch call.
// Ids the directory does not know are absent from the response.
func (r *HTTPResolver) FindSummaries(ctx context.Context, ids []uuid.UUID) ([]directory.UserSummary, error) {
	if len(ids) == 0 {
		return []directory.UserSummary{}, nil
	}

	payload, err := json.Marshal(batchRequest{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("user directory: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.baseURL+"/users/summary/batch", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("user directory: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user directory: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("user directory: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user directory: HTTP %d", resp.StatusCode)
	}

	var summaries []directory.UserSummary
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, fmt.Errorf("user directory: decode response: %w", err)
	}
	return summaries, nil
}
