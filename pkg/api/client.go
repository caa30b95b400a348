package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/finsight/graphview/pkg/common"

	"github.com/goccy/go-json"
)

// StatusError is a request that reached the upstream graph API but came back
// with a non-2xx status. It carries the status and a snippet of the body so the
// failure can be surfaced to the user verbatim.
type StatusError struct {
	Status int
	URL    string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("graph api: %s returned %d: %s", e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("graph api: %s returned %d", e.URL, e.Status)
}

const errBodyLimit = 512

// Client is a typed wrapper around the remote graph API. One method per
// endpoint; no retries, no caching, no timeouts of its own (callers bound
// requests through ctx).
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClientParams configures a Client. HTTPClient is optional and defaults to
// http.DefaultClient.
type NewClientParams struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a graph API client for the given base URL
// (e.g. "http://localhost:8000/api").
func NewClient(params NewClientParams) *Client {
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(params.BaseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, errBodyLimit))
		res.Body.Close()
		return nil, &StatusError{
			Status: res.StatusCode,
			URL:    u,
			Body:   strings.TrimSpace(string(body)),
		}
	}
	return res, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	res, err := c.do(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// Users fetches all user entities.
func (c *Client) Users(ctx context.Context) ([]common.Entity, error) {
	var users []common.Entity
	if err := c.getJSON(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Transactions fetches all transaction entities.
func (c *Client) Transactions(ctx context.Context) ([]common.Entity, error) {
	var transactions []common.Entity
	if err := c.getJSON(ctx, "/transactions", nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// UserRelationships fetches the direct relationships of one user.
func (c *Client) UserRelationships(ctx context.Context, userID string) (*UserRelationships, error) {
	out := new(UserRelationships)
	if err := c.getJSON(ctx, "/relationships/user/"+url.PathEscape(userID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// BusinessRelationships fetches the business relationships of one user or
// company.
func (c *Client) BusinessRelationships(ctx context.Context, userID string) (*BusinessRelationships, error) {
	out := new(BusinessRelationships)
	if err := c.getJSON(ctx, "/business-relationships/user/"+url.PathEscape(userID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// TransactionRelationships fetches the relationships of one transaction.
func (c *Client) TransactionRelationships(ctx context.Context, transactionID string) (*TransactionRelationships, error) {
	out := new(TransactionRelationships)
	if err := c.getJSON(ctx, "/relationships/transaction/"+url.PathEscape(transactionID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DetectRelationships triggers relationship inference on the backend. The
// response shape is opaque to the pipeline and returned as-is.
func (c *Client) DetectRelationships(ctx context.Context) (map[string]any, error) {
	res, err := c.do(ctx, http.MethodPost, "/detect-relationships", nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode detect-relationships response: %w", err)
	}
	return out, nil
}

// ShortestPath asks the backend for the shortest path between two nodes,
// optionally restricted to the given relationship types.
func (c *Client) ShortestPath(ctx context.Context, sourceID, targetID string, relationshipTypes []string) (*PathResult, error) {
	query := url.Values{}
	query.Set("source_id", sourceID)
	query.Set("target_id", targetID)
	for _, t := range relationshipTypes {
		query.Add("relationship_types", t)
	}

	out := new(PathResult)
	if err := c.getJSON(ctx, "/analytics/shortest-path", query, out); err != nil {
		return nil, err
	}
	return out, nil
}

// TransactionClusters fetches transaction clusters for the given parameters.
func (c *Client) TransactionClusters(ctx context.Context, minClusterSize, maxDistance int) ([]Cluster, error) {
	query := url.Values{}
	query.Set("min_cluster_size", strconv.Itoa(minClusterSize))
	query.Set("max_distance", strconv.Itoa(maxDistance))

	var clusters []Cluster
	if err := c.getJSON(ctx, "/analytics/transaction-clusters", query, &clusters); err != nil {
		return nil, err
	}
	return clusters, nil
}

// GraphMetrics fetches aggregate graph metrics.
func (c *Client) GraphMetrics(ctx context.Context) (*Metrics, error) {
	out := new(Metrics)
	if err := c.getJSON(ctx, "/analytics/graph-metrics", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExportFormat selects one of the two export endpoints.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

// ContentType returns the MIME type the export streams as.
func (f ExportFormat) ContentType() string {
	if f == ExportCSV {
		return "text/csv"
	}
	return "application/json"
}

// Export streams a full graph export into w without decoding the body.
// Returns the number of bytes copied.
func (c *Client) Export(ctx context.Context, format ExportFormat, w io.Writer) (int64, error) {
	res, err := c.do(ctx, http.MethodGet, "/export/"+string(format), nil)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	return io.Copy(w, res.Body)
}
