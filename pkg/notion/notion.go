// Package notion implements the api.Store interface against a
// Notion-compatible document database HTTP API.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/spendnote/spendnote/pkg/api"
)

const (
	// DefaultBaseURL is the public API endpoint.
	DefaultBaseURL = "https://api.notion.com"
	// apiVersion pins the wire format via the Notion-Version header.
	apiVersion = "2022-06-28"
	// requestTimeout bounds a single HTTP request.
	requestTimeout = 30 * time.Second
)

// Config holds the client configuration.
type Config struct {
	// Token is the integration API token (bearer auth).
	Token string
	// DatabaseID is the expense collection this client writes to.
	DatabaseID string
	// BaseURL overrides the API endpoint, e.g. for tests.
	BaseURL string
}

// Client talks to the document database. It implements api.Store.
type Client struct {
	httpClient *http.Client
	baseURL    string
	databaseID string
	logger     *slog.Logger
}

// NewClient creates a client authenticated with the configured token.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = requestTimeout

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		databaseID: cfg.DatabaseID,
		logger:     logger,
	}
}

// Schema fetches the configured collection's field layout.
func (c *Client) Schema(ctx context.Context) (api.Schema, error) {
	var resp databaseResponse
	path := fmt.Sprintf("/v1/databases/%s", c.databaseID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return api.Schema{}, errors.Wrap(err, "fetching schema")
	}
	return resp.toSchema(), nil
}

// Pages lists pages of a collection, optionally sorted and bounded.
func (c *Client) Pages(ctx context.Context, collectionID string, q *api.Query) ([]api.Record, error) {
	body := queryRequest{}
	if q != nil {
		if q.SortBy != "" {
			direction := "ascending"
			if q.Descending {
				direction = "descending"
			}
			body.Sorts = []querySort{{Property: q.SortBy, Direction: direction}}
		}
		if q.PageSize > 0 {
			body.PageSize = q.PageSize
		}
	}

	var resp queryResponse
	path := fmt.Sprintf("/v1/databases/%s/query", collectionID)
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, errors.Wrapf(err, "querying collection %s", collectionID)
	}

	records := make([]api.Record, 0, len(resp.Results))
	for _, p := range resp.Results {
		records = append(records, p.toRecord())
	}
	return records, nil
}

// CreatePage creates a page under the parent collection.
func (c *Client) CreatePage(ctx context.Context, parentID string, fields map[string]api.FieldValue) (api.Record, error) {
	props := make(map[string]propertyValue, len(fields))
	for name, v := range fields {
		pv, err := encodeValue(v)
		if err != nil {
			return api.Record{}, errors.Wrapf(err, "encoding field %q", name)
		}
		props[name] = pv
	}

	body := createRequest{
		Parent:     pageParent{DatabaseID: parentID},
		Properties: props,
	}

	var resp page
	if err := c.do(ctx, http.MethodPost, "/v1/pages", body, &resp); err != nil {
		return api.Record{}, errors.Wrap(err, "creating page")
	}
	return resp.toRecord(), nil
}

// do performs one API call, retrying rate-limited and server-side
// failures, and decodes the response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return errors.Wrap(err, "encoding request body")
		}
	}

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
			if err != nil {
				return errors.Wrap(err, "building request")
			}
			req.Header.Set("Notion-Version", apiVersion)
			if body != nil {
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return errors.Wrap(err, "sending request")
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return decodeAPIError(resp)
			}

			if out == nil {
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return errors.Wrap(err, "decoding response")
			}
			return nil
		},
		retry.RetryIf(func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500
			}
			return false
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("retrying request", "path", path, "attempt", n+1, "error", err)
		}),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
}

// APIError is a non-2xx response from the document database.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		// Best effort: the body may not be the structured error shape.
		_ = json.Unmarshal(body, apiErr)
		apiErr.Status = resp.StatusCode
	}
	return apiErr
}
