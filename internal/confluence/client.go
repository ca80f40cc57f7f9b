// Package confluence implements the page store against the Confluence
// REST API: content read with body and version expansion, versioned
// content write, and content labels. The client performs no retries;
// conflict and auth failures surface verbatim as typed errors.
package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	decisionsync "github.com/agentstation/decisionsync"
	"github.com/agentstation/decisionsync/pkg/errors"
)

// DefaultTimeout is the default timeout for Confluence API requests.
var DefaultTimeout = 30 * time.Second

// Config holds the connection settings for a Confluence site.
type Config struct {
	// BaseURL is the site root, e.g. https://example.atlassian.net/wiki.
	BaseURL  string
	Username string
	APIToken string
	Timeout  time.Duration
}

// Client talks to one Confluence site with basic auth.
// It implements decisionsync.PageStore.
type Client struct {
	baseURL  string
	username string
	token    string
	http     *http.Client
}

var _ decisionsync.PageStore = (*Client)(nil)

// New creates a Confluence client from the given config.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.NewConfigError("confluence", "base URL is required", nil)
	}
	if cfg.Username == "" || cfg.APIToken == "" {
		return nil, &errors.AuthenticationError{
			Method:  "basic",
			Message: "username and API token are required",
			Err:     errors.ErrAPIKeyRequired,
		}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		token:    cfg.APIToken,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// content is the wire shape of a Confluence content entity, reduced to
// the fields the sync pipeline uses.
type content struct {
	ID      string `json:"id"`
	Type    string `json:"type,omitempty"`
	Title   string `json:"title"`
	Version *struct {
		Number int `json:"number"`
	} `json:"version,omitempty"`
	Body *struct {
		Storage struct {
			Value          string `json:"value"`
			Representation string `json:"representation,omitempty"`
		} `json:"storage"`
	} `json:"body,omitempty"`
	Links *struct {
		Base  string `json:"base"`
		WebUI string `json:"webui"`
	} `json:"_links,omitempty"`
}

func (c content) page() *decisionsync.Page {
	page := &decisionsync.Page{ID: c.ID, Title: c.Title}
	if c.Version != nil {
		page.Version = c.Version.Number
	}
	if c.Body != nil {
		page.Body = c.Body.Storage.Value
	}
	if c.Links != nil && c.Links.Base != "" {
		page.URL = c.Links.Base + c.Links.WebUI
	}
	return page
}

// ReadPage fetches a page with its storage body and version token.
func (c *Client) ReadPage(ctx context.Context, pageID string) (*decisionsync.Page, error) {
	endpoint := fmt.Sprintf("/rest/api/content/%s?expand=body.storage,version", pageID)
	var result content
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}
	return result.page(), nil
}

// WritePage replaces the page body, bumping the version from the base
// the caller read. A concurrent edit since that read surfaces as a
// ConflictError from the 409 response.
func (c *Client) WritePage(ctx context.Context, pageID string, update *decisionsync.PageUpdate) (*decisionsync.Page, error) {
	payload := content{
		ID:    pageID,
		Type:  "page",
		Title: update.Title,
		Version: &struct {
			Number int `json:"number"`
		}{Number: update.BaseVersion + 1},
		Body: &struct {
			Storage struct {
				Value          string `json:"value"`
				Representation string `json:"representation,omitempty"`
			} `json:"storage"`
		}{},
	}
	payload.Body.Storage.Value = update.Body
	payload.Body.Storage.Representation = "storage"

	endpoint := "/rest/api/content/" + pageID
	var result content
	if err := c.do(ctx, http.MethodPut, endpoint, payload, &result); err != nil {
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			return nil, &errors.ConflictError{
				PageID:        pageID,
				BaseVersion:   update.BaseVersion,
				ServerMessage: apiErr.Message,
			}
		}
		return nil, err
	}
	return result.page(), nil
}

// AddLabel ensures a label on the page. Adding an existing label is a
// no-op on the Confluence side.
func (c *Client) AddLabel(ctx context.Context, pageID, label string) error {
	payload := []map[string]string{{"prefix": "global", "name": label}}
	endpoint := fmt.Sprintf("/rest/api/content/%s/label", pageID)
	return c.do(ctx, http.MethodPost, endpoint, payload, nil)
}

// do performs one API request: basic auth, JSON in and out, status
// mapped to the error taxonomy.
func (c *Client) do(ctx context.Context, method, endpoint string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return errors.WrapAPI(endpoint, 0, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return errors.WrapAPI(endpoint, 0, err)
	}
	req.SetBasicAuth(c.username, c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapAPI(endpoint, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(endpoint, resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return errors.WrapAPI(endpoint, resp.StatusCode, err)
		}
	}
	return nil
}

func (c *Client) statusError(endpoint string, resp *http.Response) error {
	message := readErrorMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &errors.AuthenticationError{
			Endpoint: endpoint,
			Method:   "basic",
			Message:  message,
		}
	case http.StatusNotFound:
		id := strings.TrimPrefix(endpoint, "/rest/api/content/")
		if i := strings.IndexByte(id, '?'); i >= 0 {
			id = id[:i]
		}
		return errors.NewNotFoundError("page", id)
	default:
		return errors.NewAPIError(endpoint, resp.StatusCode, message)
	}
}

// readErrorMessage pulls the human-readable message out of a Confluence
// error response, falling back to the raw body.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "request failed"
	}
	var parsed struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &parsed) == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(raw))
}
