package azdo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lmoreno/pbigen/internal/core"
)

const apiVersion = "7.1"

// Config holds the Azure DevOps Boards connection settings.
type Config struct {
	// Organization is the dev.azure.com organization name.
	Organization string `yaml:"organization"`

	// Project is the team project the work items land in.
	Project string `yaml:"project"`

	// PAT is the personal access token (falls back to AZURE_DEVOPS_PAT).
	PAT string `yaml:"-"`

	// BaseURL overrides the service root, mainly for tests.
	BaseURL string `yaml:"-"`
}

// Client is a thin Azure DevOps work-item tracking client.
type Client struct {
	baseURL    string
	project    string
	pat        string
	httpClient *http.Client
}

// WorkItem is a created work item in Azure DevOps.
type WorkItem struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// AttachmentRef is the hosted reference returned by an attachment upload.
type AttachmentRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// WorkItemOptions carries the optional fields of a create call.
type WorkItemOptions struct {
	IterationPath string
	AreaPath      string
	ParentURL     string // links the new item under this parent
}

// patchOp is one entry of a JSON-patch document, the wire format the
// work-item create endpoint expects.
type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// NewClient creates a client for one organization/project pair.
func NewClient(config Config) (*Client, error) {
	pat := config.PAT
	if pat == "" {
		pat = os.Getenv("AZURE_DEVOPS_PAT")
	}
	if pat == "" {
		return nil, fmt.Errorf("AZURE_DEVOPS_PAT not set")
	}
	if config.Organization == "" || config.Project == "" {
		return nil, fmt.Errorf("azure devops organization and project are required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://dev.azure.com/%s", config.Organization)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		project:    config.Project,
		pat:        pat,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// CreateWorkItem creates one work item of the given type with the rendered
// description. itemType is e.g. "Product Backlog Item" or "Task".
func (c *Client) CreateWorkItem(ctx context.Context, itemType, title, descriptionHTML string, opts WorkItemOptions) (*WorkItem, error) {
	ops := []patchOp{
		{Op: "add", Path: "/fields/System.Title", Value: title},
		{Op: "add", Path: "/fields/System.Description", Value: descriptionHTML},
	}
	if opts.IterationPath != "" {
		ops = append(ops, patchOp{Op: "add", Path: "/fields/System.IterationPath", Value: opts.IterationPath})
	}
	if opts.AreaPath != "" {
		ops = append(ops, patchOp{Op: "add", Path: "/fields/System.AreaPath", Value: opts.AreaPath})
	}
	if opts.ParentURL != "" {
		ops = append(ops, patchOp{
			Op:   "add",
			Path: "/relations/-",
			Value: map[string]any{
				"rel": "System.LinkTypes.Hierarchy-Reverse",
				"url": opts.ParentURL,
			},
		})
	}

	body, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patch document: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/_apis/wit/workitems/$%s?api-version=%s",
		c.baseURL, url.PathEscape(c.project), url.PathEscape(itemType), apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json-patch+json")
	req.SetBasicAuth("", c.pat)

	var item WorkItem
	if err := c.do(req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UploadAttachment uploads raw bytes and returns the hosted reference whose
// URL gets substituted into rendered descriptions.
func (c *Client) UploadAttachment(ctx context.Context, fileName string, data []byte) (*AttachmentRef, error) {
	endpoint := fmt.Sprintf("%s/%s/_apis/wit/attachments?fileName=%s&api-version=%s",
		c.baseURL, url.PathEscape(c.project), url.QueryEscape(fileName), apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.SetBasicAuth("", c.pat)

	var ref AttachmentRef
	if err := c.do(req, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// do executes the request and decodes the JSON response into out.
// Non-2xx statuses surface as TransportError with the provider's message.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &core.TransportError{Service: "azure-devops", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &core.TransportError{
			Service: "azure-devops",
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &core.TransportError{Service: "azure-devops", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
