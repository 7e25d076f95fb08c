package figma

import (
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

const defaultBaseURL = "https://api.figma.com"

// FrameRef identifies the frames to export from one design file.
type FrameRef struct {
	FileKey string
	NodeIDs []string
}

// ParseFrameURL extracts the file key and node ids from a pasted Figma URL,
// e.g. https://www.figma.com/design/AbC123/My-File?node-id=1-2&m=dev.
// Multiple node ids may be comma-separated in the node-id parameter.
func ParseFrameURL(raw string) (*FrameRef, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid figma URL: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	// /design/<key>/... or the older /file/<key>/...
	if len(parts) < 2 || (parts[0] != "design" && parts[0] != "file") {
		return nil, fmt.Errorf("not a figma file URL: %s", raw)
	}
	fileKey := parts[1]

	nodeParam := u.Query().Get("node-id")
	if nodeParam == "" {
		return nil, fmt.Errorf("figma URL carries no node-id: %s", raw)
	}

	var nodeIDs []string
	for _, id := range strings.Split(nodeParam, ",") {
		// the URL form uses 1-2, the API wants 1:2
		nodeIDs = append(nodeIDs, strings.ReplaceAll(strings.TrimSpace(id), "-", ":"))
	}

	return &FrameRef{FileKey: fileKey, NodeIDs: nodeIDs}, nil
}

// Client exports raster images from the Figma REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a Figma API client. The token falls back to FIGMA_TOKEN.
func NewClient(token string) (*Client, error) {
	if token == "" {
		token = os.Getenv("FIGMA_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("FIGMA_TOKEN not set")
	}
	return &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// WithBaseURL overrides the API root, mainly for tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type imagesResponse struct {
	Err    string            `json:"err"`
	Images map[string]string `json:"images"`
}

// ExportFrames asks the images endpoint for PNG renders of the given nodes
// and returns node id -> temporary image URL.
func (c *Client) ExportFrames(ctx context.Context, ref *FrameRef) (map[string]string, error) {
	endpoint := fmt.Sprintf("%s/v1/images/%s?ids=%s&format=png",
		c.baseURL, url.PathEscape(ref.FileKey), url.QueryEscape(strings.Join(ref.NodeIDs, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Figma-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &core.TransportError{Service: "figma", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &core.TransportError{
			Service: "figma",
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}

	var decoded imagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &core.TransportError{Service: "figma", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if decoded.Err != "" {
		return nil, &core.TransportError{Service: "figma", Err: fmt.Errorf("%s", decoded.Err)}
	}

	return decoded.Images, nil
}

// Download fetches one exported image as an attachment. Exports are PNG.
func (c *Client) Download(ctx context.Context, imageURL string) (*core.Attachment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &core.TransportError{Service: "figma", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &core.TransportError{Service: "figma", Status: resp.StatusCode, Err: fmt.Errorf("image download failed")}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.TransportError{Service: "figma", Err: err}
	}

	return &core.Attachment{Data: data, MediaType: "image/png"}, nil
}

// FetchCaptures resolves a pasted frame URL into ready-to-attach captures,
// in the node order of the URL so capture numbering stays stable.
func (c *Client) FetchCaptures(ctx context.Context, frameURL string) ([]core.Attachment, error) {
	ref, err := ParseFrameURL(frameURL)
	if err != nil {
		return nil, err
	}

	images, err := c.ExportFrames(ctx, ref)
	if err != nil {
		return nil, err
	}

	var captures []core.Attachment
	for _, nodeID := range ref.NodeIDs {
		imageURL, ok := images[nodeID]
		if !ok || imageURL == "" {
			return nil, fmt.Errorf("figma did not export node %s", nodeID)
		}
		att, err := c.Download(ctx, imageURL)
		if err != nil {
			return nil, err
		}
		captures = append(captures, *att)
	}

	return captures, nil
}
