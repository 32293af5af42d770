// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package platform is the client-side corner of the lab data platform: the
// HTTP API for entry search, reference resolution, and entry creation, plus
// the local working copy of an upload's raw-file area.
package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/analysis-engine/internal/httputil"
	"github.com/pdiddy/analysis-engine/pkg/types"
)

// Client talks to the platform API for one upload.
type Client struct {
	HTTP   *http.Client
	Config types.PlatformConfig
	Token  string
}

// NewClient builds a Client from config. The token may be empty for
// installations that allow anonymous reads.
func NewClient(cfg types.PlatformConfig, token string) *Client {
	return &Client{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
		Token:  token,
	}
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("User-Agent", c.Config.UserAgent)
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return httputil.DoJSON(c.HTTP, req, out)
}

// Entry search API structures.
type searchRequest struct {
	Owner      string           `json:"owner"`
	Query      map[string]any   `json:"query"`
	Pagination searchPagination `json:"pagination"`
	Required   searchProjection `json:"required"`
}

type searchPagination struct {
	PageSize int `json:"page_size"`
}

type searchProjection struct {
	Include []string `json:"include"`
}

type searchResponse struct {
	Data []types.EntryMeta `json:"data"`
}

// SearchClass returns the entries whose ELN section list contains class.
// The projection is limited to the identity fields needed to build proxy
// values.
func (c *Client) SearchClass(ctx context.Context, class string) ([]types.EntryMeta, error) {
	body := searchRequest{
		Owner: c.Config.Owner,
		Query: map[string]any{
			"results.eln.sections:any": []string{class},
		},
		Pagination: searchPagination{PageSize: c.Config.PageSize},
		Required:   searchProjection{Include: []string{"entry_id", "upload_id", "mainfile"}},
	}

	req, err := httputil.NewJSONRequest(ctx, http.MethodPost, c.Config.BaseURL+"/entries/query", body)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}

	var out searchResponse
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("searching entries of class %s: %w", class, err)
	}
	return out.Data, nil
}

// Archive query API structures.
type archiveRequest struct {
	Required map[string]any `json:"required"`
}

type archiveResponse struct {
	Data archiveEnvelope `json:"data"`
}

type archiveEnvelope struct {
	Archive archiveBody `json:"archive"`
}

type archiveBody struct {
	Data sectionIdentity `json:"data"`
}

type sectionIdentity struct {
	Name  string `json:"name"`
	LabID string `json:"lab_id"`
}

// Resolve fetches the data section a proxy value points at and returns its
// identifying fields.
func (c *Client) Resolve(ctx context.Context, proxyValue string) (types.ResolvedSection, error) {
	entryID := EntryIDFromProxy(proxyValue)
	if entryID == "" {
		return types.ResolvedSection{}, fmt.Errorf("proxy value %q has no entry id", proxyValue)
	}

	body := archiveRequest{Required: map[string]any{"data": "*"}}
	req, err := httputil.NewJSONRequest(ctx, http.MethodPost,
		fmt.Sprintf("%s/entries/%s/archive/query", c.Config.BaseURL, entryID), body)
	if err != nil {
		return types.ResolvedSection{}, fmt.Errorf("building archive request: %w", err)
	}

	var out archiveResponse
	if err := c.do(req, &out); err != nil {
		return types.ResolvedSection{}, fmt.Errorf("resolving entry %s: %w", entryID, err)
	}
	return types.ResolvedSection{
		Name:  out.Data.Archive.Data.Name,
		LabID: out.Data.Archive.Data.LabID,
	}, nil
}

// Upload processing API structures.
type processingResponse struct {
	Processing processingBody `json:"processing"`
}

type processingBody struct {
	Entry processedEntry `json:"entry"`
}

type processedEntry struct {
	EntryID  string `json:"entry_id"`
	UploadID string `json:"upload_id"`
}

// CreateEntry uploads a section serialized inside the archive wrapper
// {"data": section} as a new raw file and waits for the platform to process
// it into an entry. A non-2xx response is an error carrying the response
// body. On success the new entry's proxy value is returned.
func (c *Client) CreateEntry(ctx context.Context, section any, fileName string) (string, error) {
	q := url.Values{}
	q.Set("file_name", fileName)
	q.Set("wait_for_processing", "true")
	q.Set("overwrite_if_exists", "true")
	endpoint := fmt.Sprintf("%s/uploads/%s/raw/?%s", c.Config.BaseURL, c.Config.UploadID, q.Encode())

	req, err := httputil.NewJSONRequest(ctx, http.MethodPut, endpoint, map[string]any{"data": section})
	if err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}

	var out processingResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("creating entry %s: %w", fileName, err)
	}

	entry := out.Processing.Entry
	if entry.EntryID == "" || entry.UploadID == "" {
		return "", fmt.Errorf("creating entry %s: processing response carries no entry identity", fileName)
	}
	return BuildProxy(entry.UploadID, entry.EntryID), nil
}
