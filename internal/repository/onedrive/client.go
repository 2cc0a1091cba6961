package onedrive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/seongbear/document-edit-ai/internal/config"
	"github.com/seongbear/document-edit-ai/internal/domain"
	"github.com/seongbear/document-edit-ai/internal/domain/models"
	"github.com/seongbear/document-edit-ai/internal/domain/services"
)

const (
	// DefaultBaseURL is the Microsoft Graph v1.0 endpoint.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	searchQuery = "/me/drive/root/search(q='.docx')"

	// maxPages bounds @odata.nextLink chains
	maxPages = 100

	// error bodies are kept verbatim up to this size
	maxErrorBody = 64 << 10
)

// Config holds configuration for the Graph drive client
type Config struct {
	BaseURL     string
	TokenSource oauth2.TokenSource
	HTTPClient  *http.Client
	Logger      *slog.Logger

	// MaxDownloadBytes caps a single download; zero means config.MaxDocumentBytes
	MaxDownloadBytes int64
}

// Client is a DocumentStore backed by a OneDrive drive.
type Client struct {
	baseURL     string
	tokens      oauth2.TokenSource
	httpClient  *http.Client
	logger      *slog.Logger
	maxDownload int64
}

// NewClient creates a new Graph drive client
func NewClient(cfg Config) services.DocumentStore {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxDownload := cfg.MaxDownloadBytes
	if maxDownload <= 0 {
		maxDownload = config.MaxDocumentBytes
	}

	return &Client{
		baseURL:     baseURL,
		tokens:      cfg.TokenSource,
		httpClient:  httpClient,
		logger:      logger,
		maxDownload: maxDownload,
	}
}

// driveItem is the subset of a Graph driveItem we read
type driveItem struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Size                 int64      `json:"size"`
	LastModifiedDateTime string     `json:"lastModifiedDateTime"`
	WebURL               string     `json:"webUrl"`
	DownloadURL          string     `json:"@microsoft.graph.downloadUrl"`
	File                 *fileFacet `json:"file"`
}

type fileFacet struct {
	MimeType string `json:"mimeType"`
}

type driveItemPage struct {
	Value    []driveItem `json:"value"`
	NextLink string      `json:"@odata.nextLink"`
}

func (item driveItem) toRef() models.DocumentRef {
	ref := models.DocumentRef{
		ID:          item.ID,
		Name:        item.Name,
		SizeBytes:   max(item.Size, 0),
		WebURL:      item.WebURL,
		DownloadURL: item.DownloadURL,
	}
	if t, err := time.Parse(time.RFC3339Nano, item.LastModifiedDateTime); err == nil {
		ref.LastModified = t
	}
	return ref
}

// isWordDocument keeps real .docx files and skips Office lock files ("~$name.docx").
func (item driveItem) isWordDocument() bool {
	return item.File != nil &&
		strings.HasSuffix(strings.ToLower(item.Name), ".docx") &&
		!strings.HasPrefix(item.Name, "~")
}

// ListDocuments searches the drive for Word documents.
func (c *Client) ListDocuments(ctx context.Context) ([]models.DocumentRef, error) {
	const op = "list documents"

	docs := []models.DocumentRef{}
	next := c.baseURL + searchQuery
	for page := 0; next != ""; page++ {
		if page == maxPages {
			c.logger.Warn("drive search truncated", "pages", page)
			break
		}

		var result driveItemPage
		if err := c.getJSON(ctx, op, next, &result); err != nil {
			return nil, err
		}
		for _, item := range result.Value {
			if item.isWordDocument() {
				docs = append(docs, item.toRef())
			}
		}
		next = result.NextLink
	}

	SortByLastModified(docs)
	c.logger.Debug("documents listed", "count", len(docs))
	return docs, nil
}

// SortByLastModified orders documents newest first. Documents without a
// modification time go last, keeping their relative order.
func SortByLastModified(docs []models.DocumentRef) {
	slices.SortStableFunc(docs, func(a, b models.DocumentRef) int {
		switch {
		case a.HasLastModified() && !b.HasLastModified():
			return -1
		case !a.HasLastModified() && b.HasLastModified():
			return 1
		default:
			return b.LastModified.Compare(a.LastModified)
		}
	})
}

// GetDocumentInfo returns the metadata of one drive item.
func (c *Client) GetDocumentInfo(ctx context.Context, id string) (*models.DocumentRef, error) {
	const op = "get document info"

	var item driveItem
	if err := c.getJSON(ctx, op, c.itemURL(id, ""), &item); err != nil {
		return nil, err
	}
	ref := item.toRef()
	return &ref, nil
}

// DownloadDocument fetches the raw content of a drive item.
func (c *Client) DownloadDocument(ctx context.Context, id string) ([]byte, error) {
	const op = "download document"

	resp, err := c.do(ctx, op, http.MethodGet, c.itemURL(id, "/content"), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxDownload+1))
	if err != nil {
		return nil, &domain.RemoteError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(data)) > c.maxDownload {
		return nil, &domain.RemoteError{Op: op, Err: fmt.Errorf("document exceeds %d bytes", c.maxDownload)}
	}

	c.logger.Debug("document downloaded", "id", id, "bytes", len(data))
	return data, nil
}

// UploadDocument replaces the content of a drive item. The returned
// reference is the drive's view of the item after the write.
func (c *Client) UploadDocument(ctx context.Context, id string, data []byte) (*models.DocumentRef, error) {
	const op = "upload document"

	resp, err := c.do(ctx, op, http.MethodPut, c.itemURL(id, "/content"), bytes.NewReader(data), "application/octet-stream")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var item driveItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil || item.ID == "" {
		// the write succeeded; an unreadable ack only loses metadata
		c.logger.Warn("upload response unreadable", "id", id, "error", err)
		return &models.DocumentRef{ID: id}, nil
	}

	ref := item.toRef()
	c.logger.Info("document uploaded", "id", id, "bytes", len(data))
	return &ref, nil
}

func (c *Client) itemURL(id, suffix string) string {
	return fmt.Sprintf("%s/me/drive/items/%s%s", c.baseURL, url.PathEscape(id), suffix)
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, out any) error {
	resp, err := c.do(ctx, op, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.RemoteError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// do sends an authorized request and returns the response for any 2xx status.
// The caller closes the body.
func (c *Client) do(ctx context.Context, op, method, endpoint string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, &domain.RemoteError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if err := c.authorize(req, op); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.RemoteError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("graph request failed", "op", op, "status", resp.StatusCode)
		return nil, &domain.RemoteError{
			Op:     op,
			Status: resp.StatusCode,
			Body:   string(msg),
			Err:    fmt.Errorf("status %d", resp.StatusCode),
		}
	}
	return resp, nil
}

func (c *Client) authorize(req *http.Request, op string) error {
	if c.tokens == nil {
		return &domain.AuthError{Op: op, Err: errors.New("no token source configured")}
	}
	tok, err := c.tokens.Token()
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return &domain.AuthError{Op: op, Err: err}
	}
	tok.SetAuthHeader(req)
	return nil
}
