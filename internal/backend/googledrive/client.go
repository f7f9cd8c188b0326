// Package googledrive implements the service.Drive interface using the Google Drive API.
package googledrive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"sidepad/internal/service"
)

const (
	// APITimeout is the timeout for metadata calls.
	APITimeout = 10 * time.Second

	// UploadTimeout is the timeout for a single file upload.
	UploadTimeout = 60 * time.Second
)

// Client implements service.Drive using Google Drive API v3.
type Client struct {
	svc *drive.Service
}

var _ service.Drive = (*Client)(nil)

// New creates a Drive client that sends every request through httpClient.
// httpClient is expected to carry the bearer token.
func New(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// NewWithEndpoint creates a client against a custom API endpoint (for testing).
func NewWithEndpoint(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	svc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient), option.WithEndpoint(endpoint))
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc}, nil
}

// FindFolder implements service.Drive.
func (c *Client) FindFolder(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(name), service.FolderMimeType)

	resp, err := c.svc.Files.List().Q(q).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}

	for _, f := range resp.Files {
		// The query already matches by name; skip malformed entries
		if f == nil || f.Id == "" {
			continue
		}
		return f.Id, nil
	}
	return "", nil
}

// CreateFolder implements service.Drive.
func (c *Client) CreateFolder(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	folder := &drive.File{
		Name:     name,
		MimeType: service.FolderMimeType,
	}
	created, err := c.svc.Files.Create(folder).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	if created == nil || created.Id == "" {
		return "", errors.New("folder created without an id")
	}
	return created.Id, nil
}

// CreateFile implements service.Drive.
// The file goes up as a multipart request: JSON metadata, then raw content.
func (c *Client) CreateFile(ctx context.Context, folderID string, f service.File) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	meta := &drive.File{
		Name:     f.Name,
		MimeType: f.MimeType,
		Parents:  []string{folderID},
	}
	created, err := c.svc.Files.Create(meta).
		Media(bytes.NewReader(f.Content), googleapi.ContentType(f.MimeType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return wrapError(err)
	}
	if created == nil || created.Id == "" {
		return errors.New("file created without an id")
	}
	return nil
}

// escapeQuery escapes a value for a single-quoted Drive query string.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: token expired or revoked (run: sidepad logout, then sidepad login)", service.ErrAuthRequired)
		case http.StatusForbidden:
			if reason := quotaReason(apiErr); reason != "" {
				return fmt.Errorf("drive refused the request: %s", reason)
			}
			return fmt.Errorf("%w: access denied (run: sidepad logout, then sidepad login)", service.ErrAuthRequired)
		case http.StatusNotFound:
			return fmt.Errorf("not found")
		}
	}

	return err
}

// quotaReason returns the first rate-limit or quota reason of a 403, or "".
// Those are not credential problems and signing in again does not help.
func quotaReason(apiErr *googleapi.Error) string {
	for _, item := range apiErr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded", "dailyLimitExceeded",
			"storageQuotaExceeded", "quotaExceeded", "sharingRateLimitExceeded":
			return item.Reason
		}
	}
	return ""
}
