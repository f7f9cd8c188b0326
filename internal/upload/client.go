// Package upload sends notes to the storage provider on behalf of a signed-in
// session.
package upload

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"sidepad/internal/identity"
	"sidepad/internal/service"
)

// NoteMimeType is the mime type notes are uploaded as.
const NoteMimeType = "text/plain"

// Session is the part of identity.Client the uploader depends on.
type Session interface {
	State() identity.State
	HTTPClient(ctx context.Context) (*http.Client, error)
}

var _ Session = (*identity.Client)(nil)

// DriveOpener builds a Drive backend on top of an authorized HTTP client.
type DriveOpener func(ctx context.Context, httpClient *http.Client) (service.Drive, error)

// Client resolves the target folder and uploads notes into it.
type Client struct {
	session Session
	open    DriveOpener
	log     *zap.Logger

	drive service.Drive
}

// New creates an upload client.
func New(session Session, open DriveOpener, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{session: session, open: open, log: log}
}

// backend returns the Drive backend, opening it on first use.
func (c *Client) backend(ctx context.Context) (service.Drive, error) {
	if c.session.State() != identity.SignedIn {
		return nil, service.ErrAuthRequired
	}
	if c.drive != nil {
		return c.drive, nil
	}
	hc, err := c.session.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	d, err := c.open(ctx, hc)
	if err != nil {
		return nil, err
	}
	c.drive = d
	return d, nil
}

// ResolveFolder returns the id of the non-trashed folder called name,
// creating it if there is none.
func (c *Client) ResolveFolder(ctx context.Context, name string) (string, error) {
	d, err := c.backend(ctx)
	if err != nil {
		return "", err
	}

	id, err := d.FindFolder(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to look up folder %q: %w", name, err)
	}
	if id != "" {
		c.log.Debug("folder found", zap.String("name", name), zap.String("id", id))
		return id, nil
	}

	id, err = d.CreateFolder(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", name, err)
	}
	c.log.Info("folder created", zap.String("name", name), zap.String("id", id))
	return id, nil
}

// UploadFile uploads content as "<title>.txt" into folderID. There is no retry.
func (c *Client) UploadFile(ctx context.Context, title, content, folderID string) error {
	d, err := c.backend(ctx)
	if err != nil {
		return err
	}

	f := service.File{
		Name:     title + ".txt",
		MimeType: NoteMimeType,
		Content:  []byte(content),
	}
	if err := d.CreateFile(ctx, folderID, f); err != nil {
		c.log.Warn("upload failed", zap.String("title", title), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", service.ErrUploadFailed, title, err)
	}
	c.log.Info("note uploaded", zap.String("title", title))
	return nil
}

// UploadAll uploads every note in order, one at a time, into the folder
// called folderName. Each note gets its own result; a failure never stops
// the batch. Without a session every note reports service.ErrAuthRequired.
func (c *Client) UploadAll(ctx context.Context, notes []service.NoteItem, folderName string) []service.UploadResult {
	results := make([]service.UploadResult, len(notes))
	for i, n := range notes {
		results[i] = service.UploadResult{Index: i, Note: n}
	}

	if len(notes) == 0 {
		return results
	}
	if c.session.State() != identity.SignedIn {
		for i := range results {
			results[i].Err = service.ErrAuthRequired
		}
		return results
	}

	folderID, err := c.ResolveFolder(ctx, folderName)
	if err != nil {
		for i := range results {
			results[i].Err = fmt.Errorf("%w: %w", service.ErrUploadFailed, err)
		}
		return results
	}

	for i, n := range notes {
		if err := ctx.Err(); err != nil {
			results[i].Err = fmt.Errorf("%w: %s: %w", service.ErrUploadFailed, n.Title, err)
			continue
		}
		results[i].Err = c.UploadFile(ctx, n.Title, n.Content, folderID)
	}
	return results
}
