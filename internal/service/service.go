// Package service defines the backend-agnostic types and interfaces shared by
// the list managers, the upload client and the commands.
package service

import "context"

// FolderMimeType is the Drive mime type that marks a file as a folder.
const FolderMimeType = "application/vnd.google-apps.folder"

// Drive defines the storage provider operations used by the upload client.
// All Google Drive API calls go through this interface.
// Commands never import the Google SDK directly.
type Drive interface {
	// FindFolder returns the id of a non-trashed folder whose name matches
	// exactly. Returns "" and a nil error if there is none.
	FindFolder(ctx context.Context, name string) (string, error)

	// CreateFolder creates a folder and returns its id.
	CreateFolder(ctx context.Context, name string) (string, error)

	// CreateFile uploads f into the folder folderID as a single multipart request.
	CreateFile(ctx context.Context, folderID string, f File) error
}
