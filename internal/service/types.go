// Package service defines the backend-agnostic types and interfaces shared by
// the list managers, the upload client and the commands.
package service

// TodoItem is a single todo entry.
// Completed only ever moves from false to true.
type TodoItem struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// NoteItem is a single note. Notes are never edited after they are added.
type NoteItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// File is the payload for a single upload.
type File struct {
	Name     string
	MimeType string
	Content  []byte
}

// UploadResult reports the outcome of uploading one note.
// Err is nil on success.
type UploadResult struct {
	Index int
	Note  NoteItem
	Err   error
}
