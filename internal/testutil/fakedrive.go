// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sidepad/internal/service"
)

// ErrFakeUpload is the default error for injected upload failures.
var ErrFakeUpload = errors.New("fake upload error")

// UploadedFile records one CreateFile call.
type UploadedFile struct {
	FolderID string
	File     service.File
}

// FakeDrive is an in-memory implementation of service.Drive for testing.
type FakeDrive struct {
	mu      sync.Mutex
	folders []fakeFolder
	files   []UploadedFile
	nextID  int

	// Counters for assertions
	FindCalls   int
	CreateCalls int
	UploadCalls int

	// Error injection for testing
	FindFolderErr   error
	CreateFolderErr error
	CreateFileErr   map[string]error // file name -> error
}

var _ service.Drive = (*FakeDrive)(nil)

type fakeFolder struct {
	id      string
	name    string
	trashed bool
}

// NewFakeDrive creates an empty FakeDrive.
func NewFakeDrive() *FakeDrive {
	return &FakeDrive{CreateFileErr: make(map[string]error)}
}

// AddFolder adds an existing folder.
func (f *FakeDrive) AddFolder(id, name string, trashed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folders = append(f.folders, fakeFolder{id: id, name: name, trashed: trashed})
}

// FailUpload makes uploads of the named file fail.
func (f *FakeDrive) FailUpload(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateFileErr[name] = ErrFakeUpload
}

// Files returns the uploaded files in upload order.
func (f *FakeDrive) Files() []UploadedFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]UploadedFile, len(f.files))
	copy(out, f.files)
	return out
}

// FolderCount returns the number of folders, trashed ones included.
func (f *FakeDrive) FolderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.folders)
}

// FindFolder implements service.Drive.
func (f *FakeDrive) FindFolder(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FindCalls++
	if f.FindFolderErr != nil {
		return "", f.FindFolderErr
	}
	for _, folder := range f.folders {
		if folder.name == name && !folder.trashed {
			return folder.id, nil
		}
	}
	return "", nil
}

// CreateFolder implements service.Drive.
func (f *FakeDrive) CreateFolder(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateFolderErr != nil {
		return "", f.CreateFolderErr
	}
	f.nextID++
	id := fmt.Sprintf("folder-%d", f.nextID)
	f.folders = append(f.folders, fakeFolder{id: id, name: name})
	return id, nil
}

// CreateFile implements service.Drive.
func (f *FakeDrive) CreateFile(ctx context.Context, folderID string, file service.File) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UploadCalls++
	if err, ok := f.CreateFileErr[file.Name]; ok && err != nil {
		return err
	}
	f.files = append(f.files, UploadedFile{FolderID: folderID, File: file})
	return nil
}
