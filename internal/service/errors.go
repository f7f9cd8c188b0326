package service

import "errors"

var (
	// ErrValidation is returned when a required field is empty.
	ErrValidation = errors.New("validation error")

	// ErrIndexOutOfRange is returned when an item number does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrStorageRead is returned when persisted data cannot be decoded.
	// The caller still receives a usable empty list.
	ErrStorageRead = errors.New("stored data unreadable")

	// ErrAuthRequired is returned when an operation needs a signed-in session.
	ErrAuthRequired = errors.New("sign-in required")

	// ErrUploadFailed is returned when a single file upload fails.
	ErrUploadFailed = errors.New("upload failed")
)
