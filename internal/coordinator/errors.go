package coordinator

import (
	"errors"
	"fmt"
)

var (
	ErrNoFilename          = errors.New("coordinator: filename required")
	ErrUnknownConfirmation = errors.New("coordinator: unknown or already resolved delete confirmation")
)

type UploadFailedError struct {
	Filename string
	Err      error
}

func (e *UploadFailedError) Error() string {
	return fmt.Sprintf("upload failed: %s: %v", e.Filename, e.Err)
}

func (e *UploadFailedError) Unwrap() error { return e.Err }

type ListingFailedError struct {
	Err error
}

func (e *ListingFailedError) Error() string {
	return fmt.Sprintf("listing failed: %v", e.Err)
}

func (e *ListingFailedError) Unwrap() error { return e.Err }

type DownloadFailedError struct {
	Filename string
	Err      error
}

func (e *DownloadFailedError) Error() string {
	return fmt.Sprintf("download failed: %s: %v", e.Filename, e.Err)
}

func (e *DownloadFailedError) Unwrap() error { return e.Err }

type DeleteFailedError struct {
	Filename string
	Err      error
}

func (e *DeleteFailedError) Error() string {
	return fmt.Sprintf("delete failed: %s: %v", e.Filename, e.Err)
}

func (e *DeleteFailedError) Unwrap() error { return e.Err }

type SummarizeFailedError struct {
	Filename string
	Err      error
}

func (e *SummarizeFailedError) Error() string {
	return fmt.Sprintf("summarize failed: %s: %v", e.Filename, e.Err)
}

func (e *SummarizeFailedError) Unwrap() error { return e.Err }
