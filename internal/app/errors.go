package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrNoActiveDocument indicates no document is currently active.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrDocumentNotFound indicates a document was not found.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrUnsavedChanges indicates there are unsaved changes.
	ErrUnsavedChanges = errors.New("no write since last change (add ! to override)")

	// ErrNoFilePath indicates a scratch document was saved without a name.
	ErrNoFilePath = errors.New("no file name")

	// ErrTrailingCharacters indicates an ex command got arguments it does
	// not take.
	ErrTrailingCharacters = errors.New("trailing characters")
)

// FileError represents a file operation error.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return e.Op + " " + e.Path
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
