package vim

import "github.com/atotto/clipboard"

// SystemClipboard is a ClipboardProvider backed by the OS clipboard.
type SystemClipboard struct{}

// NewSystemClipboard returns the OS clipboard, or nil when no clipboard
// utility is available.
func NewSystemClipboard() ClipboardProvider {
	if clipboard.Unsupported {
		return nil
	}
	return SystemClipboard{}
}

// Get returns the clipboard content.
func (SystemClipboard) Get() (string, error) {
	return clipboard.ReadAll()
}

// Set replaces the clipboard content.
func (SystemClipboard) Set(content string) error {
	return clipboard.WriteAll(content)
}
