package output

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// errorClipboardCopyFormat is used when the system clipboard rejects the text.
const errorClipboardCopyFormat = "copying rendered tree to clipboard: %w"

// Copier copies rendered text to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// ClipboardCopier implements Copier using github.com/atotto/clipboard.
type ClipboardCopier struct{}

// NewClipboardCopier constructs the system clipboard copier.
func NewClipboardCopier() *ClipboardCopier {
	return &ClipboardCopier{}
}

// Copy writes text to the system clipboard.
func (copier *ClipboardCopier) Copy(text string) error {
	if copyError := clipboard.WriteAll(text); copyError != nil {
		return fmt.Errorf(errorClipboardCopyFormat, copyError)
	}
	return nil
}

var _ Copier = (*ClipboardCopier)(nil)
