package utils

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// clipboardWriter is replaced in tests
var clipboardWriter = clipboard.WriteAll

// CopyToClipboard copies content to the system clipboard.
func CopyToClipboard(content string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available (install xclip, xsel or wl-clipboard)")
	}
	if err := clipboardWriter(content); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
