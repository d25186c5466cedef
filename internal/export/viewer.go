package export

import (
	"io"

	"github.com/pkg/browser"
)

func init() {
	// browser echoes the launcher's output; keep stdout clean for the MCP stdio transport.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// BrowserViewer opens documents in the system web browser.
type BrowserViewer struct{}

func (BrowserViewer) Open(doc io.Reader) error {
	return browser.OpenReader(doc)
}
