// Package output owns the render destination and the raw line renderer that
// turns walk events into the indented tree text.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/treeline-dev/treeline/internal/types"
)

const (
	// errorOpenOutputFormat is used when the output file cannot be created.
	errorOpenOutputFormat = "opening output file %s: %w"
	// errorCloseOutputFormat is used when the output file cannot be closed.
	errorCloseOutputFormat = "closing output file %s: %w"
)

// Destination is an open output target for one render: either a file opened
// in truncate-write mode or the process standard output. All rendered bytes
// are UTF-8 either way.
type Destination struct {
	writer io.Writer
	file   *os.File
	name   string
}

// OpenDestination opens the named file for writing, truncating any previous
// content. An empty path selects stdout.
func OpenDestination(outputFilePath string) (*Destination, error) {
	if outputFilePath == "" {
		return &Destination{writer: os.Stdout, name: types.StandardOutputName}, nil
	}
	outputFile, openError := os.Create(outputFilePath)
	if openError != nil {
		return nil, fmt.Errorf(errorOpenOutputFormat, outputFilePath, openError)
	}
	return &Destination{writer: outputFile, file: outputFile, name: outputFilePath}, nil
}

// Write forwards to the underlying target.
func (destination *Destination) Write(data []byte) (int, error) {
	return destination.writer.Write(data)
}

// Name identifies the destination for log messages.
func (destination *Destination) Name() string {
	return destination.name
}

// Close closes file-backed destinations. Standard output is left open.
func (destination *Destination) Close() error {
	if destination.file == nil {
		return nil
	}
	if closeError := destination.file.Close(); closeError != nil {
		return fmt.Errorf(errorCloseOutputFormat, destination.name, closeError)
	}
	return nil
}

var _ io.Writer = (*Destination)(nil)
