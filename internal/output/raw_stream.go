package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/treeline-dev/treeline/internal/services/stream"
	"github.com/treeline-dev/treeline/internal/types"
	"github.com/treeline-dev/treeline/internal/walker"
)

const (
	// indentUnit is the indentation step; its width is part of the output
	// format that downstream consumers parse.
	indentUnit = "|   "

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "

	// prunedPlaceholder replaces the subtree of an ignored directory. It is
	// appended to the directory line's full indentation, branch connector
	// included, which matches the historical format byte for byte.
	prunedPlaceholder = "|   ..."

	continuationBar = "|"
	directorySuffix = "/"

	// errorWriteLineFormat is used when the destination rejects a write.
	errorWriteLineFormat = "writing output line: %w"
)

// StreamRenderer consumes walk events and produces the rendered tree.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}

type lineRenderer struct {
	destination io.Writer
	stderr      io.Writer
	ignore      types.IgnoreSet
	copier      Copier
	copyBuffer  bytes.Buffer
}

// NewLineRenderer builds the raw renderer. Warnings and errors go to stderr;
// rendered lines go to the destination. A non-nil copier receives the full
// rendered text at Flush.
func NewLineRenderer(destination io.Writer, stderr io.Writer, ignore types.IgnoreSet, copier Copier) StreamRenderer {
	return &lineRenderer{
		destination: destination,
		stderr:      stderr,
		ignore:      ignore,
		copier:      copier,
	}
}

func (renderer *lineRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindWarning:
		if event.Message != nil && renderer.stderr != nil {
			fmt.Fprintf(renderer.stderr, "Warning: %s\n", event.Message.Message)
		}
	case stream.EventKindError:
		if event.Err != nil && renderer.stderr != nil {
			fmt.Fprintln(renderer.stderr, event.Err.Message)
		}
	case stream.EventKindStep:
		if event.Step != nil {
			return renderer.renderStep(event.Step)
		}
	}
	return nil
}

func (renderer *lineRenderer) Flush() error {
	if renderer.copier == nil {
		return nil
	}
	return renderer.copier.Copy(renderer.copyBuffer.String())
}

// renderStep emits the lines owed to one visited directory: the directory
// line itself, then either the pruned placeholder or the file lines, then
// the continuation bar when the directory has subdirectories.
func (renderer *lineRenderer) renderStep(step *walker.Step) error {
	indentation := strings.Repeat(indentUnit, maxInt(step.Depth-1, 0))
	if step.Depth > 0 {
		if step.IsLastSibling() {
			indentation += treeLastConnector
		} else {
			indentation += treeBranchConnector
		}
	}
	if writeError := renderer.writeLine(indentation + step.Name + directorySuffix); writeError != nil {
		return writeError
	}

	if step.Pruned {
		return renderer.writeLine(indentation + prunedPlaceholder)
	}

	bodyIndentation := strings.Repeat(indentUnit, step.Depth)
	for _, fileName := range step.FileNames {
		if renderer.ignore.Contains(fileName) {
			continue
		}
		if writeError := renderer.writeLine(bodyIndentation + indentUnit + fileName); writeError != nil {
			return writeError
		}
	}

	if len(step.SubdirectoryNames) > 0 {
		return renderer.writeLine(bodyIndentation + continuationBar)
	}
	return nil
}

func (renderer *lineRenderer) writeLine(line string) error {
	if _, writeError := io.WriteString(renderer.destination, line+"\n"); writeError != nil {
		return fmt.Errorf(errorWriteLineFormat, writeError)
	}
	if renderer.copier != nil {
		renderer.copyBuffer.WriteString(line + "\n")
	}
	return nil
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
