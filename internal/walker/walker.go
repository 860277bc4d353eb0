// Package walker implements the sequential directory traversal that feeds
// the tree renderer. The walk is depth-first and pre-order; subdirectories
// are sorted lexicographically before descent so output is reproducible
// across runs.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/treeline-dev/treeline/internal/types"
)

const (
	// errorReadDirectoryFormat is used when a directory cannot be listed.
	errorReadDirectoryFormat = "reading directory %s: %w"
	// errorStatRootFormat is used when the root path cannot be inspected.
	errorStatRootFormat = "stat failed for '%s': %w"
	// errorRootNotDirectoryFormat is used when the root path is not a directory.
	errorRootNotDirectoryFormat = "root path '%s' is not a directory"
	// errorNilHandlerMessage is returned when Walk is invoked without a handler.
	errorNilHandlerMessage = "walker: step handler is nil"
)

// Step describes a single visited directory. The sibling index and count are
// carried forward from the parent's sorted subdirectory listing, so the
// last-sibling decision never re-lists the parent.
type Step struct {
	// Path is the directory's absolute path.
	Path string
	// Name is the directory's basename.
	Name string
	// Depth is 0 for the root and grows by one per level of descent.
	Depth int
	// SiblingIndex is the directory's position within its parent's sorted
	// subdirectory list; 0 for the root.
	SiblingIndex int
	// SiblingCount is the size of that list; 1 for the root.
	SiblingCount int
	// SubdirectoryNames lists the immediate subdirectories in sorted order,
	// before any ignore handling. Symlinked directories are listed whether
	// or not they will be traversed.
	SubdirectoryNames []string
	// FileNames lists the immediate non-directory entries in sorted order.
	FileNames []string
	// Pruned is true when the directory's basename matched the ignore set;
	// none of its children are visited.
	Pruned bool
}

// IsLastSibling reports whether the directory sorts last among its parent's
// immediate subdirectories. The root counts as last.
func (step Step) IsLastSibling() bool {
	return step.SiblingIndex == step.SiblingCount-1
}

// Options configure a traversal.
type Options struct {
	// Root is the absolute directory the walk starts from.
	Root string
	// Ignore holds the exact basenames that prune descent.
	Ignore types.IgnoreSet
	// FollowSymlinks descends into symbolic directory links. A symlink
	// cycle causes unbounded traversal; callers are expected to know their
	// tree.
	FollowSymlinks bool
	// SafeMode is stored for parity with the command surface. It does not
	// currently alter symlink handling.
	SafeMode bool
}

// Handler consumes one walk step. Returning an error stops the traversal.
type Handler func(step Step) error

// Walk performs the traversal rooted at options.Root, invoking handler once
// per visited directory. The root must exist and be a directory; failures to
// list any directory during descent propagate unmodified.
func Walk(options Options, handler Handler) error {
	if handler == nil {
		return fmt.Errorf(errorNilHandlerMessage)
	}

	rootInfo, rootStatError := os.Stat(options.Root)
	if rootStatError != nil {
		return fmt.Errorf(errorStatRootFormat, options.Root, rootStatError)
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf(errorRootNotDirectoryFormat, options.Root)
	}

	walk := &walkContext{options: options, handler: handler}
	return walk.walkDirectory(options.Root, 0, 0, 1)
}

type walkContext struct {
	options Options
	handler Handler
}

// directoryListing separates one directory's entries into subdirectories and
// files. traversable records which subdirectory names may be descended into
// (symlinked directories are listed but only traversed when following links).
type directoryListing struct {
	subdirectoryNames []string
	traversable       map[string]bool
	fileNames         []string
}

func (walk *walkContext) walkDirectory(directoryPath string, depth int, siblingIndex int, siblingCount int) error {
	listing, listError := walk.listDirectory(directoryPath)
	if listError != nil {
		return listError
	}

	directoryName := filepath.Base(directoryPath)
	step := Step{
		Path:              directoryPath,
		Name:              directoryName,
		Depth:             depth,
		SiblingIndex:      siblingIndex,
		SiblingCount:      siblingCount,
		SubdirectoryNames: listing.subdirectoryNames,
		FileNames:         listing.fileNames,
		Pruned:            walk.options.Ignore.Contains(directoryName),
	}
	if handlerError := walk.handler(step); handlerError != nil {
		return handlerError
	}
	if step.Pruned {
		return nil
	}

	for subdirectoryIndex, subdirectoryName := range listing.subdirectoryNames {
		if !listing.traversable[subdirectoryName] {
			continue
		}
		childPath := filepath.Join(directoryPath, subdirectoryName)
		if walkError := walk.walkDirectory(childPath, depth+1, subdirectoryIndex, len(listing.subdirectoryNames)); walkError != nil {
			return walkError
		}
	}
	return nil
}

// listDirectory classifies the immediate entries of a directory. Regular
// directories are always traversable. A symlink whose target is a directory
// is listed among the subdirectories either way, but traversed only when
// FollowSymlinks is set. Everything else, broken symlinks included, counts
// as a file.
func (walk *walkContext) listDirectory(directoryPath string) (directoryListing, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return directoryListing{}, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
	}

	listing := directoryListing{traversable: make(map[string]bool)}
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if directoryEntry.IsDir() {
			listing.subdirectoryNames = append(listing.subdirectoryNames, entryName)
			listing.traversable[entryName] = true
			continue
		}
		if directoryEntry.Type()&os.ModeSymlink != 0 {
			targetInfo, targetStatError := os.Stat(filepath.Join(directoryPath, entryName))
			if targetStatError == nil && targetInfo.IsDir() {
				listing.subdirectoryNames = append(listing.subdirectoryNames, entryName)
				listing.traversable[entryName] = walk.options.FollowSymlinks
				continue
			}
		}
		listing.fileNames = append(listing.fileNames, entryName)
	}

	sort.Strings(listing.subdirectoryNames)
	return listing, nil
}
