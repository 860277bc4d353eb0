// Package types defines every cross-package data structure used by the treeline CLI.
package types

import "sort"

const (
	// DefaultOutputFileName is the file written by the no-argument fallback mode.
	DefaultOutputFileName = "directory_tree_output.txt"

	// StandardOutputName identifies the stdout destination in log messages.
	StandardOutputName = "stdout"
)

// DefaultFallbackIgnoreNames returns the ignore names applied by the
// no-argument fallback mode: common VCS and tooling artifacts.
func DefaultFallbackIgnoreNames() []string {
	return []string{"venv", ".git", ".gitignore", ".DS_Store", ".vscode"}
}

// RenderRequest describes one rendering invocation. It is immutable for the
// duration of the render.
type RenderRequest struct {
	// RootPath is the absolute directory the traversal starts from.
	RootPath string
	// OutputFilePath is the destination file; empty selects stdout.
	OutputFilePath string
	// FollowSymlinks instructs the traversal to descend into symbolic
	// directory links. No cycle detection is performed.
	FollowSymlinks bool
	// SafeMode is accepted and stored but does not currently restrict
	// symlink following.
	SafeMode bool
	// IgnoreNames are exact entry basenames excluded from output and,
	// for directories, from descent.
	IgnoreNames []string
	// CopyToClipboard mirrors the rendered text to the system clipboard.
	CopyToClipboard bool
}

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// IgnoreSet is an exact-match collection of entry basenames. Matching is
// name-only: no globbing, no path components.
type IgnoreSet struct {
	names map[string]struct{}
}

// NewIgnoreSet builds an IgnoreSet from the provided names. Empty names are
// discarded.
func NewIgnoreSet(names []string) IgnoreSet {
	set := IgnoreSet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if name == "" {
			continue
		}
		set.names[name] = struct{}{}
	}
	return set
}

// Contains reports whether the exact name is present in the set.
func (set IgnoreSet) Contains(name string) bool {
	_, present := set.names[name]
	return present
}

// Len returns the number of names in the set.
func (set IgnoreSet) Len() int {
	return len(set.names)
}

// Names returns the set's members in sorted order.
func (set IgnoreSet) Names() []string {
	collected := make([]string, 0, len(set.names))
	for name := range set.names {
		collected = append(collected, name)
	}
	sort.Strings(collected)
	return collected
}
