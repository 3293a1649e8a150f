// Package analyzer contains the core logic of the treescope tool: the tree
// renderer, the content appender, the stats collector, and report assembly.
package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/treescope/treescope/internal/types"
	"github.com/treescope/treescope/internal/utils"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	// directorySuffix trails every rendered directory name.
	directorySuffix = "/"

	// permissionDeniedMarker is emitted beneath a directory whose children cannot be listed.
	permissionDeniedMarker = "[Permission Denied]"
	// symlinkCycleMarker is emitted when a directory resolves to an already-visited path.
	symlinkCycleMarker = "[Symlink cycle]"

	warningReadDirectoryMessage = "unable to read directory"
	warningStatEntryMessage     = "unable to stat entry"

	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	errorRootStatFormat     = "%s: %w"
)

// Renderer walks a directory tree and produces the rendered tree lines plus
// the ordered Entry sequence. A Renderer is single use per Render call and
// keeps no state between calls.
type Renderer struct {
	Settings types.Settings
	Logger   *zap.Logger

	// OnEntry, when set, is invoked for every visited entry in traversal
	// order. Returning false stops the traversal early; entries visited so
	// far remain in the result.
	OnEntry func(types.Entry) bool
}

// traversalState accumulates output during one Render call.
type traversalState struct {
	lines              []string
	entries            []types.Entry
	visitedDirectories map[string]struct{}
	stopped            bool
}

// Render validates the root path and produces the RenderResult for it.
// A nonexistent root yields types.ErrRootNotFound and a root that is not a
// directory yields types.ErrRootNotDirectory; in both cases no partial output
// is produced. Per-entry failures are embedded as inline markers instead.
func (renderer *Renderer) Render() (*types.RenderResult, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(renderer.Settings.RootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, renderer.Settings.RootPath, absolutePathError)
	}

	rootInfo, rootStatError := os.Stat(absoluteRootPath)
	if rootStatError != nil {
		return nil, fmt.Errorf(errorRootStatFormat, absoluteRootPath, types.ErrRootNotFound)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootStatFormat, absoluteRootPath, types.ErrRootNotDirectory)
	}

	state := &traversalState{
		visitedDirectories: map[string]struct{}{},
	}
	if resolvedRootPath, resolveError := filepath.EvalSymlinks(absoluteRootPath); resolveError == nil {
		state.visitedDirectories[resolvedRootPath] = struct{}{}
	}

	rootEntry := types.Entry{
		Path:   absoluteRootPath,
		Name:   filepath.Base(absoluteRootPath),
		Kind:   types.EntryKindDirectory,
		Depth:  0,
		IsLast: true,
	}
	state.lines = append(state.lines, rootEntry.Name+directorySuffix)
	state.entries = append(state.entries, rootEntry)

	if renderer.entryCallbackStops(rootEntry) {
		state.stopped = true
	} else {
		renderer.renderDirectoryContents(absoluteRootPath, "", 1, state)
	}

	return &types.RenderResult{Lines: state.lines, Entries: state.entries}, nil
}

// childNode pairs a directory entry with its resolved path and kind. The kind
// follows symlinks so a linked directory renders as a directory.
type childNode struct {
	name        string
	path        string
	isDirectory bool
	sizeBytes   int64
}

// renderDirectoryContents appends lines and entries for the children of one
// directory, recursing depth first.
func (renderer *Renderer) renderDirectoryContents(directoryPath string, linePrefix string, depth int, state *traversalState) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		state.lines = append(state.lines, linePrefix+treeBranchConnector+permissionDeniedMarker)
		renderer.warn(warningReadDirectoryMessage, directoryPath, readDirectoryError)
		return
	}

	childNodes := renderer.collectChildNodes(directoryPath, directoryEntries)
	sortChildNodes(childNodes)

	for childIndex, child := range childNodes {
		if state.stopped {
			return
		}
		isLastSibling := childIndex == len(childNodes)-1

		connector := treeBranchConnector
		childPadding := treeBranchPadding
		if isLastSibling {
			connector = treeLastConnector
			childPadding = treeLastPadding
		}

		entry := types.Entry{
			Path:      child.path,
			Name:      child.name,
			Depth:     depth,
			IsLast:    isLastSibling,
			SizeBytes: child.sizeBytes,
		}

		if child.isDirectory {
			entry.Kind = types.EntryKindDirectory
			state.lines = append(state.lines, linePrefix+connector+entry.Name+directorySuffix)
			state.entries = append(state.entries, entry)
			if renderer.entryCallbackStops(entry) {
				state.stopped = true
				return
			}
			childPrefix := linePrefix + childPadding
			if renderer.isRevisitedDirectory(child.path, state) {
				state.lines = append(state.lines, childPrefix+treeLastConnector+symlinkCycleMarker)
				continue
			}
			renderer.renderDirectoryContents(child.path, childPrefix, depth+1, state)
			continue
		}

		entry.Kind = types.EntryKindFile
		state.lines = append(state.lines, linePrefix+connector+entry.Name)
		state.entries = append(state.entries, entry)
		if renderer.entryCallbackStops(entry) {
			state.stopped = true
			return
		}
	}
}

// collectChildNodes filters hidden and cache entries according to the settings
// and snapshots kind and size for the survivors.
func (renderer *Renderer) collectChildNodes(directoryPath string, directoryEntries []os.DirEntry) []childNode {
	childNodes := make([]childNode, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if !renderer.Settings.IncludeHidden && utils.IsHiddenName(entryName) {
			continue
		}
		if !renderer.Settings.IncludeCache && matchesAnyPattern(entryName, renderer.Settings.CachePatterns) {
			continue
		}

		childPath := filepath.Join(directoryPath, entryName)
		child := childNode{
			name:        entryName,
			path:        childPath,
			isDirectory: directoryEntry.IsDir(),
		}
		if !child.isDirectory {
			// os.Stat follows symlinks, so a linked directory is still a directory.
			childInfo, statError := os.Stat(childPath)
			if statError != nil {
				renderer.warn(warningStatEntryMessage, childPath, statError)
			} else if childInfo.IsDir() {
				child.isDirectory = true
			} else {
				child.sizeBytes = childInfo.Size()
			}
		}
		childNodes = append(childNodes, child)
	}
	return childNodes
}

// isRevisitedDirectory records the resolved path of a directory and reports
// whether it was already visited earlier in the traversal. Unresolvable
// directories are treated as unvisited; the subsequent read reports the error.
func (renderer *Renderer) isRevisitedDirectory(directoryPath string, state *traversalState) bool {
	resolvedPath, resolveError := filepath.EvalSymlinks(directoryPath)
	if resolveError != nil {
		return false
	}
	if _, alreadyVisited := state.visitedDirectories[resolvedPath]; alreadyVisited {
		return true
	}
	state.visitedDirectories[resolvedPath] = struct{}{}
	return false
}

// entryCallbackStops invokes the per-entry callback and reports whether it
// requested an early stop.
func (renderer *Renderer) entryCallbackStops(entry types.Entry) bool {
	if renderer.OnEntry == nil {
		return false
	}
	return !renderer.OnEntry(entry)
}

func (renderer *Renderer) warn(message string, path string, cause error) {
	if renderer.Logger == nil {
		return
	}
	renderer.Logger.Warn(message, zap.String("path", path), zap.Error(cause))
}

// matchesAnyPattern reports whether a name matches at least one doublestar pattern.
// Malformed patterns never match.
func matchesAnyPattern(name string, patterns []string) bool {
	for _, patternValue := range patterns {
		isMatched, matchError := doublestar.Match(patternValue, name)
		if matchError == nil && isMatched {
			return true
		}
	}
	return false
}

// sortChildNodes orders children directories-first, then ascending by
// case-insensitive name with byte order breaking ties.
func sortChildNodes(childNodes []childNode) {
	sort.SliceStable(childNodes, func(firstIndex, secondIndex int) bool {
		firstChild := childNodes[firstIndex]
		secondChild := childNodes[secondIndex]
		if firstChild.isDirectory != secondChild.isDirectory {
			return firstChild.isDirectory
		}
		firstName := strings.ToLower(firstChild.name)
		secondName := strings.ToLower(secondChild.name)
		if firstName != secondName {
			return firstName < secondName
		}
		return firstChild.name < secondChild.name
	})
}
