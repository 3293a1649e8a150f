// Package types defines every cross-package data structure used by the treescope CLI.
package types

import "errors"

const (
	// EntryKindFile marks an Entry that represents a regular file.
	EntryKindFile = "file"
	// EntryKindDirectory marks an Entry that represents a directory.
	EntryKindDirectory = "directory"
)

// Fatal analysis errors surfaced to the caller before any output is produced.
var (
	// ErrRootNotFound indicates the configured root path does not exist.
	ErrRootNotFound = errors.New("root path does not exist")
	// ErrRootNotDirectory indicates the configured root path is not a directory.
	ErrRootNotDirectory = errors.New("root path is not a directory")
)

// Settings is the resolved, immutable configuration consumed by the analysis
// engine. The config resolver guarantees RootPath exists and is a directory
// before the engine runs.
type Settings struct {
	RootPath          string
	IncludeHidden     bool
	IncludeCache      bool
	CachePatterns     []string
	ContentExtensions []string
	OutputDirectory   string
	OutputFileName    string
	OutputToConsole   bool
	OutputToFile      bool
	CountTokens       bool
	TokenizerModel    string
}

// Entry is one filesystem node captured during traversal together with its
// rendering metadata. Entries are immutable snapshots taken at visit time.
type Entry struct {
	Path      string
	Name      string
	Kind      string
	Depth     int
	IsLast    bool
	SizeBytes int64
}

// IsDirectory reports whether the entry represents a directory.
func (entry Entry) IsDirectory() bool {
	return entry.Kind == EntryKindDirectory
}

// RenderResult is the tree text plus the ordered Entry sequence shared among
// the content appender and the stats collector. Entries appear in traversal
// order: pre-order depth first, directories before files within each directory.
type RenderResult struct {
	Lines   []string
	Entries []Entry
}

// Summary captures the aggregate counts produced by the stats collector.
type Summary struct {
	DirectoryCount   int
	FileCount        int
	TotalSizeBytes   int64
	FilesByExtension map[string]int
	TokenCount       int
	TokenizerModel   string
}
