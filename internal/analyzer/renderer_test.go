package analyzer_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/treescope/treescope/internal/analyzer"
	"github.com/treescope/treescope/internal/types"
)

var testCachePatterns = []string{"__pycache__", "*.pyc", "*.pyo"}

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// makeTestDirectory creates a directory, failing the test on error.
func makeTestDirectory(testingHandle *testing.T, directoryPath string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(directoryPath, 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create %s: %v", directoryPath, makeDirError)
	}
}

func renderTree(testingHandle *testing.T, settings types.Settings) *types.RenderResult {
	testingHandle.Helper()
	renderer := &analyzer.Renderer{Settings: settings, Logger: zap.NewNop()}
	renderResult, renderError := renderer.Render()
	if renderError != nil {
		testingHandle.Fatalf("Render failed: %v", renderError)
	}
	return renderResult
}

// TestRenderBasicTree verifies ordering, glyph selection, and the entry sequence
// for a small fixture tree.
func TestRenderBasicTree(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	makeTestDirectory(testingHandle, filepath.Join(rootDirectory, "beta"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "beta", "nested.txt"), "nested")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "Alpha.txt"), "alpha")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "zeta.py"), "print()")

	renderResult := renderTree(testingHandle, types.Settings{RootPath: rootDirectory, CachePatterns: testCachePatterns})

	expectedLines := []string{
		filepath.Base(rootDirectory) + "/",
		"├── beta/",
		"│   └── nested.txt",
		"├── Alpha.txt",
		"└── zeta.py",
	}
	if strings.Join(renderResult.Lines, "\n") != strings.Join(expectedLines, "\n") {
		testingHandle.Fatalf("unexpected tree:\n%s\nwant:\n%s", strings.Join(renderResult.Lines, "\n"), strings.Join(expectedLines, "\n"))
	}

	expectedNames := []string{filepath.Base(rootDirectory), "beta", "nested.txt", "Alpha.txt", "zeta.py"}
	if len(renderResult.Entries) != len(expectedNames) {
		testingHandle.Fatalf("expected %d entries, got %d", len(expectedNames), len(renderResult.Entries))
	}
	for entryIndex, expectedName := range expectedNames {
		if renderResult.Entries[entryIndex].Name != expectedName {
			testingHandle.Fatalf("entry %d: got %s want %s", entryIndex, renderResult.Entries[entryIndex].Name, expectedName)
		}
	}
	if !renderResult.Entries[1].IsDirectory() || renderResult.Entries[1].Depth != 1 {
		testingHandle.Fatalf("unexpected directory entry: %+v", renderResult.Entries[1])
	}
	if renderResult.Entries[4].SizeBytes != int64(len("print()")) {
		testingHandle.Fatalf("unexpected file size: %+v", renderResult.Entries[4])
	}
}

// TestRenderIndentationGrowsWithDepth verifies that prefix length is
// proportional to depth and the corner glyph appears exactly once per sibling
// group.
func TestRenderIndentationGrowsWithDepth(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	makeTestDirectory(testingHandle, filepath.Join(rootDirectory, "one", "two", "three"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "one", "two", "three", "deep.txt"), "x")

	renderResult := renderTree(testingHandle, types.Settings{RootPath: rootDirectory, CachePatterns: testCachePatterns})

	for entryIndex, entry := range renderResult.Entries {
		if entryIndex == 0 {
			continue
		}
		lineRunes := []rune(renderResult.Lines[entryIndex])
		expectedPrefixLength := entry.Depth * 4
		prefixAndConnector := string(lineRunes[:expectedPrefixLength])
		if !strings.HasSuffix(prefixAndConnector, "└── ") && !strings.HasSuffix(prefixAndConnector, "├── ") {
			testingHandle.Fatalf("line %d lacks connector at depth %d: %q", entryIndex, entry.Depth, renderResult.Lines[entryIndex])
		}
	}

	cornerCount := 0
	for _, treeLine := range renderResult.Lines {
		cornerCount += strings.Count(treeLine, "└── ")
	}
	// One sibling group per nesting level, each with a single last child.
	if cornerCount != 4 {
		testingHandle.Fatalf("expected 4 corner glyphs, got %d", cornerCount)
	}
}

// TestRenderHiddenAndCacheFiltering verifies hidden and cache entries are
// present in the output iff the corresponding include flag is set.
func TestRenderHiddenAndCacheFiltering(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, ".hidden.txt"), "h")
	makeTestDirectory(testingHandle, filepath.Join(rootDirectory, "__pycache__"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "__pycache__", "mod.cpython-311.pyc"), "c")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "module.pyc"), "c")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "keep.py"), "k")

	defaultResult := renderTree(testingHandle, types.Settings{RootPath: rootDirectory, CachePatterns: testCachePatterns})
	defaultOutput := strings.Join(defaultResult.Lines, "\n")
	for _, excludedName := range []string{".hidden.txt", "__pycache__", "module.pyc"} {
		if strings.Contains(defaultOutput, excludedName) {
			testingHandle.Fatalf("excluded entry %s present in output:\n%s", excludedName, defaultOutput)
		}
	}
	if !strings.Contains(defaultOutput, "keep.py") {
		testingHandle.Fatalf("expected keep.py in output:\n%s", defaultOutput)
	}

	inclusiveResult := renderTree(testingHandle, types.Settings{
		RootPath:      rootDirectory,
		IncludeHidden: true,
		IncludeCache:  true,
		CachePatterns: testCachePatterns,
	})
	inclusiveOutput := strings.Join(inclusiveResult.Lines, "\n")
	for _, includedName := range []string{".hidden.txt", "__pycache__", "module.pyc", "keep.py"} {
		if !strings.Contains(inclusiveOutput, includedName) {
			testingHandle.Fatalf("expected %s in inclusive output:\n%s", includedName, inclusiveOutput)
		}
	}
}

// TestRenderRootErrors verifies the fatal error taxonomy for invalid roots.
func TestRenderRootErrors(testingHandle *testing.T) {
	missingPath := filepath.Join(testingHandle.TempDir(), "missing")
	renderer := &analyzer.Renderer{Settings: types.Settings{RootPath: missingPath}}
	if _, renderError := renderer.Render(); !errors.Is(renderError, types.ErrRootNotFound) {
		testingHandle.Fatalf("expected ErrRootNotFound, got %v", renderError)
	}

	filePath := filepath.Join(testingHandle.TempDir(), "file.txt")
	writeTestFile(testingHandle, filePath, "x")
	renderer = &analyzer.Renderer{Settings: types.Settings{RootPath: filePath}}
	if _, renderError := renderer.Render(); !errors.Is(renderError, types.ErrRootNotDirectory) {
		testingHandle.Fatalf("expected ErrRootNotDirectory, got %v", renderError)
	}
}

// TestRenderPermissionDenied verifies an unreadable subdirectory leaves an
// inline marker and does not abort the sibling traversal.
func TestRenderPermissionDenied(testingHandle *testing.T) {
	if os.Geteuid() == 0 {
		testingHandle.Skip("permission bits are not enforced for root")
	}
	rootDirectory := testingHandle.TempDir()
	lockedDirectory := filepath.Join(rootDirectory, "locked")
	makeTestDirectory(testingHandle, lockedDirectory)
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "visible.txt"), "v")
	if chmodError := os.Chmod(lockedDirectory, 0o000); chmodError != nil {
		testingHandle.Fatalf("chmod failed: %v", chmodError)
	}
	testingHandle.Cleanup(func() {
		_ = os.Chmod(lockedDirectory, 0o755)
	})

	renderResult := renderTree(testingHandle, types.Settings{RootPath: rootDirectory, CachePatterns: testCachePatterns})
	renderedOutput := strings.Join(renderResult.Lines, "\n")
	if !strings.Contains(renderedOutput, "[Permission Denied]") {
		testingHandle.Fatalf("expected permission marker in output:\n%s", renderedOutput)
	}
	if !strings.Contains(renderedOutput, "visible.txt") {
		testingHandle.Fatalf("expected sibling after unreadable directory:\n%s", renderedOutput)
	}
}

// TestRenderIdempotence verifies rendering an unchanged tree twice yields
// byte-identical output.
func TestRenderIdempotence(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	makeTestDirectory(testingHandle, filepath.Join(rootDirectory, "sub"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "sub", "a.txt"), "a")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "b.txt"), "b")

	settings := types.Settings{RootPath: rootDirectory, CachePatterns: testCachePatterns}
	firstOutput := strings.Join(renderTree(testingHandle, settings).Lines, "\n")
	secondOutput := strings.Join(renderTree(testingHandle, settings).Lines, "\n")
	if firstOutput != secondOutput {
		testingHandle.Fatalf("rendering is not idempotent:\n%s\nvs\n%s", firstOutput, secondOutput)
	}
}

// TestRenderEmptyRoot verifies an empty directory yields a single root line
// and a single root entry.
func TestRenderEmptyRoot(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	renderResult := renderTree(testingHandle, types.Settings{RootPath: rootDirectory, CachePatterns: testCachePatterns})
	if len(renderResult.Lines) != 1 || len(renderResult.Entries) != 1 {
		testingHandle.Fatalf("unexpected result for empty root: %+v", renderResult)
	}
	if renderResult.Lines[0] != filepath.Base(rootDirectory)+"/" {
		testingHandle.Fatalf("unexpected root line: %s", renderResult.Lines[0])
	}
}

// TestRenderCallbackStopsTraversal verifies the per-entry callback can stop
// the traversal early while keeping the entries visited so far.
func TestRenderCallbackStopsTraversal(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	for _, fileName := range []string{"a.txt", "b.txt", "c.txt"} {
		writeTestFile(testingHandle, filepath.Join(rootDirectory, fileName), "x")
	}

	visitedCount := 0
	renderer := &analyzer.Renderer{
		Settings: types.Settings{RootPath: rootDirectory, CachePatterns: testCachePatterns},
		OnEntry: func(entry types.Entry) bool {
			visitedCount++
			return visitedCount < 2
		},
	}
	renderResult, renderError := renderer.Render()
	if renderError != nil {
		testingHandle.Fatalf("Render failed: %v", renderError)
	}
	if visitedCount != 2 {
		testingHandle.Fatalf("expected callback to stop after 2 entries, saw %d", visitedCount)
	}
	if len(renderResult.Entries) != 2 {
		testingHandle.Fatalf("expected 2 recorded entries, got %d", len(renderResult.Entries))
	}
}

// TestRenderSymlinkCycle verifies a directory symlink pointing back into an
// ancestor is marked instead of recursed into.
func TestRenderSymlinkCycle(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	makeTestDirectory(testingHandle, filepath.Join(rootDirectory, "sub"))
	if symlinkError := os.Symlink(rootDirectory, filepath.Join(rootDirectory, "sub", "loop")); symlinkError != nil {
		testingHandle.Skipf("symlinks unavailable: %v", symlinkError)
	}

	renderResult := renderTree(testingHandle, types.Settings{RootPath: rootDirectory, CachePatterns: testCachePatterns})
	renderedOutput := strings.Join(renderResult.Lines, "\n")
	if !strings.Contains(renderedOutput, "[Symlink cycle]") {
		testingHandle.Fatalf("expected symlink cycle marker in output:\n%s", renderedOutput)
	}
}
