package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/treescope/treescope/internal/tokenizer"
	"github.com/treescope/treescope/internal/types"
	"github.com/treescope/treescope/internal/utils"
)

const (
	// contentDelimiterLine frames each dumped file body.
	contentDelimiterLine = "--------------------------------------------------"

	fileLabelFormat       = "File: %s"
	fileLabelTokensFormat = "File: %s (%d tokens)"

	binaryNoticeFormat    = "[Cannot display content: binary file (%s)]"
	readErrorNoticeFormat = "[Cannot display content: %v]"

	warningReadFileMessage    = "unable to read file for content dump"
	warningCountTokensMessage = "unable to count tokens"
)

// ContentBlock is the rendered content section together with the token total
// accumulated across dumped text files.
type ContentBlock struct {
	Text        string
	TokenCount  int
	DumpedFiles int
}

// BuildContentBlock renders the content section for every file entry whose
// extension is in the allow-list, in traversal order. Each dumped file is a
// path label line, a delimiter line, the raw text, another delimiter line,
// and a blank separator. Binary files and read failures produce an inline
// notice between the delimiters instead of raw bytes. When no file matches,
// the block is empty and no header is emitted.
func BuildContentBlock(entries []types.Entry, settings types.Settings, counter tokenizer.Counter, logger *zap.Logger) ContentBlock {
	if len(settings.ContentExtensions) == 0 {
		return ContentBlock{}
	}

	var builder strings.Builder
	block := ContentBlock{}

	for _, entry := range entries {
		if entry.IsDirectory() {
			continue
		}
		if !utils.ContainsString(settings.ContentExtensions, utils.ExtensionOf(entry.Name)) {
			continue
		}

		label, body := renderFileDump(entry, settings, counter, logger, &block)
		builder.WriteString(label + "\n")
		builder.WriteString(contentDelimiterLine + "\n")
		builder.WriteString(body)
		builder.WriteString(contentDelimiterLine + "\n")
		builder.WriteString("\n")
		block.DumpedFiles++
	}

	block.Text = builder.String()
	return block
}

// renderFileDump produces the label line and framed body for one file.
// Binary files are detected from a bounded sniff before the full read, so a
// large binary is never loaded into memory. File handles are scoped to the
// sniff and read calls and released on every path.
func renderFileDump(entry types.Entry, settings types.Settings, counter tokenizer.Counter, logger *zap.Logger, block *ContentBlock) (string, string) {
	label := fmt.Sprintf(fileLabelFormat, displayPath(entry.Path, settings.RootPath))

	if utils.IsFileBinary(entry.Path) {
		return label, fmt.Sprintf(binaryNoticeFormat, utils.DetectMimeType(entry.Path)) + "\n"
	}

	fileBytes, readError := os.ReadFile(entry.Path)
	if readError != nil {
		if logger != nil {
			logger.Warn(warningReadFileMessage, zap.String("path", entry.Path), zap.Error(readError))
		}
		return label, fmt.Sprintf(readErrorNoticeFormat, readError) + "\n"
	}

	// Catches NUL bytes past the sniff window.
	if utils.IsBinary(fileBytes) {
		return label, fmt.Sprintf(binaryNoticeFormat, utils.DetectMimeType(entry.Path)) + "\n"
	}

	if counter != nil {
		countResult, countError := tokenizer.CountBytes(counter, fileBytes)
		if countError != nil {
			if logger != nil {
				logger.Warn(warningCountTokensMessage, zap.String("path", entry.Path), zap.Error(countError))
			}
		} else if countResult.Counted {
			label = fmt.Sprintf(fileLabelTokensFormat, displayPath(entry.Path, settings.RootPath), countResult.Tokens)
			block.TokenCount += countResult.Tokens
		}
	}

	body := string(fileBytes)
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return label, body
}

// displayPath returns the path relative to the analysis root, falling back to
// the absolute path when no relative form exists.
func displayPath(fullPath string, rootPath string) string {
	absoluteRoot, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return fullPath
	}
	relativePath, relativeError := filepath.Rel(absoluteRoot, fullPath)
	if relativeError != nil {
		return fullPath
	}
	return filepath.ToSlash(relativePath)
}
