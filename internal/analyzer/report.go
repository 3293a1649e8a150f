package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/treescope/treescope/internal/tokenizer"
	"github.com/treescope/treescope/internal/types"
	"github.com/treescope/treescope/internal/utils"
)

const (
	// bannerLine frames each section title of the report.
	bannerLine = "=================================================="

	treeSectionTitle    = "DIRECTORY TREE"
	contentSectionTitle = "FILE CONTENTS"
	summarySectionTitle = "SUMMARY"

	summaryDirectoriesFormat = "Directories: %d"
	summaryFilesFormat       = "Files: %d"
	summaryTotalSizeFormat   = "Total size: %s (%d bytes)"
	summaryTokensFormat      = "Tokens: %d (model: %s)"
	summaryExtensionHeader   = "Files by extension:"
	summaryExtensionFormat   = "  %s: %d"
)

// Analysis bundles everything one pipeline run produced.
type Analysis struct {
	Result  *types.RenderResult
	Content ContentBlock
	Summary types.Summary
	Report  string
}

// Service runs the full analysis pipeline for one resolved Settings value:
// tree rendering, content appending, stats collection, and report assembly.
type Service struct {
	Logger       *zap.Logger
	TokenCounter tokenizer.Counter

	// OnEntry is forwarded to the renderer; see Renderer.OnEntry.
	OnEntry func(types.Entry) bool
}

// Analyze executes the pipeline. Fatal root errors are returned before any
// output exists; every other failure is embedded in the report.
func (service *Service) Analyze(settings types.Settings) (*Analysis, error) {
	renderer := &Renderer{
		Settings: settings,
		Logger:   service.Logger,
		OnEntry:  service.OnEntry,
	}
	renderResult, renderError := renderer.Render()
	if renderError != nil {
		return nil, renderError
	}

	contentBlock := BuildContentBlock(renderResult.Entries, settings, service.TokenCounter, service.Logger)

	summary := CollectStats(renderResult.Entries)
	summary.TokenCount = contentBlock.TokenCount
	if service.TokenCounter != nil {
		summary.TokenizerModel = service.TokenCounter.Name()
	}

	analysis := &Analysis{
		Result:  renderResult,
		Content: contentBlock,
		Summary: summary,
	}
	analysis.Report = BuildReport(renderResult, contentBlock, summary)
	return analysis, nil
}

// BuildReport joins the tree, content, and summary sections into the final
// text blob. The content section is omitted entirely when no file matched the
// allow-list.
func BuildReport(renderResult *types.RenderResult, contentBlock ContentBlock, summary types.Summary) string {
	var builder strings.Builder

	writeSectionBanner(&builder, treeSectionTitle)
	for _, treeLine := range renderResult.Lines {
		builder.WriteString(treeLine + "\n")
	}
	builder.WriteString("\n")

	if contentBlock.Text != "" {
		writeSectionBanner(&builder, contentSectionTitle)
		builder.WriteString(contentBlock.Text)
	}

	writeSectionBanner(&builder, summarySectionTitle)
	builder.WriteString(FormatSummary(summary))

	return builder.String()
}

// FormatSummary renders the stats section body.
func FormatSummary(summary types.Summary) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(summaryDirectoriesFormat, summary.DirectoryCount) + "\n")
	builder.WriteString(fmt.Sprintf(summaryFilesFormat, summary.FileCount) + "\n")
	builder.WriteString(fmt.Sprintf(summaryTotalSizeFormat, utils.FormatFileSize(summary.TotalSizeBytes), summary.TotalSizeBytes) + "\n")
	if summary.TokenCount > 0 {
		builder.WriteString(fmt.Sprintf(summaryTokensFormat, summary.TokenCount, summary.TokenizerModel) + "\n")
	}
	if len(summary.FilesByExtension) > 0 {
		builder.WriteString("\n" + summaryExtensionHeader + "\n")
		for _, extensionKey := range sortedExtensionKeys(summary.FilesByExtension) {
			builder.WriteString(fmt.Sprintf(summaryExtensionFormat, extensionKey, summary.FilesByExtension[extensionKey]) + "\n")
		}
	}
	return builder.String()
}

func writeSectionBanner(builder *strings.Builder, title string) {
	builder.WriteString(bannerLine + "\n")
	builder.WriteString(title + "\n")
	builder.WriteString(bannerLine + "\n")
}

// sortedExtensionKeys returns the breakdown keys in deterministic order.
func sortedExtensionKeys(filesByExtension map[string]int) []string {
	extensionKeys := make([]string, 0, len(filesByExtension))
	for extensionKey := range filesByExtension {
		extensionKeys = append(extensionKeys, extensionKey)
	}
	sort.Strings(extensionKeys)
	return extensionKeys
}
