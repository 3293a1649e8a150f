// Package output delivers a finished report to the configured sinks. Writing
// is a verbatim pass-through; the report text is never altered here.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/treescope/treescope/internal/types"
)

const (
	errorCreateOutputDirFormat = "creating output directory %s: %w"
	errorWriteReportFormat     = "writing report to %s: %w"
	errorConsoleWriteFormat    = "writing report to console: %w"
)

// Sink writes reports to the console and/or a file according to Settings.
type Sink struct {
	Console io.Writer
}

// NewSink constructs a Sink targeting standard output.
func NewSink() *Sink {
	return &Sink{Console: os.Stdout}
}

// Deliver writes the report to every enabled destination and returns the
// path of the written file, or the empty string when file output is off.
func (sink *Sink) Deliver(report string, settings types.Settings) (string, error) {
	if settings.OutputToConsole && sink.Console != nil {
		if _, writeError := fmt.Fprintln(sink.Console, report); writeError != nil {
			return "", fmt.Errorf(errorConsoleWriteFormat, writeError)
		}
	}

	if !settings.OutputToFile {
		return "", nil
	}

	if makeDirError := os.MkdirAll(settings.OutputDirectory, 0o755); makeDirError != nil {
		return "", fmt.Errorf(errorCreateOutputDirFormat, settings.OutputDirectory, makeDirError)
	}
	reportFilePath := filepath.Join(settings.OutputDirectory, settings.OutputFileName)
	if writeError := os.WriteFile(reportFilePath, []byte(report), 0o644); writeError != nil {
		return "", fmt.Errorf(errorWriteReportFormat, reportFilePath, writeError)
	}
	return reportFilePath, nil
}
