package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/treescope/treescope/internal/types"
)

// TestDeliverConsoleAndFile verifies the report reaches both destinations
// verbatim and the written path is returned.
func TestDeliverConsoleAndFile(testingHandle *testing.T) {
	outputDirectory := filepath.Join(testingHandle.TempDir(), "nested", "output")
	consoleBuffer := &bytes.Buffer{}
	sink := &Sink{Console: consoleBuffer}
	settings := types.Settings{
		OutputToConsole: true,
		OutputToFile:    true,
		OutputDirectory: outputDirectory,
		OutputFileName:  "report.txt",
	}

	reportText := "DIRECTORY TREE\nroot/\n"
	writtenPath, deliverError := sink.Deliver(reportText, settings)
	if deliverError != nil {
		testingHandle.Fatalf("Deliver failed: %v", deliverError)
	}
	if consoleBuffer.String() != reportText+"\n" {
		testingHandle.Fatalf("unexpected console output: %q", consoleBuffer.String())
	}
	expectedPath := filepath.Join(outputDirectory, "report.txt")
	if writtenPath != expectedPath {
		testingHandle.Fatalf("unexpected written path: %s", writtenPath)
	}
	fileContent, readError := os.ReadFile(writtenPath)
	if readError != nil {
		testingHandle.Fatalf("reading written report: %v", readError)
	}
	if string(fileContent) != reportText {
		testingHandle.Fatalf("file content altered: %q", string(fileContent))
	}
}

// TestDeliverFileOnly verifies console output can be suppressed independently.
func TestDeliverFileOnly(testingHandle *testing.T) {
	consoleBuffer := &bytes.Buffer{}
	sink := &Sink{Console: consoleBuffer}
	settings := types.Settings{
		OutputToFile:    true,
		OutputDirectory: testingHandle.TempDir(),
		OutputFileName:  "report.txt",
	}

	if _, deliverError := sink.Deliver("body", settings); deliverError != nil {
		testingHandle.Fatalf("Deliver failed: %v", deliverError)
	}
	if consoleBuffer.Len() != 0 {
		testingHandle.Fatalf("console received output while disabled: %q", consoleBuffer.String())
	}
}

// TestDeliverConsoleOnly verifies no file is produced when file output is off.
func TestDeliverConsoleOnly(testingHandle *testing.T) {
	outputDirectory := filepath.Join(testingHandle.TempDir(), "never")
	consoleBuffer := &bytes.Buffer{}
	sink := &Sink{Console: consoleBuffer}
	settings := types.Settings{
		OutputToConsole: true,
		OutputDirectory: outputDirectory,
		OutputFileName:  "report.txt",
	}

	writtenPath, deliverError := sink.Deliver("body", settings)
	if deliverError != nil {
		testingHandle.Fatalf("Deliver failed: %v", deliverError)
	}
	if writtenPath != "" {
		testingHandle.Fatalf("expected no written path, got %s", writtenPath)
	}
	if _, statError := os.Stat(outputDirectory); !os.IsNotExist(statError) {
		testingHandle.Fatalf("output directory created while file output disabled")
	}
}
