package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

// newToggleFlagTestCommand builds a command carrying one toggle flag for
// argument normalization tests.
func newToggleFlagTestCommand(testingHandle *testing.T) *cobra.Command {
	testingHandle.Helper()
	command := &cobra.Command{Use: "scan"}
	var hiddenValue bool
	registerToggleFlag(command.Flags(), &hiddenValue, "hidden", false, "include hidden entries")
	return command
}

// TestNormalizeToggleArguments verifies space-separated toggle literals are
// folded into equals form while everything else passes through untouched.
func TestNormalizeToggleArguments(testingHandle *testing.T) {
	command := newToggleFlagTestCommand(testingHandle)
	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{
			name:      "literal folded",
			arguments: []string{"--hidden", "true", "./src"},
			expected:  []string{"--hidden=true", "./src"},
		},
		{
			name:      "bare flag untouched",
			arguments: []string{"--hidden", "./src"},
			expected:  []string{"--hidden", "./src"},
		},
		{
			name:      "equals form untouched",
			arguments: []string{"--hidden=no"},
			expected:  []string{"--hidden=no"},
		},
		{
			name:      "non toggle flag untouched",
			arguments: []string{"--output", "true"},
			expected:  []string{"--output", "true"},
		},
		{
			name:      "terminator stops rewriting",
			arguments: []string{"--", "--hidden", "true"},
			expected:  []string{"--", "--hidden", "true"},
		},
	}
	for _, testCase := range testCases {
		normalized := normalizeToggleArguments(command, testCase.arguments)
		if !reflect.DeepEqual(normalized, testCase.expected) {
			testingHandle.Fatalf("%s: got %v, want %v", testCase.name, normalized, testCase.expected)
		}
	}
}

// TestToggleValueSet verifies accepted literals and the rejection of
// everything else.
func TestToggleValueSet(testingHandle *testing.T) {
	var target bool
	flagValue := &toggleValue{target: &target, flagName: "hidden"}
	for literal, expected := range map[string]bool{"yes": true, "off": false, "1": true, "FALSE": false} {
		if setError := flagValue.Set(literal); setError != nil {
			testingHandle.Fatalf("Set(%q) failed: %v", literal, setError)
		}
		if target != expected {
			testingHandle.Fatalf("Set(%q) produced %v, want %v", literal, target, expected)
		}
	}
	if setError := flagValue.Set("maybe"); setError == nil {
		testingHandle.Fatalf("expected rejection of invalid literal")
	}
}
