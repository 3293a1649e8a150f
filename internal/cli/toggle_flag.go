package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName     = "bool"
	toggleTrueLiteral      = "true"
	toggleAcceptedLiterals = "true, false, yes, no, on, off, 1, 0"
)

// toggleLiterals maps the accepted spellings of a toggle value: the same
// spellings the JSON configuration accepts for its boolean keys, plus on/off
// for the command line.
var toggleLiterals = map[string]bool{
	"true":  true,
	"1":     true,
	"yes":   true,
	"on":    true,
	"false": false,
	"0":     false,
	"no":    false,
	"off":   false,
}

// toggleValue is the pflag.Value behind treescope's toggle flags (--hidden,
// --cache, --no-console, --no-file, --tokens, --copy, --force). Unlike the
// stock bool flag it also accepts yes/no and on/off spellings.
type toggleValue struct {
	target   *bool
	flagName string
}

func (value *toggleValue) Set(input string) error {
	normalizedLiteral := strings.ToLower(strings.TrimSpace(input))
	if normalizedLiteral == "" {
		normalizedLiteral = toggleTrueLiteral
	}
	parsedValue, knownLiteral := toggleLiterals[normalizedLiteral]
	if !knownLiteral {
		return fmt.Errorf("invalid value %q for --%s; accepted values: %s", input, value.flagName, toggleAcceptedLiterals)
	}
	*value.target = parsedValue
	return nil
}

func (value *toggleValue) String() string {
	if value.target == nil {
		return toggleTrueLiteral
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleValue) Type() string {
	return toggleFlagTypeName
}

// registerToggleFlag installs a toggle flag that may appear bare (--hidden),
// with an attached literal (--hidden=no), or with a space-separated literal
// once normalizeToggleArguments has folded it.
func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleValue{target: target, flagName: name}, name, usage)
	if registeredFlag := flagSet.Lookup(name); registeredFlag != nil {
		registeredFlag.DefValue = strconv.FormatBool(defaultValue)
		registeredFlag.NoOptDefVal = toggleTrueLiteral
	}
}

// normalizeToggleArguments rewrites `--hidden true` into `--hidden=true` for
// every toggle flag in the command tree, so the bare form keeps working next
// to positional path arguments. Everything after a `--` terminator passes
// through untouched.
func normalizeToggleArguments(command *cobra.Command, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	collectToggleFlagNames(command, toggleNames)
	if len(toggleNames) == 0 || len(arguments) == 0 {
		return arguments
	}

	normalized := make([]string, 0, len(arguments))
	argumentIndex := 0
	for argumentIndex < len(arguments) {
		currentArgument := arguments[argumentIndex]
		if currentArgument == "--" {
			normalized = append(normalized, arguments[argumentIndex:]...)
			break
		}
		if strings.HasPrefix(currentArgument, "--") && !strings.Contains(currentArgument, "=") {
			flagName := strings.TrimPrefix(currentArgument, "--")
			if _, isToggle := toggleNames[flagName]; isToggle && argumentIndex+1 < len(arguments) {
				candidateLiteral := arguments[argumentIndex+1]
				if !strings.HasPrefix(candidateLiteral, "-") {
					if _, knownLiteral := toggleLiterals[strings.ToLower(strings.TrimSpace(candidateLiteral))]; knownLiteral {
						normalized = append(normalized, currentArgument+"="+candidateLiteral)
						argumentIndex += 2
						continue
					}
				}
			}
		}
		normalized = append(normalized, currentArgument)
		argumentIndex++
	}
	return normalized
}

// collectToggleFlagNames gathers the names of every bool-typed flag on the
// command and its descendants.
func collectToggleFlagNames(command *cobra.Command, names map[string]struct{}) {
	recordBoolFlags := func(flagSet *pflag.FlagSet) {
		flagSet.VisitAll(func(currentFlag *pflag.Flag) {
			if currentFlag.Value != nil && currentFlag.Value.Type() == toggleFlagTypeName {
				names[currentFlag.Name] = struct{}{}
			}
		})
	}
	recordBoolFlags(command.PersistentFlags())
	recordBoolFlags(command.Flags())
	for _, childCommand := range command.Commands() {
		collectToggleFlagNames(childCommand, names)
	}
}
