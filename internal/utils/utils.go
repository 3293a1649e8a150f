// Package utils contains general helper functions used across the treescope tool.
package utils

import (
	"path/filepath"
	"strings"
)

const (
	// HiddenNamePrefix marks filesystem names treated as hidden.
	HiddenNamePrefix = "."
	// extensionSeparator is the leading separator of a file extension.
	extensionSeparator = "."
)

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// NormalizeExtension lower-cases an extension and guarantees the leading
// separator. Blank input normalizes to the empty string.
func NormalizeExtension(extension string) string {
	trimmedExtension := strings.TrimSpace(strings.ToLower(extension))
	if trimmedExtension == "" {
		return ""
	}
	if !strings.HasPrefix(trimmedExtension, extensionSeparator) {
		trimmedExtension = extensionSeparator + trimmedExtension
	}
	return trimmedExtension
}

// NormalizeExtensions normalizes every extension in the slice, dropping blanks
// and duplicates while preserving order. Normalization happens once at config
// resolution time so membership checks stay plain string comparisons.
func NormalizeExtensions(extensions []string) []string {
	normalizedExtensions := make([]string, 0, len(extensions))
	for _, extensionValue := range extensions {
		normalizedExtension := NormalizeExtension(extensionValue)
		if normalizedExtension == "" {
			continue
		}
		if !ContainsString(normalizedExtensions, normalizedExtension) {
			normalizedExtensions = append(normalizedExtensions, normalizedExtension)
		}
	}
	return normalizedExtensions
}

// ExtensionOf returns the lower-cased extension of a file name, including the
// leading separator, or the empty string when the name has none.
func ExtensionOf(fileName string) string {
	return strings.ToLower(filepath.Ext(fileName))
}

// IsHiddenName reports whether a filesystem name is hidden by convention.
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, HiddenNamePrefix)
}
