package utils

import (
	"fmt"
	"strings"
)

// FormatFileSize renders a byte count the way the report summary shows it:
// lower-case units, one decimal below 10, none from 10 up.
func FormatFileSize(sizeInBytes int64) string {
	if sizeInBytes < 0 {
		return "0b"
	}
	sizeUnits := []string{"b", "kb", "mb", "gb", "tb", "pb"}
	scaledSize := float64(sizeInBytes)
	unitIndex := 0
	for scaledSize >= 1024 && unitIndex < len(sizeUnits)-1 {
		scaledSize /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", sizeInBytes)
	}
	if scaledSize < 10 {
		return strings.TrimSuffix(fmt.Sprintf("%.1f", scaledSize), ".0") + sizeUnits[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", scaledSize, sizeUnits[unitIndex])
}
