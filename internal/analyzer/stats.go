package analyzer

import (
	"github.com/treescope/treescope/internal/types"
	"github.com/treescope/treescope/internal/utils"
)

// noExtensionKey groups files without an extension in the per-extension breakdown.
const noExtensionKey = "(none)"

// CollectStats reduces the Entry sequence into aggregate counts. The root
// entry (depth zero) is not counted as a directory, so an empty root yields
// all-zero counts. No filesystem access happens here.
func CollectStats(entries []types.Entry) types.Summary {
	summary := types.Summary{
		FilesByExtension: map[string]int{},
	}
	for _, entry := range entries {
		if entry.IsDirectory() {
			if entry.Depth > 0 {
				summary.DirectoryCount++
			}
			continue
		}
		summary.FileCount++
		summary.TotalSizeBytes += entry.SizeBytes
		extensionKey := extensionKeyOf(entry.Name)
		summary.FilesByExtension[extensionKey]++
	}
	return summary
}

func extensionKeyOf(fileName string) string {
	extension := utils.ExtensionOf(fileName)
	if extension == "" {
		return noExtensionKey
	}
	return extension
}
