package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/treescope/treescope/internal/utils"
)

// defaultConfigurationTemplate is the JSON written by `treescope init`. The
// keys and defaults mirror applyDefaults.
const defaultConfigurationTemplate = `{
    "input_directory": ".",
    "output_directory": "./output",
    "include_hidden_files": false,
    "include_pycache": false,
    "output_to_console": true,
    "output_to_file": true,
    "output_filename": "folder_structure.txt",
    "include_file_contents": [],
    "cache_patterns": ["__pycache__", "*.pyc", "*.pyo"],
    "count_tokens": false,
    "tokenizer_model": "gpt-4o"
}
`

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default configuration file into the
// working directory and returns its path. An existing file is only replaced
// when Force is set.
func InitializeConfiguration(options InitOptions) (string, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return "", fmt.Errorf("determine working directory for configuration: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}
	destinationPath := filepath.Join(workingDirectory, utils.ConfigFileName)

	if _, statError := os.Stat(destinationPath); statError == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(statError) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, statError)
	}

	if writeError := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); writeError != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, writeError)
	}

	return destinationPath, nil
}
