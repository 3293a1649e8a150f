// Package config resolves defaults, the JSON configuration file, and command
// overrides into one immutable Settings value for the analysis engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/treescope/treescope/internal/types"
	"github.com/treescope/treescope/internal/utils"
)

// Configuration keys of the JSON configuration file.
const (
	keyInputDirectory   = "input_directory"
	keyOutputDirectory  = "output_directory"
	keyIncludeHidden    = "include_hidden_files"
	keyIncludeCache     = "include_pycache"
	keyOutputToConsole  = "output_to_console"
	keyOutputToFile     = "output_to_file"
	keyOutputFileName   = "output_filename"
	keyContentDumpList  = "include_file_contents"
	keyCachePatterns    = "cache_patterns"
	keyCountTokens      = "count_tokens"
	keyTokenizerModel   = "tokenizer_model"
	configFileType      = "json"
	defaultRootPath     = "."
	defaultOutputDir    = "./output"
	defaultOutputName   = "folder_structure.txt"
	defaultTokenModel   = "gpt-4o"
	warningLoadMessage  = "could not load configuration file; using defaults"
	errorRootStatFormat = "%s: %w"
)

// DefaultCachePatterns name the build/interpreter cache artifacts excluded
// unless cache inclusion is requested.
var DefaultCachePatterns = []string{"__pycache__", "*.pyc", "*.pyo"}

// LoadOptions controls where the resolver looks for the configuration file.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// Overrides carries explicit command-line values layered on top of the file.
// Nil fields leave the file/default value in place.
type Overrides struct {
	RootPath          *string
	OutputDirectory   *string
	IncludeHidden     *bool
	IncludeCache      *bool
	ContentExtensions *[]string
	OutputToConsole   *bool
	OutputToFile      *bool
	CountTokens       *bool
	TokenizerModel    *string
}

// ResolveSettings merges defaults, the configuration file, and overrides into
// a validated Settings value. A malformed configuration file logs a warning
// and resolution continues from defaults, matching the tool's forgiving
// behavior toward its own config. The returned Settings always has a root
// path that exists and is a directory.
func ResolveSettings(options LoadOptions, overrides Overrides, logger *zap.Logger) (types.Settings, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigType(configFileType)
	applyDefaults(viperInstance)

	configFilePath, resolvePathError := resolveConfigFilePath(options)
	if resolvePathError != nil {
		return types.Settings{}, resolvePathError
	}
	if configFilePath != "" {
		viperInstance.SetConfigFile(configFilePath)
		if readError := viperInstance.ReadInConfig(); readError != nil {
			if logger != nil {
				logger.Warn(warningLoadMessage, zap.String("path", configFilePath), zap.Error(readError))
			}
		}
	}

	settings := types.Settings{
		RootPath:          viperInstance.GetString(keyInputDirectory),
		OutputDirectory:   viperInstance.GetString(keyOutputDirectory),
		IncludeHidden:     viperInstance.GetBool(keyIncludeHidden),
		IncludeCache:      viperInstance.GetBool(keyIncludeCache),
		OutputToConsole:   viperInstance.GetBool(keyOutputToConsole),
		OutputToFile:      viperInstance.GetBool(keyOutputToFile),
		OutputFileName:    viperInstance.GetString(keyOutputFileName),
		ContentExtensions: viperInstance.GetStringSlice(keyContentDumpList),
		CachePatterns:     viperInstance.GetStringSlice(keyCachePatterns),
		CountTokens:       viperInstance.GetBool(keyCountTokens),
		TokenizerModel:    viperInstance.GetString(keyTokenizerModel),
	}
	settings = applyOverrides(settings, overrides)
	settings.ContentExtensions = utils.NormalizeExtensions(settings.ContentExtensions)
	if len(settings.CachePatterns) == 0 {
		settings.CachePatterns = append([]string{}, DefaultCachePatterns...)
	}

	if validationError := ValidateRootPath(settings.RootPath); validationError != nil {
		return types.Settings{}, validationError
	}
	return settings, nil
}

// ValidateRootPath checks the fatal-error contract for the analysis root:
// the path must exist and be a directory.
func ValidateRootPath(rootPath string) error {
	rootInfo, statError := os.Stat(rootPath)
	if statError != nil {
		return fmt.Errorf(errorRootStatFormat, rootPath, types.ErrRootNotFound)
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf(errorRootStatFormat, rootPath, types.ErrRootNotDirectory)
	}
	return nil
}

func applyDefaults(viperInstance *viper.Viper) {
	viperInstance.SetDefault(keyInputDirectory, defaultRootPath)
	viperInstance.SetDefault(keyOutputDirectory, defaultOutputDir)
	viperInstance.SetDefault(keyIncludeHidden, false)
	viperInstance.SetDefault(keyIncludeCache, false)
	viperInstance.SetDefault(keyOutputToConsole, true)
	viperInstance.SetDefault(keyOutputToFile, true)
	viperInstance.SetDefault(keyOutputFileName, defaultOutputName)
	viperInstance.SetDefault(keyContentDumpList, []string{})
	viperInstance.SetDefault(keyCachePatterns, DefaultCachePatterns)
	viperInstance.SetDefault(keyCountTokens, false)
	viperInstance.SetDefault(keyTokenizerModel, defaultTokenModel)
}

func applyOverrides(settings types.Settings, overrides Overrides) types.Settings {
	if overrides.RootPath != nil {
		settings.RootPath = *overrides.RootPath
	}
	if overrides.OutputDirectory != nil {
		settings.OutputDirectory = *overrides.OutputDirectory
	}
	if overrides.IncludeHidden != nil {
		settings.IncludeHidden = *overrides.IncludeHidden
	}
	if overrides.IncludeCache != nil {
		settings.IncludeCache = *overrides.IncludeCache
	}
	if overrides.ContentExtensions != nil {
		settings.ContentExtensions = *overrides.ContentExtensions
	}
	if overrides.OutputToConsole != nil {
		settings.OutputToConsole = *overrides.OutputToConsole
	}
	if overrides.OutputToFile != nil {
		settings.OutputToFile = *overrides.OutputToFile
	}
	if overrides.CountTokens != nil {
		settings.CountTokens = *overrides.CountTokens
	}
	if overrides.TokenizerModel != nil {
		settings.TokenizerModel = *overrides.TokenizerModel
	}
	return settings
}

// resolveConfigFilePath locates the configuration file. An explicit path is
// honored as-is; otherwise the working directory is consulted. An empty
// return means no file participates in resolution.
func resolveConfigFilePath(options LoadOptions) (string, error) {
	if options.ExplicitFilePath != "" {
		if filepath.IsAbs(options.ExplicitFilePath) {
			return options.ExplicitFilePath, nil
		}
		if options.WorkingDirectory != "" {
			return filepath.Join(options.WorkingDirectory, options.ExplicitFilePath), nil
		}
		absolutePath, absoluteError := filepath.Abs(options.ExplicitFilePath)
		if absoluteError != nil {
			return "", fmt.Errorf("resolve configuration path %s: %w", options.ExplicitFilePath, absoluteError)
		}
		return absolutePath, nil
	}
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return "", fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}
	candidatePath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if _, statError := os.Stat(candidatePath); statError != nil {
		return "", nil
	}
	return candidatePath, nil
}
