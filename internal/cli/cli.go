// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treescope/treescope/internal/analyzer"
	"github.com/treescope/treescope/internal/config"
	"github.com/treescope/treescope/internal/output"
	"github.com/treescope/treescope/internal/services/clipboard"
	"github.com/treescope/treescope/internal/tokenizer"
	"github.com/treescope/treescope/internal/types"
	"github.com/treescope/treescope/internal/utils"
)

const (
	configFlagName  = "config"
	outputFlagName  = "output"
	outputFlagShort = "o"
	hiddenFlagName  = "hidden"
	cacheFlagName   = "cache"
	extensionFlag   = "ext"
	noConsoleFlag   = "no-console"
	noFileFlag      = "no-file"
	tokensFlagName  = "tokens"
	modelFlagName   = "model"
	copyFlagName    = "copy"
	forceFlagName   = "force"

	versionTemplate      = "treescope version: {{.Version}}\n"
	rootUse              = "treescope"
	rootShortDescription = "treescope command line interface"
	rootLongDescription  = `treescope analyzes a folder and renders its structure as a tree.
It can embed the contents of selected file types and append aggregate statistics.
Results go to the console, to a report file, or to the clipboard.`

	scanUse              = "scan [path]"
	treeUse              = "tree [path]"
	initUse              = "init"
	scanAlias            = "s"
	treeAlias            = "t"
	scanShortDescription = "analyze a folder and produce the full report (" + scanAlias + ")"
	treeShortDescription = "render the directory tree only (" + treeAlias + ")"
	initShortDescription = "write the default configuration file"

	// scanLongDescription provides detailed help for the scan command.
	scanLongDescription = `Analyze a folder: render the directory tree, embed the contents of files
whose extension is allow-listed, and append a statistics summary.
Destinations follow the configuration; --no-console and --no-file override it.`
	// scanUsageExample demonstrates scan command usage.
	scanUsageExample = `  # Analyze the current folder, dumping Python and Markdown sources
  treescope scan --ext .py --ext .md .

  # Analyze a project including hidden entries, report to file only
  treescope scan --hidden --no-console ~/projects/demo`

	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Render the directory tree for a path without content dumps or statistics.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Show the tree including cache artifacts
  treescope tree --cache .`

	// initLongDescription provides detailed help for the init command.
	initLongDescription = `Write the default ` + utils.ConfigFileName + ` into the working directory.
An existing file is preserved unless --force is given.`

	configFlagDescription    = "configuration file path"
	outputFlagDescription    = "output directory for the report file"
	hiddenFlagDescription    = "include hidden entries"
	cacheFlagDescription     = "include cache artifacts"
	extensionFlagDescription = "file extension whose content is embedded (repeatable)"
	noConsoleFlagDescription = "do not print the report to the console"
	noFileFlagDescription    = "do not write the report file"
	tokensFlagDescription    = "include token counts for embedded content"
	modelFlagDescription     = "tokenizer model to use for token counting"
	copyFlagDescription      = "copy the report to the clipboard"
	forceFlagDescription     = "overwrite an existing configuration file"

	errorInitializeTokenizer    = "initializing tokenizer: %w"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	warningClipboardMessage     = "unable to copy report to clipboard"
	reportWrittenMessage        = "report written"
	configWrittenMessage        = "configuration written"
)

// Execute runs the treescope application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command. Version handling goes
// through cobra's own --version flag so the exit path unwinds normally and
// deferred cleanup in main still runs.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Version:      utils.ApplicationVersion(),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.PersistentFlags().String(configFlagName, "", configFlagDescription)

	rootCommand.AddCommand(createScanCommand(logger))
	rootCommand.AddCommand(createTreeCommand(logger))
	rootCommand.AddCommand(createInitCommand(logger))
	return rootCommand
}

// scanFlagValues holds scan/tree flag targets; Changed lookups decide which
// become configuration overrides.
type scanFlagValues struct {
	outputDirectory   string
	includeHidden     bool
	includeCache      bool
	contentExtensions []string
	noConsole         bool
	noFile            bool
	countTokens       bool
	tokenizerModel    string
	copyToClipboard   bool
}

func createScanCommand(logger *zap.Logger) *cobra.Command {
	flagValues := &scanFlagValues{}
	scanCommand := &cobra.Command{
		Use:     scanUse,
		Aliases: []string{scanAlias},
		Short:   scanShortDescription,
		Long:    scanLongDescription,
		Example: scanUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runScan(command, arguments, flagValues, logger)
		},
	}
	registerScanFlags(scanCommand, flagValues)
	return scanCommand
}

func createTreeCommand(logger *zap.Logger) *cobra.Command {
	flagValues := &scanFlagValues{}
	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runTree(command, arguments, flagValues, logger)
		},
	}
	registerToggleFlag(treeCommand.Flags(), &flagValues.includeHidden, hiddenFlagName, false, hiddenFlagDescription)
	registerToggleFlag(treeCommand.Flags(), &flagValues.includeCache, cacheFlagName, false, cacheFlagDescription)
	registerToggleFlag(treeCommand.Flags(), &flagValues.copyToClipboard, copyFlagName, false, copyFlagDescription)
	return treeCommand
}

func createInitCommand(logger *zap.Logger) *cobra.Command {
	var forceOverwrite bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{Force: forceOverwrite})
			if initializeError != nil {
				return initializeError
			}
			logger.Info(configWrittenMessage, zap.String("path", writtenPath))
			return nil
		},
	}
	registerToggleFlag(initCommand.Flags(), &forceOverwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}

func registerScanFlags(scanCommand *cobra.Command, flagValues *scanFlagValues) {
	scanCommand.Flags().StringVarP(&flagValues.outputDirectory, outputFlagName, outputFlagShort, "", outputFlagDescription)
	scanCommand.Flags().StringSliceVar(&flagValues.contentExtensions, extensionFlag, nil, extensionFlagDescription)
	scanCommand.Flags().StringVar(&flagValues.tokenizerModel, modelFlagName, "", modelFlagDescription)
	registerToggleFlag(scanCommand.Flags(), &flagValues.includeHidden, hiddenFlagName, false, hiddenFlagDescription)
	registerToggleFlag(scanCommand.Flags(), &flagValues.includeCache, cacheFlagName, false, cacheFlagDescription)
	registerToggleFlag(scanCommand.Flags(), &flagValues.noConsole, noConsoleFlag, false, noConsoleFlagDescription)
	registerToggleFlag(scanCommand.Flags(), &flagValues.noFile, noFileFlag, false, noFileFlagDescription)
	registerToggleFlag(scanCommand.Flags(), &flagValues.countTokens, tokensFlagName, false, tokensFlagDescription)
	registerToggleFlag(scanCommand.Flags(), &flagValues.copyToClipboard, copyFlagName, false, copyFlagDescription)
}

func runScan(command *cobra.Command, arguments []string, flagValues *scanFlagValues, logger *zap.Logger) error {
	settings, resolveError := settingsFromInvocation(command, arguments, flagValues, logger)
	if resolveError != nil {
		return resolveError
	}

	analysisService := &analyzer.Service{Logger: logger}
	if settings.CountTokens {
		tokenCounter, _, counterError := tokenizer.NewCounter(settings.TokenizerModel)
		if counterError != nil {
			return fmt.Errorf(errorInitializeTokenizer, counterError)
		}
		analysisService.TokenCounter = tokenCounter
	}

	analysis, analyzeError := analysisService.Analyze(settings)
	if analyzeError != nil {
		return analyzeError
	}

	reportSink := output.NewSink()
	writtenPath, deliverError := reportSink.Deliver(analysis.Report, settings)
	if deliverError != nil {
		return deliverError
	}
	if writtenPath != "" {
		logger.Info(reportWrittenMessage, zap.String("path", writtenPath))
	}

	if flagValues.copyToClipboard {
		copyReportToClipboard(analysis.Report, logger)
	}
	return nil
}

func runTree(command *cobra.Command, arguments []string, flagValues *scanFlagValues, logger *zap.Logger) error {
	settings, resolveError := settingsFromInvocation(command, arguments, flagValues, logger)
	if resolveError != nil {
		return resolveError
	}

	renderer := &analyzer.Renderer{Settings: settings, Logger: logger}
	renderResult, renderError := renderer.Render()
	if renderError != nil {
		return renderError
	}

	var treeBuilder strings.Builder
	for _, treeLine := range renderResult.Lines {
		treeBuilder.WriteString(treeLine + "\n")
	}
	treeText := treeBuilder.String()
	fmt.Print(treeText)

	if flagValues.copyToClipboard {
		copyReportToClipboard(treeText, logger)
	}
	return nil
}

// settingsFromInvocation resolves configuration for one command invocation,
// layering explicitly changed flags over the configuration file.
func settingsFromInvocation(command *cobra.Command, arguments []string, flagValues *scanFlagValues, logger *zap.Logger) (types.Settings, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return types.Settings{}, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	explicitConfigPath, _ := command.Root().PersistentFlags().GetString(configFlagName)

	overrides := config.Overrides{}
	if len(arguments) > 0 {
		overrides.RootPath = &arguments[0]
	}
	if command.Flags().Changed(outputFlagName) {
		overrides.OutputDirectory = &flagValues.outputDirectory
	}
	if command.Flags().Changed(hiddenFlagName) {
		overrides.IncludeHidden = &flagValues.includeHidden
	}
	if command.Flags().Changed(cacheFlagName) {
		overrides.IncludeCache = &flagValues.includeCache
	}
	if command.Flags().Changed(extensionFlag) {
		overrides.ContentExtensions = &flagValues.contentExtensions
	}
	if command.Flags().Changed(noConsoleFlag) {
		consoleEnabled := !flagValues.noConsole
		overrides.OutputToConsole = &consoleEnabled
	}
	if command.Flags().Changed(noFileFlag) {
		fileEnabled := !flagValues.noFile
		overrides.OutputToFile = &fileEnabled
	}
	if command.Flags().Changed(tokensFlagName) {
		overrides.CountTokens = &flagValues.countTokens
	}
	if command.Flags().Changed(modelFlagName) {
		overrides.TokenizerModel = &flagValues.tokenizerModel
	}

	return config.ResolveSettings(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: explicitConfigPath,
	}, overrides, logger)
}

func copyReportToClipboard(report string, logger *zap.Logger) {
	clipboardService := clipboard.NewService()
	if copyError := clipboardService.Copy(report); copyError != nil {
		logger.Warn(warningClipboardMessage, zap.Error(copyError))
	}
}
