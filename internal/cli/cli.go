// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/treeline-dev/treeline/internal/config"
	"github.com/treeline-dev/treeline/internal/output"
	"github.com/treeline-dev/treeline/internal/services/stream"
	"github.com/treeline-dev/treeline/internal/types"
	"github.com/treeline-dev/treeline/internal/utils"
)

const (
	rootUse              = "treeline [root_path]"
	rootShortDescription = "render an indented directory tree"
	rootLongDescription  = `treeline renders a textual, indented visualization of a directory hierarchy.
Subdirectories are visited in lexicographic order; ignored names are pruned
from output and descent. The result goes to stdout or, with --output-file,
to a file. Invoked with no arguments at all, treeline renders its own
containing directory into a sibling ` + types.DefaultOutputFileName + `.`
	rootUsageExample = `  # Render the current project, skipping dependencies
  treeline -i node_modules -i .git .

  # Write the tree of /etc to a file, following symlinks
  treeline -l -o etc_tree.txt /etc`

	outputFileFlagName        = "output-file"
	outputFileFlagShorthand   = "o"
	outputFileFlagDescription = "write the tree to a file instead of stdout"

	ignoreFlagName        = "ignore"
	ignoreFlagShorthand   = "i"
	ignoreFlagDescription = "exact entry name to ignore (repeatable)"

	followSymlinksFlagName        = "follow-symlinks"
	followSymlinksFlagShorthand   = "l"
	followSymlinksFlagDescription = "follow symbolic directory links (no cycle detection)"

	safeModeFlagName        = "safe-mode"
	safeModeFlagShorthand   = "s"
	safeModeFlagDescription = "enable safe mode (accepted; does not restrict symlink following yet)"

	copyFlagName        = "copy"
	copyFlagDescription = "copy the rendered tree to the system clipboard"

	versionFlagName        = "version"
	versionFlagDescription = "display application version"
	versionTemplate        = "treeline version: %s\n"

	configUse                  = "config"
	configShortDescription     = "manage treeline configuration"
	configInitUse              = "init"
	configInitShortDescription = "write the default configuration file"
	configInitGlobalFlagName   = "global"
	configInitGlobalFlagUsage  = "write the configuration into the home directory instead of the working directory"
	configInitForceFlagName    = "force"
	configInitForceFlagUsage   = "overwrite an existing configuration file"
	configInitWrittenFormat    = "Configuration written to %s\n"

	// renderingDestinationMessageFormat is logged before traversal starts.
	renderingDestinationMessageFormat = "Outputting directory tree to: %s"
	// renderSummaryMessageFormat is logged after a successful render.
	renderSummaryMessageFormat = "Rendered %d directories and %d files (%d pruned)"

	// errorRootPathRequiredMessage is returned when flags are present but the positional path is not.
	errorRootPathRequiredMessage = "root directory path is required"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing root path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNotDirectoryFormat reports a root path that is not a directory.
	errorNotDirectoryFormat = "path '%s' is not a directory"
	// errorExecutablePathFormat reports failure to locate the running binary for fallback mode.
	errorExecutablePathFormat = "unable to determine executable path for fallback mode: %w"
)

// Execute runs the treeline application with the provided logger.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// renderOptions stores the flag values of the root command.
type renderOptions struct {
	outputFilePath  string
	ignoreNames     []string
	followSymlinks  bool
	safeMode        bool
	copyToClipboard bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool
	var flagValues renderOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			request, requestError := buildRenderRequest(command, arguments, &flagValues)
			if requestError != nil {
				return requestError
			}
			return runRender(command.Context(), logger, request)
		},
	}

	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringVarP(&flagValues.outputFilePath, outputFileFlagName, outputFileFlagShorthand, "", outputFileFlagDescription)
	rootCommand.Flags().StringArrayVarP(&flagValues.ignoreNames, ignoreFlagName, ignoreFlagShorthand, nil, ignoreFlagDescription)
	rootCommand.Flags().BoolVarP(&flagValues.followSymlinks, followSymlinksFlagName, followSymlinksFlagShorthand, false, followSymlinksFlagDescription)
	rootCommand.Flags().BoolVarP(&flagValues.safeMode, safeModeFlagName, safeModeFlagShorthand, false, safeModeFlagDescription)
	registerCopyFlag(rootCommand.Flags(), &flagValues.copyToClipboard)

	rootCommand.AddCommand(createConfigCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createConfigCommand returns the config subcommand with its init action.
func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
	}

	var initGlobal bool
	var initForce bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if initGlobal {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: initForce})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), configInitWrittenFormat, writtenPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&initGlobal, configInitGlobalFlagName, false, configInitGlobalFlagUsage)
	initCommand.Flags().BoolVar(&initForce, configInitForceFlagName, false, configInitForceFlagUsage)

	configCommand.AddCommand(initCommand)
	return configCommand
}

// buildRenderRequest merges configuration defaults, flag overrides, and the
// no-argument fallback into one immutable request.
func buildRenderRequest(command *cobra.Command, arguments []string, flagValues *renderOptions) (types.RenderRequest, error) {
	if len(arguments) == 0 && command.Flags().NFlag() == 0 {
		return fallbackRenderRequest()
	}
	if len(arguments) == 0 {
		return types.RenderRequest{}, errors.New(errorRootPathRequiredMessage)
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{})
	if configurationError != nil {
		return types.RenderRequest{}, configurationError
	}
	renderDefaults := applicationConfiguration.Render

	validatedRoot, rootValidationError := validateRootPath(arguments[0])
	if rootValidationError != nil {
		return types.RenderRequest{}, rootValidationError
	}

	request := types.RenderRequest{
		RootPath:       validatedRoot.AbsolutePath,
		OutputFilePath: renderDefaults.OutputFile,
		IgnoreNames:    append([]string{}, renderDefaults.Ignore...),
	}
	if renderDefaults.FollowSymlinks != nil {
		request.FollowSymlinks = *renderDefaults.FollowSymlinks
	}
	if renderDefaults.SafeMode != nil {
		request.SafeMode = *renderDefaults.SafeMode
	}
	if renderDefaults.Copy != nil {
		request.CopyToClipboard = *renderDefaults.Copy
	}

	commandFlags := command.Flags()
	if commandFlags.Changed(outputFileFlagName) {
		request.OutputFilePath = flagValues.outputFilePath
	}
	if commandFlags.Changed(followSymlinksFlagName) {
		request.FollowSymlinks = flagValues.followSymlinks
	}
	if commandFlags.Changed(safeModeFlagName) {
		request.SafeMode = flagValues.safeMode
	}
	if commandFlags.Changed(copyFlagName) {
		request.CopyToClipboard = flagValues.copyToClipboard
	}
	request.IgnoreNames = utils.DeduplicateNames(append(request.IgnoreNames, flagValues.ignoreNames...))

	return request, nil
}

// fallbackRenderRequest builds the zero-argument convenience configuration:
// the executable's own directory rendered into a fixed sibling file with a
// hardcoded ignore set. Safe mode defaults to true here while the flag
// default stays false; the historical surface kept both, so both stay.
func fallbackRenderRequest() (types.RenderRequest, error) {
	executablePath, executableError := os.Executable()
	if executableError != nil {
		return types.RenderRequest{}, fmt.Errorf(errorExecutablePathFormat, executableError)
	}
	rootPath := filepath.Dir(executablePath)
	return types.RenderRequest{
		RootPath:       rootPath,
		OutputFilePath: filepath.Join(rootPath, types.DefaultOutputFileName),
		FollowSymlinks: false,
		SafeMode:       true,
		IgnoreNames:    types.DefaultFallbackIgnoreNames(),
	}, nil
}

// validateRootPath converts the input to absolute form and requires an
// existing directory.
func validateRootPath(inputPath string) (types.ValidatedPath, error) {
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	pathInfo, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return types.ValidatedPath{}, fmt.Errorf(errorPathMissingFormat, inputPath)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
	}
	if !pathInfo.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf(errorNotDirectoryFormat, inputPath)
	}
	return types.ValidatedPath{AbsolutePath: cleanPath, IsDir: true}, nil
}

// runRender opens the destination, pumps the walk stream into the renderer,
// and closes the destination whether or not the traversal succeeded.
func runRender(ctx context.Context, logger *zap.Logger, request types.RenderRequest) (err error) {
	destination, openError := output.OpenDestination(request.OutputFilePath)
	if openError != nil {
		return openError
	}
	defer func() {
		if closeError := destination.Close(); closeError != nil && err == nil {
			err = closeError
		}
	}()

	logger.Info(fmt.Sprintf(renderingDestinationMessageFormat, destination.Name()))

	var copier output.Copier
	if request.CopyToClipboard {
		copier = output.NewClipboardCopier()
	}
	ignoreSet := types.NewIgnoreSet(request.IgnoreNames)
	renderer := output.NewLineRenderer(destination, os.Stderr, ignoreSet, copier)

	if ctx == nil {
		ctx = context.Background()
	}

	producer := func(streamCtx context.Context, events chan<- stream.Event) error {
		options := stream.WalkOptions{
			Root:           request.RootPath,
			Ignore:         ignoreSet,
			FollowSymlinks: request.FollowSymlinks,
			SafeMode:       request.SafeMode,
		}
		return stream.StreamWalk(streamCtx, options, events)
	}

	consumer := func(event stream.Event) error {
		if event.Kind == stream.EventKindSummary && event.Summary != nil {
			logger.Info(fmt.Sprintf(renderSummaryMessageFormat, event.Summary.Directories, event.Summary.Files, event.Summary.Pruned))
		}
		return renderer.Handle(event)
	}

	if dispatchError := dispatchStream(ctx, producer, consumer); dispatchError != nil {
		return dispatchError
	}
	return renderer.Flush()
}

// dispatchStream pumps producer events into the consumer through an errgroup
// so a failure on either side cancels the other.
func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if consumeError := consume(event); consumeError != nil {
					return consumeError
				}
			}
		}
	})

	if waitError := group.Wait(); waitError != nil && !errors.Is(waitError, context.Canceled) {
		return waitError
	}
	return nil
}
