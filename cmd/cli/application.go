package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/pypublish/internal/execshell"
	"github.com/temirov/pypublish/internal/publish"
	"github.com/temirov/pypublish/internal/ui"
	"github.com/temirov/pypublish/internal/utils"
)

const (
	applicationNameConstant                 = "pypublish"
	applicationShortDescriptionConstant     = "Clean, build and upload a Python package"
	applicationLongDescriptionConstant      = "pypublish removes previous build output, builds fresh distribution artifacts, lists them and uploads them to the package index."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	versionFlagNameConstant                 = "version"
	versionFlagUsageConstant                = "Print the pypublish version and exit."
	versionOutputTemplateConstant           = "%s version: %s\n"
	unknownVersionConstant                  = "dev"
	develBuildVersionConstant               = "(devel)"
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	publishConfigurationKeyConstant         = "publish"
	environmentPrefixConstant               = "PYPUBLISH"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationRunIdentifierFieldConstant = "run_id"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	defaultConfigurationSearchPathConstant  = "."
	defaultFailureExitCodeConstant          = 1
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common  ApplicationCommonConfiguration `mapstructure:"common"`
	Publish publish.Configuration          `mapstructure:"publish"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	consoleLogger          *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	versionFlagValue       bool
	commandContextAccessor utils.CommandContextAccessor
	commandRunner          execshell.CommandRunner
	versionResolver        func(context.Context) string
	exitFunction           func(int)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		commandRunner:          newTerminalCommandRunner(),
		versionResolver:        resolveBuildVersion,
		exitFunction:           os.Exit,
	}

	publishBuilder := publish.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() publish.Configuration {
			return application.configuration.Publish
		},
		ExecutorProvider:       application.createExecutor,
		ReporterProvider:       application.createReporter,
		CommandContextAccessor: application.commandContextAccessor,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if application.versionFlagValue {
				application.printVersion(command)
				return nil
			}
			return application.initializeConfiguration(command)
		},
		RunE: publishBuilder.Run,
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().BoolVar(&application.versionFlagValue, versionFlagNameConstant, false, versionFlagUsageConstant)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the root command and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command.
func Execute() error {
	return NewApplication().Execute()
}

// ExitStatus maps an execution error to the process exit code and the message to print.
// Build and upload tool failures keep the tool's exit code. Tool failures of either kind
// return an empty message since the executor has already logged them.
func ExitStatus(executionError error) (int, string) {
	if executionError == nil {
		return 0, ""
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		exitCode := commandFailure.ExitCode()
		if exitCode <= 0 {
			exitCode = defaultFailureExitCodeConstant
		}
		return exitCode, ""
	}

	var executionFailure execshell.CommandExecutionError
	if errors.As(executionError, &executionFailure) {
		return defaultFailureExitCodeConstant, ""
	}

	return defaultFailureExitCodeConstant, executionError.Error()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	for configurationKey, configurationValue := range publish.DefaultConfigurationValues(publishConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger

	runIdentifier := uuid.NewString()

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(configurationRunIdentifierFieldConstant, runIdentifier),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithRunIdentifier(updatedContext, runIdentifier)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) createExecutor(logger *zap.Logger) (publish.CommandExecutor, error) {
	if application.humanReadableLoggingEnabled() {
		executor, executorError := execshell.NewShellExecutorWithObserver(logger, application.commandRunner, ui.NewToolConsole(application.consoleLogger, nil))
		if executorError != nil {
			return nil, executorError
		}
		return executor, nil
	}

	executor, executorError := execshell.NewShellExecutor(logger, application.commandRunner)
	if executorError != nil {
		return nil, executorError
	}
	return executor, nil
}

func (application *Application) createReporter(command *cobra.Command) publish.ArtifactReporter {
	var writer io.Writer = os.Stdout
	if command != nil {
		writer = command.OutOrStdout()
	}
	return ui.NewArtifactTableReporter(writer)
}

// printVersion writes the resolved version to the command output and exits without
// loading configuration.
func (application *Application) printVersion(command *cobra.Command) {
	executionContext := context.Background()
	var writer io.Writer = os.Stdout
	if command != nil {
		writer = command.OutOrStdout()
		if command.Context() != nil {
			executionContext = command.Context()
		}
	}
	resolvedVersion := strings.TrimSpace(application.versionResolver(executionContext))
	if len(resolvedVersion) == 0 {
		resolvedVersion = unknownVersionConstant
	}
	fmt.Fprintf(writer, versionOutputTemplateConstant, applicationNameConstant, resolvedVersion)
	application.exitFunction(0)
}

func newTerminalCommandRunner() execshell.CommandRunner {
	streams := utils.NewTerminalStreams(os.Stdout, os.Stderr)
	return execshell.NewStreamingOSCommandRunner(streams.StandardOutput, streams.StandardError)
}

func resolveBuildVersion(context.Context) string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available {
		return unknownVersionConstant
	}
	moduleVersion := strings.TrimSpace(buildInformation.Main.Version)
	if len(moduleVersion) == 0 || moduleVersion == develBuildVersionConstant {
		return unknownVersionConstant
	}
	return moduleVersion
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	if application.consoleLogger != application.logger {
		return application.syncLoggerInstance(application.consoleLogger)
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
