package publish

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pypublish/internal/utils"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current publish configuration.
type ConfigurationProvider func() Configuration

// ExecutorProvider creates the command executor used for the build and upload tools.
type ExecutorProvider func(logger *zap.Logger) (CommandExecutor, error)

// ReporterProvider creates the reporter that prints artifacts for the given command.
type ReporterProvider func(command *cobra.Command) ArtifactReporter

// CommandBuilder wires a Cobra command to the publish Service.
type CommandBuilder struct {
	LoggerProvider         LoggerProvider
	ConfigurationProvider  ConfigurationProvider
	ExecutorProvider       ExecutorProvider
	ReporterProvider       ReporterProvider
	CommandContextAccessor utils.CommandContextAccessor
}

// Run executes the full pipeline for command. It is suitable as a Cobra RunE.
func (builder *CommandBuilder) Run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return ErrUnexpectedArguments
	}

	logger := builder.resolveLogger()
	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:   logger,
		Executor: executor,
		Reporter: builder.resolveReporter(command),
	})
	if serviceError != nil {
		return serviceError
	}

	executionContext := command.Context()
	runIdentifier, _ := builder.CommandContextAccessor.RunIdentifier(executionContext)

	_, executionError := service.Execute(executionContext, Options{
		RunIdentifier: runIdentifier,
		Configuration: builder.resolveConfiguration(),
	})
	return executionError
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if builder.ExecutorProvider == nil {
		return nil, ErrExecutorNotConfigured
	}
	return builder.ExecutorProvider(logger)
}

func (builder *CommandBuilder) resolveReporter(command *cobra.Command) ArtifactReporter {
	if builder.ReporterProvider == nil {
		return nil
	}
	return builder.ReporterProvider(command)
}
