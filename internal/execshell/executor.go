package execshell

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	commandNamePythonStringConstant           = "python3"
	commandNameTwineStringConstant            = "twine"
	loggerNotConfiguredMessageConstant        = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConstant = "shell executor command runner not configured"
	commandFailedErrorTemplateConstant        = "%s exited with code %d"
	commandExecutionErrorTemplateConstant     = "%s could not be executed: %v"
	logFieldCommandNameConstant               = "command_name"
	logFieldCommandArgumentsConstant          = "command_arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldErrorConstant                     = "error"
)

// CommandName identifies the executable a ShellCommand invokes.
type CommandName string

// Default executables used by the publish pipeline.
const (
	CommandPython CommandName = CommandName(commandNamePythonStringConstant)
	CommandTwine  CommandName = CommandName(commandNameTwineStringConstant)
)

var (
	// ErrLoggerNotConfigured indicates that NewShellExecutor received a nil logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates that NewShellExecutor received a nil runner.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandDetails describes how a command is invoked. Operands are placed after Arguments
// on the command line; for an upload they are the artifact paths.
type CommandDetails struct {
	Arguments        []string
	Operands         []string
	WorkingDirectory string
}

// CommandLine returns Arguments followed by Operands.
func (details CommandDetails) CommandLine() []string {
	commandLine := make([]string, 0, len(details.Arguments)+len(details.Operands))
	commandLine = append(commandLine, details.Arguments...)
	return append(commandLine, details.Operands...)
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner runs a single command to completion.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a process that ran and exited with a non-zero status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failing command and its exit status.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedErrorTemplateConstant, failure.Command.Name, failure.Result.ExitCode)
}

// ExitCode returns the exit status reported by the process.
func (failure CommandFailedError) ExitCode() int {
	return failure.Result.ExitCode
}

// CommandExecutionError reports a command that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the command that could not be executed.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, failure.Command.Name, failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs commands exactly once and reports their lifecycle.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	observer  CommandEventObserver
	formatter CommandMessageFormatter
}

// NewShellExecutor constructs an executor that reports lifecycle events through the logger.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithObserver(logger, runner, nil)
}

// NewShellExecutorWithObserver constructs an executor that forwards lifecycle events to observer.
// A nil observer falls back to structured logging.
func NewShellExecutorWithObserver(logger *zap.Logger, runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	return &ShellExecutor{
		logger:    logger,
		runner:    runner,
		observer:  observer,
		formatter: CommandMessageFormatter{},
	}, nil
}

// Execute runs the command once. A non-zero exit status yields CommandFailedError and
// a runner failure yields CommandExecutionError; both return an empty ExecutionResult.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.reportStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.reportExecutionFailure(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.reportCompleted(command, executionResult)
	if executionResult.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}

func (executor *ShellExecutor) reportStarted(command ShellCommand) {
	if executor.observer != nil {
		executor.observer.CommandStarted(command)
		return
	}
	executor.logger.Info(
		executor.formatter.BuildStartedMessage(command),
		executor.commandFields(command)...,
	)
}

func (executor *ShellExecutor) reportCompleted(command ShellCommand, result ExecutionResult) {
	if executor.observer != nil {
		executor.observer.CommandCompleted(command, result)
		return
	}
	fields := append(executor.commandFields(command), zap.Int(logFieldExitCodeConstant, result.ExitCode))
	if result.ExitCode == 0 {
		executor.logger.Info(executor.formatter.BuildSuccessMessage(command), fields...)
		return
	}
	executor.logger.Warn(executor.formatter.BuildFailureMessage(command, result), fields...)
}

func (executor *ShellExecutor) reportExecutionFailure(command ShellCommand, failure error) {
	if executor.observer != nil {
		executor.observer.CommandExecutionFailed(command, failure)
		return
	}
	fields := append(executor.commandFields(command), zap.NamedError(logFieldErrorConstant, failure))
	executor.logger.Error(executor.formatter.BuildExecutionFailureMessage(command, failure), fields...)
}

func (executor *ShellExecutor) commandFields(command ShellCommand) []zap.Field {
	return []zap.Field{
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.CommandLine()),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}
}
