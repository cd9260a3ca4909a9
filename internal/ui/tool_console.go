package ui

import (
	"time"

	"go.uber.org/zap"

	"github.com/temirov/pypublish/internal/execshell"
)

const (
	elapsedFieldNameConstant = "elapsed"
)

// ToolConsole narrates the build and upload tools on the console logger: one line when a
// tool starts and one when it finishes, the latter carrying how long the tool ran.
// A tool that exits non-zero or cannot be started fails the run and is logged as an error.
type ToolConsole struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
	clock     func() time.Time
	startedAt time.Time
}

// NewToolConsole builds a ToolConsole. A nil clock falls back to time.Now.
func NewToolConsole(logger *zap.Logger, clock func() time.Time) *ToolConsole {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &ToolConsole{logger: logger, clock: clock}
}

// CommandStarted records the start time and announces the tool.
func (console *ToolConsole) CommandStarted(command execshell.ShellCommand) {
	console.startedAt = console.clock()
	console.logger.Info(console.formatter.BuildStartedMessage(command))
}

// CommandCompleted reports the tool outcome with its elapsed time.
func (console *ToolConsole) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	elapsedField := zap.Duration(elapsedFieldNameConstant, console.elapsed())
	if result.ExitCode != 0 {
		console.logger.Error(console.formatter.BuildFailureMessage(command, result), elapsedField)
		return
	}
	console.logger.Info(console.formatter.BuildSuccessMessage(command), elapsedField)
}

// CommandExecutionFailed reports a tool that could not be started.
func (console *ToolConsole) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	console.logger.Error(console.formatter.BuildExecutionFailureMessage(command, failure))
}

func (console *ToolConsole) elapsed() time.Duration {
	if console.startedAt.IsZero() {
		return 0
	}
	return console.clock().Sub(console.startedAt).Round(time.Millisecond)
}
