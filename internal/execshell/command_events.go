package execshell

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that a build or upload tool is about to run.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that the tool exited and supplies its result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports tools that could not be started or awaited.
	CommandExecutionFailed(command ShellCommand, failure error)
}
