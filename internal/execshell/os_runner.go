package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/cli/safeexec"
)

const (
	executableLookupErrorTemplateConstant = "unable to locate %s: %w"
)

// ExecutableResolver maps a command name to the path of the executable that serves it.
type ExecutableResolver func(commandName string) (string, error)

// OSCommandRunner executes commands using the operating system facilities.
// When output streams are configured the process output is copied to them verbatim
// while it is also captured into the ExecutionResult.
type OSCommandRunner struct {
	standardOutput     io.Writer
	standardError      io.Writer
	executableResolver ExecutableResolver
}

// NewStreamingOSCommandRunner constructs a runner that mirrors process output to the provided
// writers. Nil writers disable mirroring for that stream.
func NewStreamingOSCommandRunner(standardOutput io.Writer, standardError io.Writer) *OSCommandRunner {
	return &OSCommandRunner{
		standardOutput:     standardOutput,
		standardError:      standardError,
		executableResolver: safeexec.LookPath,
	}
}

// Run executes the supplied command using os/exec.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executablePath, resolveError := runner.resolveExecutable(command.Name)
	if resolveError != nil {
		return ExecutionResult{}, resolveError
	}

	executable := exec.CommandContext(executionContext, executablePath, command.Details.CommandLine()...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = teeWriter(&standardOutputBuffer, runner.standardOutput)
	executable.Stderr = teeWriter(&standardErrorBuffer, runner.standardError)

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}

func (runner *OSCommandRunner) resolveExecutable(commandName CommandName) (string, error) {
	resolver := runner.executableResolver
	if resolver == nil {
		resolver = safeexec.LookPath
	}

	executablePath, lookupError := resolver(string(commandName))
	if lookupError != nil {
		return "", fmt.Errorf(executableLookupErrorTemplateConstant, commandName, lookupError)
	}
	return executablePath, nil
}

func teeWriter(capture *bytes.Buffer, stream io.Writer) io.Writer {
	if stream == nil {
		return capture
	}
	return io.MultiWriter(capture, stream)
}
