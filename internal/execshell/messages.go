package execshell

import (
	"fmt"
	"path/filepath"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	artifactNamesJoinSeparatorConstant      = ", "
)

const (
	pythonModuleFlagConstant          = "-m"
	pythonBuildModuleNameConstant     = "build"
	twineUploadSubcommandNameConstant = "upload"
)

const (
	buildStartTemplateConstant             = "Building distribution artifacts in %s"
	buildSuccessTemplateConstant           = "Built distribution artifacts in %s"
	buildFailureTemplateConstant           = "Build failed in %s (exit code %d%s)"
	buildExecutionFailureTemplateConstant  = "Unable to run the build backend in %s: %s"
	uploadStartSingleTemplateConstant      = "Uploading %s"
	uploadStartTemplateConstant            = "Uploading %d artifacts: %s"
	uploadSuccessTemplateConstant          = "Uploaded %d artifacts"
	uploadFailureTemplateConstant          = "Upload of %d artifacts failed (exit code %d%s)"
	uploadExecutionFailureTemplateConstant = "Unable to run the upload client: %s"
	uploadNoArtifactsLabelConstant         = "no artifacts"
)

// CommandMessageFormatter builds human-readable messages describing command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage describes a command that exited with status zero.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage describes a command that exited with a non-zero status.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage describes a command that could not be executed.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	switch {
	case formatter.isBuildCommand(arguments):
		return formatter.describeBuildMessage(command, result, failure, stage)
	case formatter.isUploadCommand(arguments):
		return formatter.describeUploadMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) isBuildCommand(arguments []string) bool {
	for argumentIndex := 0; argumentIndex+1 < len(arguments); argumentIndex++ {
		if arguments[argumentIndex] == pythonModuleFlagConstant && arguments[argumentIndex+1] == pythonBuildModuleNameConstant {
			return true
		}
	}
	return false
}

func (formatter CommandMessageFormatter) isUploadCommand(arguments []string) bool {
	return len(arguments) > 0 && arguments[0] == twineUploadSubcommandNameConstant
}

func (formatter CommandMessageFormatter) describeBuildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(buildStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(buildSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(buildFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(buildExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeUploadMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	artifactNames := formatter.extractArtifactNames(command.Details.Operands)
	switch stage {
	case messageStageStart:
		switch len(artifactNames) {
		case 0:
			return fmt.Sprintf(uploadStartSingleTemplateConstant, uploadNoArtifactsLabelConstant)
		case 1:
			return fmt.Sprintf(uploadStartSingleTemplateConstant, artifactNames[0])
		default:
			return fmt.Sprintf(uploadStartTemplateConstant, len(artifactNames), strings.Join(artifactNames, artifactNamesJoinSeparatorConstant))
		}
	case messageStageSuccess:
		return fmt.Sprintf(uploadSuccessTemplateConstant, len(artifactNames))
	case messageStageFailure:
		return fmt.Sprintf(uploadFailureTemplateConstant, len(artifactNames), result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(uploadExecutionFailureTemplateConstant, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) extractArtifactNames(artifactPaths []string) []string {
	artifactNames := make([]string, 0, len(artifactPaths))
	for _, artifactPath := range artifactPaths {
		artifactNames = append(artifactNames, filepath.Base(artifactPath))
	}
	return artifactNames
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	commandLine := command.Details.CommandLine()
	if len(commandLine) > 0 {
		commandLabel = commandLabel + commandArgumentsJoinSeparatorConstant + strings.Join(commandLine, commandArgumentsJoinSeparatorConstant)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, lastLine(trimmedStandardError))
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

// lastLine keeps log lines short; the complete diagnostics were already streamed.
func lastLine(text string) string {
	lineBreakIndex := strings.LastIndex(text, "\n")
	if lineBreakIndex < 0 {
		return text
	}
	return strings.TrimSpace(text[lineBreakIndex+1:])
}
