package publish

import (
	"errors"
	"fmt"
)

const (
	noArtifactsMessageConstant              = "no distribution artifacts found in the output directory"
	executorNotConfiguredMessageConstant    = "publish service command executor not configured"
	reporterNotConfiguredMessageConstant    = "publish service artifact reporter not configured"
	cleanupErrorTemplateConstant            = "unable to remove %s: %v"
	configurationErrorTemplateConstant      = "invalid publish configuration: %s %s"
	stageErrorTemplateConstant              = "%s stage failed: %v"
	unexpectedArgumentsErrorMessageConstant = "pypublish does not accept positional arguments"
	outsideWorkingDirectoryMessageConstant  = "path is not strictly inside the working directory"
)

// Stage names one step of the publish pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageClean  Stage = "clean"
	StageBuild  Stage = "build"
	StageList   Stage = "list"
	StageUpload Stage = "upload"
)

var (
	// ErrNoArtifacts reports an output directory that holds nothing to upload after the build.
	ErrNoArtifacts = errors.New(noArtifactsMessageConstant)
	// ErrExecutorNotConfigured indicates that NewService received no command executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrReporterNotConfigured indicates that NewService received no artifact reporter.
	ErrReporterNotConfigured = errors.New(reporterNotConfiguredMessageConstant)
	// ErrUnexpectedArguments reports positional arguments passed to the publish command.
	ErrUnexpectedArguments = errors.New(unexpectedArgumentsErrorMessageConstant)
	// ErrOutsideWorkingDirectory rejects a cleanup match that resolves to the working directory or above it.
	ErrOutsideWorkingDirectory = errors.New(outsideWorkingDirectoryMessageConstant)
)

// CleanupError reports a path that exists but could not be inspected or removed.
type CleanupError struct {
	Path  string
	Cause error
}

// Error describes the path that could not be removed.
func (failure CleanupError) Error() string {
	return fmt.Sprintf(cleanupErrorTemplateConstant, failure.Path, failure.Cause)
}

// Unwrap exposes the underlying filesystem error.
func (failure CleanupError) Unwrap() error {
	return failure.Cause
}

// ConfigurationError reports a configuration key holding an unusable value.
type ConfigurationError struct {
	Key    string
	Reason string
}

// Error describes the offending key.
func (failure ConfigurationError) Error() string {
	return fmt.Sprintf(configurationErrorTemplateConstant, failure.Key, failure.Reason)
}

// StageError attributes a failure to the pipeline stage that produced it.
type StageError struct {
	Stage Stage
	Cause error
}

// Error prefixes the cause with the failing stage.
func (failure StageError) Error() string {
	return fmt.Sprintf(stageErrorTemplateConstant, failure.Stage, failure.Cause)
}

// Unwrap exposes the stage failure cause.
func (failure StageError) Unwrap() error {
	return failure.Cause
}
