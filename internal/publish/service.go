package publish

import (
	"context"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/temirov/pypublish/internal/execshell"
	"github.com/temirov/pypublish/internal/filesystem"
)

const (
	logFieldRunIdentifierConstant    = "run_id"
	logFieldStageConstant            = "stage"
	logFieldWorkingDirectoryConstant = "working_directory"
	logFieldRemovedPathsConstant     = "removed_paths"
	logFieldArtifactCountConstant    = "artifact_count"
	logFieldTotalBytesConstant       = "total_bytes"
	logFieldTotalSizeConstant        = "total_size"
	logFieldModifiedSinceConstant    = "modified_since"
	publishStartedMessageConstant    = "publish started"
	stageSkippedMessageConstant      = "stage skipped"
	stageCompletedMessageConstant    = "stage completed"
	publishCompletedMessageConstant  = "publish completed"
)

// CommandExecutor runs an external tool once and reports non-zero exits as errors.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// ArtifactReporter presents the artifacts of a run to the operator.
type ArtifactReporter interface {
	ReportArtifacts(artifacts []Artifact) error
}

// ServiceDependencies collects the collaborators of Service. FileSystem and Clock
// default to the operating system.
type ServiceDependencies struct {
	Logger     *zap.Logger
	Executor   CommandExecutor
	Reporter   ArtifactReporter
	FileSystem filesystem.FileSystem
	Clock      func() time.Time
}

// Options configures a single pipeline run.
type Options struct {
	RunIdentifier string
	Configuration Configuration
}

// Result summarizes a successful run.
type Result struct {
	RunIdentifier string
	RemovedPaths  []string
	Artifacts     []Artifact
}

// Service runs the clean, build, list and upload stages in order and stops at the
// first failure. No stage is retried.
type Service struct {
	logger     *zap.Logger
	executor   CommandExecutor
	reporter   ArtifactReporter
	fileSystem filesystem.FileSystem
	cleaner    *Cleaner
	lister     *Lister
	clock      func() time.Time
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if dependencies.Reporter == nil {
		return nil, ErrReporterNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fileSystem := dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		logger:     logger,
		executor:   dependencies.Executor,
		reporter:   dependencies.Reporter,
		fileSystem: fileSystem,
		cleaner:    NewCleaner(fileSystem),
		lister:     NewLister(fileSystem),
		clock:      clock,
	}, nil
}

// Execute runs the pipeline. Failures are returned as StageError; build and upload tool
// failures wrap execshell.CommandFailedError so callers can propagate the exit code.
func (service *Service) Execute(executionContext context.Context, options Options) (Result, error) {
	configuration := options.Configuration.Sanitize()
	if validationError := configuration.Validate(); validationError != nil {
		return Result{}, validationError
	}

	workingDirectory, absoluteError := service.fileSystem.Abs(configuration.WorkingDirectory)
	if absoluteError != nil {
		return Result{}, ConfigurationError{Key: workingDirectoryKeyConstant, Reason: absoluteError.Error()}
	}

	runIdentifier := options.RunIdentifier
	if len(runIdentifier) == 0 {
		runIdentifier = uuid.NewString()
	}
	runLogger := service.logger.With(zap.String(logFieldRunIdentifierConstant, runIdentifier))
	runLogger.Info(publishStartedMessageConstant, zap.String(logFieldWorkingDirectoryConstant, workingDirectory))

	result := Result{RunIdentifier: runIdentifier}

	if configuration.SkipClean {
		runLogger.Info(stageSkippedMessageConstant, zap.String(logFieldStageConstant, string(StageClean)))
	} else {
		removedPaths, cleanError := service.cleaner.Clean(workingDirectory, configuration)
		if cleanError != nil {
			return result, StageError{Stage: StageClean, Cause: cleanError}
		}
		result.RemovedPaths = removedPaths
		runLogger.Info(stageCompletedMessageConstant, zap.String(logFieldStageConstant, string(StageClean)), zap.Strings(logFieldRemovedPathsConstant, removedPaths))
	}

	// Filesystems may store modification times with one second granularity.
	buildStartedAt := service.clock().Truncate(time.Second)
	buildCommand := execshell.ShellCommand{
		Name: execshell.CommandName(configuration.Build.Executable),
		Details: execshell.CommandDetails{
			Arguments:        append([]string{}, configuration.Build.Arguments...),
			WorkingDirectory: workingDirectory,
		},
	}
	if _, buildError := service.executor.Execute(executionContext, buildCommand); buildError != nil {
		return result, StageError{Stage: StageBuild, Cause: buildError}
	}
	runLogger.Info(stageCompletedMessageConstant, zap.String(logFieldStageConstant, string(StageBuild)))

	var modifiedSince time.Time
	if configuration.SkipClean {
		modifiedSince = buildStartedAt
	}
	outputDirectory := filepath.Join(workingDirectory, configuration.OutputDirectory)
	artifacts, listError := service.lister.List(outputDirectory, modifiedSince)
	if listError != nil {
		return result, StageError{Stage: StageList, Cause: listError}
	}
	if reportError := service.reporter.ReportArtifacts(artifacts); reportError != nil {
		return result, StageError{Stage: StageList, Cause: reportError}
	}
	result.Artifacts = artifacts
	runLogger.Info(
		stageCompletedMessageConstant,
		zap.String(logFieldStageConstant, string(StageList)),
		zap.Int(logFieldArtifactCountConstant, len(artifacts)),
		zap.Time(logFieldModifiedSinceConstant, modifiedSince),
	)

	if len(artifacts) == 0 {
		return result, StageError{Stage: StageUpload, Cause: ErrNoArtifacts}
	}

	artifactPaths := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		artifactPaths = append(artifactPaths, uploadArgument(workingDirectory, artifact))
	}
	uploadCommand := execshell.ShellCommand{
		Name: execshell.CommandName(configuration.Upload.Executable),
		Details: execshell.CommandDetails{
			Arguments:        append([]string{}, configuration.Upload.Arguments...),
			Operands:         artifactPaths,
			WorkingDirectory: workingDirectory,
		},
	}
	if _, uploadError := service.executor.Execute(executionContext, uploadCommand); uploadError != nil {
		return result, StageError{Stage: StageUpload, Cause: uploadError}
	}

	totalBytes := TotalSize(artifacts)
	runLogger.Info(
		publishCompletedMessageConstant,
		zap.Int(logFieldArtifactCountConstant, len(artifacts)),
		zap.Int64(logFieldTotalBytesConstant, totalBytes),
		zap.String(logFieldTotalSizeConstant, humanize.Bytes(uint64(totalBytes))),
	)

	return result, nil
}

// uploadArgument names artifacts relative to the working directory, the way an operator
// would type them, falling back to the absolute path.
func uploadArgument(workingDirectory string, artifact Artifact) string {
	relativePath, relativeError := filepath.Rel(workingDirectory, artifact.Path)
	if relativeError != nil {
		return artifact.Path
	}
	return relativePath
}
