package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pypublish/internal/execshell"
	"github.com/temirov/pypublish/internal/publish"
)

const (
	fakeBuildScriptNameConstant           = "fake-build"
	fakeFailingBuildScriptNameConstant    = "fake-failing-build"
	fakeUploadScriptNameConstant          = "fake-upload"
	fakeBuildScriptContentConstant        = "#!/bin/sh\nmkdir -p dist\necho sdist > dist/demo-1.0.tar.gz\necho wheel > dist/demo-1.0-py3-none-any.whl\necho \"Successfully built demo-1.0.tar.gz and demo-1.0-py3-none-any.whl\"\n"
	fakeFailingBuildScriptContentConstant = "#!/bin/sh\necho \"ERROR Backend subprocess exited\" >&2\nexit 3\n"
	fakeUploadScriptTemplateConstant      = "#!/bin/sh\nindex=%q\nshift\nfor artifact in \"$@\"; do\n  if grep -qx \"$(basename \"$artifact\")\" \"$index\" 2>/dev/null; then\n    echo \"HTTPError: 400 Bad Request File already exists.\" >&2\n    exit 5\n  fi\ndone\nfor artifact in \"$@\"; do\n  basename \"$artifact\" >> \"$index\"\ndone\necho \"View at: https://test.pypi.org/project/demo/1.0/\"\n"
	pipelineEnvironmentPrefixConstant     = "PYPUBLISH_"
	duplicateUploadExitCodeConstant       = 5
	failingBuildExitCodeConstant          = 3
	expectedListingHeaderConstant         = "Found 2 distribution artifacts:"
	expectedUploadConfirmationConstant    = "View at: https://test.pypi.org/project/demo/1.0/"
	expectedDuplicateDiagnosticConstant   = "File already exists."
)

type pipelineFixture struct {
	projectDirectory string
	indexPath        string
	toolOutput       bytes.Buffer
	toolErrors       bytes.Buffer
	listing          bytes.Buffer
}

func newPipelineFixture(t *testing.T, buildScriptName string) *pipelineFixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	toolDirectory := t.TempDir()
	fixture := &pipelineFixture{
		projectDirectory: t.TempDir(),
		indexPath:        filepath.Join(toolDirectory, "index.txt"),
	}

	writeExecutable(t, filepath.Join(toolDirectory, fakeBuildScriptNameConstant), fakeBuildScriptContentConstant)
	writeExecutable(t, filepath.Join(toolDirectory, fakeFailingBuildScriptNameConstant), fakeFailingBuildScriptContentConstant)
	writeExecutable(t, filepath.Join(toolDirectory, fakeUploadScriptNameConstant), fmt.Sprintf(fakeUploadScriptTemplateConstant, fixture.indexPath))

	require.NoError(t, os.WriteFile(filepath.Join(fixture.projectDirectory, "pyproject.toml"), []byte("[project]\nname = \"demo\"\n"), 0o644))

	t.Setenv("PATH", toolDirectory+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv(pipelineEnvironmentPrefixConstant+"COMMON_LOG_LEVEL", "error")
	t.Setenv(pipelineEnvironmentPrefixConstant+"COMMON_LOG_FORMAT", "structured")
	t.Setenv(pipelineEnvironmentPrefixConstant+"PUBLISH_WORKING_DIRECTORY", fixture.projectDirectory)
	t.Setenv(pipelineEnvironmentPrefixConstant+"PUBLISH_BUILD_EXECUTABLE", buildScriptName)
	t.Setenv(pipelineEnvironmentPrefixConstant+"PUBLISH_BUILD_ARGUMENTS", "-m build")
	t.Setenv(pipelineEnvironmentPrefixConstant+"PUBLISH_UPLOAD_EXECUTABLE", fakeUploadScriptNameConstant)
	t.Setenv(pipelineEnvironmentPrefixConstant+"PUBLISH_UPLOAD_ARGUMENTS", "upload")

	return fixture
}

func (fixture *pipelineFixture) run(t *testing.T) error {
	t.Helper()

	fixture.toolOutput.Reset()
	fixture.toolErrors.Reset()
	fixture.listing.Reset()

	application := NewApplication()
	application.commandRunner = execshell.NewStreamingOSCommandRunner(&fixture.toolOutput, &fixture.toolErrors)
	application.rootCommand.SetOut(&fixture.listing)
	application.rootCommand.SetArgs([]string{})

	return application.Execute()
}

func writeExecutable(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
}

func TestPipelinePublishesFreshArtifacts(t *testing.T) {
	fixture := newPipelineFixture(t, fakeBuildScriptNameConstant)
	staleDirectory := filepath.Join(fixture.projectDirectory, "demo.egg-info")
	require.NoError(t, os.MkdirAll(staleDirectory, 0o755))

	require.NoError(t, fixture.run(t))

	require.NoDirExists(t, staleDirectory)
	require.Contains(t, fixture.listing.String(), expectedListingHeaderConstant)
	require.Contains(t, fixture.listing.String(), "demo-1.0.tar.gz")
	require.Contains(t, fixture.toolOutput.String(), expectedUploadConfirmationConstant)

	indexContent, readError := os.ReadFile(fixture.indexPath)
	require.NoError(t, readError)
	require.Equal(t, "demo-1.0-py3-none-any.whl\ndemo-1.0.tar.gz\n", string(indexContent))
}

func TestPipelineSecondRunFailsAtUpload(t *testing.T) {
	fixture := newPipelineFixture(t, fakeBuildScriptNameConstant)
	require.NoError(t, fixture.run(t))

	secondRunError := fixture.run(t)
	require.Error(t, secondRunError)

	var stageError publish.StageError
	require.ErrorAs(t, secondRunError, &stageError)
	require.Equal(t, publish.StageUpload, stageError.Stage)

	exitCode, message := ExitStatus(secondRunError)
	require.Equal(t, duplicateUploadExitCodeConstant, exitCode)
	require.Empty(t, message)
	require.Contains(t, fixture.toolErrors.String(), expectedDuplicateDiagnosticConstant)
}

func TestPipelineBuildFailureNeverReachesUpload(t *testing.T) {
	fixture := newPipelineFixture(t, fakeFailingBuildScriptNameConstant)

	runError := fixture.run(t)

	var stageError publish.StageError
	require.ErrorAs(t, runError, &stageError)
	require.Equal(t, publish.StageBuild, stageError.Stage)

	exitCode, _ := ExitStatus(runError)
	require.Equal(t, failingBuildExitCodeConstant, exitCode)
	require.Empty(t, fixture.listing.String())
	require.NoFileExists(t, fixture.indexPath)
}

func TestPipelineMissingUploadClientReportsOnce(t *testing.T) {
	fixture := newPipelineFixture(t, fakeBuildScriptNameConstant)
	t.Setenv(pipelineEnvironmentPrefixConstant+"PUBLISH_UPLOAD_EXECUTABLE", "twine-not-installed")

	runError := fixture.run(t)

	var executionFailure execshell.CommandExecutionError
	require.ErrorAs(t, runError, &executionFailure)
	require.Equal(t, execshell.CommandName("twine-not-installed"), executionFailure.Command.Name)

	exitCode, message := ExitStatus(runError)
	require.Equal(t, 1, exitCode)
	require.Empty(t, message)
	require.NoFileExists(t, fixture.indexPath)
}

func TestPipelineRejectsPositionalArguments(t *testing.T) {
	application := NewApplication()
	application.rootCommand.SetArgs([]string{"dist/demo-1.0.tar.gz"})

	require.ErrorIs(t, application.Execute(), publish.ErrUnexpectedArguments)
}
