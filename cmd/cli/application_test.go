package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/pypublish/cmd/cli"
	"github.com/temirov/pypublish/internal/execshell"
	"github.com/temirov/pypublish/internal/publish"
)

const (
	embeddedDefaultLogLevelConstant  = "info"
	embeddedDefaultLogFormatConstant = "console"
	testUploadExitCodeConstant       = 5
)

func TestEmbeddedDefaultConfigurationIsValidYAML(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)

	var document map[string]map[string]any
	require.NoError(testInstance, yaml.Unmarshal(configurationData, &document))
	require.Contains(testInstance, document, "common")
	require.Contains(testInstance, document, "publish")
}

func TestEmbeddedDefaultsMatchPublishDefaults(testInstance *testing.T) {
	configuration := decodeEmbeddedApplicationConfiguration(testInstance)

	require.Equal(testInstance, embeddedDefaultLogLevelConstant, configuration.Common.LogLevel)
	require.Equal(testInstance, embeddedDefaultLogFormatConstant, configuration.Common.LogFormat)
	require.Equal(testInstance, publish.DefaultConfiguration(), configuration.Publish)
	require.NoError(testInstance, configuration.Publish.Validate())
}

func TestEmbeddedPublishSectionDecodesWithMapstructure(testInstance *testing.T) {
	configurationData, _ := cli.EmbeddedDefaultConfiguration()

	var document map[string]map[string]any
	require.NoError(testInstance, yaml.Unmarshal(configurationData, &document))

	var configuration publish.Configuration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: &configuration})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(document["publish"]))

	require.Equal(testInstance, "python3", configuration.Build.Executable)
	require.Equal(testInstance, []string{"upload"}, configuration.Upload.Arguments)
}

func TestExitStatus(testInstance *testing.T) {
	uploadFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandTwine},
		Result:  execshell.ExecutionResult{ExitCode: testUploadExitCodeConstant},
	}

	testCases := []struct {
		name             string
		executionError   error
		expectedExitCode int
		expectedMessage  string
	}{
		{
			name:             "success",
			expectedExitCode: 0,
		},
		{
			name:             "tool_exit_code_propagated",
			executionError:   publish.StageError{Stage: publish.StageUpload, Cause: uploadFailure},
			expectedExitCode: testUploadExitCodeConstant,
		},
		{
			name: "tool_exit_code_not_positive",
			executionError: execshell.CommandFailedError{
				Command: execshell.ShellCommand{Name: execshell.CommandPython},
				Result:  execshell.ExecutionResult{ExitCode: -1},
			},
			expectedExitCode: 1,
		},
		{
			name: "tool_not_runnable",
			executionError: publish.StageError{Stage: publish.StageBuild, Cause: execshell.CommandExecutionError{
				Command: execshell.ShellCommand{Name: execshell.CommandPython},
				Cause:   errors.New("unable to locate python3: executable file not found in $PATH"),
			}},
			expectedExitCode: 1,
		},
		{
			name:             "missing_artifacts",
			executionError:   publish.StageError{Stage: publish.StageUpload, Cause: publish.ErrNoArtifacts},
			expectedExitCode: 1,
			expectedMessage:  "upload stage failed: " + publish.ErrNoArtifacts.Error(),
		},
		{
			name:             "other_failure",
			executionError:   fmt.Errorf("unable to load configuration: %w", errors.New("broken")),
			expectedExitCode: 1,
			expectedMessage:  "unable to load configuration: broken",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			exitCode, message := cli.ExitStatus(testCase.executionError)

			require.Equal(testInstance, testCase.expectedExitCode, exitCode)
			require.Equal(testInstance, testCase.expectedMessage, message)
		})
	}
}

func decodeEmbeddedApplicationConfiguration(testingInstance testing.TB) cli.ApplicationConfiguration {
	testingInstance.Helper()

	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)

	readError := viperInstance.ReadConfig(bytes.NewReader(configurationData))
	require.NoError(testingInstance, readError)

	var configuration cli.ApplicationConfiguration
	unmarshalError := viperInstance.Unmarshal(&configuration)
	require.NoError(testingInstance, unmarshalError)

	return configuration
}
