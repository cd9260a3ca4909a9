package publish_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pypublish/internal/publish"
)

func TestDefaultConfigurationValuesUsePrefix(testInstance *testing.T) {
	defaultValues := publish.DefaultConfigurationValues("publish")

	require.Equal(testInstance, "dist", defaultValues["publish.output_directory"])
	require.Equal(testInstance, "build", defaultValues["publish.build_directory"])
	require.Equal(testInstance, []string{"*.egg-info"}, defaultValues["publish.metadata_patterns"])
	require.Equal(testInstance, "python3", defaultValues["publish.build.executable"])
	require.Equal(testInstance, []string{"-m", "build"}, defaultValues["publish.build.arguments"])
	require.Equal(testInstance, "twine", defaultValues["publish.upload.executable"])
	require.Equal(testInstance, []string{"upload"}, defaultValues["publish.upload.arguments"])
	require.Equal(testInstance, false, defaultValues["publish.skip_clean"])

	unprefixedValues := publish.DefaultConfigurationValues("  ")
	require.Equal(testInstance, "dist", unprefixedValues["output_directory"])
}

func TestConfigurationSanitizeTrimsValues(testInstance *testing.T) {
	configuration := publish.Configuration{
		WorkingDirectory: "  ",
		OutputDirectory:  " dist ",
		BuildDirectory:   " build",
		MetadataPatterns: []string{" *.egg-info ", "", "  "},
		Build:            publish.ToolConfiguration{Executable: " python3 ", Arguments: []string{"-m", " ", "build"}},
		Upload:           publish.ToolConfiguration{Executable: "twine", Arguments: []string{" upload "}},
	}

	sanitized := configuration.Sanitize()

	require.Equal(testInstance, ".", sanitized.WorkingDirectory)
	require.Equal(testInstance, "dist", sanitized.OutputDirectory)
	require.Equal(testInstance, "build", sanitized.BuildDirectory)
	require.Equal(testInstance, []string{"*.egg-info"}, sanitized.MetadataPatterns)
	require.Equal(testInstance, "python3", sanitized.Build.Executable)
	require.Equal(testInstance, []string{"-m", "build"}, sanitized.Build.Arguments)
	require.Equal(testInstance, []string{"upload"}, sanitized.Upload.Arguments)
}

func TestConfigurationValidate(testInstance *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(configuration *publish.Configuration)
		expectedKey   string
		expectSuccess bool
	}{
		{
			name:          "defaults",
			mutate:        func(configuration *publish.Configuration) {},
			expectSuccess: true,
		},
		{
			name:          "build_directory_disabled",
			mutate:        func(configuration *publish.Configuration) { configuration.BuildDirectory = "" },
			expectSuccess: true,
		},
		{
			name:        "empty_output_directory",
			mutate:      func(configuration *publish.Configuration) { configuration.OutputDirectory = "" },
			expectedKey: "output_directory",
		},
		{
			name:        "working_directory_as_output",
			mutate:      func(configuration *publish.Configuration) { configuration.OutputDirectory = "./" },
			expectedKey: "output_directory",
		},
		{
			name:        "output_outside_working_directory",
			mutate:      func(configuration *publish.Configuration) { configuration.OutputDirectory = "../dist" },
			expectedKey: "output_directory",
		},
		{
			name:        "absolute_build_directory",
			mutate:      func(configuration *publish.Configuration) { configuration.BuildDirectory = "/tmp/build" },
			expectedKey: "build_directory",
		},
		{
			name:        "malformed_pattern",
			mutate:      func(configuration *publish.Configuration) { configuration.MetadataPatterns = []string{"[.egg-info"} },
			expectedKey: "metadata_patterns",
		},
		{
			name:        "bare_wildcard_pattern",
			mutate:      func(configuration *publish.Configuration) { configuration.MetadataPatterns = []string{"*"} },
			expectedKey: "metadata_patterns",
		},
		{
			name:        "double_star_pattern",
			mutate:      func(configuration *publish.Configuration) { configuration.MetadataPatterns = []string{"*.egg-info", "**"} },
			expectedKey: "metadata_patterns",
		},
		{
			name:        "question_star_pattern",
			mutate:      func(configuration *publish.Configuration) { configuration.MetadataPatterns = []string{"?*"} },
			expectedKey: "metadata_patterns",
		},
		{
			name:        "nested_bare_wildcard_pattern",
			mutate:      func(configuration *publish.Configuration) { configuration.MetadataPatterns = []string{"src/*"} },
			expectedKey: "metadata_patterns",
		},
		{
			name:          "nested_egg_info_pattern",
			mutate:        func(configuration *publish.Configuration) { configuration.MetadataPatterns = []string{"src/*.egg-info"} },
			expectSuccess: true,
		},
		{
			name:        "missing_build_executable",
			mutate:      func(configuration *publish.Configuration) { configuration.Build.Executable = "" },
			expectedKey: "build.executable",
		},
		{
			name:        "missing_upload_executable",
			mutate:      func(configuration *publish.Configuration) { configuration.Upload.Executable = "" },
			expectedKey: "upload.executable",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configuration := publish.DefaultConfiguration()
			testCase.mutate(&configuration)

			validationError := configuration.Validate()
			if testCase.expectSuccess {
				require.NoError(testInstance, validationError)
				return
			}

			var configurationError publish.ConfigurationError
			require.ErrorAs(testInstance, validationError, &configurationError)
			require.Equal(testInstance, testCase.expectedKey, configurationError.Key)
		})
	}
}
