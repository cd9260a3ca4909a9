package publish

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/pypublish/internal/execshell"
	pathutils "github.com/temirov/pypublish/internal/utils/path"
)

var publishConfigurationHomeDirectoryExpander = pathutils.NewHomeExpander()

const (
	defaultBuildExecutableConstant  = string(execshell.CommandPython)
	defaultUploadExecutableConstant = string(execshell.CommandTwine)
)

const (
	defaultWorkingDirectoryConstant      = "."
	defaultOutputDirectoryConstant       = "dist"
	defaultBuildDirectoryConstant        = "build"
	defaultMetadataPatternConstant       = "*.egg-info"
	pythonModuleFlagConstant             = "-m"
	pythonBuildModuleConstant            = "build"
	twineUploadSubcommandConstant        = "upload"
	configurationKeySeparatorConstant    = "."
	workingDirectoryKeyConstant          = "working_directory"
	outputDirectoryKeyConstant           = "output_directory"
	buildDirectoryKeyConstant            = "build_directory"
	metadataPatternsKeyConstant          = "metadata_patterns"
	skipCleanKeyConstant                 = "skip_clean"
	buildExecutableKeyConstant           = "build.executable"
	buildArgumentsKeyConstant            = "build.arguments"
	uploadExecutableKeyConstant          = "upload.executable"
	uploadArgumentsKeyConstant           = "upload.arguments"
	parentDirectoryReferenceConstant     = ".."
	emptyValueReasonConstant             = "must not be empty"
	workingDirectoryReasonConstant       = "must stay inside the working directory"
	invalidPatternReasonTemplateConstant = "invalid pattern %q: %v"
	bareWildcardReasonTemplateConstant   = "pattern %q matches every entry"
	wildcardCharactersConstant           = "*?"
)

// Configuration describes where the pipeline runs and which tools it invokes.
// Relative directories are resolved against WorkingDirectory.
type Configuration struct {
	WorkingDirectory string            `mapstructure:"working_directory"`
	OutputDirectory  string            `mapstructure:"output_directory"`
	BuildDirectory   string            `mapstructure:"build_directory"`
	MetadataPatterns []string          `mapstructure:"metadata_patterns"`
	SkipClean        bool              `mapstructure:"skip_clean"`
	Build            ToolConfiguration `mapstructure:"build"`
	Upload           ToolConfiguration `mapstructure:"upload"`
}

// ToolConfiguration names an external executable and the arguments placed before any
// arguments the pipeline appends.
type ToolConfiguration struct {
	Executable string   `mapstructure:"executable"`
	Arguments  []string `mapstructure:"arguments"`
}

// DefaultConfiguration supplies the python -m build and twine upload pipeline.
func DefaultConfiguration() Configuration {
	return Configuration{
		WorkingDirectory: defaultWorkingDirectoryConstant,
		OutputDirectory:  defaultOutputDirectoryConstant,
		BuildDirectory:   defaultBuildDirectoryConstant,
		MetadataPatterns: []string{defaultMetadataPatternConstant},
		Build: ToolConfiguration{
			Executable: defaultBuildExecutableConstant,
			Arguments:  []string{pythonModuleFlagConstant, pythonBuildModuleConstant},
		},
		Upload: ToolConfiguration{
			Executable: defaultUploadExecutableConstant,
			Arguments:  []string{twineUploadSubcommandConstant},
		},
	}
}

// DefaultConfigurationValues flattens DefaultConfiguration into Viper keys under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	qualify := func(key string) string {
		trimmedPrefix := strings.TrimSpace(prefix)
		if len(trimmedPrefix) == 0 {
			return key
		}
		return trimmedPrefix + configurationKeySeparatorConstant + key
	}

	return map[string]any{
		qualify(workingDirectoryKeyConstant): defaults.WorkingDirectory,
		qualify(outputDirectoryKeyConstant):  defaults.OutputDirectory,
		qualify(buildDirectoryKeyConstant):   defaults.BuildDirectory,
		qualify(metadataPatternsKeyConstant): defaults.MetadataPatterns,
		qualify(skipCleanKeyConstant):        defaults.SkipClean,
		qualify(buildExecutableKeyConstant):  defaults.Build.Executable,
		qualify(buildArgumentsKeyConstant):   defaults.Build.Arguments,
		qualify(uploadExecutableKeyConstant): defaults.Upload.Executable,
		qualify(uploadArgumentsKeyConstant):  defaults.Upload.Arguments,
	}
}

// Sanitize trims values, expands a leading "~" in the working directory and drops empty entries.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.WorkingDirectory = publishConfigurationHomeDirectoryExpander.Expand(strings.TrimSpace(configuration.WorkingDirectory))
	if len(sanitized.WorkingDirectory) == 0 {
		sanitized.WorkingDirectory = defaultWorkingDirectoryConstant
	}
	sanitized.OutputDirectory = strings.TrimSpace(configuration.OutputDirectory)
	sanitized.BuildDirectory = strings.TrimSpace(configuration.BuildDirectory)
	sanitized.MetadataPatterns = sanitizeValues(configuration.MetadataPatterns)
	sanitized.Build = configuration.Build.sanitize()
	sanitized.Upload = configuration.Upload.sanitize()
	return sanitized
}

// Validate rejects configurations that could not run or whose cleanup would delete
// anything other than build output below the working directory.
func (configuration Configuration) Validate() error {
	if len(configuration.OutputDirectory) == 0 {
		return ConfigurationError{Key: outputDirectoryKeyConstant, Reason: emptyValueReasonConstant}
	}
	if !isContainedRelativePath(configuration.OutputDirectory) {
		return ConfigurationError{Key: outputDirectoryKeyConstant, Reason: workingDirectoryReasonConstant}
	}
	if len(configuration.BuildDirectory) > 0 && !isContainedRelativePath(configuration.BuildDirectory) {
		return ConfigurationError{Key: buildDirectoryKeyConstant, Reason: workingDirectoryReasonConstant}
	}
	for _, metadataPattern := range configuration.MetadataPatterns {
		if _, matchError := filepath.Match(metadataPattern, ""); matchError != nil {
			return ConfigurationError{Key: metadataPatternsKeyConstant, Reason: fmt.Sprintf(invalidPatternReasonTemplateConstant, metadataPattern, matchError)}
		}
		if !isContainedRelativePath(metadataPattern) {
			return ConfigurationError{Key: metadataPatternsKeyConstant, Reason: workingDirectoryReasonConstant}
		}
		if isBareWildcard(metadataPattern) {
			return ConfigurationError{Key: metadataPatternsKeyConstant, Reason: fmt.Sprintf(bareWildcardReasonTemplateConstant, metadataPattern)}
		}
	}
	if len(configuration.Build.Executable) == 0 {
		return ConfigurationError{Key: buildExecutableKeyConstant, Reason: emptyValueReasonConstant}
	}
	if len(configuration.Upload.Executable) == 0 {
		return ConfigurationError{Key: uploadExecutableKeyConstant, Reason: emptyValueReasonConstant}
	}
	return nil
}

func (configuration ToolConfiguration) sanitize() ToolConfiguration {
	return ToolConfiguration{
		Executable: strings.TrimSpace(configuration.Executable),
		Arguments:  sanitizeValues(configuration.Arguments),
	}
}

// isContainedRelativePath reports whether candidate names something strictly below the
// working directory. The working directory itself and absolute paths are rejected.
func isContainedRelativePath(candidate string) bool {
	if filepath.IsAbs(candidate) {
		return false
	}
	cleaned := filepath.Clean(candidate)
	if cleaned == defaultWorkingDirectoryConstant || cleaned == parentDirectoryReferenceConstant {
		return false
	}
	return !strings.HasPrefix(cleaned, parentDirectoryReferenceConstant+string(filepath.Separator))
}

// isBareWildcard reports whether the last element of pattern consists of wildcards only,
// such as "*", "**" or "src/?*".
func isBareWildcard(pattern string) bool {
	lastElement := filepath.Base(filepath.Clean(pattern))
	return len(strings.Trim(lastElement, wildcardCharactersConstant)) == 0
}

func sanitizeValues(values []string) []string {
	sanitizedValues := make([]string, 0, len(values))
	for _, value := range values {
		trimmedValue := strings.TrimSpace(value)
		if len(trimmedValue) == 0 {
			continue
		}
		sanitizedValues = append(sanitizedValues, trimmedValue)
	}
	return sanitizedValues
}
