package publish

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/temirov/pypublish/internal/filesystem"
)

// Cleaner removes build output left by previous runs.
type Cleaner struct {
	fileSystem filesystem.FileSystem
}

// NewCleaner constructs a Cleaner operating on fileSystem.
func NewCleaner(fileSystem filesystem.FileSystem) *Cleaner {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	return &Cleaner{fileSystem: fileSystem}
}

// Clean removes the output directory, the build directory and every entry matching a
// metadata pattern below workingDirectory. Absent paths are skipped silently; any other
// filesystem error aborts with CleanupError. A pattern match that is not strictly inside
// workingDirectory aborts before anything is removed. The removed paths are returned in order.
func (cleaner *Cleaner) Clean(workingDirectory string, configuration Configuration) ([]string, error) {
	candidatePaths := []string{filepath.Join(workingDirectory, configuration.OutputDirectory)}
	if len(configuration.BuildDirectory) > 0 {
		candidatePaths = append(candidatePaths, filepath.Join(workingDirectory, configuration.BuildDirectory))
	}

	for _, metadataPattern := range configuration.MetadataPatterns {
		globPattern := filepath.Join(workingDirectory, metadataPattern)
		matchedPaths, globError := cleaner.fileSystem.Glob(globPattern)
		if globError != nil {
			return nil, CleanupError{Path: globPattern, Cause: globError}
		}
		for _, matchedPath := range matchedPaths {
			if !isStrictlyInside(workingDirectory, matchedPath) {
				return nil, CleanupError{Path: matchedPath, Cause: ErrOutsideWorkingDirectory}
			}
		}
		candidatePaths = append(candidatePaths, matchedPaths...)
	}

	removedPaths := make([]string, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		removed, removeError := cleaner.remove(candidatePath)
		if removeError != nil {
			return removedPaths, removeError
		}
		if removed {
			removedPaths = append(removedPaths, candidatePath)
		}
	}

	return removedPaths, nil
}

func isStrictlyInside(workingDirectory string, candidatePath string) bool {
	relativePath, relativeError := filepath.Rel(workingDirectory, candidatePath)
	if relativeError != nil {
		return false
	}
	return isContainedRelativePath(relativePath)
}

func (cleaner *Cleaner) remove(candidatePath string) (bool, error) {
	if _, statError := cleaner.fileSystem.Stat(candidatePath); statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return false, nil
		}
		return false, CleanupError{Path: candidatePath, Cause: statError}
	}

	if removeError := cleaner.fileSystem.RemoveAll(candidatePath); removeError != nil {
		return false, CleanupError{Path: candidatePath, Cause: removeError}
	}

	return true, nil
}
